package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorForWrapsAround(t *testing.T) {
	assert.Equal(t, ColorFor(0), ColorFor(len(palette)))
	assert.Equal(t, ColorFor(1), ColorFor(len(palette)+1))
	assert.NotEqual(t, ColorFor(0), ColorFor(1))
}

func TestColorForNegativeIndex(t *testing.T) {
	assert.NotPanics(t, func() { ColorFor(-3) })
}
