package pivot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPivotSortsDatesAndFillsSentinel(t *testing.T) {
	// Dates arrive unsorted; Bob has no record on the 16th.
	records := []Record{
		{Date: "2025-08-16", StudentID: "101", StudentName: "Alice", Status: "P"},
		{Date: "2025-08-15", StudentID: "101", StudentName: "Alice", Status: "P"},
		{Date: "2025-08-15", StudentID: "102", StudentName: "Bob", Status: "A"},
	}

	grid := Pivot(records)

	assert.Equal(t, []string{"2025-08-15", "2025-08-16"}, grid.Dates)
	assert.Len(t, grid.Rows, 2)

	assert.Equal(t, "101", grid.Rows[0].RollNo)
	assert.Equal(t, "Alice", grid.Rows[0].Name)
	assert.Equal(t, []string{"P", "P"}, grid.Rows[0].Attendance)

	assert.Equal(t, "102", grid.Rows[1].RollNo)
	assert.Equal(t, []string{"A", NoRecord}, grid.Rows[1].Attendance)
}

func TestPivotEmptyInput(t *testing.T) {
	grid := Pivot(nil)
	assert.Empty(t, grid.Dates)
	assert.Empty(t, grid.Rows)

	grid = Pivot([]Record{})
	assert.Empty(t, grid.Dates)
	assert.Empty(t, grid.Rows)
}

func TestPivotFirstSeenNameWins(t *testing.T) {
	records := []Record{
		{Date: "2025-08-15", StudentID: "101", StudentName: "Alice", Status: "P"},
		{Date: "2025-08-16", StudentID: "101", StudentName: "Alicia", Status: "A"},
	}

	grid := Pivot(records)

	assert.Len(t, grid.Rows, 1)
	assert.Equal(t, "Alice", grid.Rows[0].Name)
	assert.Equal(t, []string{"P", "A"}, grid.Rows[0].Attendance)
}

func TestPivotCollapsesDuplicateCells(t *testing.T) {
	records := []Record{
		{Date: "2025-08-15", StudentID: "101", StudentName: "Alice", Status: "P"},
		{Date: "2025-08-15", StudentID: "101", StudentName: "Alice", Status: "A"},
	}

	grid := Pivot(records)

	assert.Len(t, grid.Rows, 1)
	assert.Equal(t, []string{"P"}, grid.Rows[0].Attendance)
}

func TestPivotRowOrderIsFirstSeen(t *testing.T) {
	records := []Record{
		{Date: "2025-08-15", StudentID: "103", StudentName: "Carol", Status: "P"},
		{Date: "2025-08-15", StudentID: "101", StudentName: "Alice", Status: "P"},
		{Date: "2025-08-16", StudentID: "103", StudentName: "Carol", Status: "A"},
	}

	grid := Pivot(records)

	assert.Equal(t, "103", grid.Rows[0].RollNo)
	assert.Equal(t, "101", grid.Rows[1].RollNo)
}

func TestPivotEveryRowSpansEveryDate(t *testing.T) {
	records := []Record{
		{Date: "2025-08-15", StudentID: "101", StudentName: "Alice", Status: "P"},
		{Date: "2025-08-16", StudentID: "102", StudentName: "Bob", Status: "P"},
		{Date: "2025-08-17", StudentID: "103", StudentName: "Carol", Status: "A"},
	}

	grid := Pivot(records)

	assert.Len(t, grid.Dates, 3)
	for _, row := range grid.Rows {
		assert.Len(t, row.Attendance, len(grid.Dates))
	}
}
