package models

// palette matches the dashboard card colors the client used to assign
// locally. Kept server-side so every listing hands out the same color for
// the same row position.
var palette = []string{
	"#516d78", "#1b52d0", "#da007a", "#f55c00",
	"#00a2ae", "#009842", "#a400e3", "#4072f3",
}

// ColorFor returns the palette color for a list index.
func ColorFor(index int) string {
	if index < 0 {
		index = -index
	}
	return palette[index%len(palette)]
}
