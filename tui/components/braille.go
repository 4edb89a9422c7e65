package components

import (
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/graph"
	"github.com/tonhe/shadow/internal/sparkline"
)

// brailleSteps is how finely each curve segment is sampled.
const brailleSteps = 8

// brailleBlank is the empty braille pattern.
const brailleBlank = '\u2800'

// BrailleSparkline renders data as a smooth sparkline cols cells wide and
// rows cells tall. The curve from sparkline.Render is flattened and traced
// onto a braille grid of 2x4 dots per cell.
func BrailleSparkline(data []float64, cols, rows int) string {
	cols = max(cols, 1)
	rows = max(rows, 1)
	w, h := float64(cols*2), float64(rows*4)

	grid := graph.NewBrailleGrid(cols, rows, 0, w-1, 0, h-1)
	path := sparkline.Render(data, w, h)
	if !path.Empty() {
		traceBraille(grid, path.Flatten(brailleSteps), h)
	}
	return brailleString(grid.BraillePatterns(), cols, rows)
}

// traceBraille connects consecutive points on the grid. Path coordinates grow
// downwards while grid data coordinates grow upwards, so y is flipped.
func traceBraille(grid *graph.BrailleGrid, pts []sparkline.Point, h float64) {
	var prev canvas.Point
	for i, p := range pts {
		gp := grid.GridPoint(canvas.Float64Point{X: p.X, Y: h - 1 - p.Y})
		if i == 0 {
			grid.Set(gp)
		} else {
			for _, lp := range graph.GetLinePoints(prev, gp) {
				grid.Set(lp)
			}
		}
		prev = gp
	}
}

// brailleString joins the grid's patterns into rows of exactly cols cells.
// Empty cells become spaces.
func brailleString(patterns [][]rune, cols, rows int) string {
	var sb strings.Builder
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < cols; c++ {
			ch := rune(0)
			if r < len(patterns) && c < len(patterns[r]) {
				ch = patterns[r][c]
			}
			if ch == 0 || ch == brailleBlank {
				ch = ' '
			}
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}
