package components

import (
	"fmt"
	"strings"
)

var blocks = []rune{'\u2581', '\u2582', '\u2583', '\u2584', '\u2585', '\u2586', '\u2587', '\u2588'}

// Sparkline renders the newest width values as a single row of block
// characters, right-aligned.
func Sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return strings.Repeat(" ", width)
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}
	min, max := data[0], data[0]
	for _, v := range data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	var sb strings.Builder
	padding := width - len(data)
	for i := 0; i < padding; i++ {
		sb.WriteRune(' ')
	}
	spread := max - min
	for _, v := range data {
		if spread == 0 {
			sb.WriteRune(blocks[3])
		} else {
			normalized := (v - min) / spread
			idx := int(normalized * float64(len(blocks)-1))
			if idx >= len(blocks) {
				idx = len(blocks) - 1
			}
			sb.WriteRune(blocks[idx])
		}
	}
	return sb.String()
}

// FormatCount abbreviates a count: 1500 becomes "1.5K".
func FormatCount(v float64) string {
	if v == 0 {
		return "0"
	}
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	case v == float64(int64(v)):
		return fmt.Sprintf("%d", int64(v))
	default:
		return fmt.Sprintf("%.1f", v)
	}
}
