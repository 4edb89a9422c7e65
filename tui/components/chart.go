package components

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// dayBlocks fill a cell in eighths, from empty to full.
var dayBlocks = []rune(" ▁▂▃▄▅▆▇█")

// chartAxisWidth is the count label plus the axis line.
const chartAxisWidth = 6

// dayLabelLayout formats the first and last day under the bars.
const dayLabelLayout = "01-02"

// RenderDailyChart draws daily event counts as vertical bars, one column per
// day, the newest day being end. counts is oldest first, as returned by
// metrics.DailyCounts. The top and bottom rows of the count axis carry the
// peak and zero; the row under the bars names the first and last day shown.
// height includes the title and day rows.
func RenderDailyChart(counts []float64, end time.Time, width, height int, title string) string {
	width = max(width, chartAxisWidth+4)
	height = max(height, 4)
	plotW := width - chartAxisWidth
	plotH := height - 2

	if len(counts) > plotW {
		counts = counts[len(counts)-plotW:]
	}
	peak := 0.0
	for _, c := range counts {
		peak = max(peak, c)
	}
	scale := max(peak, 1)

	lines := make([]string, 0, height)
	lines = append(lines, centerText(title, width))

	lead := strings.Repeat(" ", plotW-len(counts))
	for row := plotH - 1; row >= 0; row-- {
		label := ""
		switch row {
		case plotH - 1:
			label = FormatCount(peak)
		case 0:
			label = "0"
		}
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%*s │", chartAxisWidth-2, label))
		sb.WriteString(lead)
		lo := scale * float64(row) / float64(plotH)
		hi := scale * float64(row+1) / float64(plotH)
		for _, c := range counts {
			sb.WriteRune(dayBlock(c, lo, hi))
		}
		lines = append(lines, sb.String())
	}

	lines = append(lines, strings.Repeat(" ", chartAxisWidth)+dayAxis(len(counts), end, plotW))
	return strings.Join(lines, "\n")
}

// dayBlock returns how much of the cell spanning [lo, hi) the count fills.
func dayBlock(v, lo, hi float64) rune {
	switch {
	case v <= lo:
		return dayBlocks[0]
	case v >= hi:
		return dayBlocks[len(dayBlocks)-1]
	}
	idx := int(math.Round((v - lo) / (hi - lo) * 8))
	return dayBlocks[min(max(idx, 0), 8)]
}

// dayAxis places the first day under the first bar and the last day flush
// right. Only the last day is shown when both would not fit.
func dayAxis(days int, end time.Time, width int) string {
	row := []rune(strings.Repeat(" ", width))
	if days == 0 {
		return string(row)
	}
	last := []rune(end.Format(dayLabelLayout))
	if len(last) > width {
		return string(row)
	}
	copy(row[width-len(last):], last)

	first := []rune(end.AddDate(0, 0, -(days - 1)).Format(dayLabelLayout))
	start := width - days
	if days > 1 && start+len(first) < width-len(last) {
		copy(row[start:], first)
	}
	return string(row)
}

// centerText centers s within the given width, padding with spaces.
func centerText(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(s)-pad)
}
