package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/tonhe/shadow/internal/metrics"
)

var (
	highColor   = color.New(color.FgRed, color.Bold)
	mediumColor = color.New(color.FgYellow)
	lowColor    = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow, color.Bold)
	errColor    = color.New(color.FgRed, color.Bold)
	okColor     = color.New(color.FgGreen)
)

// churnLabel returns the coloured churn bucket for risk.
func churnLabel(risk float64) string {
	text := metrics.ChurnLabel(risk)
	switch text {
	case "high":
		return highColor.Sprint(text)
	case "medium":
		return mediumColor.Sprint(text)
	default:
		return lowColor.Sprint(text)
	}
}

// warnf prints a highlighted warning to stderr.
func warnf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", warnColor.Sprint("Warn"), fmt.Sprintf(format, args...))
}

// fatal prints err to stderr and exits.
func fatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s: %v\n", errColor.Sprint("Fatal"), msg, err)
	os.Exit(1)
}

// renderTable writes headers and rows as a right-aligned table.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
