package cmd

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/tonhe/shadow/internal/config"
	"github.com/tonhe/shadow/internal/export"
	"github.com/tonhe/shadow/internal/sparkline"
)

// sparkCmd renders numbers as a smoothed sparkline path.
var sparkCmd = &cobra.Command{
	Use:   "spark [values...]",
	Short: "Render numbers as a sparkline path or SVG.",
	Long: `Render a series of numbers as the smoothed sparkline used in the
dashboard. Values may be separated by spaces or commas. With no arguments the
values are read from stdin. Put negative values after "--" so they are not
read as flags.

Examples:
  shadow spark 3 5 2 8 4
  shadow spark --svg -- -3 5 2
  echo "1,2,4,8,16" | shadow spark --svg --stroke "#2aa198" > trend.svg`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var input string
		if len(args) > 0 {
			input = strings.Join(args, " ")
		} else {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			input = string(b)
		}
		data, err := parseValues(input)
		if err != nil {
			return err
		}

		opts := sparkline.DefaultSVGOptions()
		if cfg, _, err := loadSettings(); err == nil {
			opts.Width = float64(cfg.SparkWidth)
			opts.Height = float64(cfg.SparkHeight)
		} else {
			opts.Width = float64(config.DefaultConfig().SparkWidth)
			opts.Height = float64(config.DefaultConfig().SparkHeight)
		}
		if w, _ := cmd.Flags().GetFloat64("width"); w > 0 {
			opts.Width = w
		}
		if h, _ := cmd.Flags().GetFloat64("height"); h > 0 {
			opts.Height = h
		}

		out := cmd.OutOrStdout()
		if svg, _ := cmd.Flags().GetBool("svg"); svg {
			opts.Stroke, _ = cmd.Flags().GetString("stroke")
			opts.Title, _ = cmd.Flags().GetString("title")
			return export.WriteSparklineSVG(out, data, opts)
		}
		_, err = fmt.Fprintln(out, sparkline.Render(data, opts.Width, opts.Height).String())
		return err
	},
}

// sparkFlagError points at "--" when a flag error was caused by a negative
// number.
func sparkFlagError(_ *cobra.Command, err error) error {
	msg := err.Error()
	if i := strings.LastIndex(msg, " in "); i >= 0 {
		if _, perr := strconv.ParseFloat(msg[i+len(" in "):], 64); perr == nil {
			return fmt.Errorf("%w (put negative values after --, e.g. shadow spark -- -3 5 2)", err)
		}
	}
	return err
}

// parseValues splits s on whitespace and commas and parses each field.
func parseValues(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	data := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", f, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("invalid value %q: not finite", f)
		}
		data = append(data, v)
	}
	return data, nil
}
