package export

import (
	"io"

	"github.com/tonhe/shadow/internal/sparkline"
)

// WriteSparklineSVG renders data as a standalone SVG sparkline.
func WriteSparklineSVG(w io.Writer, data []float64, opts sparkline.SVGOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		def := sparkline.DefaultSVGOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}
	path := sparkline.Render(data, opts.Width, opts.Height)
	_, err := io.WriteString(w, sparkline.SVG(path, opts)+"\n")
	return err
}
