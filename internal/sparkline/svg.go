package sparkline

import (
	"fmt"
	"html"
	"strings"
)

// SVGOptions controls the standalone SVG document produced by SVG.
type SVGOptions struct {
	Width       float64
	Height      float64
	Stroke      string
	StrokeWidth float64
	Title       string
}

// DefaultSVGOptions matches the inline dashboard trend.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Stroke:      "currentColor",
		StrokeWidth: 1.5,
	}
}

// SVG wraps a rendered path in a self-contained SVG document. An empty path
// produces an empty canvas of the requested size.
func SVG(p Path, opts SVGOptions) string {
	if opts.Stroke == "" {
		opts.Stroke = "currentColor"
	}
	if opts.StrokeWidth <= 0 {
		opts.StrokeWidth = 1.5
	}
	w := formatCoord(opts.Width)
	h := formatCoord(opts.Height)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`, w, h, w, h)
	if opts.Title != "" {
		fmt.Fprintf(&sb, "<title>%s</title>", html.EscapeString(opts.Title))
	}
	if !p.Empty() {
		fmt.Fprintf(&sb,
			`<path d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round"/>`,
			p.String(), html.EscapeString(opts.Stroke), formatCoord(opts.StrokeWidth))
	}
	sb.WriteString("</svg>")
	return sb.String()
}
