package styles

import (
	"maps"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/shadow/internal/metrics"
)

// DefaultThemeSlug names the theme used when none is configured.
const DefaultThemeSlug = "solarized-dark"

// Theme is a Base16 colour scheme. Base00-07 run from background to
// foreground; Base08-0F are the accents.
type Theme struct {
	Name   string
	Base00 lipgloss.Color
	Base01 lipgloss.Color
	Base02 lipgloss.Color // selection
	Base03 lipgloss.Color // dim
	Base04 lipgloss.Color
	Base05 lipgloss.Color // foreground
	Base06 lipgloss.Color
	Base07 lipgloss.Color
	Base08 lipgloss.Color // red
	Base09 lipgloss.Color // orange
	Base0A lipgloss.Color // yellow
	Base0B lipgloss.Color // green
	Base0C lipgloss.Color // cyan
	Base0D lipgloss.Color // blue
	Base0E lipgloss.Color // magenta
	Base0F lipgloss.Color // brown
}

// ChurnColor returns the accent for risk's churn bucket: green for low,
// yellow for medium, red for high.
func (t Theme) ChurnColor(risk float64) lipgloss.Color {
	switch metrics.ChurnLabel(risk) {
	case "high":
		return t.Base08
	case "medium":
		return t.Base0A
	default:
		return t.Base0B
	}
}

// EventColor returns the accent used for an event type's totals.
func (t Theme) EventColor(e metrics.EventType) lipgloss.Color {
	switch e {
	case metrics.EventLogin:
		return t.Base0D
	case metrics.EventView:
		return t.Base0C
	case metrics.EventShare:
		return t.Base0E
	case metrics.EventPurchase:
		return t.Base09
	default:
		return t.Base04
	}
}

// SegmentColor returns the accent for a user segment tag.
func (t Theme) SegmentColor(segment string) lipgloss.Color {
	switch segment {
	case metrics.SegmentPower:
		return t.Base0D
	case metrics.SegmentStreaker:
		return t.Base0B
	case metrics.SegmentAtRisk:
		return t.Base08
	case metrics.SegmentDormant:
		return t.Base03
	default:
		return t.Base0C
	}
}

var (
	DefaultTheme = Themes[DefaultThemeSlug]
	themeSlugs   = slices.Sorted(maps.Keys(Themes))
)

// SetTheme replaces the process-wide default theme.
func SetTheme(theme Theme) {
	DefaultTheme = theme
}

// ResolveTheme returns the theme for slug, or DefaultTheme when slug is
// empty or unknown.
func ResolveTheme(slug string) Theme {
	if t, ok := Themes[slug]; ok {
		return t
	}
	return DefaultTheme
}

// GetThemeByName returns a theme by its slug, or nil if not found.
func GetThemeByName(name string) *Theme {
	t, ok := Themes[name]
	if !ok {
		return nil
	}
	return &t
}

// ListThemes returns the theme slugs in sorted order.
func ListThemes() []string {
	return themeSlugs
}

func GetThemeCount() int {
	return len(themeSlugs)
}

// GetThemeByIndex returns the theme at idx in ListThemes order.
func GetThemeByIndex(idx int) *Theme {
	if idx < 0 || idx >= len(themeSlugs) {
		return nil
	}
	return GetThemeByName(themeSlugs[idx])
}

// GetThemeIndex returns the position of slug in ListThemes, or -1.
func GetThemeIndex(slug string) int {
	return slices.Index(themeSlugs, slug)
}
