package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/shadow/internal/metrics"
)

// Styles holds all themed lipgloss styles for the application.
type Styles struct {
	// Layout
	AppContainer lipgloss.Style

	// Header / Footer
	Header       lipgloss.Style
	HeaderTitle  lipgloss.Style
	HeaderStatus lipgloss.Style
	Footer       lipgloss.Style
	FooterKey    lipgloss.Style
	FooterDesc   lipgloss.Style

	// Table
	TableHeader  lipgloss.Style
	TableRow     lipgloss.Style
	TableRowSel  lipgloss.Style
	TableCellDim lipgloss.Style

	// Status colors
	StatusUp   lipgloss.Style
	StatusDown lipgloss.Style
	StatusWarn lipgloss.Style

	// Churn risk thresholds
	ChurnLow  lipgloss.Style // < 0.3
	ChurnMid  lipgloss.Style // 0.3-0.6
	ChurnHigh lipgloss.Style // >= 0.6

	// Stat cards
	StatCard  lipgloss.Style
	StatValue lipgloss.Style
	StatLabel lipgloss.Style
	StatDelta lipgloss.Style

	// Sparkline
	SparklineStyle lipgloss.Style

	// Panels
	PanelHeader lipgloss.Style
	Pinned      lipgloss.Style

	// Modal / overlay
	ModalBorder lipgloss.Style
	ModalTitle  lipgloss.Style

	// Form
	FormLabel       lipgloss.Style
	FormInput       lipgloss.Style
	FormInputActive lipgloss.Style
	FormCursor      lipgloss.Style

	// Segments
	Segment lipgloss.Style

	theme Theme
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(theme Theme) *Styles {
	return &Styles{
		AppContainer: lipgloss.NewStyle().
			Foreground(theme.Base05).
			Background(theme.Base00),

		Header: lipgloss.NewStyle().
			Foreground(theme.Base05).
			Background(theme.Base01).
			Bold(true).
			Padding(0, 1),
		HeaderTitle: lipgloss.NewStyle().
			Foreground(theme.Base0D).
			Bold(true),
		HeaderStatus: lipgloss.NewStyle().
			Foreground(theme.Base0B),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Base04).
			Background(theme.Base01).
			Padding(0, 1),
		FooterKey: lipgloss.NewStyle().
			Foreground(theme.Base0D).
			Bold(true),
		FooterDesc: lipgloss.NewStyle().
			Foreground(theme.Base04),

		TableHeader: lipgloss.NewStyle().
			Foreground(theme.Base0D).
			Bold(true),
		TableRow: lipgloss.NewStyle().
			Foreground(theme.Base05),
		TableRowSel: lipgloss.NewStyle().
			Foreground(theme.Base05).
			Background(theme.Base02),
		TableCellDim: lipgloss.NewStyle().
			Foreground(theme.Base03),

		StatusUp: lipgloss.NewStyle().
			Foreground(theme.Base0B),
		StatusDown: lipgloss.NewStyle().
			Foreground(theme.Base08),
		StatusWarn: lipgloss.NewStyle().
			Foreground(theme.Base0A),

		ChurnLow: lipgloss.NewStyle().
			Foreground(theme.ChurnColor(0)),
		ChurnMid: lipgloss.NewStyle().
			Foreground(theme.ChurnColor(0.3)),
		ChurnHigh: lipgloss.NewStyle().
			Foreground(theme.ChurnColor(1)),

		StatCard: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Base02).
			Padding(0, 1),
		StatValue: lipgloss.NewStyle().
			Foreground(theme.Base0D).
			Bold(true),
		StatLabel: lipgloss.NewStyle().
			Foreground(theme.Base04),
		StatDelta: lipgloss.NewStyle().
			Foreground(theme.Base0B),

		SparklineStyle: lipgloss.NewStyle().
			Foreground(theme.Base0C),

		PanelHeader: lipgloss.NewStyle().
			Foreground(theme.Base0E).
			Bold(true),
		Pinned: lipgloss.NewStyle().
			Foreground(theme.Base09),

		ModalBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Base0D).
			BorderBackground(theme.Base00).
			Background(theme.Base00).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().
			Foreground(theme.Base0D).
			Bold(true),

		FormLabel: lipgloss.NewStyle().
			Foreground(theme.Base04),
		FormInput: lipgloss.NewStyle().
			Foreground(theme.Base05),
		FormInputActive: lipgloss.NewStyle().
			Foreground(theme.Base06).
			Background(theme.Base02),
		FormCursor: lipgloss.NewStyle().
			Foreground(theme.Base0B),

		Segment: lipgloss.NewStyle().
			Foreground(theme.Base0C),

		theme: theme,
	}
}

// ChurnStyle picks the churn colour for a risk value.
func (s *Styles) ChurnStyle(risk float64) lipgloss.Style {
	switch metrics.ChurnLabel(risk) {
	case "high":
		return s.ChurnHigh
	case "medium":
		return s.ChurnMid
	default:
		return s.ChurnLow
	}
}

// EventStyle colours an event type's sparkline.
func (s *Styles) EventStyle(e metrics.EventType) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.theme.EventColor(e))
}

// SegmentStyle colours a segment tag.
func (s *Styles) SegmentStyle(segment string) lipgloss.Style {
	return s.Segment.Foreground(s.theme.SegmentColor(segment))
}
