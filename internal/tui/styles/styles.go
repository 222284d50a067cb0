package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is one color scheme
type Palette struct {
	Accent  lipgloss.Color
	Surface lipgloss.Color
	Raised  lipgloss.Color
	Dim     lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	Green   lipgloss.Color
	Red     lipgloss.Color
	Blue    lipgloss.Color
}

// Color palettes
var (
	Dark = Palette{
		Accent:  lipgloss.Color("#97CE4C"),
		Surface: lipgloss.Color("#1F2937"),
		Raised:  lipgloss.Color("#374151"),
		Dim:     lipgloss.Color("#6B7280"),
		Muted:   lipgloss.Color("#9CA3AF"),
		Text:    lipgloss.Color("#F9FAFB"),
		Green:   lipgloss.Color("#10B981"),
		Red:     lipgloss.Color("#EF4444"),
		Blue:    lipgloss.Color("#3B82F6"),
	}

	Light = Palette{
		Accent:  lipgloss.Color("#2F7D1F"),
		Surface: lipgloss.Color("#F3F4F6"),
		Raised:  lipgloss.Color("#D1D5DB"),
		Dim:     lipgloss.Color("#6B7280"),
		Muted:   lipgloss.Color("#374151"),
		Text:    lipgloss.Color("#111827"),
		Green:   lipgloss.Color("#047857"),
		Red:     lipgloss.Color("#B91C1C"),
		Blue:    lipgloss.Color("#1D4ED8"),
	}
)

// FavoriteColor is the star color in both palettes
var FavoriteColor = lipgloss.Color("#F5B301")

// Raw indicator characters (unstyled)
const (
	FavoriteChar    = "★"
	NotFavoriteChar = "☆"
	StatusChar      = "●"
)

// Styles is the full set of styles derived from a palette
type Styles struct {
	Palette Palette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Dim      lipgloss.Style
	Accent   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style

	SelectedItem lipgloss.Style
	NormalItem   lipgloss.Style

	Modal      lipgloss.Style
	ModalTitle lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	Badge    lipgloss.Style
	DimBadge lipgloss.Style

	Spinner   lipgloss.Style
	Favorite  lipgloss.Style
	Banner    lipgloss.Style
	Inspector lipgloss.Style
}

// New builds the styles for p
func New(p Palette) Styles {
	return Styles{
		Palette: p,

		Title:    lipgloss.NewStyle().Foreground(p.Text).Bold(true),
		Subtitle: lipgloss.NewStyle().Foreground(p.Muted),
		Dim:      lipgloss.NewStyle().Foreground(p.Dim),
		Accent:   lipgloss.NewStyle().Foreground(p.Accent),
		Error:    lipgloss.NewStyle().Foreground(p.Red),
		Success:  lipgloss.NewStyle().Foreground(p.Green),

		SelectedItem: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Raised).
			Padding(0, 1),
		NormalItem: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Background(p.Surface).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().
			Foreground(p.Text).
			Bold(true).
			MarginBottom(1),

		HelpKey:  lipgloss.NewStyle().Foreground(p.Accent),
		HelpDesc: lipgloss.NewStyle().Foreground(p.Dim),

		Badge: lipgloss.NewStyle().
			Foreground(p.Surface).
			Background(p.Accent).
			Padding(0, 1),
		DimBadge: lipgloss.NewStyle().
			Foreground(p.Muted).
			Background(p.Raised).
			Padding(0, 1),

		Spinner:  lipgloss.NewStyle().Foreground(p.Accent),
		Favorite: lipgloss.NewStyle().Foreground(FavoriteColor),
		Banner: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Red).
			Padding(0, 1),
		Inspector: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(p.Dim).
			Padding(0, 2),
	}
}

// ForTheme returns the styles for a theme name. Anything but "light" is dark.
func ForTheme(name string) Styles {
	if name == "light" {
		return New(Light)
	}
	return New(Dark)
}

// StatusColor returns the indicator color for a life status
func (s Styles) StatusColor(status string) lipgloss.Color {
	switch strings.ToLower(status) {
	case "alive":
		return s.Palette.Green
	case "dead":
		return s.Palette.Red
	default:
		return s.Palette.Dim
	}
}

// Truncate shortens s to width runes, ending in an ellipsis when cut
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return string(r[:1])
	}
	return string(r[:width-1]) + "…"
}

// Pad pads or cuts s to exactly width runes
func Pad(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

// RowPart is a part of a row with an optional foreground color
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
}

// RenderListRow renders a list row with a uniform background when selected.
// Each part is styled separately so inner resets do not clear the background.
func (s Styles) RenderListRow(parts []RowPart, selected bool, width int) string {
	bg := s.Palette.Raised

	var b strings.Builder
	visible := 0
	for _, part := range parts {
		style := lipgloss.NewStyle()
		switch {
		case part.Foreground != nil:
			style = style.Foreground(*part.Foreground)
		case selected:
			style = style.Foreground(s.Palette.Text)
		default:
			style = style.Foreground(s.Palette.Muted)
		}
		if selected {
			style = style.Background(bg)
		}
		b.WriteString(style.Render(part.Text))
		visible += lipgloss.Width(part.Text)
	}

	// One column of margin on each side
	if pad := width - visible - 2; pad > 0 {
		padStyle := lipgloss.NewStyle()
		if selected {
			padStyle = padStyle.Background(bg)
		}
		b.WriteString(padStyle.Render(strings.Repeat(" ", pad)))
	}

	marginStyle := lipgloss.NewStyle()
	if selected {
		marginStyle = marginStyle.Background(bg)
	}
	margin := marginStyle.Render(" ")
	return margin + b.String() + margin
}
