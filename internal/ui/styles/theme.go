package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	// Base colors
	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// UI element colors
	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// Dark is the default color theme
var Dark = Theme{
	Name: "dark",

	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary:   lipgloss.Color("#7aa2f7"),
	Secondary: lipgloss.Color("#bb9af7"),
	Accent:    lipgloss.Color("#7dcfff"),

	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),
	Info:    lipgloss.Color("#7aa2f7"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
}

// Light is a bright variant
var Light = Theme{
	Name: "light",

	Background:    lipgloss.Color("#f5f5f5"),
	Foreground:    lipgloss.Color("#232946"),
	ForegroundDim: lipgloss.Color("#8a8fa3"),

	Primary:   lipgloss.Color("#0d6efd"),
	Secondary: lipgloss.Color("#6f42c1"),
	Accent:    lipgloss.Color("#0dcaf0"),

	Success: lipgloss.Color("#198754"),
	Warning: lipgloss.Color("#ffc107"),
	Error:   lipgloss.Color("#dc3545"),
	Info:    lipgloss.Color("#0d6efd"),

	Border:      lipgloss.Color("#c9ccd6"),
	BorderFocus: lipgloss.Color("#0d6efd"),
	Selection:   lipgloss.Color("#dbe7ff"),
}

// Ocean is a blue-green variant
var Ocean = Theme{
	Name: "ocean",

	Background:    lipgloss.Color("#0f1c24"),
	Foreground:    lipgloss.Color("#c3e8f3"),
	ForegroundDim: lipgloss.Color("#4a6b7a"),

	Primary:   lipgloss.Color("#38b2ac"),
	Secondary: lipgloss.Color("#4fd1c5"),
	Accent:    lipgloss.Color("#63b3ed"),

	Success: lipgloss.Color("#68d391"),
	Warning: lipgloss.Color("#f6e05e"),
	Error:   lipgloss.Color("#fc8181"),
	Info:    lipgloss.Color("#63b3ed"),

	Border:      lipgloss.Color("#2c5364"),
	BorderFocus: lipgloss.Color("#38b2ac"),
	Selection:   lipgloss.Color("#234e52"),
}

// Names lists selectable themes in cycle order
var Names = []string{"dark", "light", "ocean"}

// Current holds the active theme
var Current = Dark

// ByName returns the named theme, falling back to the default
func ByName(name string) Theme {
	switch name {
	case "light":
		return Light
	case "ocean":
		return Ocean
	default:
		return Dark
	}
}

// NextName returns the theme name after the given one in cycle order
func NextName(name string) string {
	for i, n := range Names {
		if n == name {
			return Names[(i+1)%len(Names)]
		}
	}
	return Names[0]
}

// SetCurrent activates the named theme
func SetCurrent(name string) {
	Current = ByName(name)
}

// MaxWidth is the maximum content width for the app (classic terminal width)
const MaxWidth = 80

// ContentWidth returns the actual content width to use (min of terminal width and MaxWidth)
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// CenterView wraps content and centers it horizontally if terminal is wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// Styles holds all the pre-computed styles for the UI
type Styles struct {
	// Titles
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	// Lists
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	// Panels
	Panel lipgloss.Style

	// Buttons
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	// Badges
	BadgeLow    lipgloss.Style
	BadgeMedium lipgloss.Style
	BadgeHigh   lipgloss.Style
	BadgeOK     lipgloss.Style
	BadgeWarn   lipgloss.Style
	BadgeErr    lipgloss.Style
	BadgeMuted  lipgloss.Style

	// Alerts
	AlertError   lipgloss.Style
	AlertSuccess lipgloss.Style
	AlertInfo    lipgloss.Style

	// Input fields
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Help text
	Help    lipgloss.Style
	HelpKey lipgloss.Style

	// Status bar
	StatusBar lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	t := Current

	badge := lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(t.Background)

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 2),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 2).
			Bold(true),

		Panel: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),

		ButtonPrimary: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 2).
			Bold(true),

		BadgeLow:    badge.Background(t.Success),
		BadgeMedium: badge.Background(t.Warning),
		BadgeHigh:   badge.Background(t.Error),
		BadgeOK:     badge.Background(t.Success),
		BadgeWarn:   badge.Background(t.Warning),
		BadgeErr:    badge.Background(t.Error),
		BadgeMuted:  badge.Background(t.ForegroundDim),

		AlertError: lipgloss.NewStyle().
			Foreground(t.Error).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Error).
			Padding(0, 1),

		AlertSuccess: lipgloss.NewStyle().
			Foreground(t.Success).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Success).
			Padding(0, 1),

		AlertInfo: lipgloss.NewStyle().
			Foreground(t.Info).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Info).
			Padding(0, 1),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),
	}
}
