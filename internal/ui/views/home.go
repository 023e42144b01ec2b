package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/routes"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

// HomeView is the unauthenticated landing page
type HomeView struct {
	styles *styles.Styles
	keys   keys.KeyMap
	cursor int
	width  int
	height int
}

var homeChoices = []struct {
	label string
	page  routes.Page
}{
	{"Sign in", routes.PageLogin},
	{"Create account", routes.PageRegister},
}

func NewHomeView() *HomeView {
	return &HomeView{
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

func (v *HomeView) Init() tea.Cmd { return nil }

func (v *HomeView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *HomeView) Update(msg tea.Msg) (*HomeView, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Up):
			v.cursor = clamp(v.cursor-1, 0, len(homeChoices)-1)
		case key.Matches(msg, v.keys.Down):
			v.cursor = clamp(v.cursor+1, 0, len(homeChoices)-1)
		case key.Matches(msg, v.keys.Enter):
			page := homeChoices[v.cursor].page
			return v, func() tea.Msg { return Navigate{Page: page} }
		}
	}
	return v, nil
}

func (v *HomeView) View() string {
	s := v.styles

	var b []string
	b = append(b,
		s.Title.Render("taskdeck"),
		s.TitleMuted.Render("tasks, shared work and progress reviews in your terminal"),
		"",
	)

	for i, c := range homeChoices {
		if i == v.cursor {
			b = append(b, s.ButtonFocused.Render(c.label))
		} else {
			b = append(b, s.Button.Render(c.label))
		}
	}

	b = append(b, helpLine(s, "↑/↓", "move", "↵", "select", "q", "quit"))

	content := lipgloss.JoinVertical(lipgloss.Left, b...)
	return styles.CenterView(content, v.width, v.height)
}
