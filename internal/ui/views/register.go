package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/api"
	"taskdeck/internal/routes"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

const minPasswordLen = 6

// RegisterView is the account creation form
type RegisterView struct {
	client *api.Client
	styles *styles.Styles
	keys   keys.KeyMap

	inputs []textinput.Model // first, last, email, password
	focus  int               // len(inputs) means the submit button

	submitting bool
	errMsg     string

	width  int
	height int
}

type registerResultMsg struct {
	err error
}

func NewRegisterView(client *api.Client) *RegisterView {
	mk := func(placeholder string) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = 120
		return in
	}

	inputs := []textinput.Model{
		mk("first name"),
		mk("last name"),
		mk("email"),
		mk("password"),
	}
	inputs[3].EchoMode = textinput.EchoPassword
	inputs[3].EchoCharacter = '•'
	inputs[0].Focus()

	return &RegisterView{
		client: client,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		inputs: inputs,
	}
}

func (v *RegisterView) Init() tea.Cmd { return textinput.Blink }

func (v *RegisterView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *RegisterView) setFocus(i int) {
	v.focus = clamp(i, 0, len(v.inputs))
	for j := range v.inputs {
		if j == v.focus {
			v.inputs[j].Focus()
		} else {
			v.inputs[j].Blur()
		}
	}
}

func (v *RegisterView) submit() tea.Cmd {
	first := strings.TrimSpace(v.inputs[0].Value())
	last := strings.TrimSpace(v.inputs[1].Value())
	email := strings.TrimSpace(v.inputs[2].Value())
	password := v.inputs[3].Value()

	switch {
	case first == "" || last == "" || email == "" || password == "":
		v.errMsg = "All fields are required"
		return nil
	case len(password) < minPasswordLen:
		v.errMsg = "Password must be at least 6 characters"
		return nil
	}

	v.submitting = true
	v.errMsg = ""
	client := v.client
	return func() tea.Msg {
		err := client.Register(context.Background(), first, last, email, password)
		return registerResultMsg{err: err}
	}
}

func (v *RegisterView) Update(msg tea.Msg) (*RegisterView, tea.Cmd) {
	switch msg := msg.(type) {
	case registerResultMsg:
		v.submitting = false
		if msg.err != nil {
			v.errMsg = api.UserMessage(msg.err)
			return v, nil
		}
		return v, func() tea.Msg { return Registered{} }

	case tea.KeyMsg:
		if v.submitting {
			return v, nil
		}
		n := len(v.inputs) + 1
		switch {
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return NavigateBack{} }
		case key.Matches(msg, v.keys.Tab), key.Matches(msg, v.keys.Down):
			v.setFocus((v.focus + 1) % n)
			return v, nil
		case key.Matches(msg, v.keys.Up):
			v.setFocus((v.focus + n - 1) % n)
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if v.focus == len(v.inputs) {
				return v, v.submit()
			}
			v.setFocus(v.focus + 1)
			return v, nil
		case msg.String() == "ctrl+l":
			return v, func() tea.Msg { return Navigate{Page: routes.PageLogin} }
		}
	}

	if v.focus < len(v.inputs) {
		var cmd tea.Cmd
		v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *RegisterView) View() string {
	s := v.styles

	var b []string
	b = append(b, s.Title.Render("Create account"), "")
	if v.errMsg != "" {
		b = append(b, s.AlertError.Render(v.errMsg), "")
	}
	for i, in := range v.inputs {
		if i == v.focus {
			b = append(b, s.InputFocused.Render(in.View()))
		} else {
			b = append(b, s.Input.Render(in.View()))
		}
	}

	submit := s.Button.Render("Register")
	if v.submitting {
		submit = s.Button.Render("Creating account...")
	} else if v.focus == len(v.inputs) {
		submit = s.ButtonFocused.Render("Register")
	}
	b = append(b,
		"",
		submit,
		"",
		s.TitleMuted.Render("already registered? ctrl+l to sign in"),
		helpLine(s, "tab", "next field", "↵", "submit", "esc", "back"),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, b...)
	return styles.CenterView(content, v.width, v.height)
}
