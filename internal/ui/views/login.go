package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/api"
	"taskdeck/internal/models"
	"taskdeck/internal/routes"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

// LoginView is the sign-in form
type LoginView struct {
	client *api.Client
	styles *styles.Styles
	keys   keys.KeyMap

	email    textinput.Model
	password textinput.Model
	focus    int // 0 email, 1 password, 2 submit

	submitting bool
	errMsg     string

	width  int
	height int
}

type loginResultMsg struct {
	sess models.Session
	err  error
}

func NewLoginView(client *api.Client) *LoginView {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &LoginView{
		client:   client,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		email:    email,
		password: password,
	}
}

func (v *LoginView) Init() tea.Cmd { return textinput.Blink }

func (v *LoginView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *LoginView) setFocus(i int) {
	v.focus = clamp(i, 0, 2)
	v.email.Blur()
	v.password.Blur()
	switch v.focus {
	case 0:
		v.email.Focus()
	case 1:
		v.password.Focus()
	}
}

func (v *LoginView) submit() tea.Cmd {
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	if email == "" || password == "" {
		v.errMsg = "Email and password are required"
		return nil
	}
	v.submitting = true
	v.errMsg = ""
	client := v.client
	return func() tea.Msg {
		sess, err := client.Login(context.Background(), email, password)
		return loginResultMsg{sess: sess, err: err}
	}
}

func (v *LoginView) Update(msg tea.Msg) (*LoginView, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		v.submitting = false
		if msg.err != nil {
			v.errMsg = api.UserMessage(msg.err)
			return v, nil
		}
		sess := msg.sess
		return v, func() tea.Msg { return LoggedIn{Session: sess} }

	case tea.KeyMsg:
		if v.submitting {
			return v, nil
		}
		switch {
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return NavigateBack{} }
		case key.Matches(msg, v.keys.Tab), key.Matches(msg, v.keys.Down):
			v.setFocus((v.focus + 1) % 3)
			return v, nil
		case key.Matches(msg, v.keys.Up):
			v.setFocus((v.focus + 2) % 3)
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if v.focus == 2 {
				return v, v.submit()
			}
			v.setFocus(v.focus + 1)
			return v, nil
		case msg.String() == "ctrl+r":
			return v, func() tea.Msg { return Navigate{Page: routes.PageRegister} }
		}
	}

	var cmd tea.Cmd
	switch v.focus {
	case 0:
		v.email, cmd = v.email.Update(msg)
	case 1:
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

func (v *LoginView) View() string {
	s := v.styles

	input := func(m textinput.Model, focused bool) string {
		if focused {
			return s.InputFocused.Render(m.View())
		}
		return s.Input.Render(m.View())
	}

	submit := s.Button.Render("Sign in")
	if v.submitting {
		submit = s.Button.Render("Signing in...")
	} else if v.focus == 2 {
		submit = s.ButtonFocused.Render("Sign in")
	}

	var b []string
	b = append(b, s.Title.Render("Sign in"), "")
	if v.errMsg != "" {
		b = append(b, s.AlertError.Render(v.errMsg), "")
	}
	b = append(b,
		input(v.email, v.focus == 0),
		input(v.password, v.focus == 1),
		"",
		submit,
		"",
		s.TitleMuted.Render("no account yet? ctrl+r to register"),
		helpLine(s, "tab", "next field", "↵", "submit", "esc", "back"),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, b...)
	return styles.CenterView(content, v.width, v.height)
}
