package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/pmt/internal/api"
	"github.com/tgienger/pmt/internal/ui/route"
	"github.com/tgienger/pmt/internal/ui/styles"
)

type loginResultMsg struct {
	res api.LoginResult
	err error
}

type registerResultMsg struct {
	res api.RegisterResult
	err error
}

// LoginView signs the user in.
type LoginView struct {
	env        Env
	styles     *styles.Styles
	fields     *fieldSet
	submitting bool
	errMsg     string
	width      int
	height     int
}

func NewLoginView(env Env) *LoginView {
	return &LoginView{
		env:    env,
		styles: env.Styles,
		fields: newFieldSet(env.Keys,
			Field{Key: "email", Label: "Email", Placeholder: "you@example.com", Required: true},
			Field{Key: "password", Label: "Password", Placeholder: "Password", Kind: FieldSecret, Required: true},
		),
	}
}

func (v *LoginView) Init() tea.Cmd { return textinput.Blink }

func (v *LoginView) CapturesInput() bool { return true }

// Err returns the error line currently shown.
func (v *LoginView) Err() string { return v.errMsg }

func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
		return v, nil

	case loginResultMsg:
		v.submitting = false
		if msg.err != nil {
			v.errMsg = errorText(msg.err, api.FallbackMessage)
			return v, nil
		}
		if msg.res.Token == "" {
			v.errMsg = api.FallbackMessage
			return v, nil
		}
		res := msg.res
		return v, func() tea.Msg {
			return LoggedIn{Token: res.Token, User: res.User, Message: res.Message}
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.env.Keys.Back):
			return v, navigate(route.To(route.Home))
		case msg.Type == tea.KeyCtrlR:
			return v, navigate(route.To(route.Register))
		}
		if v.submitting {
			return v, nil
		}
		cmd, submit := v.fields.update(msg)
		if !submit {
			return v, cmd
		}
		if missing := v.fields.missing(); missing != "" {
			v.errMsg = missing
			return v, nil
		}
		v.errMsg = ""
		v.submitting = true
		vals := v.fields.values()
		backend := v.env.Backend
		return v, v.env.Scope.Go(func(ctx context.Context) tea.Msg {
			res, err := backend.Login(ctx, api.Credentials{
				Email:    strings.TrimSpace(vals["email"]),
				Password: vals["password"],
			})
			return loginResultMsg{res: res, err: err}
		})
	}
	return v, nil
}

func (v *LoginView) View() string {
	return authCard(v.styles, "Login", v.fields.view(v.styles, "Login", v.submitting), v.errMsg,
		helpLine(v.styles, "tab", "next", "↵", "submit", "ctrl+r", "create an account", "esc", "home"),
		v.width, v.height)
}

// RegisterView creates an account and sends the user to login.
type RegisterView struct {
	env        Env
	styles     *styles.Styles
	fields     *fieldSet
	submitting bool
	errMsg     string
	width      int
	height     int
}

func NewRegisterView(env Env) *RegisterView {
	return &RegisterView{
		env:    env,
		styles: env.Styles,
		fields: newFieldSet(env.Keys,
			Field{Key: "name", Label: "Name", Placeholder: "Full name", Required: true},
			Field{Key: "email", Label: "Email", Placeholder: "you@example.com", Required: true},
			Field{Key: "password", Label: "Password", Placeholder: "Password", Kind: FieldSecret, Required: true},
		),
	}
}

func (v *RegisterView) Init() tea.Cmd { return textinput.Blink }

func (v *RegisterView) CapturesInput() bool { return true }

func (v *RegisterView) Err() string { return v.errMsg }

func (v *RegisterView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
		return v, nil

	case registerResultMsg:
		v.submitting = false
		if msg.err != nil {
			v.errMsg = errorText(msg.err, api.FallbackMessage)
			return v, nil
		}
		note := msg.res.Message
		return v, func() tea.Msg {
			return Navigate{To: route.To(route.Login), Toast: note}
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.env.Keys.Back):
			return v, navigate(route.To(route.Home))
		case msg.Type == tea.KeyCtrlL:
			return v, navigate(route.To(route.Login))
		}
		if v.submitting {
			return v, nil
		}
		cmd, submit := v.fields.update(msg)
		if !submit {
			return v, cmd
		}
		if missing := v.fields.missing(); missing != "" {
			v.errMsg = missing
			return v, nil
		}
		v.errMsg = ""
		v.submitting = true
		vals := v.fields.values()
		backend := v.env.Backend
		return v, v.env.Scope.Go(func(ctx context.Context) tea.Msg {
			res, err := backend.Register(ctx, api.Registration{
				Name:     strings.TrimSpace(vals["name"]),
				Email:    strings.TrimSpace(vals["email"]),
				Password: vals["password"],
			})
			return registerResultMsg{res: res, err: err}
		})
	}
	return v, nil
}

func (v *RegisterView) View() string {
	return authCard(v.styles, "Create an account", v.fields.view(v.styles, "Register", v.submitting), v.errMsg,
		helpLine(v.styles, "tab", "next", "↵", "submit", "ctrl+l", "have an account? log in", "esc", "home"),
		v.width, v.height)
}

func authCard(s *styles.Styles, title, form, errMsg, help string, width, height int) string {
	rows := []string{s.Title.Render(title), "", form}
	if errMsg != "" {
		rows = append(rows, "", s.Error.Render(errMsg))
	}
	card := s.Modal.Padding(1, 3).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.Place(styles.ContentWidth(width), max(height-4, lipgloss.Height(card)),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, card, help),
	)
}
