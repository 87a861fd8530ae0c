package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/pmt/internal/ui/route"
	"github.com/tgienger/pmt/internal/ui/styles"
)

// HomeView is the landing screen.
type HomeView struct {
	env      Env
	styles   *styles.Styles
	signedIn bool
	width    int
	height   int
}

func NewHomeView(env Env, signedIn bool) *HomeView {
	return &HomeView{env: env, styles: env.Styles, signedIn: signedIn}
}

func (v *HomeView) Init() tea.Cmd { return nil }

func (v *HomeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
	case tea.KeyMsg:
		k := v.env.Keys
		switch {
		case key.Matches(msg, k.Login):
			return v, navigate(route.To(route.Login))
		case key.Matches(msg, k.Register):
			return v, navigate(route.To(route.Register))
		case key.Matches(msg, k.Enter):
			if v.signedIn {
				return v, navigate(route.To(route.Dashboard))
			}
			return v, navigate(route.To(route.Login))
		}
	}
	return v, nil
}

func (v *HomeView) View() string {
	s := v.styles
	actions := []string{
		s.ButtonPrimary.Render("l Login"),
		"  ",
		s.Button.Render("s Sign up"),
	}
	if v.signedIn {
		actions = append([]string{s.ButtonPrimary.Render("↵ Go to dashboard"), "  "}, actions...)
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("Project Management App"),
		"",
		s.TitleMuted.Render("Plan projects, track tasks, see where things stand."),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, actions...),
	)
	return lipgloss.Place(styles.ContentWidth(v.width), max(v.height-4, 8),
		lipgloss.Center, lipgloss.Center, content)
}
