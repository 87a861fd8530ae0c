// Package ui hosts the root model: routing, the session guard and the chrome
// shared by every screen.
package ui

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/pmt/internal/api"
	"github.com/tgienger/pmt/internal/db"
	"github.com/tgienger/pmt/internal/models"
	"github.com/tgienger/pmt/internal/ui/keys"
	"github.com/tgienger/pmt/internal/ui/route"
	"github.com/tgienger/pmt/internal/ui/styles"
	"github.com/tgienger/pmt/internal/ui/views"
)

// ToastDuration is how long app-level notices stay on screen.
var ToastDuration = 4 * time.Second

const (
	msgSessionExpired = "Session expired, please log in again."
	msgLoggedOut      = "Logout successfully"

	sessionTimeLayout = "02-01-2006 15:04"
)

// Sessions is the session state the app reads and writes.
type Sessions interface {
	Present() bool
	User() (models.User, bool)
	Save(token string, user models.User) error
	Clear() error
	ExpiresAt() (time.Time, bool)
}

// Settings persists the last visited route.
type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

type toastExpiredMsg struct {
	seq int
}

type toast struct {
	text  string
	isErr bool
	seq   int
}

type App struct {
	backend  views.Backend
	sessions Sessions
	settings Settings
	styles   *styles.Styles
	keys     keys.KeyMap

	start     route.Route
	route     route.Route
	screen    tea.Model
	scope     *views.Scope
	nextScope uint64
	toast     toast

	width  int
	height int
}

// NewApp creates the root model. A zero start route restores the last
// visited one.
func NewApp(backend views.Backend, sessions Sessions, settings Settings, start route.Route) *App {
	return &App{
		backend:  backend,
		sessions: sessions,
		settings: settings,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		start:    start,
	}
}

// Route returns the route on screen.
func (a *App) Route() route.Route { return a.route }

// Screen returns the model on screen.
func (a *App) Screen() tea.Model { return a.screen }

// Toast returns the notice currently shown, if any.
func (a *App) Toast() string { return a.toast.text }

func (a *App) Init() tea.Cmd {
	return a.navigate(a.initialRoute(), "", false)
}

func (a *App) initialRoute() route.Route {
	if a.start.Path != "" {
		return a.start
	}
	if last, err := a.settings.GetSetting(db.KeyLastRoute); err == nil && last != "" {
		if r, err := route.Parse(last); err == nil {
			return r
		}
		slog.Warn("ignoring stored route", "route", last)
	}
	if a.sessions.Present() {
		return route.To(route.Dashboard)
	}
	return route.To(route.Home)
}

// navigate swaps the screen. Protected routes without a session land on
// login instead and the protected screen is never built.
func (a *App) navigate(to route.Route, notice string, isErr bool) tea.Cmd {
	if to.Protected() && !a.sessions.Present() {
		slog.Info("guard redirect", "route", to.String())
		to = route.To(route.Login)
	}

	if a.scope != nil {
		a.scope.Cancel()
	}
	a.nextScope++
	a.scope = views.NewScope(a.nextScope)
	a.route = to
	a.screen = a.build(to)

	if to.Protected() {
		if err := a.settings.SetSetting(db.KeyLastRoute, to.String()); err != nil {
			slog.Warn("save last route", "error", err)
		}
	}

	width, height := a.bodySize()
	cmds := []tea.Cmd{
		a.screen.Init(),
		func() tea.Msg { return tea.WindowSizeMsg{Width: width, Height: height} },
	}
	if notice != "" {
		cmds = append(cmds, a.showToast(notice, isErr))
	}
	return tea.Batch(cmds...)
}

func (a *App) build(r route.Route) tea.Model {
	env := views.Env{Backend: a.backend, Scope: a.scope, Styles: a.styles, Keys: a.keys}
	switch r.Path {
	case route.Login:
		return views.NewLoginView(env)
	case route.Register:
		return views.NewRegisterView(env)
	case route.Dashboard:
		return views.NewDashboardView(env)
	case route.Projects:
		return views.NewListView(views.ProjectsResource(a.backend), env)
	case route.AddProject:
		return views.NewFormView(views.AddProjectForm(a.backend), env)
	case route.EditProject:
		return views.NewFormView(views.EditProjectForm(a.backend, r.ID), env)
	case route.ProjectDetails:
		return views.NewProjectDetailView(env, r.ID)
	case route.Tasks:
		return views.NewListView(views.TasksResource(a.backend), env)
	case route.AddTask:
		return views.NewFormView(views.AddTaskForm(a.backend), env)
	case route.EditTask:
		return views.NewFormView(views.EditTaskForm(a.backend, r.ID), env)
	}
	return views.NewHomeView(env, a.sessions.Present())
}

func (a *App) showToast(text string, isErr bool) tea.Cmd {
	a.toast.seq++
	a.toast.text = text
	a.toast.isErr = isErr
	seq := a.toast.seq
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}

func (a *App) expire() tea.Cmd {
	slog.Info("session expired", "route", a.route.String())
	if err := a.sessions.Clear(); err != nil {
		slog.Error("clear session", "error", err)
	}
	return a.navigate(route.To(route.Login), msgSessionExpired, true)
}

func (a *App) logout() tea.Cmd {
	if err := a.sessions.Clear(); err != nil {
		slog.Error("clear session", "error", err)
		return a.showToast(api.FallbackMessage, true)
	}
	return a.navigate(route.To(route.Login), msgLoggedOut, false)
}

func (a *App) capturing() bool {
	c, ok := a.screen.(views.InputCapturer)
	return ok && c.CapturesInput()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.screen == nil {
		return a, nil
	}
	if scoped, ok := msg.(views.Scoped); ok {
		if a.scope == nil || scoped.Scope != a.scope.ID {
			return a, nil
		}
		msg = scoped.Msg
		if f, ok := msg.(views.Failure); ok && a.route.Protected() {
			if err := f.Failed(); errors.Is(err, api.ErrUnauthorized) {
				return a, a.expire()
			} else if err != nil {
				slog.Warn("request failed", "route", a.route.String(), "error", err)
			}
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		width, height := a.bodySize()
		_, cmd := a.screen.Update(tea.WindowSizeMsg{Width: width, Height: height})
		return a, cmd

	case views.Navigate:
		return a, a.navigate(msg.To, msg.Toast, false)

	case views.LoggedIn:
		if err := a.sessions.Save(msg.Token, msg.User); err != nil {
			slog.Error("save session", "error", err)
			return a, a.showToast(api.FallbackMessage, true)
		}
		slog.Info("signed in", "user", msg.User.Email)
		return a, a.navigate(route.To(route.Dashboard), msg.Message, false)

	case toastExpiredMsg:
		if msg.seq == a.toast.seq {
			a.toast.text = ""
		}
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}
		if !a.capturing() {
			if key.Matches(msg, a.keys.Quit) {
				return a, tea.Quit
			}
			if a.route.Protected() {
				switch {
				case key.Matches(msg, a.keys.Dashboard):
					return a, a.navigate(route.To(route.Dashboard), "", false)
				case key.Matches(msg, a.keys.Projects):
					return a, a.navigate(route.To(route.Projects), "", false)
				case key.Matches(msg, a.keys.Tasks):
					return a, a.navigate(route.To(route.Tasks), "", false)
				case key.Matches(msg, a.keys.Logout):
					return a, a.logout()
				}
			}
		}
	}

	_, cmd := a.screen.Update(msg)
	return a, cmd
}

// bodySize is the space left for the screen below the header and above the
// toast line.
func (a *App) bodySize() (int, int) {
	return a.width, max(a.height-4, 0)
}

// section is the nav tab a route belongs to.
func section(r route.Route) string {
	switch r.Path {
	case route.Projects, route.AddProject, route.EditProject, route.ProjectDetails:
		return route.Projects
	case route.Tasks, route.AddTask, route.EditTask:
		return route.Tasks
	}
	return r.Path
}

func (a *App) header() string {
	s := a.styles
	width := styles.ContentWidth(a.width)

	if !a.route.Protected() {
		items := []string{s.Title.Render("PM App"), "  "}
		for _, it := range []struct{ path, label string }{
			{route.Home, "Home"}, {route.Login, "l Login"}, {route.Register, "s Sign up"},
		} {
			style := s.NavItem
			if a.route.Path == it.path {
				style = s.NavActive
			}
			items = append(items, style.Render(it.label))
		}
		return s.Nav.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Center, items...))
	}

	tabs := []string{s.Title.Render("PM App"), "  "}
	for _, it := range []struct{ path, label string }{
		{route.Dashboard, "D Dashboard"}, {route.Projects, "P Projects"}, {route.Tasks, "T Tasks"},
	} {
		style := s.NavItem
		if section(a.route) == it.path {
			style = s.NavActive
		}
		tabs = append(tabs, style.Render(it.label))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Center, tabs...)

	name := "there"
	if u, ok := a.sessions.User(); ok && u.Name != "" {
		name = u.Name
	}
	logout := " " + s.NavItem.Render("L Logout")
	right := s.TitleMuted.Render("Welcome, "+name) + logout
	if exp, ok := a.sessions.ExpiresAt(); ok {
		withExp := s.TitleMuted.Render("Welcome, "+name+" · session until "+exp.Local().Format(sessionTimeLayout)) + logout
		// dropped on narrow terminals
		if lipgloss.Width(left)+lipgloss.Width(withExp) < width {
			right = withExp
		}
	}
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return s.Nav.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func (a *App) View() string {
	if a.screen == nil {
		return ""
	}
	s := a.styles

	var b strings.Builder
	b.WriteString(a.header())
	b.WriteString("\n")
	b.WriteString(a.screen.View())
	b.WriteString("\n")
	if a.toast.text != "" {
		style := s.Toast
		if a.toast.isErr {
			style = style.Background(styles.Current.Error)
		}
		b.WriteString(style.Render(a.toast.text))
	}
	return styles.CenterView(b.String(), a.width, a.height)
}
