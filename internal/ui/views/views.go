package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/pmt/internal/api"
	"github.com/tgienger/pmt/internal/models"
	"github.com/tgienger/pmt/internal/ui/keys"
	"github.com/tgienger/pmt/internal/ui/route"
	"github.com/tgienger/pmt/internal/ui/styles"
)

// FeedbackDelay is how long success and error notes stay up, and how long a
// saved form waits before returning to its list.
var FeedbackDelay = 1500 * time.Millisecond

// Backend is everything the screens ask of the remote service.
type Backend interface {
	Login(ctx context.Context, creds api.Credentials) (api.LoginResult, error)
	Register(ctx context.Context, reg api.Registration) (api.RegisterResult, error)
	DashboardStats(ctx context.Context) (models.DashboardStats, error)

	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id int64) (models.Project, error)
	CreateProject(ctx context.Context, in api.ProjectInput) error
	UpdateProject(ctx context.Context, id int64, in api.ProjectInput) error
	DeleteProject(ctx context.Context, id int64) error

	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (models.Task, error)
	CreateTask(ctx context.Context, in api.TaskInput) error
	UpdateTask(ctx context.Context, id int64, in api.TaskInput) error
	DeleteTask(ctx context.Context, id int64) error
}

// Env is what every screen is built with.
type Env struct {
	Backend Backend
	Scope   *Scope
	Styles  *styles.Styles
	Keys    keys.KeyMap
}

// Scope ties a screen's async work to the time it is on screen.
// Once cancelled, in-flight requests abort and their results are dropped.
type Scope struct {
	ID     uint64
	ctx    context.Context
	cancel context.CancelFunc
}

func NewScope(id uint64) *Scope {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scope{ID: id, ctx: ctx, cancel: cancel}
}

func (s *Scope) Cancel() { s.cancel() }

func (s *Scope) Done() bool { return s.ctx.Err() != nil }

// Scoped is a result addressed to the screen that owns scope Scope.
type Scoped struct {
	Scope uint64
	Msg   tea.Msg
}

// Go runs fn off the update loop under the scope's context.
func (s *Scope) Go(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg := fn(s.ctx)
		if s.Done() {
			return nil
		}
		return Scoped{Scope: s.ID, Msg: msg}
	}
}

// After delivers msg once d has passed, unless the scope ended first.
func (s *Scope) After(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		if s.Done() {
			return nil
		}
		return Scoped{Scope: s.ID, Msg: msg}
	})
}

// Failure is implemented by result messages that may carry a backend error.
type Failure interface {
	Failed() error
}

// InputCapturer screens take every key while a text field has focus.
type InputCapturer interface {
	CapturesInput() bool
}

// Navigate asks the app to show another screen, optionally with a toast.
type Navigate struct {
	To    route.Route
	Toast string
}

func navigate(to route.Route) tea.Cmd {
	return func() tea.Msg { return Navigate{To: to} }
}

// LoggedIn carries a fresh session for the app to store.
type LoggedIn struct {
	Token   string
	User    models.User
	Message string
}

type flashExpiredMsg struct {
	seq int
}

// flash is a short-lived success or error note.
type flash struct {
	text  string
	isErr bool
	seq   int
}

func (f *flash) show(scope *Scope, text string, isErr bool) tea.Cmd {
	f.seq++
	f.text = text
	f.isErr = isErr
	return scope.After(FeedbackDelay, flashExpiredMsg{seq: f.seq})
}

func (f *flash) expire(msg flashExpiredMsg) {
	if msg.seq == f.seq {
		f.text = ""
	}
}

func (f flash) view(s *styles.Styles) string {
	if f.text == "" {
		return ""
	}
	if f.isErr {
		return s.Error.Render("✗ " + f.text)
	}
	return s.Success.Render("✓ " + f.text)
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// helpLine renders "key desc • key desc" pairs.
func helpLine(s *styles.Styles, pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, fmt.Sprintf("%s %s", s.HelpKey.Render(pairs[i]), pairs[i+1]))
	}
	return s.Help.Render(strings.Join(parts, " • "))
}

func statusStyle(s *styles.Styles, status models.TaskStatus) lipgloss.Style {
	switch status {
	case models.StatusCompleted:
		return s.StatusCompleted
	case models.StatusInProgress:
		return s.StatusInProgress
	}
	return s.StatusPending
}

// confirmBox renders a yes/no question centered in the available space.
func confirmBox(s *styles.Styles, title, question string, width, height int) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render(title),
		"",
		s.TitleMuted.Render(question),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)
	return lipgloss.Place(styles.ContentWidth(width), max(height, 10),
		lipgloss.Center, lipgloss.Center,
		s.Modal.Render(content),
	)
}
