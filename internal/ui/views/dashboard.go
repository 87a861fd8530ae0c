package views

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/pmt/internal/models"
	"github.com/tgienger/pmt/internal/ui/route"
	"github.com/tgienger/pmt/internal/ui/styles"
)

const statsFailure = "Failed to load statistics."

type statsLoadedMsg struct {
	stats models.DashboardStats
	err   error
}

func (m statsLoadedMsg) Failed() error { return m.err }

type card struct {
	title string
	to    route.Route
}

var dashboardCards = []card{
	{title: "Total Projects", to: route.To(route.Projects)},
	{title: "Total Tasks", to: route.To(route.Tasks)},
}

// DashboardView shows the project and task counts.
type DashboardView struct {
	env      Env
	styles   *styles.Styles
	spinner  spinner.Model
	stats    models.DashboardStats
	loading  bool
	errMsg   string
	focusIdx int
	width    int
	height   int
}

func NewDashboardView(env Env) *DashboardView {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Current.Primary)
	return &DashboardView{env: env, styles: env.Styles, spinner: sp, loading: true}
}

func (v *DashboardView) Init() tea.Cmd {
	return tea.Batch(v.spinner.Tick, v.fetch())
}

func (v *DashboardView) fetch() tea.Cmd {
	backend := v.env.Backend
	return v.env.Scope.Go(func(ctx context.Context) tea.Msg {
		stats, err := backend.DashboardStats(ctx)
		return statsLoadedMsg{stats: stats, err: err}
	})
}

// Stats returns the counts last received.
func (v *DashboardView) Stats() models.DashboardStats { return v.stats }

func (v *DashboardView) Err() string { return v.errMsg }

func (v *DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
		return v, nil

	case statsLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.errMsg = statsFailure
			return v, nil
		}
		v.errMsg = ""
		v.stats = msg.stats
		return v, nil

	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		k := v.env.Keys
		switch {
		case key.Matches(msg, k.Left), key.Matches(msg, k.ShiftTab):
			v.focusIdx = clamp(v.focusIdx-1, 0, len(dashboardCards)-1)
		case key.Matches(msg, k.Right), key.Matches(msg, k.Tab):
			v.focusIdx = clamp(v.focusIdx+1, 0, len(dashboardCards)-1)
		case key.Matches(msg, k.Enter):
			return v, navigate(dashboardCards[v.focusIdx].to)
		case key.Matches(msg, k.Refresh):
			// one tick chain per load; a running one keeps going
			if v.loading {
				return v, v.fetch()
			}
			v.loading = true
			return v, tea.Batch(v.spinner.Tick, v.fetch())
		}
	}
	return v, nil
}

func (v *DashboardView) View() string {
	s := v.styles
	counts := []int{v.stats.ProjectsCount, v.stats.TasksCount}

	cards := make([]string, 0, len(dashboardCards)*2)
	for i, c := range dashboardCards {
		value := strconv.Itoa(counts[i])
		if v.loading {
			value = v.spinner.View()
		}
		style := s.Card
		if i == v.focusIdx {
			style = s.CardFocused
		}
		if i > 0 {
			cards = append(cards, "  ")
		}
		cards = append(cards, style.Render(lipgloss.JoinVertical(lipgloss.Left,
			s.TitleMuted.Render(c.title),
			s.CardValue.Render(value),
		)))
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n")
	if v.errMsg != "" {
		b.WriteString("\n" + s.Error.Render(v.errMsg) + "\n")
	}
	b.WriteString(helpLine(s, "←/→", "choose", "↵", "open", "r", "reload"))
	return b.String()
}
