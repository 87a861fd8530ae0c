package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/pmt/internal/models"
	"github.com/tgienger/pmt/internal/ui/paging"
	"github.com/tgienger/pmt/internal/ui/route"
	"github.com/tgienger/pmt/internal/ui/styles"
)

type projectLoadedMsg struct {
	project models.Project
	err     error
}

func (m projectLoadedMsg) Failed() error { return m.err }

// ProjectDetailView shows one project and pages through its tasks.
type ProjectDetailView struct {
	env     Env
	styles  *styles.Styles
	id      int64
	project models.Project
	pager   paging.Pager
	loading bool
	errMsg  string
	width   int
	height  int
}

func NewProjectDetailView(env Env, id int64) *ProjectDetailView {
	return &ProjectDetailView{
		env:     env,
		styles:  env.Styles,
		id:      id,
		pager:   paging.New(ProjectTaskPageSize),
		loading: true,
	}
}

func (v *ProjectDetailView) Init() tea.Cmd {
	backend, id := v.env.Backend, v.id
	return v.env.Scope.Go(func(ctx context.Context) tea.Msg {
		p, err := backend.GetProject(ctx, id)
		return projectLoadedMsg{project: p, err: err}
	})
}

// Project returns the loaded project.
func (v *ProjectDetailView) Project() models.Project { return v.project }

// Pager returns the nested task window.
func (v *ProjectDetailView) Pager() paging.Pager { return v.pager }

// VisibleTasks returns the tasks on the current page.
func (v *ProjectDetailView) VisibleTasks() []models.Task {
	return paging.Window(v.project.Tasks, v.pager)
}

func (v *ProjectDetailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
		return v, nil

	case projectLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.errMsg = errorText(msg.err, "Failed to load project.")
			return v, nil
		}
		v.project = msg.project
		v.pager.SetTotal(len(v.project.Tasks))
		return v, nil

	case tea.KeyMsg:
		k := v.env.Keys
		switch {
		case key.Matches(msg, k.Back):
			return v, navigate(route.To(route.Projects))
		case key.Matches(msg, k.Edit):
			return v, navigate(route.WithID(route.EditProject, v.id))
		case key.Matches(msg, k.PrevPage):
			v.pager.Prev()
		case key.Matches(msg, k.NextPage):
			v.pager.Next()
		default:
			if page, ok := digit(msg); ok {
				v.pager.GoTo(page)
			}
		}
	}
	return v, nil
}

func (v *ProjectDetailView) View() string {
	s := v.styles
	var b strings.Builder

	if v.loading {
		b.WriteString(s.TitleMuted.Render("Loading..."))
		return b.String()
	}
	if v.errMsg != "" {
		b.WriteString(s.Error.Render(v.errMsg))
		b.WriteString("\n")
		b.WriteString(helpLine(s, "esc", "back"))
		return b.String()
	}

	p := v.project
	b.WriteString(s.Title.Render(p.Name))
	b.WriteString("\n")
	if p.Description != "" {
		b.WriteString(s.TableCell.Width(styles.ContentWidth(v.width) - 4).Render(p.Description))
		b.WriteString("\n")
	}
	b.WriteString(s.Label.Render("Due: ") + s.TableCell.Render(p.DueDate.Display()))
	b.WriteString("\n\n")

	b.WriteString(s.Title.Render(fmt.Sprintf("Tasks (%d)", len(p.Tasks))))
	b.WriteString("\n")
	if len(p.Tasks) == 0 {
		b.WriteString(s.TitleMuted.Render("No tasks for this project."))
	} else {
		offset := v.pager.Offset()
		for i, t := range v.VisibleTasks() {
			line := lipgloss.JoinHorizontal(lipgloss.Top,
				s.TitleMuted.Width(5).Render(fmt.Sprintf("%d.", offset+i+1)),
				s.TableCell.Width(28).Render(t.Title),
				s.TableCell.Width(14).Render(t.DueDate.Display()),
				statusStyle(s, t.Status).Render(t.Status.Label()),
			)
			b.WriteString(line + "\n")
			if t.Description != "" {
				b.WriteString(s.TitleMuted.PaddingLeft(5).Render(t.Description) + "\n")
			}
		}
		b.WriteString("\n")
		b.WriteString(pageBar(s, v.pager))
	}

	b.WriteString("\n")
	b.WriteString(helpLine(s, "←/→ 1-9", "page", "e", "edit project", "esc", "back"))
	return b.String()
}
