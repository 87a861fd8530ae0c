package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/pmt/internal/api"
	"github.com/tgienger/pmt/internal/ui/paging"
	"github.com/tgienger/pmt/internal/ui/route"
	"github.com/tgienger/pmt/internal/ui/styles"
)

// Column is one table column over T.
type Column[T any] struct {
	Title string
	Width int
	Value func(T) string
}

// Resource describes a listable, deletable collection.
type Resource[T any] struct {
	Title    string // "Projects"
	Noun     string // "project"
	PageSize int
	Columns  []Column[T]

	ID     func(T) int64
	Name   func(T) string
	Fetch  func(ctx context.Context) ([]T, error)
	Delete func(ctx context.Context, id int64) error

	NewRoute  route.Route
	EditRoute func(id int64) route.Route
	// OpenRoute is where enter goes. Nil disables enter.
	OpenRoute func(T) route.Route
}

func (r Resource[T]) noun() string {
	if r.Noun == "" {
		return "item"
	}
	return r.Noun
}

func (r Resource[T]) capNoun() string {
	n := r.noun()
	return strings.ToUpper(n[:1]) + n[1:]
}

type itemsLoadedMsg[T any] struct {
	items []T
	err   error
}

func (m itemsLoadedMsg[T]) Failed() error { return m.err }

type itemDeletedMsg struct {
	id  int64
	err error
}

func (m itemDeletedMsg) Failed() error { return m.err }

// ListView is a paged table over one resource with delete confirmation.
type ListView[T any] struct {
	res    Resource[T]
	env    Env
	styles *styles.Styles

	items   []T
	pager   paging.Pager
	table   table.Model
	loading bool
	loadErr string
	flash   flash

	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string
	deleting         bool

	width  int
	height int
}

func NewListView[T any](res Resource[T], env Env) *ListView[T] {
	s := env.Styles

	cols := make([]table.Column, 0, len(res.Columns)+1)
	cols = append(cols, table.Column{Title: "S.No", Width: 5})
	for _, c := range res.Columns {
		cols = append(cols, table.Column{Title: c.Title, Width: c.Width})
	}

	ts := table.DefaultStyles()
	ts.Header = s.TableHeader.Padding(0, 1)
	ts.Cell = s.TableCell.Padding(0, 1)
	ts.Selected = lipgloss.NewStyle().Foreground(styles.Current.Primary).Background(styles.Current.Selection).Bold(true)

	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(res.PageSize+1),
		table.WithStyles(ts),
		// paging keys belong to the view, and d/u are taken by actions
		table.WithKeyMap(table.KeyMap{LineUp: env.Keys.Up, LineDown: env.Keys.Down}),
	)

	return &ListView[T]{
		res:     res,
		env:     env,
		styles:  s,
		pager:   paging.New(res.PageSize),
		table:   t,
		loading: true,
	}
}

func (v *ListView[T]) Init() tea.Cmd {
	return v.load()
}

func (v *ListView[T]) load() tea.Cmd {
	v.loading = true
	fetch := v.res.Fetch
	return v.env.Scope.Go(func(ctx context.Context) tea.Msg {
		items, err := fetch(ctx)
		return itemsLoadedMsg[T]{items: items, err: err}
	})
}

// Items returns the loaded collection.
func (v *ListView[T]) Items() []T { return v.items }

// Pager returns the current window.
func (v *ListView[T]) Pager() paging.Pager { return v.pager }

// Visible returns the items on the current page.
func (v *ListView[T]) Visible() []T { return paging.Window(v.items, v.pager) }

// Flash returns the note currently shown, if any.
func (v *ListView[T]) Flash() string { return v.flash.text }

// Confirming reports whether the delete prompt is up.
func (v *ListView[T]) Confirming() bool { return v.confirmingDelete }

func (v *ListView[T]) selected() (T, bool) {
	var zero T
	visible := v.Visible()
	i := v.table.Cursor()
	if i < 0 || i >= len(visible) {
		return zero, false
	}
	return visible[i], true
}

func (v *ListView[T]) refreshRows() {
	visible := v.Visible()
	rows := make([]table.Row, len(visible))
	offset := v.pager.Offset()
	for i, item := range visible {
		row := make(table.Row, 0, len(v.res.Columns)+1)
		row = append(row, strconv.Itoa(offset+i+1))
		for _, c := range v.res.Columns {
			row = append(row, c.Value(item))
		}
		rows[i] = row
	}
	v.table.SetRows(rows)
	v.table.SetCursor(clamp(v.table.Cursor(), 0, max(len(rows)-1, 0)))
}

func (v *ListView[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.table.SetWidth(styles.ContentWidth(msg.Width) - 4)
		return v, nil

	case itemsLoadedMsg[T]:
		v.loading = false
		if msg.err != nil {
			v.loadErr = fmt.Sprintf("Failed to load %s.", strings.ToLower(v.res.Title))
			v.items = nil
		} else {
			v.loadErr = ""
			v.items = msg.items
		}
		v.pager.SetTotal(len(v.items))
		v.refreshRows()
		return v, nil

	case itemDeletedMsg:
		v.deleting = false
		if msg.err != nil {
			return v, v.flash.show(v.env.Scope, fmt.Sprintf("Failed to delete %s. Try again.", v.res.noun()), true)
		}
		kept := v.items[:0:0]
		for _, item := range v.items {
			if v.res.ID(item) != msg.id {
				kept = append(kept, item)
			}
		}
		v.items = kept
		v.pager.SetTotal(len(v.items))
		v.refreshRows()
		return v, v.flash.show(v.env.Scope, v.res.capNoun()+" deleted successfully!", false)

	case flashExpiredMsg:
		v.flash.expire(msg)
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		return v.updateKeys(msg)
	}
	return v, nil
}

func (v *ListView[T]) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := v.env.Keys
	switch {
	case key.Matches(msg, k.New):
		return v, navigate(v.res.NewRoute)
	case key.Matches(msg, k.Refresh):
		return v, v.load()
	case key.Matches(msg, k.PrevPage):
		if v.pager.Prev() {
			v.table.SetCursor(0)
			v.refreshRows()
		}
		return v, nil
	case key.Matches(msg, k.NextPage):
		if v.pager.Next() {
			v.table.SetCursor(0)
			v.refreshRows()
		}
		return v, nil
	}
	if page, ok := digit(msg); ok {
		if v.pager.GoTo(page) {
			v.table.SetCursor(0)
			v.refreshRows()
		}
		return v, nil
	}

	item, ok := v.selected()
	if !ok {
		return v, nil
	}
	switch {
	case key.Matches(msg, k.Enter):
		if v.res.OpenRoute != nil {
			return v, navigate(v.res.OpenRoute(item))
		}
	case key.Matches(msg, k.Edit):
		return v, navigate(v.res.EditRoute(v.res.ID(item)))
	case key.Matches(msg, k.Delete):
		if v.deleting {
			return v, nil
		}
		v.confirmingDelete = true
		v.deleteTargetID = v.res.ID(item)
		v.deleteTargetName = v.res.Name(item)
		return v, nil
	default:
		var cmd tea.Cmd
		v.table, cmd = v.table.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *ListView[T]) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.env.Keys.Yes):
		v.confirmingDelete = false
		v.deleting = true
		id := v.deleteTargetID
		del := v.res.Delete
		return v, v.env.Scope.Go(func(ctx context.Context) tea.Msg {
			return itemDeletedMsg{id: id, err: del(ctx, id)}
		})
	case key.Matches(msg, v.env.Keys.No):
		v.confirmingDelete = false
		v.deleteTargetID = 0
		v.deleteTargetName = ""
	}
	return v, nil
}

func (v *ListView[T]) View() string {
	s := v.styles
	if v.confirmingDelete {
		return confirmBox(s, "Delete "+v.res.capNoun(),
			fmt.Sprintf("Are you sure you want to delete %q?", v.deleteTargetName),
			v.width, v.height-4)
	}

	var b strings.Builder
	b.WriteString(s.Title.Render(v.res.Title))
	b.WriteString("  ")
	b.WriteString(s.ButtonPrimary.Render("n Add New " + v.res.capNoun()))
	b.WriteString("\n\n")

	if note := v.flash.view(s); note != "" {
		b.WriteString(note + "\n\n")
	}
	if v.loadErr != "" {
		b.WriteString(s.Error.Render(v.loadErr) + "\n\n")
	}

	switch {
	case v.loading && len(v.items) == 0:
		b.WriteString(s.TitleMuted.Render("Loading..."))
	case len(v.items) == 0:
		b.WriteString(s.TitleMuted.Render(fmt.Sprintf("No %s found.", strings.ToLower(v.res.Title))))
	default:
		b.WriteString(v.table.View())
		b.WriteString("\n\n")
		b.WriteString(pageBar(s, v.pager))
	}

	b.WriteString("\n")
	pairs := []string{"↑/↓", "select", "←/→ 1-9", "page", "n", "new", "e", "edit", "d", "delete", "r", "reload"}
	if v.res.OpenRoute != nil {
		pairs = append(pairs, "↵", "open")
	}
	b.WriteString(helpLine(s, pairs...))
	return b.String()
}

// pageBar renders "‹ Prev 1 [2] 3 Next ›" with unreachable ends dimmed.
func pageBar(s *styles.Styles, p paging.Pager) string {
	if p.Pages() <= 1 {
		return ""
	}
	prev := s.NavItem.Render("‹ Prev")
	if !p.HasPrev() {
		prev = s.ButtonDisabled.Render("‹ Prev")
	}
	next := s.NavItem.Render("Next ›")
	if !p.HasNext() {
		next = s.ButtonDisabled.Render("Next ›")
	}
	parts := []string{prev}
	for i := 1; i <= p.Pages(); i++ {
		if i == p.Page() {
			parts = append(parts, s.NavActive.Render(strconv.Itoa(i)))
		} else {
			parts = append(parts, s.NavItem.Render(strconv.Itoa(i)))
		}
	}
	parts = append(parts, next, s.TitleMuted.Render(" "+p.Summary()))
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

// errorText prefers the server's message over fallback.
func errorText(err error, fallback string) string {
	return api.Message(err, fallback)
}

// digit reports the page number typed as a single 1-9 key.
func digit(msg tea.KeyMsg) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}
