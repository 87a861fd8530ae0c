package views

import (
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/pmt/internal/models"
	"github.com/tgienger/pmt/internal/testutil"
	"github.com/tgienger/pmt/internal/ui/route"
)

func seedProjects(fb *testutil.Backend, names ...string) []int64 {
	ids := make([]int64, len(names))
	for i, n := range names {
		ids[i] = fb.AddProject(n, n+" description", "2025-06-01")
	}
	return ids
}

func names(projects []models.Project) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.Name
	}
	return out
}

func TestProjectList_Pagination(t *testing.T) {
	fb, client := signedIn(t)
	seedProjects(fb, "Alpha", "Beta", "Gamma")

	env := newEnv(t, client)
	v := NewListView(ProjectsResource(client), env)
	h := mount(t, v, env)

	if len(v.Items()) != 3 {
		t.Fatalf("loaded %d projects, want 3", len(v.Items()))
	}
	if v.Pager().Pages() != 2 {
		t.Fatalf("Pages() = %d, want 2", v.Pager().Pages())
	}

	steps := []struct {
		name string
		key  tea.KeyMsg
		page int
		want string
	}{
		{"first page", tea.KeyMsg{}, 1, "Alpha,Beta"},
		{"next", tea.KeyMsg{Type: tea.KeyRight}, 2, "Gamma"},
		{"next past end is ignored", tea.KeyMsg{Type: tea.KeyRight}, 2, "Gamma"},
		{"jump to page 1", runes("1"), 1, "Alpha,Beta"},
		{"prev before start is ignored", tea.KeyMsg{Type: tea.KeyLeft}, 1, "Alpha,Beta"},
		{"jump past last page is ignored", runes("5"), 1, "Alpha,Beta"},
	}
	for _, st := range steps {
		if st.key.Type != 0 || len(st.key.Runes) > 0 {
			testutil.Send(t, h, st.key)
		}
		if got := v.Pager().Page(); got != st.page {
			t.Errorf("%s: page = %d, want %d", st.name, got, st.page)
		}
		if got := strings.Join(names(v.Visible()), ","); got != st.want {
			t.Errorf("%s: visible = %s, want %s", st.name, got, st.want)
		}
	}
}

func TestProjectList_DeleteConfirmed(t *testing.T) {
	fb, client := signedIn(t)
	ids := seedProjects(fb, "Alpha", "Beta", "Gamma")

	env := newEnv(t, client)
	v := NewListView(ProjectsResource(client), env)
	h := mount(t, v, env)

	testutil.Send(t, h, tea.KeyMsg{Type: tea.KeyRight}, runes("d"))
	if !v.Confirming() {
		t.Fatal("d should ask for confirmation")
	}
	if !strings.Contains(h.View(), "Gamma") {
		t.Error("confirmation should name the project")
	}

	testutil.Send(t, h, runes("y"))

	if n := fb.CallsTo(http.MethodDelete, "/projects/"+itoa(ids[2])); n != 1 {
		t.Fatalf("DELETE calls = %d, want 1", n)
	}
	if got := strings.Join(names(v.Items()), ","); got != "Alpha,Beta" {
		t.Errorf("items = %s", got)
	}
	if v.Pager().Page() != 1 || v.Pager().Pages() != 1 {
		t.Errorf("window should move to the new last page, got %d/%d", v.Pager().Page(), v.Pager().Pages())
	}
	if v.Flash() != "Project deleted successfully!" {
		t.Errorf("flash = %q", v.Flash())
	}
}

func TestProjectList_FlashClears(t *testing.T) {
	shortFeedback(t)
	fb, client := signedIn(t)
	seedProjects(fb, "Alpha")

	env := newEnv(t, client)
	v := NewListView(ProjectsResource(client), env)
	h := mount(t, v, env)

	testutil.Send(t, h, runes("d"), runes("y"))
	if len(v.Items()) != 0 {
		t.Fatalf("items = %v", names(v.Items()))
	}
	if v.Flash() != "" {
		t.Errorf("flash still showing %q after the delay", v.Flash())
	}
	if !strings.Contains(h.View(), "No projects found.") {
		t.Error("empty list should say so")
	}
}

func TestProjectList_DeleteCancelled(t *testing.T) {
	fb, client := signedIn(t)
	seedProjects(fb, "Alpha", "Beta")

	env := newEnv(t, client)
	v := NewListView(ProjectsResource(client), env)
	h := mount(t, v, env)

	testutil.Send(t, h, runes("d"), runes("n"))

	if v.Confirming() {
		t.Error("prompt still open")
	}
	for _, c := range fb.Calls() {
		if c.Method == http.MethodDelete {
			t.Fatalf("unexpected %s %s", c.Method, c.Path)
		}
	}
	if len(v.Items()) != 2 {
		t.Errorf("items = %v", names(v.Items()))
	}
}

func TestProjectList_DeleteFailure(t *testing.T) {
	fb, client := signedIn(t)
	seedProjects(fb, "Alpha", "Beta")
	fb.Fail(http.MethodDelete, "/projects/{id}", http.StatusInternalServerError, "")

	env := newEnv(t, client)
	v := NewListView(ProjectsResource(client), env)
	h := mount(t, v, env)

	testutil.Send(t, h, runes("d"), runes("y"))

	if len(v.Items()) != 2 {
		t.Errorf("failed delete changed items: %v", names(v.Items()))
	}
	if v.Flash() != "Failed to delete project. Try again." {
		t.Errorf("flash = %q", v.Flash())
	}
}

func TestProjectList_LoadFailure(t *testing.T) {
	fb, client := signedIn(t)
	fb.Fail(http.MethodGet, "/projects", http.StatusInternalServerError, "")

	env := newEnv(t, client)
	v := NewListView(ProjectsResource(client), env)
	h := mount(t, v, env)

	view := h.View()
	for _, want := range []string{"Failed to load projects.", "No projects found."} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestProjectList_Actions(t *testing.T) {
	fb, client := signedIn(t)
	ids := seedProjects(fb, "Alpha", "Beta")

	tests := []struct {
		name string
		keys []tea.KeyMsg
		want route.Route
	}{
		{"new", []tea.KeyMsg{runes("n")}, route.To(route.AddProject)},
		{"edit selected", []tea.KeyMsg{runes("e")}, route.WithID(route.EditProject, ids[0])},
		{"open second", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyEnter}}, route.WithID(route.ProjectDetails, ids[1])},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t, client)
			v := NewListView(ProjectsResource(client), env)
			h := mount(t, v, env)
			for _, k := range tt.keys {
				testutil.Send(t, h, k)
			}
			if got := h.lastRoute(); got != tt.want {
				t.Errorf("navigated to %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTaskList_PagesOfFive(t *testing.T) {
	fb, client := signedIn(t)
	pid := fb.AddProject("Website", "Site", "2025-06-01")
	for i := range 6 {
		fb.AddTask(pid, "Task "+itoa(int64(i+1)), models.StatusPending)
	}

	env := newEnv(t, client)
	v := NewListView(TasksResource(client), env)
	h := mount(t, v, env)

	if len(v.Visible()) != 5 || v.Pager().Pages() != 2 {
		t.Fatalf("visible %d of %d pages", len(v.Visible()), v.Pager().Pages())
	}
	if !strings.Contains(h.View(), "Website") {
		t.Error("task rows should show the project name")
	}

	testutil.Send(t, h, tea.KeyMsg{Type: tea.KeyRight})
	if got := v.Visible(); len(got) != 1 || got[0].Title != "Task 6" {
		t.Errorf("page 2 = %+v", got)
	}

	testutil.Send(t, h, tea.KeyMsg{Type: tea.KeyEnter})
	if got := h.lastRoute(); got != route.WithID(route.ProjectDetails, pid) {
		t.Errorf("enter on a task went to %v", got)
	}
}
