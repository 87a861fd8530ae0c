package views

import (
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/pmt/internal/models"
	"github.com/tgienger/pmt/internal/testutil"
	"github.com/tgienger/pmt/internal/ui/route"
)

var (
	tab    = tea.KeyMsg{Type: tea.KeyTab}
	submit = tea.KeyMsg{Type: tea.KeyCtrlS}
)

func fillProject(t *testing.T, h *host, name, desc, due string) {
	t.Helper()
	testutil.Type(t, h, name)
	testutil.Send(t, h, tab)
	testutil.Type(t, h, desc)
	testutil.Send(t, h, tab)
	testutil.Type(t, h, due)
}

func TestAddProject_RequiresName(t *testing.T) {
	fb, client := signedIn(t)
	env := newEnv(t, client)
	v := NewFormView(AddProjectForm(client), env)
	h := mount(t, v, env)

	testutil.Send(t, h, submit)

	if v.Err() != "Project Name is required" {
		t.Errorf("Err() = %q", v.Err())
	}
	if n := fb.CallsTo(http.MethodPost, "/projects"); n != 0 {
		t.Errorf("POST /projects called %d times", n)
	}
}

func TestAddProject_RequiresEveryField(t *testing.T) {
	tests := []struct {
		name    string
		desc    string
		due     string
		wantErr string
	}{
		{"description", "", "", "Description is required"},
		{"due date", "Relaunch", "", "Due Date is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, client := signedIn(t)
			env := newEnv(t, client)
			v := NewFormView(AddProjectForm(client), env)
			h := mount(t, v, env)

			fillProject(t, h, "Website", tt.desc, tt.due)
			testutil.Send(t, h, submit)

			if v.Err() != tt.wantErr {
				t.Errorf("Err() = %q, want %q", v.Err(), tt.wantErr)
			}
			if n := fb.CallsTo(http.MethodPost, "/projects"); n != 0 {
				t.Errorf("POST /projects called %d times", n)
			}
		})
	}
}

func TestEditTask_RequiresDueDate(t *testing.T) {
	fb, client := signedIn(t)
	pid := fb.AddProject("Website", "Relaunch", "2025-06-01")
	tid := fb.AddTask(pid, "Logo", models.StatusPending)

	env := newEnv(t, client)
	v := NewFormView(EditTaskForm(client, tid), env)
	h := mount(t, v, env)

	testutil.Send(t, h, tab, tab)
	testutil.Type(t, h, "New logo")
	testutil.Send(t, h, submit)

	if v.Err() != "Due Date is required" {
		t.Errorf("Err() = %q", v.Err())
	}
	if n := fb.CallsTo(http.MethodPut, "/tasks/"+itoa(tid)); n != 0 {
		t.Errorf("PUT /tasks/%d called %d times", tid, n)
	}
}

func TestAddProject_Success(t *testing.T) {
	fb, client := signedIn(t)
	env := newEnv(t, client)
	v := NewFormView(AddProjectForm(client), env)
	h := mount(t, v, env)

	fillProject(t, h, "Website", "Relaunch", "2025-06-01")
	testutil.Send(t, h, submit)

	if n := fb.CallsTo(http.MethodPost, "/projects"); n != 1 {
		t.Fatalf("POST /projects called %d times, want 1", n)
	}
	var body map[string]any
	for _, c := range fb.Calls() {
		if c.Method == http.MethodPost && c.Path == "/projects" {
			body = c.Body
		}
	}
	want := map[string]any{"name": "Website", "description": "Relaunch", "due_date": "2025-06-01"}
	for k, val := range want {
		if body[k] != val {
			t.Errorf("body[%s] = %v, want %v", k, body[k], val)
		}
	}

	if v.Success() != "Project created successfully!" {
		t.Errorf("Success() = %q", v.Success())
	}
	for k, val := range v.Values() {
		if val != "" {
			t.Errorf("field %s kept %q after create", k, val)
		}
	}
	if len(h.navigated) != 0 {
		t.Errorf("redirected before the delay: %v", h.navigated)
	}
}

func TestAddProject_RedirectsAfterDelay(t *testing.T) {
	shortFeedback(t)
	_, client := signedIn(t)
	env := newEnv(t, client)
	v := NewFormView(AddProjectForm(client), env)
	h := mount(t, v, env)

	fillProject(t, h, "Website", "Relaunch", "2025-06-01")
	testutil.Send(t, h, submit)

	if got := h.lastRoute(); got != route.To(route.Projects) {
		t.Errorf("navigated to %v, want /projects", got)
	}
}

func TestAddProject_ServerMessage(t *testing.T) {
	fb, client := signedIn(t)
	fb.Fail(http.MethodPost, "/projects", http.StatusUnprocessableEntity, "The name has already been taken.")

	env := newEnv(t, client)
	v := NewFormView(AddProjectForm(client), env)
	h := mount(t, v, env)

	fillProject(t, h, "Website", "Relaunch", "2025-06-01")
	testutil.Send(t, h, submit)

	if v.Err() != "The name has already been taken." {
		t.Errorf("Err() = %q", v.Err())
	}
	if v.Values()["name"] != "Website" {
		t.Error("fields should be kept for resubmission")
	}
}

func TestEditProject_PrefillAndResend(t *testing.T) {
	fb, client := signedIn(t)
	id := fb.AddProject("Website", "Relaunch", "2025-06-01")

	env := newEnv(t, client)
	v := NewFormView(EditProjectForm(client, id), env)
	h := mount(t, v, env)

	vals := v.Values()
	if vals["name"] != "Website" || vals["description"] != "Relaunch" || vals["due_date"] != "2025-06-01" {
		t.Fatalf("prefill = %v", vals)
	}

	testutil.Type(t, h, " v2")
	testutil.Send(t, h, submit)

	if v.Success() != "Project updated successfully!" {
		t.Fatalf("Success() = %q, Err() = %q", v.Success(), v.Err())
	}
	got := fb.Projects()[0]
	if got.Name != "Website v2" || got.Description != "Relaunch" || got.DueDate.String() != "2025-06-01" {
		t.Errorf("stored project = %+v", got)
	}
}

func TestEditProject_LoadFailure(t *testing.T) {
	_, client := signedIn(t)
	env := newEnv(t, client)
	v := NewFormView(EditProjectForm(client, 999), env)
	mount(t, v, env)

	if v.Err() != "Project not found" {
		t.Errorf("Err() = %q", v.Err())
	}
}

func TestAddTask_ProjectRequiredAndNoStatusSent(t *testing.T) {
	fb, client := signedIn(t)
	pid := fb.AddProject("Website", "Relaunch", "2025-06-01")

	env := newEnv(t, client)
	v := NewFormView(AddTaskForm(client), env)
	h := mount(t, v, env)

	testutil.Send(t, h, tab)
	testutil.Type(t, h, "Write docs")
	testutil.Send(t, h, submit)
	if v.Err() != "Project is required" {
		t.Fatalf("Err() = %q", v.Err())
	}

	// back to the project select and pick the only option
	testutil.Send(t, h, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyRight})
	testutil.Send(t, h, tab, tab)
	testutil.Type(t, h, "Usage guide")
	testutil.Send(t, h, tab)
	testutil.Type(t, h, "2025-05-01")
	testutil.Send(t, h, submit)

	if v.Success() != "Task created successfully!" {
		t.Fatalf("Success() = %q, Err() = %q", v.Success(), v.Err())
	}
	var body map[string]any
	for _, c := range fb.Calls() {
		if c.Method == http.MethodPost && c.Path == "/tasks" {
			body = c.Body
		}
	}
	if body["project_id"] != float64(pid) || body["title"] != "Write docs" {
		t.Errorf("body = %v", body)
	}
	if _, ok := body["status"]; ok {
		t.Error("create must not send a status")
	}
}

func TestEditTask_WaitsForBothFetches(t *testing.T) {
	fb, client := signedIn(t)
	p1 := fb.AddProject("Website", "Relaunch", "2025-06-01")
	p2 := fb.AddProject("Mobile", "App", "2025-08-01")
	tid := fb.AddTask(p2, "Ship beta", models.StatusInProgress)

	env := newEnv(t, client)
	v := NewFormView(EditTaskForm(client, tid), env)
	h := mount(t, v, env)

	if fb.CallsTo(http.MethodGet, "/tasks/"+itoa(tid)) != 1 || fb.CallsTo(http.MethodGet, "/projects") != 1 {
		t.Fatalf("calls = %+v", fb.Calls())
	}
	vals := v.Values()
	if vals["project_id"] != itoa(p2) || vals["title"] != "Ship beta" || vals["status"] != "in_progress" {
		t.Fatalf("prefill = %v", vals)
	}

	// move the task to the first project and fill the fields the backend requires
	testutil.Send(t, h, tea.KeyMsg{Type: tea.KeyLeft}, tab, tab)
	testutil.Type(t, h, "Beta build")
	testutil.Send(t, h, tab)
	testutil.Type(t, h, "2025-07-01")
	testutil.Send(t, h, submit)

	if v.Success() != "Task updated successfully!" {
		t.Fatalf("Success() = %q, Err() = %q", v.Success(), v.Err())
	}
	got := fb.Tasks()[0]
	if got.ProjectID != p1 || got.Status != models.StatusInProgress || got.Description != "Beta build" {
		t.Errorf("stored task = %+v", got)
	}
}

func TestEditTask_EitherFetchFailing(t *testing.T) {
	tests := []struct {
		name  string
		route string
	}{
		{"task", "/tasks/{id}"},
		{"projects", "/projects"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, client := signedIn(t)
			pid := fb.AddProject("Website", "Relaunch", "2025-06-01")
			tid := fb.AddTask(pid, "Ship", models.StatusPending)
			fb.Fail(http.MethodGet, tt.route, http.StatusInternalServerError, "")

			env := newEnv(t, client)
			v := NewFormView(EditTaskForm(client, tid), env)
			mount(t, v, env)

			if v.Err() != "Failed to load task." {
				t.Errorf("Err() = %q", v.Err())
			}
			if v.Values()["title"] != "" {
				t.Error("form must not be prefilled from a partial load")
			}
		})
	}
}
