package views

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/pmt/internal/models"
	"github.com/tgienger/pmt/internal/testutil"
	"github.com/tgienger/pmt/internal/ui/route"
)

func TestDashboard_ShowsCounts(t *testing.T) {
	fb, client := signedIn(t)
	for _, n := range []string{"A", "B", "C"} {
		pid := fb.AddProject(n, n, "2025-06-01")
		fb.AddTask(pid, n+"1", models.StatusPending)
		fb.AddTask(pid, n+"2", models.StatusCompleted)
	}
	fb.AddTask(1, "extra", models.StatusInProgress)

	env := newEnv(t, client)
	v := NewDashboardView(env)
	h := mount(t, v, env)

	if got := v.Stats(); got.ProjectsCount != 3 || got.TasksCount != 7 {
		t.Fatalf("Stats() = %+v", got)
	}
	view := h.View()
	for _, want := range []string{"Total Projects", "Total Tasks", "3", "7"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestDashboard_CardsNavigate(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want route.Route
	}{
		{"projects card", []tea.KeyMsg{{Type: tea.KeyEnter}}, route.To(route.Projects)},
		{"tasks card", []tea.KeyMsg{{Type: tea.KeyRight}, {Type: tea.KeyEnter}}, route.To(route.Tasks)},
		{"right stops at last card", []tea.KeyMsg{{Type: tea.KeyRight}, {Type: tea.KeyRight}, {Type: tea.KeyEnter}}, route.To(route.Tasks)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := signedIn(t)
			env := newEnv(t, client)
			h := mount(t, NewDashboardView(env), env)
			for _, k := range tt.keys {
				testutil.Send(t, h, k)
			}
			if got := h.lastRoute(); got != tt.want {
				t.Errorf("navigated to %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDashboard_Failure(t *testing.T) {
	fb, client := signedIn(t)
	fb.Fail(http.MethodGet, "/dashboard-stats", http.StatusInternalServerError, "db down")

	env := newEnv(t, client)
	v := NewDashboardView(env)
	mount(t, v, env)

	if v.Err() != "Failed to load statistics." {
		t.Errorf("Err() = %q", v.Err())
	}
}

func TestDashboard_ReloadStartsOneSpinner(t *testing.T) {
	countTicks := func(cmd tea.Cmd) (ticks, results int) {
		for _, msg := range testutil.Collect([]tea.Cmd{cmd}, time.Second) {
			switch msg.(type) {
			case spinner.TickMsg:
				ticks++
			case Scoped:
				results++
			}
		}
		return ticks, results
	}

	_, client := signedIn(t)
	env := newEnv(t, client)
	v := NewDashboardView(env)

	// still loading from mount: refetch only
	_, cmd := v.Update(runes("r"))
	if ticks, results := countTicks(cmd); ticks != 0 || results != 1 {
		t.Errorf("reload while loading: %d ticks, %d results; want 0, 1", ticks, results)
	}

	h := mount(t, v, env)
	_, cmd = h.screen.Update(runes("r"))
	if ticks, results := countTicks(cmd); ticks != 1 || results != 1 {
		t.Errorf("reload after load: %d ticks, %d results; want 1, 1", ticks, results)
	}
}

func TestProjectDetail_PagesNestedTasks(t *testing.T) {
	fb, client := signedIn(t)
	pid := fb.AddProject("Website", "Relaunch the site", "2025-06-01")
	for _, title := range []string{"Design", "Build", "Launch"} {
		fb.AddTask(pid, title, models.StatusPending)
	}
	other := fb.AddProject("Other", "x", "2025-06-01")
	fb.AddTask(other, "Unrelated", models.StatusPending)

	env := newEnv(t, client)
	v := NewProjectDetailView(env, pid)
	h := mount(t, v, env)

	if v.Project().Name != "Website" || len(v.Project().Tasks) != 3 {
		t.Fatalf("project = %+v", v.Project())
	}
	if got := v.VisibleTasks(); len(got) != 2 || got[0].Title != "Design" {
		t.Errorf("page 1 = %+v", got)
	}
	view := h.View()
	for _, want := range []string{"Website", "Relaunch the site", "01-06-2025", "Tasks (3)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	testutil.Send(t, h, tea.KeyMsg{Type: tea.KeyRight})
	if got := v.VisibleTasks(); len(got) != 1 || got[0].Title != "Launch" {
		t.Errorf("page 2 = %+v", got)
	}

	testutil.Send(t, h, tea.KeyMsg{Type: tea.KeyEsc})
	if got := h.lastRoute(); got != route.To(route.Projects) {
		t.Errorf("esc went to %v", got)
	}
}

func fillLogin(t *testing.T, h *host, email, password string) {
	t.Helper()
	testutil.Type(t, h, email)
	testutil.Send(t, h, tab)
	testutil.Type(t, h, password)
	testutil.Send(t, h, submit)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  string
	}{
		{"success", "ada@example.com", "secret", ""},
		{"wrong password", "ada@example.com", "nope", "Invalid credentials"},
		{"missing email", "", "secret", "Email is required"},
		{"missing password", "ada@example.com", "", "Password is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, client := anonymous(t)
			fb.AddUser("Ada", "ada@example.com", "secret")

			env := newEnv(t, client)
			v := NewLoginView(env)
			h := mount(t, v, env)
			fillLogin(t, h, tt.email, tt.password)

			if v.Err() != tt.wantErr {
				t.Errorf("Err() = %q, want %q", v.Err(), tt.wantErr)
			}
			if tt.wantErr != "" {
				if len(h.loggedIn) != 0 {
					t.Error("failed login must not produce a session")
				}
				return
			}
			if len(h.loggedIn) != 1 {
				t.Fatalf("loggedIn = %+v", h.loggedIn)
			}
			got := h.loggedIn[0]
			if got.Token == "" || got.User.Name != "Ada" || got.Message != "Login successful" {
				t.Errorf("LoggedIn = %+v", got)
			}
		})
	}
}

func TestLogin_NoAuthHeader(t *testing.T) {
	fb, client := anonymous(t)
	fb.AddUser("Ada", "ada@example.com", "secret")

	env := newEnv(t, client)
	fillLogin(t, mount(t, NewLoginView(env), env), "ada@example.com", "secret")

	for _, c := range fb.Calls() {
		if c.Path == "/login" && c.Authorization != "" {
			t.Errorf("login sent Authorization %q", c.Authorization)
		}
	}
}

func TestRegister(t *testing.T) {
	fb, client := anonymous(t)
	fb.AddUser("Ada", "ada@example.com", "secret")

	tests := []struct {
		name    string
		email   string
		wantErr string
	}{
		{"new account", "grace@example.com", ""},
		{"taken email", "ada@example.com", "The email has already been taken."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t, client)
			v := NewRegisterView(env)
			h := mount(t, v, env)

			testutil.Type(t, h, "Grace")
			testutil.Send(t, h, tab)
			testutil.Type(t, h, tt.email)
			testutil.Send(t, h, tab)
			testutil.Type(t, h, "hopper")
			testutil.Send(t, h, submit)

			if v.Err() != tt.wantErr {
				t.Fatalf("Err() = %q, want %q", v.Err(), tt.wantErr)
			}
			if tt.wantErr != "" {
				return
			}
			if len(h.navigated) != 1 {
				t.Fatalf("navigated = %+v", h.navigated)
			}
			nav := h.navigated[0]
			if nav.To != route.To(route.Login) || nav.Toast != "User registered successfully" {
				t.Errorf("navigate = %+v", nav)
			}
		})
	}
}

func TestHome(t *testing.T) {
	tests := []struct {
		name     string
		signedIn bool
		key      tea.KeyMsg
		want     route.Route
	}{
		{"login", false, runes("l"), route.To(route.Login)},
		{"register", false, runes("s"), route.To(route.Register)},
		{"enter signed out", false, tea.KeyMsg{Type: tea.KeyEnter}, route.To(route.Login)},
		{"enter signed in", true, tea.KeyMsg{Type: tea.KeyEnter}, route.To(route.Dashboard)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := anonymous(t)
			env := newEnv(t, client)
			h := mount(t, NewHomeView(env, tt.signedIn), env)
			testutil.Send(t, h, tt.key)
			if got := h.lastRoute(); got != tt.want {
				t.Errorf("navigated to %v, want %v", got, tt.want)
			}
		})
	}
}
