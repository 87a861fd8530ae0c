// Package testutil provides testing utilities.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/tgienger/pmt/internal/models"
)

// TokenLifetime is the exp claim distance of issued tokens.
const TokenLifetime = 24 * time.Hour

var signingKey = []byte("testutil-signing-key")

// Call records one request the fake backend received.
type Call struct {
	Method        string
	Path          string
	Authorization string
	Body          map[string]any
}

type fakeUser struct {
	user models.User
	hash []byte
}

type failure struct {
	status  int
	message string
}

// Backend is an in-memory implementation of the REST service for testing.
type Backend struct {
	mu       sync.Mutex
	users    map[string]fakeUser // email -> user
	tokens   map[string]models.User
	projects []models.Project
	tasks    []models.Task
	nextID   int64
	calls    []Call
	failures map[string]failure // "METHOD route-template" -> failure

	server *httptest.Server
}

// NewBackend starts a fake backend; it is closed when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{
		users:    make(map[string]fakeUser),
		tokens:   make(map[string]models.User),
		failures: make(map[string]failure),
	}
	b.server = httptest.NewServer(b.router())
	t.Cleanup(b.server.Close)
	return b
}

// URL returns the API base URL.
func (b *Backend) URL() string {
	return b.server.URL + "/api"
}

// AddUser registers an account directly.
func (b *Backend) AddUser(name, email, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.users[email] = fakeUser{user: models.User{ID: b.nextID, Name: name, Email: email}, hash: hash}
}

// IssueToken returns a valid token for an existing user without a login call.
func (b *Backend) IssueToken(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[email]
	if !ok {
		panic("testutil: unknown user " + email)
	}
	return b.issueLocked(u.user)
}

// RevokeTokens invalidates every issued token.
func (b *Backend) RevokeTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = make(map[string]models.User)
}

// AddProject seeds a project and returns its id.
func (b *Backend) AddProject(name, description, due string) int64 {
	d, err := models.ParseDate(due)
	if err != nil {
		panic(err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.projects = append(b.projects, models.Project{ID: b.nextID, Name: name, Description: description, DueDate: d})
	return b.nextID
}

// AddTask seeds a task and returns its id.
func (b *Backend) AddTask(projectID int64, title string, status models.TaskStatus) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.tasks = append(b.tasks, models.Task{ID: b.nextID, ProjectID: projectID, Title: title, Status: status})
	return b.nextID
}

// Fail makes every request matching method and route template (e.g.
// "/projects/{id}") answer with status and message.
func (b *Backend) Fail(method, route string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+route] = failure{status: status, message: message}
}

// Calls returns the requests received so far.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.calls)
}

// CallsTo counts requests with the given method and path.
func (b *Backend) CallsTo(method, path string) int {
	n := 0
	for _, c := range b.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// Projects returns the backend's current projects.
func (b *Backend) Projects() []models.Project {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.projects)
}

// Tasks returns the backend's current tasks.
func (b *Backend) Tasks() []models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.tasks)
}

func (b *Backend) issueLocked(u models.User) string {
	b.nextID++
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        strconv.FormatInt(b.nextID, 10),
		Subject:   strconv.FormatInt(u.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
	}).SignedString(signingKey)
	if err != nil {
		panic(fmt.Sprintf("testutil: sign token: %v", err))
	}
	b.tokens[token] = u
	return token
}

func (b *Backend) router() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(b.record, b.injectFailures, b.authenticate)

	api.HandleFunc("/login", b.login).Methods(http.MethodPost)
	api.HandleFunc("/register", b.register).Methods(http.MethodPost)
	api.HandleFunc("/dashboard-stats", b.stats).Methods(http.MethodGet)

	api.HandleFunc("/projects", b.listProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects", b.createProject).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}", b.getProject).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", b.updateProject).Methods(http.MethodPut)
	api.HandleFunc("/projects/{id}", b.deleteProject).Methods(http.MethodDelete)

	api.HandleFunc("/tasks", b.listTasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks", b.createTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}", b.getTask).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", b.updateTask).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id}", b.deleteTask).Methods(http.MethodDelete)
	return r
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := Call{
			Method:        r.Method,
			Path:          strings.TrimPrefix(r.URL.Path, "/api"),
			Authorization: r.Header.Get("Authorization"),
		}
		if r.Body != nil {
			raw, _ := io.ReadAll(r.Body)
			r.Body.Close()
			if len(raw) > 0 {
				json.Unmarshal(raw, &call.Body)
			}
			r.Body = io.NopCloser(strings.NewReader(string(raw)))
		}
		b.mu.Lock()
		b.calls = append(b.calls, call)
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tmpl, _ := mux.CurrentRoute(r).GetPathTemplate()
		b.mu.Lock()
		f, ok := b.failures[r.Method+" "+strings.TrimPrefix(tmpl, "/api")]
		b.mu.Unlock()
		if ok {
			writeJSON(w, f.status, map[string]string{"message": f.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/login") || strings.HasSuffix(r.URL.Path, "/register") {
			next.ServeHTTP(w, r)
			return
		}
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		b.mu.Lock()
		_, ok := b.tokens[token]
		b.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthenticated."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var in struct{ Email, Password string }
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Malformed request."})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[in.Email]
	if !ok || bcrypt.CompareHashAndPassword(u.hash, []byte(in.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":   b.issueLocked(u.user),
		"user":    u.user,
		"message": "Login successful",
	})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var in struct{ Name, Email, Password string }
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Malformed request."})
		return
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "All fields are required."})
		return
	}
	b.mu.Lock()
	_, taken := b.users[in.Email]
	b.mu.Unlock()
	if taken {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "The email has already been taken."})
		return
	}
	b.AddUser(in.Name, in.Email, in.Password)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

func (b *Backend) stats(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, models.DashboardStats{ProjectsCount: len(b.projects), TasksCount: len(b.tasks)})
}

func (b *Backend) listProjects(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Project, len(b.projects))
	copy(out, b.projects)
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) getProject(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.projects, func(p models.Project) bool { return p.ID == id })
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Project not found"})
		return
	}
	p := b.projects[i]
	p.Tasks = []models.Task{}
	for _, t := range b.tasks {
		if t.ProjectID == id {
			p.Tasks = append(p.Tasks, t)
		}
	}
	writeJSON(w, http.StatusOK, p)
}

type projectBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
}

func (pb projectBody) validate() (models.Date, string) {
	if pb.Name == "" || pb.Description == "" || pb.DueDate == "" {
		return models.Date{}, "The name, description and due date fields are required."
	}
	d, err := models.ParseDate(pb.DueDate)
	if err != nil {
		return models.Date{}, "The due date field must be a valid date."
	}
	return d, ""
}

func (b *Backend) createProject(w http.ResponseWriter, r *http.Request) {
	var in projectBody
	json.NewDecoder(r.Body).Decode(&in)
	due, msg := in.validate()
	if msg != "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": msg})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	p := models.Project{ID: b.nextID, Name: in.Name, Description: in.Description, DueDate: due}
	b.projects = append(b.projects, p)
	writeJSON(w, http.StatusCreated, p)
}

func (b *Backend) updateProject(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var in projectBody
	json.NewDecoder(r.Body).Decode(&in)
	due, msg := in.validate()
	if msg != "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": msg})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.projects, func(p models.Project) bool { return p.ID == id })
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Project not found"})
		return
	}
	b.projects[i].Name, b.projects[i].Description, b.projects[i].DueDate = in.Name, in.Description, due
	writeJSON(w, http.StatusOK, b.projects[i])
}

func (b *Backend) deleteProject(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.projects)
	b.projects = slices.DeleteFunc(b.projects, func(p models.Project) bool { return p.ID == id })
	if len(b.projects) == n {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Project not found"})
		return
	}
	b.tasks = slices.DeleteFunc(b.tasks, func(t models.Task) bool { return t.ProjectID == id })
	writeJSON(w, http.StatusOK, map[string]string{"message": "Project deleted"})
}

func (b *Backend) listTasks(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Task, 0, len(b.tasks))
	for _, t := range b.tasks {
		if i := slices.IndexFunc(b.projects, func(p models.Project) bool { return p.ID == t.ProjectID }); i >= 0 {
			t.Project = &models.ProjectRef{ID: b.projects[i].ID, Name: b.projects[i].Name}
		}
		out = append(out, t)
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) getTask(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.tasks, func(t models.Task) bool { return t.ID == id })
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found"})
		return
	}
	writeJSON(w, http.StatusOK, b.tasks[i])
}

type taskBody struct {
	ProjectID   int64             `json:"project_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	DueDate     string            `json:"due_date"`
	Status      models.TaskStatus `json:"status"`
}

func (b *Backend) validateTaskLocked(in taskBody) (models.Date, string) {
	if in.Title == "" || in.Description == "" || in.DueDate == "" {
		return models.Date{}, "The title, description and due date fields are required."
	}
	if !slices.ContainsFunc(b.projects, func(p models.Project) bool { return p.ID == in.ProjectID }) {
		return models.Date{}, "The selected project id is invalid."
	}
	d, err := models.ParseDate(in.DueDate)
	if err != nil {
		return models.Date{}, "The due date field must be a valid date."
	}
	return d, ""
}

func (b *Backend) createTask(w http.ResponseWriter, r *http.Request) {
	var in taskBody
	json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	defer b.mu.Unlock()
	due, msg := b.validateTaskLocked(in)
	if msg != "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": msg})
		return
	}
	b.nextID++
	t := models.Task{ID: b.nextID, ProjectID: in.ProjectID, Title: in.Title, Description: in.Description, DueDate: due, Status: models.StatusPending}
	b.tasks = append(b.tasks, t)
	writeJSON(w, http.StatusCreated, t)
}

func (b *Backend) updateTask(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var in taskBody
	json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	defer b.mu.Unlock()
	due, msg := b.validateTaskLocked(in)
	if msg == "" && !slices.Contains(models.Statuses, in.Status) {
		msg = "The selected status is invalid."
	}
	if msg != "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": msg})
		return
	}
	i := slices.IndexFunc(b.tasks, func(t models.Task) bool { return t.ID == id })
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found"})
		return
	}
	b.tasks[i] = models.Task{ID: id, ProjectID: in.ProjectID, Title: in.Title, Description: in.Description, DueDate: due, Status: in.Status}
	writeJSON(w, http.StatusOK, b.tasks[i])
}

func (b *Backend) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.tasks)
	b.tasks = slices.DeleteFunc(b.tasks, func(t models.Task) bool { return t.ID == id })
	if len(b.tasks) == n {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
