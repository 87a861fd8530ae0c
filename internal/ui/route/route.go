// Package route names the screens of the client and which ones need a session.
package route

import (
	"fmt"
	"strconv"
	"strings"
)

// Paths of every screen. Paths ending in "/" take an id.
const (
	Home           = "/"
	Login          = "/login"
	Register       = "/register"
	Dashboard      = "/dashboard"
	Projects       = "/projects"
	AddProject     = "/add-project"
	EditProject    = "/edit-project/"
	ProjectDetails = "/project-details/"
	Tasks          = "/tasks"
	AddTask        = "/add-task"
	EditTask       = "/edit-task/"
)

var static = map[string]bool{
	Home: true, Login: true, Register: true, Dashboard: true,
	Projects: true, AddProject: true, Tasks: true, AddTask: true,
}

var withID = map[string]bool{
	EditProject: true, ProjectDetails: true, EditTask: true,
}

// Route is a screen plus the id it was opened for.
type Route struct {
	Path string
	ID   int64
}

// To builds a route without an id.
func To(path string) Route {
	return Route{Path: path}
}

// WithID builds a route for one entity.
func WithID(path string, id int64) Route {
	return Route{Path: path, ID: id}
}

func (r Route) String() string {
	if withID[r.Path] {
		return r.Path + strconv.FormatInt(r.ID, 10)
	}
	return r.Path
}

// Protected reports whether the route sits behind the session guard.
func (r Route) Protected() bool {
	switch r.Path {
	case Home, Login, Register:
		return false
	}
	return true
}

// Parse turns "/edit-task/12" style paths back into a Route.
func Parse(s string) (Route, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Route{}, fmt.Errorf("route: empty path")
	}
	if static[s] {
		return To(s), nil
	}
	for prefix := range withID {
		if !strings.HasPrefix(s, prefix) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(s, prefix), 10, 64)
		if err != nil || id <= 0 {
			return Route{}, fmt.Errorf("route: bad id in %q", s)
		}
		return WithID(prefix, id), nil
	}
	return Route{}, fmt.Errorf("route: unknown path %q", s)
}
