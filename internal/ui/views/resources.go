package views

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/tgienger/pmt/internal/api"
	"github.com/tgienger/pmt/internal/models"
	"github.com/tgienger/pmt/internal/ui/route"
)

const (
	ProjectPageSize       = 2
	TaskPageSize          = 5
	ProjectTaskPageSize   = 2
	selectProjectHint     = "-- Select a project --"
	projectOptionsFailure = "Failed to load projects."
)

func ProjectsResource(b Backend) Resource[models.Project] {
	return Resource[models.Project]{
		Title:    "Projects",
		Noun:     "project",
		PageSize: ProjectPageSize,
		Columns: []Column[models.Project]{
			{Title: "Name", Width: 24, Value: func(p models.Project) string { return p.Name }},
			{Title: "Description", Width: 36, Value: func(p models.Project) string { return p.Description }},
			{Title: "Due Date", Width: 12, Value: func(p models.Project) string { return p.DueDate.Display() }},
		},
		ID:        func(p models.Project) int64 { return p.ID },
		Name:      func(p models.Project) string { return p.Name },
		Fetch:     b.ListProjects,
		Delete:    b.DeleteProject,
		NewRoute:  route.To(route.AddProject),
		EditRoute: func(id int64) route.Route { return route.WithID(route.EditProject, id) },
		OpenRoute: func(p models.Project) route.Route { return route.WithID(route.ProjectDetails, p.ID) },
	}
}

func TasksResource(b Backend) Resource[models.Task] {
	return Resource[models.Task]{
		Title:    "Tasks",
		Noun:     "task",
		PageSize: TaskPageSize,
		Columns: []Column[models.Task]{
			{Title: "Title", Width: 20, Value: func(t models.Task) string { return t.Title }},
			{Title: "Project", Width: 16, Value: models.Task.ProjectName},
			{Title: "Description", Width: 24, Value: func(t models.Task) string { return t.Description }},
			{Title: "Due Date", Width: 12, Value: func(t models.Task) string { return t.DueDate.Display() }},
			{Title: "Status", Width: 12, Value: func(t models.Task) string { return t.Status.Label() }},
		},
		ID:        func(t models.Task) int64 { return t.ID },
		Name:      func(t models.Task) string { return t.Title },
		Fetch:     b.ListTasks,
		Delete:    b.DeleteTask,
		NewRoute:  route.To(route.AddTask),
		EditRoute: func(id int64) route.Route { return route.WithID(route.EditTask, id) },
		OpenRoute: func(t models.Task) route.Route { return route.WithID(route.ProjectDetails, t.ProjectID) },
	}
}

func projectFields() []Field {
	return []Field{
		{Key: "name", Label: "Project Name", Placeholder: "Project name", Required: true},
		{Key: "description", Label: "Description", Placeholder: "What is it about?", Kind: FieldArea, Required: true},
		{Key: "due_date", Label: "Due Date", Placeholder: "YYYY-MM-DD", Required: true},
	}
}

func projectInput(vals Values) api.ProjectInput {
	return api.ProjectInput{
		Name:        vals["name"],
		Description: vals["description"],
		DueDate:     vals["due_date"],
	}
}

func AddProjectForm(b Backend) FormSpec {
	return FormSpec{
		Title:  "Add New Project",
		Submit: "Create Project",
		Fields: projectFields(),
		Save: func(ctx context.Context, vals Values) error {
			return b.CreateProject(ctx, projectInput(vals))
		},
		Success: "Project created successfully!",
		Failure: "Failed to add project. Try again.",
		Back:    route.To(route.Projects),
	}
}

func EditProjectForm(b Backend, id int64) FormSpec {
	return FormSpec{
		Title:   "Edit Project",
		Submit:  "Update Project",
		Fields:  projectFields(),
		Editing: true,
		Load: func(ctx context.Context) (FormData, error) {
			p, err := b.GetProject(ctx, id)
			if err != nil {
				return FormData{}, err
			}
			return FormData{Values: Values{
				"name":        p.Name,
				"description": p.Description,
				"due_date":    p.DueDate.String(),
			}}, nil
		},
		LoadFailure: "Failed to load project.",
		Save: func(ctx context.Context, vals Values) error {
			return b.UpdateProject(ctx, id, projectInput(vals))
		},
		Success: "Project updated successfully!",
		Failure: "Failed to update project. Try again.",
		Back:    route.To(route.Projects),
	}
}

func taskFields(editing bool) []Field {
	fields := []Field{
		{Key: "project_id", Label: "Project", Placeholder: selectProjectHint, Kind: FieldSelect, Required: true},
		{Key: "title", Label: "Title", Placeholder: "Task title", Required: true},
		{Key: "description", Label: "Description", Placeholder: "Details", Kind: FieldArea, Required: true},
		{Key: "due_date", Label: "Due Date", Placeholder: "YYYY-MM-DD", Required: true},
	}
	if editing {
		opts := make([]Option, len(models.Statuses))
		for i, st := range models.Statuses {
			opts[i] = Option{Value: string(st), Label: st.Label()}
		}
		fields = append(fields, Field{Key: "status", Label: "Status", Placeholder: "Status", Kind: FieldSelect, Options: opts})
	}
	return fields
}

func taskInput(vals Values) (api.TaskInput, error) {
	pid, err := strconv.ParseInt(vals["project_id"], 10, 64)
	if err != nil {
		return api.TaskInput{}, fmt.Errorf("invalid project id %q: %w", vals["project_id"], err)
	}
	return api.TaskInput{
		ProjectID:   pid,
		Title:       vals["title"],
		Description: vals["description"],
		DueDate:     vals["due_date"],
		Status:      models.TaskStatus(vals["status"]),
	}, nil
}

func projectOptions(projects []models.Project) []Option {
	opts := make([]Option, len(projects))
	for i, p := range projects {
		opts[i] = Option{Value: strconv.FormatInt(p.ID, 10), Label: p.Name}
	}
	return opts
}

func AddTaskForm(b Backend) FormSpec {
	return FormSpec{
		Title:  "Add New Task",
		Submit: "Create Task",
		Fields: taskFields(false),
		Load: func(ctx context.Context) (FormData, error) {
			projects, err := b.ListProjects(ctx)
			if err != nil {
				return FormData{}, err
			}
			return FormData{Options: map[string][]Option{"project_id": projectOptions(projects)}}, nil
		},
		LoadFailure: projectOptionsFailure,
		Save: func(ctx context.Context, vals Values) error {
			in, err := taskInput(vals)
			if err != nil {
				return err
			}
			return b.CreateTask(ctx, in)
		},
		Success: "Task created successfully!",
		Failure: "Failed to add task. Try again.",
		Back:    route.To(route.Tasks),
	}
}

// EditTaskForm fetches the task and the project choices together; the
// form opens only once both have arrived.
func EditTaskForm(b Backend, id int64) FormSpec {
	return FormSpec{
		Title:   "Edit Task",
		Submit:  "Update Task",
		Fields:  taskFields(true),
		Editing: true,
		Load: func(ctx context.Context) (FormData, error) {
			var (
				task     models.Task
				projects []models.Project
			)
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				task, err = b.GetTask(ctx, id)
				return err
			})
			g.Go(func() error {
				var err error
				projects, err = b.ListProjects(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return FormData{}, err
			}
			return FormData{
				Values: Values{
					"project_id":  strconv.FormatInt(task.ProjectID, 10),
					"title":       task.Title,
					"description": task.Description,
					"due_date":    task.DueDate.String(),
					"status":      string(task.Status),
				},
				Options: map[string][]Option{"project_id": projectOptions(projects)},
			}, nil
		},
		LoadFailure: "Failed to load task.",
		Save: func(ctx context.Context, vals Values) error {
			in, err := taskInput(vals)
			if err != nil {
				return err
			}
			return b.UpdateTask(ctx, id, in)
		},
		Success: "Task updated successfully!",
		Failure: "Failed to update task. Try again.",
		Back:    route.To(route.Tasks),
	}
}
