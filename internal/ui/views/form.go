package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/pmt/internal/ui/route"
	"github.com/tgienger/pmt/internal/ui/styles"
)

// FormData is what a form's loader hands back: initial values for edit
// screens and the choices of any select field.
type FormData struct {
	Values  Values
	Options map[string][]Option
}

// FormSpec describes one add or edit screen.
type FormSpec struct {
	Title  string
	Submit string
	Fields []Field

	// Editing keeps field values after a successful save.
	Editing bool
	// Load runs before the form is usable. Nil means nothing to fetch.
	Load        func(ctx context.Context) (FormData, error)
	LoadFailure string

	Save    func(ctx context.Context, vals Values) error
	Success string
	Failure string

	// Back is where esc goes and where a successful save returns to.
	Back route.Route
}

type formLoadedMsg struct {
	data FormData
	err  error
}

func (m formLoadedMsg) Failed() error { return m.err }

type formSavedMsg struct {
	err error
}

func (m formSavedMsg) Failed() error { return m.err }

// FormView is the shared add/edit screen.
type FormView struct {
	spec   FormSpec
	env    Env
	styles *styles.Styles
	fields *fieldSet

	loading    bool
	submitting bool
	done       bool
	errMsg     string
	success    string

	width  int
	height int
}

func NewFormView(spec FormSpec, env Env) *FormView {
	return &FormView{
		spec:    spec,
		env:     env,
		styles:  env.Styles,
		fields:  newFieldSet(env.Keys, spec.Fields...),
		loading: spec.Load != nil,
	}
}

func (v *FormView) Init() tea.Cmd {
	if v.spec.Load == nil {
		return textinput.Blink
	}
	load := v.spec.Load
	return tea.Batch(textinput.Blink, v.env.Scope.Go(func(ctx context.Context) tea.Msg {
		data, err := load(ctx)
		return formLoadedMsg{data: data, err: err}
	}))
}

func (v *FormView) CapturesInput() bool { return true }

// Values returns the current field contents.
func (v *FormView) Values() Values { return v.fields.values() }

// Err returns the error line currently shown.
func (v *FormView) Err() string { return v.errMsg }

// Success returns the success line currently shown.
func (v *FormView) Success() string { return v.success }

func (v *FormView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case formLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.errMsg = errorText(msg.err, v.spec.LoadFailure)
			return v, nil
		}
		for k, opts := range msg.data.Options {
			if f := v.fields.field(k); f != nil {
				f.setOptions(opts)
			}
		}
		v.fields.set(msg.data.Values)
		return v, nil

	case formSavedMsg:
		v.submitting = false
		if msg.err != nil {
			v.errMsg = errorText(msg.err, v.spec.Failure)
			return v, nil
		}
		v.errMsg = ""
		v.success = v.spec.Success
		v.done = true
		if !v.spec.Editing {
			v.fields.reset()
		}
		return v, v.env.Scope.After(FeedbackDelay, Navigate{To: v.spec.Back})

	case tea.KeyMsg:
		if key.Matches(msg, v.env.Keys.Back) {
			return v, navigate(v.spec.Back)
		}
		if v.loading || v.submitting || v.done {
			return v, nil
		}
		cmd, submit := v.fields.update(msg)
		if submit {
			return v, v.submit()
		}
		return v, cmd

	default:
		// cursor blink and other widget messages
		if f := v.focused(); f != nil {
			var cmd tea.Cmd
			switch f.Kind {
			case FieldArea:
				f.area, cmd = f.area.Update(msg)
			case FieldText, FieldSecret:
				f.input, cmd = f.input.Update(msg)
			}
			return v, cmd
		}
	}
	return v, nil
}

func (v *FormView) focused() *fieldState {
	if v.fields.onButton() {
		return nil
	}
	return v.fields.fields[v.fields.focusIdx]
}

func (v *FormView) submit() tea.Cmd {
	if missing := v.fields.missing(); missing != "" {
		v.errMsg = missing
		return nil
	}
	v.errMsg = ""
	v.submitting = true
	vals := v.fields.values()
	save := v.spec.Save
	return v.env.Scope.Go(func(ctx context.Context) tea.Msg {
		return formSavedMsg{err: save(ctx, vals)}
	})
}

func (v *FormView) View() string {
	s := v.styles
	var b strings.Builder
	b.WriteString(s.Title.Render(v.spec.Title))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(s.TitleMuted.Render("Loading..."))
		b.WriteString("\n")
	} else {
		b.WriteString(v.fields.view(s, v.spec.Submit, v.submitting))
		b.WriteString("\n")
	}

	if v.errMsg != "" {
		b.WriteString("\n" + s.Error.Render(v.errMsg) + "\n")
	}
	if v.success != "" {
		b.WriteString("\n" + s.Success.Render(v.success) + "\n")
	}

	b.WriteString(helpLine(s, "tab", "next field", "←/→", "choose", "ctrl+s", "submit", "esc", "back"))
	return b.String()
}
