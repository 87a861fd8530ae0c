package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/pmt/internal/ui/keys"
	"github.com/tgienger/pmt/internal/ui/styles"
)

type FieldKind int

const (
	FieldText FieldKind = iota
	FieldSecret
	FieldArea
	FieldSelect
)

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// Field declares one form input.
type Field struct {
	Key         string
	Label       string
	Placeholder string
	Kind        FieldKind
	Required    bool
	Options     []Option
}

// Values maps field keys to their current text.
type Values map[string]string

type fieldState struct {
	Field
	input   textinput.Model
	area    textarea.Model
	options []Option
	choice  int // -1 means nothing chosen
}

func newFieldState(f Field) *fieldState {
	fs := &fieldState{Field: f, options: f.Options, choice: -1}
	switch f.Kind {
	case FieldArea:
		ta := textarea.New()
		ta.Placeholder = f.Placeholder
		ta.CharLimit = 1000
		ta.ShowLineNumbers = false
		ta.SetHeight(3)
		ta.SetWidth(48)
		fs.area = ta
	case FieldText, FieldSecret:
		ti := textinput.New()
		ti.Placeholder = f.Placeholder
		ti.CharLimit = 255
		ti.Width = 46
		if f.Kind == FieldSecret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		fs.input = ti
	}
	return fs
}

func (f *fieldState) value() string {
	switch f.Kind {
	case FieldArea:
		return f.area.Value()
	case FieldSelect:
		if f.choice < 0 || f.choice >= len(f.options) {
			return ""
		}
		return f.options[f.choice].Value
	}
	return f.input.Value()
}

func (f *fieldState) setValue(v string) {
	switch f.Kind {
	case FieldArea:
		f.area.SetValue(v)
	case FieldSelect:
		f.choice = -1
		for i, o := range f.options {
			if o.Value == v {
				f.choice = i
			}
		}
	default:
		f.input.SetValue(v)
	}
}

func (f *fieldState) setOptions(opts []Option) {
	current := f.value()
	f.options = opts
	f.setValue(current)
}

func (f *fieldState) focus() {
	switch f.Kind {
	case FieldArea:
		f.area.Focus()
	case FieldText, FieldSecret:
		f.input.Focus()
	}
}

func (f *fieldState) blur() {
	switch f.Kind {
	case FieldArea:
		f.area.Blur()
	case FieldText, FieldSecret:
		f.input.Blur()
	}
}

// fieldSet is a column of inputs followed by one submit button.
// focusIdx == len(fields) means the button has focus.
type fieldSet struct {
	fields   []*fieldState
	focusIdx int
	keys     keys.KeyMap
}

func newFieldSet(km keys.KeyMap, fields ...Field) *fieldSet {
	fs := &fieldSet{keys: km}
	for _, f := range fields {
		fs.fields = append(fs.fields, newFieldState(f))
	}
	if len(fs.fields) > 0 {
		fs.fields[0].focus()
	}
	return fs
}

func (fs *fieldSet) field(k string) *fieldState {
	for _, f := range fs.fields {
		if f.Key == k {
			return f
		}
	}
	return nil
}

func (fs *fieldSet) values() Values {
	vals := make(Values, len(fs.fields))
	for _, f := range fs.fields {
		vals[f.Key] = f.value()
	}
	return vals
}

func (fs *fieldSet) set(vals Values) {
	for k, v := range vals {
		if f := fs.field(k); f != nil {
			f.setValue(v)
		}
	}
}

func (fs *fieldSet) reset() {
	for _, f := range fs.fields {
		f.setValue("")
	}
	fs.setFocus(0)
}

// missing returns the message for the first empty required field.
func (fs *fieldSet) missing() string {
	for _, f := range fs.fields {
		if f.Required && strings.TrimSpace(f.value()) == "" {
			return f.Label + " is required"
		}
	}
	return ""
}

func (fs *fieldSet) onButton() bool { return fs.focusIdx == len(fs.fields) }

func (fs *fieldSet) setFocus(i int) {
	if fs.focusIdx < len(fs.fields) {
		fs.fields[fs.focusIdx].blur()
	}
	fs.focusIdx = clamp(i, 0, len(fs.fields))
	if fs.focusIdx < len(fs.fields) {
		fs.fields[fs.focusIdx].focus()
	}
}

func (fs *fieldSet) next() { fs.setFocus((fs.focusIdx + 1) % (len(fs.fields) + 1)) }

func (fs *fieldSet) prev() {
	n := len(fs.fields) + 1
	fs.setFocus((fs.focusIdx - 1 + n) % n)
}

// update moves focus or edits the focused field. It reports submit=true
// when the user asked to send the form.
func (fs *fieldSet) update(msg tea.KeyMsg) (cmd tea.Cmd, submit bool) {
	switch {
	case key.Matches(msg, fs.keys.Save):
		return nil, true
	case key.Matches(msg, fs.keys.Tab):
		fs.next()
		return nil, false
	case key.Matches(msg, fs.keys.ShiftTab):
		fs.prev()
		return nil, false
	}

	if fs.onButton() {
		return nil, msg.Type == tea.KeyEnter
	}

	f := fs.fields[fs.focusIdx]
	switch f.Kind {
	case FieldSelect:
		switch msg.Type {
		case tea.KeyLeft, tea.KeyUp:
			if f.choice <= 0 {
				f.choice = len(f.options) - 1
			} else {
				f.choice--
			}
		case tea.KeyRight, tea.KeyDown:
			if len(f.options) > 0 {
				f.choice = (f.choice + 1) % len(f.options)
			}
		case tea.KeyEnter:
			fs.next()
		}
		return nil, false
	case FieldArea:
		f.area, cmd = f.area.Update(msg)
		return cmd, false
	}

	if msg.Type == tea.KeyEnter {
		fs.next()
		return nil, false
	}
	f.input, cmd = f.input.Update(msg)
	return cmd, false
}

func (fs *fieldSet) view(s *styles.Styles, submit string, busy bool) string {
	var rows []string
	for i, f := range fs.fields {
		focused := i == fs.focusIdx
		label := f.Label
		if f.Required {
			label += " *"
		}
		box := s.Input
		if focused {
			box = s.InputFocused
		}

		var body string
		switch f.Kind {
		case FieldArea:
			body = f.area.View()
		case FieldSelect:
			body = selectView(s, f, focused)
		default:
			body = f.input.View()
		}
		rows = append(rows, s.Label.Render(label), box.Width(50).Render(body))
	}

	btn := s.Button
	if fs.onButton() {
		btn = s.ButtonFocused
	}
	if busy {
		submit += "..."
		btn = s.ButtonDisabled
	}
	rows = append(rows, "", btn.Render(submit))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func selectView(s *styles.Styles, f *fieldState, focused bool) string {
	text := f.Placeholder
	style := s.TitleMuted
	if f.choice >= 0 && f.choice < len(f.options) {
		text = f.options[f.choice].Label
		style = s.TableCell
	}
	if focused {
		return "‹ " + style.Render(text) + " ›"
	}
	return style.Render(text)
}
