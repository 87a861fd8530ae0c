package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding the screens share
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	Enter     key.Binding
	Back      key.Binding
	Tab       key.Binding
	ShiftTab  key.Binding
	Save      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding

	New     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Yes     key.Binding
	No      key.Binding

	Dashboard key.Binding
	Projects  key.Binding
	Tasks     key.Binding
	Logout    key.Binding
	Login     key.Binding
	Register  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		PrevPage:  key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←", "prev page")),
		NextPage:  key.NewBinding(key.WithKeys("right", "l", "pgdown"), key.WithHelp("→", "next page")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("↵", "select")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		ShiftTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),

		New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Yes:     key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		No:      key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),

		Dashboard: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "dashboard")),
		Projects:  key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "projects")),
		Tasks:     key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "tasks")),
		Logout:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		Login:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "log in")),
		Register:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sign up")),
	}
}
