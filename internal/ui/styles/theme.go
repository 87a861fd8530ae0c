package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors every style is derived from.
type Palette struct {
	Name string

	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color

	Primary lipgloss.Color
	Accent  lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	Border    lipgloss.Color
	Focus     lipgloss.Color
	Selection lipgloss.Color
}

// TokyoNight is the default palette.
var TokyoNight = Palette{
	Name:       "tokyo-night",
	Background: lipgloss.Color("#1a1b26"),
	Text:       lipgloss.Color("#c0caf5"),
	Muted:      lipgloss.Color("#565f89"),
	Primary:    lipgloss.Color("#7aa2f7"),
	Accent:     lipgloss.Color("#7dcfff"),
	Success:    lipgloss.Color("#9ece6a"),
	Warning:    lipgloss.Color("#e0af68"),
	Error:      lipgloss.Color("#f7768e"),
	Info:       lipgloss.Color("#7aa2f7"),
	Border:     lipgloss.Color("#3b4261"),
	Focus:      lipgloss.Color("#7aa2f7"),
	Selection:  lipgloss.Color("#33467c"),
}

// Daylight suits light terminal backgrounds.
var Daylight = Palette{
	Name:       "daylight",
	Background: lipgloss.Color("#f5f5f5"),
	Text:       lipgloss.Color("#24292f"),
	Muted:      lipgloss.Color("#6e7781"),
	Primary:    lipgloss.Color("#0969da"),
	Accent:     lipgloss.Color("#8250df"),
	Success:    lipgloss.Color("#1a7f37"),
	Warning:    lipgloss.Color("#9a6700"),
	Error:      lipgloss.Color("#cf222e"),
	Info:       lipgloss.Color("#0550ae"),
	Border:     lipgloss.Color("#d0d7de"),
	Focus:      lipgloss.Color("#0969da"),
	Selection:  lipgloss.Color("#ddf4ff"),
}

var palettes = map[string]Palette{
	TokyoNight.Name: TokyoNight,
	Daylight.Name:   Daylight,
}

// Current is the palette NewStyles reads.
var Current = TokyoNight

// Use makes the named palette current.
func Use(name string) error {
	p, ok := palettes[name]
	if !ok {
		return fmt.Errorf("styles: unknown theme %q", name)
	}
	Current = p
	return nil
}

// MaxWidth caps the content width on wide terminals.
const MaxWidth = 100

// ContentWidth returns min(terminal width, MaxWidth).
func ContentWidth(terminalWidth int) int {
	return min(terminalWidth, MaxWidth)
}

// CenterView centers content horizontally once the terminal is wider than MaxWidth.
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Center, lipgloss.Top, content)
}

// Styles holds all the pre-computed styles for the UI
type Styles struct {
	// Titles
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	// Navigation
	Nav       lipgloss.Style
	NavItem   lipgloss.Style
	NavActive lipgloss.Style

	// Lists and tables
	TableHeader lipgloss.Style
	TableCell   lipgloss.Style

	// Dashboard cards
	Card        lipgloss.Style
	CardFocused lipgloss.Style
	CardValue   lipgloss.Style

	// Buttons
	Button         lipgloss.Style
	ButtonFocused  lipgloss.Style
	ButtonPrimary  lipgloss.Style
	ButtonDisabled lipgloss.Style

	// Confirmation dialog frame
	Modal lipgloss.Style

	// Input fields
	Label        lipgloss.Style
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Feedback
	Success lipgloss.Style
	Error   lipgloss.Style
	Toast   lipgloss.Style

	// Task status
	StatusPending    lipgloss.Style
	StatusInProgress lipgloss.Style
	StatusCompleted  lipgloss.Style

	// Help text
	Help    lipgloss.Style
	HelpKey lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	t := Current

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.Muted),

		Nav: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(t.Border),

		NavItem: lipgloss.NewStyle().
			Foreground(t.Muted).
			Padding(0, 1),

		NavActive: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 1).
			Bold(true),

		TableHeader: lipgloss.NewStyle().
			Foreground(t.Muted).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(t.Border).
			Bold(true),

		TableCell: lipgloss.NewStyle().
			Foreground(t.Text),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 3).
			Width(24),

		CardFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Focus).
			Padding(1, 3).
			Width(24),

		CardValue: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),

		Button: lipgloss.NewStyle().
			Foreground(t.Text).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Focus).
			Padding(0, 2).
			Bold(true),

		ButtonPrimary: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 2).
			Bold(true),

		ButtonDisabled: lipgloss.NewStyle().
			Foreground(t.Border).
			Padding(0, 1),

		Modal: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),

		Label: lipgloss.NewStyle().
			Foreground(t.Muted),

		Input: lipgloss.NewStyle().
			Foreground(t.Text).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Text).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Focus).
			Padding(0, 1),

		Success: lipgloss.NewStyle().
			Foreground(t.Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		Toast: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Success).
			Padding(0, 1),

		StatusPending: lipgloss.NewStyle().
			Foreground(t.Warning),

		StatusInProgress: lipgloss.NewStyle().
			Foreground(t.Info),

		StatusCompleted: lipgloss.NewStyle().
			Foreground(t.Success),

		Help: lipgloss.NewStyle().
			Foreground(t.Muted).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),
	}
}
