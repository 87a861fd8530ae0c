package styles

import "testing"

func TestUse(t *testing.T) {
	t.Cleanup(func() { Current = TokyoNight })

	if err := Use("daylight"); err != nil {
		t.Fatalf("Use(daylight): %v", err)
	}
	if Current.Name != "daylight" {
		t.Errorf("Current = %s, want daylight", Current.Name)
	}
	if got := NewStyles().Error.GetForeground(); got != Daylight.Error {
		t.Errorf("Error foreground = %v, want %v", got, Daylight.Error)
	}

	if err := Use("solarized"); err == nil {
		t.Error("Use(solarized) succeeded, want error")
	}
	if Current.Name != "daylight" {
		t.Errorf("unknown theme changed Current to %s", Current.Name)
	}
}

func TestContentWidth(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{60, 60},
		{MaxWidth, MaxWidth},
		{200, MaxWidth},
	}
	for _, tt := range tests {
		if got := ContentWidth(tt.width); got != tt.want {
			t.Errorf("ContentWidth(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestCenterView(t *testing.T) {
	if got := CenterView("x", 80, 10); got != "x" {
		t.Errorf("narrow terminal: got %q", got)
	}
	if got := CenterView("x", 120, 1); got == "x" {
		t.Error("wide terminal: content not placed")
	}
}
