package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SettleWait bounds how long Drive waits on one round of commands. Commands
// still running after it (toast timers, long delays) are abandoned.
var SettleWait = 300 * time.Millisecond

// Drive runs cmd, feeds what it produces back into m and repeats until
// nothing new arrives. Cursor blink and spinner ticks are dropped.
func Drive(t testing.TB, m tea.Model, cmd tea.Cmd) {
	t.Helper()
	pending := []tea.Cmd{cmd}
	for round := 0; round < 64 && len(pending) > 0; round++ {
		msgs := Collect(pending, SettleWait)
		pending = nil
		for _, msg := range msgs {
			if widgetNoise(msg) {
				continue
			}
			if _, ok := msg.(tea.QuitMsg); ok {
				continue
			}
			if _, next := m.Update(msg); next != nil {
				pending = append(pending, next)
			}
		}
	}
}

// Send delivers msgs to m one by one and drives every follow-up command.
func Send(t testing.TB, m tea.Model, msgs ...tea.Msg) {
	t.Helper()
	for _, msg := range msgs {
		_, cmd := m.Update(msg)
		Drive(t, m, cmd)
	}
}

// Type sends s as typed runes. An empty s sends nothing.
func Type(t testing.TB, m tea.Model, s string) {
	t.Helper()
	if s == "" {
		return
	}
	Send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// Press sends one special key.
func Press(t testing.TB, m tea.Model, k tea.KeyType) {
	t.Helper()
	Send(t, m, tea.KeyMsg{Type: k})
}

// Collect runs cmds concurrently, flattening batches, and returns the
// messages that arrived within wait.
func Collect(cmds []tea.Cmd, wait time.Duration) []tea.Msg {
	out := make(chan tea.Msg, 256)
	inflight := 0
	launch := func(c tea.Cmd) {
		if c == nil {
			return
		}
		inflight++
		go func() { out <- c() }()
	}
	for _, c := range cmds {
		launch(c)
	}

	var msgs []tea.Msg
	timeout := time.After(wait)
	for inflight > 0 {
		select {
		case msg := <-out:
			inflight--
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, c := range batch {
					launch(c)
				}
				continue
			}
			if msg != nil {
				msgs = append(msgs, msg)
			}
		case <-timeout:
			return msgs
		}
	}
	return msgs
}

func widgetNoise(msg tea.Msg) bool {
	name := fmt.Sprintf("%T", msg)
	return strings.HasPrefix(name, "cursor.") || strings.HasPrefix(name, "spinner.")
}
