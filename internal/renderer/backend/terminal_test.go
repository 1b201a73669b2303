package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/tilegrid/internal/renderer/core"
)

func newSimTerminal(t *testing.T) *Terminal {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(screen)
	if err := term.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(term.Shutdown)
	screen.SetSize(20, 10)
	return term
}

func TestTerminalSize(t *testing.T) {
	term := newSimTerminal(t)
	if w, h := term.Size(); w != 20 || h != 10 {
		t.Errorf("expected (20, 10), got (%d, %d)", w, h)
	}
}

func TestTerminalSetGetCell(t *testing.T) {
	term := newSimTerminal(t)

	style := core.NewStyle(core.ColorRed, core.ColorBlue).WithModifiers(core.ModBold, core.ModUnderline)
	term.SetCell(3, 2, core.NewCharacterTile('@', style))

	got := term.GetCell(3, 2)
	if got.Char != '@' {
		t.Errorf("expected '@', got %q", got.Char)
	}
	if !got.Style.Foreground.Equals(core.ColorRed) {
		t.Errorf("expected red foreground, got %v", got.Style.Foreground)
	}
	if !got.Style.Background.Equals(core.ColorBlue) {
		t.Errorf("expected blue background, got %v", got.Style.Background)
	}
	if !got.Style.Modifiers.Has(core.ModBold) || !got.Style.Modifiers.Has(core.ModUnderline) {
		t.Errorf("expected bold underline, got %v", got.Style.Modifiers)
	}
}

func TestTileRune(t *testing.T) {
	tests := []struct {
		name string
		tile core.Tile
		want rune
	}{
		{"character", core.NewCharacterTile('a', core.DefaultStyle()), 'a'},
		{"graphic", core.NewGraphicTile("tree", core.DefaultStyle()), 't'},
		{"empty", core.EmptyTile(), ' '},
		{"hidden", core.NewCharacterTile('a', core.DefaultStyle().WithModifiers(core.ModHidden)), ' '},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tileRune(tt.tile); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestConvertEvent(t *testing.T) {
	term := newSimTerminal(t)

	var resized [2]int
	term.OnResize(func(w, h int) { resized = [2]int{w, h} })

	tests := []struct {
		name string
		ev   tcell.Event
		want Event
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), Event{Type: EventKey, Rune: 'q'}},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), Event{Type: EventInterrupt}},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), Event{Type: EventInterrupt}},
		{"resize", tcell.NewEventResize(30, 12), Event{Type: EventResize, Width: 30, Height: 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := convertEvent(tt.ev, term); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
	if resized != [2]int{30, 12} {
		t.Errorf("expected resize handler called with (30, 12), got %v", resized)
	}
}
