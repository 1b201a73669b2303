package backend

import (
	"sync"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/tilegrid/internal/renderer/core"
)

// Terminal implements Backend using tcell for terminal output.
type Terminal struct {
	screen        tcell.Screen
	resizeHandler func(width, height int)
	mu            sync.Mutex
}

// NewTerminal creates a terminal backend on the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen creates a terminal backend on an existing screen,
// such as a tcell.SimulationScreen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.HideCursor()
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) OnResize(callback func(width, height int)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resizeHandler = callback
}

func (t *Terminal) SetCell(x, y int, tile core.Tile) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, tileRune(tile), nil, convertStyle(tile.Style))
}

func (t *Terminal) GetCell(x, y int) core.Tile {
	t.mu.Lock()
	defer t.mu.Unlock()

	mainc, _, style, _ := t.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	return core.NewCharacterTile(mainc, convertTcellStyle(style))
}

func (t *Terminal) Fill(rect core.Rect, tile core.Tile) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch, style := tileRune(tile), convertStyle(tile.Style)
	width, height := t.screen.Size()
	for y := max(rect.Top(), 0); y < rect.Bottom() && y < height; y++ {
		for x := max(rect.Left(), 0); x < rect.Right() && x < width; x++ {
			t.screen.SetContent(x, y, ch, nil, style)
		}
	}
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	return convertEvent(ev, t)
}

func (t *Terminal) PostEvent(event Event) {
	var ev tcell.Event
	switch event.Type {
	case EventKey:
		ev = tcell.NewEventKey(tcell.KeyRune, event.Rune, tcell.ModNone)
	case EventInterrupt:
		ev = tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	default:
		return
	}
	_ = t.screen.PostEvent(ev) // best-effort; event queue may be full
}

func (t *Terminal) HasTrueColor() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Colors() > 256
}

// tileRune returns the rune a tile shows in a terminal cell.
// Graphic tiles show the first rune of their name.
func tileRune(tile core.Tile) rune {
	if tile.Style.Modifiers.Has(core.ModHidden) {
		return ' '
	}
	switch tile.Kind {
	case core.TileCharacter:
		return tile.Char
	case core.TileGraphic:
		if r, _ := utf8.DecodeRuneInString(tile.Name); r != utf8.RuneError {
			return r
		}
		return '?'
	default:
		return ' '
	}
}

// convertStyle converts a StyleSet to tcell.Style.
// Flips have no terminal equivalent and are dropped.
func convertStyle(s core.StyleSet) tcell.Style {
	style := tcell.StyleDefault

	if !s.Foreground.IsDefault() {
		style = style.Foreground(tcell.NewRGBColor(int32(s.Foreground.R), int32(s.Foreground.G), int32(s.Foreground.B)))
	}
	if !s.Background.IsDefault() {
		style = style.Background(tcell.NewRGBColor(int32(s.Background.R), int32(s.Background.G), int32(s.Background.B)))
	}

	mods := s.Modifiers
	if mods.Has(core.ModBold) {
		style = style.Bold(true)
	}
	if mods.Has(core.ModItalic) {
		style = style.Italic(true)
	}
	if mods.Has(core.ModUnderline) {
		style = style.Underline(true)
	}
	if mods.Has(core.ModBlink) {
		style = style.Blink(true)
	}
	if mods.Has(core.ModReverse) {
		style = style.Reverse(true)
	}
	if mods.Has(core.ModCrossedOut) {
		style = style.StrikeThrough(true)
	}
	return style
}

// convertTcellStyle converts tcell.Style back to a StyleSet.
func convertTcellStyle(ts tcell.Style) core.StyleSet {
	fg, bg, attrs := ts.Decompose()

	s := core.NewStyle(convertTcellColor(fg), convertTcellColor(bg))
	var mods core.Modifier
	if attrs&tcell.AttrBold != 0 {
		mods = mods.With(core.ModBold)
	}
	if attrs&tcell.AttrItalic != 0 {
		mods = mods.With(core.ModItalic)
	}
	if attrs&tcell.AttrUnderline != 0 {
		mods = mods.With(core.ModUnderline)
	}
	if attrs&tcell.AttrBlink != 0 {
		mods = mods.With(core.ModBlink)
	}
	if attrs&tcell.AttrReverse != 0 {
		mods = mods.With(core.ModReverse)
	}
	if attrs&tcell.AttrStrikeThrough != 0 {
		mods = mods.With(core.ModCrossedOut)
	}
	return s.WithExactModifiers(mods)
}

// convertTcellColor converts tcell.Color to a Color.
func convertTcellColor(tc tcell.Color) core.Color {
	if tc == tcell.ColorDefault {
		return core.ColorDefault
	}
	r, g, b := tc.RGB()
	if r < 0 {
		return core.ColorDefault
	}
	return core.ColorFromRGB(uint8(r), uint8(g), uint8(b))
}

// convertEvent converts tcell events to backend events.
func convertEvent(ev tcell.Event, t *Terminal) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		switch e.Key() {
		case tcell.KeyCtrlC, tcell.KeyEscape:
			return Event{Type: EventInterrupt}
		case tcell.KeyRune:
			return Event{Type: EventKey, Rune: e.Rune()}
		default:
			return Event{Type: EventKey}
		}

	case *tcell.EventResize:
		w, h := e.Size()
		t.mu.Lock()
		handler := t.resizeHandler
		t.mu.Unlock()
		if handler != nil {
			handler(w, h)
		}
		return Event{Type: EventResize, Width: w, Height: h}

	default:
		return Event{Type: EventNone}
	}
}
