package component

import (
	"github.com/dshills/tilegrid/internal/renderer/core"
	"github.com/dshills/tilegrid/internal/renderer/surface"
)

// text is the state shared by the single-line text components.
type text struct {
	node
	value string
}

// Text returns the component text.
func (t *text) Text() string { return t.value }

func (t *text) paint(rendered string) {
	t.surface.Clear()
	if !t.style.Background.IsDefault() {
		t.surface.Fill(core.NewCharacterTile(' ', t.style))
	}
	t.surface.PutText(core.Origin, rendered, t.style)
}

// Label is a single line of text.
type Label struct {
	text
}

// NewLabel creates a label. Without WithSize the label is as wide as its
// text and one row high.
func NewLabel(value string, opts ...Option) *Label {
	s := newSettings(opts)
	s.defaultSize(value)
	l := &Label{text{value: value}}
	l.init(l, KindLabel, s)
	l.redraw()
	return l
}

func (l *Label) asNode() *node {
	if l == nil {
		return nil
	}
	return &l.node
}

// SetText replaces the text. The size is unchanged and overflow is clipped.
func (l *Label) SetText(value string) {
	l.value = value
	l.redraw()
}

func (l *Label) redraw() { l.paint(l.value) }

// Button is a text component, drawn as "<text>" when decorated.
type Button struct {
	text
	decorated bool
}

// NewButton creates a button.
func NewButton(value string, opts ...Option) *Button {
	s := newSettings(opts)
	b := &Button{text: text{value: value}, decorated: s.decorated}
	s.defaultSize(b.rendered())
	b.init(b, KindButton, s)
	b.redraw()
	return b
}

func (b *Button) asNode() *node {
	if b == nil {
		return nil
	}
	return &b.node
}

// SetText replaces the text. The size is unchanged and overflow is clipped.
func (b *Button) SetText(value string) {
	b.value = value
	b.redraw()
}

func (b *Button) rendered() string {
	if b.decorated {
		return "<" + b.value + ">"
	}
	return b.value
}

func (b *Button) redraw() { b.paint(b.rendered()) }

// Header is a bold heading line once a theme is applied.
type Header struct {
	text
}

// NewHeader creates a header.
func NewHeader(value string, opts ...Option) *Header {
	s := newSettings(opts)
	s.defaultSize(value)
	h := &Header{text{value: value}}
	h.init(h, KindHeader, s)
	h.redraw()
	return h
}

func (h *Header) asNode() *node {
	if h == nil {
		return nil
	}
	return &h.node
}

func (h *Header) redraw() { h.paint(h.value) }

// textSize is the natural size of a single line of text.
func textSize(value string) core.Size {
	return core.NewSize(surface.TextWidth(value), 1)
}
