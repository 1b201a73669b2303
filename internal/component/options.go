package component

import (
	"github.com/dshills/tilegrid/internal/renderer/core"
)

// Option configures a component at construction.
type Option func(*settings)

type settings struct {
	position  core.Position
	size      core.Size
	sizeSet   bool
	style     core.StyleSet
	tileset   core.TilesetResource
	box       bool
	title     string
	decorated bool
}

func newSettings(opts []Option) settings {
	s := settings{style: core.DefaultStyle(), decorated: true}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s *settings) defaultSize(value string) {
	if !s.sizeSet {
		s.size = textSize(value)
	}
}

// WithPosition sets the position relative to the parent's content area.
func WithPosition(pos core.Position) Option {
	return func(s *settings) { s.position = pos }
}

// WithSize sets the size in cells.
func WithSize(size core.Size) Option {
	return func(s *settings) {
		s.size = core.NewSize(size.Width, size.Height)
		s.sizeSet = true
	}
}

// WithStyle sets the default style.
func WithStyle(style core.StyleSet) Option {
	return func(s *settings) { s.style = style }
}

// WithTileset sets an explicit tileset. Without it the container's tileset
// is inherited.
func WithTileset(res core.TilesetResource) Option {
	return func(s *settings) { s.tileset = res }
}

// WithBox draws a border around a container and insets its content by one
// cell on every side.
func WithBox() Option {
	return func(s *settings) { s.box = true }
}

// WithTitle draws title on the top border. It implies WithBox.
func WithTitle(title string) Option {
	return func(s *settings) {
		s.box = true
		s.title = title
	}
}

// WithDecoration toggles the angle brackets around a button's text.
// Buttons are decorated by default.
func WithDecoration(decorated bool) Option {
	return func(s *settings) { s.decorated = decorated }
}
