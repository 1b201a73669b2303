// Package backend provides the surfaces rendered frames are presented on.
//
// Pixel surfaces receive a composed image (ImageSurface, PNGSurface).
// Cell backends receive one tile per terminal cell (Terminal, NullBackend)
// and are usually wrapped in a BufferedBackend so only changed cells are
// written.
package backend

import (
	"github.com/dshills/tilegrid/internal/renderer/core"
)

// EventType identifies the type of backend event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventInterrupt
)

// Event is a backend lifecycle event.
// Keys are reported so a host can stop on request; they are not routed to
// components.
type Event struct {
	Type EventType

	// Key event fields
	Rune rune

	// Resize event fields
	Width, Height int
}

// Backend is a cell display: one tile per terminal cell.
type Backend interface {
	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	Shutdown()

	// Size returns the current dimensions in cells.
	Size() (width, height int)

	// OnResize registers a callback for resize events.
	OnResize(callback func(width, height int))

	// SetCell sets a single cell at the given position.
	// Positions outside the display are silently ignored.
	SetCell(x, y int, tile core.Tile)

	// GetCell returns the cell at the given position.
	// Returns the empty tile for positions outside the display.
	GetCell(x, y int) core.Tile

	// Fill fills a rectangular region with the given tile.
	Fill(rect core.Rect, tile core.Tile)

	// Clear clears the entire display.
	Clear()

	// Show flushes pending changes to the display.
	Show()

	// PollEvent waits for and returns the next event.
	PollEvent() Event

	// PostEvent posts a synthetic event to the event queue.
	PostEvent(event Event)

	// HasTrueColor returns true if the backend supports 24-bit color.
	HasTrueColor() bool
}

// NullBackend is an in-memory backend for tests and headless runs.
type NullBackend struct {
	width, height int
	cells         [][]core.Tile
	shows         int
	writes        int
	resizeHandler func(width, height int)
	events        chan Event
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 100),
	}
}

func (b *NullBackend) Init() error {
	b.cells = allocCells(b.width, b.height)
	return nil
}

func (b *NullBackend) Shutdown() {}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) OnResize(callback func(width, height int)) {
	b.resizeHandler = callback
}

func (b *NullBackend) SetCell(x, y int, tile core.Tile) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = tile
		b.writes++
	}
}

func (b *NullBackend) GetCell(x, y int) core.Tile {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return core.EmptyTile()
}

func (b *NullBackend) Fill(rect core.Rect, tile core.Tile) {
	for y := max(rect.Top(), 0); y < rect.Bottom() && y < b.height; y++ {
		for x := max(rect.Left(), 0); x < rect.Right() && x < b.width; x++ {
			b.cells[y][x] = tile
		}
	}
}

func (b *NullBackend) Clear() {
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = core.EmptyTile()
		}
	}
}

func (b *NullBackend) Show() { b.shows++ }

func (b *NullBackend) PollEvent() Event {
	return <-b.events
}

func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
		// Event dropped if queue is full (non-blocking for testing)
	}
}

func (b *NullBackend) HasTrueColor() bool { return true }

// Shows returns how many times Show was called.
func (b *NullBackend) Shows() int { return b.shows }

// Writes returns how many in-bounds SetCell calls were made.
func (b *NullBackend) Writes() int { return b.writes }

// Resize simulates a display resize.
func (b *NullBackend) Resize(width, height int) {
	b.width = width
	b.height = height
	b.cells = allocCells(width, height)
	if b.resizeHandler != nil {
		b.resizeHandler(width, height)
	}
}

func allocCells(width, height int) [][]core.Tile {
	cells := make([][]core.Tile, height)
	for y := range cells {
		cells[y] = make([]core.Tile, width)
		for x := range cells[y] {
			cells[y][x] = core.EmptyTile()
		}
	}
	return cells
}
