package backend

import (
	"github.com/dshills/tilegrid/internal/renderer/core"
)

// ScreenBuffer provides double-buffered rendering with change tracking.
// It maintains two buffers: front (displayed) and back (drawing).
// On sync, it computes the diff and only updates changed cells.
type ScreenBuffer struct {
	width, height int
	front         [][]core.Tile
	back          [][]core.Tile
	dirty         [][]bool
	fullRedraw    bool
}

// NewScreenBuffer creates a screen buffer with the given dimensions.
func NewScreenBuffer(width, height int) *ScreenBuffer {
	sb := &ScreenBuffer{
		width:      width,
		height:     height,
		fullRedraw: true,
	}
	sb.allocate()
	return sb
}

func (sb *ScreenBuffer) allocate() {
	sb.front = allocCells(sb.width, sb.height)
	sb.back = allocCells(sb.width, sb.height)
	sb.dirty = make([][]bool, sb.height)
	for y := range sb.dirty {
		sb.dirty[y] = make([]bool, sb.width)
	}
}

// Resize resizes the buffer, preserving content where possible.
func (sb *ScreenBuffer) Resize(width, height int) {
	if width == sb.width && height == sb.height {
		return
	}

	oldBack := sb.back
	copyHeight := min(sb.height, height)
	copyWidth := min(sb.width, width)

	sb.width = width
	sb.height = height
	sb.allocate()

	for y := range copyHeight {
		copy(sb.back[y][:copyWidth], oldBack[y][:copyWidth])
	}
	sb.fullRedraw = true
}

// Size returns the buffer dimensions.
func (sb *ScreenBuffer) Size() (width, height int) {
	return sb.width, sb.height
}

func (sb *ScreenBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < sb.width && y >= 0 && y < sb.height
}

// SetCell sets a cell in the back buffer.
func (sb *ScreenBuffer) SetCell(x, y int, tile core.Tile) {
	if !sb.inBounds(x, y) {
		return
	}
	sb.back[y][x] = tile
	sb.dirty[y][x] = true
}

// GetCell returns a cell from the back buffer.
func (sb *ScreenBuffer) GetCell(x, y int) core.Tile {
	if !sb.inBounds(x, y) {
		return core.EmptyTile()
	}
	return sb.back[y][x]
}

// GetFrontCell returns a cell from the front buffer (currently displayed).
func (sb *ScreenBuffer) GetFrontCell(x, y int) core.Tile {
	if !sb.inBounds(x, y) {
		return core.EmptyTile()
	}
	return sb.front[y][x]
}

// Fill fills a rectangle with the given tile.
func (sb *ScreenBuffer) Fill(rect core.Rect, tile core.Tile) {
	for y := max(rect.Top(), 0); y < rect.Bottom() && y < sb.height; y++ {
		for x := max(rect.Left(), 0); x < rect.Right() && x < sb.width; x++ {
			sb.back[y][x] = tile
			sb.dirty[y][x] = true
		}
	}
}

// Clear clears the back buffer.
func (sb *ScreenBuffer) Clear() {
	sb.Fill(core.NewRect(0, 0, sb.width, sb.height), core.EmptyTile())
}

// DiffChange represents a cell change for synchronization.
type DiffChange struct {
	X, Y int
	Tile core.Tile
}

// ComputeDiff returns the changes needed to update the display.
// Returns nil if no changes are needed.
func (sb *ScreenBuffer) ComputeDiff() []DiffChange {
	var changes []DiffChange
	for y := range sb.height {
		for x := range sb.width {
			if !sb.fullRedraw && !sb.dirty[y][x] {
				continue
			}
			if sb.fullRedraw || !sb.back[y][x].Equals(sb.front[y][x]) {
				changes = append(changes, DiffChange{X: x, Y: y, Tile: sb.back[y][x]})
			}
		}
	}
	return changes
}

// Sync copies the back buffer to the front buffer and clears dirty flags.
// Call this after applying changes to the backend.
func (sb *ScreenBuffer) Sync() {
	for y := range sb.height {
		copy(sb.front[y], sb.back[y])
		clear(sb.dirty[y])
	}
	sb.fullRedraw = false
}

// MarkFullRedraw forces a complete redraw on next sync.
func (sb *ScreenBuffer) MarkFullRedraw() {
	sb.fullRedraw = true
}

// IsDirty returns true if there are pending changes.
func (sb *ScreenBuffer) IsDirty() bool {
	return sb.DirtyCount() > 0
}

// DirtyCount returns the number of dirty cells.
func (sb *ScreenBuffer) DirtyCount() int {
	if sb.fullRedraw {
		return sb.width * sb.height
	}
	count := 0
	for y := range sb.height {
		for x := range sb.width {
			if sb.dirty[y][x] {
				count++
			}
		}
	}
	return count
}

// BufferedBackend wraps a Backend with double-buffered rendering.
type BufferedBackend struct {
	backend  Backend
	buffer   *ScreenBuffer
	onResize func(width, height int)
}

// NewBufferedBackend creates a buffered wrapper around a backend.
func NewBufferedBackend(backend Backend) *BufferedBackend {
	width, height := backend.Size()
	return &BufferedBackend{
		backend: backend,
		buffer:  NewScreenBuffer(width, height),
	}
}

func (b *BufferedBackend) Init() error {
	if err := b.backend.Init(); err != nil {
		return err
	}
	width, height := b.backend.Size()
	b.buffer.Resize(width, height)
	b.backend.OnResize(b.resized)
	return nil
}

func (b *BufferedBackend) Shutdown() {
	b.backend.Shutdown()
}

func (b *BufferedBackend) Size() (int, int) {
	return b.buffer.Size()
}

// OnResize registers callback to run after the buffer follows a resize.
func (b *BufferedBackend) OnResize(callback func(width, height int)) {
	b.onResize = callback
	b.backend.OnResize(b.resized)
}

func (b *BufferedBackend) resized(width, height int) {
	b.buffer.Resize(width, height)
	if b.onResize != nil {
		b.onResize(width, height)
	}
}

func (b *BufferedBackend) SetCell(x, y int, tile core.Tile) {
	b.buffer.SetCell(x, y, tile)
}

func (b *BufferedBackend) GetCell(x, y int) core.Tile {
	return b.buffer.GetCell(x, y)
}

func (b *BufferedBackend) Fill(rect core.Rect, tile core.Tile) {
	b.buffer.Fill(rect, tile)
}

func (b *BufferedBackend) Clear() {
	b.buffer.Clear()
}

// Show computes the diff and applies only changed cells to the backend.
func (b *BufferedBackend) Show() {
	for _, ch := range b.buffer.ComputeDiff() {
		b.backend.SetCell(ch.X, ch.Y, ch.Tile)
	}
	b.buffer.Sync()
	b.backend.Show()
}

func (b *BufferedBackend) PollEvent() Event {
	return b.backend.PollEvent()
}

func (b *BufferedBackend) PostEvent(event Event) {
	b.backend.PostEvent(event)
}

func (b *BufferedBackend) HasTrueColor() bool {
	return b.backend.HasTrueColor()
}

// Buffer returns the underlying screen buffer for direct access.
func (b *BufferedBackend) Buffer() *ScreenBuffer {
	return b.buffer
}

// MarkFullRedraw forces a complete redraw.
func (b *BufferedBackend) MarkFullRedraw() {
	b.buffer.MarkFullRedraw()
}
