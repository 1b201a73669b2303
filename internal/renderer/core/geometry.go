package core

import "fmt"

// Position is a grid coordinate in tile units (0-indexed).
type Position struct {
	X int
	Y int
}

// Origin is the top-left grid position.
var Origin = Position{}

// NewPosition creates a grid position.
func NewPosition(x, y int) Position {
	return Position{X: x, Y: y}
}

// Add returns the position translated by other.
func (p Position) Add(other Position) Position {
	return Position{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the position translated by -other.
func (p Position) Sub(other Position) Position {
	return Position{X: p.X - other.X, Y: p.Y - other.Y}
}

// Offset returns the position translated by (dx, dy).
func (p Position) Offset(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Equals returns true if two positions are the same.
func (p Position) Equals(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

// Before returns true if p comes before other in row-major order.
func (p Position) Before(other Position) bool {
	if p.Y != other.Y {
		return p.Y < other.Y
	}
	return p.X < other.X
}

// String implements fmt.Stringer.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// TopRightOf returns the position directly to the right of r's top row.
func TopRightOf(r Rect) Position {
	return Position{X: r.Right(), Y: r.Position.Y}
}

// BottomLeftOf returns the position directly below r's left column.
func BottomLeftOf(r Rect) Position {
	return Position{X: r.Position.X, Y: r.Bottom()}
}

// Size is a dimension in tile units.
type Size struct {
	Width  int
	Height int
}

// NewSize creates a size. Negative dimensions are clamped to zero.
func NewSize(width, height int) Size {
	return Size{Width: max(width, 0), Height: max(height, 0)}
}

// IsEmpty returns true if the size has no area.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Area returns the number of cells.
func (s Size) Area() int {
	if s.IsEmpty() {
		return 0
	}
	return s.Width * s.Height
}

// Contains returns true if pos lies within a rectangle of this size at the origin.
func (s Size) Contains(pos Position) bool {
	return pos.X >= 0 && pos.Y >= 0 && pos.X < s.Width && pos.Y < s.Height
}

// Rect returns the rectangle of this size placed at pos.
func (s Size) Rect(pos Position) Rect {
	return Rect{Position: pos, Size: s}
}

// String implements fmt.Stringer.
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Rect is a rectangular region of the grid.
type Rect struct {
	Position Position
	Size     Size
}

// NewRect creates a rectangle from its top-left corner and size.
func NewRect(x, y, width, height int) Rect {
	return Rect{Position: Position{X: x, Y: y}, Size: NewSize(width, height)}
}

// Left returns the first column (inclusive).
func (r Rect) Left() int { return r.Position.X }

// Top returns the first row (inclusive).
func (r Rect) Top() int { return r.Position.Y }

// Right returns the last column (exclusive).
func (r Rect) Right() int { return r.Position.X + r.Size.Width }

// Bottom returns the last row (exclusive).
func (r Rect) Bottom() int { return r.Position.Y + r.Size.Height }

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Size.IsEmpty()
}

// Contains returns true if pos is within the rectangle.
func (r Rect) Contains(pos Position) bool {
	return pos.X >= r.Left() && pos.X < r.Right() &&
		pos.Y >= r.Top() && pos.Y < r.Bottom()
}

// ContainsRect returns true if other is entirely within r.
// A zero-area rectangle is contained when its corner lies within r's closed bounds.
func (r Rect) ContainsRect(other Rect) bool {
	return other.Left() >= r.Left() && other.Right() <= r.Right() &&
		other.Top() >= r.Top() && other.Bottom() <= r.Bottom()
}

// Intersects returns true if two rectangles overlap.
// Zero-area rectangles never intersect anything.
func (r Rect) Intersects(other Rect) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return r.Left() < other.Right() && r.Right() > other.Left() &&
		r.Top() < other.Bottom() && r.Bottom() > other.Top()
}

// Intersection returns the overlapping region of two rectangles.
func (r Rect) Intersection(other Rect) Rect {
	if !r.Intersects(other) {
		return Rect{}
	}
	left := max(r.Left(), other.Left())
	top := max(r.Top(), other.Top())
	return NewRect(left, top,
		min(r.Right(), other.Right())-left,
		min(r.Bottom(), other.Bottom())-top)
}

// Translate returns the rectangle moved by delta.
func (r Rect) Translate(delta Position) Rect {
	r.Position = r.Position.Add(delta)
	return r
}

// Equals returns true if two rectangles are identical.
func (r Rect) Equals(other Rect) bool {
	return r.Position.Equals(other.Position) && r.Size == other.Size
}

// String implements fmt.Stringer.
func (r Rect) String() string {
	return fmt.Sprintf("%s@%s", r.Size, r.Position)
}
