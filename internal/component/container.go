package component

import (
	"weak"

	"github.com/dshills/tilegrid/internal/renderer/core"
	"github.com/dshills/tilegrid/internal/renderer/layer"
	"github.com/dshills/tilegrid/internal/renderer/surface"
	"github.com/dshills/tilegrid/internal/theme"
)

// boxInset is the offset of a boxed container's content area.
var boxInset = core.Position{X: 1, Y: 1}

// Container is a component that owns child components.
// Children are positioned relative to the container's content area, must
// lie fully inside it and must not overlap each other.
type Container struct {
	node
	children []Component
	box      bool
	title    string
}

// NewPanel creates a detached container.
func NewPanel(opts ...Option) *Container {
	s := newSettings(opts)
	c := &Container{box: s.box, title: s.title}
	c.init(c, KindPanel, s)
	c.redraw()
	return c
}

// NewRoot creates the root container of a grid. A root cannot be added to
// another container. Every component attached below it shares notifier.
func NewRoot(size core.Size, tileset core.TilesetResource, notifier Notifier) *Container {
	c := &Container{}
	c.init(c, KindRoot, newSettings([]Option{WithSize(size), WithTileset(tileset)}))
	c.notifier = notifier
	c.redraw()
	return c
}

func (c *Container) asNode() *node {
	if c == nil {
		return nil
	}
	return &c.node
}

// Boxed reports whether the container draws a border.
func (c *Container) Boxed() bool { return c.box }

// Title returns the border title.
func (c *Container) Title() string { return c.title }

// Components returns the direct children in insertion order.
func (c *Container) Components() []Component {
	out := make([]Component, len(c.children))
	copy(out, c.children)
	return out
}

// ContentSize returns the size of the area children are placed in.
func (c *Container) ContentSize() core.Size {
	if c.box {
		return core.NewSize(c.size.Width-2, c.size.Height-2)
	}
	return c.size
}

func (c *Container) contentOrigin() core.Position {
	if c.box {
		return c.effective.Add(boxInset)
	}
	return c.effective
}

// AddComponent attaches comp as a direct child. On error the tree is left
// unchanged.
func (c *Container) AddComponent(comp Component) error {
	n := nodeOf(comp)
	if n == nil || n.kind == KindRoot {
		return &ComponentError{Op: "add", ID: c.id, Err: ErrUnsupportedComponentKind}
	}
	if n == &c.node || c.hasAncestor(n) {
		return &ComponentError{Op: "add", ID: n.id, Err: ErrIdentityViolation}
	}
	if _, attached := n.Parent(); attached {
		return &ComponentError{Op: "add", ID: n.id, Err: ErrAlreadyAttached}
	}
	if err := c.checkPlacement(n, n.localBounds()); err != nil {
		return &ComponentError{Op: "add", ID: n.id, Err: err}
	}
	if !c.tileset.IsZero() {
		if err := checkSubtreeTilesets(comp, c.tileset, true); err != nil {
			return &ComponentError{Op: "add", ID: n.id, Err: err}
		}
	}

	c.children = append(c.children, comp)
	n.parent = weak.Make(c)
	comp.setNotifier(c.notifier)
	comp.inheritTileset(c.tileset)
	comp.reposition(c.contentOrigin())

	c.publish(TopicAdded, Notification{Component: comp, Parent: c})
	return nil
}

// RemoveComponent detaches comp from this container or from any container
// below it. Returns false if comp is not in the subtree.
func (c *Container) RemoveComponent(comp Component) bool {
	n := nodeOf(comp)
	if n == nil {
		return false
	}
	for i, child := range c.children {
		if child.asNode() != n {
			continue
		}
		c.children = append(c.children[:i], c.children[i+1:]...)
		n.parent = weak.Pointer[Container]{}
		comp.setNotifier(nil)
		if !n.explicitTileset {
			comp.inheritTileset(core.NoTileset)
		}
		comp.reposition(core.Origin)
		c.publish(TopicRemoved, Notification{Component: comp, Parent: c})
		return true
	}
	for _, child := range c.children {
		if sub, ok := child.(*Container); ok && sub.RemoveComponent(comp) {
			return true
		}
	}
	return false
}

// FlattenedComponentTree returns every descendant in preorder, excluding
// the container itself.
func (c *Container) FlattenedComponentTree() []Component {
	var out []Component
	c.walk(func(comp Component) {
		out = append(out, comp)
	})
	return out
}

func (c *Container) walk(fn func(Component)) {
	for _, child := range c.children {
		fn(child)
		if sub, ok := child.(*Container); ok {
			sub.walk(fn)
		}
	}
}

// Layers returns the container's layer followed by its descendants' layers
// in preorder.
func (c *Container) Layers() []layer.Layer {
	out := []layer.Layer{c.Layer()}
	for _, child := range c.children {
		out = append(out, child.Layers()...)
	}
	return out
}

// FetchComponentByPosition returns the deepest component containing pos.
// Siblings are searched in insertion order.
func (c *Container) FetchComponentByPosition(pos core.Position) (Component, bool) {
	if !c.Bounds().Contains(pos) {
		return nil, false
	}
	for _, child := range c.children {
		if found, ok := child.FetchComponentByPosition(pos); ok {
			return found, true
		}
	}
	return c, true
}

// DrawOnto draws the container and then its children onto dst.
func (c *Container) DrawOnto(dst *surface.Surface) {
	c.node.DrawOnto(dst)
	for _, child := range c.children {
		child.DrawOnto(dst)
	}
}

// checkPlacement validates rect, in content coordinates, as the bounds of
// n. n itself is skipped when checking siblings.
func (c *Container) checkPlacement(n *node, rect core.Rect) error {
	if !c.ContentSize().Rect(core.Origin).ContainsRect(rect) {
		return ErrContainmentViolation
	}
	for _, child := range c.children {
		sib := child.asNode()
		if sib == n {
			continue
		}
		if sib.localBounds().Intersects(rect) {
			return ErrContainmentViolation
		}
	}
	return nil
}

func (c *Container) hasAncestor(n *node) bool {
	for p, ok := c.Parent(); ok; p, ok = p.Parent() {
		if &p.node == n {
			return true
		}
	}
	return false
}

func (c *Container) reposition(origin core.Position) {
	c.node.reposition(origin)
	inner := c.contentOrigin()
	for _, child := range c.children {
		child.reposition(inner)
	}
}

func (c *Container) inheritTileset(res core.TilesetResource) {
	c.node.inheritTileset(res)
	for _, child := range c.children {
		child.inheritTileset(c.tileset)
	}
}

func (c *Container) setNotifier(n Notifier) {
	c.notifier = n
	for _, child := range c.children {
		child.setNotifier(n)
	}
}

func (c *Container) applyTheme(t theme.ColorTheme) {
	c.node.applyTheme(t)
	for _, child := range c.children {
		child.applyTheme(t)
	}
}

func (c *Container) verify() error {
	content := c.ContentSize().Rect(core.Origin)
	for _, child := range c.children {
		n := child.asNode()
		if !content.ContainsRect(n.localBounds()) {
			return ErrInvariantBroken
		}
		if n.effective != c.contentOrigin().Add(n.position) {
			return ErrInvariantBroken
		}
		if err := child.verify(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Container) redraw() {
	c.surface.Clear()
	if !c.style.Background.IsDefault() {
		c.surface.Fill(core.NewCharacterTile(' ', c.style))
	}
	if c.box {
		drawBox(c.surface, c.style, c.title)
	}
}

// drawBox draws a single-line border around s with title on the top edge.
func drawBox(s *surface.Surface, style core.StyleSet, title string) {
	size := s.Size()
	if size.Width < 2 || size.Height < 2 {
		return
	}
	right, bottom := size.Width-1, size.Height-1
	for x := 1; x < right; x++ {
		s.SetTileAt(core.Position{X: x, Y: 0}, core.NewCharacterTile('─', style))
		s.SetTileAt(core.Position{X: x, Y: bottom}, core.NewCharacterTile('─', style))
	}
	for y := 1; y < bottom; y++ {
		s.SetTileAt(core.Position{X: 0, Y: y}, core.NewCharacterTile('│', style))
		s.SetTileAt(core.Position{X: right, Y: y}, core.NewCharacterTile('│', style))
	}
	s.SetTileAt(core.Position{X: 0, Y: 0}, core.NewCharacterTile('┌', style))
	s.SetTileAt(core.Position{X: right, Y: 0}, core.NewCharacterTile('┐', style))
	s.SetTileAt(core.Position{X: 0, Y: bottom}, core.NewCharacterTile('└', style))
	s.SetTileAt(core.Position{X: right, Y: bottom}, core.NewCharacterTile('┘', style))

	if title != "" && surface.TextWidth(title) <= size.Width-2 {
		s.PutText(core.Position{X: 1, Y: 0}, title, style)
	}
}

// nodeOf returns the shared state of comp, or nil for a nil or typed-nil
// component.
func nodeOf(comp Component) *node {
	if comp == nil {
		return nil
	}
	return comp.asNode()
}

// checkSubtreeTilesets verifies every explicit tileset in comp's subtree
// has the cell size of res.
func checkSubtreeTilesets(comp Component, res core.TilesetResource, includeSelf bool) error {
	if includeSelf {
		if n := comp.asNode(); n.explicitTileset && !n.tileset.SameSize(res) {
			return mismatch(n.tileset, res)
		}
	}
	c, ok := comp.(*Container)
	if !ok {
		return nil
	}
	for _, child := range c.children {
		if err := checkSubtreeTilesets(child, res, true); err != nil {
			return err
		}
	}
	return nil
}
