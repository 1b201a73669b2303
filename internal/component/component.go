// Package component implements the component tree: positioned, sized nodes
// that paint onto their own surface and flatten into layers for rendering.
//
// Components are created with the New* constructors and attached to a
// container with AddComponent. Positions are local to the parent's content
// area; EffectivePosition is the absolute grid position and is kept up to
// date whenever a component is attached, moved or detached, or one of its
// ancestors moves.
//
// A tree is owned by one goroutine. Structural changes are announced on the
// Notifier given to the root, which every attached component shares.
package component

import (
	"context"
	"weak"

	"github.com/google/uuid"

	"github.com/dshills/tilegrid/internal/event/topic"
	"github.com/dshills/tilegrid/internal/renderer/core"
	"github.com/dshills/tilegrid/internal/renderer/layer"
	"github.com/dshills/tilegrid/internal/renderer/surface"
	"github.com/dshills/tilegrid/internal/theme"
)

// Kind enumerates the component variants.
type Kind uint8

const (
	KindRoot Kind = iota + 1
	KindPanel
	KindLabel
	KindButton
	KindHeader
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindPanel:
		return "panel"
	case KindLabel:
		return "label"
	case KindButton:
		return "button"
	case KindHeader:
		return "header"
	default:
		return "unknown"
	}
}

// Structural notification topics.
const (
	TopicAdded        topic.Topic = "component.added"
	TopicRemoved      topic.Topic = "component.removed"
	TopicMoved        topic.Topic = "component.moved"
	TopicThemeApplied topic.Topic = "component.theme.applied"
)

// Notifier receives structural notifications. *event.Bus implements it.
type Notifier interface {
	Publish(ctx context.Context, t topic.Topic, payload any) error
}

// Notification is the payload of every structural notification.
type Notification struct {
	Component Component
	Parent    *Container

	// From and To are set for moves.
	From, To core.Position
}

// Component is a node of the tree. The set of implementations is closed:
// *Container, *Label, *Button and *Header.
type Component interface {
	ID() uuid.UUID
	Kind() Kind
	Position() core.Position
	EffectivePosition() core.Position
	Size() core.Size
	Bounds() core.Rect
	StyleSet() core.StyleSet
	SetStyleSet(style core.StyleSet)
	Tileset() core.TilesetResource
	UseTileset(res core.TilesetResource) error
	Parent() (*Container, bool)
	Surface() *surface.Surface
	SetPosition(pos core.Position) error
	Layer() layer.Layer
	Layers() []layer.Layer
	FetchComponentByPosition(pos core.Position) (Component, bool)
	ApplyColorTheme(t theme.ColorTheme)
	DrawOnto(dst *surface.Surface)

	asNode() *node
	redraw()
	reposition(origin core.Position)
	inheritTileset(res core.TilesetResource)
	setNotifier(n Notifier)
	applyTheme(t theme.ColorTheme)
	verify() error
}

// node is the state shared by every component kind.
type node struct {
	self      Component
	id        uuid.UUID
	kind      Kind
	position  core.Position
	effective core.Position
	size      core.Size
	style     core.StyleSet

	tileset         core.TilesetResource
	explicitTileset bool

	parent   weak.Pointer[Container]
	notifier Notifier
	surface  *surface.Surface
}

func (n *node) init(self Component, kind Kind, s settings) {
	n.self = self
	n.id = uuid.New()
	n.kind = kind
	n.position = s.position
	n.effective = s.position
	n.size = s.size
	n.style = s.style
	n.tileset = s.tileset
	n.explicitTileset = !s.tileset.IsZero()
	n.surface = surface.New(s.size)
}

func (n *node) ID() uuid.UUID                    { return n.id }
func (n *node) Kind() Kind                       { return n.kind }
func (n *node) Position() core.Position          { return n.position }
func (n *node) EffectivePosition() core.Position { return n.effective }
func (n *node) Size() core.Size                  { return n.size }
func (n *node) StyleSet() core.StyleSet          { return n.style }
func (n *node) Tileset() core.TilesetResource    { return n.tileset }
func (n *node) Surface() *surface.Surface        { return n.surface }

// Bounds returns the absolute grid region of the component.
func (n *node) Bounds() core.Rect {
	return n.size.Rect(n.effective)
}

// localBounds returns the region in the parent's content coordinates.
func (n *node) localBounds() core.Rect {
	return n.size.Rect(n.position)
}

// Parent returns the container owning the component, if any.
func (n *node) Parent() (*Container, bool) {
	p := n.parent.Value()
	return p, p != nil
}

// origin returns the absolute position local coordinates are relative to.
func (n *node) origin() core.Position {
	if p, ok := n.Parent(); ok {
		return p.contentOrigin()
	}
	return core.Origin
}

// SetStyleSet replaces the default style and repaints.
func (n *node) SetStyleSet(style core.StyleSet) {
	n.style = style
	n.self.redraw()
}

// SetPosition moves the component, and its subtree, to pos in its parent's
// coordinates. An attached component must stay inside its parent and clear
// of its siblings.
func (n *node) SetPosition(pos core.Position) error {
	parent, attached := n.Parent()
	if attached {
		if err := parent.checkPlacement(n, n.size.Rect(pos)); err != nil {
			return &ComponentError{Op: "move", ID: n.id, Err: err}
		}
	}

	from := n.position
	n.position = pos
	n.self.reposition(n.origin())
	if err := n.self.verify(); err != nil {
		n.position = from
		n.self.reposition(n.origin())
		return &ComponentError{Op: "move", ID: n.id, Err: err}
	}

	n.publish(TopicMoved, Notification{Component: n.self, Parent: parent, From: from, To: pos})
	return nil
}

// UseTileset sets an explicit tileset, or with core.NoTileset goes back to
// inheriting the container's. Descendants without an explicit tileset
// follow.
func (n *node) UseTileset(res core.TilesetResource) error {
	if !res.IsZero() {
		if p, ok := n.Parent(); ok && !p.tileset.IsZero() && !p.tileset.SameSize(res) {
			return &ComponentError{Op: "use tileset", ID: n.id, Err: mismatch(res, p.tileset)}
		}
		if err := checkSubtreeTilesets(n.self, res, false); err != nil {
			return &ComponentError{Op: "use tileset", ID: n.id, Err: err}
		}
		n.explicitTileset = true
		n.tileset = res
		n.self.inheritTileset(res)
		return nil
	}

	n.explicitTileset = false
	inherited := core.NoTileset
	if p, ok := n.Parent(); ok {
		inherited = p.tileset
	}
	n.self.inheritTileset(inherited)
	return nil
}

// Layer returns the component's own surface as a layer.
func (n *node) Layer() layer.Layer {
	return layer.FromSurface(n.surface, n.effective, n.tileset)
}

// Layers returns the layers of the component, back to front.
func (n *node) Layers() []layer.Layer {
	return []layer.Layer{n.Layer()}
}

// FetchComponentByPosition returns the component if pos is within its bounds.
func (n *node) FetchComponentByPosition(pos core.Position) (Component, bool) {
	if !n.Bounds().Contains(pos) {
		return nil, false
	}
	return n.self, true
}

// ApplyColorTheme restyles the component, and its subtree, from t.
func (n *node) ApplyColorTheme(t theme.ColorTheme) {
	n.self.applyTheme(t)
	n.publish(TopicThemeApplied, Notification{Component: n.self})
}

// DrawOnto draws the component's surface onto dst at its effective position.
func (n *node) DrawOnto(dst *surface.Surface) {
	dst.Draw(n.surface, n.effective)
}

func (n *node) reposition(origin core.Position) {
	n.effective = origin.Add(n.position)
}

func (n *node) inheritTileset(res core.TilesetResource) {
	if !n.explicitTileset {
		n.tileset = res
	}
}

func (n *node) setNotifier(notifier Notifier) {
	n.notifier = notifier
}

func (n *node) applyTheme(t theme.ColorTheme) {
	n.style = themedStyle(n.kind, t)
	n.self.redraw()
}

func (n *node) verify() error { return nil }

// publish sends a notification. Handler failures belong to the subscriber
// and do not undo the mutation.
func (n *node) publish(t topic.Topic, payload Notification) {
	if n.notifier == nil {
		return
	}
	_ = n.notifier.Publish(context.Background(), t, payload)
}

// themedStyle returns the default style a theme assigns to a kind.
func themedStyle(k Kind, t theme.ColorTheme) core.StyleSet {
	switch k {
	case KindRoot, KindPanel:
		return core.NewStyle(t.DarkForeground(), t.DarkBackground())
	case KindLabel:
		return core.NewStyle(t.SecondaryForeground, core.ColorDefault)
	case KindHeader:
		return core.NewStyle(t.PrimaryForeground, core.ColorDefault).WithModifiers(core.ModBold)
	case KindButton:
		return core.NewStyle(t.Accent, core.ColorDefault)
	default:
		return core.DefaultStyle()
	}
}
