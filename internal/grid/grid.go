// Package grid provides TileGrid, the entry point of the toolkit.
//
// A TileGrid owns a root surface for direct drawing, a root container for
// components and a stack of pushed layers drawn on top of both. Frame
// captures all three as immutable snapshots for the renderers.
package grid

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/tilegrid/internal/component"
	"github.com/dshills/tilegrid/internal/event"
	"github.com/dshills/tilegrid/internal/renderer"
	"github.com/dshills/tilegrid/internal/renderer/core"
	"github.com/dshills/tilegrid/internal/renderer/layer"
	"github.com/dshills/tilegrid/internal/renderer/surface"
	"github.com/dshills/tilegrid/internal/theme"
)

// TileGrid is a fixed-size grid of tiles.
//
// The grid is owned by one goroutine: mutations of the component tree and
// of the root surface, Layers and Frame must all be called from it. A
// captured Frame is immutable and may be handed to any goroutine.
type TileGrid struct {
	mu sync.Mutex

	size    core.Size
	tileset core.TilesetResource
	bus     *event.Bus
	sub     event.Subscription

	surface *surface.Surface
	root    *component.Container
	pushed  []layer.Layer

	// Flattened component order, rebuilt after structural notifications.
	order []component.Component
	stale atomic.Bool

	// Component layers reused while their surface is unchanged.
	layers map[uuid.UUID]cachedLayer
}

type cachedLayer struct {
	version uint64
	layer   layer.Layer
}

// New creates a grid of size cells drawn with tileset. Structural
// notifications are published on bus; a private bus is created when bus
// is nil.
func New(size core.Size, tileset core.TilesetResource, bus *event.Bus) (*TileGrid, error) {
	if bus == nil {
		bus = event.NewBus()
	}
	size = core.NewSize(size.Width, size.Height)
	g := &TileGrid{
		size:    size,
		tileset: tileset,
		bus:     bus,
		surface: surface.New(size),
		root:    component.NewRoot(size, tileset, bus),
		layers:  make(map[uuid.UUID]cachedLayer),
	}
	g.stale.Store(true)

	sub, err := bus.Subscribe("component.**", func(context.Context, event.Envelope) error {
		g.stale.Store(true)
		return nil
	}, event.WithPriority(event.PriorityHigh))
	if err != nil {
		return nil, fmt.Errorf("subscribe to component notifications: %w", err)
	}
	g.sub = sub
	return g, nil
}

// Close stops listening for component notifications.
func (g *TileGrid) Close() error {
	return g.bus.Unsubscribe(g.sub)
}

// Bus returns the bus structural notifications are published on.
func (g *TileGrid) Bus() *event.Bus { return g.bus }

// Size returns the grid size in cells.
func (g *TileGrid) Size() core.Size { return g.size }

// Tileset returns the grid tileset.
func (g *TileGrid) Tileset() core.TilesetResource { return g.tileset }

// WidthInPixels returns the grid width in pixels.
func (g *TileGrid) WidthInPixels() int { return g.size.Width * g.tileset.Width }

// HeightInPixels returns the grid height in pixels.
func (g *TileGrid) HeightInPixels() int { return g.size.Height * g.tileset.Height }

// Root returns the root container.
func (g *TileGrid) Root() *component.Container { return g.root }

// Surface returns the root surface, drawn below every component.
func (g *TileGrid) Surface() *surface.Surface { return g.surface }

// AddComponent attaches c to the root container.
func (g *TileGrid) AddComponent(c component.Component) error {
	return g.root.AddComponent(c)
}

// RemoveComponent detaches c from wherever it is in the tree.
func (g *TileGrid) RemoveComponent(c component.Component) bool {
	return g.root.RemoveComponent(c)
}

// FetchComponentByPosition returns the deepest component at pos.
func (g *TileGrid) FetchComponentByPosition(pos core.Position) (component.Component, bool) {
	return g.root.FetchComponentByPosition(pos)
}

// ApplyColorTheme restyles every component from t.
func (g *TileGrid) ApplyColorTheme(t theme.ColorTheme) {
	g.root.ApplyColorTheme(t)
}

// PushLayer adds l on top of everything drawn so far.
func (g *TileGrid) PushLayer(l layer.Layer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pushed = append(g.pushed, l)
}

// PopLayer removes and returns the topmost pushed layer.
func (g *TileGrid) PopLayer() (layer.Layer, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.pushed) == 0 {
		return layer.Layer{}, false
	}
	l := g.pushed[len(g.pushed)-1]
	g.pushed = g.pushed[:len(g.pushed)-1]
	return l, true
}

// Layers returns the component layers in tree order followed by the
// pushed layers.
func (g *TileGrid) Layers() []layer.Layer {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.collectLayers()
}

// Frame captures the grid for rendering. It walks the component tree, so
// it must be called from the goroutine that mutates the tree.
func (g *TileGrid) Frame() renderer.Frame {
	g.mu.Lock()
	defer g.mu.Unlock()
	return renderer.Frame{
		Tileset: g.tileset,
		Size:    g.size,
		Root:    g.surface.Snapshot(),
		Layers:  g.collectLayers(),
	}
}

func (g *TileGrid) collectLayers() []layer.Layer {
	if g.stale.Swap(false) {
		g.order = g.root.FlattenedComponentTree()
		g.prune()
	}

	out := make([]layer.Layer, 0, len(g.order)+len(g.pushed)+1)
	out = append(out, g.layerOf(g.root))
	for _, c := range g.order {
		out = append(out, g.layerOf(c))
	}
	return append(out, g.pushed...)
}

// layerOf returns the cached layer of c, rebuilding it when the surface,
// position or tileset changed.
func (g *TileGrid) layerOf(c component.Component) layer.Layer {
	version := c.Surface().Version()
	if cached, ok := g.layers[c.ID()]; ok &&
		cached.version == version &&
		cached.layer.Offset() == c.EffectivePosition() &&
		cachedTileset(cached.layer) == c.Tileset() {
		return cached.layer
	}
	l := c.Layer()
	g.layers[c.ID()] = cachedLayer{version: version, layer: l}
	return l
}

// prune drops cached layers of components no longer in the tree.
func (g *TileGrid) prune() {
	live := make(map[uuid.UUID]struct{}, len(g.order)+1)
	live[g.root.ID()] = struct{}{}
	for _, c := range g.order {
		live[c.ID()] = struct{}{}
	}
	for id := range g.layers {
		if _, ok := live[id]; !ok {
			delete(g.layers, id)
		}
	}
}

func cachedTileset(l layer.Layer) core.TilesetResource {
	res, _ := l.Tileset()
	return res
}
