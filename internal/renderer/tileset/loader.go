package tileset

import (
	"fmt"
	"image"
	"maps"
	"slices"
	"sync"

	"github.com/dshills/tilegrid/internal/renderer/core"
)

// Built-in tileset resources.
var (
	// Basic7x13 is the fixed 7x13 bitmap font.
	Basic7x13 = core.NewTilesetResource("basic-7x13", core.CharacterTileset, 7, 13)

	// GoMono8x16 is Go Mono at 13pt.
	GoMono8x16 = core.NewTilesetResource("gomono-8x16", core.CharacterTileset, 8, 16)

	// GoMono10x20 is Go Mono at 16pt.
	GoMono10x20 = core.NewTilesetResource("gomono-10x20", core.CharacterTileset, 10, 20)
)

// Factory creates a tileset instance for a resource.
type Factory func(res core.TilesetResource, opts Options) (Tileset, error)

// Loader resolves tileset resources to instances.
// Each resource is instantiated at most once, so all users of a resource
// share its texture cache.
type Loader struct {
	mu        sync.Mutex
	opts      Options
	factories map[string]Factory
	resources map[string]core.TilesetResource
	loaded    map[string]Tileset
}

// NewLoader creates a loader with the built-in tilesets registered.
func NewLoader(opts Options) *Loader {
	l := &Loader{
		opts:      opts,
		factories: make(map[string]Factory),
		resources: make(map[string]core.TilesetResource),
		loaded:    make(map[string]Tileset),
	}
	l.Register(Basic7x13, NewBasicTileset)
	l.Register(GoMono8x16, func(res core.TilesetResource, opts Options) (Tileset, error) {
		return NewGoMonoTileset(res, 13, opts)
	})
	l.Register(GoMono10x20, func(res core.TilesetResource, opts Options) (Tileset, error) {
		return NewGoMonoTileset(res, 16, opts)
	})
	return l
}

// Register adds or replaces the factory for res.
// A previously loaded instance of the same ID is discarded.
func (l *Loader) Register(res core.TilesetResource, f Factory) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.factories[res.ID] = f
	l.resources[res.ID] = res
	delete(l.loaded, res.ID)
}

// RegisterTileset registers an already constructed tileset.
func (l *Loader) RegisterTileset(ts Tileset) {
	res := ts.Resource()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.factories[res.ID] = func(core.TilesetResource, Options) (Tileset, error) { return ts, nil }
	l.resources[res.ID] = res
	l.loaded[res.ID] = ts
}

// RegisterSheet registers a CP437 atlas image for res.
func (l *Loader) RegisterSheet(res core.TilesetResource, sheet image.Image) {
	l.Register(res, func(res core.TilesetResource, opts Options) (Tileset, error) {
		ts, err := NewSheetTileset(res, sheet, opts)
		if err != nil {
			return nil, err
		}
		return ts, nil
	})
}

// Load returns the tileset instance for res, creating it on first use.
func (l *Loader) Load(res core.TilesetResource) (Tileset, error) {
	if res.IsZero() {
		return nil, ErrNoTileset
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	f, ok := l.factories[res.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTileset, res.ID)
	}
	registered := l.resources[res.ID]
	if !registered.SameSize(res) || registered.Kind != res.Kind {
		return nil, fmt.Errorf("%w: %s registered as %s", ErrUnknownTileset, res, registered)
	}
	if ts, ok := l.loaded[res.ID]; ok {
		return ts, nil
	}
	ts, err := f(registered, l.opts)
	if err != nil {
		return nil, fmt.Errorf("loading tileset %s: %w", res.ID, err)
	}
	l.loaded[res.ID] = ts
	return ts, nil
}

// Lookup returns the registered resource for id.
func (l *Loader) Lookup(id string) (core.TilesetResource, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	res, ok := l.resources[id]
	return res, ok
}

// Resources returns all registered resources ordered by ID.
func (l *Loader) Resources() []core.TilesetResource {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := slices.Sorted(maps.Keys(l.resources))
	out := make([]core.TilesetResource, 0, len(ids))
	for _, id := range ids {
		out = append(out, l.resources[id])
	}
	return out
}
