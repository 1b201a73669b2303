// Package renderer turns grid frames into output.
//
// A Frame is an immutable capture of a grid: its root surface snapshot and
// every layer in paint order. Two renderers consume frames:
//
//   - Renderer rasterizes each tile through its tileset and composites the
//     textures onto a pixel surface (an in-memory image or a PNG file).
//   - CellRenderer flattens the layers into one cell per grid position and
//     pushes the result to a cell backend such as a tcell terminal.
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│        TileGrid.Frame() (capture)       │
//	├─────────────────────────────────────────┤
//	│  Renderer (pixels)  │ CellRenderer      │
//	├─────────────────────┼───────────────────┤
//	│  tileset.Loader     │ ScreenBuffer diff │
//	├─────────────────────┼───────────────────┤
//	│  PixelSurface       │ Backend (tcell)   │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	r := renderer.New(grid, loader, backend.NewPNGFileSurface("out.png"), logger, renderer.DefaultOptions())
//	if err := r.RenderNow(ctx); err != nil {
//		return err
//	}
package renderer
