package main

import (
	"fmt"

	"github.com/dshills/tilegrid/internal/component"
	"github.com/dshills/tilegrid/internal/grid"
	"github.com/dshills/tilegrid/internal/renderer/core"
	"github.com/dshills/tilegrid/internal/renderer/layer"
	"github.com/dshills/tilegrid/internal/renderer/surface"
)

// demoPanelSize is the size of the showcase panel.
var demoPanelSize = core.NewSize(48, 20)

// buildDemo fills g with a boxed panel of labels, a header and a button,
// plus a status line pushed as a layer on the last row.
func buildDemo(g *grid.TileGrid, status string) error {
	size := demoPanelSize
	if gs := g.Size(); gs.Width < size.Width || gs.Height < size.Height+1 {
		size = core.NewSize(min(gs.Width, size.Width), min(gs.Height-1, size.Height))
	}
	if size.Width < 3 || size.Height < 6 {
		return fmt.Errorf("grid %s too small for the demo", g.Size())
	}

	panel := component.NewPanel(
		component.WithSize(size),
		component.WithTitle("tilegrid"),
	)
	if err := g.AddComponent(panel); err != nil {
		return err
	}

	labelLeft := component.NewLabel("Label left ", component.WithPosition(core.NewPosition(0, 2)))
	btn := component.NewButton("Button", component.WithPosition(topRightOf(labelLeft)))
	labelRight := component.NewLabel(" Label right", component.WithPosition(topRightOf(btn)))

	children := []component.Component{
		component.NewHeader("Plain button example"),
		component.NewLabel("Some label with text", component.WithPosition(core.NewPosition(0, 1))),
		labelLeft,
		btn,
		labelRight,
		component.NewLabel("Another label with text", component.WithPosition(core.NewPosition(0, 3))),
	}
	content := panel.ContentSize()
	for _, c := range children {
		if c.Position().X+c.Size().Width > content.Width {
			continue
		}
		if err := panel.AddComponent(c); err != nil {
			return err
		}
	}

	if status != "" {
		gs := g.Size()
		line := surface.New(core.NewSize(gs.Width, 1))
		line.PutText(core.Origin, status, core.StyleSet{
			Foreground: core.ColorBlack,
			Background: core.ColorWhite,
		})
		g.PushLayer(layer.FromSurface(line, core.NewPosition(0, gs.Height-1), core.NoTileset))
	}
	return nil
}

// topRightOf is the position just right of c on its first row.
func topRightOf(c component.Component) core.Position {
	return core.TopRightOf(c.Size().Rect(c.Position()))
}
