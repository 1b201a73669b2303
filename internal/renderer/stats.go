package renderer

import "time"

// Stats reports renderer activity.
type Stats struct {
	FramesRendered  uint64
	FramesAbandoned uint64
	TilesDrawn      uint64
	TileErrors      uint64
	LastFrame       time.Duration
}
