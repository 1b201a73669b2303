// Package config loads tilegrid settings.
//
// Settings come from three layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment (TILEGRID_) │  ← Highest priority
//	├─────────────────────────────┤
//	│  2. Config file (TOML)      │  ← tilegrid.toml and its includes
//	├─────────────────────────────┤
//	│  1. Built-in defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// The merged layers are decoded strictly into Config, so an unknown key is
// reported rather than silently ignored, and then validated.
//
// # Configuration Files
//
//	include = "base.toml"
//
//	[grid]
//	width = 80
//	height = 24
//	tileset = "gomono-10x20"
//
//	[render]
//	max_fps = 30
//	clear_color = "#000000"
//	texture_cache_size = 4096
//
//	[theme]
//	name = "solarized-dark"
//	file = "themes.yaml"
//	watch = true
//
//	[log]
//	level = "info"
//	format = "console"
//
// # Environment
//
// TILEGRID_SECTION_KEY sets section.key, for example TILEGRID_GRID_WIDTH or
// TILEGRID_RENDER_MAX_FPS. TILEGRID_THEME and TILEGRID_TILESET are short
// forms of theme.name and grid.tileset.
package config
