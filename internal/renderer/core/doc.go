// Package core provides the value types shared by every layer of the
// tile pipeline: grid geometry, colors, styles, tiles and tileset
// resources.
//
// All types in this package are immutable values. Every mutator returns
// a modified copy, so values can be shared freely between surfaces,
// snapshots and the texture caches that key on them.
package core
