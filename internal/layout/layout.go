// Package layout captures a generated level as a plain serializable
// record, for CLI output, catalog storage, and the generation service.
package layout

import (
	"github.com/chunkstitch/chunkstitch/pkg/geom"
	"github.com/chunkstitch/chunkstitch/pkg/level"
)

// Layout is a flattened level: placed chunks plus whatever contexts are
// still open after generation.
type Layout struct {
	Dims         int             `json:"dims" yaml:"dims"`
	Extents      []float64       `json:"extents" yaml:"extents"`
	Chunks       []ChunkRecord   `json:"chunks" yaml:"chunks"`
	OpenContexts []ContextRecord `json:"open_contexts" yaml:"open_contexts"`
}

// ChunkRecord is one placed chunk.
type ChunkRecord struct {
	Tag      string    `json:"tag" yaml:"tag"`
	Pos      []float64 `json:"pos" yaml:"pos"`
	Extents  []float64 `json:"extents" yaml:"extents"`
	Rotation int       `json:"rotation" yaml:"rotation"`
}

// ContextRecord is one open context, addressed by the placement index of
// its owning chunk.
type ContextRecord struct {
	Chunk int       `json:"chunk" yaml:"chunk"`
	Index int       `json:"index" yaml:"index"`
	Tag   string    `json:"tag" yaml:"tag"`
	Pos   []float64 `json:"pos" yaml:"pos"`
}

// Capture flattens a level. Chunk order is placement order, so a captured
// layout doubles as a placement trace for determinism checks.
func Capture[V geom.Vector[V]](lvl *level.Level[V]) *Layout {
	extents := lvl.Extents().Components()
	out := &Layout{
		Dims:    len(extents),
		Extents: extents,
		Chunks:  make([]ChunkRecord, 0, lvl.ChunkCount()),
	}
	chunkIndex := make(map[any]int, lvl.ChunkCount())
	for i, c := range lvl.Chunks() {
		chunkIndex[c] = i
		out.Chunks = append(out.Chunks, ChunkRecord{
			Tag:      c.Tag(),
			Pos:      c.Pos().Components(),
			Extents:  c.Extents().Components(),
			Rotation: c.Rotation(),
		})
	}
	for _, ctx := range lvl.OpenContexts() {
		out.OpenContexts = append(out.OpenContexts, ContextRecord{
			Chunk: chunkIndex[ctx.Owner()],
			Index: ctx.Index(),
			Tag:   ctx.Tag(),
			Pos:   ctx.AbsolutePos().Components(),
		})
	}
	return out
}
