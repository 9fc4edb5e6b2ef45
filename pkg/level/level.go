// Package level holds the growing spatial layout a generation run builds:
// the placed chunks in placement order, the live open-context set derived
// from them, and the overlap and containment queries the generator needs.
package level

import (
	"errors"
	"fmt"

	"github.com/chunkstitch/chunkstitch/pkg/chunk"
	"github.com/chunkstitch/chunkstitch/pkg/geom"
)

var (
	// ErrInvalidExtents marks a level created with non-positive target
	// extents.
	ErrInvalidExtents = errors.New("level: target extents must be positive componentwise")

	// ErrOutOfBounds is returned when a chunk's bounds exceed the
	// level's target extents.
	ErrOutOfBounds = errors.New("level: chunk bounds outside target extents")

	// ErrOverlap is returned when a chunk's bounds overlap an already
	// placed chunk. Touching faces are not overlap.
	ErrOverlap = errors.New("level: chunk bounds overlap a placed chunk")
)

// Level is the set of placed chunks within fixed target extents. Chunks
// are only ever added; the level grows monotonically during generation and
// post-processing policies may afterwards move context positions but never
// chunks.
type Level[V geom.Vector[V]] struct {
	extents V
	chunks  []*chunk.Chunk[V]
}

// New creates an empty level spanning [0, extents] on every axis.
func New[V geom.Vector[V]](extents V) (*Level[V], error) {
	if !extents.AllPositive() {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidExtents, extents)
	}
	return &Level[V]{extents: extents}, nil
}

// Extents returns the level's target extents.
func (l *Level[V]) Extents() V { return l.extents }

// Bounds returns the level's target bounds.
func (l *Level[V]) Bounds() geom.Bounds[V] {
	var zero V
	return geom.BoundsAt(zero, l.extents)
}

// Chunks returns the placed chunks in placement order.
func (l *Level[V]) Chunks() []*chunk.Chunk[V] { return l.chunks }

// ChunkCount returns the number of placed chunks.
func (l *Level[V]) ChunkCount() int { return len(l.chunks) }

// Overlaps reports whether candidate bounds overlap any placed chunk. The
// scan is linear over placement order; a spatial index is an optimization
// the chunk counts here have not needed.
func (l *Level[V]) Overlaps(b geom.Bounds[V]) bool {
	for _, c := range l.chunks {
		if c.Bounds().Overlaps(b) {
			return true
		}
	}
	return false
}

// Fits reports whether candidate bounds lie inside the target extents
// without overlapping a placed chunk.
func (l *Level[V]) Fits(b geom.Bounds[V]) bool {
	return l.Bounds().Contains(b) && !l.Overlaps(b)
}

// AddChunk appends a chunk, enforcing the level invariants: bounds inside
// the target extents and no overlap with placed chunks.
func (l *Level[V]) AddChunk(c *chunk.Chunk[V]) error {
	b := c.Bounds()
	if !l.Bounds().Contains(b) {
		return fmt.Errorf("%w: %v..%v", ErrOutOfBounds, b.Min, b.Max)
	}
	if l.Overlaps(b) {
		return fmt.Errorf("%w: %v..%v", ErrOverlap, b.Min, b.Max)
	}
	l.chunks = append(l.chunks, c)
	return nil
}

// OpenContexts returns the currently open contexts, ordered
// first-open-encountered: chunks in placement order, contexts in index
// order within each chunk. The generator's selection order and the
// alignment policy's pass order both depend on this being stable.
func (l *Level[V]) OpenContexts() []*chunk.Context[V] {
	var open []*chunk.Context[V]
	for _, c := range l.chunks {
		for _, ctx := range c.Contexts() {
			if ctx.Open() {
				open = append(open, ctx)
			}
		}
	}
	return open
}

// DroppedContexts returns the contexts the generator gave up on, in the
// same order as OpenContexts. Inspectable after generation; a non-empty
// result is not an error.
func (l *Level[V]) DroppedContexts() []*chunk.Context[V] {
	var dropped []*chunk.Context[V]
	for _, c := range l.chunks {
		for _, ctx := range c.Contexts() {
			if ctx.Dropped() {
				dropped = append(dropped, ctx)
			}
		}
	}
	return dropped
}

// CoveredVolume returns the summed volume of all placed chunks. Chunks
// never overlap, so this is exact.
func (l *Level[V]) CoveredVolume() float64 {
	total := 0.0
	for _, c := range l.chunks {
		total += c.Extents().Volume()
	}
	return total
}
