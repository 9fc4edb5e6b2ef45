package generator

import (
	"github.com/chunkstitch/chunkstitch/pkg/geom"
	"github.com/chunkstitch/chunkstitch/pkg/level"
)

// TerminationCondition decides when the placement loop stops. It is
// evaluated against the level before every iteration, including before the
// initial chunk is placed.
type TerminationCondition[V geom.Vector[V]] interface {
	IsMet(*level.Level[V]) bool
}

// TerminationFunc adapts a plain predicate into a TerminationCondition.
type TerminationFunc[V geom.Vector[V]] func(*level.Level[V]) bool

func (f TerminationFunc[V]) IsMet(l *level.Level[V]) bool { return f(l) }

// MaxChunkCount stops generation once n chunks are placed. The level never
// grows past n even when open contexts remain.
func MaxChunkCount[V geom.Vector[V]](n int) TerminationCondition[V] {
	return TerminationFunc[V](func(l *level.Level[V]) bool {
		return l.ChunkCount() >= n
	})
}

// CoverageFraction stops generation once the placed chunks cover at least
// the given fraction of the level's volume.
func CoverageFraction[V geom.Vector[V]](fraction float64) TerminationCondition[V] {
	return TerminationFunc[V](func(l *level.Level[V]) bool {
		return l.CoveredVolume() >= fraction*l.Bounds().Volume()
	})
}
