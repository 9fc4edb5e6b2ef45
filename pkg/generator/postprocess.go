package generator

import (
	"fmt"
	"log/slog"

	"github.com/chunkstitch/chunkstitch/pkg/chunk"
	"github.com/chunkstitch/chunkstitch/pkg/geom"
	"github.com/chunkstitch/chunkstitch/pkg/level"
)

// PostProcessingPolicy refines a finished level. Policies run in
// configuration order after the placement loop; they may move context
// relative positions and log, but never add or remove chunks.
type PostProcessingPolicy[V geom.Vector[V]] interface {
	Process(cfg Config[V], lvl *level.Level[V])
}

// AlignmentRestriction vetoes an otherwise geometrically valid alignment
// between two contexts.
type AlignmentRestriction[V geom.Vector[V]] interface {
	CanAlign(a, b *chunk.Context[V], lvl *level.Level[V]) bool
}

// RestrictionFunc adapts a predicate into an AlignmentRestriction.
type RestrictionFunc[V geom.Vector[V]] func(a, b *chunk.Context[V], lvl *level.Level[V]) bool

func (f RestrictionFunc[V]) CanAlign(a, b *chunk.Context[V], lvl *level.Level[V]) bool {
	return f(a, b, lvl)
}

// DisallowSameChunk vetoes aligning two contexts on the same chunk.
func DisallowSameChunk[V geom.Vector[V]]() AlignmentRestriction[V] {
	return RestrictionFunc[V](func(a, b *chunk.Context[V], _ *level.Level[V]) bool {
		return a.Owner() != b.Owner()
	})
}

// DisallowSameChunkTag vetoes aligning contexts whose owning chunks share
// a category tag.
func DisallowSameChunkTag[V geom.Vector[V]]() AlignmentRestriction[V] {
	return RestrictionFunc[V](func(a, b *chunk.Context[V], _ *level.Level[V]) bool {
		return a.Owner().Tag() != b.Owner().Tag()
	})
}

// AlignAdjacentContexts snaps open contexts that ended up within Offset of
// each other onto the same point, so near-miss doorways meet exactly. For
// every unordered pair of distinct open contexts within Offset (Euclidean)
// that passes every configured restriction, the later context's absolute
// position is moved onto the earlier's by adjusting its stored relative
// position. Pairs are visited in open-context list order and each context
// is aligned at most once per pass.
type AlignAdjacentContexts[V geom.Vector[V]] struct {
	Offset float64
}

func (p AlignAdjacentContexts[V]) Process(cfg Config[V], lvl *level.Level[V]) {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	open := lvl.OpenContexts()
	aligned := make(map[*chunk.Context[V]]bool, len(open))
	for i, a := range open {
		if aligned[a] {
			continue
		}
		for _, b := range open[i+1:] {
			if aligned[b] {
				continue
			}
			if a.AbsolutePos().Dist(b.AbsolutePos()) > p.Offset {
				continue
			}
			if vetoed(cfg.Restrictions, a, b, lvl) {
				continue
			}
			b.SetRelativePos(a.AbsolutePos().Sub(b.Owner().Pos()))
			aligned[a], aligned[b] = true, true
			log.Debug("aligned contexts",
				"from", fmt.Sprint(b.Owner().Tag(), "/", b.Index()),
				"onto", fmt.Sprint(a.Owner().Tag(), "/", a.Index()),
				"pos", fmt.Sprint(a.AbsolutePos()))
			break
		}
	}
}

func vetoed[V geom.Vector[V]](restrictions []AlignmentRestriction[V], a, b *chunk.Context[V], lvl *level.Level[V]) bool {
	for _, r := range restrictions {
		if !r.CanAlign(a, b, lvl) {
			return true
		}
	}
	return false
}
