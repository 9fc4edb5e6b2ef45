// Package generator drives level assembly: it repeatedly draws weighted
// templates from a chunk library and attaches them to open contexts until
// a termination condition is met or no open context remains, then runs the
// configured post-processing policies over the finished level.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/chunkstitch/chunkstitch/pkg/chunk"
	"github.com/chunkstitch/chunkstitch/pkg/geom"
	"github.com/chunkstitch/chunkstitch/pkg/level"
)

// DefaultAttemptBudget is the number of template draws tried per open
// context before it is dropped as unsatisfiable.
const DefaultAttemptBudget = 24

var (
	// ErrEmptyLibrary is returned when generation starts with no
	// templates to draw from.
	ErrEmptyLibrary = errors.New("generator: library has no templates")

	// ErrNoTermination is returned when no termination condition is
	// configured.
	ErrNoTermination = errors.New("generator: termination condition is required")

	// ErrSeedPlacement is returned when no template fits the empty
	// level within the attempt budget.
	ErrSeedPlacement = errors.New("generator: could not place initial chunk")
)

// Config carries everything a generation run needs. The random source is
// always run-local: the same library, extents, termination condition and
// seed reproduce the same level, chunk for chunk.
type Config[V geom.Vector[V]] struct {
	Library       *chunk.Library[V]
	TargetExtents V

	// Seed seeds the run's random source. Ignored when RNG is set.
	Seed int64
	RNG  *rand.Rand

	Termination  TerminationCondition[V]
	Policies     []PostProcessingPolicy[V]
	Restrictions []AlignmentRestriction[V]

	// AttemptBudget is the number of template draws per open context;
	// zero means DefaultAttemptBudget.
	AttemptBudget int

	// SeedTag, when set, restricts the initial chunk to templates with
	// this category tag.
	SeedTag string

	// Logger receives per-placement debug output and a run summary.
	// Nil discards.
	Logger *slog.Logger
}

// Generate runs the placement loop to completion and returns the built
// level. Unsatisfiable contexts are soft failures: they are dropped from
// the open set and generation continues. The context is checked once per
// iteration; on cancellation the partial level is returned alongside the
// context's error.
func Generate[V geom.Vector[V]](ctx context.Context, cfg Config[V]) (*level.Level[V], error) {
	if cfg.Library == nil || cfg.Library.Len() == 0 {
		return nil, ErrEmptyLibrary
	}
	if cfg.Termination == nil {
		return nil, ErrNoTermination
	}
	budget := cfg.AttemptBudget
	if budget <= 0 {
		budget = DefaultAttemptBudget
	}
	rng := cfg.RNG
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	lvl, err := level.New(cfg.TargetExtents)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	dropped := 0

	if !cfg.Termination.IsMet(lvl) {
		if err := placeSeed(lvl, cfg, rng, budget, log); err != nil {
			return nil, err
		}
		for {
			select {
			case <-ctx.Done():
				return lvl, ctx.Err()
			default:
			}
			if cfg.Termination.IsMet(lvl) {
				break
			}
			open := lvl.OpenContexts()
			if len(open) == 0 {
				break
			}
			pending := open[0]
			if !attach(lvl, cfg, rng, budget, pending, log) {
				pending.Drop()
				dropped++
				log.Debug("context dropped",
					"chunk_tag", pending.Owner().Tag(),
					"context", pending.Index(),
					"pos", fmt.Sprint(pending.AbsolutePos()))
			}
		}
	}

	for _, p := range cfg.Policies {
		p.Process(cfg, lvl)
	}

	log.Info("generation complete",
		"chunks", lvl.ChunkCount(),
		"open_contexts", len(lvl.OpenContexts()),
		"dropped_contexts", dropped,
		"elapsed", time.Since(start))
	return lvl, nil
}

// placeSeed puts the first chunk into the empty level, centered in the
// target extents. Without it the loop would stop immediately: an empty
// level has no open contexts.
func placeSeed[V geom.Vector[V]](lvl *level.Level[V], cfg Config[V], rng *rand.Rand, budget int, log *slog.Logger) error {
	var filters []chunk.Filter[V]
	if cfg.SeedTag != "" {
		filters = append(filters, chunk.WithTag[V](cfg.SeedTag))
	}
	for attempt := 0; attempt < budget; attempt++ {
		t, err := cfg.Library.SelectRandom(rng, filters...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSeedPlacement, err)
		}
		pos := cfg.TargetExtents.Sub(t.Extents()).Scale(0.5)
		b := geom.BoundsAt(pos, t.Extents())
		if !lvl.Fits(b) {
			continue
		}
		c, err := t.Instantiate(pos, 0)
		if err != nil {
			return err
		}
		if err := lvl.AddChunk(c); err != nil {
			return err
		}
		log.Debug("placed seed chunk", "tag", c.Tag(), "pos", fmt.Sprint(pos))
		return nil
	}
	return ErrSeedPlacement
}

// attach tries up to budget template draws against one open context,
// enumerating every compatible anchor and permitted rotation per draw, and
// places the first candidate that fits. Reports whether a chunk was
// placed; the target context (and the new chunk's co-located context, when
// the template defines one) is filled on success.
func attach[V geom.Vector[V]](lvl *level.Level[V], cfg Config[V], rng *rand.Rand, budget int, target *chunk.Context[V], log *slog.Logger) bool {
	targetPos := target.AbsolutePos()
	for attempt := 0; attempt < budget; attempt++ {
		t, err := cfg.Library.SelectRandom(rng, chunk.WithAnchorFor[V](target.Tag()))
		if err != nil {
			// No template in the whole library exposes a compatible
			// anchor; retrying cannot help.
			return false
		}
		for _, a := range t.Anchors() {
			if !chunk.TagsCompatible(a.Tag, target.Tag()) {
				continue
			}
			for _, rot := range rotations(t) {
				pos := targetPos.Sub(t.AnchorPosition(a, rot))
				b := geom.BoundsAt(pos, t.RotatedExtents(rot))
				if !lvl.Fits(b) {
					continue
				}
				c, err := t.Instantiate(pos, rot)
				if err != nil {
					continue
				}
				if err := lvl.AddChunk(c); err != nil {
					continue
				}
				if err := target.Fill(counterpart(c, t, a)); err != nil {
					// The target was open when chosen; nothing
					// closes it concurrently.
					return true
				}
				log.Debug("placed chunk",
					"tag", c.Tag(),
					"pos", fmt.Sprint(pos),
					"rotation", rot,
					"attempt", attempt)
				return true
			}
		}
	}
	return false
}

// rotations returns the orientations to try, in a fixed deterministic
// order: identity only unless the template allows rotation, in which case
// all four quarter turns.
func rotations[V geom.Vector[V]](t *chunk.Template[V]) []int {
	if t.AllowRotation() {
		return []int{0, 1, 2, 3}
	}
	return []int{0}
}

// counterpart finds the new chunk's context co-located with the consumed
// anchor, if the template defines one; joining through it makes the
// pairing mutual. Templates without a context at an anchor position close
// only the target side.
func counterpart[V geom.Vector[V]](c *chunk.Chunk[V], t *chunk.Template[V], a chunk.Anchor[V]) *chunk.Context[V] {
	for _, s := range t.Sockets() {
		if geom.ApproxEqual(s.Rel, a.Rel) && chunk.TagsCompatible(s.Tag, a.Tag) {
			return c.Context(s.Index)
		}
	}
	return nil
}
