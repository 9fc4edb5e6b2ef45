package chunk

import (
	"fmt"
	"math/rand"

	"github.com/chunkstitch/chunkstitch/pkg/geom"
)

// Library owns a set of templates and performs weighted random selection
// over them. Templates are sealed on insertion; the library never mutates
// them afterwards.
type Library[V geom.Vector[V]] struct {
	templates   []*Template[V]
	totalWeight int
}

// NewLibrary creates an empty library.
func NewLibrary[V geom.Vector[V]]() *Library[V] {
	return &Library[V]{}
}

// Add validates, seals, and appends a template.
func (l *Library[V]) Add(t *Template[V]) error {
	if t == nil {
		return fmt.Errorf("%w: nil template", ErrInvalidTemplate)
	}
	if t.weight <= 0 {
		return fmt.Errorf("%w: weight must be positive, got %d", ErrInvalidTemplate, t.weight)
	}
	if !t.extents.AllPositive() {
		return fmt.Errorf("%w: extents must be positive componentwise, got %v", ErrInvalidTemplate, t.extents)
	}
	t.seal()
	l.templates = append(l.templates, t)
	l.totalWeight += t.weight
	return nil
}

// Templates returns the templates in insertion order.
func (l *Library[V]) Templates() []*Template[V] { return l.templates }

// Len returns the number of templates.
func (l *Library[V]) Len() int { return len(l.templates) }

// TotalWeight returns the summed selection weight of all templates.
func (l *Library[V]) TotalWeight() int { return l.totalWeight }

// Filter restricts the candidate set of a selection.
type Filter[V geom.Vector[V]] func(*Template[V]) bool

// WithTag keeps templates whose category tag equals tag.
func WithTag[V geom.Vector[V]](tag string) Filter[V] {
	return func(t *Template[V]) bool { return t.tag == tag }
}

// WithAnchorFor keeps templates exposing at least one anchor whose tag is
// compatible with the given context tag.
func WithAnchorFor[V geom.Vector[V]](ctxTag string) Filter[V] {
	return func(t *Template[V]) bool {
		for _, a := range t.anchors {
			if TagsCompatible(a.Tag, ctxTag) {
				return true
			}
		}
		return false
	}
}

// SelectRandom draws a template with probability proportional to its
// weight, restricted to templates passing every filter. The draw walks the
// ordered list accumulating weight and returns the first template whose
// cumulative weight exceeds a uniform pick in [0, total), so ties break in
// insertion order. Returns ErrNoMatchingTemplate when the candidate set is
// empty.
func (l *Library[V]) SelectRandom(rng *rand.Rand, filters ...Filter[V]) (*Template[V], error) {
	total := 0
	for _, t := range l.templates {
		if matches(t, filters) {
			total += t.weight
		}
	}
	if total <= 0 {
		return nil, ErrNoMatchingTemplate
	}
	r := rng.Intn(total)
	acc := 0
	for _, t := range l.templates {
		if !matches(t, filters) {
			continue
		}
		acc += t.weight
		if acc > r {
			return t, nil
		}
	}
	// Unreachable: acc reaches total and total > r.
	return nil, ErrNoMatchingTemplate
}

// SelectByTag is the tag-equality convenience draw.
func (l *Library[V]) SelectByTag(rng *rand.Rand, tag string) (*Template[V], error) {
	return l.SelectRandom(rng, WithTag[V](tag))
}

func matches[V geom.Vector[V]](t *Template[V], filters []Filter[V]) bool {
	for _, f := range filters {
		if !f(t) {
			return false
		}
	}
	return true
}
