// Package chunk defines the blueprint and instance types the generation
// engine stitches together: templates with their anchors and contexts, the
// placed chunks instantiated from them, and the weighted template library.
package chunk

import (
	"fmt"

	"github.com/chunkstitch/chunkstitch/pkg/geom"
)

// Anchor is a candidate attachment socket on a not-yet-placed chunk. It is
// matched against an open context during placement and consumed in the
// process; placed chunks do not retain anchors.
type Anchor[V geom.Vector[V]] struct {
	Index int
	Tag   string
	Rel   V // offset from the chunk origin, template space
}

// Socket is a context blueprint on a template. Placed chunks instantiate
// one Context per Socket, with the same index.
type Socket[V geom.Vector[V]] struct {
	Index int
	Tag   string
	Rel   V
}

// Template is the immutable blueprint for chunks: extents, selection
// weight, category tag, rotation permission, and the ordered anchor and
// context definitions. Adding a template to a Library seals it; mutation
// after that is an error.
type Template[V geom.Vector[V]] struct {
	extents       V
	weight        int
	tag           string
	allowRotation bool
	anchors       []Anchor[V]
	sockets       []Socket[V]
	sealed        bool
}

// NewTemplate validates and builds a template. Weight must be positive and
// every extent component must be greater than zero.
func NewTemplate[V geom.Vector[V]](extents V, weight int, tag string, allowRotation bool) (*Template[V], error) {
	if weight <= 0 {
		return nil, fmt.Errorf("%w: weight must be positive, got %d", ErrInvalidTemplate, weight)
	}
	if !extents.AllPositive() {
		return nil, fmt.Errorf("%w: extents must be positive componentwise, got %v", ErrInvalidTemplate, extents)
	}
	return &Template[V]{
		extents:       extents,
		weight:        weight,
		tag:           tag,
		allowRotation: allowRotation,
	}, nil
}

// AddAnchor appends an anchor definition. The anchor receives the next
// template-scoped index; indices are assigned once, in insertion order.
func (t *Template[V]) AddAnchor(rel V, tag string) error {
	if t.sealed {
		return ErrTemplateSealed
	}
	t.anchors = append(t.anchors, Anchor[V]{Index: len(t.anchors), Tag: tag, Rel: rel})
	return nil
}

// AddContext appends a context definition, indexed in insertion order.
func (t *Template[V]) AddContext(rel V, tag string) error {
	if t.sealed {
		return ErrTemplateSealed
	}
	t.sockets = append(t.sockets, Socket[V]{Index: len(t.sockets), Tag: tag, Rel: rel})
	return nil
}

func (t *Template[V]) Extents() V          { return t.extents }
func (t *Template[V]) Weight() int         { return t.weight }
func (t *Template[V]) Tag() string         { return t.tag }
func (t *Template[V]) AllowRotation() bool { return t.allowRotation }

// Anchors returns the anchor definitions in index order.
func (t *Template[V]) Anchors() []Anchor[V] { return t.anchors }

// Sockets returns the context definitions in index order.
func (t *Template[V]) Sockets() []Socket[V] { return t.sockets }

// seal freezes the template. Called by Library.Add; the library is the one
// authority over template lifecycle.
func (t *Template[V]) seal() { t.sealed = true }

// RotatedExtents returns the extents after the given quarter-turn rotation.
func (t *Template[V]) RotatedExtents(rot int) V {
	return t.extents.Rotate(rot).Abs()
}

// localPos maps a template-space offset into chunk-local space under the
// given rotation, re-anchored so the bounding-box minimum corner stays at
// the chunk origin.
func (t *Template[V]) localPos(rel V, rot int) V {
	re := t.extents.Rotate(rot)
	// Offset is |re|-re halved: zero on axes left positive by the
	// rotation, the full extent on axes flipped negative.
	offset := re.Abs().Sub(re).Scale(0.5)
	return rel.Rotate(rot).Add(offset)
}

// AnchorPosition returns the chunk-local position of an anchor under the
// given rotation. The generator subtracts this from a target context's
// absolute position to obtain the candidate chunk origin.
func (t *Template[V]) AnchorPosition(a Anchor[V], rot int) V {
	return t.localPos(a.Rel, rot)
}

// Instantiate places the template at an absolute position with the given
// quarter-turn rotation, creating the chunk and one open Context per
// socket.
func (t *Template[V]) Instantiate(pos V, rot int) (*Chunk[V], error) {
	rot = ((rot % 4) + 4) % 4
	if rot != 0 && !t.allowRotation {
		return nil, ErrRotationNotAllowed
	}
	c := &Chunk[V]{
		template: t,
		pos:      pos,
		rot:      rot,
		extents:  t.RotatedExtents(rot),
	}
	c.contexts = make([]*Context[V], len(t.sockets))
	for i, s := range t.sockets {
		c.contexts[i] = &Context[V]{
			owner: c,
			index: s.Index,
			tag:   s.Tag,
			rel:   t.localPos(s.Rel, rot),
		}
	}
	return c, nil
}

// TagsCompatible reports whether two socket tags may be joined. The empty
// tag is a wildcard: it matches anything.
func TagsCompatible(a, b string) bool {
	return a == "" || b == "" || a == b
}
