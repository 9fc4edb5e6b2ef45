package chunk

import "github.com/chunkstitch/chunkstitch/pkg/geom"

// Chunk is a placed instance of a Template: an absolute origin position, a
// quarter-turn rotation, and one Context per template socket. Anchors are
// consumed during placement and not retained.
type Chunk[V geom.Vector[V]] struct {
	template *Template[V]
	pos      V
	rot      int
	extents  V // rotated
	contexts []*Context[V]
}

func (c *Chunk[V]) Template() *Template[V] { return c.template }
func (c *Chunk[V]) Pos() V                 { return c.pos }
func (c *Chunk[V]) Rotation() int          { return c.rot }
func (c *Chunk[V]) Extents() V             { return c.extents }
func (c *Chunk[V]) Tag() string            { return c.template.tag }

// Bounds returns the chunk's axis-aligned bounding box.
func (c *Chunk[V]) Bounds() geom.Bounds[V] {
	return geom.BoundsAt(c.pos, c.extents)
}

// Contexts returns the chunk's contexts in index order.
func (c *Chunk[V]) Contexts() []*Context[V] { return c.contexts }

// Context returns the context with the given index, or nil.
func (c *Chunk[V]) Context(index int) *Context[V] {
	if index < 0 || index >= len(c.contexts) {
		return nil
	}
	return c.contexts[index]
}

type contextState int8

const (
	stateOpen contextState = iota
	stateFilled
	stateDropped
)

// Context is an attachment socket on a placed chunk. It is open until an
// anchor is attached through it (filled, with a back-reference to the
// context it joined) or until the generator gives up on it (dropped).
// Neither transition ever reverts.
type Context[V geom.Vector[V]] struct {
	owner  *Chunk[V]
	index  int
	tag    string
	rel    V // chunk-local, already rotated; mutable by alignment policies
	target *Context[V]
	state  contextState
}

func (c *Context[V]) Owner() *Chunk[V] { return c.owner }
func (c *Context[V]) Index() int       { return c.index }
func (c *Context[V]) Tag() string      { return c.tag }

// RelativePos returns the context's offset from its owning chunk's origin.
func (c *Context[V]) RelativePos() V { return c.rel }

// SetRelativePos moves the context relative to its owning chunk. Alignment
// policies use this to snap near-adjacent contexts together; it never moves
// the chunk itself.
func (c *Context[V]) SetRelativePos(rel V) { c.rel = rel }

// AbsolutePos returns the context's position in level space.
func (c *Context[V]) AbsolutePos() V {
	return c.owner.pos.Add(c.rel)
}

func (c *Context[V]) Open() bool    { return c.state == stateOpen }
func (c *Context[V]) Filled() bool  { return c.state == stateFilled }
func (c *Context[V]) Dropped() bool { return c.state == stateDropped }

// Target returns the context this one was joined to, or nil.
func (c *Context[V]) Target() *Context[V] { return c.target }

// Fill closes the context. When partner is non-nil the two contexts are
// cross-referenced, so every pairing is mutual; both must still be open.
func (c *Context[V]) Fill(partner *Context[V]) error {
	if !c.Open() {
		return ErrContextClosed
	}
	if partner != nil && !partner.Open() {
		return ErrContextClosed
	}
	c.state = stateFilled
	c.target = partner
	if partner != nil {
		partner.state = stateFilled
		partner.target = c
	}
	return nil
}

// Drop marks the context permanently unfulfilled, removing it from the
// open set without filling it. A no-op on contexts already closed.
func (c *Context[V]) Drop() {
	if c.Open() {
		c.state = stateDropped
	}
}
