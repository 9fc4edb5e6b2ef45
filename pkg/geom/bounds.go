package geom

// Bounds is an axis-aligned bounding box with inclusive Min and exclusive
// Max in the overlap sense: two boxes sharing a face do not overlap.
type Bounds[V Vector[V]] struct {
	Min, Max V
}

// BoundsAt builds the bounds of a box with its minimum corner at pos.
func BoundsAt[V Vector[V]](pos, extents V) Bounds[V] {
	return Bounds[V]{Min: pos, Max: pos.Add(extents)}
}

// Extents returns the per-axis size of the bounds.
func (b Bounds[V]) Extents() V {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the bounds.
func (b Bounds[V]) Center() V {
	return b.Min.Add(b.Max.Sub(b.Min).Scale(0.5))
}

// Overlaps reports whether the interiors of the two boxes intersect.
// Touching faces or edges are not overlap.
func (b Bounds[V]) Overlaps(o Bounds[V]) bool {
	return b.Min.AllLess(o.Max) && o.Min.AllLess(b.Max)
}

// Contains reports whether o lies entirely within b. A box touching the
// boundary from the inside is contained.
func (b Bounds[V]) Contains(o Bounds[V]) bool {
	return b.Min.AllLessEq(o.Min) && o.Max.AllLessEq(b.Max)
}

// ContainsPoint reports whether p lies within b, boundary included.
func (b Bounds[V]) ContainsPoint(p V) bool {
	return b.Min.AllLessEq(p) && p.AllLessEq(b.Max)
}

// Volume returns the enclosed volume (area in 2D).
func (b Bounds[V]) Volume() float64 {
	return b.Extents().Volume()
}
