// Package geom provides the geometric primitives the generation engine is
// written against: fixed-dimension vectors, axis-aligned bounds, and
// quarter-turn rotation. The engine itself is generic over the Vector
// capability, so 2D and 3D levels share one implementation and mixing
// dimensionalities is a compile-time error.
package geom

import "math"

// Epsilon is the tolerance used for position comparisons. Placement
// arithmetic is all sums and differences of authored coordinates, so
// anything below this is floating-point noise.
const Epsilon = 1e-9

// Vector is the capability a coordinate type must provide to the engine.
// Rotate applies quarter turns counter-clockwise about the up axis; in 3D
// the Z component passes through unchanged.
type Vector[V any] interface {
	Add(V) V
	Sub(V) V
	Scale(float64) V
	Abs() V
	Rotate(quarters int) V
	Dist(V) float64

	// AllLess and AllLessEq report componentwise ordering against the
	// argument, strict and non-strict respectively.
	AllLess(V) bool
	AllLessEq(V) bool
	AllPositive() bool

	// Volume is the product of the components (area in 2D).
	Volume() float64

	// Components returns the coordinates in axis order. Used by loaders
	// and exporters; the generation loop never calls it.
	Components() []float64
}

// ApproxEqual reports whether two positions coincide within Epsilon.
func ApproxEqual[V Vector[V]](a, b V) bool {
	return a.Dist(b) < Epsilon
}

// quarters normalizes a quarter-turn count into [0,3].
func quarters(q int) int {
	return ((q % 4) + 4) % 4
}

// Vec2 is a 2D vector. It implements Vector[Vec2].
type Vec2 struct {
	X, Y float64
}

// V2 builds a Vec2.
func V2(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Abs() Vec2            { return Vec2{math.Abs(v.X), math.Abs(v.Y)} }

// Rotate applies quarter CCW turns about the origin.
func (v Vec2) Rotate(q int) Vec2 {
	switch quarters(q) {
	case 1:
		return Vec2{-v.Y, v.X}
	case 2:
		return Vec2{-v.X, -v.Y}
	case 3:
		return Vec2{v.Y, -v.X}
	default:
		return v
	}
}

func (v Vec2) Dist(o Vec2) float64 {
	dx, dy := v.X-o.X, v.Y-o.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func (v Vec2) AllLess(o Vec2) bool   { return v.X < o.X && v.Y < o.Y }
func (v Vec2) AllLessEq(o Vec2) bool { return v.X <= o.X && v.Y <= o.Y }
func (v Vec2) AllPositive() bool     { return v.X > 0 && v.Y > 0 }
func (v Vec2) Volume() float64       { return v.X * v.Y }
func (v Vec2) Components() []float64 { return []float64{v.X, v.Y} }

// Vec3 is a 3D vector. It implements Vector[Vec3]. Rotation is yaw only:
// the four axis-aligned orientations a chunk may take.
type Vec3 struct {
	X, Y, Z float64
}

// V3 builds a Vec3.
func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(f float64) Vec3 { return Vec3{v.X * f, v.Y * f, v.Z * f} }
func (v Vec3) Abs() Vec3            { return Vec3{math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)} }

// Rotate applies quarter CCW turns about the Z (up) axis.
func (v Vec3) Rotate(q int) Vec3 {
	switch quarters(q) {
	case 1:
		return Vec3{-v.Y, v.X, v.Z}
	case 2:
		return Vec3{-v.X, -v.Y, v.Z}
	case 3:
		return Vec3{v.Y, -v.X, v.Z}
	default:
		return v
	}
}

func (v Vec3) Dist(o Vec3) float64 {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (v Vec3) AllLess(o Vec3) bool   { return v.X < o.X && v.Y < o.Y && v.Z < o.Z }
func (v Vec3) AllLessEq(o Vec3) bool { return v.X <= o.X && v.Y <= o.Y && v.Z <= o.Z }
func (v Vec3) AllPositive() bool     { return v.X > 0 && v.Y > 0 && v.Z > 0 }
func (v Vec3) Volume() float64       { return v.X * v.Y * v.Z }
func (v Vec3) Components() []float64 { return []float64{v.X, v.Y, v.Z} }
