package geom

import "testing"

func TestOverlaps(t *testing.T) {
	a := BoundsAt(V2(0, 0), V2(10, 10))

	cases := []struct {
		name string
		b    Bounds[Vec2]
		want bool
	}{
		{"identical", BoundsAt(V2(0, 0), V2(10, 10)), true},
		{"partial", BoundsAt(V2(5, 5), V2(10, 10)), true},
		{"touching east face", BoundsAt(V2(10, 0), V2(10, 10)), false},
		{"touching corner", BoundsAt(V2(10, 10), V2(5, 5)), false},
		{"disjoint", BoundsAt(V2(20, 20), V2(5, 5)), false},
		{"contained", BoundsAt(V2(2, 2), V2(3, 3)), true},
	}
	for _, c := range cases {
		if got := a.Overlaps(c.b); got != c.want {
			t.Errorf("%s: Overlaps = %v, want %v", c.name, got, c.want)
		}
		// Overlap is symmetric.
		if got := c.b.Overlaps(a); got != c.want {
			t.Errorf("%s: reverse Overlaps = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestContains(t *testing.T) {
	outer := BoundsAt(V2(0, 0), V2(10, 10))

	if !outer.Contains(BoundsAt(V2(2, 2), V2(3, 3))) {
		t.Error("interior box should be contained")
	}
	if !outer.Contains(BoundsAt(V2(0, 0), V2(10, 10))) {
		t.Error("identical box should be contained")
	}
	if outer.Contains(BoundsAt(V2(8, 8), V2(5, 5))) {
		t.Error("box crossing the max corner should not be contained")
	}
	if outer.Contains(BoundsAt(V2(-1, 0), V2(5, 5))) {
		t.Error("box crossing the min corner should not be contained")
	}
}

func TestBoundsDerived(t *testing.T) {
	b := BoundsAt(V2(2, 4), V2(6, 8))
	if got := b.Extents(); got != V2(6, 8) {
		t.Errorf("Extents = %v, want (6,8)", got)
	}
	if got := b.Center(); got != V2(5, 8) {
		t.Errorf("Center = %v, want (5,8)", got)
	}
	if got := b.Volume(); got != 48 {
		t.Errorf("Volume = %v, want 48", got)
	}
}

func TestBounds3D(t *testing.T) {
	a := BoundsAt(V3(0, 0, 0), V3(4, 4, 4))
	stacked := BoundsAt(V3(0, 0, 4), V3(4, 4, 4))
	if a.Overlaps(stacked) {
		t.Error("boxes stacked face to face should not overlap")
	}
	if !a.Overlaps(BoundsAt(V3(0, 0, 3), V3(4, 4, 4))) {
		t.Error("boxes interpenetrating on Z should overlap")
	}
}
