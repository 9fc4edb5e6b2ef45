package chunk

import (
	"errors"
	"testing"

	"github.com/chunkstitch/chunkstitch/pkg/geom"
)

func TestNewTemplateValidation(t *testing.T) {
	if _, err := NewTemplate(geom.V2(10, 10), 0, "room", false); !errors.Is(err, ErrInvalidTemplate) {
		t.Errorf("zero weight: err = %v, want ErrInvalidTemplate", err)
	}
	if _, err := NewTemplate(geom.V2(10, 10), -3, "room", false); !errors.Is(err, ErrInvalidTemplate) {
		t.Errorf("negative weight: err = %v, want ErrInvalidTemplate", err)
	}
	if _, err := NewTemplate(geom.V2(10, 0), 1, "room", false); !errors.Is(err, ErrInvalidTemplate) {
		t.Errorf("zero extent: err = %v, want ErrInvalidTemplate", err)
	}
	if _, err := NewTemplate(geom.V2(-5, 10), 1, "room", false); !errors.Is(err, ErrInvalidTemplate) {
		t.Errorf("negative extent: err = %v, want ErrInvalidTemplate", err)
	}
	tmpl, err := NewTemplate(geom.V2(10, 10), 2, "room", true)
	if err != nil {
		t.Fatalf("valid template: err = %v", err)
	}
	if tmpl.Weight() != 2 || tmpl.Tag() != "room" || !tmpl.AllowRotation() {
		t.Errorf("template fields = (%d, %q, %v), want (2, room, true)", tmpl.Weight(), tmpl.Tag(), tmpl.AllowRotation())
	}
}

func TestIndexAssignment(t *testing.T) {
	tmpl, err := NewTemplate(geom.V2(10, 10), 1, "", false)
	if err != nil {
		t.Fatal(err)
	}
	if err := tmpl.AddAnchor(geom.V2(0, 5), "door"); err != nil {
		t.Fatal(err)
	}
	if err := tmpl.AddAnchor(geom.V2(10, 5), "door"); err != nil {
		t.Fatal(err)
	}
	if err := tmpl.AddContext(geom.V2(5, 0), "hatch"); err != nil {
		t.Fatal(err)
	}
	if err := tmpl.AddContext(geom.V2(5, 10), "hatch"); err != nil {
		t.Fatal(err)
	}

	for i, a := range tmpl.Anchors() {
		if a.Index != i {
			t.Errorf("anchor %d has index %d", i, a.Index)
		}
	}
	for i, s := range tmpl.Sockets() {
		if s.Index != i {
			t.Errorf("socket %d has index %d", i, s.Index)
		}
	}
}

func TestSealing(t *testing.T) {
	tmpl, _ := NewTemplate(geom.V2(10, 10), 1, "", false)
	lib := NewLibrary[geom.Vec2]()
	if err := lib.Add(tmpl); err != nil {
		t.Fatal(err)
	}
	if err := tmpl.AddAnchor(geom.V2(0, 5), ""); !errors.Is(err, ErrTemplateSealed) {
		t.Errorf("AddAnchor after seal: err = %v, want ErrTemplateSealed", err)
	}
	if err := tmpl.AddContext(geom.V2(0, 5), ""); !errors.Is(err, ErrTemplateSealed) {
		t.Errorf("AddContext after seal: err = %v, want ErrTemplateSealed", err)
	}
}

func TestRotatedExtents(t *testing.T) {
	tmpl, _ := NewTemplate(geom.V2(4, 2), 1, "", true)
	cases := []struct {
		rot  int
		want geom.Vec2
	}{
		{0, geom.V2(4, 2)},
		{1, geom.V2(2, 4)},
		{2, geom.V2(4, 2)},
		{3, geom.V2(2, 4)},
	}
	for _, c := range cases {
		if got := tmpl.RotatedExtents(c.rot); got != c.want {
			t.Errorf("RotatedExtents(%d) = %v, want %v", c.rot, got, c.want)
		}
	}
}

func TestInstantiateRotation(t *testing.T) {
	// A 4x2 template with its anchor on the east face midpoint. Rotation
	// keeps chunk-local coordinates within the rotated extents.
	tmpl, _ := NewTemplate(geom.V2(4, 2), 1, "", true)
	if err := tmpl.AddContext(geom.V2(4, 1), "door"); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		rot  int
		want geom.Vec2 // context position relative to chunk origin
	}{
		{0, geom.V2(4, 1)}, // east midpoint
		{1, geom.V2(1, 4)}, // north midpoint of the 2x4 box
		{2, geom.V2(0, 1)}, // west midpoint
		{3, geom.V2(1, 0)}, // south midpoint
	}
	for _, c := range cases {
		placed, err := tmpl.Instantiate(geom.V2(10, 10), c.rot)
		if err != nil {
			t.Fatalf("Instantiate(rot=%d): %v", c.rot, err)
		}
		got := placed.Context(0).RelativePos()
		if !geom.ApproxEqual(got, c.want) {
			t.Errorf("rot %d: context rel = %v, want %v", c.rot, got, c.want)
		}
		abs := placed.Context(0).AbsolutePos()
		if !geom.ApproxEqual(abs, geom.V2(10, 10).Add(c.want)) {
			t.Errorf("rot %d: context abs = %v, want %v", c.rot, abs, geom.V2(10, 10).Add(c.want))
		}
	}
}

func TestInstantiateRotationForbidden(t *testing.T) {
	tmpl, _ := NewTemplate(geom.V2(4, 2), 1, "", false)
	if _, err := tmpl.Instantiate(geom.V2(0, 0), 1); !errors.Is(err, ErrRotationNotAllowed) {
		t.Errorf("err = %v, want ErrRotationNotAllowed", err)
	}
	if _, err := tmpl.Instantiate(geom.V2(0, 0), 0); err != nil {
		t.Errorf("unrotated instantiation: err = %v", err)
	}
}

func TestAnchorPositionMatchesContext(t *testing.T) {
	// An anchor and a context defined at the same spot must land on the
	// same chunk-local position under every rotation; placement relies
	// on this to compute mutual joints.
	tmpl, _ := NewTemplate(geom.V2(6, 4), 1, "", true)
	if err := tmpl.AddAnchor(geom.V2(0, 2), "door"); err != nil {
		t.Fatal(err)
	}
	if err := tmpl.AddContext(geom.V2(0, 2), "door"); err != nil {
		t.Fatal(err)
	}
	a := tmpl.Anchors()[0]
	for rot := 0; rot < 4; rot++ {
		placed, err := tmpl.Instantiate(geom.V2(0, 0), rot)
		if err != nil {
			t.Fatal(err)
		}
		if got, want := tmpl.AnchorPosition(a, rot), placed.Context(0).RelativePos(); !geom.ApproxEqual(got, want) {
			t.Errorf("rot %d: anchor pos %v != context pos %v", rot, got, want)
		}
	}
}

func TestTagsCompatible(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"", "", true},
		{"", "door", true},
		{"door", "", true},
		{"door", "door", true},
		{"door", "hatch", false},
	}
	for _, c := range cases {
		if got := TagsCompatible(c.a, c.b); got != c.want {
			t.Errorf("TagsCompatible(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestContextLifecycle(t *testing.T) {
	tmpl, _ := NewTemplate(geom.V2(4, 4), 1, "", false)
	tmpl.AddContext(geom.V2(0, 2), "door")
	tmpl.AddContext(geom.V2(4, 2), "door")

	a, _ := tmpl.Instantiate(geom.V2(0, 0), 0)
	b, _ := tmpl.Instantiate(geom.V2(10, 0), 0)

	ca, cb := a.Context(0), b.Context(1)
	if !ca.Open() || ca.Filled() || ca.Dropped() {
		t.Fatal("fresh context should be open")
	}
	if err := ca.Fill(cb); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if !ca.Filled() || !cb.Filled() {
		t.Error("both contexts should be filled")
	}
	if ca.Target() != cb || cb.Target() != ca {
		t.Error("filled contexts should cross-reference each other")
	}
	if err := ca.Fill(nil); !errors.Is(err, ErrContextClosed) {
		t.Errorf("double fill: err = %v, want ErrContextClosed", err)
	}

	cc := a.Context(1)
	cc.Drop()
	if !cc.Dropped() || cc.Open() {
		t.Error("dropped context should not be open")
	}
	if err := cc.Fill(nil); !errors.Is(err, ErrContextClosed) {
		t.Errorf("fill after drop: err = %v, want ErrContextClosed", err)
	}
	// Drop never reverts a filled context.
	ca.Drop()
	if !ca.Filled() {
		t.Error("Drop must not affect a filled context")
	}
}
