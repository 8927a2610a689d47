package tracer

import (
	"math"
	"testing"

	"github.com/prismbox/go-prism-tracer/pkg/scene"
	"github.com/prismbox/go-prism-tracer/pkg/vec"
)

func direction(seg Segment) vec.Vec2 {
	return seg.End.Subtract(seg.Start).Normalize()
}

func TestTrace_EmptySceneSpendsFullBudget(t *testing.T) {
	segments := Trace(vec.NewVec2(100, 300), vec.NewVec2(1, 0), 0, nil)

	if len(segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segments))
	}
	seg := segments[0]
	if seg.Start != vec.NewVec2(100, 300) {
		t.Errorf("Expected start at the origin, got %v", seg.Start)
	}
	length := seg.End.Subtract(seg.Start).Length()
	if math.Abs(length-MaxLength) > 1e-9 {
		t.Errorf("Expected full budget length %f, got %f", MaxLength, length)
	}
}

func TestTrace_MirrorRedirectsNinetyDegrees(t *testing.T) {
	// A mirror rotated 45 degrees across the ray turns it by 90 degrees
	obstacles := []scene.Obstacle{
		{ID: "m1", Kind: scene.KindMirror, Position: vec.NewVec2(400, 300), Rotation: math.Pi / 4, Size: 100},
	}

	segments := Trace(vec.NewVec2(100, 300), vec.NewVec2(1, 0), 0, obstacles)

	if len(segments) != 2 {
		t.Fatalf("Expected 2 segments (pre and post bounce), got %d", len(segments))
	}

	if math.Abs(segments[0].End.X-400) > 1e-9 || math.Abs(segments[0].End.Y-300) > 1e-9 {
		t.Errorf("Expected first segment to end at the mirror center, got %v", segments[0].End)
	}

	d1 := direction(segments[0])
	d2 := direction(segments[1])
	if math.Abs(d1.Dot(d2)) > 1e-9 {
		t.Errorf("Expected orthogonal directions, dot = %f", d1.Dot(d2))
	}
	if math.Abs(d2.X) > 1e-9 || math.Abs(d2.Y-1) > 1e-9 {
		t.Errorf("Expected reflected direction {0 1}, got %v", d2)
	}

	// The two segments together must spend the full budget
	total := segments[0].End.Subtract(segments[0].Start).Length() +
		segments[1].End.Subtract(segments[1].Start).Length()
	if math.Abs(total-MaxLength) > 1 {
		t.Errorf("Expected total length near %f, got %f", MaxLength, total)
	}
}

func TestTrace_MirrorBackFacePassesThrough(t *testing.T) {
	// Approaching the mirror against its orientation (from the normal-less
	// side) must not intersect
	obstacles := []scene.Obstacle{
		{ID: "m1", Kind: scene.KindMirror, Position: vec.NewVec2(400, 300), Rotation: 0, Size: 100},
	}

	// Normal is (0,1); a ray moving up approaches the back face
	segments := Trace(vec.NewVec2(400, 100), vec.NewVec2(0, 1), 0, obstacles)

	if len(segments) != 1 {
		t.Fatalf("Expected the ray to pass through the back face, got %d segments", len(segments))
	}
}

func TestTrace_BounceLimitInMirrorTrap(t *testing.T) {
	// Two facing mirrors close together: the ray never escapes and must stop
	// at exactly MaxBounces segments
	obstacles := []scene.Obstacle{
		{ID: "m1", Kind: scene.KindMirror, Position: vec.NewVec2(520, 500), Rotation: math.Pi / 2, Size: 50},
		{ID: "m2", Kind: scene.KindMirror, Position: vec.NewVec2(480, 500), Rotation: -math.Pi / 2, Size: 50},
	}

	segments := Trace(vec.NewVec2(500, 500), vec.NewVec2(1, 0), 0, obstacles)

	if len(segments) != MaxBounces {
		t.Fatalf("Expected exactly %d segments at the bounce limit, got %d", MaxBounces, len(segments))
	}
}

func TestTrace_LengthLimit(t *testing.T) {
	// Facing mirrors far apart: travel budget runs out before the bounce limit
	obstacles := []scene.Obstacle{
		{ID: "m1", Kind: scene.KindMirror, Position: vec.NewVec2(800, 500), Rotation: math.Pi / 2, Size: 50},
		{ID: "m2", Kind: scene.KindMirror, Position: vec.NewVec2(200, 500), Rotation: -math.Pi / 2, Size: 50},
	}

	segments := Trace(vec.NewVec2(500, 500), vec.NewVec2(1, 0), 0, obstacles)

	// 300 + 600 + 600 crosses the 1000 budget on the third segment
	if len(segments) != 3 {
		t.Fatalf("Expected 3 segments before the length limit, got %d", len(segments))
	}

	total := 0.0
	for _, seg := range segments {
		total += seg.End.Subtract(seg.Start).Length()
	}
	if total < MaxLength {
		t.Errorf("Expected accumulated length to exceed the budget, got %f", total)
	}
}

func TestTrace_PrismStraightThrough(t *testing.T) {
	// A ray through the disc center refracts without bending and exits
	// without a second refraction (inside-out crossings are back-face)
	obstacles := []scene.Obstacle{
		{ID: "p1", Kind: scene.KindPrism, Position: vec.NewVec2(400, 300), Size: 100},
	}

	segments := Trace(vec.NewVec2(100, 300), vec.NewVec2(1, 0), 3, obstacles)

	if len(segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(segments))
	}
	if math.Abs(segments[0].End.X-350) > 1e-9 {
		t.Errorf("Expected entry at x=350, got %v", segments[0].End)
	}

	d2 := direction(segments[1])
	if math.Abs(d2.X-1) > 1e-9 || math.Abs(d2.Y) > 1e-9 {
		t.Errorf("Head-on refraction should not bend, got %v", d2)
	}
}

func TestTrace_PrismDispersion(t *testing.T) {
	// Hitting the disc off-center refracts each wavelength differently
	obstacles := []scene.Obstacle{
		{ID: "p1", Kind: scene.KindPrism, Position: vec.NewVec2(400, 300), Size: 100},
	}
	origin := vec.NewVec2(100, 280)
	dir := vec.NewVec2(1, 0)

	red := Trace(origin, dir, 0, obstacles)
	violet := Trace(origin, dir, 6, obstacles)

	if len(red) < 2 || len(violet) < 2 {
		t.Fatalf("Expected at least 2 segments per trace, got %d and %d", len(red), len(violet))
	}

	dRed := direction(red[1])
	dViolet := direction(violet[1])
	if math.Abs(dRed.X-dViolet.X) < 1e-6 && math.Abs(dRed.Y-dViolet.Y) < 1e-6 {
		t.Errorf("Expected dispersion to separate red and violet, both got %v", dRed)
	}
}

func TestTrace_SegmentsCarryWavelength(t *testing.T) {
	obstacles := []scene.Obstacle{
		{ID: "m1", Kind: scene.KindMirror, Position: vec.NewVec2(400, 300), Rotation: math.Pi / 4, Size: 100},
	}

	segments := Trace(vec.NewVec2(100, 300), vec.NewVec2(1, 0), 5, obstacles)
	for i, seg := range segments {
		if seg.Wavelength != 5 {
			t.Errorf("Segment %d: expected wavelength 5, got %d", i, seg.Wavelength)
		}
	}
}

func TestTrace_LightsAndTargetsNeverOcclude(t *testing.T) {
	// A light and a target sitting directly in the beam must not block it
	obstacles := []scene.Obstacle{
		{ID: "light2", Kind: scene.KindLight, Position: vec.NewVec2(300, 300), Size: 30},
		{ID: "target1", Kind: scene.KindTarget, Position: vec.NewVec2(600, 300), Size: 60},
	}

	segments := Trace(vec.NewVec2(100, 300), vec.NewVec2(1, 0), 0, obstacles)

	if len(segments) != 1 {
		t.Fatalf("Expected a single uninterrupted segment, got %d", len(segments))
	}
	length := segments[0].End.Subtract(segments[0].Start).Length()
	if math.Abs(length-MaxLength) > 1e-9 {
		t.Errorf("Expected full budget length, got %f", length)
	}
}

func TestTrace_NormalizesDirection(t *testing.T) {
	// A non-unit input direction must not scale travel distances
	segments := Trace(vec.NewVec2(0, 0), vec.NewVec2(10, 0), 0, nil)

	length := segments[0].End.Subtract(segments[0].Start).Length()
	if math.Abs(length-MaxLength) > 1e-9 {
		t.Errorf("Expected full budget length with non-unit input, got %f", length)
	}
}
