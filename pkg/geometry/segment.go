package geometry

import (
	"github.com/prismbox/go-prism-tracer/pkg/vec"
)

// Segment represents a finite line segment with an outward surface normal,
// used for mirror surfaces
type Segment struct {
	P1     vec.Vec2
	P2     vec.Vec2
	Normal vec.Vec2
}

// NewSegment derives a segment of the given length from a center/rotation pose.
// The canonical segment lies along the local x-axis centered at the origin with
// normal (0,1); both endpoints and the normal are rotated by rotation, and the
// endpoints are then translated to center. The normal is a direction and is
// never translated.
func NewSegment(center vec.Vec2, rotation, length float64) Segment {
	half := length / 2
	p1 := vec.NewVec2(-half, 0).Rotate(rotation).Add(center)
	p2 := vec.NewVec2(half, 0).Rotate(rotation).Add(center)
	normal := vec.NewVec2(0, 1).Rotate(rotation)
	return Segment{P1: p1, P2: p2, Normal: normal}
}
