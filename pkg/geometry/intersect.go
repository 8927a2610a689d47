package geometry

import (
	"math"

	"github.com/prismbox/go-prism-tracer/pkg/vec"
)

// parallelEpsilon is the determinant magnitude below which a ray and segment
// are treated as parallel (no intersection).
const parallelEpsilon = 1e-6

// Hit describes a ray/surface intersection
type Hit struct {
	T      float64  // Ray parameter at the intersection
	U      float64  // Segment parameter in [0,1]; zero for circle hits
	Point  vec.Vec2 // Intersection point
	Normal vec.Vec2 // Outward surface normal at the intersection
}

// IntersectSegment tests a ray against a finite segment by solving the 2x2
// linear system origin + t*dir = p1 + u*(p2-p1). A hit requires t >= 0 and
// u in [0,1]; parallel configurations return no hit.
func IntersectSegment(ray vec.Ray, seg Segment) (Hit, bool) {
	edge := seg.P2.Subtract(seg.P1)
	w := seg.P1.Subtract(ray.Origin)

	// Cramer's rule; det = dir x (-edge)
	det := edge.X*ray.Direction.Y - edge.Y*ray.Direction.X
	if math.Abs(det) < parallelEpsilon {
		return Hit{}, false
	}

	t := (edge.X*w.Y - edge.Y*w.X) / det
	u := (ray.Direction.X*w.Y - ray.Direction.Y*w.X) / det
	if t < 0 || u < 0 || u > 1 {
		return Hit{}, false
	}

	return Hit{T: t, U: u, Point: ray.At(t), Normal: seg.Normal}, true
}

// IntersectCircle tests a ray (unit direction) against a circle by solving the
// quadratic |origin + t*dir - center|^2 = radius^2. The nearer root is
// preferred; if it lies at or behind tMin the farther root is used instead.
// The outward radial normal at the hit point is returned; whether the hit is a
// front-face approach is the caller's concern.
func IntersectCircle(ray vec.Ray, center vec.Vec2, radius, tMin float64) (Hit, bool) {
	// Quadratic coefficients with a = 1 (unit direction)
	oc := ray.Origin.Subtract(center)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - radius*radius

	discriminant := halfB*halfB - c
	if discriminant < 0 {
		return Hit{}, false
	}

	sqrtD := math.Sqrt(discriminant)
	root := -halfB - sqrtD
	if root <= tMin {
		root = -halfB + sqrtD
		if root <= tMin {
			return Hit{}, false
		}
	}

	point := ray.At(root)
	normal := point.Subtract(center).Multiply(1 / radius)
	return Hit{T: root, Point: point, Normal: normal}, true
}
