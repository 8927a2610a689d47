// Package tracer implements the ray-tracing engine: the bounded bounce loop
// that turns a light source and a scene snapshot into drawable path segments,
// and the driver that runs it for every light and wavelength.
package tracer

import (
	"github.com/prismbox/go-prism-tracer/pkg/geometry"
	"github.com/prismbox/go-prism-tracer/pkg/optics"
	"github.com/prismbox/go-prism-tracer/pkg/scene"
	"github.com/prismbox/go-prism-tracer/pkg/vec"
)

const (
	// MaxBounces bounds the bounce loop; a ray trapped between mirrors stops
	// after this many segments.
	MaxBounces = 10
	// MaxLength bounds total travel distance in scene units.
	MaxLength = 1000.0

	// minAdvance is the minimum intersection parameter, preventing a ray from
	// immediately re-hitting the surface it just left.
	minAdvance = 0.01
	// mirrorNudge and prismNudge push the continuation origin off the surface
	// along the normal after a bounce.
	mirrorNudge = 0.1
	prismNudge  = 0.05
)

// Segment is one drawable piece of a traced ray path
type Segment struct {
	Start      vec.Vec2
	End        vec.Vec2
	Wavelength int // index into scene.Spectrum
}

// surfaceHit pairs a geometric hit with the kind of surface that was struck
type surfaceHit struct {
	geometry.Hit
	kind scene.Kind
}

// Trace runs a single ray from origin along dir (normalized internally) for
// the given wavelength index, bouncing off mirrors and through prisms until
// the ray escapes, runs out of travel budget, or reaches the bounce limit.
// Only mirror and prism obstacles participate in intersection; lights and
// targets structurally cannot occlude a ray.
func Trace(origin, dir vec.Vec2, wavelength int, obstacles []scene.Obstacle) []Segment {
	direction := dir.Normalize()
	traveled := 0.0
	segments := make([]Segment, 0, 2)

	for bounce := 0; bounce < MaxBounces; bounce++ {
		ray := vec.NewRay(origin, direction)

		hit, ok := nearestHit(ray, obstacles)
		if !ok {
			// Ray escapes: spend the remaining travel budget in a straight line
			remaining := MaxLength - traveled
			if remaining < 0 {
				remaining = 0
			}
			segments = append(segments, Segment{
				Start:      origin,
				End:        origin.Add(direction.Multiply(remaining)),
				Wavelength: wavelength,
			})
			break
		}

		segments = append(segments, Segment{Start: origin, End: hit.Point, Wavelength: wavelength})

		switch hit.kind {
		case scene.KindMirror:
			direction = optics.Reflect(direction, hit.Normal).Normalize()
			origin = hit.Point.Add(hit.Normal.Multiply(mirrorNudge))
		case scene.KindPrism:
			// Tracing from outside into the glass: eta is the inverse of the
			// medium's index at this wavelength.
			eta := 1 / scene.Spectrum[wavelength].RefractiveIndex
			if refracted, ok := optics.Refract(direction, hit.Normal, eta); ok {
				direction = refracted.Normalize()
				// The refracted ray continues inside the disc, so the nudge
				// goes through the surface rather than back off it.
				origin = hit.Point.Subtract(hit.Normal.Multiply(prismNudge))
			} else {
				// Grazing incidence or total internal reflection
				direction = optics.Reflect(direction, hit.Normal).Normalize()
				origin = hit.Point.Add(hit.Normal.Multiply(prismNudge))
			}
		}

		traveled += hit.T
		if traveled >= MaxLength {
			break
		}
	}

	return segments
}

// nearestHit finds the closest front-face intersection ahead of the ray among
// all mirror segments and prism discs.
func nearestHit(ray vec.Ray, obstacles []scene.Obstacle) (surfaceHit, bool) {
	var nearest surfaceHit
	found := false

	for _, o := range obstacles {
		var hit geometry.Hit
		var ok bool

		switch o.Kind {
		case scene.KindMirror:
			hit, ok = geometry.IntersectSegment(ray, o.Surface())
			ok = ok && hit.T > minAdvance
		case scene.KindPrism:
			hit, ok = geometry.IntersectCircle(ray, o.Position, o.Radius(), minAdvance)
		default:
			continue
		}

		// Front-face rule: the ray must travel against the outward normal
		if !ok || ray.Direction.Dot(hit.Normal) >= 0 {
			continue
		}
		if !found || hit.T < nearest.T {
			nearest = surfaceHit{Hit: hit, kind: o.Kind}
			found = true
		}
	}

	return nearest, found
}
