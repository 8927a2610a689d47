package tracer

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/prismbox/go-prism-tracer/pkg/scene"
	"github.com/prismbox/go-prism-tracer/pkg/vec"
)

// targetSlack widens the solved-detection radius around a target's disc.
const targetSlack = 5.0

// emissionDir is the fixed world-space emission direction of every light.
// Light rotation is tracked by the editor but deliberately does not steer
// emission.
var emissionDir = vec.NewVec2(1, 0)

// Result aggregates one full re-trace of the scene: every segment from every
// (light, wavelength) pair, and whether any ray reaches a target.
type Result struct {
	Segments []Segment
	Solved   bool
}

// TraceScene traces every light through the full spectrum and evaluates the
// solved predicate. Segment order is deterministic: lights in scene order,
// wavelengths in spectrum order, segments in trace order.
func TraceScene(s *scene.Scene) *Result {
	obstacles := s.Snapshot()

	var segments []Segment
	for _, o := range obstacles {
		if o.Kind != scene.KindLight {
			continue
		}
		for w := range scene.Spectrum {
			segments = append(segments, Trace(o.Position, emissionDir, w, obstacles)...)
		}
	}

	return &Result{Segments: segments, Solved: solved(segments, obstacles)}
}

// TraceSceneParallel is TraceScene with each (light, wavelength) trace run
// concurrently. Traces are independent and side-effect-free, so the only
// coordination needed is reassembling results in deterministic order.
func TraceSceneParallel(ctx context.Context, s *scene.Scene) (*Result, error) {
	obstacles := s.Snapshot()

	var lights []scene.Obstacle
	for _, o := range obstacles {
		if o.Kind == scene.KindLight {
			lights = append(lights, o)
		}
	}

	traces := make([][]Segment, len(lights)*len(scene.Spectrum))
	g, ctx := errgroup.WithContext(ctx)
	for i, light := range lights {
		for w := range scene.Spectrum {
			w := w
			slot := i*len(scene.Spectrum) + w
			origin := light.Position
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				traces[slot] = Trace(origin, emissionDir, w, obstacles)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var segments []Segment
	for _, t := range traces {
		segments = append(segments, t...)
	}
	return &Result{Segments: segments, Solved: solved(segments, obstacles)}, nil
}

// solved reports whether any traced segment ends within the detection radius
// (disc radius plus slack) of any target.
func solved(segments []Segment, obstacles []scene.Obstacle) bool {
	for _, o := range obstacles {
		if o.Kind != scene.KindTarget {
			continue
		}
		reach := o.Radius() + targetSlack
		for _, seg := range segments {
			if seg.End.Subtract(o.Position).Length() <= reach {
				return true
			}
		}
	}
	return false
}

// Driver caches the last trace result keyed by the scene fingerprint, so
// callers that re-query an unchanged scene do not pay for a re-trace.
type Driver struct {
	mu    sync.Mutex
	scene *scene.Scene
	hash  uint64
	last  *Result
}

// NewDriver creates a driver bound to a scene
func NewDriver(s *scene.Scene) *Driver {
	return &Driver{scene: s}
}

// Result returns the trace result for the scene's current state, re-tracing
// only if the scene changed since the last call. The second return reports
// whether a re-trace actually ran.
func (d *Driver) Result() (*Result, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	h := d.scene.Fingerprint()
	if d.last != nil && h == d.hash {
		return d.last, false
	}
	d.last = TraceScene(d.scene)
	d.hash = h
	return d.last, true
}
