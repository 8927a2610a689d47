package scene

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/prismbox/go-prism-tracer/pkg/vec"
)

// Scene is the mutable obstacle collection shared between the editor surface
// and the tracer. Mutation goes through the editor methods; tracing reads an
// immutable snapshot. Obstacle order is stable (insertion order) so traces
// and fingerprints are deterministic.
type Scene struct {
	mu        sync.RWMutex
	obstacles []Obstacle
	byID      map[string]int
}

// New creates an empty scene
func New() *Scene {
	return &Scene{byID: make(map[string]int)}
}

// Add creates an obstacle with a generated id and inserts it
func (s *Scene) Add(kind Kind, position vec.Vec2, rotation, size float64) Obstacle {
	o := Obstacle{
		ID:       uuid.NewString(),
		Kind:     kind,
		Position: position,
		Rotation: rotation,
		Size:     size,
	}
	// A fresh uuid cannot collide with an existing id
	_ = s.Insert(o)
	return o
}

// Insert adds an obstacle with a caller-provided id
func (s *Scene) Insert(o Obstacle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ID == "" {
		return fmt.Errorf("obstacle id must not be empty")
	}
	if _, exists := s.byID[o.ID]; exists {
		return fmt.Errorf("duplicate obstacle id %q", o.ID)
	}
	s.byID[o.ID] = len(s.obstacles)
	s.obstacles = append(s.obstacles, o)
	return nil
}

// Get returns the obstacle with the given id
func (s *Scene) Get(id string) (Obstacle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return Obstacle{}, false
	}
	return s.obstacles[i], true
}

// Move updates an obstacle's position
func (s *Scene) Move(id string, position vec.Vec2) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[id]
	if !ok {
		return false
	}
	s.obstacles[i].Position = position
	return true
}

// Rotate updates an obstacle's rotation (absolute, radians)
func (s *Scene) Rotate(id string, rotation float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[id]
	if !ok {
		return false
	}
	s.obstacles[i].Rotation = rotation
	return true
}

// Remove deletes an obstacle, preserving insertion order of the rest
func (s *Scene) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[id]
	if !ok {
		return false
	}
	s.obstacles = append(s.obstacles[:i], s.obstacles[i+1:]...)
	delete(s.byID, id)
	for j := i; j < len(s.obstacles); j++ {
		s.byID[s.obstacles[j].ID] = j
	}
	return true
}

// Reset removes every obstacle
func (s *Scene) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.obstacles = nil
	s.byID = make(map[string]int)
}

// Len returns the number of obstacles
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.obstacles)
}

// Snapshot returns a copy of the obstacle list for a single trace to read.
// The copy never changes under the caller even if the editor keeps mutating.
func (s *Scene) Snapshot() []Obstacle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Obstacle, len(s.obstacles))
	copy(out, s.obstacles)
	return out
}

// Fingerprint hashes the full obstacle state. Two scenes with identical
// obstacles in identical order produce the same value, so callers can skip
// re-tracing an unchanged scene.
func (s *Scene) Fingerprint() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := xxhash.New()
	var buf [8]byte
	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = h.Write(buf[:])
	}
	for _, o := range s.obstacles {
		_, _ = h.WriteString(o.ID)
		_, _ = h.WriteString(o.Kind.String())
		writeFloat(o.Position.X)
		writeFloat(o.Position.Y)
		writeFloat(o.Rotation)
		writeFloat(o.Size)
	}
	return h.Sum64()
}
