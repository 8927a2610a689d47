// Package scene holds the optic scene model: the obstacle variants placed by
// an external editor, the fixed wavelength palette, and scene (de)serialization.
package scene

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/prismbox/go-prism-tracer/pkg/geometry"
	"github.com/prismbox/go-prism-tracer/pkg/vec"
)

// Kind identifies one of the four obstacle variants. The set is closed;
// intersection and query logic dispatch with a switch.
type Kind int

const (
	KindLight Kind = iota
	KindMirror
	KindPrism
	KindTarget
)

// String returns the lower-case name used in scene files and wire messages
func (k Kind) String() string {
	switch k {
	case KindLight:
		return "light"
	case KindMirror:
		return "mirror"
	case KindPrism:
		return "prism"
	case KindTarget:
		return "target"
	}
	return "unknown"
}

// ParseKind converts a scene-file type name into a Kind
func ParseKind(s string) (Kind, error) {
	switch s {
	case "light":
		return KindLight, nil
	case "mirror":
		return KindMirror, nil
	case "prism":
		return KindPrism, nil
	case "target":
		return KindTarget, nil
	}
	return 0, fmt.Errorf("unknown obstacle type %q", s)
}

// MarshalText implements encoding.TextMarshaler so Kind serializes by name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalYAML serializes Kind by name in YAML scene files
func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// UnmarshalYAML parses Kind from its YAML name
func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	return k.UnmarshalText([]byte(value.Value))
}

// Obstacle is one optic object in the scene. Lights emit rays, mirrors
// reflect them, prisms refract them, and targets passively detect them.
// Position and rotation are mutated by the editor; the tracer only reads
// snapshots.
type Obstacle struct {
	ID       string
	Kind     Kind
	Position vec.Vec2
	Rotation float64 // radians, counter-clockwise
	Size     float64 // segment length for mirrors, disc diameter for prisms and targets
}

// Radius returns half the size, the disc radius for prisms and targets
func (o Obstacle) Radius() float64 {
	return o.Size / 2
}

// Surface derives the mirror segment for this obstacle's pose. Only
// meaningful for mirrors.
func (o Obstacle) Surface() geometry.Segment {
	return geometry.NewSegment(o.Position, o.Rotation, o.Size)
}
