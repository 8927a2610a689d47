package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/prismbox/go-prism-tracer/pkg/vec"
)

// Config is the scene-file form of a scene, loadable from JSON or YAML.
type Config struct {
	Name      string           `json:"name,omitempty" yaml:"name,omitempty"`
	Obstacles []ObstacleConfig `json:"obstacles" yaml:"obstacles"`
}

// ObstacleConfig describes one obstacle in a scene file
type ObstacleConfig struct {
	ID       string      `json:"id,omitempty" yaml:"id,omitempty"`
	Type     Kind        `json:"type" yaml:"type"`
	Position PointConfig `json:"position" yaml:"position"`
	Rotation float64     `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Size     float64     `json:"size" yaml:"size"`
}

// PointConfig is a 2D point in a scene file
type PointConfig struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// LoadJSON loads a scene config from a JSON reader
func LoadJSON(r io.Reader) (*Config, error) {
	var c Config
	dec := json.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding scene json: %w", err)
	}
	return &c, nil
}

// LoadYAML loads a scene config from a YAML reader
func LoadYAML(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding scene yaml: %w", err)
	}
	return &c, nil
}

// LoadFile loads a scene config from a file, picking the format from the
// extension (.json, .yaml or .yml).
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch ext := filepath.Ext(path); ext {
	case ".json":
		return LoadJSON(f)
	case ".yaml", ".yml":
		return LoadYAML(f)
	default:
		return nil, fmt.Errorf("unsupported scene file extension %q", ext)
	}
}

// Build converts the config into a live scene. Obstacles without an id get a
// generated one; duplicate ids are an error.
func (c *Config) Build() (*Scene, error) {
	s := New()
	for i, oc := range c.Obstacles {
		if oc.Size <= 0 {
			return nil, fmt.Errorf("obstacle %d (%s): size must be positive", i, oc.ID)
		}
		if oc.ID == "" {
			s.Add(oc.Type, vec.NewVec2(oc.Position.X, oc.Position.Y), oc.Rotation, oc.Size)
			continue
		}
		o := Obstacle{
			ID:       oc.ID,
			Kind:     oc.Type,
			Position: vec.NewVec2(oc.Position.X, oc.Position.Y),
			Rotation: oc.Rotation,
			Size:     oc.Size,
		}
		if err := s.Insert(o); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Export converts a live scene back into its file form
func Export(s *Scene, name string) *Config {
	snapshot := s.Snapshot()
	c := &Config{Name: name, Obstacles: make([]ObstacleConfig, 0, len(snapshot))}
	for _, o := range snapshot {
		c.Obstacles = append(c.Obstacles, ObstacleConfig{
			ID:       o.ID,
			Type:     o.Kind,
			Position: PointConfig{X: o.Position.X, Y: o.Position.Y},
			Rotation: o.Rotation,
			Size:     o.Size,
		})
	}
	return c
}
