package tracer

import (
	"bytes"
	"os"
	"testing"

	"github.com/prismbox/go-prism-tracer/pkg/scene"
	"github.com/prismbox/go-prism-tracer/pkg/vec"
)

func TestTraceLog_RoundTrip(t *testing.T) {
	s := scene.New()
	if err := s.Insert(scene.Obstacle{ID: "light1", Kind: scene.KindLight, Position: vec.NewVec2(100, 300), Size: 30}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	log := NewTraceLog(&buf)

	first := TraceScene(s)
	if err := log.Record(s.Fingerprint(), first); err != nil {
		t.Fatal(err)
	}

	s.Move("light1", vec.NewVec2(100, 400))
	second := TraceScene(s)
	if err := log.Record(s.Fingerprint(), second); err != nil {
		t.Fatal(err)
	}

	if err := log.Close(); err != nil {
		t.Fatal(err)
	}

	records, err := ReadTraceLog(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	if len(records[0].Segments) != len(first.Segments) {
		t.Errorf("Expected %d segments in record 0, got %d", len(first.Segments), len(records[0].Segments))
	}
	if records[0].Fingerprint == records[1].Fingerprint {
		t.Error("Expected distinct fingerprints for distinct scenes")
	}

	seg := records[0].Segments[0]
	if seg.X1 != 100 || seg.Y1 != 300 {
		t.Errorf("Expected first segment to start at the light, got (%f, %f)", seg.X1, seg.Y1)
	}
	if seg.Color != scene.Spectrum[seg.Wavelength].Color {
		t.Errorf("Expected color %s for wavelength %d, got %s",
			scene.Spectrum[seg.Wavelength].Color, seg.Wavelength, seg.Color)
	}
}

func TestTraceLog_File(t *testing.T) {
	path := t.TempDir() + "/trace.log"

	log, err := CreateTraceLog(path)
	if err != nil {
		t.Fatal(err)
	}

	s := scene.New()
	if err := s.Insert(scene.Obstacle{ID: "light1", Kind: scene.KindLight, Position: vec.NewVec2(0, 0), Size: 30}); err != nil {
		t.Fatal(err)
	}
	if err := log.Record(s.Fingerprint(), TraceScene(s)); err != nil {
		t.Fatal(err)
	}
	if err := log.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	records, err := ReadTraceLog(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
}
