package tracer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/golang/snappy"

	"github.com/prismbox/go-prism-tracer/pkg/scene"
)

// TraceLog records full re-trace results as snappy-compressed JSON lines,
// one record per trace run, for offline replay and debugging.
type TraceLog struct {
	file io.Closer // nil when writing to a caller-owned writer
	comp *snappy.Writer
	enc  *json.Encoder
}

// TraceRecord is one logged re-trace
type TraceRecord struct {
	Fingerprint uint64              `json:"fingerprint"`
	Solved      bool                `json:"solved"`
	Segments    []SegmentRecord     `json:"segments"`
	Spectrum    [7]scene.Wavelength `json:"spectrum,omitempty"`
}

// SegmentRecord is the wire form of a traced segment
type SegmentRecord struct {
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
	Wavelength int     `json:"wavelength"`
	Color      string  `json:"color"`
}

// NewTraceLog wraps a writer with snappy framing. The caller keeps ownership
// of w; Close only flushes the compressor.
func NewTraceLog(w io.Writer) *TraceLog {
	comp := snappy.NewBufferedWriter(w)
	return &TraceLog{comp: comp, enc: json.NewEncoder(comp)}
}

// CreateTraceLog opens (truncating) a trace log file
func CreateTraceLog(path string) (*TraceLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating trace log: %w", err)
	}
	tl := NewTraceLog(f)
	tl.file = f
	return tl, nil
}

// Record appends one re-trace result to the log
func (tl *TraceLog) Record(fingerprint uint64, result *Result) error {
	rec := TraceRecord{
		Fingerprint: fingerprint,
		Solved:      result.Solved,
		Segments:    make([]SegmentRecord, 0, len(result.Segments)),
		Spectrum:    scene.Spectrum,
	}
	for _, seg := range result.Segments {
		rec.Segments = append(rec.Segments, NewSegmentRecord(seg))
	}
	return tl.enc.Encode(&rec)
}

// Close flushes the compressor and closes the underlying file if the log
// owns one.
func (tl *TraceLog) Close() error {
	if err := tl.comp.Close(); err != nil {
		return err
	}
	if tl.file != nil {
		return tl.file.Close()
	}
	return nil
}

// NewSegmentRecord converts a segment to its wire form, resolving the
// wavelength's display color.
func NewSegmentRecord(seg Segment) SegmentRecord {
	return SegmentRecord{
		X1:         seg.Start.X,
		Y1:         seg.Start.Y,
		X2:         seg.End.X,
		Y2:         seg.End.Y,
		Wavelength: seg.Wavelength,
		Color:      scene.Spectrum[seg.Wavelength].Color,
	}
}

// ReadTraceLog decodes every record from a snappy-framed trace log
func ReadTraceLog(r io.Reader) ([]TraceRecord, error) {
	var records []TraceRecord
	scanner := bufio.NewScanner(snappy.NewReader(r))
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<24)
	for scanner.Scan() {
		var rec TraceRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("decoding trace record: %w", err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
