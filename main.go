package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/prismbox/go-prism-tracer/pkg/scene"
	"github.com/prismbox/go-prism-tracer/pkg/tracer"
)

func main() {
	scenePath := flag.String("scene", "scenes/default.yaml", "Scene file to trace (.yaml or .json)")
	outPath := flag.String("out", "", "Write traced segments as JSON to this file")
	logPath := flag.String("tracelog", "", "Append the trace to a compressed trace log")
	parallel := flag.Bool("parallel", false, "Trace lights and wavelengths concurrently")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Prism Beam Tracer")
		fmt.Println("Usage: prism-tracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Traces every light in the scene through the 7-color spectrum and")
		fmt.Println("reports the resulting beam segments and whether a target is lit.")
		return
	}

	start := time.Now()
	s, result, err := runTrace(*scenePath, *parallel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Traced %d obstacles in %v\n", s.Len(), time.Since(start))
	fmt.Printf("Segments: %d, solved: %t\n", len(result.Segments), result.Solved)

	if *outPath != "" {
		if err := writeSegments(*outPath, result); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing segments: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Segments written to %s\n", *outPath)
	}

	if *logPath != "" {
		log, err := tracer.CreateTraceLog(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := log.Record(s.Fingerprint(), result); err != nil {
			fmt.Fprintf(os.Stderr, "Error recording trace: %v\n", err)
			os.Exit(1)
		}
		if err := log.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing trace log: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Trace log written to %s\n", *logPath)
	}
}

// runTrace loads a scene file and runs one full trace over it
func runTrace(scenePath string, parallel bool) (*scene.Scene, *tracer.Result, error) {
	cfg, err := scene.LoadFile(scenePath)
	if err != nil {
		return nil, nil, err
	}
	s, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}

	if parallel {
		result, err := tracer.TraceSceneParallel(context.Background(), s)
		if err != nil {
			return nil, nil, err
		}
		return s, result, nil
	}
	return s, tracer.TraceScene(s), nil
}

// writeSegments saves the traced segments (with display colors) as JSON
func writeSegments(path string, result *tracer.Result) error {
	records := make([]tracer.SegmentRecord, 0, len(result.Segments))
	for _, seg := range result.Segments {
		records = append(records, tracer.NewSegmentRecord(seg))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Solved   bool                   `json:"solved"`
		Segments []tracer.SegmentRecord `json:"segments"`
	}{Solved: result.Solved, Segments: records})
}
