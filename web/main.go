package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/prismbox/go-prism-tracer/pkg/scene"
	"github.com/prismbox/go-prism-tracer/web/server"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML server config")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	scenePath := flag.String("scene", "", "Scene file to load on startup (overrides config)")
	flag.Parse()

	cfg := server.DefaultConfig()
	if *configPath != "" {
		loaded, err := server.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *scenePath != "" {
		cfg.ScenePath = *scenePath
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	s := scene.New()
	if cfg.ScenePath != "" {
		sceneCfg, err := scene.LoadFile(cfg.ScenePath)
		if err != nil {
			logger.Fatal("loading scene", zap.Error(err))
		}
		s, err = sceneCfg.Build()
		if err != nil {
			logger.Fatal("building scene", zap.Error(err))
		}
		logger.Info("scene loaded",
			zap.String("path", cfg.ScenePath),
			zap.String("name", sceneCfg.Name),
			zap.Int("obstacles", s.Len()))
	}

	srv := server.NewServer(cfg, s, logger)
	if err := srv.Start(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
