/*
Headless demo of the resource core: registers the assets listed in
config.toml, loads them against an in-memory renderer backend and, when
asset watching is enabled, keeps reloading changed files until interrupted.
*/
package main

import (
	"errors"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/config"
	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/core"
	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/renderer"
	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/systems"
)

const (
	configFile   = "config.toml"
	manifestFile = "manifest.toml"
	tickRate     = 250 * time.Millisecond
)

func main() {
	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	logger := core.NewLogger(os.Stdout, core.LogOptions{
		Level:        cfg.Log.Level,
		Prefix:       cfg.Log.Prefix,
		ReportCaller: cfg.Log.ReportCaller,
	})

	backend := renderer.NewHeadless()
	sm, err := systems.NewSystemManager(cfg, backend, logger)
	if err != nil {
		logger.Fatal(err.Error())
	}

	if _, err := os.Stat(manifestFile); err == nil {
		if err := sm.LoadManifest(manifestFile); err != nil {
			logger.Fatal(err.Error())
		}
		logger.Infof("Restored manifest %s.", sm.ManifestID())
	} else if !errors.Is(err, os.ErrNotExist) {
		logger.Fatal(err.Error())
	}

	if err := sm.RegisterConfigured(); err != nil {
		logger.Fatal(err.Error())
	}
	logger.Infof("Processed %d pending resources.", sm.Update())
	logMetrics(logger, sm)

	if cfg.Assets.Watch {
		// signal channel to capture system calls
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

		ticker := time.NewTicker(tickRate)
		defer ticker.Stop()

	loop:
		for {
			select {
			case <-sigCh:
				break loop
			case <-ticker.C:
				if n := sm.Update(); n > 0 {
					logger.Infof("Reloaded %d resources.", n)
				}
			}
		}
	}

	if err := sm.SaveManifest(manifestFile); err != nil {
		logger.Error(err.Error())
	}
	if err := sm.Shutdown(); err != nil {
		logger.Error(err.Error())
	}
	logger.Infof("GPU objects left: %d buffers, %d textures, %d shaders.",
		backend.BufferCount(), backend.TextureCount(), backend.ShaderCount())
}

func logMetrics(logger core.Logger, sm *systems.SystemManager) {
	metrics := sm.Metrics()
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m := metrics[name]
		logger.Infof("%s: adds=%d hits=%d loads=%d failures=%d fallbacks=%d avg=%.3fms",
			name, m.Adds, m.Hits, m.Loads, m.Failures, m.Fallbacks, m.AvgLoadMilli)
	}
}
