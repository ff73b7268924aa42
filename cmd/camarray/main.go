// Package main is the entry point for the camarray capture tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/camarray/internal/arraygen"
	"github.com/Faultbox/camarray/internal/batch"
	"github.com/Faultbox/camarray/internal/bounds"
	"github.com/Faultbox/camarray/internal/config"
	"github.com/Faultbox/camarray/internal/logger"
	"github.com/Faultbox/camarray/internal/render"
	"github.com/Faultbox/camarray/internal/rig"
	"github.com/Faultbox/camarray/internal/scene"
	"github.com/Faultbox/camarray/internal/sheet"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== camarray ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("capture failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	obj, err := cfg.Object()
	if err != nil {
		return err
	}
	sc := scene.NewMemory()
	sc.AddObject(obj)

	b, err := bounds.Analyze(obj)
	if err != nil {
		return err
	}
	logger.Info("target analyzed",
		zap.String("object", obj.Name),
		zap.Float32("max_dimension", b.MaxDimension),
	)

	genCfg, err := cfg.Generator()
	if err != nil {
		return err
	}
	faces, err := sc.Faces(obj.Name)
	if err != nil {
		return err
	}
	poses, err := arraygen.Generate(genCfg, b, faces)
	if err != nil {
		return err
	}

	rigs, err := rig.Materialize(sc, poses, cfg.Array.NamePrefix)
	if err != nil {
		return err
	}
	logger.Info("camera array generated",
		zap.String("topology", genCfg.Topology.String()),
		zap.Int("cameras", len(rigs)),
		zap.Float32("distance", b.Distance(genCfg.DistanceFactor)),
	)

	if len(cfg.Render.Command) == 0 {
		listPoses(rigs)
		logger.Info("no renderer command configured, dry run only")
		return nil
	}

	format, err := cfg.Format()
	if err != nil {
		return err
	}
	renderer, err := render.NewExec(cfg.Render.Command, logger.Log)
	if err != nil {
		return err
	}

	// Ctrl-C cancels between frames; frames already on disk are kept.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver := batch.NewDriver(sc, renderer.Render, logger.Log)
	state, err := driver.Run(ctx, rigs, batch.Config{
		OutputDir:       cfg.Output.Directory,
		Format:          format,
		ResolutionScale: cfg.Render.ResolutionScale,
		SkipExisting:    cfg.Render.SkipExisting,
		HideTarget:      cfg.Render.HideTarget,
		TargetName:      obj.Name,
	}, func(processed, total int) {
		logger.Sugar.Infof("progress %d/%d", processed, total)
	})
	if err != nil {
		return err
	}

	logger.Info("batch render finished", zap.String("result", state.Summary()))
	for _, f := range state.Failed {
		logger.Warn("frame failed", zap.Int("index", f.Index), zap.String("reason", f.Reason))
	}

	if cfg.Output.ContactSheet && state.Completed+state.Skipped > 0 {
		return writeContactSheet(cfg, rigs, format)
	}
	return nil
}

func listPoses(rigs []rig.Rig) {
	for _, r := range rigs {
		p := r.Pose
		logger.Sugar.Infof("%s  pos=(%.3f, %.3f, %.3f)  fwd=(%.3f, %.3f, %.3f)",
			r.Name,
			p.Position.X, p.Position.Y, p.Position.Z,
			p.Forward.X, p.Forward.Y, p.Forward.Z,
		)
	}
}

func writeContactSheet(cfg *config.Config, rigs []rig.Rig, format render.Format) error {
	paths := make([]string, len(rigs))
	for i, r := range rigs {
		paths[i] = batch.PathFor(cfg.Output.Directory, r.Index, format)
	}

	sheetPath := cfg.Output.SheetPath
	if sheetPath == "" {
		sheetPath = filepath.Join(cfg.Output.Directory, "contact_sheet.png")
	}
	opts := sheet.DefaultOptions()
	opts.Columns = cfg.Output.SheetColumns

	skipped, err := sheet.Write(sheetPath, paths, opts)
	if err != nil {
		return fmt.Errorf("contact sheet: %w", err)
	}
	for _, s := range skipped {
		logger.Warn("frame left out of contact sheet", zap.String("path", s))
	}
	logger.Info("contact sheet written", zap.String("path", sheetPath))
	return nil
}
