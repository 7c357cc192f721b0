package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/voronoi/internal/config"
	"github.com/san-kum/voronoi/internal/export"
	"github.com/san-kum/voronoi/internal/field"
	"github.com/san-kum/voronoi/internal/gui"
	"github.com/san-kum/voronoi/internal/sim"
	"github.com/san-kum/voronoi/internal/viz"
)

// newSimulator builds the frame driver and render style for cfg.
func newSimulator(cfg *config.Config) (*sim.Simulator, field.Style, error) {
	sc, err := cfg.SimConfig()
	if err != nil {
		return nil, field.Style{}, err
	}
	style, err := cfg.Style()
	if err != nil {
		return nil, field.Style{}, err
	}
	s, err := sim.New(sc, logger)
	if err != nil {
		return nil, field.Style{}, err
	}
	return s, style, nil
}

func frameInterval(fps int) time.Duration {
	return time.Second / time.Duration(fps)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	opts := viz.Options{
		Title:       name,
		FPS:         cfg.TUI.FPS,
		Theme:       cfg.TUI.Theme,
		Workers:     cfg.Render.Workers,
		GIFPath:     gifPath,
		SnapshotDir: snapDir,
	}
	if pick {
		return viz.RunInteractive(cmd.Context(), opts, logger)
	}

	s, style, err := newSimulator(cfg)
	if err != nil {
		return err
	}
	opts.Style = style
	return viz.Run(cmd.Context(), s, opts, logger)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return gui.Run(cmd.Context(), cfg, gui.Options{
		Preset:      name,
		Interactive: pick,
		SnapshotDir: snapDir,
	}, logger)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if pngEvery < 1 {
		return fmt.Errorf("--every must be at least 1, got %d", pngEvery)
	}
	s, style, err := newSimulator(cfg)
	if err != nil {
		return err
	}

	asGIF := strings.EqualFold(filepath.Ext(outPath), ".gif")
	if !asGIF {
		if err := os.MkdirAll(outPath, 0755); err != nil {
			return err
		}
	}

	renderer := field.NewRenderer(style, cfg.Render.Workers)
	pool := sim.NewRasterPool(cfg.Render.Width, cfg.Render.Height)
	anim := export.NewAnimation(cfg.Render.FPS / pngEvery)

	fmt.Printf("rendering %d frames of %s at %dx%d...\n", cfg.Render.Frames, name, cfg.Render.Width, cfg.Render.Height)
	start := time.Now()
	written := 0
	var renderErr error

	s.Start(cmd.Context())
	err = s.RunWithCallback(cmd.Context(), cfg.Render.Frames, frameInterval(cfg.Render.FPS), func(snap field.Snapshot) bool {
		if snap.Frame%uint64(pngEvery) != 0 {
			return true
		}
		r := pool.Get()
		defer pool.Put(r)
		renderer.Render(r, snap)

		if asGIF {
			anim.Add(r, snap, style)
			return true
		}
		path := filepath.Join(outPath, fmt.Sprintf("frame_%05d.png", snap.Frame))
		if renderErr = export.SavePNG(path, r); renderErr != nil {
			return false
		}
		written++
		return true
	})
	if err != nil {
		return err
	}
	if renderErr != nil {
		return renderErr
	}

	if asGIF {
		written = anim.Len()
		if err := anim.Save(outPath); err != nil {
			return err
		}
	}
	fmt.Printf("wrote %d frames to %s in %v\n", written, outPath, time.Since(start).Round(time.Millisecond))
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	s, style, err := newSimulator(cfg)
	if err != nil {
		return err
	}

	snap := s.Snapshot()
	if frames > 0 {
		res, err := s.Run(cmd.Context(), frames, 0)
		if err != nil {
			return err
		}
		snap = res.Final
	}
	snap.Radius = s.Reveal().Config().MaxRadius
	if cmd.Flags().Changed("radius") {
		snap.Radius = radius
	}

	r := field.NewRaster(cfg.Render.Width, cfg.Render.Height)
	field.NewRenderer(style, cfg.Render.Workers).Render(r, snap)

	f := export.NewFrame(r, snap)
	if overlay {
		f.Overlay(export.DefaultOverlay())
	}
	if err := f.SavePNG(outPath); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%s)\n", outPath, snap)

	if svgPath != "" {
		svg := export.SitesToSVG(snap, style, cfg.Render.Width, cfg.Render.Height)
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	return nil
}
