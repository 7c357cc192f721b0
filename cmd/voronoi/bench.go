package main

import (
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/voronoi/internal/config"
	"github.com/san-kum/voronoi/internal/field"
	"github.com/san-kum/voronoi/internal/metrics"
	"github.com/san-kum/voronoi/internal/reveal"
	"github.com/san-kum/voronoi/internal/sim"
)

type resolution struct{ w, h int }

var benchResolutions = []resolution{{320, 180}, {640, 360}, {1280, 720}}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if frames < 1 {
		return fmt.Errorf("--frames must be positive, got %d", frames)
	}
	sc, err := cfg.SimConfig()
	if err != nil {
		return err
	}
	style, err := cfg.Style()
	if err != nil {
		return err
	}
	// Fully revealed so every sample pays for the whole scan.
	sc.Seed = 42
	sc.Reveal.Mode = reveal.ModeStep
	sc.Reveal.InitialRadius = 1e9
	sc.Reveal.MaxRadius = 1e9

	workerCounts := []int{1, runtime.NumCPU()}
	if runtime.NumCPU() == 1 {
		workerCounts = workerCounts[:1]
	}

	fmt.Printf("benchmarking %s: %d sites, %d frames per row\n\n", name, sc.Sites, frames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RESOLUTION\tWORKERS\tMEAN\tSTDDEV\tP50\tP95\tFRAMES/SEC")

	for _, res := range benchResolutions {
		for _, n := range workerCounts {
			s, err := sim.New(sc, logger)
			if err != nil {
				return err
			}
			renderer := field.NewRenderer(style, n)
			raster := field.NewRaster(res.w, res.h)
			s.AddObserver(sim.ObserverFunc(func(snap field.Snapshot) {
				renderer.Render(raster, snap)
			}))
			frameTime := metrics.NewFrameTime()
			s.AddMetric(frameTime)

			if _, err := s.Run(cmd.Context(), frames, 0); err != nil {
				return err
			}
			st := frameTime.Stats()
			fps := 0.0
			if st.Mean > 0 {
				fps = 1000 / st.Mean
			}
			fmt.Fprintf(w, "%dx%d\t%d\t%.2fms\t%.2fms\t%.2fms\t%.2fms\t%.0f\n",
				res.w, res.h, n, st.Mean, st.StdDev, st.P50, st.P95, fps)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if runs < 1 {
		return nil
	}
	fmt.Printf("\nsimulation only, %d runs in parallel\n\n", runs)
	ens := sim.NewEnsemble(sc, runs, sc.Seed, func() []sim.Metric {
		return []sim.Metric{metrics.NewFrameTime(), metrics.NewSpread()}
	}, logger)
	start := time.Now()
	results, err := ens.Run(cmd.Context(), frames, 0)
	if err != nil {
		return err
	}

	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tSTEP MEAN\tSPREAD")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.4fms\t%.2f\n", sc.Seed+int64(i), r.Frames, r.Metrics["frame_ms"], r.Metrics["spread"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ntotal %v\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func plotCurve(cmd *cobra.Command, args []string) error {
	e, err := reveal.ParseEasing(easing)
	if err != nil {
		return err
	}
	d, err := time.ParseDuration(duration)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", duration, err)
	}
	tr, err := reveal.NewTransition(d, e)
	if err != nil {
		return err
	}

	const samples = 80
	data := make([]float64, samples+1)
	for i := range data {
		elapsed := time.Duration(float64(d) * float64(i) / samples)
		data[i] = tr.Progress(elapsed) * magnitude
	}

	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s over %v (x%.0f)", easing, d, magnitude)),
	))
	half := tr.Progress(d / 2)
	fmt.Printf("\nat half duration: %.4f of magnitude (%.1f)\n", half, half*magnitude)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODE\tORIGIN\tPALETTE\tGROW\tMARKERS\tAUTO RESTART")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		restart := "-"
		if p.Reveal.AutoRestart > 0 {
			restart = p.Reveal.AutoRestart.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\t%s\n",
			name, p.Reveal.Mode, p.Viewport.Origin, p.Sites.Palette, p.Reveal.Grow, p.Render.DotMarker, restart)
	}
	return w.Flush()
}
