package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/voronoi/internal/automation"
	"github.com/san-kum/voronoi/internal/export"
	"github.com/san-kum/voronoi/internal/field"
	"github.com/san-kum/voronoi/internal/storage"
)

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	interval := frameInterval(cfg.Render.FPS)
	if unpaced {
		interval = 0
	}

	fmt.Printf("recording %d frames of %s...\n", cfg.Render.Frames, name)
	rec, err := automation.Record(cmd.Context(), cfg, automation.RecordOptions{
		Name:      name,
		Frames:    cfg.Render.Frames,
		Interval:  interval,
		SiteEvery: siteEvery,
	}, st, logger)
	if err != nil {
		return err
	}
	printRecording(rec)
	return nil
}

func printRecording(rec *automation.Recording) {
	fmt.Printf("completed in %v\n", rec.Result.Elapsed.Round(time.Millisecond))
	fmt.Printf("run id: %s\n", rec.RunID)
	fmt.Printf("frames: %d\n", rec.Result.Frames)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(rec.Result.Metrics))
	for n := range rec.Result.Metrics {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %s: %.4f\n", n, rec.Result.Metrics[n])
	}
	fmt.Printf("  frame_ms p50/p95: %.3f / %.3f\n", rec.FrameTime.P50, rec.FrameTime.P95)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(sc.Steps))
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	recs, err := automation.RunScenario(cmd.Context(), sc, st, logger)
	for i, rec := range recs {
		fmt.Printf("\nstep %d/%d\n", i+1, len(sc.Steps))
		printRecording(rec)
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	results, err := automation.RunSweep(cmd.Context(), cfg, automation.Sweep{
		Param:  sweepParam,
		Min:    sweepMin,
		Max:    sweepMax,
		Steps:  sweepSteps,
		Frames: cfg.Render.Frames,
	}, logger)
	if err != nil {
		return err
	}

	fmt.Printf("sweep of %s over %s, %d frames each\n\n", sweepParam, name, cfg.Render.Frames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSPREAD\tREVEAL FRAME\tFRAME MS\n", strings.ToUpper(sweepParam))
	spreads := make([]float64, len(results))
	for i, r := range results {
		spreads[i] = r.Spread
		reveal := "-"
		if r.RevealFrames >= 0 {
			reveal = fmt.Sprintf("%.0f", r.RevealFrames)
		}
		fmt.Fprintf(w, "%.4f\t%.2f\t%s\t%.4f\n", r.Value, r.Spread, reveal, r.FrameMS)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(spreads,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption("spread by "+sweepParam),
	))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSEED\tSITES\tFRAMES\tVIEWPORT\tMODE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.0fx%.0f %s\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Sites,
			run.Frames,
			run.Width, run.Height, run.Origin,
			run.Mode,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("frames: %d\n\n", len(frames))

	graph := asciigraph.Plot(storage.Radii(frames),
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("reveal radius (max %.0f)", meta.MaxRadius)),
	)
	fmt.Println(graph)
	fmt.Println()

	phases := make(map[string]int)
	var order []string
	for _, f := range frames {
		if _, ok := phases[f.Phase]; !ok {
			order = append(order, f.Phase)
		}
		phases[f.Phase]++
	}
	for _, p := range order {
		fmt.Printf("  %-10s %d frames\n", p, phases[p])
	}
	return nil
}

// outputWriter opens outPath, or stdout when it is empty.
func outputWriter() (io.Writer, func() error, error) {
	if outPath == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	w, closeFn, err := outputWriter()
	if err != nil {
		return err
	}
	defer closeFn()

	if !withSites {
		return st.ExportFramesCSV(w, args[0])
	}
	sites, err := st.LoadSites(args[0])
	if err != nil {
		return err
	}
	if len(sites) == 0 {
		return fmt.Errorf("run %s has no site rows", args[0])
	}
	return gocsv.Marshal(sites, w)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outPath != "" {
		return st.ExportJSONFile(outPath, args[0])
	}
	return st.ExportJSON(os.Stdout, args[0])
}

func exportTrails(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, err := st.LoadSites(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("run %s has no site rows", runID)
	}
	o, err := field.ParseOrigin(meta.Origin)
	if err != nil {
		return err
	}

	trails := make(map[int][]field.Point)
	colors := make(map[int]string)
	for _, row := range rows {
		trails[row.Index] = append(trails[row.Index], field.Point{X: row.X, Y: row.Y})
		colors[row.Index] = row.Color
	}

	vp := field.NewViewport(meta.Width, meta.Height, o)
	svg := export.TrailsToSVG(trails, vp, colors, width, height)
	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %d trails to %s\n", len(trails), outPath)
	return nil
}
