package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/san-kum/voronoi/internal/config"
)

var (
	dataDir    string
	configFile string
	presetName string
	seed       int64
	numSites   int
	palette    string
	origin     string
	revealMode string
	dotMarker  bool
	workers    int

	logFormat string
	logLevel  string
	logFile   string

	frames    int
	fps       int
	width     int
	height    int
	outPath   string
	theme     string
	gifPath   string
	snapDir   string
	pick      bool
	siteEvery int
	pngEvery  int
	radius    float64
	overlay   bool
	svgPath   string
	runs      int
	easing    string
	duration  string
	magnitude float64
	withSites bool
	unpaced   bool

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	logger  = slog.Default()
	logSink io.Closer
)

// interactiveAnnotation marks commands that own the terminal; their logs go
// to --log-file or nowhere.
const interactiveAnnotation = "interactive"

func main() {
	rootCmd := &cobra.Command{
		Use:               "voronoi",
		Short:             "animated closest-colored-site field",
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logSink != nil {
				logSink.Close()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".voronoi", "data directory for recorded runs")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&presetName, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	pf.IntVar(&numSites, "sites", 60, "number of sites")
	pf.StringVar(&palette, "palette", "uniform", "site palette (uniform, happy, warm, pastel)")
	pf.StringVar(&origin, "origin", "corner", "coordinate origin (corner, center)")
	pf.StringVar(&revealMode, "mode", "eased", "reveal mode (eased, step)")
	pf.BoolVar(&dotMarker, "dot-marker", false, "draw site centers in the marker color")
	pf.IntVar(&workers, "workers", 0, "render workers (0 uses all CPUs)")
	pf.StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "append logs to this file")

	liveCmd := &cobra.Command{
		Use:         "live",
		Short:       "animate the field in the terminal",
		Annotations: map[string]string{interactiveAnnotation: "true"},
		RunE:        runLive,
	}
	liveCmd.Flags().IntVar(&fps, "fps", 30, "frame rate")
	liveCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "panel theme")
	liveCmd.Flags().StringVar(&gifPath, "gif", "voronoi.gif", "GIF path for recordings")
	liveCmd.Flags().StringVar(&snapDir, "snapshot-dir", ".", "directory for PNG snapshots")
	liveCmd.Flags().BoolVar(&pick, "pick", false, "choose a preset before starting")

	guiCmd := &cobra.Command{
		Use:         "gui",
		Short:       "animate the field in a window",
		Annotations: map[string]string{interactiveAnnotation: "true"},
		RunE:        runGUI,
	}
	guiCmd.Flags().IntVar(&fps, "fps", 60, "frame rate")
	guiCmd.Flags().StringVar(&snapDir, "snapshot-dir", ".", "directory for PNG snapshots")
	guiCmd.Flags().BoolVar(&pick, "pick", false, "choose a preset in the window")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render frames headless to a GIF or PNG sequence",
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "voronoi.gif", "output .gif file or PNG directory")
	renderCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "number of frames")
	renderCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	renderCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "output width in pixels")
	renderCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "output height in pixels")
	renderCmd.Flags().IntVar(&pngEvery, "every", 1, "keep every n-th frame")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render a single frame to PNG and SVG",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().StringVarP(&outPath, "out", "o", "voronoi.png", "PNG output path")
	snapshotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the sites as SVG")
	snapshotCmd.Flags().IntVar(&frames, "frames", 120, "frames to simulate first")
	snapshotCmd.Flags().Float64Var(&radius, "radius", 0, "reveal radius (default fully revealed)")
	snapshotCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "output width in pixels")
	snapshotCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "output height in pixels")
	snapshotCmd.Flags().BoolVar(&overlay, "overlay", false, "draw centers, headings and reveal rings")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "simulate headless and save the run",
		RunE:  runRecord,
	}
	recordCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "number of frames")
	recordCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	recordCmd.Flags().BoolVar(&unpaced, "fast", false, "run frames back to back instead of at the frame rate")
	recordCmd.Flags().IntVar(&siteEvery, "site-every", 10, "record site rows every n frames (0 disables)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "record every step of a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one parameter and compare run metrics",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "speed", "parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.2, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 2.0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames per value")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the reveal radius of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	curveCmd := &cobra.Command{
		Use:   "curve",
		Short: "plot a reveal easing curve",
		RunE:  plotCurve,
	}
	curveCmd.Flags().StringVar(&easing, "easing", "in-quart", "easing function")
	curveCmd.Flags().StringVar(&duration, "duration", "3s", "transition duration")
	curveCmd.Flags().Float64Var(&magnitude, "magnitude", 1920, "total change in radius")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames (or sites) as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().BoolVar(&withSites, "sites", false, "export site rows instead of frames")
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	trailsCmd := &cobra.Command{
		Use:   "trails [run_id]",
		Short: "draw recorded site paths as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportTrails,
	}
	trailsCmd.Flags().StringVarP(&outPath, "out", "o", "trails.svg", "SVG output path")
	trailsCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "output width in pixels")
	trailsCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "output height in pixels")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark field rendering",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&frames, "frames", 120, "frames per measurement")
	benchCmd.Flags().IntVar(&runs, "runs", 4, "parallel simulation runs")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the resolved configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(liveCmd, guiCmd, renderCmd, snapshotCmd, recordCmd, scenarioCmd, sweepCmd, listCmd, plotCmd,
		curveCmd, exportCSVCmd, exportJSONCmd, trailsCmd, benchCmd, presetsCmd, initConfigCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	var w io.Writer = os.Stderr
	if cmd.Annotations[interactiveAnnotation] == "true" {
		w = io.Discard
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		w, logSink = f, f
	}

	l, err := newLogger(w, logFormat, logLevel)
	if err != nil {
		return err
	}
	logger = l
	slog.SetDefault(logger)
	return nil
}

func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q", format)
}

// resolveConfig layers defaults, an optional preset, an optional config
// file and explicitly set flags, in that order, and validates the result.
// It returns the config and a name for the run.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "default"

	if presetName != "" {
		p, err := config.LookupPreset(presetName)
		if err != nil {
			return nil, "", err
		}
		cfg, name = p, presetName
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if presetName == "" {
			name = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("sites") {
		cfg.Sites.Count = numSites
	}
	if flags.Changed("palette") {
		cfg.Sites.Palette = palette
	}
	if flags.Changed("origin") {
		cfg.Viewport.Origin = origin
	}
	if flags.Changed("mode") {
		cfg.Reveal.Mode = revealMode
	}
	if flags.Changed("dot-marker") {
		cfg.Render.DotMarker = dotMarker
	}
	if flags.Changed("workers") {
		cfg.Render.Workers = workers
	}
	if flags.Changed("width") {
		cfg.Render.Width = width
	}
	if flags.Changed("height") {
		cfg.Render.Height = height
	}
	if flags.Changed("frames") {
		cfg.Render.Frames = frames
	}
	if flags.Changed("fps") {
		cfg.Render.FPS = fps
		cfg.TUI.FPS = fps
		cfg.GUI.FPS = fps
	}
	if flags.Changed("theme") {
		cfg.TUI.Theme = theme
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}
