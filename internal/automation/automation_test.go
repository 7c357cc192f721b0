package automation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/voronoi/internal/config"
	"github.com/san-kum/voronoi/internal/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSetParam(t *testing.T) {
	cfg := config.DefaultConfig()
	if err := SetParam(cfg, "speed", 1.5); err != nil {
		t.Fatal(err)
	}
	if cfg.Motion.Speed != 1.5 {
		t.Errorf("expected speed 1.5, got %f", cfg.Motion.Speed)
	}
	if err := SetParam(cfg, "sites", 12); err != nil {
		t.Fatal(err)
	}
	if cfg.Sites.Count != 12 {
		t.Errorf("expected 12 sites, got %d", cfg.Sites.Count)
	}
	if err := SetParam(cfg, "gravity", 1); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

const scenarioYAML = `
name: smoke
description: two quick recordings
steps:
  - preset: classic
    frames: 20
    seed: 3
    site_every: 5
    params:
      sites: 8
  - preset: classic
    frames: 10
    seed: 4
    save_as: slow
    params:
      speed: 0.1
`

func TestLoadAndRunScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "smoke.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "smoke" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}

	store := storage.New(filepath.Join(dir, "runs"))
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	recs, err := RunScenario(context.Background(), sc, store, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recordings, got %d", len(recs))
	}
	if recs[0].Result.Frames != 20 || recs[1].Result.Frames != 10 {
		t.Errorf("unexpected frame counts %d, %d", recs[0].Result.Frames, recs[1].Result.Frames)
	}

	meta, err := store.Load(recs[0].RunID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Sites != 8 || meta.Seed != 3 || meta.Mode != "step" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	sites, err := store.LoadSites(recs[0].RunID)
	if err != nil {
		t.Fatal(err)
	}
	// frames 5, 10, 15, 20 with 8 sites each
	if len(sites) != 32 {
		t.Errorf("expected 32 site rows, got %d", len(sites))
	}

	second, err := store.Load(recs[1].RunID)
	if err != nil {
		t.Fatal(err)
	}
	if second.Preset != "slow" {
		t.Errorf("expected save_as name, got %s", second.Preset)
	}
}

func TestScenarioStepErrors(t *testing.T) {
	tests := []struct {
		name string
		step ScenarioStep
	}{
		{"unknown preset", ScenarioStep{Preset: "nope", Frames: 5}},
		{"unknown param", ScenarioStep{Preset: "classic", Frames: 5, Params: map[string]float64{"mass": 1}}},
		{"invalid value", ScenarioStep{Preset: "classic", Frames: 5, Params: map[string]float64{"speed": -1}}},
	}
	store := storage.New(t.TempDir())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := &Scenario{Steps: []ScenarioStep{tt.step}}
			recs, err := RunScenario(context.Background(), sc, store, quietLogger())
			if err == nil {
				t.Error("expected error")
			}
			if len(recs) != 0 {
				t.Errorf("expected no recordings, got %d", len(recs))
			}
		})
	}
}

func TestLoadScenarioEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("name: empty\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(path); !errors.Is(err, ErrEmptyScenario) {
		t.Errorf("expected ErrEmptyScenario, got %v", err)
	}
}

func TestRunSweep(t *testing.T) {
	base := config.GetPreset("classic")
	base.Sites.Count = 10
	base.Reveal.MaxRadius = 20
	base.Reveal.StepSize = 5

	results, err := RunSweep(context.Background(), base, Sweep{
		Param: "speed", Min: 0.5, Max: 1.5, Steps: 3, Frames: 10,
	}, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	want := []float64{0.5, 1.0, 1.5}
	for i, r := range results {
		if r.Value != want[i] {
			t.Errorf("result %d: expected value %v, got %v", i, want[i], r.Value)
		}
		// radius 5, 10, 15, 20 settles on the fourth frame
		if r.RevealFrames != 4 {
			t.Errorf("result %d: expected reveal at frame 4, got %v", i, r.RevealFrames)
		}
		if r.Spread <= 0 {
			t.Errorf("result %d: expected positive spread, got %v", i, r.Spread)
		}
	}
	if base.Motion.Speed != config.GetPreset("classic").Motion.Speed {
		t.Error("sweep must not modify the base config")
	}
}

func TestRunSweepErrors(t *testing.T) {
	base := config.GetPreset("classic")
	if _, err := RunSweep(context.Background(), base, Sweep{Param: "speed", Min: 1, Max: 2, Steps: 1, Frames: 5}, nil); !errors.Is(err, ErrInvalidSweep) {
		t.Errorf("expected ErrInvalidSweep, got %v", err)
	}
	if _, err := RunSweep(context.Background(), base, Sweep{Param: "mass", Min: 1, Max: 2, Steps: 2, Frames: 5}, nil); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
	_, err := RunSweep(context.Background(), base, Sweep{Param: "speed", Min: -1, Max: 1, Steps: 2, Frames: 5}, quietLogger())
	var cfgErr interface{ Unwrap() error }
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected wrapped config error, got %v", err)
	}
}
