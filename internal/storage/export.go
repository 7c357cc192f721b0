package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/gocarina/gocsv"
)

type ExportData struct {
	Meta   RunMetadata   `json:"meta"`
	Frames []FrameRecord `json:"frames"`
	Sites  []SiteRecord  `json:"sites,omitempty"`
}

// ExportJSON writes a whole run as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}
	sites, err := s.LoadSites(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Meta: *meta, Frames: frames, Sites: sites})
}

func (s *Store) ExportJSONFile(path, runID string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.ExportJSON(f, runID)
}

// ExportFramesCSV writes the frame rows of a run to w.
func (s *Store) ExportFramesCSV(w io.Writer, runID string) error {
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}
	return gocsv.Marshal(frames, w)
}
