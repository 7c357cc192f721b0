package storage

import (
	"github.com/san-kum/voronoi/internal/field"
)

// FrameRecord is one row of frames.csv.
type FrameRecord struct {
	Frame  uint64  `csv:"frame" json:"frame"`
	Radius float64 `csv:"radius" json:"radius"`
	Phase  string  `csv:"phase" json:"phase"`
	Width  float64 `csv:"width" json:"width"`
	Height float64 `csv:"height" json:"height"`
}

// SiteRecord is one row of sites.csv.
type SiteRecord struct {
	Frame   uint64  `csv:"frame" json:"frame"`
	Index   int     `csv:"index" json:"index"`
	X       float64 `csv:"x" json:"x"`
	Y       float64 `csv:"y" json:"y"`
	Heading float64 `csv:"heading" json:"heading"`
	Target  float64 `csv:"target_heading" json:"target_heading"`
	Color   string  `csv:"color" json:"color"`
}

// Recorder collects frame and site rows as a frame observer.
type Recorder struct {
	// SiteEvery samples site rows every n frames; 0 disables them.
	SiteEvery int
	// Phase, when set, labels each frame row.
	Phase func() string

	Frames []FrameRecord
	Sites  []SiteRecord
}

func NewRecorder(siteEvery int, phase func() string) *Recorder {
	return &Recorder{SiteEvery: siteEvery, Phase: phase}
}

func (r *Recorder) OnFrame(snap field.Snapshot) {
	rec := FrameRecord{
		Frame:  snap.Frame,
		Radius: snap.Radius,
		Width:  snap.Viewport.Width,
		Height: snap.Viewport.Height,
	}
	if r.Phase != nil {
		rec.Phase = r.Phase()
	}
	r.Frames = append(r.Frames, rec)

	if r.SiteEvery <= 0 || snap.Frame%uint64(r.SiteEvery) != 0 {
		return
	}
	for i, s := range snap.Sites {
		r.Sites = append(r.Sites, SiteRecord{
			Frame:   snap.Frame,
			Index:   i,
			X:       s.Position.X,
			Y:       s.Position.Y,
			Heading: s.Heading.Current,
			Target:  s.Heading.Target,
			Color:   field.HexColor(s.Color),
		})
	}
}

// Radii returns the radius column.
func Radii(frames []FrameRecord) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = f.Radius
	}
	return out
}

// SitesAt rebuilds the site list recorded for frame.
func SitesAt(rows []SiteRecord, frame uint64) ([]field.Site, error) {
	var sites []field.Site
	for _, row := range rows {
		if row.Frame != frame {
			continue
		}
		c, err := field.ParseHexColor(row.Color)
		if err != nil {
			return nil, err
		}
		sites = append(sites, field.Site{
			Position: field.Point{X: row.X, Y: row.Y},
			Heading:  field.Heading{Current: row.Heading, Target: row.Target},
			Color:    c,
		})
	}
	return sites, nil
}
