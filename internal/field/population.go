package field

import "fmt"

// DefaultSites is the population size used by every preset.
const DefaultSites = 60

// Population is the fixed, ordered set of sites. Order only matters for
// buffer layout and for tie-breaking in Evaluate.
type Population struct {
	sites []Site
}

// NewPopulation places n sites uniformly inside the expanded viewport, each
// with two random headings and a color drawn from palette.
func NewPopulation(n int, vp Viewport, m Motion, rng Rand, palette Palette) (*Population, error) {
	if n <= 0 {
		return nil, &ConfigError{Field: "sites", Value: n, Wrapped: ErrEmptyPopulation}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if palette == nil {
		palette = PaletteUniform
	}

	sites := make([]Site, n)
	for i := range sites {
		sites[i] = NewSite(randomPlacement(vp, m.SideBuffer, rng), palette(rng), rng)
	}
	return &Population{sites: sites}, nil
}

// NewPopulationFromSites wraps an explicit site list, copying it.
func NewPopulationFromSites(sites []Site) (*Population, error) {
	if len(sites) == 0 {
		return nil, &ConfigError{Field: "sites", Value: 0, Wrapped: ErrEmptyPopulation}
	}
	c := make([]Site, len(sites))
	copy(c, sites)
	return &Population{sites: c}, nil
}

// randomPlacement draws integer coordinates in [0, extent + 2*side) shifted
// so the range covers the off-screen margin on both sides.
func randomPlacement(vp Viewport, side float64, rng Rand) Point {
	x := float64(rng.Intn(placementBound(vp.Width, side))) - side
	y := float64(rng.Intn(placementBound(vp.Height, side))) - side
	if vp.Origin == OriginCenter {
		x -= vp.Width / 2
		y -= vp.Height / 2
	}
	return Point{X: x, Y: y}
}

func placementBound(extent, side float64) int {
	b := int(extent + 2*side)
	if b < 1 {
		return 1
	}
	return b
}

func (p *Population) Len() int { return len(p.sites) }

// Site returns a copy of the i-th site.
func (p *Population) Site(i int) Site { return p.sites[i] }

// Sites returns a copy of every site in population order.
func (p *Population) Sites() []Site {
	c := make([]Site, len(p.sites))
	copy(c, p.sites)
	return c
}

// Step advances every site by one tick.
func (p *Population) Step(m Motion, vp Viewport, rng Rand) {
	for i := range p.sites {
		m.Step(&p.sites[i], vp, rng)
	}
}

// Snapshot captures a frame-stable copy of the sites with the given radius.
func (p *Population) Snapshot(frame uint64, radius float64, vp Viewport) Snapshot {
	return Snapshot{
		Frame:    frame,
		Sites:    p.Sites(),
		Radius:   radius,
		Viewport: vp,
	}
}

// Snapshot is the read-only input of one rendered frame.
type Snapshot struct {
	Frame    uint64
	Sites    []Site
	Radius   float64
	Viewport Viewport
}

// Buffers flattens the snapshot into the storage-buffer layout used by
// shader collaborators: two floats per position, four per color with alpha
// forced to one.
func (s Snapshot) Buffers() (positions, colors []float32) {
	positions = make([]float32, len(s.Sites)*2)
	colors = make([]float32, len(s.Sites)*4)
	for i, site := range s.Sites {
		positions[i*2] = float32(site.Position.X)
		positions[i*2+1] = float32(site.Position.Y)

		colors[i*4] = float32(site.Color.R) / 255
		colors[i*4+1] = float32(site.Color.G) / 255
		colors[i*4+2] = float32(site.Color.B) / 255
		colors[i*4+3] = 1
	}
	return positions, colors
}

func (s Snapshot) String() string {
	return fmt.Sprintf("frame %d: %d sites, radius %.2f", s.Frame, len(s.Sites), s.Radius)
}
