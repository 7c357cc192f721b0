package field

import "math"

// DecisionKind classifies the color of one sample.
type DecisionKind uint8

const (
	// Background means no site is within the reveal radius.
	Background DecisionKind = iota
	// SiteColor means the sample takes the color of the nearest site.
	SiteColor
	// Marker means the sample is inside a site's dot core.
	Marker
)

func (k DecisionKind) String() string {
	switch k {
	case SiteColor:
		return "site"
	case Marker:
		return "marker"
	default:
		return "background"
	}
}

// Decision is the result of evaluating one sample. Index is the nearest
// site for SiteColor, the site whose core was hit for Marker, and -1 for
// Background.
type Decision struct {
	Kind  DecisionKind
	Index int
}

// EvalOptions enables the dot-marker variant.
type EvalOptions struct {
	DotMarker bool
	DotRadius float64
}

// Evaluate returns the decision for sample p: the color of the nearest site
// when it lies strictly closer than radius, Background otherwise. Ties go to
// the first minimal index in population order.
func Evaluate(p Point, sites []Site, radius float64) Decision {
	return EvaluateWith(p, sites, radius, EvalOptions{})
}

// EvaluateWith is Evaluate with the optional dot-marker short circuit: the
// first site found closer than opts.DotRadius wins regardless of the
// nearest-site rule.
func EvaluateWith(p Point, sites []Site, radius float64, opts EvalOptions) Decision {
	if len(sites) == 0 {
		return Decision{Kind: Background, Index: -1}
	}

	nearest := 0
	best := math.Inf(1)
	for i := range sites {
		dx := p.X - sites[i].Position.X
		dy := p.Y - sites[i].Position.Y
		d := math.Sqrt(dx*dx + dy*dy)

		if d < best {
			best = d
			nearest = i
		}

		if opts.DotMarker && d < opts.DotRadius {
			return Decision{Kind: Marker, Index: i}
		}
	}

	if best < radius {
		return Decision{Kind: SiteColor, Index: nearest}
	}
	return Decision{Kind: Background, Index: -1}
}
