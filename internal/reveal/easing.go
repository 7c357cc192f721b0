package reveal

import (
	"fmt"
	"sort"
	"strings"
)

// Easing reshapes linear progress t in [0, 1].
type Easing func(t float64) float64

func Linear(t float64) float64 { return t }

func EaseInQuart(t float64) float64 { return t * t * t * t }

func EaseOutQuart(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u*u
}

func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

var easings = map[string]Easing{
	"linear":         Linear,
	"in-quart":       EaseInQuart,
	"out-quart":      EaseOutQuart,
	"in-out-cubic":   EaseInOutCubic,
	"ease-in-quart":  EaseInQuart,
	"ease-out-quart": EaseOutQuart,
}

// ParseEasing returns the easing registered under name.
func ParseEasing(name string) (Easing, error) {
	e, ok := easings[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownEasing, name, EasingNames())
	}
	return e, nil
}

func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for n := range easings {
		if strings.HasPrefix(n, "ease-") {
			continue
		}
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
