// Package field provides the core primitives of the closest-site field.
//
// The package defines the moving sites and the per-sample evaluator:
//
//   - [Site]: a moving colored point with an eased heading
//   - [Population]: the fixed, ordered set of sites
//   - [Motion]: per-tick translation, heading easing and boundary wrap
//   - [Evaluate]: brute-force nearest-site decision for one sample
//   - [Renderer]: parallel evaluation of every sample into a [Raster]
//
// # Example
//
//	vp := field.NewViewport(1280, 720, field.OriginCorner)
//	pop, _ := field.NewPopulation(60, vp, motion, rng, field.PaletteHappy)
//	for frame := range uint64(frames) {
//	    pop.Step(motion, vp, rng)
//	    r.Render(raster, pop.Snapshot(frame, radius, vp))
//	}
//
// # Thread Safety
//
// Sites are mutated only by [Population.Step]. A [Snapshot] is an immutable
// copy and may be read from any number of goroutines, which is what the
// [Renderer] does.
package field
