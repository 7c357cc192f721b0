// Package viz renders the closest-site field in a terminal.
//
// The field is drawn with upper half blocks: every terminal cell shows two
// vertically stacked samples, the top one as foreground and the bottom one
// as background. A status panel on the right shows the reveal phase and
// frame timing.
//
//   - [Model]: live view of one simulator
//   - [HalfBlocks]: raster to styled half-block text
//   - Theme selection with built-in color schemes for the panel
//
// # Key Bindings
//
//	Space - Pause/Resume site motion
//	R     - Restart the reveal (ignored while animating)
//	G     - Toggle GIF recording
//	S     - Save a PNG snapshot with the debug overlay
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
//
// # Recording
//
// G starts capturing every rendered frame; pressing it again writes the
// animation to the configured GIF path.
package viz
