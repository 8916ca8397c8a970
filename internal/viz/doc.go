// Package viz draws running scenarios in the terminal with Bubble Tea.
//
//   - [Menu]: scenario and preset picker
//   - [Model]: live view of one scenario with parameter tuning
//   - [Canvas]: braille dot canvas, 2x4 dots per cell
//   - [Camera] and [Wireframe]: perspective projection of meshes and boxes
//
// # Key Bindings
//
//	Space - Pause/Resume
//	.     - Single step while paused
//	R     - Reset state and parameters
//	Tab   - Select parameter, Up/Down to tune
//	G     - Toggle GIF recording
//	T     - Cycle themes
//	?     - Help overlay
package viz
