// Package scene builds the named scenarios the simulator and viewers run:
// cloth, fountain, bounce, stack and pendulum.
package scene
