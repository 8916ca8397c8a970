// Package gui is a raylib window for watching scenarios in 3D. Cloth is
// drawn as a shaded double-sided mesh, emitters and bounce bodies as
// spheres, stacks as oriented box outlines.
package gui
