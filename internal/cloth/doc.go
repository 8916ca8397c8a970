// Package cloth simulates a rectangular mass-spring sheet pinned along its
// top row, with per-triangle aerodynamic drag and a ground plane.
package cloth
