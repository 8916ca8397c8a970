// Package emitter implements a particle fountain: short-lived spheres that
// fall under gravity, feel air drag and bounce off a ground plane.
package emitter
