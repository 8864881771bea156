package component

import "github.com/jakecoffman/cp"

// Body is the axis-aligned box an entity occupies, anchored at its
// transform. Silhouette, when set, refines overlap tests to opaque pixels.
type Body struct {
	Width      float64
	Height     float64
	Silhouette *Silhouette
}

// Box returns the world-space bounding box (L/R horizontal, B top, T bottom).
func (b Body) Box(pos cp.Vector) cp.BB {
	return cp.BB{L: pos.X, B: pos.Y, R: pos.X + b.Width, T: pos.Y + b.Height}
}

// Center returns the world-space center of the body.
func (b Body) Center(pos cp.Vector) cp.Vector {
	return cp.Vector{X: pos.X + b.Width/2, Y: pos.Y + b.Height/2}
}

var BodyComponent = NewComponent[Body]("body")
