package component

// Animation is the read-only view the renderer consumes: which sheet, which
// clip of it, which frame, and whether to mirror it horizontally.
type Animation struct {
	Sheet    string
	Clip     string
	Frame    int
	Mirrored bool
}

var AnimationComponent = NewComponent[Animation]("animation")
