package component

import "github.com/jakecoffman/cp"

// Transform is the top-left corner of an entity in screen space.
type Transform struct {
	Pos cp.Vector
}

var TransformComponent = NewComponent[Transform]("transform")
