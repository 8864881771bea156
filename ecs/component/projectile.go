package component

// Projectile is a straight-moving shot. Owner is the raw entity handle of
// the fighter that fired it; a projectile never damages its owner.
type Projectile struct {
	VX        float64
	Owner     uint64
	OwnerSide Side
	Type      string
	Damage    int

	Frame      int
	FrameCount int
	// Mirrored is set for shots travelling left.
	Mirrored bool
}

var ProjectileComponent = NewComponent[Projectile]("projectile")
