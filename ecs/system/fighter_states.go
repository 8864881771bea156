package system

import "github.com/milk9111/brawler/ecs/component"

// Fighter state singletons (avoid allocations on transitions).
var (
	fighterStateIdle component.FighterState = &fighterIdleState{}
	fighterStateMove component.FighterState = &fighterMovingState{}
	fighterStateJump component.FighterState = &fighterJumpingState{}
	fighterStateHit  component.FighterState = &fighterHittingState{}
)

func fighterState(a component.ActionState) component.FighterState {
	switch a {
	case component.ActionMoving:
		return fighterStateMove
	case component.ActionJumping:
		return fighterStateJump
	case component.ActionHitting:
		return fighterStateHit
	default:
		return fighterStateIdle
	}
}

type fighterIdleState struct{}

type fighterMovingState struct{}

type fighterJumpingState struct{}

type fighterHittingState struct{}

// handleActions applies the transitions every state allows: a jump from the
// ground, then a melee strike once its cooldown has elapsed. It reports
// whether a transition happened.
func handleActions(ctx *component.FighterStateContext) bool {
	changed := false
	if ctx.Intent.Jump && ctx.Fighter.OnGround {
		ctx.ChangeState(component.ActionJumping)
		changed = true
	}
	if ctx.Intent.Melee && ctx.Fighter.Melee.Ready(ctx.Now) {
		ctx.ChangeState(component.ActionHitting)
		changed = true
	}
	return changed
}

// settle picks the grounded state a finished action falls back to.
func settle(ctx *component.FighterStateContext) {
	if ctx.Fighter.Moving {
		ctx.ChangeState(component.ActionMoving)
		return
	}
	ctx.ChangeState(component.ActionIdle)
}

func advanceLoop(frame, speed float64, count int) float64 {
	if count <= 0 {
		return 0
	}
	frame += speed
	for frame >= float64(count) {
		frame -= float64(count)
	}
	return frame
}

func (fighterIdleState) State() component.ActionState { return component.ActionIdle }
func (fighterIdleState) Enter(ctx *component.FighterStateContext) {}
func (fighterIdleState) Exit(ctx *component.FighterStateContext)  {}
func (fighterIdleState) HandleIntent(ctx *component.FighterStateContext) {
	moved := ctx.Move(ctx.Intent.Move.Sign())
	if handleActions(ctx) {
		return
	}
	if moved {
		ctx.ChangeState(component.ActionMoving)
	}
}
func (fighterIdleState) Update(ctx *component.FighterStateContext) {
	f := ctx.Fighter
	f.IdleFrame = advanceLoop(f.IdleFrame, f.Tunables.AnimationSpeed, f.Tunables.IdleFrames)
}

func (fighterMovingState) State() component.ActionState { return component.ActionMoving }
func (fighterMovingState) Enter(ctx *component.FighterStateContext) {}
func (fighterMovingState) Exit(ctx *component.FighterStateContext)  {}
func (fighterMovingState) HandleIntent(ctx *component.FighterStateContext) {
	moved := ctx.Move(ctx.Intent.Move.Sign())
	if handleActions(ctx) {
		return
	}
	if !moved {
		ctx.ChangeState(component.ActionIdle)
	}
}
func (fighterMovingState) Update(ctx *component.FighterStateContext) {
	f := ctx.Fighter
	f.RunFrame = advanceLoop(f.RunFrame, f.Tunables.AnimationSpeed, f.Tunables.RunFrames)
}

func (fighterJumpingState) State() component.ActionState { return component.ActionJumping }
func (fighterJumpingState) Enter(ctx *component.FighterStateContext) {
	f := ctx.Fighter
	f.DY = f.Tunables.JumpSpeed
	f.OnGround = false
	f.JumpFrame = 0
}
func (fighterJumpingState) Exit(ctx *component.FighterStateContext) {
	ctx.Fighter.JumpFrame = 0
}
func (fighterJumpingState) HandleIntent(ctx *component.FighterStateContext) {
	ctx.Move(ctx.Intent.Move.Sign())
	handleActions(ctx)
}
func (fighterJumpingState) Update(ctx *component.FighterStateContext) {
	f := ctx.Fighter
	if f.OnGround {
		settle(ctx)
		return
	}
	// the jump clip holds its last frame until landing
	last := float64(f.Tunables.JumpFrames - 1)
	f.JumpFrame += f.Tunables.AnimationSpeed
	if f.JumpFrame > last {
		f.JumpFrame = max(last, 0)
	}
}

func (fighterHittingState) State() component.ActionState { return component.ActionHitting }
func (fighterHittingState) Enter(ctx *component.FighterStateContext) {
	f := ctx.Fighter
	f.Melee.Trigger(ctx.Now)
	f.HitFrame = 0
	ctx.Strike()
}
func (fighterHittingState) Exit(ctx *component.FighterStateContext) {
	ctx.Fighter.HitFrame = 0
}
func (fighterHittingState) HandleIntent(ctx *component.FighterStateContext) {
	ctx.Move(ctx.Intent.Move.Sign())
	handleActions(ctx)
}
func (fighterHittingState) Update(ctx *component.FighterStateContext) {
	f := ctx.Fighter
	f.HitFrame += f.Tunables.AnimationSpeed
	if f.HitFrame >= float64(f.Tunables.HitFrames) {
		settle(ctx)
	}
}
