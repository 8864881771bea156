package arena

import (
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
)

// FighterView is the read-only state of one fighter.
type FighterView struct {
	ID        string  `json:"id"`
	Side      string  `json:"side"`
	Character string  `json:"character"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"w"`
	Height    float64 `json:"h"`
	Health    int     `json:"health"`
	Facing    string  `json:"facing"`
	State     string  `json:"state"`
	OnGround  bool    `json:"on_ground"`
	Clip      string  `json:"clip"`
	Frame     int     `json:"frame"`
	Mirrored  bool    `json:"mirrored"`
}

// ProjectileView is the read-only state of one shot.
type ProjectileView struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"w"`
	Height   float64 `json:"h"`
	Type     string  `json:"type"`
	Owner    string  `json:"owner"`
	Frame    int     `json:"frame"`
	Mirrored bool    `json:"mirrored"`
}

// Snapshot is everything a renderer or a network peer needs for one frame.
type Snapshot struct {
	Round       int              `json:"round"`
	Remaining   float64          `json:"remaining"`
	Fighters    [2]FighterView   `json:"fighters"`
	Projectiles []ProjectileView `json:"projectiles"`
	Over        bool             `json:"over"`
	Winner      string           `json:"winner,omitempty"`
}

// Snapshot copies the current round state.
func (a *Arena) Snapshot() Snapshot {
	s := Snapshot{
		Round:     a.round,
		Remaining: a.Remaining().Seconds(),
		Over:      a.over,
	}
	if a.over {
		s.Winner = a.outcome.Winner.String()
	}
	for i, e := range a.fighters {
		s.Fighters[i] = fighterView(a.world, e)
	}
	ecs.ForEach3(a.world, component.ProjectileComponent.Kind(), component.TransformComponent.Kind(), component.BodyComponent.Kind(), func(e ecs.Entity, p *component.Projectile, t *component.Transform, b *component.Body) {
		s.Projectiles = append(s.Projectiles, ProjectileView{
			X:        t.Pos.X,
			Y:        t.Pos.Y,
			Width:    b.Width,
			Height:   b.Height,
			Type:     p.Type,
			Owner:    p.OwnerSide.String(),
			Frame:    p.Frame,
			Mirrored: p.Mirrored,
		})
	})
	return s
}

func fighterView(w *ecs.World, e ecs.Entity) FighterView {
	var v FighterView
	if f, ok := ecs.Get(w, e, component.FighterComponent.Kind()); ok {
		v.ID = f.ID
		v.Side = f.Side.String()
		v.Character = f.Character
		v.Health = f.Health
		v.Facing = f.Facing.String()
		v.State = f.State.String()
		v.OnGround = f.OnGround
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		v.X, v.Y = t.Pos.X, t.Pos.Y
	}
	if b, ok := ecs.Get(w, e, component.BodyComponent.Kind()); ok {
		v.Width, v.Height = b.Width, b.Height
	}
	if anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind()); ok {
		v.Clip, v.Frame, v.Mirrored = anim.Clip, anim.Frame, anim.Mirrored
	}
	return v
}
