package main

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	MobDetectRange    = 16.0 // blocks
	MobDetectRangeSq  = MobDetectRange * MobDetectRange
	MobTurnRate       = 0.35 // max radians per tick when chasing
	MobWanderTurn     = 0.1  // max radians per tick when idle
	MobWanderDrift    = 0.15 // max radians per tick the wander angle changes
	MobWanderSpeed    = 0.5  // fraction of full speed when idle
	MobStopDistance   = 1.2  // close enough to a chase target to stop
	PetFollowDistance = 3.0  // tamed animals close in beyond this
)

// UpdateCreatures runs one tick of AI for every living non-player entity
func UpdateCreatures(w *World) {
	for _, e := range w.Entities() {
		if !e.Alive() || e.Kind == KindPlayer {
			continue
		}
		updateCreature(w, e)
	}
}

func updateCreature(w *World, e *Entity) {
	switch {
	case e.IsMonster() && e.Neutral:
		// Neutral monsters only chase whoever provoked them
		target, ok := w.Resolve(e.TargetID)
		if !ok {
			e.TargetID = NoEntity
			wander(w, e)
			return
		}
		chase(w, e, target.Pos, MobStopDistance)

	case e.IsMonster():
		target := nearestPlayer(w, e)
		if target == nil {
			e.TargetID = NoEntity
			wander(w, e)
			return
		}
		e.TargetID = target.ID
		chase(w, e, target.Pos, MobStopDistance)

	default:
		if owner, ok := w.Resolve(e.TamedBy); ok {
			chase(w, e, owner.Pos, PetFollowDistance)
			return
		}
		wander(w, e)
	}
}

// nearestPlayer returns the closest living player within detect range
func nearestPlayer(w *World, e *Entity) *Entity {
	var best *Entity
	bestDist := math.MaxFloat64
	for _, p := range w.Entities() {
		if p.Kind != KindPlayer || !p.Alive() {
			continue
		}
		d2 := p.Pos.Sub(e.Pos).LenSqr()
		if d2 < MobDetectRangeSq && d2 < bestDist {
			bestDist = d2
			best = p
		}
	}
	return best
}

// chase turns toward dest and steps at full speed until within stop blocks
func chase(w *World, e *Entity, dest mgl64.Vec3, stop float64) {
	d := horizontal(dest.Sub(e.Pos))
	if d.Len() <= stop {
		return
	}
	desired := math.Atan2(d.Z(), d.X())
	e.Heading = turnToward(e.Heading, desired, MobTurnRate)
	e.WanderAngle = e.Heading
	step(w, e, e.Speed)
}

// wander drifts the wander angle gently, then turns toward it
func wander(w *World, e *Entity) {
	if e.Speed <= 0 {
		return
	}
	e.WanderAngle = NormalizeAngle(e.WanderAngle + (rand.Float64()*2-1)*MobWanderDrift)
	e.Heading = turnToward(e.Heading, e.WanderAngle, MobWanderTurn)
	if !step(w, e, e.Speed*MobWanderSpeed) {
		// Blocked: pick the opposite direction next time
		e.WanderAngle = NormalizeAngle(e.WanderAngle + math.Pi)
	}
}

// step moves the entity along its heading on the X/Z plane. It reports
// false when terrain or the arena edge stops the move.
func step(w *World, e *Entity, dist float64) bool {
	next := e.Pos.Add(mgl64.Vec3{math.Cos(e.Heading) * dist, 0, math.Sin(e.Heading) * dist})
	hw := e.Width / 2
	if next.X() < hw || next.X() > ArenaSize-hw || next.Z() < hw || next.Z() > ArenaSize-hw {
		return false
	}
	// shrunk so standing on a block does not count as colliding with it
	moved := e.Bounds().Move(next.Sub(e.Pos)).Inflate(-1e-3, -1e-3, -1e-3)
	for _, b := range w.Terrain() {
		if moved.Intersects(b) {
			return false
		}
	}
	w.Move(e, next)
	return true
}
