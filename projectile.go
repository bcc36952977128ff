package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	SeekerBaseDamage = 1.0
	SeekerMaxPower   = 3.0 // blocks per tick at full draw
	SeekerSpawnDrop  = 0.1 // spawn just below the shooter's eyes
)

// TrailMarker is one cosmetic point of a seeker's trail
type TrailMarker struct {
	Pos mgl64.Vec3
	Vel mgl64.Vec3
}

// Seeker is a homing arrow. The target is held by ID and re-resolved
// against the world every tick.
type Seeker struct {
	ID          string
	OwnerID     EntityID
	Pos         mgl64.Vec3
	Vel         mgl64.Vec3 // blocks per tick
	InGround    bool
	TargetID    EntityID
	Damage      float64
	Age         int
	GroundTicks int
	Alive       bool
	Trail       []TrailMarker
}

// lookDirection converts yaw/pitch (radians, yaw 0 = +Z, positive pitch looks down) to a unit vector
func lookDirection(yaw, pitch float64) mgl64.Vec3 {
	return mgl64.Vec3{
		-math.Sin(yaw) * math.Cos(pitch),
		-math.Sin(pitch),
		math.Cos(yaw) * math.Cos(pitch),
	}
}

// NewSeeker fires a seeker from the shooter's eyes
func NewSeeker(shooter *Entity, yaw, pitch, power float64) *Seeker {
	power = Clamp(power, 0, SeekerMaxPower)
	pos := shooter.EyePos().Sub(mgl64.Vec3{0, SeekerSpawnDrop, 0})
	return &Seeker{
		ID:       GenerateID(4),
		OwnerID:  shooter.ID,
		Pos:      pos,
		Vel:      lookDirection(yaw, pitch).Mul(power),
		TargetID: NoEntity,
		Damage:   SeekerBaseDamage,
		Alive:    true,
	}
}

// InFlight reports whether the seeker is airborne and fast enough to steer
func (s *Seeker) InFlight(p SeekerParams) bool {
	return !s.InGround && s.Vel.LenSqr() > p.MinSpeedSq
}

// emitTrail samples marker points along this tick's displacement
func (s *Seeker) emitTrail(p SeekerParams) {
	s.Trail = s.Trail[:0]
	if s.InGround || p.TrailMarkers <= 0 {
		return
	}
	n := float64(p.TrailMarkers)
	back := mgl64.Vec3{-s.Vel.X(), -s.Vel.Y() + p.TrailLift, -s.Vel.Z()}
	for i := 0; i < p.TrailMarkers; i++ {
		s.Trail = append(s.Trail, TrailMarker{
			Pos: s.Pos.Add(s.Vel.Mul(float64(i) / n)),
			Vel: back,
		})
	}
}

// Move advances the seeker one tick of ballistic flight. It returns the
// entity struck this tick, if any; a struck seeker is consumed.
func (s *Seeker) Move(w *World, b BallisticParams) *Entity {
	if !s.Alive {
		return nil
	}
	if s.InGround {
		s.GroundTicks++
		if s.GroundTicks >= b.GroundLifetime {
			s.Alive = false
		}
		return nil
	}

	s.Age++
	if s.Age >= b.Lifetime {
		s.Alive = false
		return nil
	}

	from := s.Pos
	to := s.Pos.Add(s.Vel)

	terrainT, blocked := w.clipTerrain(from, to)
	if !blocked && to.Y() < 0 && from.Y() >= 0 {
		terrainT = from.Y() / (from.Y() - to.Y())
		blocked = true
	}

	if hit, t := w.firstEntityOnSegment(from, to, b.HitPadding, s.OwnerID); hit != nil && (!blocked || t <= terrainT) {
		s.Pos = from.Add(s.Vel.Mul(t))
		s.Alive = false
		return hit
	}

	if blocked {
		s.Pos = from.Add(s.Vel.Mul(terrainT))
		s.Vel = mgl64.Vec3{}
		s.InGround = true
		s.TargetID = NoEntity
		return nil
	}

	s.Pos = to
	if !arenaBounds.Contains(s.Pos) {
		s.Alive = false
		return nil
	}
	s.Vel = s.Vel.Mul(b.Drag).Sub(Up.Mul(b.Gravity))
	return nil
}

// ToState converts to protocol state
func (s *Seeker) ToState() SeekerState {
	return SeekerState{
		ID:     s.ID,
		X:      round2(s.Pos.X()),
		Y:      round2(s.Pos.Y()),
		Z:      round2(s.Pos.Z()),
		VX:     round2(s.Vel.X()),
		VY:     round2(s.Vel.Y()),
		VZ:     round2(s.Vel.Z()),
		Owner:  int32(s.OwnerID),
		Target: int32(s.TargetID),
		Ground: s.InGround,
	}
}
