package main

import "github.com/go-gl/mathgl/mgl64"

// EntityID identifies a living entity within one world.
// Negative values never resolve.
type EntityID int32

// NoEntity is the "no target" / "no owner" sentinel
const NoEntity EntityID = -1

// Valid reports whether the ID could name an entity
func (id EntityID) Valid() bool {
	return id >= 0
}

// Entity is a living creature in the arena
type Entity struct {
	ID        EntityID
	Name      string
	Species   string
	Kind      EntityKind
	Pos       mgl64.Vec3 // feet position
	Heading   float64    // radians on the X/Z plane, 0 = +X
	Width     float64
	Height    float64
	EyeHeight float64
	Speed     float64
	HP        int
	MaxHP     int
	Neutral   bool
	TamedBy   EntityID
	TargetID  EntityID // the creature's own current target (monsters)

	WanderAngle float64 // desired heading when idle
}

// NewEntity builds an entity from a species definition
func NewEntity(id EntityID, species, name string, def SpeciesDef, pos mgl64.Vec3) *Entity {
	if name == "" {
		name = species
	}
	return &Entity{
		ID:        id,
		Name:      name,
		Species:   species,
		Kind:      def.Kind,
		Pos:       pos,
		Width:     def.Width,
		Height:    def.Height,
		EyeHeight: def.EyeHeight,
		Speed:     def.Speed,
		HP:        def.MaxHP,
		MaxHP:     def.MaxHP,
		Neutral:   def.Neutral,
		TamedBy:   NoEntity,
		TargetID:  NoEntity,
	}
}

// Alive reports whether the entity still has health
func (e *Entity) Alive() bool {
	return e.HP > 0
}

// IsMonster reports whether the entity is classified hostile
func (e *Entity) IsMonster() bool {
	return e.Kind == KindMonster
}

// EyePos returns the point targeting aims at
func (e *Entity) EyePos() mgl64.Vec3 {
	return e.Pos.Add(mgl64.Vec3{0, e.EyeHeight, 0})
}

// Bounds returns the entity's collision box
func (e *Entity) Bounds() Box {
	hw := e.Width / 2
	return Box{
		Min: mgl64.Vec3{e.Pos.X() - hw, e.Pos.Y(), e.Pos.Z() - hw},
		Max: mgl64.Vec3{e.Pos.X() + hw, e.Pos.Y() + e.Height, e.Pos.Z() + hw},
	}
}

// Kill drops health to zero
func (e *Entity) Kill() {
	e.HP = 0
}

// ToState converts to protocol state
func (e *Entity) ToState() EntityState {
	return EntityState{
		ID:      int32(e.ID),
		Name:    e.Name,
		Species: e.Species,
		X:       round2(e.Pos.X()),
		Y:       round2(e.Pos.Y()),
		Z:       round2(e.Pos.Z()),
		HP:      e.HP,
		Target:  int32(e.TargetID),
		TamedBy: int32(e.TamedBy),
	}
}
