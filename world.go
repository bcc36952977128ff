package main

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// SightRange is the maximum distance a creature can see a point from its eyes
const SightRange = 128.0

// WorldQuery is the read-only view the targeting core needs
type WorldQuery interface {
	// LivingInBox returns living entities whose bounds intersect the box, ordered by ID
	LivingInBox(b Box) []*Entity
	// Resolve maps an ID to a living entity
	Resolve(id EntityID) (*Entity, bool)
	// HasLineOfSight reports whether terrain leaves a clear line from the entity's eyes to p
	HasLineOfSight(from *Entity, p mgl64.Vec3) bool
}

// World holds the living entities and terrain of one arena
type World struct {
	entities map[EntityID]*Entity
	terrain  []Box
	grid     *SpatialGrid
	dirty    bool
	nextID   EntityID
}

// NewWorld creates an empty world
func NewWorld() *World {
	return &World{
		entities: make(map[EntityID]*Entity),
		grid:     NewSpatialGrid(),
	}
}

// Spawn creates an entity of the given species at pos
func (w *World) Spawn(species, name string, pos mgl64.Vec3) (*Entity, bool) {
	def, ok := LookupSpecies(species)
	if !ok {
		return nil, false
	}
	e := NewEntity(w.nextID, species, name, def, pos)
	w.nextID++
	w.entities[e.ID] = e
	w.dirty = true
	return e, true
}

// Remove deletes an entity. Held references to its ID stop resolving.
func (w *World) Remove(id EntityID) bool {
	if _, ok := w.entities[id]; !ok {
		return false
	}
	delete(w.entities, id)
	w.dirty = true
	return true
}

// Get returns an entity by ID, dead or alive
func (w *World) Get(id EntityID) (*Entity, bool) {
	e, ok := w.entities[id]
	return e, ok
}

// Move relocates an entity and invalidates the broad-phase index
func (w *World) Move(e *Entity, pos mgl64.Vec3) {
	e.Pos = pos
	w.dirty = true
}

// AddTerrain adds a solid block volume
func (w *World) AddTerrain(b Box) {
	w.terrain = append(w.terrain, b)
}

// Terrain returns the solid volumes
func (w *World) Terrain() []Box {
	return w.terrain
}

// Count returns the number of entities, dead or alive
func (w *World) Count() int {
	return len(w.entities)
}

// Entities returns all entities ordered by ID
func (w *World) Entities() []*Entity {
	list := make([]*Entity, 0, len(w.entities))
	for _, e := range w.entities {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// RemoveDead drops every entity with no health left and returns their IDs
func (w *World) RemoveDead() []EntityID {
	var removed []EntityID
	for id, e := range w.entities {
		if !e.Alive() {
			delete(w.entities, id)
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		w.dirty = true
	}
	return removed
}

func (w *World) reindex() {
	w.grid.Clear()
	for id, e := range w.entities {
		w.grid.Insert(e.Bounds(), id)
	}
	w.dirty = false
}

// Resolve maps an ID to a living entity. Negative, unknown and dead IDs fail.
func (w *World) Resolve(id EntityID) (*Entity, bool) {
	if !id.Valid() {
		return nil, false
	}
	e, ok := w.entities[id]
	if !ok || !e.Alive() {
		return nil, false
	}
	return e, true
}

// LivingInBox returns a fresh, ID-ordered slice so callers can filter and sort it freely
func (w *World) LivingInBox(b Box) []*Entity {
	if w.dirty {
		w.reindex()
	}
	ids := w.grid.Query(b)
	out := make([]*Entity, 0, len(ids))
	for _, id := range ids {
		e, ok := w.entities[id]
		if !ok || !e.Alive() {
			continue
		}
		if e.Bounds().Intersects(b) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// HasLineOfSight reports whether no terrain blocks the segment from the
// entity's eyes to p, within SightRange
func (w *World) HasLineOfSight(from *Entity, p mgl64.Vec3) bool {
	if from == nil {
		return false
	}
	eye := from.EyePos()
	if p.Sub(eye).Len() > SightRange {
		return false
	}
	_, blocked := w.clipTerrain(eye, p)
	return !blocked
}

// clipTerrain returns the nearest entry fraction where from->to enters terrain
func (w *World) clipTerrain(from, to mgl64.Vec3) (float64, bool) {
	best := 2.0
	hit := false
	for _, b := range w.terrain {
		if t, ok := b.ClipSegment(from, to); ok && t < best {
			best = t
			hit = true
		}
	}
	return best, hit
}

// firstEntityOnSegment returns the nearest living entity whose bounds,
// grown by pad, the segment crosses. skip is ignored.
func (w *World) firstEntityOnSegment(from, to mgl64.Vec3, pad float64, skip EntityID) (*Entity, float64) {
	span := NewBox(from, to).Inflate(pad+2, pad+2, pad+2)
	var best *Entity
	bestT := 2.0
	for _, e := range w.LivingInBox(span) {
		if e.ID == skip {
			continue
		}
		if t, ok := e.Bounds().Inflate(pad, pad, pad).ClipSegment(from, to); ok && t < bestT {
			best = e
			bestT = t
		}
	}
	return best, bestT
}
