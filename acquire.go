package main

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// AcquirePass names the stage that produced a target
type AcquirePass int

const (
	PassNone        AcquirePass = 0
	PassRetaliation AcquirePass = 1 // monster already attacking the shooter
	PassHostile     AcquirePass = 2 // visible aggressive monster
	PassHeading     AcquirePass = 3 // best-aligned non-monster
	PassHeld        AcquirePass = 4 // a live target was already held
)

func (p AcquirePass) String() string {
	switch p {
	case PassRetaliation:
		return "retaliation"
	case PassHostile:
		return "hostile"
	case PassHeading:
		return "heading"
	case PassHeld:
		return "held"
	default:
		return "none"
	}
}

// candidateFilter keeps a candidate when it returns true
type candidateFilter func(*Entity) bool

// filterCandidates returns the candidates every filter keeps, preserving order
func filterCandidates(in []*Entity, keep ...candidateFilter) []*Entity {
	out := make([]*Entity, 0, len(in))
next:
	for _, e := range in {
		for _, k := range keep {
			if !k(e) {
				continue next
			}
		}
		out = append(out, e)
	}
	return out
}

// rankCandidates sorts by descending score; equal scores keep their order
func rankCandidates(in []*Entity, score func(*Entity) float64) []*Entity {
	type scored struct {
		e *Entity
		s float64
	}
	tmp := make([]scored, len(in))
	for i, e := range in {
		tmp[i] = scored{e, score(e)}
	}
	sort.SliceStable(tmp, func(i, j int) bool { return tmp[i].s > tmp[j].s })
	out := make([]*Entity, len(tmp))
	for i := range tmp {
		out[i] = tmp[i].e
	}
	return out
}

// Acquirer picks a new target for seekers that hold none
type Acquirer struct {
	Params    SeekerParams
	Listeners *Listeners
}

// NewAcquirer creates an acquirer with the given parameters and hooks
func NewAcquirer(p SeekerParams, l *Listeners) *Acquirer {
	return &Acquirer{Params: p, Listeners: l}
}

// searchBox covers the two courses the seeker could curve into, plus
// vertical slack for elevation differences
func (a *Acquirer) searchBox(s *Seeker) Box {
	here := BoxAt(s.Pos)
	reach := s.Vel.Mul(a.Params.SeekDistance)
	box := here.Union(here.Move(yRot(reach, a.Params.SeekAngle)))
	box = box.Union(here.Move(yRot(reach, -a.Params.SeekAngle)))
	return box.Inflate(0, a.Params.SeekDistance*0.5, 0)
}

// vectorToTarget points from the seeker to the target's eyes
func vectorToTarget(s *Seeker, e *Entity) mgl64.Vec3 {
	return e.EyePos().Sub(s.Pos)
}

// headingAlignment is the cosine between the seeker's heading and the
// direction to e; zero-length directions score 0
func headingAlignment(heading mgl64.Vec3, s *Seeker, e *Entity) float64 {
	return heading.Dot(normalizeOrZero(vectorToTarget(s, e)))
}

// Acquire searches for a target and commits the first acceptable one to
// s.TargetID. A held ID that no longer resolves is cleared first whatever
// the outcome; a held live target is returned untouched.
func (a *Acquirer) Acquire(s *Seeker, w WorldQuery) (EntityID, AcquirePass) {
	if _, ok := w.Resolve(s.TargetID); ok {
		return s.TargetID, PassHeld
	}
	s.TargetID = NoEntity

	candidates := w.LivingInBox(a.searchBox(s))
	if len(candidates) == 0 {
		return NoEntity, PassNone
	}

	owner := s.OwnerID
	seesSeeker := func(e *Entity) bool { return w.HasLineOfSight(e, s.Pos) }
	isMonster := func(e *Entity) bool { return e.IsMonster() }
	retaliating := func(e *Entity) bool { return owner.Valid() && e.TargetID == owner }

	monsters := filterCandidates(candidates, isMonster)

	if e := a.commitFirst(s, filterCandidates(monsters, retaliating)); e != nil {
		return e.ID, PassRetaliation
	}

	hostile := filterCandidates(monsters,
		func(e *Entity) bool { return !retaliating(e) },
		func(e *Entity) bool { return !e.Neutral },
		seesSeeker,
	)
	if e := a.commitFirst(s, hostile); e != nil {
		return e.ID, PassHostile
	}

	heading := normalizeOrZero(s.Vel)
	aligned := filterCandidates(candidates,
		func(e *Entity) bool { return !e.IsMonster() },
		func(e *Entity) bool { return e.ID != owner },
		func(e *Entity) bool { return !(owner.Valid() && e.TamedBy == owner) },
		seesSeeker,
		func(e *Entity) bool { return headingAlignment(heading, s, e) > a.Params.SeekThreshold },
	)
	ranked := rankCandidates(aligned, func(e *Entity) float64 { return headingAlignment(heading, s, e) })
	if e := a.commitFirst(s, ranked); e != nil {
		return e.ID, PassHeading
	}
	return NoEntity, PassNone
}

// commitFirst offers each candidate in order and commits the first one
// no listener vetoes
func (a *Acquirer) commitFirst(s *Seeker, ordered []*Entity) *Entity {
	for _, e := range ordered {
		if a.Listeners.Post(s, nil, e) {
			continue
		}
		s.TargetID = e.ID
		return e
	}
	return nil
}
