package main

// TargetChange is raised before a seeker's target is switched.
// Old and New are nil for "no target".
type TargetChange struct {
	Seeker *Seeker
	Old    *Entity
	New    *Entity
}

// TargetListener inspects a proposed change and returns true to veto it
type TargetListener func(TargetChange) bool

// TargetObserver sees every posted change along with its outcome
type TargetObserver func(change TargetChange, vetoed bool)

// Listeners is the injected set of change-target hooks for one arena.
// A nil *Listeners posts nothing and never vetoes.
type Listeners struct {
	vetoers   []TargetListener
	observers []TargetObserver
}

// NewListeners creates an empty listener set
func NewListeners() *Listeners {
	return &Listeners{}
}

// Add registers a listener that may veto changes
func (l *Listeners) Add(fn TargetListener) {
	if fn == nil {
		return
	}
	l.vetoers = append(l.vetoers, fn)
}

// Observe registers a callback told about every posted change
func (l *Listeners) Observe(fn TargetObserver) {
	if fn == nil {
		return
	}
	l.observers = append(l.observers, fn)
}

// Post raises a change and reports whether it was vetoed. Dead entities
// count as no target, and nothing is raised when old and new are the same.
// The first veto stops the remaining listeners.
func (l *Listeners) Post(s *Seeker, old, next *Entity) bool {
	if old != nil && !old.Alive() {
		old = nil
	}
	if next != nil && !next.Alive() {
		next = nil
	}
	if sameEntity(old, next) || l == nil {
		return false
	}

	change := TargetChange{Seeker: s, Old: old, New: next}
	vetoed := false
	for _, fn := range l.vetoers {
		if fn(change) {
			vetoed = true
			break
		}
	}
	for _, fn := range l.observers {
		fn(change, vetoed)
	}
	return vetoed
}

func sameEntity(a, b *Entity) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID == b.ID
}
