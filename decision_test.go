package main

import "testing"

// recorder captures every posted change
type recorder struct {
	changes []TargetChange
	vetoed  []bool
}

func (r *recorder) observe(c TargetChange, vetoed bool) {
	r.changes = append(r.changes, c)
	r.vetoed = append(r.vetoed, vetoed)
}

func newRecordedListeners() (*Listeners, *recorder) {
	l := NewListeners()
	r := &recorder{}
	l.Observe(r.observe)
	return l, r
}

func TestPostSkipsIdenticalTargets(t *testing.T) {
	l, r := newRecordedListeners()
	w := NewWorld()
	cow := spawnAt(t, w, "cow", "", 10, 0, 10)
	s := &Seeker{ID: "s1", TargetID: NoEntity}

	if l.Post(s, nil, nil) {
		t.Error("nil -> nil should not be vetoed")
	}
	if l.Post(s, cow, cow) {
		t.Error("same entity should not be vetoed")
	}
	if len(r.changes) != 0 {
		t.Errorf("expected no decisions, got %d", len(r.changes))
	}
}

func TestPostNormalizesDeadEntities(t *testing.T) {
	l, r := newRecordedListeners()
	w := NewWorld()
	cow := spawnAt(t, w, "cow", "", 10, 0, 10)
	other := spawnAt(t, w, "cow", "", 12, 0, 10)
	s := &Seeker{ID: "s1", TargetID: NoEntity}

	cow.Kill()
	l.Post(s, cow, nil)
	if len(r.changes) != 0 {
		t.Fatal("dead -> nil is the same as nil -> nil and should not be raised")
	}

	l.Post(s, other, cow)
	if len(r.changes) != 1 {
		t.Fatalf("expected 1 decision, got %d", len(r.changes))
	}
	if r.changes[0].Old != other || r.changes[0].New != nil {
		t.Error("expected dead new target to be normalized to nil")
	}
	if r.changes[0].Seeker != s {
		t.Error("expected decision to carry the seeker")
	}
}

func TestPostFirstVetoStops(t *testing.T) {
	l, r := newRecordedListeners()
	w := NewWorld()
	cow := spawnAt(t, w, "cow", "", 10, 0, 10)
	s := &Seeker{ID: "s1", TargetID: NoEntity}

	calls := 0
	l.Add(func(TargetChange) bool { calls++; return true })
	l.Add(func(TargetChange) bool { calls++; return false })

	if !l.Post(s, nil, cow) {
		t.Error("expected change to be vetoed")
	}
	if calls != 1 {
		t.Errorf("expected listeners after the veto to be skipped, got %d calls", calls)
	}
	if len(r.vetoed) != 1 || !r.vetoed[0] {
		t.Error("expected observer to see the veto")
	}
	if s.TargetID != NoEntity {
		t.Error("Post must not mutate the seeker")
	}
}

func TestPostAllowedWhenNoListenerVetoes(t *testing.T) {
	l, r := newRecordedListeners()
	w := NewWorld()
	cow := spawnAt(t, w, "cow", "", 10, 0, 10)

	l.Add(func(TargetChange) bool { return false })
	if l.Post(&Seeker{}, nil, cow) {
		t.Error("expected change to be allowed")
	}
	if len(r.vetoed) != 1 || r.vetoed[0] {
		t.Error("expected observer to see an allowed change")
	}
}

func TestNilListeners(t *testing.T) {
	var l *Listeners
	w := NewWorld()
	cow := spawnAt(t, w, "cow", "", 10, 0, 10)
	if l.Post(&Seeker{}, nil, cow) {
		t.Error("nil listeners should never veto")
	}
}

func TestListenersIgnoreNilFuncs(t *testing.T) {
	l := NewListeners()
	l.Add(nil)
	l.Observe(nil)
	if len(l.vetoers) != 0 || len(l.observers) != 0 {
		t.Errorf("expected nil funcs to be ignored, got %d vetoers and %d observers", len(l.vetoers), len(l.observers))
	}
	w := NewWorld()
	cow := spawnAt(t, w, "cow", "", 10, 0, 10)
	if l.Post(&Seeker{}, nil, cow) {
		t.Error("expected no veto with only nil funcs registered")
	}
}
