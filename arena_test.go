package main

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vmihailenco/msgpack/v5"
)

// mockBroadcaster records everything an arena sends it
type mockBroadcaster struct {
	mu     sync.Mutex
	msgs   []Envelope
	binary [][]byte
}

func (m *mockBroadcaster) SendJSON(msg interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if env, ok := msg.(Envelope); ok {
		m.msgs = append(m.msgs, env)
	}
}

func (m *mockBroadcaster) SendBinary(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.binary = append(m.binary, data)
}

func (m *mockBroadcaster) ofType(t string) []Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Envelope
	for _, env := range m.msgs {
		if env.T == t {
			out = append(out, env)
		}
	}
	return out
}

func newTestArena(t *testing.T, vetoers ...TargetListener) (*Arena, *mockBroadcaster) {
	t.Helper()
	a := NewArena("test-arena", "Test", DefaultTuning(), nil, vetoers...)
	m := &mockBroadcaster{}
	a.AddSpectator(m)
	t.Cleanup(a.Stop)
	return a, m
}

func mustSpawn(t *testing.T, a *Arena, species, name string, x, y, z float64) EntityID {
	t.Helper()
	id, err := a.SpawnEntity(species, name, mgl64.Vec3{x, y, z})
	if err != nil {
		t.Fatalf("spawn %s: %v", species, err)
	}
	return id
}

func TestArenaSpawnEntity(t *testing.T) {
	a, _ := newTestArena(t)

	id := mustSpawn(t, a, "cow", "Bessie", -5, 300, 10)
	snap := a.Snapshot()
	if len(snap.Entities) != 1 || snap.Entities[0].ID != int32(id) {
		t.Fatalf("expected the cow in the snapshot, got %+v", snap.Entities)
	}
	e := snap.Entities[0]
	if e.X != 0 || e.Y != ArenaSize || e.Z != 10 {
		t.Errorf("expected position clamped into the arena, got (%f, %f, %f)", e.X, e.Y, e.Z)
	}
	if e.Name != "Bessie" || e.Species != "cow" || e.Target != int32(NoEntity) {
		t.Errorf("unexpected entity state %+v", e)
	}

	if _, err := a.SpawnEntity("dragon", "", mgl64.Vec3{}); !errors.Is(err, ErrUnknownSpecies) {
		t.Errorf("expected ErrUnknownSpecies, got %v", err)
	}
}

func TestArenaEntityLimit(t *testing.T) {
	tuning := DefaultTuning()
	tuning.MaxEntities = 2
	a := NewArena("limit", "Limit", tuning, nil)

	mustSpawn(t, a, "cow", "", 10, 0, 10)
	mustSpawn(t, a, "cow", "", 12, 0, 10)
	if _, err := a.SpawnEntity("cow", "", mgl64.Vec3{14, 0, 10}); !errors.Is(err, ErrEntityLimit) {
		t.Errorf("expected ErrEntityLimit, got %v", err)
	}
}

func TestArenaFire(t *testing.T) {
	tuning := DefaultTuning()
	tuning.MaxSeekers = 1
	a := NewArena("fire", "Fire", tuning, nil)

	if _, err := a.Fire(3, 0, 0, 2); !errors.Is(err, ErrNoShooter) {
		t.Errorf("expected ErrNoShooter, got %v", err)
	}
	shooter := mustSpawn(t, a, "player", "Robin", 100, 0, 100)
	sid, err := a.Fire(shooter, 0, 0, 2)
	if err != nil || sid == "" {
		t.Fatalf("expected a seeker ID, got %q, %v", sid, err)
	}
	if _, err := a.Fire(shooter, 0, 0, 2); !errors.Is(err, ErrSeekerLimit) {
		t.Errorf("expected ErrSeekerLimit, got %v", err)
	}
	if _, seekers := a.Counts(); seekers != 1 {
		t.Errorf("expected 1 seeker, got %d", seekers)
	}
}

func TestArenaDespawn(t *testing.T) {
	a, _ := newTestArena(t)
	id := mustSpawn(t, a, "cow", "", 10, 0, 10)

	if err := a.Despawn(id); err != nil {
		t.Fatalf("despawn: %v", err)
	}
	if err := a.Despawn(id); !errors.Is(err, ErrNoEntity) {
		t.Errorf("expected ErrNoEntity for a dead entity, got %v", err)
	}
	a.update()
	if n, _ := a.Counts(); n != 0 {
		t.Errorf("expected entity removed after a tick, got %d", n)
	}
}

func TestArenaTame(t *testing.T) {
	a, _ := newTestArena(t)
	owner := mustSpawn(t, a, "player", "", 10, 0, 10)
	wolf := mustSpawn(t, a, "wolf", "", 12, 0, 10)
	cow := mustSpawn(t, a, "cow", "", 14, 0, 10)

	if err := a.Tame(wolf, owner); err != nil {
		t.Fatalf("tame: %v", err)
	}
	if err := a.Tame(cow, owner); !errors.Is(err, ErrNotTamable) {
		t.Errorf("expected ErrNotTamable, got %v", err)
	}
	if err := a.Tame(wolf, 99); !errors.Is(err, ErrNoEntity) {
		t.Errorf("expected ErrNoEntity for a missing owner, got %v", err)
	}
	for _, e := range a.Snapshot().Entities {
		if e.ID == int32(wolf) && e.TamedBy != int32(owner) {
			t.Errorf("expected wolf tamed by %d, got %d", owner, e.TamedBy)
		}
	}
}

func TestArenaTerrainLimit(t *testing.T) {
	a := NewArena("blocks", "Blocks", DefaultTuning(), nil)
	for i := 0; i < maxTerrainPerArena; i++ {
		if err := a.AddBlock(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}); err != nil {
			t.Fatalf("block %d: %v", i, err)
		}
	}
	if err := a.AddBlock(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}); !errors.Is(err, ErrTerrainLimit) {
		t.Errorf("expected ErrTerrainLimit, got %v", err)
	}
}

func TestArenaSeekerAcquiresAndAnnounces(t *testing.T) {
	a, m := newTestArena(t)
	shooter := mustSpawn(t, a, "player", "Robin", 100, 0, 100)
	cow := mustSpawn(t, a, "cow", "Bessie", 100, 0, 106)
	if _, err := a.Fire(shooter, 0, 0, 2); err != nil {
		t.Fatalf("fire: %v", err)
	}

	a.update()
	targets := m.ofType(MsgTarget)
	if len(targets) != 1 {
		t.Fatalf("expected 1 target message, got %d", len(targets))
	}
	msg := targets[0].Data.(TargetMsg)
	if msg.New != int32(cow) || msg.Old != int32(NoEntity) || msg.Reason != "heading" {
		t.Errorf("unexpected target message %+v", msg)
	}

	snap := a.Snapshot()
	if len(snap.Seekers) != 1 || snap.Seekers[0].Target != int32(cow) {
		t.Fatalf("expected seeker locked on the cow, got %+v", snap.Seekers)
	}
	if len(snap.Markers) != 4 {
		t.Errorf("expected 4 trail markers, got %d", len(snap.Markers))
	}
}

func TestArenaProtectionVetoesTarget(t *testing.T) {
	p, _ := NewProtection(nil)
	if err := p.Protect("Bessie", 1); err != nil {
		t.Fatalf("protect: %v", err)
	}
	a, m := newTestArena(t, p.Listener())
	shooter := mustSpawn(t, a, "player", "Robin", 100, 0, 100)
	mustSpawn(t, a, "cow", "Bessie", 100, 0, 106)
	a.Fire(shooter, 0, 0, 2)

	a.update()
	if n := len(m.ofType(MsgTarget)); n != 0 {
		t.Errorf("expected protected cow never targeted, got %d target messages", n)
	}
	if s := a.Snapshot().Seekers; len(s) != 1 || s[0].Target != int32(NoEntity) {
		t.Errorf("expected seeker without target, got %+v", s)
	}
}

func TestArenaHitProvokesNeutralMonster(t *testing.T) {
	a, m := newTestArena(t)
	shooter := mustSpawn(t, a, "player", "Robin", 100, 0, 100)
	piglin := mustSpawn(t, a, "piglin", "", 100, 0, 103)
	a.Fire(shooter, 0, 0, 3)

	a.update()
	hits := m.ofType(MsgHit)
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	hit := hits[0].Data.(HitMsg)
	if hit.Victim != int32(piglin) || hit.Owner != int32(shooter) || hit.Damage != SeekerBaseDamage {
		t.Errorf("unexpected hit %+v", hit)
	}
	if _, seekers := a.Counts(); seekers != 0 {
		t.Errorf("expected seeker consumed, got %d", seekers)
	}
	for _, e := range a.Snapshot().Entities {
		if e.ID == int32(piglin) && e.Target != int32(shooter) {
			t.Errorf("expected piglin to turn on the shooter, got target %d", e.Target)
		}
	}
}

func TestArenaBroadcastsMsgpackState(t *testing.T) {
	a, m := newTestArena(t)
	mustSpawn(t, a, "cow", "", 50, 0, 50)

	for i := 0; i < BroadcastEvery; i++ {
		a.update()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.binary) != 1 {
		t.Fatalf("expected 1 state broadcast, got %d", len(m.binary))
	}
	var st ArenaState
	if err := msgpack.Unmarshal(m.binary[0], &st); err != nil {
		t.Fatalf("msgpack unmarshal: %v", err)
	}
	if st.Tick != BroadcastEvery || len(st.Entities) != 1 {
		t.Errorf("unexpected state tick=%d entities=%d", st.Tick, len(st.Entities))
	}
}

func TestArenaSpectators(t *testing.T) {
	a, m := newTestArena(t)
	if a.SpectatorCount() != 1 {
		t.Fatalf("expected 1 spectator, got %d", a.SpectatorCount())
	}
	if info := a.Info(); info.ID != "test-arena" || info.Name != "Test" || info.Spectators != 1 {
		t.Errorf("unexpected info %+v", info)
	}
	a.RemoveSpectator(m)
	if a.SpectatorCount() != 0 {
		t.Error("expected spectator removed")
	}
}

func TestArenaStopIsIdempotent(t *testing.T) {
	a := NewArena("stop", "Stop", DefaultTuning(), nil)
	done := make(chan struct{})
	go func() {
		a.Run()
		close(done)
	}()

	a.Stop()
	a.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("arena loop did not stop")
	}
}
