package main

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	TickRate       = 20 // simulation ticks per second
	BroadcastRate  = 10 // state broadcasts per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate
)

const maxTerrainPerArena = 512

var (
	ErrUnknownSpecies = errors.New("unknown species")
	ErrEntityLimit    = errors.New("arena entity limit reached")
	ErrSeekerLimit    = errors.New("arena seeker limit reached")
	ErrTerrainLimit   = errors.New("arena terrain limit reached")
	ErrNoEntity       = errors.New("entity not found")
	ErrNoShooter      = errors.New("shooter not found")
	ErrNotTamable     = errors.New("entity cannot be tamed")
)

// Broadcaster is anything the arena can push messages to
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Arena runs one simulated world with its seekers
type Arena struct {
	ID   string
	Name string

	mu         sync.RWMutex
	world      *World
	seekers    []*Seeker // in firing order
	spectators map[Broadcaster]bool
	acquirer   *Acquirer
	listeners  *Listeners
	journal    *Journal
	tuning     Tuning
	tick       uint64
	stop       chan struct{}
	stopOnce   sync.Once
	log        *log.Logger
}

// NewArena creates an arena. vetoers are registered as change-target
// listeners in order; journal may be nil.
func NewArena(id, name string, t Tuning, journal *Journal, vetoers ...TargetListener) *Arena {
	a := &Arena{
		ID:         id,
		Name:       name,
		world:      NewWorld(),
		spectators: make(map[Broadcaster]bool),
		listeners:  NewListeners(),
		journal:    journal,
		tuning:     t,
		stop:       make(chan struct{}),
		log:        log.With("arena", id),
	}
	for _, v := range vetoers {
		a.listeners.Add(v)
	}
	a.listeners.Observe(a.observeDecision)
	a.acquirer = NewAcquirer(t.Seeker, a.listeners)
	return a
}

// Run starts the arena loop
func (a *Arena) Run() {
	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.update()
		case <-a.stop:
			return
		}
	}
}

// Stop terminates the arena loop. Safe to call more than once.
func (a *Arena) Stop() {
	a.stopOnce.Do(func() { close(a.stop) })
}

// update runs one tick and broadcasts on schedule
func (a *Arena) update() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.step()
	if a.tick%BroadcastEvery == 0 {
		a.broadcastState()
	}
}

// step advances the simulation by one tick. Caller holds a.mu.
func (a *Arena) step() {
	a.tick++

	UpdateCreatures(a.world)

	kept := a.seekers[:0]
	for _, s := range a.seekers {
		a.recordTick(s, TickSeeker(s, a.world, a.acquirer))
		if hit := s.Move(a.world, a.tuning.Ballistics); hit != nil {
			a.onHit(s, hit)
		}
		if s.Alive {
			kept = append(kept, s)
		}
	}
	for i := len(kept); i < len(a.seekers); i++ {
		a.seekers[i] = nil
	}
	a.seekers = kept

	for _, id := range a.world.RemoveDead() {
		a.log.Debug("entity removed", "id", id)
	}
}

// recordTick journals and announces what the targeting core did
func (a *Arena) recordTick(s *Seeker, r SeekerTick) {
	if r.Dropped.Valid() {
		a.track(EvtDrop, s, r.Dropped, NoEntity, "")
		a.broadcastMsg(Envelope{T: MsgTarget, Data: TargetMsg{
			Seeker: s.ID, Old: int32(r.Dropped), New: int32(NoEntity), Reason: "lost",
		}})
	}
	if r.Acquired.Valid() {
		name := ""
		if e, ok := a.world.Get(r.Acquired); ok {
			name = e.Name
		}
		a.log.Debug("target committed", "seeker", s.ID, "target", r.Acquired, "pass", r.Pass)
		a.track(EvtCommit, s, NoEntity, r.Acquired, name)
		a.broadcastMsg(Envelope{T: MsgTarget, Data: TargetMsg{
			Seeker: s.ID, Old: int32(NoEntity), New: int32(r.Acquired), Reason: r.Pass.String(),
		}})
	}
	if r.Released.Valid() {
		a.log.Debug("target released", "seeker", s.ID, "target", r.Released)
		a.track(EvtRelease, s, r.Released, NoEntity, "")
		a.broadcastMsg(Envelope{T: MsgTarget, Data: TargetMsg{
			Seeker: s.ID, Old: int32(r.Released), New: int32(NoEntity), Reason: "release",
		}})
	}
}

// observeDecision journals every posted change with its outcome
func (a *Arena) observeDecision(c TargetChange, vetoed bool) {
	evt := EvtDecision
	if vetoed {
		evt = EvtVeto
	}
	old, next, name := NoEntity, NoEntity, ""
	if c.Old != nil {
		old = c.Old.ID
	}
	if c.New != nil {
		next = c.New.ID
		name = c.New.Name
	}
	a.track(evt, c.Seeker, old, next, name)
}

func (a *Arena) track(evt string, s *Seeker, old, next EntityID, name string) {
	sid := ""
	if s != nil {
		sid = s.ID
	}
	a.journal.Track(JournalEvent{
		Type:       evt,
		ArenaID:    a.ID,
		SeekerID:   sid,
		OldTarget:  old,
		NewTarget:  next,
		TargetName: name,
		Tick:       a.tick,
	})
}

// onHit records a strike. Neutral monsters turn on the shooter.
func (a *Arena) onHit(s *Seeker, victim *Entity) {
	a.track(EvtHit, s, NoEntity, victim.ID, victim.Name)
	a.broadcastMsg(Envelope{T: MsgHit, Data: HitMsg{
		Seeker: s.ID, Owner: int32(s.OwnerID), Victim: int32(victim.ID), Name: victim.Name,
		Damage: s.Damage,
	}})
	if victim.IsMonster() && victim.Neutral {
		if _, ok := a.world.Resolve(s.OwnerID); ok {
			victim.TargetID = s.OwnerID
		}
	}
}

// SpawnEntity places a new entity. Positions are clamped into the arena.
func (a *Arena) SpawnEntity(species, name string, pos mgl64.Vec3) (EntityID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := LookupSpecies(species); !ok {
		return NoEntity, ErrUnknownSpecies
	}
	if a.world.Count() >= a.tuning.MaxEntities {
		return NoEntity, ErrEntityLimit
	}
	pos = mgl64.Vec3{
		Clamp(pos.X(), 0, ArenaSize),
		Clamp(pos.Y(), 0, ArenaSize),
		Clamp(pos.Z(), 0, ArenaSize),
	}
	e, _ := a.world.Spawn(species, name, pos)
	a.log.Debug("entity spawned", "id", e.ID, "species", species, "name", e.Name)
	return e.ID, nil
}

// Despawn kills an entity; it is removed at the end of the next tick
func (a *Arena) Despawn(id EntityID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	e, ok := a.world.Resolve(id)
	if !ok {
		return ErrNoEntity
	}
	e.Kill()
	return nil
}

// Fire launches a seeker from the shooter's eyes
func (a *Arena) Fire(shooter EntityID, yaw, pitch, power float64) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	e, ok := a.world.Resolve(shooter)
	if !ok {
		return "", ErrNoShooter
	}
	if len(a.seekers) >= a.tuning.MaxSeekers {
		return "", ErrSeekerLimit
	}
	s := NewSeeker(e, yaw, pitch, power)
	a.seekers = append(a.seekers, s)
	return s.ID, nil
}

// AddBlock adds solid terrain spanning two corners
func (a *Arena) AddBlock(c1, c2 mgl64.Vec3) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.world.Terrain()) >= maxTerrainPerArena {
		return ErrTerrainLimit
	}
	a.world.AddTerrain(NewBox(c1, c2))
	return nil
}

// Tame binds a tamable animal to an owner
func (a *Arena) Tame(animal, owner EntityID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	e, ok := a.world.Resolve(animal)
	if !ok {
		return ErrNoEntity
	}
	if _, ok := a.world.Resolve(owner); !ok {
		return ErrNoEntity
	}
	def, _ := LookupSpecies(e.Species)
	if !def.Tamable {
		return ErrNotTamable
	}
	e.TamedBy = owner
	return nil
}

// AddSpectator subscribes a client to state broadcasts
func (a *Arena) AddSpectator(b Broadcaster) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.spectators[b] = true
}

// RemoveSpectator unsubscribes a client
func (a *Arena) RemoveSpectator(b Broadcaster) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.spectators, b)
}

// SpectatorCount returns the number of subscribed clients
func (a *Arena) SpectatorCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.spectators)
}

// Counts returns the number of entities and seekers
func (a *Arena) Counts() (entities, seekers int) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.world.Count(), len(a.seekers)
}

// Info summarizes the arena for listings
func (a *Arena) Info() ArenaInfo {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return ArenaInfo{
		ID:         a.ID,
		Name:       a.Name,
		Entities:   a.world.Count(),
		Seekers:    len(a.seekers),
		Spectators: len(a.spectators),
	}
}

// Snapshot returns the current arena state
func (a *Arena) Snapshot() ArenaState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stateLocked()
}

func (a *Arena) stateLocked() ArenaState {
	entities := a.world.Entities()
	state := ArenaState{
		Entities: make([]EntityState, 0, len(entities)),
		Seekers:  make([]SeekerState, 0, len(a.seekers)),
		Markers:  make([]MarkerState, 0),
		Tick:     a.tick,
	}
	for _, e := range entities {
		state.Entities = append(state.Entities, e.ToState())
	}
	for _, s := range a.seekers {
		state.Seekers = append(state.Seekers, s.ToState())
		for _, m := range s.Trail {
			state.Markers = append(state.Markers, MarkerState{
				X: round2(m.Pos.X()), Y: round2(m.Pos.Y()), Z: round2(m.Pos.Z()),
				VX: round2(m.Vel.X()), VY: round2(m.Vel.Y()), VZ: round2(m.Vel.Z()),
			})
		}
	}
	return state
}

// broadcastState sends the msgpack-encoded state to all spectators
func (a *Arena) broadcastState() {
	if len(a.spectators) == 0 {
		return
	}
	data, err := msgpack.Marshal(a.stateLocked())
	if err != nil {
		a.log.Error("state encode failed", "err", err)
		return
	}
	for b := range a.spectators {
		b.SendBinary(data)
	}
}

// broadcastMsg sends a message to all spectators
func (a *Arena) broadcastMsg(msg Envelope) {
	for b := range a.spectators {
		b.SendJSON(msg)
	}
}
