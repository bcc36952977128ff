package main

import (
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

const maxArenas = 100

// DefaultIdleTimeout is how long an arena with no spectators survives
const DefaultIdleTimeout = 5 * time.Minute

// ArenaManager handles creation, lookup and reaping of arenas
type ArenaManager struct {
	mu         sync.RWMutex
	arenas     map[string]*Arena
	lastActive map[string]time.Time
	tuning     Tuning
	journal    *Journal
	vetoers    []TargetListener
	idle       time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// NewArenaManager creates a manager whose arenas share the tuning,
// journal and change-target listeners. Arenas left unwatched for idle
// are reaped once StartReaper is running; idle <= 0 uses DefaultIdleTimeout.
func NewArenaManager(t Tuning, idle time.Duration, journal *Journal, vetoers ...TargetListener) *ArenaManager {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &ArenaManager{
		arenas:     make(map[string]*Arena),
		lastActive: make(map[string]time.Time),
		tuning:     t,
		journal:    journal,
		vetoers:    vetoers,
		idle:       idle,
		stop:       make(chan struct{}),
	}
}

// IdleTimeout returns how long an unwatched arena survives
func (am *ArenaManager) IdleTimeout() time.Duration {
	return am.idle
}

// Create starts a new arena. Returns nil if the limit is reached.
func (am *ArenaManager) Create(name string) *Arena {
	am.mu.Lock()
	defer am.mu.Unlock()

	if len(am.arenas) >= maxArenas {
		return nil
	}

	id := GenerateUUID()
	a := NewArena(id, name, am.tuning, am.journal, am.vetoers...)
	am.arenas[id] = a
	am.lastActive[id] = time.Now()
	go a.Run()
	log.Info("arena created", "id", id, "name", name)
	return a
}

// Get returns an arena by ID
func (am *ArenaManager) Get(id string) *Arena {
	am.mu.RLock()
	defer am.mu.RUnlock()
	return am.arenas[id]
}

// MarkActive resets the idle clock of an arena
func (am *ArenaManager) MarkActive(id string) {
	am.mu.Lock()
	defer am.mu.Unlock()
	if _, ok := am.arenas[id]; ok {
		am.lastActive[id] = time.Now()
	}
}

// Count returns the number of running arenas
func (am *ArenaManager) Count() int {
	am.mu.RLock()
	defer am.mu.RUnlock()
	return len(am.arenas)
}

// List returns info about all arenas, ordered by name then ID
func (am *ArenaManager) List() []ArenaInfo {
	am.mu.RLock()
	arenas := make([]*Arena, 0, len(am.arenas))
	for _, a := range am.arenas {
		arenas = append(arenas, a)
	}
	am.mu.RUnlock()

	list := make([]ArenaInfo, 0, len(arenas))
	for _, a := range arenas {
		list = append(list, a.Info())
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// reapIdle stops arenas nobody has watched for the idle timeout
func (am *ArenaManager) reapIdle(now time.Time) int {
	am.mu.Lock()
	var idle []*Arena
	for id, a := range am.arenas {
		if a.SpectatorCount() > 0 {
			am.lastActive[id] = now
			continue
		}
		if now.Sub(am.lastActive[id]) >= am.idle {
			idle = append(idle, a)
			delete(am.arenas, id)
			delete(am.lastActive, id)
		}
	}
	am.mu.Unlock()

	for _, a := range idle {
		a.Stop()
		log.Info("arena reaped", "id", a.ID)
	}
	return len(idle)
}

// StartReaper checks for idle arenas in the background until Stop is called
func (am *ArenaManager) StartReaper() {
	am.wg.Add(1)
	go am.reaper()
}

func (am *ArenaManager) reaper() {
	defer am.wg.Done()
	interval := am.idle / 4
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			am.reapIdle(now)
		case <-am.stop:
			return
		}
	}
}

// Stop halts the reaper, waits for it to exit, then stops every arena
func (am *ArenaManager) Stop() {
	am.stopOnce.Do(func() { close(am.stop) })
	am.wg.Wait()
	am.mu.Lock()
	defer am.mu.Unlock()
	for id, a := range am.arenas {
		a.Stop()
		delete(am.arenas, id)
		delete(am.lastActive, id)
	}
}
