package main

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Journal event types
const (
	EvtDecision = "decision" // a change was posted to listeners
	EvtVeto     = "veto"     // a posted change was vetoed
	EvtCommit   = "commit"   // a target was committed by acquisition
	EvtRelease  = "release"  // steering gave a target up
	EvtDrop     = "drop"     // a held target stopped resolving
	EvtHit      = "hit"
)

// sqliteTime is the layout SQLite's datetime() produces
const sqliteTime = "2006-01-02 15:04:05"

const (
	journalBuffer     = 1024
	journalBatchSize  = 50
	journalFlushEvery = 5 * time.Second
)

// JournalEvent is one recorded targeting event
type JournalEvent struct {
	Type       string
	ArenaID    string
	SeekerID   string
	OldTarget  EntityID
	NewTarget  EntityID
	TargetName string
	Tick       uint64
	Timestamp  time.Time
}

// Journal records targeting events with batched background writes
type Journal struct {
	db     *DB
	events chan JournalEvent
	stop   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once

	mu      sync.Mutex
	dropped int
}

// NewJournal creates and starts the journal background writer.
// A nil db accepts events and discards them.
func NewJournal(db *DB) *Journal {
	j := &Journal{
		db:     db,
		events: make(chan JournalEvent, journalBuffer),
		stop:   make(chan struct{}),
	}
	j.wg.Add(1)
	go j.writer()
	return j
}

// Track enqueues an event for async persistence (non-blocking)
func (j *Journal) Track(evt JournalEvent) {
	if j == nil {
		return
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	select {
	case <-j.stop:
		return
	default:
	}
	select {
	case j.events <- evt:
	default:
		// Channel full: drop rather than stall the arena tick
		j.mu.Lock()
		j.dropped++
		j.mu.Unlock()
	}
}

// Dropped returns the number of events discarded because the buffer was full
func (j *Journal) Dropped() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.dropped
}

// Stop flushes pending events and shuts the writer down
func (j *Journal) Stop() {
	j.once.Do(func() {
		close(j.stop)
		j.wg.Wait()
	})
}

// writer is the background goroutine that batches and writes events to DB
func (j *Journal) writer() {
	defer j.wg.Done()

	batch := make([]JournalEvent, 0, 64)
	ticker := time.NewTicker(journalFlushEvery)
	defer ticker.Stop()

	for {
		select {
		case evt := <-j.events:
			batch = append(batch, evt)
			if len(batch) >= journalBatchSize {
				j.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				j.flush(batch)
				batch = batch[:0]
			}
		case <-j.stop:
			// Drain whatever is already queued
			for {
				select {
				case evt := <-j.events:
					batch = append(batch, evt)
				default:
					j.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes a batch of events to the database
func (j *Journal) flush(events []JournalEvent) {
	if j.db == nil || len(events) == 0 {
		return
	}
	tx, err := j.db.conn.Begin()
	if err != nil {
		log.Error("journal: begin tx", "err", err)
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO journal_events
		(event_type, arena_id, seeker_id, old_target, new_target, target_name, tick, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		log.Error("journal: prepare", "err", err)
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		_, err := stmt.Exec(evt.Type, evt.ArenaID, evt.SeekerID, int64(evt.OldTarget), int64(evt.NewTarget),
			evt.TargetName, int64(evt.Tick), evt.Timestamp.UTC().Format(sqliteTime))
		if err != nil {
			log.Error("journal: insert", "err", err)
		}
	}
	if err := tx.Commit(); err != nil {
		log.Error("journal: commit", "err", err)
	}
}

// --- Query methods for the API ---

// EventCounts returns counts of each event type for the last N days.
// An empty arenaID counts every arena.
func (j *Journal) EventCounts(arenaID string, days int) (map[string]int, error) {
	result := make(map[string]int)
	if j.db == nil {
		return result, nil
	}
	rows, err := j.db.conn.Query(`
		SELECT event_type, COUNT(*) FROM journal_events
		WHERE (? = '' OR arena_id = ?) AND created_at >= datetime('now', '-' || ? || ' days')
		GROUP BY event_type ORDER BY COUNT(*) DESC
	`, arenaID, arenaID, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var evtType string
		var count int
		if err := rows.Scan(&evtType, &count); err != nil {
			return nil, err
		}
		result[evtType] = count
	}
	return result, rows.Err()
}

// TargetCount holds how often a name was committed as a target
type TargetCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TopTargets returns the most frequently committed target names
func (j *Journal) TopTargets(arenaID string, days, limit int) ([]TargetCount, error) {
	if j.db == nil {
		return nil, nil
	}
	rows, err := j.db.conn.Query(`
		SELECT target_name, COUNT(*) AS cnt FROM journal_events
		WHERE event_type = ? AND target_name != ''
			AND (? = '' OR arena_id = ?) AND created_at >= datetime('now', '-' || ? || ' days')
		GROUP BY target_name ORDER BY cnt DESC, target_name LIMIT ?
	`, EvtCommit, arenaID, arenaID, days, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TargetCount
	for rows.Next() {
		var tc TargetCount
		if err := rows.Scan(&tc.Name, &tc.Count); err != nil {
			return nil, err
		}
		result = append(result, tc)
	}
	return result, rows.Err()
}
