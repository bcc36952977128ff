package main

import (
	"testing"
	"time"
)

func TestJournalPersistsOnStop(t *testing.T) {
	db := openTestDB(t)
	j := NewJournal(db)

	for i := 0; i < 3; i++ {
		j.Track(JournalEvent{Type: EvtCommit, ArenaID: "a1", SeekerID: "s", NewTarget: 1, TargetName: "Bessie"})
	}
	j.Track(JournalEvent{Type: EvtCommit, ArenaID: "a1", SeekerID: "s", NewTarget: 2, TargetName: "Daisy"})
	j.Track(JournalEvent{Type: EvtVeto, ArenaID: "a1", SeekerID: "s", NewTarget: 3, TargetName: "Zed"})
	j.Track(JournalEvent{Type: EvtCommit, ArenaID: "a2", SeekerID: "s", NewTarget: 4, TargetName: "Daisy"})
	j.Stop()

	counts, err := j.EventCounts("a1", 7)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts[EvtCommit] != 4 || counts[EvtVeto] != 1 {
		t.Errorf("unexpected counts for a1: %v", counts)
	}
	all, _ := j.EventCounts("", 7)
	if all[EvtCommit] != 5 {
		t.Errorf("expected 5 commits across arenas, got %v", all)
	}

	top, err := j.TopTargets("", 7, 10)
	if err != nil {
		t.Fatalf("top targets: %v", err)
	}
	if len(top) != 2 || top[0].Name != "Bessie" || top[0].Count != 3 || top[1].Name != "Daisy" || top[1].Count != 2 {
		t.Errorf("expected [Bessie:3 Daisy:2], got %v", top)
	}
}

func TestJournalIgnoresOldEvents(t *testing.T) {
	db := openTestDB(t)
	j := NewJournal(db)
	j.Track(JournalEvent{Type: EvtHit, ArenaID: "a1", Timestamp: time.Now().UTC().Add(-10 * 24 * time.Hour)})
	j.Track(JournalEvent{Type: EvtHit, ArenaID: "a1"})
	j.Stop()

	counts, _ := j.EventCounts("a1", 7)
	if counts[EvtHit] != 1 {
		t.Errorf("expected only the recent hit, got %v", counts)
	}
}

func TestJournalWithoutDB(t *testing.T) {
	j := NewJournal(nil)
	j.Track(JournalEvent{Type: EvtHit})
	j.Stop()
	j.Stop()

	counts, err := j.EventCounts("", 7)
	if err != nil || len(counts) != 0 {
		t.Errorf("expected empty counts, got %v, %v", counts, err)
	}
	var nilJournal *Journal
	nilJournal.Track(JournalEvent{Type: EvtHit})
}

func TestJournalTrackAfterStop(t *testing.T) {
	j := NewJournal(nil)
	j.Stop()
	j.Track(JournalEvent{Type: EvtHit})
	if j.Dropped() != 0 {
		t.Errorf("events after stop are ignored, not dropped; got %d", j.Dropped())
	}
}

func TestArenaJournalsTargeting(t *testing.T) {
	db := openTestDB(t)
	j := NewJournal(db)
	a := NewArena("journaled", "Journaled", DefaultTuning(), j)
	shooter := mustSpawn(t, a, "player", "Robin", 100, 0, 100)
	mustSpawn(t, a, "cow", "Bessie", 100, 0, 106)
	a.Fire(shooter, 0, 0, 2)

	a.update()
	j.Stop()

	counts, _ := j.EventCounts("journaled", 1)
	if counts[EvtDecision] != 1 || counts[EvtCommit] != 1 {
		t.Errorf("expected one decision and one commit, got %v", counts)
	}
	top, _ := j.TopTargets("journaled", 1, 5)
	if len(top) != 1 || top[0].Name != "Bessie" {
		t.Errorf("expected Bessie as top target, got %v", top)
	}
}
