package main

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestHostileChasesNearestPlayer(t *testing.T) {
	w := NewWorld()
	zombie := spawnAt(t, w, "zombie", "", 100, 0, 100)
	near := spawnAt(t, w, "player", "near", 105, 0, 100)
	spawnAt(t, w, "player", "far", 110, 0, 100)

	UpdateCreatures(w)
	if zombie.TargetID != near.ID {
		t.Errorf("expected target %d, got %d", near.ID, zombie.TargetID)
	}
	if math.Abs(zombie.Pos.X()-(100+zombie.Speed)) > eps {
		t.Errorf("expected one full step toward the player, got %v", zombie.Pos)
	}
}

func TestHostileIgnoresDistantPlayer(t *testing.T) {
	w := NewWorld()
	zombie := spawnAt(t, w, "zombie", "", 100, 0, 100)
	spawnAt(t, w, "player", "", 100+MobDetectRange+1, 0, 100)

	UpdateCreatures(w)
	if zombie.TargetID != NoEntity {
		t.Errorf("expected no target beyond detect range, got %d", zombie.TargetID)
	}
}

func TestNeutralMonsterOnlyChasesWhenProvoked(t *testing.T) {
	w := NewWorld()
	piglin := spawnAt(t, w, "piglin", "", 100, 0, 100)
	player := spawnAt(t, w, "player", "", 106, 0, 100)

	UpdateCreatures(w)
	if piglin.TargetID != NoEntity {
		t.Fatal("neutral monster should not pick targets on its own")
	}

	w.Move(piglin, mgl64.Vec3{100, 0, 100})
	piglin.Heading = 0
	piglin.TargetID = player.ID
	start := horizontal(player.Pos.Sub(piglin.Pos)).Len()
	for i := 0; i < 20; i++ {
		UpdateCreatures(w)
	}
	if d := horizontal(player.Pos.Sub(piglin.Pos)).Len(); d >= start {
		t.Errorf("provoked monster should close in: start %f, now %f", start, d)
	}

	player.Kill()
	UpdateCreatures(w)
	if piglin.TargetID != NoEntity {
		t.Error("expected dead target forgotten")
	}
}

func TestPetFollowsOwner(t *testing.T) {
	w := NewWorld()
	wolf := spawnAt(t, w, "wolf", "", 100, 0, 100)
	owner := spawnAt(t, w, "player", "", 106, 0, 100)
	wolf.TamedBy = owner.ID

	for i := 0; i < 60; i++ {
		UpdateCreatures(w)
	}
	d := horizontal(owner.Pos.Sub(wolf.Pos)).Len()
	if d > PetFollowDistance+wolf.Speed {
		t.Errorf("expected pet within follow distance, got %f", d)
	}
	if d < PetFollowDistance-2*wolf.Speed {
		t.Errorf("expected pet to stop at follow distance, got %f", d)
	}
	if owner.Pos != (mgl64.Vec3{106, 0, 100}) {
		t.Error("players should not be moved by creature AI")
	}
}

func TestChaseBlockedByTerrain(t *testing.T) {
	w := NewWorld()
	zombie := spawnAt(t, w, "zombie", "", 100, 0, 100)
	spawnAt(t, w, "player", "", 105, 0, 100)
	w.AddTerrain(NewBox(mgl64.Vec3{100.5, 0, 99}, mgl64.Vec3{101.5, 3, 101}))

	for i := 0; i < 10; i++ {
		UpdateCreatures(w)
	}
	if zombie.Bounds().Max.X() > 100.5 {
		t.Errorf("zombie walked into the wall: %v", zombie.Pos)
	}
}

func TestStepRespectsArenaEdge(t *testing.T) {
	w := NewWorld()
	cow := spawnAt(t, w, "cow", "", 0.5, 0, 100)
	cow.Heading = math.Pi

	if step(w, cow, 0.1) {
		t.Error("expected the arena edge to stop the step")
	}
	if cow.Pos != (mgl64.Vec3{0.5, 0, 100}) {
		t.Errorf("expected position unchanged, got %v", cow.Pos)
	}
}

func TestStepAllowsStandingOnBlock(t *testing.T) {
	w := NewWorld()
	w.AddTerrain(NewBox(mgl64.Vec3{95, 0, 95}, mgl64.Vec3{105, 1, 105}))
	cow := spawnAt(t, w, "cow", "", 100, 1, 100)

	if !step(w, cow, 0.1) {
		t.Fatal("expected cow to walk along the top of the block")
	}
	if math.Abs(cow.Pos.X()-100.1) > eps {
		t.Errorf("expected x=100.1, got %f", cow.Pos.X())
	}
}

func TestWanderMovesIdleCreature(t *testing.T) {
	w := NewWorld()
	cow := spawnAt(t, w, "cow", "", 128, 0, 128)
	start := cow.Pos

	for i := 0; i < 40; i++ {
		UpdateCreatures(w)
	}
	if cow.Pos.Sub(start).Len() < 0.5 {
		t.Errorf("idle creature should wander, only moved %f", cow.Pos.Sub(start).Len())
	}
}
