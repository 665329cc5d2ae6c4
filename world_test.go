package main

import (
	"math"
	"testing"
	"time"

	"github.com/ClawGrabSOL/pumpsnek.io/protocol"
)

func newTestWorld() *World {
	return newWorld(defaultRuntimeConfig(), testRNG())
}

// placePellet inserts a pellet at an exact position with an exact radius,
// bypassing the random spawn policy.
func placePellet(w *World, id string, x, y, radius float64) {
	w.food[id] = protocol.Pellet{ID: id, X: x, Y: y, Radius: radius, Color: foodDefaultColor}
}

func TestNewWorldSpawnsInitialFood(t *testing.T) {
	w := newTestWorld()
	if len(w.food) != initialFoodCount {
		t.Fatalf("expected %d pellets, got %d", initialFoodCount, len(w.food))
	}
	if !w.waitingForPlayers || w.roundActive {
		t.Fatal("fresh world must start in the waiting phase")
	}
	for _, p := range w.food {
		if p.Radius < foodMinRadius || p.Radius >= foodMaxRadius {
			t.Fatalf("pellet radius %f outside [%f, %f)", p.Radius, float64(foodMinRadius), float64(foodMaxRadius))
		}
		if p.Color != foodDefaultColor && p.Color != foodAccentColor {
			t.Fatalf("unexpected pellet color %q", p.Color)
		}
	}
}

func TestEatingKeepsFoodFieldSizeConstant(t *testing.T) {
	w := newTestWorld()
	s := straightSnake("a", 1500, 1500, snakeSegmentSpacing, 10)
	w.snakes["a"] = s
	placePellet(w, "meal", 1500, 1500, 6)

	before := len(w.food)
	lengthBefore := s.length()

	w.Step()

	if len(w.food) != before {
		t.Fatalf("food field size changed: %d -> %d", before, len(w.food))
	}
	if _, ok := w.food["meal"]; ok {
		t.Fatal("consumed pellet still present")
	}
	if want := lengthBefore + 3; s.length() != want { // ceil(6/2) = 3
		t.Fatalf("expected length %d after eating, got %d", want, s.length())
	}
	if s.Score != 6 { // ceil(6)
		t.Fatalf("expected score 6, got %d", s.Score)
	}
}

func TestSnakeCanEatMultiplePelletsInOneTick(t *testing.T) {
	w := newTestWorld()
	s := straightSnake("a", 1500, 1500, snakeSegmentSpacing, 10)
	w.snakes["a"] = s
	placePellet(w, "p1", 1500, 1500, 4)
	placePellet(w, "p2", 1505, 1500, 4)

	before := len(w.food)
	w.Step()

	if len(w.food) != before {
		t.Fatalf("food field size changed: %d -> %d", before, len(w.food))
	}
	if s.length() != 10+2+2 { // ceil(4/2) each
		t.Fatalf("expected length 14, got %d", s.length())
	}
}

func TestFoodNeverShrinksASnake(t *testing.T) {
	w := newTestWorld()
	s := straightSnake("a", 1500, 1500, snakeSegmentSpacing, 10)
	s.Speed = snakeBaseSpeed
	w.snakes["a"] = s

	for i := 0; i < 100; i++ {
		before := s.length()
		w.Step()
		if s.length() < before {
			t.Fatalf("tick %d: length shrank %d -> %d without boost or death", i, before, s.length())
		}
	}
}

func TestNeckSegmentsAreNotLethal(t *testing.T) {
	w := newTestWorld()
	w.clearFood()

	killer := straightSnake("killer", 1500, 1500, 30, 12)
	victim := straightSnake("victim", killer.Segments[3].X, killer.Segments[3].Y, 30, 10)
	victim.Segments[0].Y += 5 // deep inside the excluded neck, far from segment 5+
	w.snakes["killer"] = killer
	w.snakes["victim"] = victim

	kills := w.Step()

	if len(kills) != 0 {
		t.Fatalf("expected no kills near neck segments, got %+v", kills)
	}
	if !victim.Alive {
		t.Fatal("victim died inside the excluded zone")
	}
}

func TestBodySegmentCollisionIsLethal(t *testing.T) {
	w := newTestWorld()
	w.clearFood()

	killer := straightSnake("killer", 1500, 1500, 30, 12)
	victim := straightSnake("victim", killer.Segments[6].X, killer.Segments[6].Y, 30, 9)
	victim.Segments[0].Y += 5
	w.snakes["killer"] = killer
	w.snakes["victim"] = victim

	killerLengthBefore := killer.length()
	kills := w.Step()

	if len(kills) != 1 {
		t.Fatalf("expected exactly one kill, got %d", len(kills))
	}
	kill := kills[0]
	if kill.KillerID != "killer" || kill.VictimID != "victim" {
		t.Fatalf("wrong kill credit: %+v", kill)
	}
	if victim.Alive {
		t.Fatal("victim should be dead")
	}
	if killer.Score != 9*killScoreFactor {
		t.Fatalf("killer score %d, want %d", killer.Score, 9*killScoreFactor)
	}
	if want := killerLengthBefore + 9/3; killer.length() != want {
		t.Fatalf("killer length %d, want %d", killer.length(), want)
	}
}

func TestDeathScattersRemainsAsFood(t *testing.T) {
	w := newTestWorld()
	w.clearFood()

	s := straightSnake("a", 1500, 1500, snakeSegmentSpacing, 20)
	w.snakes["a"] = s

	s.die()
	w.dropRemains(s)

	if len(w.food) == 0 {
		t.Fatal("death of a 20-segment snake scattered no pellets")
	}
	if len(w.food) > 20 {
		t.Fatalf("death scattered %d pellets from 20 segments", len(w.food))
	}
	for _, p := range w.food {
		if p.X < 0 || p.X >= worldWidth || p.Y < 0 || p.Y >= worldHeight {
			t.Fatalf("scattered pellet out of bounds: %+v", p)
		}
	}
}

func TestBoostShedsTailIntoFood(t *testing.T) {
	w := newTestWorld()
	w.clearFood()

	s := straightSnake("a", 1500, 1500, snakeSegmentSpacing, 40)
	s.Speed = snakeBaseSpeed
	s.Boosting = true
	w.snakes["a"] = s

	for i := 0; i < 200 && len(w.food) == 0; i++ {
		w.Step()
	}
	if len(w.food) == 0 {
		t.Fatal("boosting never converted a tail segment into food")
	}
}

func TestKillAndRemoveDeletesSnakeAndScatters(t *testing.T) {
	w := newTestWorld()
	w.clearFood()

	s := straightSnake("a", 1500, 1500, snakeSegmentSpacing, 20)
	w.snakes["a"] = s

	w.KillAndRemove("a")

	if _, ok := w.snakes["a"]; ok {
		t.Fatal("snake still present after removal")
	}
	if len(w.food) == 0 {
		t.Fatal("removal did not scatter remains")
	}

	// Unknown ids are a silent no-op.
	w.KillAndRemove("ghost")
}

func TestRespawnPreservesNameAndWallet(t *testing.T) {
	w := newTestWorld()
	s := w.SpawnSnake("a", "alice", "wallet-1")
	s.die()
	s.Score = 500

	if !w.Respawn("a") {
		t.Fatal("respawn of known id failed")
	}
	fresh := w.snakes["a"]
	if fresh == s {
		t.Fatal("respawn did not replace the snake")
	}
	if fresh.Name != "alice" || fresh.Wallet != "wallet-1" {
		t.Fatalf("respawn lost identity: %q %q", fresh.Name, fresh.Wallet)
	}
	if !fresh.Alive || fresh.Score != 0 || fresh.length() != snakeStartSegments {
		t.Fatal("respawned snake is not fresh")
	}

	if w.Respawn("ghost") {
		t.Fatal("respawn of unknown id should be a no-op")
	}
}

func TestSetInputUnknownIDIsSilentNoOp(t *testing.T) {
	w := newTestWorld()
	angle := 1.0
	if w.SetInput("ghost", &angle, nil) {
		t.Fatal("unknown id should not report success")
	}
}

func TestSnapshotCarriesWorldAndRoundState(t *testing.T) {
	w := newTestWorld()
	w.SpawnSnake("a", "alice", "")
	w.SpawnSnake("b", "bob", "")
	w.snakes["b"].die()

	snap := w.Snapshot(time.Now())

	if snap.Type != protocol.MsgState {
		t.Fatalf("wrong type %q", snap.Type)
	}
	if len(snap.Snakes) != 2 {
		t.Fatalf("expected 2 snakes in snapshot, got %d", len(snap.Snakes))
	}
	if len(snap.Food) != initialFoodCount {
		t.Fatalf("expected %d pellets in snapshot, got %d", initialFoodCount, len(snap.Food))
	}
	if snap.AlivePlayers != 1 {
		t.Fatalf("expected 1 alive player, got %d", snap.AlivePlayers)
	}
	if !snap.WaitingForPlayers {
		t.Fatal("snapshot must reflect the waiting phase")
	}
	if snap.MinPlayers != defaultMinPlayers {
		t.Fatalf("minPlayers %d, want %d", snap.MinPlayers, defaultMinPlayers)
	}
	for _, s := range snap.Snakes {
		if s.Length != len(s.Segments) {
			t.Fatalf("snapshot length %d disagrees with %d segments", s.Length, len(s.Segments))
		}
	}
}

func TestLeaderboardOrdersByScore(t *testing.T) {
	w := newTestWorld()
	for i, score := range []int{50, 200, 100} {
		id := string(rune('a' + i))
		s := w.SpawnSnake(id, id, "")
		s.Score = score
	}

	entries := w.leaderboard()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Score != 200 || entries[1].Score != 100 || entries[2].Score != 50 {
		t.Fatalf("leaderboard out of order: %+v", entries)
	}
}

func TestDistIsEuclidean(t *testing.T) {
	got := dist(protocol.Point{X: 0, Y: 0}, protocol.Point{X: 3, Y: 4})
	if math.Abs(got-5) > 1e-9 {
		t.Fatalf("dist = %f, want 5", got)
	}
}
