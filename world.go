package main

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/ClawGrabSOL/pumpsnek.io/protocol"
)

// World is the aggregate holding every mutable piece of game state: the
// player map, the food field, and the round counters. All access goes
// through the hub mutex; World methods assume the caller holds it.
//
// Entity iteration uses sorted ids everywhere outcomes depend on order
// (collision credit, winner ties), so a given state always resolves the
// same way.
type World struct {
	rng        *rand.Rand
	snakes     map[string]*Snake
	food       map[string]protocol.Pellet
	nextPellet uint64

	roundActive       bool
	waitingForPlayers bool
	roundTime         int
	roundNum          int

	minPlayers   int
	roundSeconds int
	prizeSOL     float64
}

func newWorld(cfg runtimeConfig, rng *rand.Rand) *World {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	w := &World{
		rng:               rng,
		snakes:            make(map[string]*Snake),
		food:              make(map[string]protocol.Pellet),
		waitingForPlayers: true,
		roundTime:         cfg.RoundSeconds,
		roundNum:          1,
		minPlayers:        cfg.MinPlayers,
		roundSeconds:      cfg.RoundSeconds,
		prizeSOL:          cfg.PrizeSOL,
	}
	w.spawnFood(initialFoodCount)
	return w
}

// SpawnSnake creates a snake under the given id, replacing any previous
// entry. Joins, respawns, and round resets all land here.
func (w *World) SpawnSnake(id, name, wallet string) *Snake {
	s := newSnake(id, name, wallet, w.rng)
	w.snakes[id] = s
	return s
}

// KillAndRemove handles a connection close: the snake dies where it stands,
// its body scatters into pellets, and the entry is removed.
func (w *World) KillAndRemove(id string) {
	s, ok := w.snakes[id]
	if !ok {
		return
	}
	if s.Alive {
		s.die()
		w.dropRemains(s)
	}
	delete(w.snakes, id)
}

// SetInput forwards a steering update. Unknown ids are a silent no-op.
func (w *World) SetInput(id string, angle *float64, boost *bool) bool {
	s, ok := w.snakes[id]
	if !ok {
		return false
	}
	s.setInput(angle, boost)
	return true
}

// Respawn replaces the caller's snake with a fresh one, preserving only the
// name and wallet. Unknown ids are a silent no-op.
func (w *World) Respawn(id string) bool {
	s, ok := w.snakes[id]
	if !ok {
		return false
	}
	w.SpawnSnake(id, s.Name, s.Wallet)
	return true
}

// Step advances the simulation one tick: movement, food collisions, then
// body collisions. Returned kill events are broadcast by the hub.
func (w *World) Step() []killEvent {
	ids := w.sortedSnakeIDs()

	// 1. Movement. Boost-shed tails become pellets where they fell.
	for _, id := range ids {
		if tail, ok := w.snakes[id].update(w.rng); ok {
			w.spawnPelletAt(tail.X, tail.Y)
		}
	}

	// 2. Food. Hits are collected first so pellets spawned as replacements
	// are never consumed in the same pass they appear.
	for _, id := range ids {
		s := w.snakes[id]
		if !s.Alive {
			continue
		}
		head := s.head()
		var eaten []string
		for pid, pellet := range w.food {
			if dist(head, protocol.Point{X: pellet.X, Y: pellet.Y}) < eatRadius+pellet.Radius {
				eaten = append(eaten, pid)
			}
		}
		for _, pid := range eaten {
			pellet := w.food[pid]
			w.consumeFood(pid)
			s.grow(int(math.Ceil(pellet.Radius / 2)))
			s.Score += int(math.Ceil(pellet.Radius))
			w.spawnFood(1)
		}
	}

	// 3. Body collisions. The first five segments of the other snake are
	// never lethal, so two heads passing closely do not trade deaths.
	var kills []killEvent
	for _, vid := range ids {
		victim := w.snakes[vid]
		if !victim.Alive {
			continue
		}
		head := victim.head()
	killers:
		for _, kid := range ids {
			killer := w.snakes[kid]
			if kid == vid || !killer.Alive {
				continue
			}
			for i := snakeNeckSegments; i < killer.length(); i++ {
				if dist(head, killer.Segments[i]) < killRadius {
					w.resolveKill(killer, victim)
					kills = append(kills, killEvent{
						KillerID: killer.ID,
						Killer:   killer.Name,
						VictimID: victim.ID,
						Victim:   victim.Name,
					})
					break killers
				}
			}
		}
	}

	return kills
}

// resolveKill applies the death and the killer's reward.
func (w *World) resolveKill(killer, victim *Snake) {
	victimLength := victim.length()
	victim.die()
	w.dropRemains(victim)
	killer.Score += victimLength * killScoreFactor
	killer.grow(victimLength / 3)
}

// dropRemains scatters a dead snake's body into pellets. Each segment has an
// independent chance to leave one behind, slightly jittered off the path.
func (w *World) dropRemains(s *Snake) {
	for _, seg := range s.Segments {
		if w.rng.Float64() < deathDropChance {
			w.spawnPelletAt(
				seg.X+(w.rng.Float64()-0.5)*deathDropJitter,
				seg.Y+(w.rng.Float64()-0.5)*deathDropJitter,
			)
		}
	}
}

// aliveCount returns the number of living snakes.
func (w *World) aliveCount() int {
	n := 0
	for _, s := range w.snakes {
		if s.Alive {
			n++
		}
	}
	return n
}

// Snapshot builds the full-state wire message for the current tick.
func (w *World) Snapshot(now time.Time) protocol.State {
	snakes := make([]protocol.Snake, 0, len(w.snakes))
	for _, id := range w.sortedSnakeIDs() {
		snakes = append(snakes, w.snakes[id].snapshot())
	}
	food := make([]protocol.Pellet, 0, len(w.food))
	for _, pellet := range w.food {
		food = append(food, pellet)
	}
	return protocol.State{
		Type:              protocol.MsgState,
		Snakes:            snakes,
		Food:              food,
		RoundTime:         w.roundTime,
		RoundNum:          w.roundNum,
		WaitingForPlayers: w.waitingForPlayers,
		MinPlayers:        w.minPlayers,
		AlivePlayers:      w.aliveCount(),
		Leaderboard:       w.leaderboard(),
		ServerTime:        now.UnixMilli(),
	}
}

// leaderboard returns the top scorers among living snakes.
func (w *World) leaderboard() []protocol.LeaderboardEntry {
	alive := make([]*Snake, 0, len(w.snakes))
	for _, id := range w.sortedSnakeIDs() {
		if s := w.snakes[id]; s.Alive {
			alive = append(alive, s)
		}
	}
	sort.SliceStable(alive, func(i, j int) bool {
		return alive[i].Score > alive[j].Score
	})
	if len(alive) > leaderboardSize {
		alive = alive[:leaderboardSize]
	}
	entries := make([]protocol.LeaderboardEntry, len(alive))
	for i, s := range alive {
		entries[i] = protocol.LeaderboardEntry{ID: s.ID, Name: s.Name, Score: s.Score}
	}
	return entries
}

func (w *World) sortedSnakeIDs() []string {
	ids := make([]string, 0, len(w.snakes))
	for id := range w.snakes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func dist(a, b protocol.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
