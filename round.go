package main

import (
	"fmt"
	"time"

	"github.com/ClawGrabSOL/pumpsnek.io/payout"
)

// RoundStep advances the round lifecycle by one second. The rules are
// level-triggered: the population guard fires on every step, not just on
// transitions, so a mid-round player drought forces Waiting immediately.
//
// Round end is instantaneous bookkeeping, not a phase of its own: the world
// re-enters Active (or Waiting, via the guard on the next step) right away.
func (w *World) RoundStep(now time.Time) (events []any) {
	alive := w.aliveCount()

	if alive < w.minPlayers {
		w.roundActive = false
		w.waitingForPlayers = true
		w.roundTime = w.roundSeconds
		return nil
	}

	if w.waitingForPlayers {
		w.waitingForPlayers = false
		w.roundActive = true
		w.roundTime = w.roundSeconds
		return []any{roundStartEvent{Round: w.roundNum, Players: alive}}
	}

	if w.roundTime > 0 {
		w.roundTime--
	}
	if w.roundTime > 0 {
		return nil
	}

	// Round end. Winner is the living snake with maximum length; ties go to
	// the first maximal snake in sorted-id order.
	var winner *Snake
	for _, id := range w.sortedSnakeIDs() {
		s := w.snakes[id]
		if !s.Alive {
			continue
		}
		if winner == nil || s.length() > winner.length() {
			winner = s
		}
	}

	end := roundEndEvent{
		Round: w.roundNum,
		Prize: fmt.Sprintf("%g SOL", w.prizeSOL),
	}
	if winner != nil {
		end.WinnerID = winner.ID
		end.Winner = winner.Name
		end.Length = winner.length()
		if winner.Wallet != "" {
			end.Payout = &payout.Request{
				Wallet:    winner.Wallet,
				Amount:    w.prizeSOL,
				Player:    winner.Name,
				Round:     w.roundNum,
				Timestamp: now,
			}
		}
	}
	events = append(events, end)

	w.roundNum++
	w.roundTime = w.roundSeconds

	// Fresh board for the next round: every snake respawns keeping only its
	// name. Wallets are deliberately dropped; clients re-supply them on a
	// later join or respawn.
	for _, id := range w.sortedSnakeIDs() {
		w.SpawnSnake(id, w.snakes[id].Name, "")
	}
	w.clearFood()
	w.spawnFood(initialFoodCount)

	events = append(events, roundStartEvent{Round: w.roundNum, Players: w.aliveCount()})
	return events
}
