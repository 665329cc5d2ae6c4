package main

import "github.com/ClawGrabSOL/pumpsnek.io/payout"

// Simulation events surfaced by World steps. The hub turns them into wire
// messages and side effects (payout enqueue) outside the world lock.

type killEvent struct {
	KillerID string
	Killer   string
	VictimID string
	Victim   string
}

type roundStartEvent struct {
	Round   int
	Players int
}

type roundEndEvent struct {
	Round    int
	WinnerID string
	Winner   string
	Length   int
	Prize    string

	// Payout is nil when the winner never supplied a wallet; the prize is
	// intentionally skipped in that case.
	Payout *payout.Request
}
