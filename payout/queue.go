// Package payout implements the reward side of the arena: a fire-and-forget
// queue the simulation core drops winner requests into, a disburser that
// drains it one transfer at a time, and a sqlite ledger recording every
// request and attempt so missed prizes can be audited after a crash.
//
// The simulation core never learns the outcome of a disbursement; the
// dependency is strictly one-directional.
package payout

import (
	"time"

	"github.com/ClawGrabSOL/pumpsnek.io/logging"
)

// Request describes one prize owed to a round winner. Retries starts at zero
// and is owned exclusively by the disburser after creation.
type Request struct {
	Wallet    string    `json:"wallet"`
	Amount    float64   `json:"amount"`
	Player    string    `json:"player"`
	Round     int       `json:"round"`
	Timestamp time.Time `json:"timestamp"`
	Retries   int       `json:"retries"`
}

// Queue is a bounded buffer between the round controller and the disburser.
type Queue struct {
	ch chan Request
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{ch: make(chan Request, size)}
}

// Enqueue hands a request to the disburser without blocking. When the buffer
// is full the request is dropped with a warning; the caller never waits on
// the payout path.
func (q *Queue) Enqueue(req Request) {
	select {
	case q.ch <- req:
	default:
		logging.Log.Warnf("payout queue full, dropping request for %s (round %d)", req.Player, req.Round)
	}
}

// tryDequeue pops one request if any is waiting.
func (q *Queue) tryDequeue() (Request, bool) {
	select {
	case req := <-q.ch:
		return req, true
	default:
		return Request{}, false
	}
}

// Len reports how many requests are waiting.
func (q *Queue) Len() int {
	return len(q.ch)
}
