package main

import (
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ClawGrabSOL/pumpsnek.io/logging"
	"github.com/ClawGrabSOL/pumpsnek.io/payout"
	"github.com/ClawGrabSOL/pumpsnek.io/protocol"
)

// Hub owns the world plus every live subscriber connection. The mutex is the
// single-writer discipline for all shared state: the simulation tick, the
// round step, and every inbound client event each hold it for the duration
// of their discrete mutation, so no activity ever observes a half-updated
// entity.
type Hub struct {
	mu          sync.Mutex
	world       *World
	subscribers map[string]*subscriber

	payouts   *payout.Queue
	telemetry *telemetryCounters
	cfg       runtimeConfig
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// write sends one frame under the subscriber's write lock. Every frame bound
// for a connection goes through here, so broadcasts and direct replies never
// write the connection concurrently.
func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// newHub creates a hub with a freshly seeded world.
func newHub(cfg runtimeConfig, payouts *payout.Queue, rng *rand.Rand) *Hub {
	return &Hub{
		world:       newWorld(cfg, rng),
		subscribers: make(map[string]*subscriber),
		payouts:     payouts,
		telemetry:   newTelemetryCounters(),
		cfg:         cfg,
	}
}

// Join registers a new snake for a connection and returns the joined reply
// sent only to that client. The caller must deliver the reply through the
// returned subscriber so it cannot collide with a concurrent broadcast.
func (h *Hub) Join(name, wallet string, conn *websocket.Conn) (string, *subscriber, protocol.Joined) {
	id := newSnakeID()
	sub := &subscriber{conn: conn}

	h.mu.Lock()
	h.world.SpawnSnake(id, name, wallet)
	h.subscribers[id] = sub
	h.mu.Unlock()

	logging.Log.Infof("%s joined as %s", name, id)

	return id, sub, protocol.Joined{
		Type:   protocol.MsgJoined,
		ID:     id,
		Width:  worldWidth,
		Height: worldHeight,
	}
}

// Disconnect kills and removes a snake and closes its subscriber. Closing a
// connection is an immediate, unconditional death; there is no grace period.
func (h *Hub) Disconnect(id string) {
	h.mu.Lock()
	h.world.KillAndRemove(id)
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	h.mu.Unlock()

	if ok {
		sub.conn.Close()
		logging.Log.Infof("%s disconnected", id)
	}
}

// UpdateInput applies a steering message. Unknown ids are a silent no-op.
func (h *Hub) UpdateInput(id string, angle *float64, boost *bool) {
	h.mu.Lock()
	h.world.SetInput(id, angle, boost)
	h.mu.Unlock()
}

// Respawn replaces the caller's snake with a fresh one.
func (h *Hub) Respawn(id string) {
	h.mu.Lock()
	h.world.Respawn(id)
	h.mu.Unlock()
}

// RunSimulation drives the fixed-rate tick loop until the stop channel
// closes. One goroutine runs all ticks, so ticks can be late but never
// overlap or reorder.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			h.tick(now)
		}
	}
}

// tick runs one simulation step and broadcasts the resulting snapshot.
func (h *Hub) tick(now time.Time) {
	started := time.Now()

	h.mu.Lock()
	kills := h.world.Step()
	snapshot := h.world.Snapshot(now)
	h.mu.Unlock()

	for _, kill := range kills {
		h.telemetry.IncrementKills()
		logging.Log.Infof("%s killed %s", kill.Killer, kill.Victim)
		h.broadcast(protocol.Kill{
			Type:     protocol.MsgKill,
			KillerID: kill.KillerID,
			Killer:   kill.Killer,
			VictimID: kill.VictimID,
			Victim:   kill.Victim,
		})
	}

	h.broadcastSnapshot(snapshot)
	h.telemetry.RecordTickDuration(time.Since(started))
}

// RunRounds drives the one-second round lifecycle loop until the stop
// channel closes.
func (h *Hub) RunRounds(stop <-chan struct{}) {
	ticker := time.NewTicker(roundStepPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			h.roundStep(now)
		}
	}
}

// roundStep advances the round state machine and handles its events: round
// notifications for everyone, plus at most one payout enqueue per round end.
func (h *Hub) roundStep(now time.Time) {
	h.mu.Lock()
	events := h.world.RoundStep(now)
	h.mu.Unlock()

	for _, event := range events {
		switch ev := event.(type) {
		case roundStartEvent:
			logging.Log.Infof("round %d started with %d players", ev.Round, ev.Players)
			h.broadcast(protocol.RoundStart{
				Type:    protocol.MsgRoundStart,
				Round:   ev.Round,
				Players: ev.Players,
			})
		case roundEndEvent:
			logging.Log.Infof("round %d ended, winner %s (length %d)", ev.Round, ev.Winner, ev.Length)
			h.telemetry.IncrementRounds()
			h.broadcast(protocol.RoundEnd{
				Type:     protocol.MsgRoundEnd,
				Round:    ev.Round,
				WinnerID: ev.WinnerID,
				Winner:   ev.Winner,
				Length:   ev.Length,
				Prize:    ev.Prize,
			})
			if ev.Payout != nil {
				h.payouts.Enqueue(*ev.Payout)
				h.telemetry.IncrementPayoutsEnqueued()
			} else if ev.Winner != "" {
				logging.Log.Infof("winner %s has no wallet, skipping disbursal", ev.Winner)
				h.telemetry.IncrementPayoutsSkipped()
			}
		}
	}
}

// broadcastSnapshot sends the per-tick state message and records telemetry.
func (h *Hub) broadcastSnapshot(snapshot protocol.State) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		logging.Log.WithError(err).Error("failed to marshal state message")
		return
	}
	sent := h.send(data)
	h.telemetry.RecordBroadcast(len(data)*sent, len(snapshot.Snakes)+len(snapshot.Food))
}

// broadcast marshals and fans out a notification message.
func (h *Hub) broadcast(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		logging.Log.WithError(err).Error("failed to marshal broadcast message")
		return
	}
	h.send(data)
}

// send writes data to every subscriber and returns the number of successful
// writes. Delivery is best-effort per connection: a write deadline bounds
// slow peers, and failed peers are disconnected without affecting the rest.
func (h *Hub) send(data []byte) int {
	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	sent := 0
	for id, sub := range subs {
		if err := sub.write(data); err != nil {
			logging.Log.WithError(err).Warnf("failed to send update to %s", id)
			h.Disconnect(id)
			continue
		}
		sent++
	}
	return sent
}

// DiagnosticsSnapshot exposes counters and world totals for /diagnostics.
func (h *Hub) DiagnosticsSnapshot() diagnosticsPayload {
	h.mu.Lock()
	players := len(h.world.snakes)
	alive := h.world.aliveCount()
	food := len(h.world.food)
	round := h.world.roundNum
	waiting := h.world.waitingForPlayers
	h.mu.Unlock()

	return diagnosticsPayload{
		Status:            "ok",
		ServerTime:        time.Now().UnixMilli(),
		TickRate:          tickRate,
		Players:           players,
		AlivePlayers:      alive,
		Food:              food,
		Round:             round,
		WaitingForPlayers: waiting,
		PayoutQueue:       h.payouts.Len(),
		Telemetry:         h.telemetry.Snapshot(),
	}
}

type diagnosticsPayload struct {
	Status            string            `json:"status"`
	ServerTime        int64             `json:"serverTime"`
	TickRate          int               `json:"tickRate"`
	Players           int               `json:"players"`
	AlivePlayers      int               `json:"alivePlayers"`
	Food              int               `json:"food"`
	Round             int               `json:"round"`
	WaitingForPlayers bool              `json:"waitingForPlayers"`
	PayoutQueue       int               `json:"payoutQueue"`
	Telemetry         telemetrySnapshot `json:"telemetry"`
}
