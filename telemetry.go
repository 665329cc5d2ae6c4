package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

type telemetryCounters struct {
	bytesSent             atomic.Uint64
	entitiesSent          atomic.Uint64
	tickDurationMillis    atomic.Int64
	lastBroadcastBytes    atomic.Uint64
	lastBroadcastEntities atomic.Uint64
	kills                 atomic.Uint64
	roundsCompleted       atomic.Uint64
	payoutsEnqueued       atomic.Uint64
	payoutsSkipped        atomic.Uint64
	debug                 bool
}

type telemetrySnapshot struct {
	BytesSent       uint64 `json:"bytesSent"`
	EntitiesSent    uint64 `json:"entitiesSent"`
	TickDuration    int64  `json:"tickDurationMillis"`
	Kills           uint64 `json:"kills"`
	RoundsCompleted uint64 `json:"roundsCompleted"`
	PayoutsEnqueued uint64 `json:"payoutsEnqueued"`
	PayoutsSkipped  uint64 `json:"payoutsSkipped"`
}

func newTelemetryCounters() *telemetryCounters {
	t := &telemetryCounters{}
	if os.Getenv("DEBUG_TELEMETRY") == "1" {
		t.debug = true
	}
	return t
}

func (t *telemetryCounters) RecordBroadcast(bytes, entities int) {
	if bytes < 0 {
		bytes = 0
	}
	if entities < 0 {
		entities = 0
	}
	t.bytesSent.Add(uint64(bytes))
	t.entitiesSent.Add(uint64(entities))
	t.lastBroadcastBytes.Store(uint64(bytes))
	t.lastBroadcastEntities.Store(uint64(entities))
}

func (t *telemetryCounters) RecordTickDuration(duration time.Duration) {
	millis := duration.Milliseconds()
	if millis < 0 {
		millis = 0
	}
	t.tickDurationMillis.Store(millis)
	if t.debug {
		fmt.Printf(
			"[telemetry] tick=%dms bytes=%d totalBytes=%d entities=%d\n",
			millis,
			t.lastBroadcastBytes.Load(),
			t.bytesSent.Load(),
			t.lastBroadcastEntities.Load(),
		)
	}
}

func (t *telemetryCounters) IncrementKills() {
	t.kills.Add(1)
}

func (t *telemetryCounters) IncrementRounds() {
	t.roundsCompleted.Add(1)
}

func (t *telemetryCounters) IncrementPayoutsEnqueued() {
	t.payoutsEnqueued.Add(1)
}

func (t *telemetryCounters) IncrementPayoutsSkipped() {
	t.payoutsSkipped.Add(1)
}

func (t *telemetryCounters) Snapshot() telemetrySnapshot {
	return telemetrySnapshot{
		BytesSent:       t.bytesSent.Load(),
		EntitiesSent:    t.entitiesSent.Load(),
		TickDuration:    t.tickDurationMillis.Load(),
		Kills:           t.kills.Load(),
		RoundsCompleted: t.roundsCompleted.Load(),
		PayoutsEnqueued: t.payoutsEnqueued.Load(),
		PayoutsSkipped:  t.payoutsSkipped.Load(),
	}
}
