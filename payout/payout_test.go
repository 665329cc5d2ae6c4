package payout

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func testRequest(round int) Request {
	return Request{
		Wallet:    "9xTestWallet",
		Amount:    0.1,
		Player:    "alice",
		Round:     round,
		Timestamp: time.Now(),
	}
}

func TestQueueEnqueueDequeue(t *testing.T) {
	q := NewQueue(4)
	q.Enqueue(testRequest(1))
	q.Enqueue(testRequest(2))

	if q.Len() != 2 {
		t.Fatalf("expected 2 queued requests, got %d", q.Len())
	}

	req, ok := q.tryDequeue()
	if !ok || req.Round != 1 {
		t.Fatalf("expected round 1 first, got %+v ok=%v", req, ok)
	}
	req, ok = q.tryDequeue()
	if !ok || req.Round != 2 {
		t.Fatalf("expected round 2 second, got %+v ok=%v", req, ok)
	}
	if _, ok := q.tryDequeue(); ok {
		t.Fatal("dequeue from empty queue reported success")
	}
}

func TestQueueDropsWhenFull(t *testing.T) {
	q := NewQueue(2)
	q.Enqueue(testRequest(1))
	q.Enqueue(testRequest(2))
	q.Enqueue(testRequest(3)) // dropped, never blocks

	if q.Len() != 2 {
		t.Fatalf("expected buffer to stay at capacity 2, got %d", q.Len())
	}
	req, _ := q.tryDequeue()
	if req.Round != 1 {
		t.Fatalf("drop policy must discard the newest request, got round %d first", req.Round)
	}
}

func TestDisburserStepDrainsOnePerPeriod(t *testing.T) {
	q := NewQueue(4)
	q.Enqueue(testRequest(1))
	q.Enqueue(testRequest(2))

	var calls int
	transfer := func(ctx context.Context, req Request) error {
		calls++
		return nil
	}
	d := NewDisburser(q, transfer, nil, time.Second, 3)

	d.step(context.Background())
	if calls != 1 || q.Len() != 1 {
		t.Fatalf("after one step: calls=%d queued=%d, want 1 and 1", calls, q.Len())
	}
	d.step(context.Background())
	if calls != 2 || q.Len() != 0 {
		t.Fatalf("after two steps: calls=%d queued=%d, want 2 and 0", calls, q.Len())
	}
	d.step(context.Background()) // empty queue, no attempt
	if calls != 2 {
		t.Fatalf("step on empty queue made a transfer call")
	}
}

func TestDisburserRetriesThenDrops(t *testing.T) {
	q := NewQueue(4)
	q.Enqueue(testRequest(1))
	q.Enqueue(testRequest(2))

	var calls int
	failing := func(ctx context.Context, req Request) error {
		calls++
		return errors.New("rpc unavailable")
	}
	d := NewDisburser(q, failing, nil, time.Second, 3)

	// Three failed attempts exhaust the retry budget for round 1.
	for i := 0; i < 3; i++ {
		d.step(context.Background())
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts for the first request, got %d", calls)
	}
	if d.pending != nil {
		t.Fatal("exhausted request still pending")
	}
	if q.Len() != 1 {
		t.Fatalf("second request should still be queued, Len=%d", q.Len())
	}

	// The next step moves on to round 2.
	d.step(context.Background())
	if calls != 4 {
		t.Fatalf("expected a fresh attempt for the next request, got %d calls", calls)
	}
	if d.pending == nil || d.pending.Round != 2 {
		t.Fatalf("wrong pending request: %+v", d.pending)
	}
}

func TestDisburserRetriesSameRequestBeforePoppingNext(t *testing.T) {
	q := NewQueue(4)
	q.Enqueue(testRequest(1))
	q.Enqueue(testRequest(2))

	attempts := 0
	flaky := func(ctx context.Context, req Request) error {
		attempts++
		if attempts == 1 {
			return errors.New("transient")
		}
		return nil
	}
	d := NewDisburser(q, flaky, nil, time.Second, 3)

	d.step(context.Background()) // fails, request stays pending
	if d.pending == nil || d.pending.Round != 1 || d.pending.Retries != 1 {
		t.Fatalf("failed request not held for retry: %+v", d.pending)
	}
	if q.Len() != 1 {
		t.Fatalf("second request consumed early, Len=%d", q.Len())
	}

	d.step(context.Background()) // succeeds on retry
	if d.pending != nil {
		t.Fatal("request still pending after success")
	}
}

func TestNewDisburserDefaultsToDryRun(t *testing.T) {
	q := NewQueue(1)
	q.Enqueue(testRequest(1))

	d := NewDisburser(q, nil, nil, 0, 0)
	d.step(context.Background())

	if d.pending != nil {
		t.Fatal("dry-run transfer should always succeed")
	}
}

func TestDryRunTransferSucceeds(t *testing.T) {
	if err := DryRunTransfer(context.Background(), testRequest(1)); err != nil {
		t.Fatalf("dry-run transfer failed: %v", err)
	}
}

func TestLedgerRecordsRequestsAndAttempts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payouts.db")
	ledger, err := OpenLedger(path)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	defer ledger.Close()

	id, err := ledger.RecordRequest(testRequest(7))
	if err != nil {
		t.Fatalf("record request: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a non-zero row id")
	}

	if err := ledger.RecordAttempt(id, 1, errors.New("rpc unavailable")); err != nil {
		t.Fatalf("record failed attempt: %v", err)
	}
	if err := ledger.RecordAttempt(id, 2, nil); err != nil {
		t.Fatalf("record successful attempt: %v", err)
	}

	var count int
	if err := ledger.db.QueryRow(
		`SELECT COUNT(*) FROM payout_attempts WHERE request_id = ?`, id,
	).Scan(&count); err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 recorded attempts, got %d", count)
	}
}

func TestDisburserPersistsThroughLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payouts.db")
	ledger, err := OpenLedger(path)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	defer ledger.Close()

	q := NewQueue(1)
	q.Enqueue(testRequest(3))

	d := NewDisburser(q, nil, ledger, time.Second, 3)
	d.step(context.Background())

	var requests, attempts int
	if err := ledger.db.QueryRow(`SELECT COUNT(*) FROM payout_requests`).Scan(&requests); err != nil {
		t.Fatalf("count requests: %v", err)
	}
	if err := ledger.db.QueryRow(`SELECT COUNT(*) FROM payout_attempts`).Scan(&attempts); err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	if requests != 1 || attempts != 1 {
		t.Fatalf("ledger rows: %d requests, %d attempts, want 1 and 1", requests, attempts)
	}
}
