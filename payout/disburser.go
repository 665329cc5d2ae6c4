package payout

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ClawGrabSOL/pumpsnek.io/logging"
)

// TransferFunc submits one prize transfer. Implementations talk to whatever
// signs and sends funds; the disburser only cares about success or failure.
type TransferFunc func(ctx context.Context, req Request) error

// DryRunTransfer is the default transfer: it logs the would-be payment and
// succeeds. Useful for development and for running without a funded wallet.
func DryRunTransfer(ctx context.Context, req Request) error {
	logging.Log.WithFields(logrus.Fields{
		"wallet": req.Wallet,
		"amount": req.Amount,
		"round":  req.Round,
	}).Info("dry-run payout transfer")
	return nil
}

// Disburser drains the queue at a fixed period, at most one request per
// period, and never has more than one transfer in flight. Failed transfers
// are retried up to maxRetries attempts, then dropped with an error log.
type Disburser struct {
	queue      *Queue
	transfer   TransferFunc
	ledger     *Ledger
	period     time.Duration
	maxRetries int

	pending   *Request
	pendingID int64
}

// NewDisburser wires a disburser to its queue. ledger may be nil, in which
// case nothing is persisted.
func NewDisburser(queue *Queue, transfer TransferFunc, ledger *Ledger, period time.Duration, maxRetries int) *Disburser {
	if transfer == nil {
		transfer = DryRunTransfer
	}
	if period <= 0 {
		period = time.Second
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Disburser{
		queue:      queue,
		transfer:   transfer,
		ledger:     ledger,
		period:     period,
		maxRetries: maxRetries,
	}
}

// Run drives the drain loop until the context is cancelled.
func (d *Disburser) Run(ctx context.Context) {
	ticker := time.NewTicker(d.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.step(ctx)
		}
	}
}

// step performs at most one transfer attempt. A request that failed on a
// previous step stays pending and is retried before anything new is popped.
func (d *Disburser) step(ctx context.Context) {
	if d.pending == nil {
		req, ok := d.queue.tryDequeue()
		if !ok {
			return
		}
		d.pending = &req
		d.pendingID = 0
		if d.ledger != nil {
			id, err := d.ledger.RecordRequest(req)
			if err != nil {
				logging.Log.WithError(err).Warn("failed to record payout request")
			} else {
				d.pendingID = id
			}
		}
	}

	req := d.pending
	err := d.transfer(ctx, *req)

	if d.ledger != nil && d.pendingID != 0 {
		if lerr := d.ledger.RecordAttempt(d.pendingID, req.Retries+1, err); lerr != nil {
			logging.Log.WithError(lerr).Warn("failed to record payout attempt")
		}
	}

	if err == nil {
		logging.Log.Infof("paid out %g to %s for round %d", req.Amount, req.Player, req.Round)
		d.pending = nil
		return
	}

	req.Retries++
	if req.Retries >= d.maxRetries {
		logging.Log.WithError(err).Errorf("dropping payout for %s (round %d) after %d attempts",
			req.Player, req.Round, req.Retries)
		d.pending = nil
		return
	}
	logging.Log.WithError(err).Warnf("payout attempt %d for %s failed, will retry",
		req.Retries, req.Player)
}
