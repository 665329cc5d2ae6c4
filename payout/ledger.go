package payout

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Ledger persists payout requests and transfer attempts in sqlite so an
// operator can audit or replay missed prizes. The simulation core itself is
// deliberately non-persistent; only this external collaborator touches disk.
type Ledger struct {
	db *sql.DB
}

// OpenLedger opens (creating if needed) the ledger database at path.
func OpenLedger(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	l := &Ledger{db: db}
	if err := l.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func (l *Ledger) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS payout_requests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			wallet TEXT NOT NULL,
			player TEXT NOT NULL,
			amount REAL NOT NULL,
			round INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS payout_attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			request_id INTEGER NOT NULL,
			attempt INTEGER NOT NULL,
			ok INTEGER NOT NULL,
			error TEXT,
			attempted_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, query := range queries {
		if _, err := l.db.Exec(query); err != nil {
			return fmt.Errorf("create ledger table: %w", err)
		}
	}
	return nil
}

// RecordRequest inserts a request and returns its row id.
func (l *Ledger) RecordRequest(req Request) (int64, error) {
	res, err := l.db.Exec(
		`INSERT INTO payout_requests (wallet, player, amount, round, created_at) VALUES (?, ?, ?, ?, ?)`,
		req.Wallet, req.Player, req.Amount, req.Round, req.Timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("record payout request: %w", err)
	}
	return res.LastInsertId()
}

// RecordAttempt inserts one transfer attempt outcome for a request.
func (l *Ledger) RecordAttempt(requestID int64, attempt int, transferErr error) error {
	ok := 1
	errText := ""
	if transferErr != nil {
		ok = 0
		errText = transferErr.Error()
	}
	_, err := l.db.Exec(
		`INSERT INTO payout_attempts (request_id, attempt, ok, error) VALUES (?, ?, ?, ?)`,
		requestID, attempt, ok, errText,
	)
	if err != nil {
		return fmt.Errorf("record payout attempt: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}
