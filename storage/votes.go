package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// VoteLedger records which arena comparisons the user has already voted on.
// The backend accepts repeat votes, so finalisation lives entirely on the
// client; the ledger makes it survive restarts.
type VoteLedger struct {
	db *sql.DB
}

// VoteRecord is one recorded verdict.
type VoteRecord struct {
	ComparisonID string
	ChatID       int64
	Winner       string // winning model name, empty on ties
	Outcome      string // "left", "right" or "tie"
	VotedAt      time.Time
}

// NewVoteLedger opens (creating if necessary) the vote database under dataDir.
func NewVoteLedger(dataDir string) (*VoteLedger, error) {
	dbPath := filepath.Join(dataDir, "votes.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	ledger := &VoteLedger{db: db}

	if err := ledger.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return ledger, nil
}

func (l *VoteLedger) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS votes (
		comparison_id TEXT PRIMARY KEY,
		chat_id INTEGER NOT NULL,
		winner TEXT,
		outcome TEXT NOT NULL,
		voted_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_votes_chat ON votes(chat_id);
	`

	_, err := l.db.Exec(schema)
	return err
}

// Record stores a verdict. Recording the same comparison twice keeps the
// first verdict; the UI never offers a second vote anyway.
func (l *VoteLedger) Record(comparisonID string, chatID int64, winner, outcome string) error {
	_, err := l.db.Exec(
		`INSERT OR IGNORE INTO votes (comparison_id, chat_id, winner, outcome, voted_at)
		 VALUES (?, ?, ?, ?, ?)`,
		comparisonID, chatID, winner, outcome, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record vote: %w", err)
	}
	return nil
}

// VotedComparisons returns the ids of every comparison already voted on.
func (l *VoteLedger) VotedComparisons() ([]string, error) {
	rows, err := l.db.Query(`SELECT comparison_id FROM votes`)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// History returns all recorded verdicts, newest first.
func (l *VoteLedger) History() ([]VoteRecord, error) {
	rows, err := l.db.Query(
		`SELECT comparison_id, chat_id, winner, outcome, voted_at
		 FROM votes ORDER BY voted_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	var records []VoteRecord
	for rows.Next() {
		var r VoteRecord
		var winner sql.NullString
		if err := rows.Scan(&r.ComparisonID, &r.ChatID, &winner, &r.Outcome, &r.VotedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		r.Winner = winner.String
		records = append(records, r)
	}

	return records, rows.Err()
}

// Close releases the database handle.
func (l *VoteLedger) Close() error {
	return l.db.Close()
}
