// Package sqlite implements store.LabeledPairStore over
// modernc.org/sqlite: WAL mode, a CREATE TABLE IF NOT EXISTS schema
// applied on open, and plain database/sql access with no ORM against a
// single append-only labeled_pairs table.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cognicore/erecon/pkg/erecon/erecerr"
	"github.com/cognicore/erecon/pkg/erecon/model"
	"github.com/cognicore/erecon/pkg/erecon/store"
)

type sqliteStore struct {
	db *sql.DB
}

// Open opens (creating if necessary) a SQLite-backed LabeledPairStore at
// path, with WAL mode enabled for concurrent readers during a long
// active-learning session.
func Open(ctx context.Context, path string) (store.LabeledPairStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store/sqlite: open %s: %w: %v", path, erecerr.ErrIO, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store/sqlite: enabling WAL: %w: %v", erecerr.ErrIO, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store/sqlite: initializing schema: %w: %v", erecerr.ErrIO, err)
	}

	return &sqliteStore{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS labeled_pairs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	record_a_id TEXT NOT NULL,
	record_a_json TEXT NOT NULL,
	record_b_id TEXT NOT NULL,
	record_b_json TEXT NOT NULL,
	label INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_labeled_pairs_session ON labeled_pairs (session_id, seq);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// AppendLabeled inserts pairs for sessionID inside one transaction,
// ordered by an incrementing sequence number so LoadLabeled can restore
// them in append order.
func (s *sqliteStore) AppendLabeled(ctx context.Context, sessionID string, pairs []model.LabeledPair) error {
	if len(pairs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store/sqlite: begin tx: %w: %v", erecerr.ErrIO, err)
	}
	defer tx.Rollback()

	var nextSeq int
	row := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), -1) + 1 FROM labeled_pairs WHERE session_id = ?`, sessionID)
	if err := row.Scan(&nextSeq); err != nil {
		return fmt.Errorf("store/sqlite: reading next sequence: %w: %v", erecerr.ErrIO, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO labeled_pairs (session_id, seq, record_a_id, record_a_json, record_b_id, record_b_json, label)
VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store/sqlite: preparing insert: %w: %v", erecerr.ErrIO, err)
	}
	defer stmt.Close()

	for i, lp := range pairs {
		aJSON, err := json.Marshal(lp.Pair.A.Attributes)
		if err != nil {
			return fmt.Errorf("store/sqlite: marshaling record %s: %w: %v", lp.Pair.A.ID, erecerr.ErrIO, err)
		}
		bJSON, err := json.Marshal(lp.Pair.B.Attributes)
		if err != nil {
			return fmt.Errorf("store/sqlite: marshaling record %s: %w: %v", lp.Pair.B.ID, erecerr.ErrIO, err)
		}
		if _, err := stmt.ExecContext(ctx, sessionID, nextSeq+i, lp.Pair.A.ID, string(aJSON), lp.Pair.B.ID, string(bJSON), lp.Label); err != nil {
			return fmt.Errorf("store/sqlite: inserting labeled pair: %w: %v", erecerr.ErrIO, err)
		}
	}

	return tx.Commit()
}

// LoadLabeled returns every labeled pair previously appended for
// sessionID, ordered by sequence number.
func (s *sqliteStore) LoadLabeled(ctx context.Context, sessionID string) ([]model.LabeledPair, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT record_a_id, record_a_json, record_b_id, record_b_json, label
FROM labeled_pairs WHERE session_id = ? ORDER BY seq ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("store/sqlite: querying session %s: %w: %v", sessionID, erecerr.ErrIO, err)
	}
	defer rows.Close()

	var out []model.LabeledPair
	for rows.Next() {
		var aID, bID, aJSON, bJSON string
		var label int
		if err := rows.Scan(&aID, &aJSON, &bID, &bJSON, &label); err != nil {
			return nil, fmt.Errorf("store/sqlite: scanning row: %w: %v", erecerr.ErrIO, err)
		}
		var aAttrs, bAttrs map[string]string
		if err := json.Unmarshal([]byte(aJSON), &aAttrs); err != nil {
			return nil, fmt.Errorf("store/sqlite: unmarshaling record %s: %w: %v", aID, erecerr.ErrIO, err)
		}
		if err := json.Unmarshal([]byte(bJSON), &bAttrs); err != nil {
			return nil, fmt.Errorf("store/sqlite: unmarshaling record %s: %w: %v", bID, erecerr.ErrIO, err)
		}
		a := model.Record{ID: aID, Attributes: aAttrs}
		b := model.Record{ID: bID, Attributes: bAttrs}
		out = append(out, model.LabeledPair{Pair: model.NewPair(a, b), Label: label})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store/sqlite: iterating rows: %w: %v", erecerr.ErrIO, err)
	}
	return out, nil
}
