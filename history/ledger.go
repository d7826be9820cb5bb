// Package history keeps a SQLite ledger of worktodo lines moved to the archive.
package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/teranos/worktodo/db"
	"github.com/teranos/worktodo/errors"
	"github.com/teranos/worktodo/internal/util"
	"github.com/teranos/worktodo/worktodo"
)

// Record is one archived worktodo line
type Record struct {
	ID          string    `json:"id"`
	QueuePath   string    `json:"queue_path"`
	ArchivePath string    `json:"archive_path"`
	RawLine     string    `json:"raw_line"`
	Kind        *string   `json:"kind,omitempty"`     // set when the line decoded to an entry
	Exponent    *int64    `json:"exponent,omitempty"` // set when the line decoded to an entry
	AID         *string   `json:"aid,omitempty"`
	ArchivedAt  time.Time `json:"archived_at"`
}

// Ledger records archived lines in the archived_entries table
type Ledger struct {
	db      *sql.DB
	decoder *worktodo.Decoder
	now     func() time.Time
	newID   func() string
}

// NewLedger creates a Ledger on a migrated database
func NewLedger(conn *sql.DB, decoder *worktodo.Decoder) *Ledger {
	if decoder == nil {
		decoder = worktodo.NewDecoder()
	}
	return &Ledger{
		db:      conn,
		decoder: decoder,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.New().String() },
	}
}

// Add records line as archived from queuePath to archivePath.
// Lines that still decode carry their kind, exponent and AID.
func (l *Ledger) Add(ctx context.Context, queuePath, archivePath, line string) (*Record, error) {
	rec := &Record{
		ID:          l.newID(),
		QueuePath:   queuePath,
		ArchivePath: archivePath,
		RawLine:     line,
		ArchivedAt:  l.now(),
	}
	if entry, err := l.decoder.Decode(line); err == nil {
		rec.Kind = util.Ptr(entry.Kind.String())
		rec.Exponent = util.Ptr(int64(entry.Exponent))
		if entry.AID != "" {
			rec.AID = util.Ptr(entry.AID)
		}
	}

	query := `
		INSERT INTO archived_entries (
			id, queue_path, archive_path, raw_line, kind, exponent, aid, archived_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := l.db.ExecContext(ctx, query,
		rec.ID, rec.QueuePath, rec.ArchivePath, rec.RawLine,
		rec.Kind, rec.Exponent, rec.AID, rec.ArchivedAt,
	)
	if err != nil {
		return nil, db.Wrapf(err, "failed to record archived line from %s", queuePath)
	}
	return rec, nil
}

// List returns the most recent records first. limit <= 0 returns all.
func (l *Ledger) List(ctx context.Context, limit int) ([]Record, error) {
	query := `
		SELECT id, queue_path, archive_path, raw_line, kind, exponent, aid, archived_at
		FROM archived_entries
		ORDER BY archived_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, db.Wrapf(err, "failed to query archived entries")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var kind, aid sql.NullString
		var exponent sql.NullInt64
		if err := rows.Scan(&rec.ID, &rec.QueuePath, &rec.ArchivePath, &rec.RawLine,
			&kind, &exponent, &aid, &rec.ArchivedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan archived entry")
		}
		if kind.Valid {
			rec.Kind = &kind.String
		}
		if exponent.Valid {
			rec.Exponent = &exponent.Int64
		}
		if aid.Valid {
			rec.AID = &aid.String
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read archived entries")
	}
	return records, nil
}

// Count returns the number of archived lines
func (l *Ledger) Count(ctx context.Context) (int, error) {
	var n int
	if err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM archived_entries").Scan(&n); err != nil {
		return 0, db.Wrapf(err, "failed to count archived entries")
	}
	return n, nil
}
