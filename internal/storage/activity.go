package storage

import (
	"context"
	"fmt"
	"time"
)

// Activity is one entry of the local activity journal
type Activity struct {
	ID      int       `json:"id" xml:"id,attr"`
	Kind    string    `json:"kind" xml:"kind"`
	Detail  string    `json:"detail" xml:"detail"`
	Created time.Time `json:"created" xml:"created"`
}

// ActivityLog records what happened in the client, newest last.
type ActivityLog interface {
	RecordActivity(ctx context.Context, kind, detail string) error
	RecentActivity(ctx context.Context, limit int) ([]Activity, error)
}

// RecordActivity appends an entry to the journal
func (s *SQLiteStore) RecordActivity(ctx context.Context, kind, detail string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO activity (kind, detail, created) VALUES (?, ?, ?)",
		kind, detail, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record activity %q: %w", kind, err)
	}
	return nil
}

// RecentActivity returns up to limit of the latest entries in the order
// they happened.
func (s *SQLiteStore) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, kind, detail, created FROM activity ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	var entries []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.Kind, &a.Detail, &a.Created); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		entries = append(entries, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	// Reverse to chronological order
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}
