// Package eventlog appends domain events to the event_log table for
// downstream sync and audit consumers.
package eventlog

import (
	"context"
	"database/sql"
	"time"
)

const (
	TypeAttemptSubmitted   = "attempt.submitted"
	TypeAssessmentReceived = "assessment.received"
)

type Event struct {
	Seq       int64
	Type      string
	Key       string // natural key: attempt id, result id
	DataJSON  string
	CreatedAt int64
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Append(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4)`,
		e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}
