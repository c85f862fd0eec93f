package assessment

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"github.com/starlearn/hub/internal/eventlog"
	"github.com/starlearn/hub/internal/progress"
)

// Submission is what the web boundary hands over. The caller guarantees
// StudentID is the authenticated actor.
type Submission struct {
	ModuleID  string      `json:"module_id"`
	StudentID string      `json:"student_id"`
	StartedAt int64       `json:"start_time"` // unix seconds, client-supplied
	Answers   map[int]int `json:"answers"`
}

// Service owns the attempt write path: score, persist the attempt row and
// the progress transition in one transaction.
type Service struct {
	db       *sql.DB
	defs     *SQLStore
	progress *progress.Store
	events   *eventlog.Repo
	now      func() time.Time
}

func NewService(db *sql.DB, defs *SQLStore, prog *progress.Store, events *eventlog.Repo) *Service {
	return &Service{db: db, defs: defs, progress: prog, events: events, now: time.Now}
}

// Submit scores a submission and records it. Duplicate and concurrent
// submissions each produce their own attempt row; retakes are intentional
// and history is never overwritten. Returns the stored attempt and the
// progress record after the update.
func (s *Service) Submit(ctx context.Context, sub Submission) (Attempt, progress.Record, error) {
	def, err := s.defs.GetActiveByModule(ctx, sub.ModuleID)
	if err != nil {
		return Attempt{}, progress.Record{}, err
	}

	att := ScoreAttempt(def, sub.Answers, time.Unix(sub.StartedAt, 0), s.now())
	att.StudentID = sub.StudentID

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Attempt{}, progress.Record{}, err
	}
	defer tx.Rollback()

	if err := s.defs.InsertAttemptTx(ctx, tx, &att); err != nil {
		return Attempt{}, progress.Record{}, err
	}
	rec, err := s.progress.ApplyTx(ctx, tx, sub.StudentID, sub.ModuleID,
		func(r progress.Record, now time.Time) progress.Record {
			return r.ApplyAttempt(att.StarsEarned, now)
		})
	if err != nil {
		return Attempt{}, progress.Record{}, err
	}
	if err := tx.Commit(); err != nil {
		return Attempt{}, progress.Record{}, err
	}

	if s.events != nil {
		data, _ := json.Marshal(att)
		if err := s.events.Append(ctx, eventlog.Event{
			Type:     eventlog.TypeAttemptSubmitted,
			Key:      att.ID,
			DataJSON: string(data),
		}); err != nil {
			log.Printf("eventlog append failed for attempt %s: %v", att.ID, err)
		}
	}
	return att, rec, nil
}
