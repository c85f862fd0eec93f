package general

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// Insert stores a new result and returns it with its generated id.
func (s *SQLStore) Insert(ctx context.Context, r Result) (Result, error) {
	r.ID = uuid.NewString()
	if r.CompletedAt.IsZero() {
		r.CompletedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assessment_results (id, student_id, raw_score, level, domains_json, stars_earned, recommendation, completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		r.ID, r.StudentID, r.RawScore, r.Level, r.DomainsJSON, r.StarsEarned, r.Recommendation, r.CompletedAt.Unix())
	if err != nil {
		return Result{}, err
	}
	return r, nil
}

// ListByStudent returns a student's results newest-first.
func (s *SQLStore) ListByStudent(ctx context.Context, studentID string) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, student_id, raw_score, level, domains_json, stars_earned, recommendation, completed_at
		 FROM assessment_results WHERE student_id=$1 ORDER BY completed_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		var domains, rec sql.NullString
		var completed int64
		if err := rows.Scan(&r.ID, &r.StudentID, &r.RawScore, &r.Level, &domains, &r.StarsEarned, &rec, &completed); err != nil {
			return nil, err
		}
		r.DomainsJSON = domains.String
		r.Recommendation = rec.String
		r.CompletedAt = time.Unix(completed, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}
