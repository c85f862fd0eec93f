package assessment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("assessment not found")
	ErrAttemptNotFound = errors.New("attempt not found")
)

type AttemptListOpts struct {
	AssessmentID string // filter by quiz
	StudentID    string // filter by student
	Limit        int
	Offset       int
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// PutDefinition validates and stores an authored questions document.
// Validation happens here, at load time: a malformed definition is
// rejected before anything could ever be scored against it.
func (s *SQLStore) PutDefinition(ctx context.Context, moduleID, title string, questionsJSON []byte, isActive bool) (Definition, error) {
	id := uuid.NewString()
	def, err := ParseDefinition(id, moduleID, title, questionsJSON, isActive)
	if err != nil {
		return Definition{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO module_assessments (id, module_id, title, questions_json, is_active, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		def.ID, def.ModuleID, def.Title, string(questionsJSON), def.IsActive, time.Now().Unix())
	if err != nil {
		return Definition{}, err
	}
	return def, nil
}

// GetActiveByModule loads and parses the active definition for a module.
func (s *SQLStore) GetActiveByModule(ctx context.Context, moduleID string) (Definition, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, module_id, title, questions_json, is_active
		 FROM module_assessments WHERE module_id=$1 AND is_active=TRUE`, moduleID)
	var id, modID, title, qjson string
	var active bool
	if err := row.Scan(&id, &modID, &title, &qjson, &active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Definition{}, ErrNotFound
		}
		return Definition{}, err
	}
	return ParseDefinition(id, modID, title, []byte(qjson), active)
}

// InsertAttemptTx writes a scored attempt inside the caller's transaction
// so it commits together with the matching progress update.
func (s *SQLStore) InsertAttemptTx(ctx context.Context, tx *sql.Tx, a *Attempt) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	aj, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO attempts (id, assessment_id, student_id, answers_json, score, percentage, stars_earned, time_taken_sec, completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.AssessmentID, a.StudentID, string(aj), a.Score, a.Percentage, a.StarsEarned, a.TimeTakenSec, a.CompletedAt.Unix())
	return err
}

const attemptCols = `id, assessment_id, student_id, answers_json, score, percentage, stars_earned, time_taken_sec, completed_at`

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+attemptCols+` FROM attempts WHERE id=$1`, id)
	a, err := scanAttempt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Attempt{}, ErrAttemptNotFound
	}
	return a, err
}

// ListAttempts returns attempt history, newest first.
func (s *SQLStore) ListAttempts(ctx context.Context, opts AttemptListOpts) ([]Attempt, error) {
	query := `SELECT ` + attemptCols + ` FROM attempts`
	var conds []string
	var args []any
	if opts.AssessmentID != "" {
		args = append(args, opts.AssessmentID)
		conds = append(conds, fmt.Sprintf("assessment_id=$%d", len(args)))
	}
	if opts.StudentID != "" {
		args = append(args, opts.StudentID)
		conds = append(conds, fmt.Sprintf("student_id=$%d", len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY completed_at DESC"
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttempt(sc scanner) (Attempt, error) {
	var a Attempt
	var ajson string
	var completed int64
	if err := sc.Scan(&a.ID, &a.AssessmentID, &a.StudentID, &ajson, &a.Score, &a.Percentage, &a.StarsEarned, &a.TimeTakenSec, &completed); err != nil {
		return Attempt{}, err
	}
	if err := json.Unmarshal([]byte(ajson), &a.Answers); err != nil {
		a.Answers = map[int]int{}
	}
	a.CompletedAt = time.Unix(completed, 0)
	return a, nil
}
