package progress

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrNotFound = errors.New("progress not found")

// Store is the only writer of progress rows. Transitions funnel through
// applyTx so the monotonic invariants hold at a single choke point.
type Store struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewStore(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

func (s *Store) Get(ctx context.Context, studentID, moduleID string) (Record, error) {
	return s.get(ctx, s.db, studentID, moduleID, false)
}

func (s *Store) ListByStudent(ctx context.Context, studentID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT student_id, module_id, status, stars, updated_at
		 FROM progress WHERE student_id=$1`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// View applies the module-viewed transition in its own transaction.
func (s *Store) View(ctx context.Context, studentID, moduleID string) (Record, error) {
	return s.applyOwnTx(ctx, studentID, moduleID, Record.ApplyView)
}

// CompleteManually applies the quiz-less completion transition.
func (s *Store) CompleteManually(ctx context.Context, studentID, moduleID string) (Record, error) {
	return s.applyOwnTx(ctx, studentID, moduleID, Record.ApplyManualCompletion)
}

func (s *Store) applyOwnTx(ctx context.Context, studentID, moduleID string, fn func(Record, time.Time) Record) (Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, err
	}
	defer tx.Rollback()

	rec, err := s.ApplyTx(ctx, tx, studentID, moduleID, fn)
	if err != nil {
		return Record{}, err
	}
	return rec, tx.Commit()
}

// ApplyTx runs a transition inside the caller's transaction, so an attempt
// insert and its progress update commit together. The row is read under a
// lock on postgres; sqlite serializes writers on its own.
func (s *Store) ApplyTx(ctx context.Context, tx *sql.Tx, studentID, moduleID string, fn func(Record, time.Time) Record) (Record, error) {
	rec, err := s.get(ctx, tx, studentID, moduleID, true)
	if errors.Is(err, ErrNotFound) {
		rec = New(studentID, moduleID)
	} else if err != nil {
		return Record{}, err
	}

	rec = fn(rec, time.Now())

	_, err = tx.ExecContext(ctx,
		`INSERT INTO progress (student_id, module_id, status, stars, updated_at)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (student_id, module_id)
		 DO UPDATE SET status=EXCLUDED.status, stars=EXCLUDED.stars, updated_at=EXCLUDED.updated_at`,
		rec.StudentID, rec.ModuleID, string(rec.Status), rec.Stars, rec.UpdatedAt.Unix())
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) get(ctx context.Context, q querier, studentID, moduleID string, forUpdate bool) (Record, error) {
	query := `SELECT student_id, module_id, status, stars, updated_at
		 FROM progress WHERE student_id=$1 AND module_id=$2`
	if forUpdate && s.driver == "postgres" {
		query += " FOR UPDATE"
	}
	row := q.QueryRowContext(ctx, query, studentID, moduleID)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var r Record
	var status string
	var updated int64
	if err := sc.Scan(&r.StudentID, &r.ModuleID, &status, &r.Stars, &updated); err != nil {
		return Record{}, err
	}
	r.Status = Status(status)
	r.UpdatedAt = time.Unix(updated, 0)
	return r, nil
}
