// Package student holds learner identity. Accounts are provisioned by an
// external admin collaborator; students sign in with an access code.
package student

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrNotFound = errors.New("student not found")

type Student struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	Age         int       `json:"age,omitempty"`
	ParentEmail string    `json:"parent_email"`
	AccessCode  string    `json:"-"`
	ClassLabel  string    `json:"class_label,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

const studentCols = `id, first_name, age, parent_email, access_code, class_label, created_at`

func (s *SQLStore) Get(ctx context.Context, id string) (Student, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+studentCols+` FROM students WHERE id=$1`, id)
	return scanStudent(row)
}

// GetByAccessCode resolves a login code to a student.
func (s *SQLStore) GetByAccessCode(ctx context.Context, code string) (Student, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+studentCols+` FROM students WHERE access_code=$1`, code)
	return scanStudent(row)
}

func scanStudent(row *sql.Row) (Student, error) {
	var st Student
	var age sql.NullInt64
	var class sql.NullString
	var created int64
	err := row.Scan(&st.ID, &st.FirstName, &age, &st.ParentEmail, &st.AccessCode, &class, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Student{}, ErrNotFound
	}
	if err != nil {
		return Student{}, err
	}
	st.Age = int(age.Int64)
	st.ClassLabel = class.String
	st.CreatedAt = time.Unix(created, 0)
	return st, nil
}
