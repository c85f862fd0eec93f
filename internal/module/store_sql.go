// Package module holds the learning-content catalog. Modules are authored
// by an external collaborator; the engine only reads them.
package module

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrNotFound = errors.New("module not found")

type Module struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	WeekNo      int       `json:"week_no"`
	VideoURL    string    `json:"video_url,omitempty"`
	ResourceURL string    `json:"resource_url,omitempty"`
	MeetURL     string    `json:"meet_url,omitempty"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

const moduleCols = `id, title, week_no, video_url, resource_url, meet_url, is_published, created_at`

// ListPublished returns the modules visible to students, in week order.
func (s *SQLStore) ListPublished(ctx context.Context) ([]Module, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+moduleCols+` FROM modules WHERE is_published=TRUE ORDER BY week_no`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Module
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetPublished fetches one module as a student sees it. Unpublished
// modules are indistinguishable from missing ones.
func (s *SQLStore) GetPublished(ctx context.Context, id string) (Module, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+moduleCols+` FROM modules WHERE id=$1 AND is_published=TRUE`, id)
	m, err := scanModule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Module{}, ErrNotFound
	}
	return m, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanModule(sc scanner) (Module, error) {
	var m Module
	var video, resource, meet sql.NullString
	var created int64
	if err := sc.Scan(&m.ID, &m.Title, &m.WeekNo, &video, &resource, &meet, &m.IsPublished, &created); err != nil {
		return Module{}, err
	}
	m.VideoURL = video.String
	m.ResourceURL = resource.String
	m.MeetURL = meet.String
	m.CreatedAt = time.Unix(created, 0)
	return m, nil
}
