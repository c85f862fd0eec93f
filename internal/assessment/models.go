package assessment

import "time"

type Question struct {
	ID            int      `json:"id"`
	Prompt        string   `json:"prompt,omitempty"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer *int     `json:"correct_answer,omitempty"` // index into Options; nil when served to students
}

// Definition is an immutable quiz specification attached to a module.
// Authored externally; the engine only loads and scores against it.
type Definition struct {
	ID        string        `json:"id"`
	ModuleID  string        `json:"module_id"`
	Title     string        `json:"title"`
	Questions []Question    `json:"questions"`
	Scoring   ScoringPolicy `json:"scoring"`
	IsActive  bool          `json:"is_active"`
}

// Attempt is one scored submission. Rows are append-only: retakes insert
// new attempts and nothing ever mutates or deletes an existing one.
type Attempt struct {
	ID           string      `json:"id"`
	AssessmentID string      `json:"assessment_id"`
	StudentID    string      `json:"student_id"`
	Answers      map[int]int `json:"answers"` // question id -> selected option index
	Score        int         `json:"score"`
	Percentage   int         `json:"percentage"`
	StarsEarned  int         `json:"stars_earned"`
	TimeTakenSec int         `json:"time_taken_sec"`
	CompletedAt  time.Time   `json:"completed_at"`
}
