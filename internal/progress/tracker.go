package progress

import "time"

type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusStarted    Status = "STARTED"
	StatusDone       Status = "DONE"
)

// ManualCompletionStars is the flat reward for finishing a module that has
// no quiz.
const ManualCompletionStars = 3

// Record tracks one student's state on one module. Status and Stars are
// both monotonic: DONE never regresses and Stars only ever holds the best
// reward seen for the module.
type Record struct {
	StudentID string    `json:"student_id"`
	ModuleID  string    `json:"module_id"`
	Status    Status    `json:"status"`
	Stars     int       `json:"stars"`
	UpdatedAt time.Time `json:"updated_at"`
}

func rank(s Status) int {
	switch s {
	case StatusStarted:
		return 1
	case StatusDone:
		return 2
	default:
		return 0
	}
}

// ApplyView promotes NOT_STARTED to STARTED. No-op on STARTED and DONE.
func (r Record) ApplyView(now time.Time) Record {
	if rank(r.Status) < rank(StatusStarted) {
		r.Status = StatusStarted
		r.UpdatedAt = now
	}
	return r
}

// ApplyAttempt marks the module DONE and keeps the best star reward.
// Replaying the same attempt, or a worse retake, changes nothing.
func (r Record) ApplyAttempt(starsEarned int, now time.Time) Record {
	if r.Status != StatusDone || starsEarned > r.Stars {
		r.Status = StatusDone
		if starsEarned > r.Stars {
			r.Stars = starsEarned
		}
		r.UpdatedAt = now
	}
	return r
}

// ApplyManualCompletion marks a quiz-less module DONE with the flat
// reward, never lowering stars a quiz already earned.
func (r Record) ApplyManualCompletion(now time.Time) Record {
	return r.ApplyAttempt(ManualCompletionStars, now)
}

// New is the lazily created record for a first interaction.
func New(studentID, moduleID string) Record {
	return Record{StudentID: studentID, ModuleID: moduleID, Status: StatusNotStarted}
}
