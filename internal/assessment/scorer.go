package assessment

import "time"

// ScoreAttempt grades a submission against a definition. Pure: the caller
// persists the result.
//
// A question counts as correct only when the submission carries an entry
// for its id and that entry equals the correct option. Absent entries are
// wrong answers, never errors: skipping a question is a valid state.
func ScoreAttempt(def Definition, answers map[int]int, startedAt, now time.Time) Attempt {
	correct := 0
	for _, q := range def.Questions {
		sel, ok := answers[q.ID]
		if ok && q.CorrectAnswer != nil && sel == *q.CorrectAnswer {
			correct++
		}
	}

	total := len(def.Questions)
	percentage := 0
	if total > 0 {
		percentage = correct * 100 / total
	}

	// Client-supplied start times can sit in the future (clock skew or
	// tampering); clamp rather than record a negative duration.
	elapsed := int(now.Sub(startedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	return Attempt{
		AssessmentID: def.ID,
		Answers:      answers,
		Score:        correct,
		Percentage:   percentage,
		StarsEarned:  def.Scoring.StarsFor(correct),
		TimeTakenSec: elapsed,
		CompletedAt:  now,
	}
}
