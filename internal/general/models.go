// Package general stores results delivered by the external general-skills
// assessment provider, one row per verified webhook delivery.
package general

import (
	"encoding/json"
	"time"
)

// CompletionStars is the flat reward for finishing a general assessment,
// independent of the score.
const CompletionStars = 3

// Result is immutable once stored; a student accumulates many over time.
type Result struct {
	ID             string    `json:"id"`
	StudentID      string    `json:"student_id"`
	RawScore       float64   `json:"raw_score"`
	Level          string    `json:"level"`
	DomainsJSON    string    `json:"domains_json,omitempty"`
	StarsEarned    int       `json:"stars_earned"`
	Recommendation string    `json:"recommendation"`
	CompletedAt    time.Time `json:"completed_at"`
}

// DomainBreakdown parses the stored domain scores. A row with missing or
// unparseable JSON reports ok=false; callers treat that as "no breakdown"
// rather than an error.
func (r Result) DomainBreakdown() (map[string]float64, bool) {
	if r.DomainsJSON == "" {
		return nil, false
	}
	var m map[string]float64
	if err := json.Unmarshal([]byte(r.DomainsJSON), &m); err != nil {
		return nil, false
	}
	return m, true
}
