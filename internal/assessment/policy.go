package assessment

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AttemptFloorStars is awarded when no tier matches: an attempted quiz is
// never worth zero stars.
const AttemptFloorStars = 1

// StarTier maps a score range to a star reward. Range is either an
// inclusive "min-max" pair or a single threshold "n" (score >= n), used
// for open-ended top tiers. Tiers resolve in declared order, first match
// wins.
type StarTier struct {
	Range string `json:"score"`
	Stars int    `json:"stars"`

	min, max  int
	threshold int
	open      bool
}

func (t *StarTier) compile() error {
	r := strings.TrimSpace(t.Range)
	if r == "" {
		return fmt.Errorf("empty tier range")
	}
	if t.Stars < 1 {
		return fmt.Errorf("tier %q: stars must be >= 1", t.Range)
	}
	if lo, hi, ok := strings.Cut(r, "-"); ok {
		mn, err1 := strconv.Atoi(strings.TrimSpace(lo))
		mx, err2 := strconv.Atoi(strings.TrimSpace(hi))
		if err1 != nil || err2 != nil {
			return fmt.Errorf("tier %q: bad range bounds", t.Range)
		}
		if mn > mx {
			return fmt.Errorf("tier %q: min exceeds max", t.Range)
		}
		t.min, t.max, t.open = mn, mx, false
		return nil
	}
	n, err := strconv.Atoi(r)
	if err != nil {
		return fmt.Errorf("tier %q: not a range or threshold", t.Range)
	}
	t.threshold, t.open = n, true
	return nil
}

func (t *StarTier) matches(score int) bool {
	if t.open {
		return score >= t.threshold
	}
	return t.min <= score && score <= t.max
}

// ScoringPolicy is compiled and validated once when a definition loads;
// scoring never re-parses tier strings.
type ScoringPolicy struct {
	StarTiers    []StarTier `json:"star_rewards"`
	PassingScore int        `json:"passing_score"`
}

func (p *ScoringPolicy) compile() error {
	if len(p.StarTiers) == 0 {
		return fmt.Errorf("no star tiers")
	}
	for i := range p.StarTiers {
		if err := p.StarTiers[i].compile(); err != nil {
			return err
		}
	}
	// Score 0 must be reachable by some tier. Gaps elsewhere fall back to
	// the 1-star floor and are an authoring concern, not a load error.
	for i := range p.StarTiers {
		if p.StarTiers[i].matches(0) {
			return nil
		}
	}
	return fmt.Errorf("no tier covers score 0")
}

// StarsFor resolves the reward for a score: first matching tier in
// declared order, or the attempt floor.
func (p *ScoringPolicy) StarsFor(score int) int {
	for i := range p.StarTiers {
		if p.StarTiers[i].matches(score) {
			return p.StarTiers[i].Stars
		}
	}
	return AttemptFloorStars
}

type definitionDoc struct {
	Title     string        `json:"title"`
	Questions []Question    `json:"questions"`
	Scoring   ScoringPolicy `json:"scoring"`
}

// ParseDefinition decodes an authored questions document and fails fast on
// anything the scorer could not safely score against.
func ParseDefinition(id, moduleID, title string, questionsJSON []byte, isActive bool) (Definition, error) {
	var doc definitionDoc
	if err := json.Unmarshal(questionsJSON, &doc); err != nil {
		return Definition{}, fmt.Errorf("assessment %s: decode questions: %w", id, err)
	}
	if doc.Title != "" {
		title = doc.Title
	}
	d := Definition{
		ID:        id,
		ModuleID:  moduleID,
		Title:     title,
		Questions: doc.Questions,
		Scoring:   doc.Scoring,
		IsActive:  isActive,
	}
	if err := d.validate(); err != nil {
		return Definition{}, fmt.Errorf("assessment %s: %w", id, err)
	}
	return d, nil
}

func (d *Definition) validate() error {
	if len(d.Questions) == 0 {
		return fmt.Errorf("no questions")
	}
	seen := make(map[int]struct{}, len(d.Questions))
	for _, q := range d.Questions {
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("duplicate question id %d", q.ID)
		}
		seen[q.ID] = struct{}{}
		if q.CorrectAnswer == nil {
			return fmt.Errorf("question %d: missing correct answer", q.ID)
		}
		if *q.CorrectAnswer < 0 || (len(q.Options) > 0 && *q.CorrectAnswer >= len(q.Options)) {
			return fmt.Errorf("question %d: correct answer out of range", q.ID)
		}
	}
	return d.Scoring.compile()
}

// StripAnswers returns a copy safe to serve to students.
func (d Definition) StripAnswers() Definition {
	qs := make([]Question, len(d.Questions))
	copy(qs, d.Questions)
	for i := range qs {
		qs[i].CorrectAnswer = nil
	}
	d.Questions = qs
	return d
}
