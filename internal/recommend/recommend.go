// Package recommend turns a general-assessment result into the free-text
// guidance shown to students and parents. Pure functions over the
// provider's payload; nothing here touches storage.
package recommend

import (
	"sort"
	"strings"
)

// Score bands, evaluated high to low. The sentences are product copy.
const (
	bandExcellent = 80
	bandGood      = 65
	bandOnTrack   = 50

	strongDomainMin = 70 // strength clause only above this
	weakDomainMax   = 60 // improvement clause only below this
)

// Domain is one named skill category with its score.
type Domain struct {
	Name  string
	Score float64
}

// RankDomains orders domains best-first. Equal scores order by name, so
// ranking is deterministic regardless of map iteration order.
func RankDomains(domains map[string]float64) []Domain {
	out := make([]Domain, 0, len(domains))
	for name, score := range domains {
		out = append(out, Domain{Name: name, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Generate builds the personalized recommendation for an overall score and
// domain breakdown. The level label is carried on the stored result but
// does not alter the text; bands key off the raw score alone.
func Generate(rawScore float64, level string, domains map[string]float64) string {
	var base, nextSteps string
	switch {
	case rawScore >= bandExcellent:
		base = "Excellent work! You're showing strong skills across multiple areas."
		nextSteps = "Continue challenging yourself with advanced topics and consider helping classmates who might need support."
	case rawScore >= bandGood:
		base = "Good job! You're making solid progress in your learning journey."
		nextSteps = "Focus on strengthening areas where you scored lower to build a well-rounded foundation."
	case rawScore >= bandOnTrack:
		base = "You're on the right track! There are areas where you can improve."
		nextSteps = "Spend extra time practicing the concepts that were challenging in this assessment."
	default:
		base = "Keep working hard! Learning takes time and practice."
		nextSteps = "Consider reviewing the basics and don't hesitate to ask for help when needed."
	}

	parts := []string{base}

	if ranked := RankDomains(domains); len(ranked) > 0 {
		strongest := ranked[0]
		if strongest.Score > strongDomainMin {
			parts = append(parts, "Your strongest area is "+DisplayName(strongest.Name)+" - great work there!")
		}
		if len(ranked) > 1 {
			weakest := ranked[len(ranked)-1]
			if weakest.Score < weakDomainMax {
				parts = append(parts, "Focus on improving your "+DisplayName(weakest.Name)+" skills through extra practice.")
			}
		}
	}

	parts = append(parts, nextSteps)
	return strings.Join(parts, " ")
}

// DisplayName renders a provider domain key ("reading_comprehension") as
// presentation text ("Reading Comprehension").
func DisplayName(domain string) string {
	words := strings.Fields(strings.ReplaceAll(domain, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
