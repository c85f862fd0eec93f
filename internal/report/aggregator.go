// Package report is the read side: it composes progress, attempt and
// general-assessment history into the summaries dashboards and exports
// consume. Everything here is a read-only view.
package report

import (
	"context"

	"github.com/starlearn/hub/internal/general"
	"github.com/starlearn/hub/internal/module"
	"github.com/starlearn/hub/internal/progress"
	"github.com/starlearn/hub/internal/recommend"
)

type Summary struct {
	TotalModules       int `json:"total_modules"`
	CompletedModules   int `json:"completed_modules"`
	ModuleStars        int `json:"module_stars"`
	AssessmentStars    int `json:"assessment_stars"`
	TotalStars         int `json:"total_stars"`
	ProgressPercentage int `json:"progress_percentage"`

	LatestAssessment *general.Result    `json:"latest_assessment,omitempty"`
	DomainBreakdown  map[string]float64 `json:"domain_breakdown,omitempty"`
	StrongestDomain  string             `json:"strongest_domain,omitempty"`
	WeakestDomain    string             `json:"weakest_domain,omitempty"`
}

// ModuleProgress is one dashboard row: a published module joined with the
// student's progress, NOT_STARTED when no record exists yet.
type ModuleProgress struct {
	Module module.Module   `json:"module"`
	Status progress.Status `json:"status"`
	Stars  int             `json:"stars"`
}

// Summarize computes the aggregate view from already-loaded data.
// Only published modules count toward completion; progress rows for
// unpublished modules still contribute stars the student earned.
func Summarize(modules []module.Module, records []progress.Record, history []general.Result) Summary {
	byModule := make(map[string]progress.Record, len(records))
	for _, r := range records {
		byModule[r.ModuleID] = r
	}

	var sum Summary
	sum.TotalModules = len(modules)
	for _, m := range modules {
		if r, ok := byModule[m.ID]; ok && r.Status == progress.StatusDone {
			sum.CompletedModules++
		}
	}
	for _, r := range records {
		sum.ModuleStars += r.Stars
	}
	for _, a := range history {
		sum.AssessmentStars += a.StarsEarned
	}
	sum.TotalStars = sum.ModuleStars + sum.AssessmentStars

	if sum.TotalModules > 0 {
		sum.ProgressPercentage = sum.CompletedModules * 100 / sum.TotalModules
	}

	if latest := latestResult(history); latest != nil {
		sum.LatestAssessment = latest
		// Unparseable breakdown JSON degrades to "no breakdown".
		if domains, ok := latest.DomainBreakdown(); ok && len(domains) > 0 {
			sum.DomainBreakdown = domains
			ranked := recommend.RankDomains(domains)
			sum.StrongestDomain = ranked[0].Name
			if len(ranked) > 1 {
				sum.WeakestDomain = ranked[len(ranked)-1].Name
			}
		}
	}
	return sum
}

func latestResult(history []general.Result) *general.Result {
	var latest *general.Result
	for i := range history {
		if latest == nil || history[i].CompletedAt.After(latest.CompletedAt) {
			latest = &history[i]
		}
	}
	return latest
}

// ModuleRows joins the published catalog with a student's progress.
func ModuleRows(modules []module.Module, records []progress.Record) []ModuleProgress {
	byModule := make(map[string]progress.Record, len(records))
	for _, r := range records {
		byModule[r.ModuleID] = r
	}
	out := make([]ModuleProgress, 0, len(modules))
	for _, m := range modules {
		row := ModuleProgress{Module: m, Status: progress.StatusNotStarted}
		if r, ok := byModule[m.ID]; ok {
			row.Status = r.Status
			row.Stars = r.Stars
		}
		out = append(out, row)
	}
	return out
}

// Service loads the inputs for Summarize from the stores.
type Service struct {
	modules  *module.SQLStore
	progress *progress.Store
	general  *general.SQLStore
}

func NewService(modules *module.SQLStore, prog *progress.Store, gen *general.SQLStore) *Service {
	return &Service{modules: modules, progress: prog, general: gen}
}

type StudentReport struct {
	Summary Summary          `json:"summary"`
	Modules []ModuleProgress `json:"modules"`
}

func (s *Service) StudentReport(ctx context.Context, studentID string) (StudentReport, error) {
	modules, err := s.modules.ListPublished(ctx)
	if err != nil {
		return StudentReport{}, err
	}
	records, err := s.progress.ListByStudent(ctx, studentID)
	if err != nil {
		return StudentReport{}, err
	}
	history, err := s.general.ListByStudent(ctx, studentID)
	if err != nil {
		return StudentReport{}, err
	}
	return StudentReport{
		Summary: Summarize(modules, records, history),
		Modules: ModuleRows(modules, records),
	}, nil
}
