package report

import (
	"testing"
	"time"

	"github.com/starlearn/hub/internal/general"
	"github.com/starlearn/hub/internal/module"
	"github.com/starlearn/hub/internal/progress"
)

func mod(id string, week int) module.Module {
	return module.Module{ID: id, Title: "Week " + id, WeekNo: week, IsPublished: true}
}

func TestSummarize_Basic(t *testing.T) {
	modules := []module.Module{mod("m1", 1), mod("m2", 2), mod("m3", 3)}
	records := []progress.Record{
		{StudentID: "s1", ModuleID: "m1", Status: progress.StatusDone, Stars: 3},
		{StudentID: "s1", ModuleID: "m2", Status: progress.StatusStarted, Stars: 0},
	}
	history := []general.Result{
		{ID: "r1", StudentID: "s1", StarsEarned: 3, CompletedAt: time.Unix(100, 0)},
		{ID: "r2", StudentID: "s1", StarsEarned: 3, CompletedAt: time.Unix(200, 0),
			DomainsJSON: `{"reading":90,"math":40}`},
	}

	s := Summarize(modules, records, history)
	if s.TotalModules != 3 || s.CompletedModules != 1 {
		t.Errorf("modules: total=%d completed=%d", s.TotalModules, s.CompletedModules)
	}
	if s.ModuleStars != 3 || s.AssessmentStars != 6 || s.TotalStars != 9 {
		t.Errorf("stars: module=%d assessment=%d total=%d", s.ModuleStars, s.AssessmentStars, s.TotalStars)
	}
	if s.ProgressPercentage != 33 { // floor(1/3*100)
		t.Errorf("progress pct = %d, want 33", s.ProgressPercentage)
	}
	if s.LatestAssessment == nil || s.LatestAssessment.ID != "r2" {
		t.Fatalf("latest assessment = %+v", s.LatestAssessment)
	}
	if s.StrongestDomain != "reading" || s.WeakestDomain != "math" {
		t.Errorf("domains: strongest=%q weakest=%q", s.StrongestDomain, s.WeakestDomain)
	}
}

func TestSummarize_NoModules(t *testing.T) {
	s := Summarize(nil, nil, nil)
	if s.ProgressPercentage != 0 {
		t.Errorf("progress pct = %d, want 0 with no modules", s.ProgressPercentage)
	}
	if s.TotalStars != 0 || s.LatestAssessment != nil {
		t.Errorf("empty summary: %+v", s)
	}
}

func TestSummarize_UnparseableBreakdownSwallowed(t *testing.T) {
	history := []general.Result{
		{ID: "r1", StudentID: "s1", StarsEarned: 3, CompletedAt: time.Unix(100, 0),
			DomainsJSON: `{not json`},
	}
	s := Summarize(nil, nil, history)
	if s.LatestAssessment == nil {
		t.Fatalf("latest assessment missing")
	}
	if s.DomainBreakdown != nil || s.StrongestDomain != "" || s.WeakestDomain != "" {
		t.Errorf("breakdown should degrade to absent: %+v", s)
	}
}

func TestSummarize_OnlyPublishedCountTowardCompletion(t *testing.T) {
	// a DONE record for a module absent from the catalog adds stars but
	// not completion
	modules := []module.Module{mod("m1", 1)}
	records := []progress.Record{
		{StudentID: "s1", ModuleID: "m1", Status: progress.StatusDone, Stars: 2},
		{StudentID: "s1", ModuleID: "m-unpublished", Status: progress.StatusDone, Stars: 1},
	}
	s := Summarize(modules, records, nil)
	if s.CompletedModules != 1 {
		t.Errorf("completed = %d, want 1", s.CompletedModules)
	}
	if s.ModuleStars != 3 {
		t.Errorf("module stars = %d, want 3", s.ModuleStars)
	}
	if s.ProgressPercentage != 100 {
		t.Errorf("progress pct = %d, want 100", s.ProgressPercentage)
	}
}

func TestModuleRows(t *testing.T) {
	modules := []module.Module{mod("m1", 1), mod("m2", 2)}
	records := []progress.Record{
		{StudentID: "s1", ModuleID: "m2", Status: progress.StatusDone, Stars: 3},
	}
	rows := ModuleRows(modules, records)
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0].Status != progress.StatusNotStarted || rows[0].Stars != 0 {
		t.Errorf("m1 row: %+v", rows[0])
	}
	if rows[1].Status != progress.StatusDone || rows[1].Stars != 3 {
		t.Errorf("m2 row: %+v", rows[1])
	}
}
