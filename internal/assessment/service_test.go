package assessment_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/starlearn/hub/internal/assessment"
	"github.com/starlearn/hub/internal/db"
	"github.com/starlearn/hub/internal/eventlog"
	"github.com/starlearn/hub/internal/progress"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbh, err := db.Open(context.Background(), db.DriverSQLite,
		"file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return dbh
}

func seed(t *testing.T, dbh *sql.DB) (defs *assessment.SQLStore, prog *progress.Store, svc *assessment.Service) {
	t.Helper()
	now := time.Now().Unix()
	if _, err := dbh.Exec(`INSERT INTO students (id, first_name, parent_email, access_code, created_at)
		VALUES ('s1','Ada','parent@example.com','CODE1',$1)`, now); err != nil {
		t.Fatalf("seed student: %v", err)
	}
	if _, err := dbh.Exec(`INSERT INTO modules (id, title, week_no, is_published, created_at)
		VALUES ('m1','Intro',1,TRUE,$1)`, now); err != nil {
		t.Fatalf("seed module: %v", err)
	}

	defs = assessment.NewSQLStore(dbh)
	doc := `{"questions":[
		{"id":1,"correct_answer":0},{"id":2,"correct_answer":1},{"id":3,"correct_answer":2},
		{"id":4,"correct_answer":3},{"id":5,"correct_answer":0},{"id":6,"correct_answer":1},
		{"id":7,"correct_answer":2},{"id":8,"correct_answer":3},{"id":9,"correct_answer":0},
		{"id":10,"correct_answer":1}
	],"scoring":{"star_rewards":[
		{"score":"0-4","stars":1},{"score":"5-7","stars":2},{"score":"8-10","stars":3}
	],"passing_score":7}}`
	if _, err := defs.PutDefinition(context.Background(), "m1", "Intro Quiz", []byte(doc), true); err != nil {
		t.Fatalf("put definition: %v", err)
	}

	prog = progress.NewStore(dbh, "sqlite")
	svc = assessment.NewService(dbh, defs, prog, eventlog.NewRepo(dbh))
	return defs, prog, svc
}

func TestSubmit_EndToEnd(t *testing.T) {
	dbh := openTestDB(t)
	defs, prog, svc := seed(t, dbh)
	ctx := context.Background()

	att, rec, err := svc.Submit(ctx, assessment.Submission{
		ModuleID:  "m1",
		StudentID: "s1",
		StartedAt: time.Now().Unix() - 120,
		Answers:   map[int]int{1: 0, 2: 1, 3: 2, 4: 3, 5: 0, 6: 1, 7: 2, 8: 0, 9: 3},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if att.Score != 7 || att.Percentage != 70 || att.StarsEarned != 2 {
		t.Errorf("attempt: score=%d pct=%d stars=%d", att.Score, att.Percentage, att.StarsEarned)
	}
	if att.TimeTakenSec < 0 {
		t.Errorf("negative time taken: %d", att.TimeTakenSec)
	}
	if rec.Status != progress.StatusDone || rec.Stars != 2 {
		t.Errorf("progress: %+v", rec)
	}

	// attempt persisted and readable
	stored, err := defs.GetAttempt(ctx, att.ID)
	if err != nil {
		t.Fatalf("get attempt: %v", err)
	}
	if stored.Score != 7 || stored.StudentID != "s1" {
		t.Errorf("stored attempt: %+v", stored)
	}
	if stored.Answers[8] != 0 {
		t.Errorf("answers round-trip: %+v", stored.Answers)
	}

	// progress row committed alongside the attempt
	got, err := prog.Get(ctx, "s1", "m1")
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if got.Status != progress.StatusDone || got.Stars != 2 {
		t.Errorf("persisted progress: %+v", got)
	}

	// event appended
	var n int
	if err := dbh.QueryRow(`SELECT COUNT(*) FROM event_log WHERE typ=$1 AND key=$2`,
		eventlog.TypeAttemptSubmitted, att.ID).Scan(&n); err != nil || n != 1 {
		t.Errorf("event log rows = %d (err=%v)", n, err)
	}
}

func TestSubmit_WorseRetakeKeepsHistoryAndStars(t *testing.T) {
	dbh := openTestDB(t)
	defs, _, svc := seed(t, dbh)
	ctx := context.Background()

	good := map[int]int{1: 0, 2: 1, 3: 2, 4: 3, 5: 0, 6: 1, 7: 2, 8: 3, 9: 0}
	if _, _, err := svc.Submit(ctx, assessment.Submission{ModuleID: "m1", StudentID: "s1", Answers: good, StartedAt: time.Now().Unix()}); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	bad := map[int]int{1: 0}
	att, rec, err := svc.Submit(ctx, assessment.Submission{ModuleID: "m1", StudentID: "s1", Answers: bad, StartedAt: time.Now().Unix()})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if att.StarsEarned != 1 {
		t.Errorf("retake stars = %d, want 1", att.StarsEarned)
	}
	// stars never decrease on a worse retake
	if rec.Status != progress.StatusDone || rec.Stars != 3 {
		t.Errorf("progress after worse retake: %+v", rec)
	}

	// both attempts survive: retakes append, never overwrite
	list, err := defs.ListAttempts(ctx, assessment.AttemptListOpts{StudentID: "s1"})
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("attempt history = %d rows, want 2", len(list))
	}
}

func TestSubmit_MissingAssessmentWritesNothing(t *testing.T) {
	dbh := openTestDB(t)
	_, prog, svc := seed(t, dbh)
	ctx := context.Background()

	_, _, err := svc.Submit(ctx, assessment.Submission{ModuleID: "no-such-module", StudentID: "s1"})
	if !errors.Is(err, assessment.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	var n int
	if err := dbh.QueryRow(`SELECT COUNT(*) FROM attempts`).Scan(&n); err != nil || n != 0 {
		t.Errorf("attempt rows = %d (err=%v), want 0", n, err)
	}
	if _, err := prog.Get(ctx, "s1", "no-such-module"); !errors.Is(err, progress.ErrNotFound) {
		t.Errorf("progress row written for failed submission")
	}
}

func TestProgressStore_ViewAndManualCompletion(t *testing.T) {
	dbh := openTestDB(t)
	_, prog, _ := seed(t, dbh)
	ctx := context.Background()

	rec, err := prog.View(ctx, "s1", "m1")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if rec.Status != progress.StatusStarted {
		t.Errorf("after view: %+v", rec)
	}

	rec, err = prog.CompleteManually(ctx, "s1", "m1")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if rec.Status != progress.StatusDone || rec.Stars != progress.ManualCompletionStars {
		t.Errorf("after manual completion: %+v", rec)
	}

	// viewing a DONE module changes nothing
	rec, err = prog.View(ctx, "s1", "m1")
	if err != nil {
		t.Fatalf("view done: %v", err)
	}
	if rec.Status != progress.StatusDone || rec.Stars != progress.ManualCompletionStars {
		t.Errorf("view regressed DONE: %+v", rec)
	}
}

func TestPutDefinition_RejectsMalformed(t *testing.T) {
	dbh := openTestDB(t)
	defs := assessment.NewSQLStore(dbh)
	now := time.Now().Unix()
	if _, err := dbh.Exec(`INSERT INTO modules (id, title, week_no, is_published, created_at)
		VALUES ('m9','Bad',9,TRUE,$1)`, now); err != nil {
		t.Fatalf("seed module: %v", err)
	}

	bad := `{"questions":[{"id":1,"correct_answer":0}],
		"scoring":{"star_rewards":[{"score":"1-5","stars":2}],"passing_score":1}}`
	if _, err := defs.PutDefinition(context.Background(), "m9", "Bad", []byte(bad), true); err == nil {
		t.Fatalf("malformed definition accepted")
	}
	var n int
	if err := dbh.QueryRow(`SELECT COUNT(*) FROM module_assessments WHERE module_id='m9'`).Scan(&n); err != nil || n != 0 {
		t.Errorf("malformed definition stored anyway (n=%d err=%v)", n, err)
	}
}
