package progress

import (
	"testing"
	"time"
)

var t0 = time.Unix(1000, 0)

func TestApplyView(t *testing.T) {
	r := New("s1", "m1").ApplyView(t0)
	if r.Status != StatusStarted {
		t.Errorf("status = %s, want STARTED", r.Status)
	}
	if r.Stars != 0 {
		t.Errorf("stars = %d, want 0", r.Stars)
	}

	// viewing again is a no-op
	again := r.ApplyView(t0.Add(time.Hour))
	if again.Status != StatusStarted || !again.UpdatedAt.Equal(r.UpdatedAt) {
		t.Errorf("second view changed the record: %+v", again)
	}

	// viewing never regresses DONE
	done := Record{StudentID: "s1", ModuleID: "m1", Status: StatusDone, Stars: 2}
	if got := done.ApplyView(t0); got.Status != StatusDone || got.Stars != 2 {
		t.Errorf("view regressed DONE: %+v", got)
	}
}

func TestApplyAttempt_FirstCompletion(t *testing.T) {
	r := New("s1", "m1").ApplyAttempt(2, t0)
	if r.Status != StatusDone {
		t.Errorf("status = %s, want DONE", r.Status)
	}
	if r.Stars != 2 {
		t.Errorf("stars = %d, want 2", r.Stars)
	}
}

func TestApplyAttempt_WorseRetakeKeepsStars(t *testing.T) {
	r := Record{StudentID: "s1", ModuleID: "m1", Status: StatusDone, Stars: 2}
	got := r.ApplyAttempt(1, t0)
	if got.Stars != 2 {
		t.Errorf("stars = %d, want 2 preserved", got.Stars)
	}
	if got.Status != StatusDone {
		t.Errorf("status = %s, want DONE", got.Status)
	}
}

func TestApplyAttempt_BetterRetakeRaisesStars(t *testing.T) {
	r := Record{StudentID: "s1", ModuleID: "m1", Status: StatusDone, Stars: 1}
	if got := r.ApplyAttempt(3, t0); got.Stars != 3 {
		t.Errorf("stars = %d, want 3", got.Stars)
	}
}

func TestApplyAttempt_CompletesStartedModule(t *testing.T) {
	r := Record{StudentID: "s1", ModuleID: "m1", Status: StatusStarted}
	if got := r.ApplyAttempt(1, t0); got.Status != StatusDone {
		t.Errorf("status = %s, want DONE", got.Status)
	}
}

func TestApplyManualCompletion(t *testing.T) {
	r := New("s1", "m1").ApplyManualCompletion(t0)
	if r.Status != StatusDone || r.Stars != ManualCompletionStars {
		t.Errorf("manual completion: %+v", r)
	}

	// never lowers stars a quiz already earned
	quizzed := Record{StudentID: "s1", ModuleID: "m1", Status: StatusDone, Stars: 5}
	if got := quizzed.ApplyManualCompletion(t0); got.Stars != 5 {
		t.Errorf("manual completion lowered stars to %d", got.Stars)
	}
}

func TestMonotonicityOverEventSequences(t *testing.T) {
	// replaying arbitrary event mixes never lowers status rank or stars
	events := []func(Record) Record{
		func(r Record) Record { return r.ApplyView(t0) },
		func(r Record) Record { return r.ApplyAttempt(2, t0) },
		func(r Record) Record { return r.ApplyAttempt(1, t0) },
		func(r Record) Record { return r.ApplyManualCompletion(t0) },
		func(r Record) Record { return r.ApplyView(t0) },
		func(r Record) Record { return r.ApplyAttempt(3, t0) },
		func(r Record) Record { return r.ApplyAttempt(1, t0) },
	}
	r := New("s1", "m1")
	prevRank, prevStars := rank(r.Status), r.Stars
	for i, ev := range events {
		r = ev(r)
		if rank(r.Status) < prevRank {
			t.Fatalf("event %d regressed status to %s", i, r.Status)
		}
		if r.Stars < prevStars {
			t.Fatalf("event %d lowered stars to %d", i, r.Stars)
		}
		prevRank, prevStars = rank(r.Status), r.Stars
	}
	if r.Status != StatusDone || r.Stars != 3 {
		t.Errorf("final record: %+v", r)
	}
}
