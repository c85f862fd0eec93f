package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starlearn/hub/internal/assessment"
	"github.com/starlearn/hub/internal/progress"
	"github.com/starlearn/hub/internal/rbac"
)

// GET /modules/{moduleID}/assessment — the active quiz with answer keys
// stripped (parity with how exams are served to students).
func GetAssessmentHandler(defs *assessment.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moduleID := chi.URLParam(r, "moduleID")
		def, err := defs.GetActiveByModule(r.Context(), moduleID)
		if errors.Is(err, assessment.ErrNotFound) {
			http.Error(w, "assessment not available", 404)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, def.StripAnswers())
	}
}

// POST /modules/{moduleID}/assessment — score and record a submission.
func SubmitAssessmentHandler(svc *assessment.Service) http.HandlerFunc {
	type out struct {
		Attempt  assessment.Attempt `json:"attempt"`
		Progress progress.Record    `json:"progress"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		moduleID := chi.URLParam(r, "moduleID")
		sub := rbac.SubjectFromContext(r.Context())

		var req struct {
			StartTime int64       `json:"start_time"`
			Answers   map[int]int `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}

		att, rec, err := svc.Submit(r.Context(), assessment.Submission{
			ModuleID:  moduleID,
			StudentID: sub,
			StartedAt: req.StartTime,
			Answers:   req.Answers,
		})
		if errors.Is(err, assessment.ErrNotFound) {
			http.Error(w, "assessment not found", 404)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, out{Attempt: att, Progress: rec})
	}
}
