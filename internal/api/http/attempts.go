package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starlearn/hub/internal/assessment"
	"github.com/starlearn/hub/internal/rbac"
)

// GET /attempts?assessment_id=...&student_id=...&limit=50&offset=0
// Callers without attempt:view-all only ever see their own rows.
func ListAttemptsHandler(store *assessment.SQLStore, checker *rbac.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := rbac.RoleFromContext(r.Context())
		sub := rbac.SubjectFromContext(r.Context())

		assessmentID := strings.TrimSpace(r.URL.Query().Get("assessment_id"))
		studentID := strings.TrimSpace(r.URL.Query().Get("student_id"))
		limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
		offset := parseIntDefault(r.URL.Query().Get("offset"), 0)

		if !checker.Has(role, "attempt:view-all") {
			studentID = sub
		}

		list, err := store.ListAttempts(r.Context(), assessment.AttemptListOpts{
			AssessmentID: assessmentID,
			StudentID:    studentID,
			Limit:        limit,
			Offset:       offset,
		})
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, list)
	}
}

// GET /attempts/{attemptID} — owner or a role with attempt:view-all.
func GetAttemptHandler(store *assessment.SQLStore, checker *rbac.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "attemptID")
		a, err := store.GetAttempt(r.Context(), id)
		if errors.Is(err, assessment.ErrAttemptNotFound) {
			http.Error(w, "attempt not found", 404)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		role := rbac.RoleFromContext(r.Context())
		sub := rbac.SubjectFromContext(r.Context())
		if a.StudentID != sub && !checker.Has(role, "attempt:view-all") {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		writeJSON(w, a)
	}
}
