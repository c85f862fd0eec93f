package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starlearn/hub/internal/rbac"
	"github.com/starlearn/hub/internal/report"
)

// GET /report/summary — the caller's own dashboard view.
func MyReportHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := rbac.SubjectFromContext(r.Context())
		rep, err := svc.StudentReport(r.Context(), sub)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, rep)
	}
}

// GET /students/{studentID}/report — staff view of any student.
func StudentReportHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "studentID")
		rep, err := svc.StudentReport(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, rep)
	}
}
