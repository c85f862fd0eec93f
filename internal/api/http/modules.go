package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starlearn/hub/internal/module"
	"github.com/starlearn/hub/internal/progress"
	"github.com/starlearn/hub/internal/rbac"
	"github.com/starlearn/hub/internal/report"
)

// GET /modules — published catalog joined with the caller's progress.
func ListModulesHandler(modules *module.SQLStore, prog *progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := rbac.SubjectFromContext(r.Context())

		list, err := modules.ListPublished(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		records, err := prog.ListByStudent(r.Context(), sub)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, report.ModuleRows(list, records))
	}
}

// GET /modules/{moduleID} — module detail. Viewing is the STARTED
// transition, so fetching a module is what moves a fresh record off
// NOT_STARTED.
func GetModuleHandler(modules *module.SQLStore, prog *progress.Store) http.HandlerFunc {
	type out struct {
		Module   module.Module   `json:"module"`
		Progress progress.Record `json:"progress"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "moduleID")
		sub := rbac.SubjectFromContext(r.Context())

		m, err := modules.GetPublished(r.Context(), id)
		if errors.Is(err, module.ErrNotFound) {
			http.Error(w, "module not found", 404)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		rec, err := prog.View(r.Context(), sub, id)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, out{Module: m, Progress: rec})
	}
}

// POST /modules/{moduleID}/complete — manual completion for modules
// without a quiz.
func CompleteModuleHandler(modules *module.SQLStore, prog *progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "moduleID")
		sub := rbac.SubjectFromContext(r.Context())

		if _, err := modules.GetPublished(r.Context(), id); err != nil {
			if errors.Is(err, module.ErrNotFound) {
				http.Error(w, "module not found", 404)
				return
			}
			http.Error(w, err.Error(), 500)
			return
		}
		rec, err := prog.CompleteManually(r.Context(), sub, id)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, rec)
	}
}
