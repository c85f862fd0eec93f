package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/starlearn/hub/internal/api/http"
	"github.com/starlearn/hub/internal/assessment"
	auth "github.com/starlearn/hub/internal/auth/middleware"
	"github.com/starlearn/hub/internal/config"
	"github.com/starlearn/hub/internal/db"
	"github.com/starlearn/hub/internal/eventlog"
	"github.com/starlearn/hub/internal/general"
	"github.com/starlearn/hub/internal/module"
	"github.com/starlearn/hub/internal/progress"
	"github.com/starlearn/hub/internal/rbac"
	"github.com/starlearn/hub/internal/report"
	"github.com/starlearn/hub/internal/student"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	// --- Stores & services ---
	students := student.NewSQLStore(dbh)
	modules := module.NewSQLStore(dbh)
	defs := assessment.NewSQLStore(dbh)
	prog := progress.NewStore(dbh, cfg.DBDriver)
	results := general.NewSQLStore(dbh)
	events := eventlog.NewRepo(dbh)
	submit := assessment.NewService(dbh, defs, prog, events)
	reports := report.NewService(modules, prog, results)
	checker := rbac.NewChecker(nil)

	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Hub-Signature"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, students, cfg))

	// Provider webhook: authenticated by its HMAC signature, not a JWT.
	r.Post("/assessment/webhook", api.AssessmentWebhookHandler(cfg.WebhookSecret, students, results, events))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("module:view")).
			Get("/modules", api.ListModulesHandler(modules, prog))
		pr.With(rbac.Require("module:view")).
			Get("/modules/{moduleID}", api.GetModuleHandler(modules, prog))
		pr.With(rbac.Require("module:complete")).
			Post("/modules/{moduleID}/complete", api.CompleteModuleHandler(modules, prog))

		pr.With(rbac.Require("assessment:view")).
			Get("/modules/{moduleID}/assessment", api.GetAssessmentHandler(defs))
		pr.With(rbac.Require("attempt:submit")).
			Post("/modules/{moduleID}/assessment", api.SubmitAssessmentHandler(submit))

		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts", api.ListAttemptsHandler(defs, checker))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts/{attemptID}", api.GetAttemptHandler(defs, checker))

		pr.With(rbac.Require("report:view-own")).
			Get("/report/summary", api.MyReportHandler(reports))
		pr.With(rbac.Require("report:view-all")).
			Get("/students/{studentID}/report", api.StudentReportHandler(reports))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
