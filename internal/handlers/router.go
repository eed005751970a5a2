package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"gorm.io/gorm"

	"niyyah/internal/auth"
	"niyyah/internal/bus"
	"niyyah/internal/metrics"
	"niyyah/internal/tracker"
)

// Free-tier quotas.
const (
	maxFreePersonas       = 3
	maxFreeScheduleBlocks = 10
)

// Config controls router-level behaviour.
type Config struct {
	AllowedOrigins []string
	RateLimitRPM   int
}

// API wires dependencies and configuration for the HTTP handlers.
type API struct {
	db      *gorm.DB
	auth    *auth.Service
	tracker *tracker.Service
	bus     *bus.Publisher
	config  Config
}

// New initialises the API layer. The bus publisher may be nil, which disables
// event publishing.
func New(database *gorm.DB, authSvc *auth.Service, trackerSvc *tracker.Service, publisher *bus.Publisher, cfg Config) (*API, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if authSvc == nil {
		return nil, errors.New("auth service is required")
	}
	if trackerSvc == nil {
		return nil, errors.New("tracker service is required")
	}
	if cfg.RateLimitRPM <= 0 {
		cfg.RateLimitRPM = 100
	}
	return &API{
		db:      database,
		auth:    authSvc,
		tracker: trackerSvc,
		bus:     publisher,
		config:  cfg,
	}, nil
}

// Routes constructs the chi router containing all API endpoints.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	allowed := a.config.AllowedOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           int((10 * time.Minute).Seconds()),
	}))

	r.Use(httprate.Limit(a.config.RateLimitRPM, time.Minute))
	r.Use(metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if sqlDB, err := a.db.DB(); err != nil || sqlDB.Ping() != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Method("GET", "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", a.handleRegister)
			r.Post("/login", a.handleLogin)
			r.Post("/refresh", a.handleRefresh)
			r.Post("/logout", a.handleLogout)

			r.Group(func(r chi.Router) {
				r.Use(a.requireUser)
				r.Get("/me", a.handleMe)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(a.requireUser)

			r.Route("/personas", func(r chi.Router) {
				r.Get("/", a.handleListPersonas)
				r.Post("/", a.handleCreatePersona)
				r.Post("/reorder", a.handleReorderPersonas)
				r.Get("/{personaID}", a.handleGetPersona)
				r.Patch("/{personaID}", a.handleUpdatePersona)
				r.Delete("/{personaID}", a.handleDeletePersona)
				r.Post("/{personaID}/milestones", a.handleAddMilestone)
				r.Delete("/{personaID}/milestones/{milestoneID}", a.handleDeleteMilestone)
			})

			r.Route("/schedule", func(r chi.Router) {
				r.Get("/", a.handleListBlocks)
				r.Post("/", a.handleCreateBlock)
				r.Patch("/{blockID}", a.handleUpdateBlock)
				r.Delete("/{blockID}", a.handleDeleteBlock)
			})

			r.Route("/principles", func(r chi.Router) {
				r.Get("/", a.handleListPrinciples)
				r.Post("/", a.handleCreatePrinciple)
				r.Patch("/{principleID}", a.handleUpdatePrinciple)
				r.Delete("/{principleID}", a.handleDeletePrinciple)
			})

			r.Route("/tracker", func(r chi.Router) {
				r.Get("/non-negotiables", a.handleListHabits)
				r.Post("/non-negotiables", a.handleCreateHabit)
				r.Patch("/non-negotiables/{habitID}", a.handleUpdateHabit)
				r.Delete("/non-negotiables/{habitID}", a.handleDeleteHabit)
				r.Post("/check", a.handleRecordCheck)
				r.Delete("/check/{checkID}", a.handleDeleteCheck)
				r.Get("/today", a.handleToday)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", a.handleGetSettings)
				r.Patch("/", a.handleUpdateSettings)
			})

			r.Get("/dashboard", a.handleDashboard)
		})
	})

	return r
}
