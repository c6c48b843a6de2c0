package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ledgertrack-app/ledgertrack/internal/auth"
	"github.com/ledgertrack-app/ledgertrack/internal/backup"
	"github.com/ledgertrack-app/ledgertrack/internal/config"
	"github.com/ledgertrack-app/ledgertrack/internal/database"
	"github.com/ledgertrack-app/ledgertrack/internal/habits"
	"github.com/ledgertrack-app/ledgertrack/internal/tribe"
)

type Api struct {
	Config *config.Config
	Router *chi.Mux

	db     *database.Database
	tokens *auth.TokenManager
	auth   *auth.Service
	habits *habits.Service
	tribe  *tribe.Service
}

// NewApi wires the services around the injected storage handle and builds
// the router.
func NewApi(cfg *config.Config, db *database.Database) (*Api, error) {
	if cfg.APIPort == 0 {
		return nil, fmt.Errorf("must have at least a port to start API")
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	habitService := habits.NewService(db)

	api := &Api{
		Config: cfg,
		Router: chi.NewRouter(),
		db:     db,
		tokens: tokens,
		auth:   auth.NewService(db, tokens),
		habits: habitService,
		tribe:  tribe.NewService(db, habitService),
	}
	api.setupRoutes()
	return api, nil
}

func (api *Api) setupRoutes() {
	r := api.Router

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   api.Config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Heartbeat("/heartbeat"))

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	// Public routes
	r.Post("/api/auth/register", api.RegisterHandler)
	r.Post("/api/auth/login", api.LoginHandler)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(api.tokens))
		r.Get("/api/auth/me", api.MeHandler)
		r.Get("/api/home", api.HomeHandler)
		r.Get("/api/habits", api.ListHabitsHandler)
		r.Post("/api/habits/{habitID}/complete", api.CompleteHabitHandler)
		r.Get("/api/tribe", api.TribeHandler)
		r.Post("/api/tribe/kudos", api.KudosHandler)
	})
}

// Serve starts the HTTP server and the background sweeps. It blocks.
func (api *Api) Serve() {
	// Expired session rows are only ever removed here.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			if n, err := api.db.DeleteExpiredSessions(); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			} else if n > 0 {
				log.Printf("Removed %d expired sessions", n)
			}
			<-ticker.C
		}
	}()

	if api.Config.Backup.Enabled {
		snapshotter, err := backup.NewSnapshotter(api.Config, api.db)
		if err != nil {
			log.Printf("Ledger backup disabled: %v", err)
		} else {
			go snapshotter.Run(context.Background())
		}
	}

	log.Printf("Starting API server on 0.0.0.0:%d", api.Config.APIPort)
	log.Fatal(http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", api.Config.APIPort), api.Router))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
