package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"vrent/internal/api"
	"vrent/internal/board"
	"vrent/pkg/config"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Dependencies struct {
	Cfg     config.Config
	DB      Pinger
	Board   board.Board
	Journal board.AttemptLister
	Logger  *zap.Logger
}

func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if deps.DB != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := deps.DB.Ping(ctx); err != nil {
				api.WriteError(w, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "database unavailable")
				return
			}
		}
		if deps.Board.Snapshot().EvaluatedAt.IsZero() {
			api.WriteError(w, http.StatusServiceUnavailable, "NOT_READY", "no evaluation cycle completed yet")
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	boardHandlers := board.Handlers{
		Board:   deps.Board,
		Journal: deps.Journal,
		Logger:  logger.Named("board"),
	}

	// v1
	r.Route("/v1", func(r chi.Router) {
		// The back-office UI runs on a separate origin.
		r.Use(api.CORSMiddleware(api.CORSOptions{
			AllowedOrigins: deps.Cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization", "Accept-Language"},
			MaxAgeSeconds:  600,
		}))

		boardHandlers.Mount(r)

		// Back-office APIs
		r.Group(func(r chi.Router) {
			// Production: ERP staff session token auth
			// Dev: falls back to X-Staff-User if Authorization is missing.
			r.Use(api.StaffAuth(deps.Cfg, logger.Named("auth")))
			boardHandlers.MountStaff(r, board.StaffMiddlewares{
				Refresh: []board.Middleware{api.RateLimit(6, time.Minute)},
				Admin:   []board.Middleware{api.RequireRole(deps.Cfg.ERP.AdminRole)},
			})
		})
	})

	return r
}
