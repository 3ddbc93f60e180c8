// Package httpapi assembles the gateway's route table and middleware chain.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	dErrors "poltem/pkg/domain-errors"
	"poltem/pkg/platform/httputil"
	adminmw "poltem/pkg/platform/middleware/admin"
	authmw "poltem/pkg/platform/middleware/auth"
	localemw "poltem/pkg/platform/middleware/locale"
	"poltem/pkg/platform/middleware/metadata"
	request "poltem/pkg/platform/middleware/request"
	"poltem/pkg/platform/middleware/requesttime"
)

// Registrar mounts a module's routes.
type Registrar interface {
	Register(r chi.Router)
}

// AuthenticatedRegistrar is implemented by modules that expose routes on
// both sides of the auth boundary.
type AuthenticatedRegistrar interface {
	RegisterAuthenticated(r chi.Router)
}

// Check is a named readiness probe.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Config carries everything the router needs besides the module handlers.
type Config struct {
	Logger         *slog.Logger
	Resolver       authmw.PrincipalResolver
	Latency        request.LatencyObserver
	Gatherer       prometheus.Gatherer
	AdminToken     string
	RequestTimeout time.Duration
	Checks         []Check

	// PublicLimit and AccountLimit throttle the anonymous and the
	// authenticated route groups. Nil disables either.
	PublicLimit  func(http.Handler) http.Handler
	AccountLimit func(http.Handler) http.Handler
}

// Modules groups the handlers by their auth requirement. Public routes are
// reachable without a bearer token; everything else sits behind RequireAuth.
type Modules struct {
	Public        []Registrar
	Authenticated []Registrar
}

// NewRouter builds the HTTP surface.
func NewRouter(cfg Config, modules Modules) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(logger))
	r.Use(request.Logger(logger))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(localemw.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteErrorContext(r.Context(), w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteErrorContext(r.Context(), w, dErrors.New(dErrors.CodeBadRequest, "method not allowed"))
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", readiness(logger, cfg.Checks))

	r.Group(func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(cfg.AdminToken, logger))
		gatherer := cfg.Gatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	})

	r.Group(func(r chi.Router) {
		r.Use(request.Timeout(timeout))
		r.Use(request.ContentTypeJSON)
		r.Use(request.LatencyMiddleware(cfg.Latency))

		r.Group(func(r chi.Router) {
			if cfg.PublicLimit != nil {
				r.Use(cfg.PublicLimit)
			}
			for _, m := range modules.Public {
				m.Register(r)
			}
		})

		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireAuth(cfg.Resolver, logger))
			if cfg.AccountLimit != nil {
				r.Use(cfg.AccountLimit)
			}
			for _, m := range modules.Public {
				if ar, ok := m.(AuthenticatedRegistrar); ok {
					ar.RegisterAuthenticated(r)
				}
			}
			for _, m := range modules.Authenticated {
				m.Register(r)
			}
		})
	})

	return r
}

type readyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func readiness(logger *slog.Logger, checks []Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := readyResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for _, c := range checks {
			if err := c.Probe(ctx); err != nil {
				logger.WarnContext(ctx, "readiness check failed", "check", c.Name, "error", err)
				resp.Checks[c.Name] = "down"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[c.Name] = "up"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
