// Package httptransport assembles the engine's HTTP surface. Handlers live
// with their domains; this package only mounts them behind the shared
// middleware chain.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	detectorhandler "complimart/internal/detector/handler"
	notificationhandler "complimart/internal/notification/handler"
	authmw "complimart/pkg/platform/middleware/auth"
	"complimart/pkg/platform/middleware/device"
	"complimart/pkg/platform/middleware/request"
	"complimart/pkg/platform/middleware/requesttime"
)

// Deps carries everything the router mounts.
type Deps struct {
	Logger        *slog.Logger
	Validator     authmw.JWTValidator
	Notifications *notificationhandler.Handler
	Detector      *detectorhandler.Handler
}

// NewRouter wires all endpoints. Everything under /api/v1 requires a valid
// session token; health and metrics stay open for probes and scrapers.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(request.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(device.Middleware)

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(authmw.RequireAuth(deps.Validator, deps.Logger))
		deps.Notifications.Register(api)
		deps.Detector.Register(api)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
