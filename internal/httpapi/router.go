package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/PabloPavan/pastebox/internal/telemetry"
)

type App struct {
	ServiceName string
	Health      *HealthHandler
	Pastes      *PastesHandler

	// Web serves the HTML pages at /, /paste/{id}, /recent and /about.
	Web http.Handler
}

func NewRouter(app *App) http.Handler {
	serviceName := app.ServiceName
	if serviceName == "" {
		serviceName = "pastebox"
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(telemetry.ChiTraceMiddleware(serviceName))
	r.Use(telemetry.ChiMetricsMiddleware)
	r.Use(telemetry.ChiLogMiddleware(serviceName))

	r.Get("/health", app.Health.Get)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/v1", func(r chi.Router) {
		r.Route("/pastes", func(r chi.Router) {
			r.Post("/", app.Pastes.Create)
			r.Get("/recent", app.Pastes.ListRecent)
			r.Get("/{id}", app.Pastes.Get)
		})
	})

	if app.Web != nil {
		r.Mount("/", app.Web)
	}

	return r
}
