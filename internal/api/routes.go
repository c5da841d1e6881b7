package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the router and middleware stack.
func SetupRoutes(h *Handlers, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/datasets", func(r chi.Router) {
			r.Post("/upload", h.UploadDataset)
			r.Post("/generate", h.GenerateDataset)
			r.Get("/summary", h.GetSummary)
			r.Get("/quality", h.GetQuality)
		})

		r.Route("/metrics", func(r chi.Router) {
			r.Get("/roi", h.GetROIMetrics)
			r.Get("/performance", h.GetPerformanceMetrics)
			r.Get("/platforms", h.GetPlatformMetrics)
			r.Get("/brands", h.GetBrandMetrics)
			r.Get("/timeseries", h.GetTimeSeries)
		})

		r.Route("/performers", func(r chi.Router) {
			r.Get("/top", h.GetTopPerformers)
			r.Get("/under", h.GetUnderperformers)
		})

		r.Get("/insights", h.GetInsights)
	})

	return r
}
