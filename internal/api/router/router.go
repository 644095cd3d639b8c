package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/oakwell-health/clinic-booking/internal/appointments"
	"github.com/oakwell-health/clinic-booking/internal/auth"
	httpmiddleware "github.com/oakwell-health/clinic-booking/internal/http/middleware"
	"github.com/oakwell-health/clinic-booking/internal/qr"
	"github.com/oakwell-health/clinic-booking/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AppointmentsHandler *appointments.Handler
	AuthHandler         *auth.Handler
	AuthService         *auth.Service
	QRHandler           *qr.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string

	// Public booking endpoint rate limiting; disabled when zero.
	BookingRateLimit float64
	BookingRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		public.Route("/api/bookings", func(r chi.Router) {
			if cfg.BookingRateLimit > 0 {
				r.With(httpmiddleware.RateLimit(cfg.BookingRateLimit, cfg.BookingRateBurst)).
					Post("/", cfg.AppointmentsHandler.CreateBooking)
			} else {
				r.Post("/", cfg.AppointmentsHandler.CreateBooking)
			}
			r.Get("/options", cfg.AppointmentsHandler.GetOptions)
		})
	})

	// Admin endpoints: login is open, everything else session-gated.
	r.Route("/admin/api", func(admin chi.Router) {
		admin.Post("/login", cfg.AuthHandler.Login)

		admin.Group(func(protected chi.Router) {
			protected.Use(auth.RequireSession(cfg.AuthService))
			protected.Post("/logout", cfg.AuthHandler.Logout)
			protected.Get("/appointments", cfg.AppointmentsHandler.ListAppointments)
			protected.Patch("/appointments/{id}/status", cfg.AppointmentsHandler.UpdateStatus)
			protected.Get("/dashboard", cfg.AppointmentsHandler.Dashboard)
			if cfg.QRHandler != nil {
				protected.Get("/qr-code", cfg.QRHandler.Get)
			}
		})
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
