package http

import (
	"net/http"

	"github.com/frontandrew/fleettrack/internal/delivery/http/middleware"
	"github.com/frontandrew/fleettrack/internal/domain"
	"github.com/frontandrew/fleettrack/internal/pkg/config"
	"github.com/frontandrew/fleettrack/internal/pkg/jwt"
	"github.com/frontandrew/fleettrack/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Router содержит все зависимости для HTTP роутера
type Router struct {
	authHandler        *AuthHandler
	vehicleHandler     *VehicleHandler
	tripHandler        *TripHandler
	reservationHandler *ReservationHandler
	observationHandler *ObservationHandler
	statsHandler       *StatsHandler
	tokenService       *jwt.TokenService
	config             *config.Config
	logger             logger.Logger
}

// NewRouter создает новый HTTP router
func NewRouter(
	authHandler *AuthHandler,
	vehicleHandler *VehicleHandler,
	tripHandler *TripHandler,
	reservationHandler *ReservationHandler,
	observationHandler *ObservationHandler,
	statsHandler *StatsHandler,
	tokenService *jwt.TokenService,
	config *config.Config,
	logger logger.Logger,
) *Router {
	return &Router{
		authHandler:        authHandler,
		vehicleHandler:     vehicleHandler,
		tripHandler:        tripHandler,
		reservationHandler: reservationHandler,
		observationHandler: observationHandler,
		statsHandler:       statsHandler,
		tokenService:       tokenService,
		config:             config,
		logger:             logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: rt.config.CORS.AllowedOrigins,
		AllowedMethods: rt.config.CORS.AllowedMethods,
		AllowedHeaders: rt.config.CORS.AllowedHeaders,
	}))

	// Health check endpoint (публичный)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (без аутентификации)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", rt.authHandler.Register)
			r.Post("/login", rt.authHandler.Login)
			r.Post("/refresh", rt.authHandler.RefreshToken)
		})

		// Protected routes (требуют аутентификации)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.tokenService))

			// Current user endpoints
			r.Get("/auth/me", rt.authHandler.GetMe)
			r.Post("/auth/logout", rt.authHandler.Logout)

			// Vehicle endpoints
			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", rt.vehicleHandler.ListVehicles)
				r.Get("/qr/{token}", rt.vehicleHandler.GetVehicleByQRToken)
				r.Get("/{id}", rt.vehicleHandler.GetVehicleByID)
				r.Get("/{id}/start-check", rt.tripHandler.StartCheck)
				r.Get("/{id}/availability", rt.reservationHandler.CheckAvailability)
				r.Get("/{id}/observations", rt.observationHandler.GetVehicleObservations)

				// Admin only endpoints
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(domain.RoleAdmin))
					r.Post("/", rt.vehicleHandler.CreateVehicle)
					r.Put("/{id}", rt.vehicleHandler.UpdateVehicle)
					r.Delete("/{id}", rt.vehicleHandler.DeleteVehicle)
					r.Get("/{id}/reservations", rt.reservationHandler.GetVehicleReservations)
				})
			})

			// Trip endpoints
			r.Route("/trips", func(r chi.Router) {
				r.Post("/", rt.tripHandler.StartTrip)
				r.Post("/from-reservation", rt.tripHandler.StartTripFromReservation)
				r.Get("/me", rt.tripHandler.GetMyTrips)
				r.Get("/active", rt.tripHandler.GetActiveTrip)
				r.Put("/{id}/end", rt.tripHandler.EndTrip)

				// Admin only endpoints
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(domain.RoleAdmin))
					r.Get("/", rt.tripHandler.ListTrips)
				})
			})

			// Reservation endpoints
			r.Route("/reservations", func(r chi.Router) {
				r.Post("/", rt.reservationHandler.CreateReservation)
				r.Get("/me", rt.reservationHandler.GetMyReservations)
				r.Delete("/{id}", rt.reservationHandler.CancelReservation)
			})

			// Observation endpoints
			r.Route("/observations", func(r chi.Router) {
				r.Post("/", rt.observationHandler.CreateObservation)

				// Admin only endpoints
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(domain.RoleAdmin))
					r.Get("/", rt.observationHandler.ListObservations)
					r.Put("/{id}/resolve", rt.observationHandler.ResolveObservation)
				})
			})

			// Stats endpoints
			r.Route("/stats", func(r chi.Router) {
				r.Get("/me", rt.statsHandler.GetMyStats)

				// Admin only endpoints
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(domain.RoleAdmin))
					r.Get("/leaderboard", rt.statsHandler.GetLeaderboard)
					r.Get("/fleet", rt.statsHandler.GetFleetUtilization)
				})
			})
		})
	})

	return r
}
