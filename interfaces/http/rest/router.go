package rest

import (
	"net/http"
	"time"

	"trevelo-backend/application/services"
	"trevelo-backend/infrastructure/config"
	"trevelo-backend/interfaces/http/rest/handlers"
	"trevelo-backend/interfaces/http/rest/middleware"
	"trevelo-backend/pkg/auth"
	apperrors "trevelo-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg         *config.Config
	itineraries *services.ItineraryService
	groups      *services.GroupService
	trips       *services.TripService
	votes       *services.VoteService
	users       *services.UserService
	validator   *auth.JWTValidator
	logger      *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	itineraries *services.ItineraryService,
	groups *services.GroupService,
	trips *services.TripService,
	votes *services.VoteService,
	users *services.UserService,
	validator *auth.JWTValidator,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:         cfg,
		itineraries: itineraries,
		groups:      groups,
		trips:       trips,
		votes:       votes,
		users:       users,
		validator:   validator,
		logger:      logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.trevelo.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)

	errorHandler := apperrors.NewErrorHandler(rt.logger)
	itineraryHandler := handlers.NewItineraryHandler(rt.itineraries, errorHandler, rt.logger)
	groupHandler := handlers.NewGroupHandler(rt.groups, rt.trips, rt.itineraries, errorHandler, rt.logger)
	tripHandler := handlers.NewTripHandler(rt.trips, errorHandler, rt.logger)
	voteHandler := handlers.NewVoteHandler(rt.votes, errorHandler, rt.logger)
	userHandler := handlers.NewUserHandler(rt.users, errorHandler, rt.logger)

	generateLimiter := auth.NewIPRateLimiter(rt.cfg.RateLimitRequests, rt.cfg.RateLimitWindow)

	router.Route("/api/v1", func(r chi.Router) {
		// Generation endpoints take anonymous traffic; the rate limiter is
		// the only thing between an open endpoint and the OpenAI bill.
		// Polling stays outside the limiter: a poll loop runs faster than
		// the generation budget and must always reach the job's state.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(rt.validator, rt.logger))
			r.With(middleware.RateLimit(generateLimiter)).
				Post("/itineraries/start", itineraryHandler.Start)
			r.Get("/jobs/{jobID}", itineraryHandler.GetJob)
		})

		// Everything else requires an authenticated caller
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.validator, rt.logger))

			r.With(middleware.RateLimit(generateLimiter)).
				Post("/itineraries/generate", itineraryHandler.Generate)

			r.Post("/groups", groupHandler.Create)
			r.Post("/groups/join", groupHandler.Join)

			r.Route("/groups/{groupID}", func(r chi.Router) {
				r.Use(middleware.RequireMember(rt.groups, rt.logger))
				r.Get("/", groupHandler.Get)
				r.Get("/members", groupHandler.ListMembers)
				r.With(middleware.RateLimit(generateLimiter)).
					Post("/trips", groupHandler.ShareTrip)
				r.Get("/trips", groupHandler.ListTrips)
				r.Post("/trips/{tripID}/votes", voteHandler.Cast)
				r.Get("/trips/{tripID}/votes", voteHandler.Tally)
			})

			r.Route("/trips", func(r chi.Router) {
				r.Post("/", tripHandler.Save)
				r.Get("/", tripHandler.List)
				r.Get("/{tripID}", tripHandler.Get)
				r.Patch("/{tripID}", tripHandler.Update)
				r.Delete("/{tripID}", tripHandler.Delete)
			})

			r.Get("/users/me", userHandler.Me)
			r.Put("/users/me", userHandler.UpdateMe)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","time":"` + time.Now().UTC().Format(time.RFC3339) + `"}`))
}
