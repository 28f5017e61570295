package routes

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/venkateshdh/gotours-backend/api/controllers"
	"github.com/venkateshdh/gotours-backend/api/middleware"
	"github.com/venkateshdh/gotours-backend/api/responses"
	"github.com/venkateshdh/gotours-backend/internal/auth"
	"github.com/venkateshdh/gotours-backend/internal/reviews"
	"github.com/venkateshdh/gotours-backend/internal/tours"
	"github.com/venkateshdh/gotours-backend/internal/users"
	"github.com/venkateshdh/gotours-backend/pkg/config"
	"github.com/venkateshdh/gotours-backend/pkg/enums"
	pkgerrors "github.com/venkateshdh/gotours-backend/pkg/errors"
	"github.com/venkateshdh/gotours-backend/pkg/logger"
	"github.com/venkateshdh/gotours-backend/pkg/metrics"
	"github.com/venkateshdh/gotours-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	conn *gorm.DB,
	cache *redis.Client,
	registry *prometheus.Registry,
	principals middleware.PrincipalLoader,
	authService auth.Service,
	usersService users.Service,
	toursService tours.Service,
	reviewsService reviews.Service,
) http.Handler {
	r := chi.NewRouter()

	httpMetrics := metrics.NewHTTPMetrics(registry)

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.Liveness())
		r.Get("/ready", controllers.Readiness(conn, cache, logg))
	})
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	protect := middleware.Protect(cfg.JWT, principals, logg)
	secureCookies := cfg.App.IsProd()

	tourCRUD := controllers.TourDescriptor()
	userCRUD := controllers.UserDescriptor()
	reviewCRUD := controllers.ReviewDescriptor()

	// Shared handlers for both /reviews and /tours/{tourId}/reviews.
	reviewRoutes := func(r chi.Router) {
		r.Use(protect)
		r.Get("/", reviewCRUD.GetAll(conn, logg))
		r.With(middleware.RequireRole(logg, enums.RoleUser)).
			Post("/", controllers.CreateReview(reviewsService, logg))
		r.Get("/{id}", reviewCRUD.GetOne(conn, logg))
		r.With(middleware.RequireRole(logg, enums.RoleUser, enums.RoleAdmin)).
			Patch("/{id}", controllers.UpdateReview(reviewsService, logg))
		r.With(middleware.RequireRole(logg, enums.RoleUser, enums.RoleAdmin)).
			Delete("/{id}", controllers.DeleteReview(reviewsService, logg))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(
			middleware.RateLimit(cfg.RateLimit, limiterOrNil(cache), logg),
			middleware.BodyLimit(cfg.HTTP.MaxBodyBytes),
		)

		r.Route("/tours", func(r chi.Router) {
			r.Get("/", tourCRUD.GetAll(conn, logg))
			r.Get("/top-5-cheap", controllers.AliasTopTours(tourCRUD.GetAll(conn, logg)))
			r.Get("/tour-stats", controllers.TourStats(toursService, logg))
			r.With(protect, middleware.RequireRole(logg, enums.RoleAdmin, enums.RoleLeadGuide, enums.RoleGuide)).
				Get("/monthly-plan/{year}", controllers.MonthlyPlan(toursService, logg))
			r.Get("/tours-within/{distance}/center/{latlng}/unit/{unit}", controllers.ToursWithin(toursService, logg))
			r.Get("/distances/{latlng}/unit/{unit}", controllers.TourDistances(toursService, logg))

			r.With(protect, middleware.RequireRole(logg, enums.RoleAdmin, enums.RoleLeadGuide)).
				Post("/", tourCRUD.CreateOne(conn, logg))
			r.Get("/{id}", tourCRUD.GetOne(conn, logg))
			r.With(protect, middleware.RequireRole(logg, enums.RoleAdmin, enums.RoleLeadGuide)).
				Patch("/{id}", tourCRUD.UpdateOne(conn, logg))
			r.With(protect, middleware.RequireRole(logg, enums.RoleAdmin, enums.RoleLeadGuide)).
				Delete("/{id}", tourCRUD.DeleteOne(conn, logg))

			r.Route("/{tourId}/reviews", reviewRoutes)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/signup", controllers.Signup(authService, cfg.JWT, secureCookies, logg))
			r.Post("/login", controllers.Login(authService, cfg.JWT, secureCookies, logg))
			r.Get("/logout", controllers.Logout())
			r.Post("/forgotPassword", controllers.ForgotPassword(authService, logg))
			r.Patch("/resetPassword/{token}", controllers.ResetPassword(authService, cfg.JWT, secureCookies, logg))

			r.Group(func(r chi.Router) {
				r.Use(protect)
				r.Patch("/updateMyPassword", controllers.UpdateMyPassword(authService, cfg.JWT, secureCookies, logg))
				r.Get("/me", controllers.GetMe(usersService, logg))
				r.Patch("/updateMe", controllers.UpdateMe(usersService, logg))
				r.Delete("/deleteMe", controllers.DeleteMe(usersService, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(protect, middleware.RequireRole(logg, enums.RoleAdmin))
				r.Get("/", userCRUD.GetAll(conn, logg))
				r.Post("/", controllers.SignupInstead(logg))
				r.Get("/{id}", userCRUD.GetOne(conn, logg))
				r.Patch("/{id}", userCRUD.UpdateOne(conn, logg))
				r.Delete("/{id}", userCRUD.DeleteOne(conn, logg))
			})
		})

		r.Route("/reviews", reviewRoutes)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w,
			pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("can't find %s on this server!", r.URL.Path)))
	})

	return r
}

// limiterOrNil keeps the rate limiter optional: a nil *Client must become a
// nil interface so the middleware can detect it.
func limiterOrNil(cache *redis.Client) redis.Limiter {
	if cache == nil {
		return nil
	}
	return cache
}
