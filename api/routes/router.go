package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/foundlyhq/foundly-backend/api/controllers"
	"github.com/foundlyhq/foundly-backend/api/middleware"
	"github.com/foundlyhq/foundly-backend/internal/admin"
	"github.com/foundlyhq/foundly-backend/internal/auth"
	"github.com/foundlyhq/foundly-backend/internal/claims"
	"github.com/foundlyhq/foundly-backend/internal/items"
	"github.com/foundlyhq/foundly-backend/internal/media"
	"github.com/foundlyhq/foundly-backend/internal/notifications"
	"github.com/foundlyhq/foundly-backend/pkg/auth/session"
	"github.com/foundlyhq/foundly-backend/pkg/config"
	"github.com/foundlyhq/foundly-backend/pkg/db"
	"github.com/foundlyhq/foundly-backend/pkg/enums"
	"github.com/foundlyhq/foundly-backend/pkg/logger"
	"github.com/foundlyhq/foundly-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	Metrics     prometheus.Gatherer
	AuthService auth.Service
	Register    auth.RegisterService
	Items       items.Service
	Claims      claims.Service
	Notifs      notifications.Service
	Media       media.Service
	Admin       admin.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	// A typed nil client must not reach the middleware's interface check.
	authLimiter := func(policy middleware.AuthRateLimitPolicy) func(http.Handler) http.Handler {
		if deps.Redis == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return middleware.AuthRateLimit(policy, deps.Redis, logg)
	}

	var cachePinger db.Pinger
	if deps.Redis != nil {
		cachePinger = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, cachePinger))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(authLimiter(loginPolicy)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
			r.With(authLimiter(registerPolicy)).Post("/register", controllers.AuthRegister(deps.Register, deps.AuthService, logg))
			r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
			r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
				r.Get("/me", controllers.AuthMe(deps.AuthService, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			if deps.Redis != nil {
				r.Use(middleware.Idempotency(deps.Redis, logg))
			}

			r.Route("/items", func(r chi.Router) {
				r.Get("/", controllers.ItemsList(deps.Items, logg))
				r.Post("/", controllers.ItemSubmit(deps.Items, deps.AuthService, deps.Media, logg))
				r.Get("/mine", controllers.ItemsMine(deps.Items, logg))
				r.Get("/{itemId}/image", controllers.ItemImage(deps.Items, logg))
				r.Post("/{itemId}/claimed", controllers.ItemMarkClaimed(deps.Items, logg))
				r.Post("/{itemId}/claims", controllers.ItemCreateClaim(deps.Claims, logg))
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
				r.Get("/stats", controllers.AdminStats(deps.Admin, logg))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(deps.Notifs, logg))
				r.Get("/badge", controllers.NotificationsBadge(deps.Notifs, logg))
				r.Post("/{notificationId}/seen", controllers.MarkNotificationSeen(deps.Notifs, logg))
				r.Delete("/{notificationId}", controllers.DismissNotification(deps.Notifs, logg))
			})
		})
	})

	return r
}
