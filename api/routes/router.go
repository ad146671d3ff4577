package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/petparadise/petparadise-api/api/controllers"
	cartcontrollers "github.com/petparadise/petparadise-api/api/controllers/cart"
	"github.com/petparadise/petparadise-api/api/middleware"
	"github.com/petparadise/petparadise-api/internal/auth"
	"github.com/petparadise/petparadise-api/internal/cart"
	"github.com/petparadise/petparadise-api/internal/pets"
	"github.com/petparadise/petparadise-api/pkg/config"
	"github.com/petparadise/petparadise-api/pkg/enums"
	"github.com/petparadise/petparadise-api/pkg/logger"
	"github.com/petparadise/petparadise-api/pkg/metrics"
	"github.com/petparadise/petparadise-api/pkg/redis"
)

// NewRouter mounts every route group at both "/" and "/api". redisClient and
// gatherer may be nil; rate limiting, idempotency and /metrics are then off.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	storePinger controllers.Pinger,
	redisClient *redis.Client,
	authService auth.Service,
	petService pets.Service,
	cartService cart.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	// A typed nil *redis.Client must not reach the middlewares as a non-nil
	// interface.
	var (
		rateStore   middleware.RateLimiterStore
		idemStore   redis.IdempotencyStore
		redisPinger controllers.Pinger
	)
	if redisClient != nil {
		rateStore = redisClient
		idemStore = redisClient
		redisPinger = redisClient
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	authenticate := middleware.Auth(cfg.JWT, logg)
	idempotent := middleware.Idempotency(idemStore, cfg.Redis.IdempotencyTTL, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg,
			controllers.Dependency{Name: "store", Pinger: storePinger},
			controllers.Dependency{Name: "redis", Pinger: redisPinger},
		))
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	mount := func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(signupPolicy, rateStore, logg)).Post("/sign-up", controllers.AuthSignup(authService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/login", controllers.AuthLogin(authService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/admin-login", controllers.AdminAuthLogin(authService, logg))
			r.With(authenticate).Get("/me", controllers.AuthMe(authService, logg))
		})

		r.Route("/pets", func(r chi.Router) {
			r.Get("/", controllers.PetsList(petService, logg))
			r.Get("/{petId}", controllers.PetsDetail(petService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/", cartcontrollers.CartFetch(cartService, logg))
			r.Get("/summary", cartcontrollers.CartSummary(cartService, logg))
			r.Get("/{petId}", cartcontrollers.CartItemQuantity(cartService, logg))
			r.With(idempotent).Post("/", cartcontrollers.CartAddItem(cartService, logg))
			r.Put("/", cartcontrollers.CartUpdateByBody(cartService, logg))
			r.Put("/{petId}", cartcontrollers.CartUpdateItem(cartService, logg))
			r.Delete("/", cartcontrollers.CartClear(cartService, logg))
			r.Delete("/{petId}", cartcontrollers.CartRemoveItem(cartService, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))
			r.Route("/pets", func(r chi.Router) {
				r.Get("/", controllers.AdminPetsList(petService, logg))
				r.Post("/", controllers.AdminPetsCreate(petService, logg))
				r.Patch("/{petId}", controllers.AdminPetsUpdate(petService, logg))
				r.Delete("/{petId}", controllers.AdminPetsDelete(petService, logg))
			})
		})
	}

	r.Group(mount)
	r.Route("/api", mount)

	return r
}
