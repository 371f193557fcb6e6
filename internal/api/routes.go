package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/klau55/clicker-mobile-app/internal/handler"
	"github.com/klau55/clicker-mobile-app/internal/logger"
	"github.com/klau55/clicker-mobile-app/internal/metrics"
	"github.com/klau55/clicker-mobile-app/internal/middleware"
	"github.com/klau55/clicker-mobile-app/internal/ratelimit"
	"github.com/klau55/clicker-mobile-app/internal/utils"
)

// RouterConfig carries what SetupRouter needs besides the handlers.
type RouterConfig struct {
	APIPrefix     string
	TrustProxy    bool
	AllowAllCORS  bool
	CORSOrigins   []string
	LoginLimiter  ratelimit.Limiter
	SignupLimiter ratelimit.Limiter
}

func SetupRouter(h *handler.Handler, cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.LoggerMiddleware)
	r.Use(metrics.InstrumentHandler)

	// Root - API documentation
	r.HandleFunc("/", h.RootHandler).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r
	if cfg.APIPrefix != "" {
		api = r.PathPrefix(cfg.APIPrefix).Subrouter()
	}

	// Auth, throttled per client address
	api.Handle("/register", middleware.RateLimit(cfg.SignupLimiter, "register")(http.HandlerFunc(h.Register))).Methods(http.MethodPost)
	api.Handle("/login", middleware.RateLimit(cfg.LoginLimiter, "login")(http.HandlerFunc(h.Login))).Methods(http.MethodPost)

	// Taps
	api.HandleFunc("/tap", h.Tap).Methods(http.MethodPost)

	// Leaderboard
	api.HandleFunc("/leaderboard", h.GetLeaderboard).Methods(http.MethodGet)

	// Users
	api.HandleFunc("/check-username", h.CheckUsername).Methods(http.MethodGet)
	api.HandleFunc("/user-stats/{userId}", h.GetUserStats).Methods(http.MethodGet)

	// Health check
	api.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	// The subrouter answers for everything under the prefix, so it needs the
	// same fallbacks as the root.
	notFound, notAllowed := http.HandlerFunc(routeNotFound), http.HandlerFunc(methodNotAllowed)
	r.NotFoundHandler, r.MethodNotAllowedHandler = notFound, notAllowed
	api.NotFoundHandler, api.MethodNotAllowedHandler = notFound, notAllowed

	// CORS and proxy handling must see every request, including preflights
	// that match no route.
	var root http.Handler = r
	root = middleware.CORSMiddleware(cfg.AllowAllCORS, cfg.CORSOrigins)(root)
	root = middleware.RealIP(cfg.TrustProxy)(root)
	return root
}

func routeNotFound(w http.ResponseWriter, r *http.Request) {
	logger.Warning("404 Not Found: %s %s", r.Method, r.URL.Path)
	utils.Message(w, http.StatusNotFound, "Route not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	logger.Warning("405 Method Not Allowed: %s %s", r.Method, r.URL.Path)
	utils.Message(w, http.StatusMethodNotAllowed, "Method not allowed")
}
