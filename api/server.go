package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/atmos-collective/atmos-site-backend/config"
	"github.com/atmos-collective/atmos-site-backend/database"
	"github.com/atmos-collective/atmos-site-backend/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(database database.Database, c map[string]string, opts ...Option) (Server, error) {
	// Ensure correct port is set
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	// Capture startup time
	startupTime := time.Now()

	opts = append([]Option{withConfig(c), withStartupTime(startupTime)}, opts...)
	router, err := newRouter(database, opts...)
	if err != nil {
		return Server{}, err
	}

	// Get timeout values from config with sensible defaults
	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,  // Timeout for reading the entire request
		WriteTimeout: writeTimeout, // Timeout for writing the response
		IdleTimeout:  idleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

// Option configures the router built by NewServer
type Option func(*router)

type router struct {
	config      map[string]string
	startupTime time.Time
	store       services.ObjectStore
	tokens      *services.TokenIssuer
	notifier    *services.ContactNotifier
	resolver    *services.MediaResolver
	now         func() time.Time
}

func withConfig(c map[string]string) Option {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) Option {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

// WithObjectStore enables the file library. Without it uploads return 503.
func WithObjectStore(store services.ObjectStore) Option {
	return func(r *router) {
		r.store = store
	}
}

func WithTokenIssuer(tokens *services.TokenIssuer) Option {
	return func(r *router) {
		r.tokens = tokens
	}
}

func WithNotifier(notifier *services.ContactNotifier) Option {
	return func(r *router) {
		r.notifier = notifier
	}
}

func WithResolver(resolver *services.MediaResolver) Option {
	return func(r *router) {
		r.resolver = resolver
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *router) {
		r.now = now
	}
}

func newRouter(database database.Database, opts ...Option) (*chi.Mux, error) {
	var router router
	for _, opt := range opts {
		opt(&router)
	}
	if router.config == nil {
		router.config = map[string]string{}
	}
	if router.now == nil {
		router.now = time.Now
	}
	if router.startupTime.IsZero() {
		router.startupTime = router.now()
	}
	if router.resolver == nil {
		router.resolver = services.NewMediaResolver(config.GetString(router.config, "MEDIA_BASE_URL", ""), nil)
	}

	timezone := config.GetString(router.config, "SITE_TIMEZONE", "Europe/London")
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load SITE_TIMEZONE %q: %w", timezone, err)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)

	// Initialize all handlers
	handlers := initializeHandlers(database, handlerDeps{
		store:              router.store,
		tokens:             router.tokens,
		notifier:           router.notifier,
		present:            presenter{resolver: router.resolver, loc: loc},
		maxUploadSize:      int64(config.GetInt(router.config, "MAX_UPLOAD_MB", 25)) << 20,
		// a featured limit of 0 accepts only an empty FEATURED list
		maxFeaturedGigs:    max(config.GetInt(router.config, "HOME_MAX_FEATURED_GIGS", 3), 0),
		maxFeaturedContent: max(config.GetInt(router.config, "HOME_MAX_FEATURED_CONTENT", 4), 0),
		socials:            config.GetPairs(router.config, "SOCIAL_LINKS"),
		startupTime:        router.startupTime,
		now:                router.now,
	})

	// Initialize auth middleware
	authMiddleware := newAuthMiddleware(router.tokens, database.UserRepo())

	// Apply CORS middleware
	acceptedOrigins := config.GetList(router.config, "ACCEPTED_ORIGINS")
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))
	chiRouter.Use(ColoredHTTPLoggingMiddleware)

	// Setup all route types
	setupPublicRoutes(chiRouter, handlers, authMiddleware)
	setupAdminRoutes(chiRouter, handlers, authMiddleware)

	return chiRouter, nil
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
