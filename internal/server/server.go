package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/0x13a/jobstream/internal/apperror"
	"github.com/0x13a/jobstream/internal/config"
	"github.com/0x13a/jobstream/internal/middleware"

	"github.com/allegro/bigcache/v3"
	"github.com/getsentry/raven-go"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Server struct {
	cfg          config.Config
	Conn         *sql.DB
	Redis        *redis.Client
	router       *mux.Router
	SessionStore *sessions.CookieStore
	bigCache     *bigcache.BigCache
	log          zerolog.Logger
}

// NewServer wires the shared dependencies of every handler. rdb may be nil
// when the chat relay is disabled.
func NewServer(
	cfg config.Config,
	conn *sql.DB,
	rdb *redis.Client,
	r *mux.Router,
	sessionStore *sessions.CookieStore,
	logger zerolog.Logger,
) Server {
	raven.SetDSN(cfg.SentryDSN)
	r.Use(middleware.MetricsMiddleware)

	bigCache, err := bigcache.NewBigCache(bigcache.DefaultConfig(12 * time.Hour))
	svr := Server{
		cfg:          cfg,
		Conn:         conn,
		Redis:        rdb,
		router:       r,
		SessionStore: sessionStore,
		bigCache:     bigCache,
		log:          logger,
	}
	if err != nil {
		svr.Log(err, "unable to initialise big cache")
	}

	return svr
}

func (s Server) RegisterRoute(path string, handler func(w http.ResponseWriter, r *http.Request), methods []string) {
	s.router.HandleFunc(path, handler).Methods(methods...)
}

func (s Server) GetConfig() config.Config {
	return s.cfg
}

func (s Server) Logger() zerolog.Logger {
	return s.log
}

func (s Server) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error writes err using its apperror kind. Internal errors are logged and
// reported, their cause never reaches the client.
func (s Server) Error(w http.ResponseWriter, err error, msg string) {
	e := apperror.From(err)
	if e.Kind == apperror.KindInternal {
		s.Log(err, msg)
	}
	s.JSON(w, apperror.HTTPStatus(e.Kind), e)
}

func (s Server) Log(err error, msg string) {
	raven.CaptureErrorAndWait(err, map[string]string{"ctx": msg})
	s.log.Error().Err(err).Msgf("%s: %+v", msg, err)
}

// Health pings postgres and, when configured, redis.
func (s Server) Health(ctx context.Context) error {
	if err := s.Conn.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if s.Redis != nil {
		if err := s.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	if s.cfg.Env == "dev" {
		s.log.Info().Msgf("local env http://localhost:%s", s.cfg.Port)
		addr = fmt.Sprintf("localhost:%s", s.cfg.Port)
	}
	srv := &http.Server{
		Addr: addr,
		Handler: middleware.HTTPSMiddleware(
			middleware.LoggingMiddleware(middleware.HeadersMiddleware(s.router, s.cfg.Env), s.log),
			s.cfg.Env,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s Server) GetJWTSigningKey() []byte {
	return s.cfg.JwtSigningKey
}

func (s Server) CacheGet(key string) ([]byte, bool) {
	if s.bigCache == nil {
		return []byte{}, false
	}
	out, err := s.bigCache.Get(key)
	if err != nil {
		return []byte{}, false
	}
	return out, true
}

func (s Server) CacheSet(key string, val []byte) error {
	if s.bigCache == nil {
		return nil
	}
	return s.bigCache.Set(key, val)
}
