package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/0x13a/jobstream/internal/application"
	"github.com/0x13a/jobstream/internal/company"
	"github.com/0x13a/jobstream/internal/config"
	"github.com/0x13a/jobstream/internal/conversation"
	"github.com/0x13a/jobstream/internal/database"
	"github.com/0x13a/jobstream/internal/handler"
	"github.com/0x13a/jobstream/internal/job"
	"github.com/0x13a/jobstream/internal/realtime"
	"github.com/0x13a/jobstream/internal/server"
	"github.com/0x13a/jobstream/internal/user"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to load config")
	}
	if cfg.Env == "dev" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	conn, err := database.GetDbConn(cfg.DatabaseUser, cfg.DatabasePassword, cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseName, cfg.DatabaseSSLMode)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to connect to postgres")
	}
	defer database.CloseDbConn(conn)
	if err := database.Migrate(conn); err != nil {
		logger.Fatal().Err(err).Msg("unable to migrate database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("unable to connect to redis")
		}
		defer rdb.Close()
	}

	svr := server.NewServer(cfg, conn, rdb, mux.NewRouter(), sessions.NewCookieStore(cfg.SessionKey), logger)

	userRepo := user.NewRepository(conn)
	companyRepo := company.NewRepository(conn)
	jobRepo := job.NewRepository(conn)
	conversationRepo := conversation.NewRepository(conn)

	employers := company.NewEmployerDirectory(companyRepo, userRepo, svr)
	applications := application.NewManager(conn, jobRepo, conversation.NewBootstrapper(employers), logger, cfg.ApplicationsPerPage)

	hub := realtime.NewHub(logger, 0)
	var conversations *conversation.Service
	if rdb != nil {
		relay := realtime.NewRedisRelay(rdb, hub, logger)
		go func() {
			if err := relay.Run(ctx); err != nil && ctx.Err() == nil {
				svr.Log(err, "chat relay stopped")
			}
		}()
		conversations = conversation.NewService(conversationRepo, relay, logger, cfg.MessagesPerPage)
	} else {
		logger.Info().Msg("REDIS_ADDR not set, chat fan-out is local to this instance")
		conversations = conversation.NewService(conversationRepo, hub, logger, cfg.MessagesPerPage)
	}

	handler.RegisterRoutes(svr, applications, conversations, hub)
	svr.RegisterRoute("/metrics", promhttp.Handler().ServeHTTP, []string{http.MethodGet})

	if err := svr.Run(ctx); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
