// @title                       Notes API
// @version                     1.0
// @description                 Cookie-session authenticated notes service.
// @host                        localhost:8080
// @BasePath                    /
// @securityDefinitions.apikey  CookieAuth
// @in                          cookie
// @name                        Authentication
package main

//go:generate swag init -g cmd/api/main.go -d ../../ -o ../../docs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/notes-service/internal/api"
	"github.com/99minutos/notes-service/internal/api/handler"
	"github.com/99minutos/notes-service/internal/core/ports"
	mongostore "github.com/99minutos/notes-service/internal/infrastructure/db/mongo"
	"github.com/99minutos/notes-service/internal/infrastructure/db/postgres"
	redisstore "github.com/99minutos/notes-service/internal/infrastructure/db/redis"
	"github.com/99minutos/notes-service/internal/pkg/config"
	"github.com/99minutos/notes-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// store bundles the repositories of the selected driver.
type store struct {
	users  ports.UserRepository
	notes  ports.NoteRepository
	ping   handler.DependencyCheck
	closer func(context.Context) error
}

func main() {
	cfg := config.Load()
	log := logger.Init(logger.OptionsFor(cfg.Env, cfg.LogLevel, "notes-api"))

	if cfg.Auth.JWTSecret == "change-me" {
		log.Warn().Msg("JWT_SECRET is unset, using the insecure default")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.closer(closeCtx); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()
	log.Info().Str("driver", cfg.Database.Driver).Msg("store ready")

	checks := map[string]handler.DependencyCheck{cfg.Database.Driver: st.ping}

	var limiter handler.LoginLimiter
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, login limiter disabled")
		} else {
			defer rdb.Close()
			limiter = redisstore.NewLoginLimiter(rdb, redisstore.LimiterConfig{
				MaxAttempts:  cfg.Login.MaxAttempts,
				Window:       cfg.Login.Window,
				LockDuration: cfg.Login.LockDuration,
			})
			checks["redis"] = redisstore.Ping(rdb)
		}
	}

	e := api.NewRouter(api.Dependencies{
		Config:       cfg,
		Logger:       log,
		Users:        st.users,
		Notes:        st.notes,
		Limiter:      limiter,
		HealthChecks: checks,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting http server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		users := mongostore.NewUserRepository(db)
		notes := mongostore.NewNoteRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("user indexes: %w", err)
		}
		if err := notes.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("note indexes: %w", err)
		}
		return &store{
			users:  users,
			notes:  notes,
			ping:   func(ctx context.Context) error { return client.Ping(ctx, nil) },
			closer: client.Disconnect,
		}, nil

	default:
		db, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Database.URL})
		if err != nil {
			return nil, err
		}
		if err := postgres.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &store{
			users:  postgres.NewUserRepository(db),
			notes:  postgres.NewNoteRepository(db),
			ping:   db.PingContext,
			closer: func(context.Context) error { return db.Close() },
		}, nil
	}
}
