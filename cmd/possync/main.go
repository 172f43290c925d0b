package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/phenrril/possync/internal/app"
	"github.com/phenrril/possync/internal/config"
)

const shutdownTimeout = 15 * time.Second

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	cfg, err := config.Read()
	if err != nil {
		zlog.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.IsProduction() {
		zlog.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	var db *gorm.DB
	if dsn := strings.TrimSpace(cfg.DatabaseDSN); dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			zlog.Fatal().Err(err).Msg("failed to connect to database")
		}
	} else {
		zlog.Warn().Msg("DB_DSN not set, sync journal is kept in memory")
	}

	application, err := app.NewApp(cfg, db)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to create app")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           application.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zlog.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if application.Scheduler != nil {
		application.Scheduler.Start(cfg.Sync.RunOnStart)
	}
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if application.Scheduler != nil {
			if err := application.Scheduler.Stop(sctx); err != nil {
				zlog.Warn().Err(err).Msg("sync tasks still running at shutdown")
			}
		}
		return server.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		zlog.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	zlog.Info().Msg("bye")
}
