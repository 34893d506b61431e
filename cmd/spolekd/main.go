package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Stevekk11/Evidence-psich-spolku/internal/api"
	"github.com/Stevekk11/Evidence-psich-spolku/internal/config"
	"github.com/Stevekk11/Evidence-psich-spolku/internal/db"
	"github.com/Stevekk11/Evidence-psich-spolku/internal/otel"
	"github.com/Stevekk11/Evidence-psich-spolku/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	cleanup, err := otel.Init(ctx, version.Name, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("init otel")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cleanup(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown otel")
		}
	}()

	orm, err := db.Connect(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer func() {
		if err := db.Close(orm); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	if err := db.Migrate(ctx, cfg.DBDSN, db.DefaultMigrationsDir); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	if err := db.Seed(ctx, orm, cfg.SeedFile); err != nil {
		log.Fatal().Err(err).Msg("seed database")
	}

	pool, err := db.OpenPool(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("open pgx pool")
	}
	defer pool.Close()

	var bus *nats.Conn
	if cfg.NATSURL != "" {
		bus, err = nats.Connect(cfg.NATSURL, nats.Name(version.Name))
		if err != nil {
			log.Fatal().Err(err).Msg("connect nats")
		}
		defer bus.Drain()
	}

	app, err := api.New(&api.Store{ORM: orm, DB: pool, Bus: bus}, api.Config{
		JWTSigningKey:  cfg.JWTSigningKey,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init api")
	}

	routes, err := app.Routes()
	if err != nil {
		log.Fatal().Err(err).Msg("build routes")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           otelhttp.NewHandler(routes, version.Name),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("version", version.Version).Msg("starting spolekd")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown server")
	}
}
