// Command server runs the terrasim engine behind an HTTP query surface,
// driving ticks on a fixed interval the way the teacher's services run
// their background work alongside their API (spec §6).
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	natsgo "github.com/nats-io/nats.go"

	"terrasim/internal/api"
	"terrasim/internal/broadcast"
	"terrasim/internal/cache"
	"terrasim/internal/config"
	"terrasim/internal/engerr"
	"terrasim/internal/engine"
	"terrasim/internal/health"
	"terrasim/internal/logging"
	"terrasim/internal/metrics"
)

func main() {
	logging.InitLogger()

	env := config.LoadAdapterEnv()

	cfg := config.Default()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("failed to load config file")
		}
		cfg = loaded
	}

	seed := time.Now().UnixNano()
	if v := os.Getenv("WORLD_SEED"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			seed = parsed
		}
	}

	e, err := engine.New(cfg, seed)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize engine")
	}

	var queryCache *cache.QueryCache
	if env.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: env.RedisAddr})
		queryCache = cache.NewQueryCache(rdb, 0)
		log.Info().Str("addr", env.RedisAddr).Msg("snapshot cache enabled")
	}

	var publisher *broadcast.Publisher
	if env.NATSURL != "" {
		nc, err := natsgo.Connect(env.NATSURL)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to NATS, tick broadcast disabled")
		} else {
			publisher = broadcast.New(nc)
			defer nc.Close()
			log.Info().Str("url", env.NATSURL).Msg("tick broadcast enabled")
		}
	}

	var pinger health.Pinger
	if queryCache != nil {
		pinger = queryCache
	}
	var natsStatus health.NATSStatus
	if publisher != nil {
		natsStatus = publisher
	}
	checker := health.NewHealthChecker(pinger, natsStatus)

	srv := api.New(e, env, queryCache)

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(logging.Middleware)
	router.Use(metrics.Middleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{env.FrontendURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Correlation-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", checker.Handler().ServeHTTP)
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/time", srv.GetTime)
		r.Get("/terrain", srv.GetTerrain)
		r.Get("/viewport", srv.GetViewport)
		r.Get("/config", srv.GetConfig)
		r.Get("/world-size", srv.GetWorldSize)
	})

	httpServer := &http.Server{
		Addr:    ":" + env.Port,
		Handler: router,
	}

	// cron.Every gives fixed-interval scheduling at whole-second
	// granularity: the sub-second part of the interval is dropped and
	// intervals under one second run once a second. A plain 5-field cron
	// spec only resolves to the minute.
	scheduler := cron.New()
	scheduler.Schedule(cron.Every(env.SimulationInterval), cron.FuncJob(func() {
		runTick(e, publisher)
	}))
	scheduler.Start()
	defer scheduler.Stop()

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during http server shutdown")
	}
}

// runTick advances the simulation once. Tick() itself rejects overlap by
// returning KindTickBudgetExceeded (already counted in metrics), so this
// only needs to log it and otherwise broadcast success.
func runTick(e *engine.Engine, publisher *broadcast.Publisher) {
	if err := e.Tick(); err != nil {
		var appErr *engerr.Error
		if errors.As(err, &appErr) && appErr.Kind == engerr.KindTickBudgetExceeded {
			log.Warn().Msg("tick skipped: previous tick still running")
			return
		}
		log.Error().Err(err).Msg("tick failed")
		return
	}

	snap := e.Snapshot()
	publisher.PublishTickCompleted(snap.Tick, snap.Time.Year, snap.Time.Day, snap.Time.Hour)
}
