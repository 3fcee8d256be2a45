package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/PabloPavan/pastebox/internal"
	"github.com/PabloPavan/pastebox/internal/db"
	"github.com/PabloPavan/pastebox/internal/httpapi"
	"github.com/PabloPavan/pastebox/internal/pastes"
	"github.com/PabloPavan/pastebox/internal/telemetry"
	"github.com/PabloPavan/pastebox/internal/webui"

	_ "github.com/PabloPavan/pastebox/docs"
)

const serviceName = "pastebox"

func main() {
	// Local development convenience; production sets real env vars.
	_ = godotenv.Load()

	port := internal.Env("APP_PORT", "8080")
	databaseURL := internal.MustEnv("DATABASE_URL")
	redisURL := internal.MustEnv("REDIS_URL")

	ctx := context.Background()

	shutdown := telemetry.InitTracer(serviceName)
	defer shutdown(context.Background())
	shutdownMetrics := telemetry.InitMetrics(serviceName)
	defer shutdownMetrics(context.Background())
	shutdownLogger := telemetry.InitLogger(serviceName)
	defer shutdownLogger(context.Background())
	db.InitTelemetry(serviceName)

	d, err := db.New(ctx, databaseURL)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer d.Close()

	if err := d.Migrate(ctx); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	redisOpt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("redis url error: %v", err)
	}
	redisClient := redis.NewClient(redisOpt)
	defer redisClient.Close()

	dbBase := db.NewBase(d.Pool, 3*time.Second)

	service := &pastes.Service{
		Store:     pastes.NewRepository(dbBase),
		Cache:     pastes.NewRedisCache(redisClient, internal.Env("CACHE_REDIS_PREFIX", "pastebox:cache:")),
		CacheTTL:  parseDurationEnv("PASTE_CACHE_TTL", 2*time.Minute),
		RecentTTL: parseDurationEnv("RECENT_CACHE_TTL", 30*time.Second),
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweepExpired(sweepCtx, service, parseDurationEnv("EXPIRY_SWEEP_INTERVAL", 10*time.Minute))

	app := &httpapi.App{
		ServiceName: serviceName,
		Health:      &httpapi.HealthHandler{DB: d.Pool},
		Pastes:      &httpapi.PastesHandler{Service: service},
		Web:         webui.New(service),
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpapi.NewRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("pastebox listening on :%s", port)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// sweepExpired deletes expired pastes on an interval. Fetch already refuses
// expired pastes; the sweep only reclaims storage.
func sweepExpired(ctx context.Context, service *pastes.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := service.SweepExpired(ctx)
			if err != nil {
				telemetry.LogError(ctx, "expiry sweep failed",
					telemetry.LogString("error", err.Error()),
				)
				continue
			}
			if deleted > 0 {
				telemetry.LogInfo(ctx, "expired pastes deleted",
					telemetry.LogInt64("count", deleted),
				)
			}
		}
	}
}

func parseDurationEnv(key string, def time.Duration) time.Duration {
	val := strings.TrimSpace(internal.Env(key, ""))
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		log.Printf("invalid %s: %q, using default", key, val)
		return def
	}
	return d
}
