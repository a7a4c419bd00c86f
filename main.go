package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	"shiftsense/api-gateway/config"
	_ "shiftsense/api-gateway/docs"
	"shiftsense/api-gateway/handlers"
	"shiftsense/api-gateway/internal/aiclient"
	"shiftsense/api-gateway/internal/export"
	"shiftsense/api-gateway/internal/extract"
	"shiftsense/api-gateway/internal/health"
	"shiftsense/api-gateway/internal/ingest"
	"shiftsense/api-gateway/internal/scoring"
	"shiftsense/api-gateway/internal/store"
	"shiftsense/api-gateway/internal/travel"
	"shiftsense/api-gateway/middleware"
)

// rowStore is everything the service needs from the row store.
type rowStore interface {
	ingest.Store
	handlers.ShiftStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := config.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rows, closeRows, err := openRowStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open row store: %v", err)
	}
	defer closeRows()

	objects, err := openObjectStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to open object storage: %v", err)
	}

	provider, closeTravel := travelProvider(ctx, cfg)
	defer closeTravel()

	vision, err := aiclient.NewAIClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, log)
	if err != nil {
		log.Fatalf("Failed to create AI client: %v", err)
	}
	defer vision.Close()

	extractor, err := extract.New(vision, cfg.Extract, log)
	if err != nil {
		log.Fatalf("Failed to build extractor: %v", err)
	}
	scorer := scoring.New(cfg.Scoring, provider, log)
	ingestor := ingest.New(rows, objects, extractor, scorer, cfg.Ingest, log)
	exporter := export.NewService(rows, log)

	h := handlers.NewApplicationHandler(ingestor, rows, exporter, log)

	app := fiber.New(fiber.Config{
		AppName:      "ShiftSense API",
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler(log),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(middleware.RequestLogger(log))

	h.RegisterRoutes(app)
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	var hs *health.Server
	if cfg.GRPCHealthAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCHealthAddr)
		if err != nil {
			log.Fatalf("Failed to listen on %s: %v", cfg.GRPCHealthAddr, err)
		}
		hs = health.NewServer(log)
		go func() {
			if err := hs.Serve(lis); err != nil {
				log.Errorf("gRPC health server stopped: %v", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		log.Info("Shutting down")
		if hs != nil {
			hs.Stop()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Errorf("HTTP shutdown: %v", err)
		}
	}()

	log.Infof("Starting ShiftSense API on port %s...", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Errorf("HTTP server stopped: %v", err)
	}
}

// openRowStore prefers a direct Postgres connection and falls back to
// Supabase's REST interface.
func openRowStore(ctx context.Context, cfg config.Config) (rowStore, func(), error) {
	if cfg.DatabaseURL != "" {
		pg, err := store.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		config.Log.Info("Using Postgres row store")
		return pg, pg.Close, nil
	}

	sb, err := store.NewSupabaseStore(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
	if err != nil {
		return nil, nil, err
	}
	config.Log.Info("Using Supabase row store")
	return sb, func() {}, nil
}

func openObjectStorage(cfg config.Config) (ingest.ObjectStorage, error) {
	if cfg.Storage.Backend == config.StorageS3 {
		config.Log.WithField("bucket", cfg.Storage.S3.Bucket).Info("Using S3 object storage")
		return store.NewS3Objects(cfg.Storage.S3)
	}

	client, err := config.InitSupabase(cfg.Supabase)
	if err != nil {
		return nil, err
	}
	return store.NewSupabaseObjects(client.Storage, cfg.Supabase.Bucket), nil
}

// travelProvider returns nil when no Maps key is configured, in which case
// scoring uses its fallback route.
func travelProvider(ctx context.Context, cfg config.Config) (travel.Provider, func()) {
	noop := func() {}
	if cfg.GoogleMapsAPIKey == "" {
		config.Log.Warn("GOOGLE_MAPS_API_KEY not set, travel scoring uses fallback values")
		return nil, noop
	}

	gm, err := travel.NewGoogleMaps(cfg.GoogleMapsAPIKey, config.Log)
	if err != nil {
		config.Log.Warnf("Google Maps unavailable, using fallback travel values: %v", err)
		return nil, noop
	}
	if cfg.Redis.Addr == "" {
		return gm, noop
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		config.Log.Warnf("Redis unavailable, travel routes are not cached: %v", err)
		rdb.Close()
		return gm, noop
	}
	config.Log.WithField("addr", cfg.Redis.Addr).Info("Caching travel routes in Redis")
	return travel.NewRedisCache(gm, rdb, cfg.Redis.CacheTTL, config.Log), func() { rdb.Close() }
}
