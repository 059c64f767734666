package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-tempcred-api/internal/application/issuance"
	"github.com/go-tempcred-api/internal/config"
	"github.com/go-tempcred-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-tempcred-api/internal/infrastructure/jwt"
	"github.com/go-tempcred-api/internal/infrastructure/memory"
	"github.com/go-tempcred-api/internal/infrastructure/postgres"
	"github.com/go-tempcred-api/internal/infrastructure/redislock"
	"github.com/go-tempcred-api/internal/pkg/keylock"
	"github.com/go-tempcred-api/internal/pkg/secret"
	transporthttp "github.com/go-tempcred-api/internal/transport/http"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	setupLogging(cfg)

	ctx := context.Background()

	primary, secondary, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("stores: %v", err)
	}
	defer closeStores()

	hasher := secret.NewBcryptHasher(cfg.BcryptCost)
	locker, closeLocker := newLocker(ctx, cfg, hasher)
	defer closeLocker()

	// JWT provider for admin sessions (ephemeral key when the key files are missing).
	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Fatalf("jwt provider: %v", err)
		}
		log.Printf("WARN: JWT key files not found, using an ephemeral key: %v", err)
		if jwtProvider, err = jwtinfra.NewEphemeralProvider(cfg.AdminSessionExpiry); err != nil {
			log.Fatalf("jwt provider: %v", err)
		}
	}

	router, err := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		PrimaryRepo:   primary,
		SecondaryRepo: secondary,
		Hasher:        hasher,
		Locker:        locker,
		JWTProvider:   jwtProvider,
	})
	if err != nil {
		log.Fatalf("router: %v", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, store=%s)", cfg.AppPort, cfg.AppEnv, cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
		return
	}
	log.Println("Server stopped")
}

func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	if cfg.AppEnv == "development" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

// openStores connects the configured backend and applies its schema.
func openStores(ctx context.Context, cfg *config.Config) (transporthttp.PrimaryRepository, transporthttp.SecondaryRepository, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		primaryDB, err := openMigrated(ctx, cfg.PrimaryDatabaseURL, postgres.PrimaryMigrations)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("primary database: %w", err)
		}
		secondaryDB, err := openMigrated(ctx, cfg.SecondaryDatabaseURL, postgres.SecondaryMigrations)
		if err != nil {
			_ = primaryDB.Close()
			return nil, nil, nil, fmt.Errorf("secondary database: %w", err)
		}
		closeFn := func() {
			_ = primaryDB.Close()
			_ = secondaryDB.Close()
		}
		return postgres.NewPrimaryStore(primaryDB), postgres.NewSecondaryStore(secondaryDB), closeFn, nil

	case config.BackendDynamo:
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("dynamo client: %w", err)
		}
		// Bootstrap DynamoDB tables (creates them if they don't exist).
		if err := dynamo.Bootstrap(ctx, client, cfg.DynamoTables); err != nil {
			return nil, nil, nil, fmt.Errorf("dynamo bootstrap: %w", err)
		}
		return dynamo.NewPrimaryStore(client, cfg.DynamoTables.Primary),
			dynamo.NewSecondaryStore(client, cfg.DynamoTables.Secondary),
			func() {}, nil

	case config.BackendMemory:
		log.Println("WARN: using in-memory stores, data is lost on restart")
		return memory.NewPrimaryStore(), memory.NewSecondaryStore(), func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}

func openMigrated(ctx context.Context, dsn, dir string) (*sql.DB, error) {
	db, err := postgres.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, db, dir); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// newLocker returns the Redis lock when REDIS_ADDR is set, otherwise an in-process lock.
// The Redis lease must outlast an issuance at the configured bcrypt cost.
func newLocker(ctx context.Context, cfg *config.Config, hasher secret.Hasher) (issuance.Locker, func()) {
	if cfg.RedisAddr == "" {
		log.Println("WARN: REDIS_ADDR not set, issuance lock is per process")
		return keylock.New(), func() {}
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}
	start := time.Now()
	if _, err := hasher.Hash("lease-calibration"); err != nil {
		log.Fatalf("bcrypt: %v", err)
	}
	if err := redislock.CheckLease(cfg.IssuanceLockTTL, time.Since(start)); err != nil {
		log.Fatalf("redis lock: %v (raise ISSUANCE_LOCK_TTL_SECONDS or lower BCRYPT_COST)", err)
	}
	return redislock.New(rdb, cfg.IssuanceLockTTL), func() { _ = rdb.Close() }
}
