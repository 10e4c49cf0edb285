package waitlist

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"launch-gate/internal/config"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 3 * time.Second

// Store is a Repository plus the connection it owns.
type Store struct {
	Repository
	Backend string
	close   func() error
}

// Close releases the backend connection, if any.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects the backend selected by cfg.Waitlist.Backend and verifies it
// is reachable. The postgres backend expects the "pgx" driver to be registered.
func Open(ctx context.Context, cfg config.Config) (*Store, error) {
	switch cfg.Waitlist.Backend {
	case config.BackendPostgres:
		db, err := openPostgres(ctx, "pgx", cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		repo := NewPostgresRepo(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Store{Repository: repo, Backend: config.BackendPostgres, close: db.Close}, nil

	case config.BackendRedis:
		rdb, err := openRedis(ctx, cfg.RedisAddr())
		if err != nil {
			return nil, err
		}
		return &Store{Repository: NewRedisRepo(rdb, DefaultRedisKey), Backend: config.BackendRedis, close: rdb.Close}, nil

	case config.BackendMemory, "":
		return &Store{Repository: NewMemoryRepo(), Backend: config.BackendMemory}, nil

	default:
		return nil, fmt.Errorf("waitlist: unknown backend %q", cfg.Waitlist.Backend)
	}
}

// openPostgres opens a small pool; dsn must not be logged.
func openPostgres(ctx context.Context, driverName, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return db, nil
}

func openRedis(ctx context.Context, addr string) (*redis.Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}
