package bootstrap

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/jesseg-dev/portfolio-site/config"
	httpapi "github.com/jesseg-dev/portfolio-site/internal/api/http"
	"github.com/jesseg-dev/portfolio-site/internal/storage/postgres"
)

// Resources holds the external connections. Pool and DB are nil in memory mode.
type Resources struct {
	Pool  *pgxpool.Pool
	DB    *sql.DB
	Redis *redis.Client
}

// Open connects redis and, for the postgres store, the database pool.
func Open(ctx context.Context, cfg *config.Config) (*Resources, error) {
	rdb, err := OpenRedis(ctx, RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	res := &Resources{Redis: rdb}

	if cfg.Database.Store != config.StorePostgres {
		return res, nil
	}

	pool, err := OpenDB(ctx, DBOptions{
		DSN:      cfg.Database.DatabaseDSN(),
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		res.Close()
		return nil, err
	}
	res.Pool = pool
	res.DB = postgres.NewConnection(pool)
	return res, nil
}

// Migrate applies pending migrations. It is a no-op in memory mode.
func (r *Resources) Migrate(ctx context.Context) error {
	if r.DB == nil {
		return nil
	}
	return postgres.Migrate(ctx, r.DB)
}

// Pingers returns the health check targets; db is nil in memory mode.
func (r *Resources) Pingers() (db, cache httpapi.Pinger) {
	if r.Pool != nil {
		db = r.Pool
	}
	if r.Redis != nil {
		cache = RedisPinger{Client: r.Redis}
	}
	return db, cache
}

func (r *Resources) Close() {
	if r.DB != nil {
		_ = r.DB.Close()
	}
	if r.Pool != nil {
		r.Pool.Close()
	}
	if r.Redis != nil {
		_ = r.Redis.Close()
	}
}
