package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/juju/errors"

	"github.com/klau55/clicker-mobile-app/internal/config"
	"github.com/klau55/clicker-mobile-app/internal/logger"
)

const maxConnIdleTime = 30 * time.Second

// ConnectPostgres builds the connection pool owned by main. Callers must Close it.
func ConnectPostgres(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, errors.Annotate(err, "unable to parse database config")
	}
	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MaxConnIdleTime = maxConnIdleTime
	poolCfg.ConnConfig.ConnectTimeout = cfg.DBConnectTimeout

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Annotate(err, "unable to create connection pool")
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Annotate(err, "unable to ping database")
	}

	logger.Success("Connected to PostgreSQL (%s:%d/%s, max %d conns)",
		poolCfg.ConnConfig.Host, poolCfg.ConnConfig.Port, poolCfg.ConnConfig.Database, poolCfg.MaxConns)

	return pool, nil
}
