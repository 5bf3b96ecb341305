package integration_test

import (
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kinotech/cinema-reservation-system/internal/app"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App   *app.Application
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := app.NewDatabasePool(cfg.DB)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg.Redis)
	if err != nil {
		db.Close()
		return nil, err
	}

	application := app.NewApplication(cfg, logger, db, redisClient)

	return &TestApp{
		App:   application,
		DB:    db,
		Redis: redisClient,
	}, nil
}
