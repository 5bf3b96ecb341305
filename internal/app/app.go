package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kinotech/cinema-reservation-system/internal/domain"
	"github.com/kinotech/cinema-reservation-system/internal/repository"
	appvalidator "github.com/kinotech/cinema-reservation-system/internal/validator"
	"github.com/kinotech/cinema-reservation-system/internal/vcs"
	"github.com/redis/go-redis/v9"
)

var (
	version = vcs.Version()
)

type Application struct {
	config    Config
	logger    *slog.Logger
	db        *pgxpool.Pool
	redis     redis.UniversalClient
	validator *validator.Validate

	userRepo        domain.UserRepository
	movieRepo       domain.MovieRepository
	screeningRepo   domain.ScreeningRepository
	seatRepo        domain.SeatRepository
	reservationRepo domain.ReservationRepository
}

type Config struct {
	Port  int
	Env   string
	DB    DBConfig
	Redis RedisConfig
	JWT   JWTConfig
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", "", "Redis URL")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.JWT.Secret, "jwt-secret", "", "JWT signing secret")
	flag.DurationVar(&cfg.JWT.Expiry, "jwt-expiry", time.Hour, "JWT access token lifetime")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := NewDatabasePool(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := NewRedisClient(cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	app := NewApplication(cfg, logger, db, redisClient)

	return app.Serve()
}

func NewApplication(cfg Config, logger *slog.Logger, db *pgxpool.Pool, redisClient redis.UniversalClient) *Application {
	return &Application{
		config:          cfg,
		logger:          logger,
		db:              db,
		redis:           redisClient,
		validator:       appvalidator.NewValidator(),
		userRepo:        repository.NewPostgresUserRepository(db),
		movieRepo:       repository.NewPostgresMovieRepository(db),
		screeningRepo:   repository.NewPostgresScreeningRepository(db),
		seatRepo:        repository.NewPostgresSeatRepository(db),
		reservationRepo: repository.NewPostgresReservationRepository(db),
	}
}

func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.URL,
		MaxIdleConns:    cfg.MaxIdleConns,
		MaxActiveConns:  cfg.MaxOpenConns,
		ConnMaxIdleTime: cfg.MaxIdleTime,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg DBConfig) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.MaxIdleTime
	config.MaxConns = int32(cfg.MaxOpenConns)

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) Serve() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(app.recoverPanic)

	r.Get("/health", app.GetHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", app.Register)
		r.Post("/login", app.Login)
		r.Post("/refresh", app.RefreshToken)
	})

	r.Get("/screenings", app.GetActiveScreenings)

	r.Group(func(r chi.Router) {
		r.Use(app.requireAuthentication)

		r.Get("/screenings/{id}", app.GetScreeningById)
		r.Get("/screenings/{id}/seats", app.GetSeatsByScreening)

		r.Post("/reservations", app.CreateReservation)
		r.Get("/reservations", app.GetMyReservations)
		r.Delete("/reservations/{id}", app.CancelReservation)

		r.Route("/users/me", func(r chi.Router) {
			r.Get("/", app.GetProfile)
			r.Put("/password", app.ChangePassword)
			r.Post("/deactivate", app.DeactivateAccount)
		})

		r.Group(func(r chi.Router) {
			r.Use(app.requireAdmin)

			r.Route("/admin/movies", func(r chi.Router) {
				r.Get("/", app.GetMovies)
				r.Post("/", app.CreateMovie)
				r.Put("/{id}", app.UpdateMovie)
				r.Delete("/{id}", app.DeleteMovie)
			})

			r.Route("/admin/screenings", func(r chi.Router) {
				r.Get("/", app.GetScreenings)
				r.Post("/", app.CreateScreening)
				r.Put("/{id}", app.UpdateScreening)
				r.Delete("/{id}", app.DeleteScreening)
			})
		})
	})

	return r
}
