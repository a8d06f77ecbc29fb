package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-co-op/gocron/v2"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/hall-designer/internal/domain"
	"github.com/metinatakli/hall-designer/internal/repository"
	appvalidator "github.com/metinatakli/hall-designer/internal/validator"
	"github.com/metinatakli/hall-designer/internal/vcs"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

var (
	version = vcs.Version()
)

type application struct {
	config         config
	logger         *slog.Logger
	db             *pgxpool.Pool
	redis          redis.UniversalClient
	validator      *validator.Validate
	sessionManager *scs.SessionManager

	// rand backs schedule generation and is not safe for concurrent use;
	// take randMu around every draw
	rand   *rand.Rand
	randMu sync.Mutex

	layoutRepo   domain.LayoutRepository
	filmRepo     domain.FilmRepository
	scheduleRepo domain.ScheduleRepository
}

type config struct {
	port            int
	env             string
	managerPasscode string
	ticketBasePrice decimal.Decimal
	db              struct {
		dsn          string
		maxOpenConns int
		maxIdleTime  time.Duration
	}
	redis struct {
		url          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  time.Duration
	}
}

func Run() error {
	var cfg config
	var basePrice string

	flag.IntVar(&cfg.port, "port", 3000, "server port")
	flag.StringVar(&cfg.env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.managerPasscode, "manager-passcode", os.Getenv("MANAGER_PASSCODE"), "Passcode granting manager access")
	flag.StringVar(&basePrice, "ticket-base-price", "12.00", "Base ticket price before category extras")

	flag.StringVar(&cfg.db.dsn, "db-dsn", os.Getenv("DB_DSN"), "PostgreSQL DSN")
	flag.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.db.maxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.redis.url, "redis-url", os.Getenv("REDIS_URL"), "Redis URL")
	flag.IntVar(&cfg.redis.maxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.redis.maxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.redis.maxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	price, err := decimal.NewFromString(basePrice)
	if err != nil {
		return fmt.Errorf("invalid ticket base price %q: %w", basePrice, err)
	}
	cfg.ticketBasePrice = price

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	validator := appvalidator.NewValidator()

	db, err := newDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := newRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	seed := uint64(time.Now().UnixNano())

	app := &application{
		config:         cfg,
		logger:         logger,
		db:             db,
		redis:          redisClient,
		validator:      validator,
		sessionManager: newSessionManager(redisClient),
		rand:           rand.New(rand.NewPCG(seed, seed)),
		layoutRepo:     repository.NewPostgresLayoutRepository(db),
		filmRepo:       repository.NewPostgresFilmRepository(db),
		scheduleRepo:   repository.NewPostgresScheduleRepository(db),
	}

	return app.run()
}

func newSessionManager(client *redis.Client) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client)
	sessionManager.IdleTimeout = 20 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func newRedisClient(cfg config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.redis.url,
		MaxIdleConns:    cfg.redis.maxIdleConns,
		MaxActiveConns:  cfg.redis.maxOpenConns,
		ConnMaxIdleTime: cfg.redis.maxIdleTime,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func newDatabasePool(cfg config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.db.maxIdleTime
	config.MaxConns = int32(cfg.db.maxOpenConns)

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

func (app *application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	scheduler, err := app.startScheduleCacheJanitor()
	if err != nil {
		return err
	}
	defer scheduler.Shutdown()

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

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.env)

	err = srv.ListenAndServe()
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

// startScheduleCacheJanitor schedules the midnight rollover: day ranks shift
// at the date boundary, so cached schedules from the previous day are stale.
func (app *application) startScheduleCacheJanitor() (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(0, 0, 0),
			),
		),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := app.clearScheduleCache(ctx); err != nil {
				app.logger.Error("schedule cache rollover failed", "error", err)
				return
			}

			app.logger.Info("schedule cache rolled over")
		}),
	)
	if err != nil {
		return nil, err
	}

	scheduler.Start()

	return scheduler, nil
}

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)
	r.Use(app.addRequestLogger)

	r.Get("/health", app.GetHealth)

	r.Post("/manager-session", app.CreateManagerSession)
	r.Delete("/manager-session", app.DeleteManagerSession)

	r.Route("/layouts", func(r chi.Router) {
		r.Get("/", app.ListLayouts)
		r.With(app.requireManager).Post("/", app.CreateLayout)
		r.With(app.requireManager).Post("/import", app.ImportLayout)

		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", app.GetLayout)
			r.Get("/preview", app.GetLayoutPreview)
			r.Get("/export", app.ExportLayout)
			r.With(app.requireManager).Put("/", app.SaveLayout)
			r.With(app.requireManager).Delete("/", app.DeleteLayout)
			r.With(app.requireManager).Patch("/cells/{row}/{col}", app.ApplyLayoutTool)
		})
	})

	r.Route("/bookings/{name}", func(r chi.Router) {
		r.Use(app.ensureGuestSession)

		r.Get("/seats", app.GetSeatMap)
		r.Post("/seats/{row}/{col}", app.ToggleSeat)
		r.Post("/purchase", app.ConfirmPurchase)
		r.Delete("/selection", app.ClearSelection)
	})

	r.Route("/films", func(r chi.Router) {
		r.Get("/", app.GetFilms)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/schedule", app.GetFilmSchedule)
			r.With(app.requireManager).Put("/hall-preferences", app.PutHallPreferences)
			r.With(app.requireManager).Put("/custom-schedule", app.PutCustomSchedule)
			r.With(app.requireManager).Delete("/custom-schedule", app.DeleteCustomSchedule)
		})
	})

	return r
}
