package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stayfix/stayfix/internal"
	"github.com/stayfix/stayfix/internal/auth"
	"github.com/stayfix/stayfix/internal/core/events"
	"github.com/stayfix/stayfix/internal/dashboard"
	dashboardPostgres "github.com/stayfix/stayfix/internal/dashboard/postgres"
	"github.com/stayfix/stayfix/internal/employee"
	employeePostgres "github.com/stayfix/stayfix/internal/employee/postgres"
	"github.com/stayfix/stayfix/internal/notification"
	notificationPostgres "github.com/stayfix/stayfix/internal/notification/postgres"
	"github.com/stayfix/stayfix/internal/notificationprofile"
	profilePostgres "github.com/stayfix/stayfix/internal/notificationprofile/postgres"
	"github.com/stayfix/stayfix/internal/orgunit"
	orgunitPostgres "github.com/stayfix/stayfix/internal/orgunit/postgres"
	"github.com/stayfix/stayfix/internal/reminder"
	reminderPostgres "github.com/stayfix/stayfix/internal/reminder/postgres"
	"github.com/stayfix/stayfix/internal/residencetitle"
	titlePostgres "github.com/stayfix/stayfix/internal/residencetitle/postgres"
	"github.com/stayfix/stayfix/internal/storage"
	"github.com/stayfix/stayfix/internal/telemetry"
	"github.com/stayfix/stayfix/internal/user"
	userPostgres "github.com/stayfix/stayfix/internal/user/postgres"
	"github.com/stayfix/stayfix/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// application holds the shared connections and services of every command.
type application struct {
	Config  *internal.Config
	Logger  *slog.Logger
	DB      *sqlx.DB
	Gorm    *gorm.DB
	Redis   redis.UniversalClient
	Bus     *events.EventBus
	Metrics *telemetry.Metrics

	Users               *user.Service
	Auth                *auth.Service
	OrgUnits            *orgunit.Service
	Rules               *notification.Service
	ResidenceTitles     *residencetitle.Service
	Employees           *employee.Service
	NotificationProfile *notificationprofile.Service
	Planner             *reminder.Planner
	Scanner             *reminder.Scanner
	Dashboard           *dashboard.Service
}

func newApplication(cfg *internal.Config) (*application, error) {
	logger.InitWithLevel(cfg.Env, cfg.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	app := &application{
		Config:  cfg,
		Logger:  lg,
		DB:      db,
		Gorm:    gdb,
		Bus:     events.NewEventBus(lg),
		Metrics: telemetry.NewMetrics("stayfix"),
	}
	if cfg.RedisEnabled() {
		app.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	app.subscribe()
	if err := app.buildServices(); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (a *application) subscribe() {
	a.Bus.SubscribeAll(func(ctx context.Context, event events.Event) error {
		a.Logger.Info("domain event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	}, events.AllTypes...)
	a.Bus.SubscribeAll(a.Metrics.EventHandler(), events.AllTypes...)
}

func (a *application) buildServices() error {
	cfg := a.Config

	store, err := storage.NewOSStore(filepath.Join(cfg.Storage.Root, cfg.Storage.Bucket))
	if err != nil {
		return fmt.Errorf("failed to open document storage: %w", err)
	}

	var limiter auth.LoginLimiter
	if a.Redis != nil {
		limiter = auth.NewRedisLoginLimiter(a.Redis, cfg.Redis.LoginLimit, cfg.Redis.LoginWindow)
	}

	userRepo := userPostgres.NewUserRepository(a.Gorm)
	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.JWTAccessSecret,
		cfg.Security.JWTRefreshSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)

	a.Users = user.NewService(userRepo, cfg.Security.BCryptCost, a.Logger)
	a.Auth = auth.NewService(userRepo, tokens, limiter, a.Logger)
	a.OrgUnits = orgunit.NewService(orgunitPostgres.NewOrgUnitRepository(a.Gorm), a.Bus, a.Logger)
	a.Rules = notification.NewService(notificationPostgres.NewRuleRepository(a.Gorm), a.Bus, a.Logger)
	a.ResidenceTitles = residencetitle.NewService(titlePostgres.NewResidenceTitleRepository(a.Gorm), a.Logger)
	a.Employees = employee.NewService(
		employeePostgres.NewEmployeeRepository(a.Gorm),
		employeePostgres.NewReferences(a.Gorm),
		store,
		a.Bus,
		a.Logger,
		employee.Options{MaxUploadBytes: cfg.Storage.MaxUploadBytes},
	)
	a.NotificationProfile = notificationprofile.NewService(profilePostgres.NewProfileRepository(a.Gorm), a.Logger)

	a.Planner = reminder.NewPlanner(a.Employees, a.Rules)
	a.Scanner = reminder.NewScanner(
		reminderPostgres.NewUserRepository(a.Gorm),
		a.Planner,
		reminderPostgres.NewLogRepository(a.Gorm),
		a.Bus,
		a.Metrics,
		a.Logger,
	)
	a.Dashboard = dashboard.NewService(dashboardPostgres.NewDashboardRepository(a.DB), a.Planner, a.Logger)
	return nil
}

// Close waits for in-flight event handlers and releases the connections.
func (a *application) Close() error {
	var errs []error
	if err := a.Bus.Wait(context.Background()); err != nil {
		errs = append(errs, fmt.Errorf("event bus: %w", err))
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if err := a.DB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("database close: %w", err))
	}
	return errors.Join(errs...)
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Open(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers gorm over the already opened pool.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
}
