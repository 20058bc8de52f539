package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"notekeeper/internal/app"
	"notekeeper/internal/config"
	"notekeeper/internal/observability"
	"notekeeper/internal/platform/database"
	rabbitmqClient "notekeeper/internal/platform/rabbitmq"
	redisClient "notekeeper/internal/platform/redis"
	"notekeeper/internal/repository"
	"notekeeper/internal/session"
)

type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	DB      *gorm.DB
	Redis   *redis.Client
	MQConn  *amqp.Connection
	Metrics *observability.Metrics

	Sessions *session.Manager
	Accounts *app.AccountService
	Notes    *app.NoteService

	StartedAt time.Time
}

// New connects every configured backing service and wires the services on
// top. Redis is only dialled for the redis session store and RabbitMQ only
// when note events are enabled.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{
		Config:    cfg,
		Logger:    logger,
		Metrics:   observability.NewMetrics(),
		StartedAt: time.Now(),
	}

	db, err := database.New(ctx, cfg.Database, cfg.MySQLDSN(), logger)
	if err != nil {
		return nil, err
	}
	a.DB = db

	var store session.Store
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		client, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Redis = client
		store = session.NewRedisStore(client, cfg.SessionTTL(), cfg.Session.KeyPrefix)
	default:
		store = session.NewMemoryStore(cfg.SessionTTL())
	}

	var events app.EventPublisher = app.NopPublisher{}
	if cfg.RabbitMQ.Enabled {
		conn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.NoteEventQueue)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.MQConn = conn
		events = rabbitmqClient.NewNoteEventPublisher(conn, cfg.RabbitMQ.NoteEventQueue)
	}

	a.Sessions = session.NewManager(store, session.NewCodec(cfg.Auth.SecretKey, cfg.SessionTTL()), logger)
	a.Accounts = app.NewAccountService(
		repository.NewUserRepository(db),
		app.NewBcryptHasher(cfg.Auth.BcryptCost),
	)
	a.Notes = app.NewNoteService(repository.NewNoteRepository(db), events, logger)

	logger.Info("application wired",
		"db_driver", cfg.Database.Driver,
		"session_store", cfg.Session.Store,
		"note_events", cfg.RabbitMQ.Enabled,
	)
	return a, nil
}

func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.MQConn != nil && !a.MQConn.IsClosed() {
		errs = append(errs, a.MQConn.Close())
	}
	if a.DB != nil {
		errs = append(errs, database.Close(a.DB))
	}
	return errors.Join(errs...)
}
