package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"gopherai-tutor/internal/ai"
	"gopherai-tutor/internal/app"
	"gopherai-tutor/internal/cache"
	"gopherai-tutor/internal/config"
	"gopherai-tutor/internal/logger"
	"gopherai-tutor/internal/model"
	"gopherai-tutor/internal/platform/database"
	rabbitmqClient "gopherai-tutor/internal/platform/rabbitmq"
	redisClient "gopherai-tutor/internal/platform/redis"
	"gopherai-tutor/internal/prompt"
	"gopherai-tutor/internal/repository"
	"gopherai-tutor/internal/subject"
	"gopherai-tutor/internal/worker"
)

type App struct {
	Config         *config.Config
	Log            *logger.Logger
	DB             *gorm.DB
	Redis          *redis.Client
	MQConn         *amqp.Connection
	ExchangeWorker *worker.ExchangePersistWorker

	Tutor    *app.TutorService
	Sessions *app.SessionService

	StartedAt time.Time

	stopEvictor context.CancelFunc
}

const evictInterval = time.Minute

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("init logger failed: %w", err)
	}
	return NewWithConfig(ctx, cfg, log)
}

// NewWithConfig connects the optional infrastructure named in cfg and wires
// the services. Unconfigured backends are skipped, not faked.
func NewWithConfig(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	log = logger.OrNop(log)
	a := &App{Config: cfg, Log: log, StartedAt: time.Now()}

	deps := app.SessionDeps{}
	if cfg.Database.Driver != "" {
		db, err := database.New(ctx, cfg.Database.Driver, cfg.DSN())
		if err != nil {
			return nil, err
		}
		a.DB = db
		if err := db.AutoMigrate(&model.SessionRecord{}, &model.ExchangeRecord{}); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("auto migrate tables failed: %w", err)
		}
		deps.Sessions = repository.NewSessionRepository(db)
		deps.Exchanges = repository.NewExchangeRepository(db)
		log.Info("database connected", "driver", cfg.Database.Driver)
	}

	if cfg.Redis.Addr != "" {
		client, err := redisClient.New(ctx, redisClient.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Redis = client
		deps.Cache = cache.NewSnapshotCache(client, cfg.SnapshotTTL())
		log.Info("redis connected", "addr", cfg.Redis.Addr)
	}

	if cfg.RabbitMQ.URL != "" {
		if deps.Exchanges == nil {
			log.Warn("rabbitmq configured without a database, exchanges will not be persisted")
		} else {
			conn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.App.Name)
			if err != nil {
				_ = a.Close()
				return nil, err
			}
			a.MQConn = conn
			deps.Publisher = rabbitmqClient.NewExchangePublisher(conn, cfg.RabbitMQ.ExchangePersistQueue)

			w := worker.NewExchangePersistWorker(conn, deps.Exchanges, cfg.RabbitMQ.ExchangePersistQueue, log)
			if err := w.Start(ctx); err != nil {
				_ = a.Close()
				return nil, fmt.Errorf("start exchange worker failed: %w", err)
			}
			a.ExchangeWorker = w
		}
	}

	tutor, err := NewTutor(ctx, cfg, log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Tutor = tutor

	catalog, err := LoadCatalog(cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Sessions = app.NewSessionService(tutor, deps, app.SessionServiceConfig{
		DefaultSubject: cfg.Tutor.DefaultSubject,
		Catalog:        catalog,
		IdleTTL:        cfg.SessionIdleTTL(),
	}, log)

	if cfg.SessionIdleTTL() > 0 {
		evictCtx, cancel := context.WithCancel(context.Background())
		a.stopEvictor = cancel
		go a.Sessions.RunEvictor(evictCtx, min(evictInterval, cfg.SessionIdleTTL()))
	}

	return a, nil
}

// NewTutor builds the TutorService. A missing API key is not fatal: the
// service answers every question with a general error until one is set.
func NewTutor(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app.TutorService, error) {
	composer := prompt.NewComposer("", cfg.Tutor.MaxHistory, cfg.Tutor.MaxReferenceChars)
	tutorCfg := app.TutorConfig{Messages: Messages(cfg.Messages)}

	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		log.Warn("llm api key missing, questions cannot be answered")
		return app.NewTutorService(nil, composer, tutorCfg, log), nil
	}

	gen, warning, err := ai.New(ctx, ai.ProviderConfig{
		Provider:      cfg.LLM.Provider,
		BaseURL:       cfg.LLM.BaseURL,
		APIKey:        cfg.LLM.APIKey,
		Model:         cfg.LLM.Model,
		FallbackModel: cfg.LLM.FallbackModel,
		Generation: ai.GenerationConfig{
			Temperature:     float32(cfg.LLM.Temperature),
			TopP:            float32(cfg.LLM.TopP),
			TopK:            cfg.LLM.TopK,
			MaxOutputTokens: cfg.LLM.MaxOutputTokens,
		},
		Timeout: cfg.LLMTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("init llm client failed: %w", err)
	}
	if warning != "" {
		log.Warn("preferred model unavailable", "warning", warning)
	}
	log.Info("llm client ready", "provider", cfg.LLM.Provider, "model", gen.ModelName())

	tutorCfg.ModelWarning = warning
	return app.NewTutorService(gen, composer, tutorCfg, log), nil
}

// LoadCatalog reads the optional subjects file.
func LoadCatalog(cfg *config.Config) (*subject.Catalog, error) {
	if cfg.Tutor.SubjectsFile == "" {
		return nil, nil
	}
	c, err := subject.LoadCatalog(cfg.Tutor.SubjectsFile)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func Messages(m config.MessagesConfig) app.Messages {
	return app.Messages{
		APIKeyMissing: m.APIKeyMissing,
		QuotaExceeded: m.QuotaExceeded,
		TimeoutError:  m.TimeoutError,
		GeneralError:  m.GeneralError,
		ChatCleared:   m.ChatCleared,
		Thinking:      m.Thinking,
		NoQuestion:    m.NoQuestion,
	}
}

func (a *App) Close() error {
	var closeErr error
	if a.stopEvictor != nil {
		a.stopEvictor()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.ExchangeWorker != nil {
		a.ExchangeWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
	return closeErr
}
