package bootstrap

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/redis/go-redis/v9"

	chclient "gridiron/internal/adapters/clickhouse"
	"gridiron/internal/adapters/config"
	"gridiron/internal/adapters/kafka"
	pgclient "gridiron/internal/adapters/postgres"
	redisclient "gridiron/internal/adapters/redis"
	"gridiron/internal/api"
	"gridiron/internal/api/health"
	"gridiron/internal/domain/market"
	"gridiron/internal/events"
	"gridiron/internal/ml"
	chrepo "gridiron/internal/repository/clickhouse"
	pgrepo "gridiron/internal/repository/postgres"
	redisrepo "gridiron/internal/repository/redis"
	playersvc "gridiron/internal/services/player"
	projectionsvc "gridiron/internal/services/projection"
	"gridiron/pkg/errors"
	"gridiron/pkg/logger"
)

// Container holds all application dependencies in initialization order.
// Postgres is the only required store; ClickHouse, Redis and Kafka attach
// optional capabilities (audit trail, market cache, events) and the serving
// pipeline runs without any of them.
type Container struct {
	Config       *config.Config
	Log          *logger.Logger
	ErrorTracker errors.Tracker

	// Infrastructure
	PG    *pgclient.Client
	CH    *chclient.Client
	Redis *redisclient.Client
	Kafka *kafka.Producer

	// Serving collaborators
	Loader    *ml.Loader
	Audit     *chrepo.AuditWriter
	Publisher *events.Publisher

	// Services
	Projection *projectionsvc.Service
	Players    *playersvc.Service

	Server *api.Server
}

// New wires the application together
func New(cfg *config.Config, tracker errors.Tracker, log *logger.Logger) (*Container, error) {
	c := &Container{
		Config:       cfg,
		Log:          log,
		ErrorTracker: tracker,
	}

	pg, err := pgclient.NewClient(cfg.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to postgres")
	}
	c.PG = pg

	if cfg.ClickHouse.Enabled() {
		ch, err := chclient.NewClient(cfg.ClickHouse)
		if err != nil {
			// The audit trail is optional; a dead ClickHouse must not keep
			// the serving core down
			log.Warnf("ClickHouse unavailable, audit trail disabled: %v", err)
		} else {
			c.CH = ch
			c.Audit = chrepo.NewAuditWriter(ch.Conn())
		}
	}

	if cfg.Redis.Enabled() {
		rd, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			log.Warnf("Redis unavailable, market cache disabled: %v", err)
		} else {
			c.Redis = rd
		}
	}

	if cfg.Kafka.Enabled() {
		c.Kafka = kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers})
		c.Publisher = events.NewPublisher(c.Kafka, cfg.Kafka.Topic)
	}

	db := pg.DB()
	players := pgrepo.NewPlayerRepository(db)
	registry := pgrepo.NewRegistryRepository(db)
	features := pgrepo.NewFeatureRepository(db)
	projections := pgrepo.NewProjectionRepository(db)
	baselines := pgrepo.NewBaselineRepository(db)

	var markets market.Repository = pgrepo.NewMarketRepository(db)
	if c.Redis != nil {
		markets = redisrepo.NewMarketCache(markets, c.Redis.Client(), cfg.Redis.MarketTTL)
	}

	c.Loader = ml.NewLoader()

	c.Projection = projectionsvc.NewService(
		players, markets, registry, features, projections, baselines,
		c.Loader, c.Publisher, c.Audit, log,
	)
	c.Players = playersvc.NewService(players, log)

	healthHandler := health.New(
		log,
		db,
		chDriverConn(c.CH),
		redisRawClient(c.Redis),
		cfg.App.Name,
		cfg.App.Version,
	)

	c.Server = api.NewServer(
		api.ServerConfig{
			Port:           cfg.Server.Port,
			ServiceName:    cfg.App.Name,
			Version:        cfg.App.Version,
			RateLimit:      cfg.Server.RateLimit,
			RateLimitBurst: cfg.Server.RateLimitBurst,
		},
		healthHandler,
		api.NewProjectionHandler(c.Projection),
		api.NewPlayerHandler(c.Players, markets),
		log,
	)

	return c, nil
}

// chDriverConn unwraps the optional ClickHouse client for the health handler
func chDriverConn(c *chclient.Client) driver.Conn {
	if c == nil {
		return nil
	}
	return c.Conn()
}

// redisRawClient unwraps the optional Redis client for the health handler
func redisRawClient(c *redisclient.Client) *redis.Client {
	if c == nil {
		return nil
	}
	return c.Client()
}

// Start launches background components. The HTTP server itself is started by
// the caller so it can own the blocking accept loop.
func (c *Container) Start(ctx context.Context) {
	if c.Audit != nil {
		c.Audit.Start(ctx)
		c.Log.Info("Projection audit writer started")
	}
}

// Shutdown stops components in reverse initialization order
func (c *Container) Shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if c.Server != nil {
		if err := c.Server.Shutdown(shutdownCtx); err != nil {
			c.Log.Warnf("HTTP server shutdown: %v", err)
		}
	}

	if c.Audit != nil {
		if err := c.Audit.Stop(shutdownCtx); err != nil {
			c.Log.Warnf("Audit writer shutdown: %v", err)
		}
	}

	if c.Kafka != nil {
		if err := c.Kafka.Close(); err != nil {
			c.Log.Warnf("Kafka producer shutdown: %v", err)
		}
	}

	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.CH != nil {
		_ = c.CH.Close()
	}
	if c.PG != nil {
		_ = c.PG.Close()
	}

	c.Log.Info("Shutdown complete")
}
