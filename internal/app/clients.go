package app

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/petfit-backend/internal/clients/openai"
	"github.com/yungbote/petfit-backend/internal/clients/redis"
	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

type Clients struct {
	Redis           *goredis.Client
	InvalidationBus redis.InvalidationBus
	OpenAI          openai.Client
}

// wireClients connects the optional clients. Redis off leaves the cache on an in-process store;
// a missing OpenAI key disables explanations.
func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	if cfg.Redis.Enabled {
		rdb, err := redis.NewClient(ctx, redis.Config{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = rdb
		bus, err := redis.NewInvalidationBus(log, rdb, cfg.Redis.InvalidationChannel)
		if err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("init invalidation bus: %w", err)
		}
		out.InvalidationBus = bus
	} else {
		log.Warn("Redis disabled; using in-process cache store")
	}

	if strings.TrimSpace(cfg.OpenAI.APIKey) != "" {
		oc, err := openai.NewClient(log, openai.Config{
			APIKey:      cfg.OpenAI.APIKey,
			BaseURL:     cfg.OpenAI.BaseURL,
			Model:       cfg.OpenAI.Model,
			Timeout:     cfg.OpenAI.Timeout,
			MaxRetries:  cfg.OpenAI.MaxRetries,
			Temperature: cfg.OpenAI.Temperature,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init openai: %w", err)
		}
		out.OpenAI = oc
	} else {
		log.Warn("OpenAI API key not set; explanations disabled")
	}
	return out, nil
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
