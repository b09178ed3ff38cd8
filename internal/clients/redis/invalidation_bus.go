package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

const DefaultInvalidationChannel = "petfood:invalidation"

const (
	ScopePet     = "pet"
	ScopeProduct = "product"
	ScopeAll     = "all"
)

// InvalidationEvent is published by the profile and catalog services when a pet or product changes.
type InvalidationEvent struct {
	Scope string    `json:"scope"`
	ID    uuid.UUID `json:"id,omitempty"`
}

func (e InvalidationEvent) Validate() error {
	switch e.Scope {
	case ScopeAll:
		return nil
	case ScopePet, ScopeProduct:
		if e.ID == uuid.Nil {
			return fmt.Errorf("%s invalidation requires an id", e.Scope)
		}
		return nil
	}
	return fmt.Errorf("unknown invalidation scope %q", e.Scope)
}

type InvalidationBus interface {
	Publish(ctx context.Context, ev InvalidationEvent) error
	StartForwarder(ctx context.Context, onEvent func(ev InvalidationEvent)) error
}

type invalidationBus struct {
	log     *logger.Logger
	rdb     goredis.UniversalClient
	channel string
}

func NewInvalidationBus(log *logger.Logger, rdb goredis.UniversalClient, channel string) (InvalidationBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = DefaultInvalidationChannel
	}
	return &invalidationBus{
		log:     log.With("service", "RedisInvalidationBus"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (b *invalidationBus) Publish(ctx context.Context, ev InvalidationEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// StartForwarder subscribes and calls onEvent from one goroutine until ctx is done.
func (b *invalidationBus) StartForwarder(ctx context.Context, onEvent func(ev InvalidationEvent)) error {
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				ev, err := DecodeInvalidationEvent([]byte(m.Payload))
				if err != nil {
					b.log.Warn("bad invalidation payload", "error", err)
					continue
				}
				onEvent(ev)
			}
		}
	}()

	return nil
}

func DecodeInvalidationEvent(raw []byte) (InvalidationEvent, error) {
	var ev InvalidationEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return ev, err
	}
	ev.Scope = strings.ToLower(strings.TrimSpace(ev.Scope))
	return ev, ev.Validate()
}
