package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"priceview/internal/config"
	"priceview/internal/selection"
)

// ChartCache stores rendered chart images keyed by selection and size.
type ChartCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Key identifies a rendered chart.
func Key(sel selection.Selection, width, height int) string {
	return fmt.Sprintf("%s|%s|%dx%d", sel.Product, sel.Range, width, height)
}

// New builds the cache selected by cfg.Backend.
func New(cfg config.CacheConfig, logger zerolog.Logger) (ChartCache, error) {
	logger = logger.With().Str("component", "chart_cache").Str("backend", cfg.Backend).Logger()

	switch cfg.Backend {
	case "", config.CacheNone:
		return Nop{}, nil
	case config.CacheMemory:
		return NewMemory(cfg.TTL, cfg.MaxEntries), nil
	case config.CacheRedis:
		c, err := NewRedis(RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			TTL:      cfg.TTL,
		})
		if err != nil {
			return nil, err
		}
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("redis chart cache connected")
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Backend)
	}
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte) error         { return nil }
func (Nop) Close() error                                      { return nil }

var (
	_ ChartCache = Nop{}
	_ ChartCache = (*Memory)(nil)
	_ ChartCache = (*Redis)(nil)
)

func expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}
