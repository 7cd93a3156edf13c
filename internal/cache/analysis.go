// Package cache provides the optional redis-backed cache for run-rate
// analysis results. With caching disabled a noop implementation keeps the
// call sites unconditional.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/channelpulse/backend-go/internal/config"
	"github.com/channelpulse/backend-go/internal/domain"
)

const (
	analysisKeyPrefix  = "runrate:analysis"
	scanBatchSize      = 100
	defaultAnalysisTTL = time.Minute
)

type AnalysisCache interface {
	GetAnalysis(ctx context.Context, filter *domain.RecordFilter) (*domain.AnalysisView, bool, error)
	SetAnalysis(ctx context.Context, filter *domain.RecordFilter, view *domain.AnalysisView) error
	InvalidateAll(ctx context.Context) error
}

type redisAnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopAnalysisCache struct{}

func NewAnalysisCache(cfg config.CacheConfig) (AnalysisCache, error) {
	if !cfg.Enabled {
		return &noopAnalysisCache{}, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.AnalysisTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultAnalysisTTL
	}

	return &redisAnalysisCache{client: client, ttl: ttl}, nil
}

func NewNoopAnalysisCache() AnalysisCache {
	return &noopAnalysisCache{}
}

func (c *redisAnalysisCache) GetAnalysis(ctx context.Context, filter *domain.RecordFilter) (*domain.AnalysisView, bool, error) {
	payload, err := c.client.Get(ctx, buildAnalysisKey(filter)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var view domain.AnalysisView
	if err := json.Unmarshal(payload, &view); err != nil {
		return nil, false, fmt.Errorf("decode analysis cache: %w", err)
	}
	return &view, true, nil
}

func (c *redisAnalysisCache) SetAnalysis(ctx context.Context, filter *domain.RecordFilter, view *domain.AnalysisView) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("encode analysis cache: %w", err)
	}
	if err := c.client.Set(ctx, buildAnalysisKey(filter), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisAnalysisCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, analysisKeyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return nil
}

func (n *noopAnalysisCache) GetAnalysis(ctx context.Context, filter *domain.RecordFilter) (*domain.AnalysisView, bool, error) {
	return nil, false, nil
}

func (n *noopAnalysisCache) SetAnalysis(ctx context.Context, filter *domain.RecordFilter, view *domain.AnalysisView) error {
	return nil
}

func (n *noopAnalysisCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

// buildAnalysisKey fingerprints the filter. Multi-value dimensions are
// sorted first so equivalent filters share a cache entry.
func buildAnalysisKey(filter *domain.RecordFilter) string {
	if filter == nil {
		return analysisKeyPrefix + ":default"
	}

	var parts []string
	addList := func(name string, values []string) {
		if len(values) == 0 {
			return
		}
		sorted := append([]string(nil), values...)
		sort.Strings(sorted)
		parts = append(parts, name+"="+strings.Join(sorted, ","))
	}
	addList("distributors", filter.Distributors)
	addList("models", filter.Models)
	addList("chipsets", filter.Chipsets)
	addList("category_types", filter.CategoryTypes)
	addList("dealers", filter.Dealers)
	addList("products", filter.Products)
	if filter.DateFrom != "" {
		parts = append(parts, "date_from="+filter.DateFrom)
	}
	if filter.DateTo != "" {
		parts = append(parts, "date_to="+filter.DateTo)
	}
	if filter.WindowWeeks > 0 {
		parts = append(parts, "window="+strconv.Itoa(filter.WindowWeeks))
	}
	if filter.TargetWeeks > 0 {
		parts = append(parts, "target="+strconv.Itoa(filter.TargetWeeks))
	}

	if len(parts) == 0 {
		return analysisKeyPrefix + ":default"
	}
	hash := sha1.Sum([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%s:%s", analysisKeyPrefix, hex.EncodeToString(hash[:]))
}
