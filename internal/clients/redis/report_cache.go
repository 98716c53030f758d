package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/samstark/writecoach-backend/internal/logger"
	"github.com/samstark/writecoach-backend/internal/types"
	"github.com/samstark/writecoach-backend/internal/utils"
)

// ReportCache holds rendered user reports keyed by user identifier. All
// methods are nil-safe so callers can hold a nil cache when Redis is not
// configured and skip the availability checks.
type ReportCache interface {
	Get(ctx context.Context, userID string) (*types.UserReport, bool)
	Set(ctx context.Context, userID string, report *types.UserReport)
	Invalidate(ctx context.Context, userID string)
	Close() error
}

type reportCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewReportCache connects using REDIS_ADDR. A missing address is not an
// error: the cache is optional and callers treat (nil, nil) as "run without
// caching".
func NewReportCache(log *logger.Logger) (ReportCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	ttl := utils.GetEnvAsInt("REPORT_CACHE_TTL_SECONDS", 300, log)
	return &reportCache{
		log: log.With("service", "RedisReportCache"),
		rdb: rdb,
		ttl: time.Duration(ttl) * time.Second,
	}, nil
}

func reportKey(userID string) string { return "writecoach:report:" + userID }

func (c *reportCache) Get(ctx context.Context, userID string) (*types.UserReport, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, reportKey(userID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Report cache read failed", "user_id", userID, "error", err)
		}
		return nil, false
	}
	var report types.UserReport
	if err := json.Unmarshal(raw, &report); err != nil {
		c.log.Warn("Report cache held malformed entry, dropping it", "user_id", userID, "error", err)
		_ = c.rdb.Del(ctx, reportKey(userID)).Err()
		return nil, false
	}
	return &report, true
}

func (c *reportCache) Set(ctx context.Context, userID string, report *types.UserReport) {
	if c == nil || c.rdb == nil || report == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		c.log.Warn("Could not marshal report for cache", "user_id", userID, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, reportKey(userID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Report cache write failed", "user_id", userID, "error", err)
	}
}

func (c *reportCache) Invalidate(ctx context.Context, userID string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, reportKey(userID)).Err(); err != nil {
		c.log.Warn("Report cache invalidation failed", "user_id", userID, "error", err)
	}
}

func (c *reportCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
