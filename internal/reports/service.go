package reports

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/gallery-essence/essence-pos/internal/sales"
)

// SalesPort reads committed sales for a half-open time range.
type SalesPort interface {
	ListByRange(ctx context.Context, from, to time.Time) ([]sales.Sale, error)
}

// Service computes and caches daily summaries. Concurrent requests for the
// same day collapse into a single computation via singleflight.
type Service struct {
	sales  SalesPort
	cache  *redis.Client
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

// NewService constructs the reports service. cache may be nil to disable
// caching.
func NewService(salesPort SalesPort, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{sales: salesPort, cache: cache, ttl: ttl, logger: logger}
}

func summaryKey(day time.Time) string {
	return "reports:daily:" + day.UTC().Format("2006-01-02")
}

// dayWindow returns [00:00, 24:00) UTC of the given date.
func dayWindow(day time.Time) (time.Time, time.Time) {
	day = day.UTC()
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.Add(24 * time.Hour)
}

// Daily returns the summary for one calendar day, serving from cache when
// fresh.
func (s *Service) Daily(ctx context.Context, day time.Time) (DailySummary, error) {
	key := summaryKey(day)
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var cached DailySummary
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	ch := s.group.DoChan(key, func() (any, error) {
		return s.compute(ctx, day)
	})
	select {
	case <-ctx.Done():
		return DailySummary{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return DailySummary{}, res.Err
		}
		return res.Val.(DailySummary), nil
	}
}

// Refresh drops the cached entry and recomputes the summary. Used by the
// warmup job so the first request of the day is already served from cache.
func (s *Service) Refresh(ctx context.Context, day time.Time) (DailySummary, error) {
	if s.cache != nil {
		if err := s.cache.Del(ctx, summaryKey(day)).Err(); err != nil {
			s.logger.Warn("drop cached summary", slog.Any("error", err))
		}
	}
	return s.Daily(ctx, day)
}

func (s *Service) compute(ctx context.Context, day time.Time) (DailySummary, error) {
	from, to := dayWindow(day)
	committed, err := s.sales.ListByRange(ctx, from, to)
	if err != nil {
		return DailySummary{}, err
	}
	summary := Summarize(from, committed)
	if s.cache != nil {
		raw, err := json.Marshal(summary)
		if err == nil {
			if err := s.cache.Set(ctx, summaryKey(day), raw, s.ttl).Err(); err != nil {
				s.logger.Warn("cache daily summary", slog.Any("error", err))
			}
		}
	}
	return summary, nil
}
