// Package jobs wires Asynq background processing for the shop.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/gallery-essence/essence-pos/internal/catalog"
	"github.com/gallery-essence/essence-pos/internal/reports"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSummaryWarm precomputes the daily summary cache.
	TaskTypeSummaryWarm = "reports:warm_daily"
	// TaskTypeRecipeCostRefresh recomputes recipe estimated costs.
	TaskTypeRecipeCostRefresh = "catalog:refresh_costs"
)

// SummaryWarmPayload names the day to warm; empty means today (UTC).
type SummaryWarmPayload struct {
	Date string `json:"date,omitempty"`
}

// NewSummaryWarmTask constructs a summary warmup task.
func NewSummaryWarmTask(payload SummaryWarmPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSummaryWarm, data, asynq.Queue(QueueDefault)), nil
}

// NewSummaryWarmHandler returns the handler for TaskTypeSummaryWarm.
func NewSummaryWarmHandler(service *reports.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SummaryWarmPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		day := time.Now().UTC()
		if payload.Date != "" {
			parsed, err := time.Parse("2006-01-02", payload.Date)
			if err != nil {
				return asynq.SkipRetry
			}
			day = parsed.UTC()
		}
		summary, err := service.Refresh(ctx, day)
		if err != nil {
			return err
		}
		logger.Info("daily summary warmed",
			slog.String("date", summary.Date),
			slog.Int("sales_count", summary.SalesCount))
		return nil
	}
}

// RecipeCostRefreshPayload carries scheduling metadata.
type RecipeCostRefreshPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewRecipeCostRefreshTask constructs a recipe cost refresh task.
func NewRecipeCostRefreshTask(at time.Time) (*asynq.Task, error) {
	data, err := json.Marshal(RecipeCostRefreshPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeRecipeCostRefresh, data, asynq.Queue(QueueDefault)), nil
}

// NewRecipeCostRefreshHandler returns the handler for TaskTypeRecipeCostRefresh.
func NewRecipeCostRefreshHandler(service *catalog.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload RecipeCostRefreshPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		updated, err := service.RefreshEstimatedCosts(ctx)
		if err != nil {
			return err
		}
		logger.Info("recipe costs refreshed", slog.Int("updated", updated))
		return nil
	}
}
