package interfaces

import (
	"context"

	"github.com/drujensen/wearables/internal/domain/entities"
)

// MetricsRepository is the read-only view of the wearables database.
// Dates are ISO YYYY-MM-DD strings. Single-row lookups return nil, nil when
// nothing matches.
type MetricsRepository interface {
	GetDailyMetric(ctx context.Context, userID int, date string) (*entities.DailyMetric, error)
	ListRecentDailyMetrics(ctx context.Context, userID, limit int) ([]entities.DailyMetric, error)
	ListDailyMetricsBetween(ctx context.Context, userID int, start, end string) ([]entities.DailyMetric, error)
	SummarizeDailyMetricsSince(ctx context.Context, userID int, since string) (*entities.StepSummary, error)

	GetSleepSession(ctx context.Context, userID int, date string) (*entities.SleepSession, error)
	ListRecentSleepSessions(ctx context.Context, userID, limit int) ([]entities.SleepSession, error)
	ListSleepSessionsBetween(ctx context.Context, userID int, start, end string) ([]entities.SleepSession, error)
	SummarizeSleepSince(ctx context.Context, userID int, since string) (*entities.SleepSummary, error)

	ListHeartRateSamples(ctx context.Context, userID int, date string) ([]entities.HeartRateSample, error)

	ListActivitiesByType(ctx context.Context, userID int, activityType string, limit int) ([]entities.Activity, error)
	ListActivitiesSince(ctx context.Context, userID int, since string) ([]entities.Activity, error)
	SummarizeActivitiesSince(ctx context.Context, userID int, since string) (*entities.ActivitySummary, error)

	GetDeviceProfile(ctx context.Context, userID int) (*entities.DeviceProfile, error)
}
