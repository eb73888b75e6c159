package tools

import (
	"context"
	"testing"
	"time"

	"github.com/drujensen/wearables/internal/domain/entities"
	"github.com/drujensen/wearables/internal/domain/errors"
	"github.com/drujensen/wearables/internal/impl/database"
	repositoriesSqlite "github.com/drujensen/wearables/internal/impl/repositories/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	db, err := database.NewSQLite(":memory:", 1, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.EnsureSchema(context.Background()))

	fixtures := []string{
		`INSERT INTO users (user_id, name, age, gender, height_cm, weight_kg) VALUES (1, 'John Doe', 32, 'Male', 175, 75)`,
		`INSERT INTO devices (device_id, user_id, device_type, brand, model, purchase_date) VALUES (1, 1, 'Smartwatch', 'Apple', 'Apple Watch Series 9', '2024-01-15')`,
		`INSERT INTO daily_metrics (user_id, date, steps, distance_km, calories_burned, active_minutes) VALUES
			(1, '2024-05-30', 8000, 6.4, 2000, 50),
			(1, '2024-05-31', 12000, 9.6, 2400, 90),
			(1, '2024-06-01', 10234, 8.2, 2100, 75)`,
		`INSERT INTO sleep_data (user_id, date, total_sleep_hours, deep_sleep_hours, light_sleep_hours, rem_sleep_hours, awake_hours, sleep_score) VALUES
			(1, '2024-05-31', 7.0, 1.5, 3.5, 1.8, 0.2, 80),
			(1, '2024-06-01', 8.0, 2.0, 4.0, 1.6, 0.4, 90)`,
		`INSERT INTO heart_rate (user_id, timestamp, heart_rate, resting_heart_rate) VALUES
			(1, '2024-06-01 06:05:00', 70, 58),
			(1, '2024-06-01 08:15:00', 80, 60)`,
		`INSERT INTO activities (user_id, date, activity_type, duration_minutes, calories, average_heart_rate, max_heart_rate, distance_km) VALUES
			(1, '2024-05-20', 'Cycling', 90, 700, 130, 160, 30.5),
			(1, '2024-05-28', 'Running', 30, 300, 140, 170, 5.2),
			(1, '2024-05-31', 'Trail Running', 60, 650, 145, 175, 10.0),
			(1, '2024-06-01', 'Yoga', 45, 200, 100, 120, 0)`,
	}
	for _, stmt := range fixtures {
		_, err := db.DB().Exec(stmt)
		require.NoError(t, err)
	}

	registry, err := NewRegistry(Env{
		Repo:   repositoriesSqlite.NewMetricsRepository(db, zap.NewNop()),
		UserID: 1,
		Now:    func() time.Time { return fixedNow },
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)
	return registry
}

func run(t *testing.T, r *Registry, name string, args map[string]any) string {
	t.Helper()
	out, err := r.Execute(context.Background(), name, args)
	require.NoError(t, err)
	return out
}

func TestRegistrySpecs(t *testing.T) {
	r := newTestRegistry(t)

	var names []string
	for _, spec := range r.Specs() {
		names = append(names, spec.Name)
	}
	assert.Equal(t, []string{
		"daily_steps_tool",
		"sleep_data_tool",
		"heart_rate_tool",
		"activity_history_tool",
		"weekly_summary_tool",
		"device_info_tool",
		"date_range_search_tool",
	}, names)

	for _, spec := range r.Specs() {
		if spec.Name == "date_range_search_tool" {
			assert.Equal(t, []string{"startDate", "endDate"}, spec.RequiredParameters())
		}
	}
}

func TestRegistryUnknownTool(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Execute(context.Background(), "weather_tool", nil)

	var notFound *errors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestRegistryInvalidArgumentType(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Execute(context.Background(), "daily_steps_tool", map[string]any{"days": true})

	var validationErr *errors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestBuildRegistryValidation(t *testing.T) {
	noop := func(ctx context.Context, arguments map[string]any) (string, error) { return "", nil }
	kinds := []ToolKind{DailySteps, SleepData}

	tests := []struct {
		name     string
		specs    map[ToolKind]*entities.ToolSpec
		handlers map[ToolKind]handlerFunc
		message  string
	}{
		{
			name:     "missing handler",
			specs:    map[ToolKind]*entities.ToolSpec{DailySteps: dailyStepsSpec(), SleepData: sleepDataSpec()},
			handlers: map[ToolKind]handlerFunc{DailySteps: noop},
			message:  "has no handler",
		},
		{
			name:     "missing spec",
			specs:    map[ToolKind]*entities.ToolSpec{DailySteps: dailyStepsSpec()},
			handlers: map[ToolKind]handlerFunc{DailySteps: noop, SleepData: noop},
			message:  "has no spec",
		},
		{
			name:     "name mismatch",
			specs:    map[ToolKind]*entities.ToolSpec{DailySteps: dailyStepsSpec(), SleepData: dailyStepsSpec()},
			handlers: map[ToolKind]handlerFunc{DailySteps: noop, SleepData: noop},
			message:  "registered under spec name",
		},
		{
			name:     "extra handler",
			specs:    map[ToolKind]*entities.ToolSpec{DailySteps: dailyStepsSpec(), SleepData: sleepDataSpec()},
			handlers: map[ToolKind]handlerFunc{DailySteps: noop, SleepData: noop, HeartRate: noop},
			message:  "tool handlers registered",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildRegistry(kinds, tt.specs, tt.handlers, zap.NewNop())

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	_, err := buildRegistry([]ToolKind{DailySteps, DailySteps},
		map[ToolKind]*entities.ToolSpec{DailySteps: dailyStepsSpec()},
		map[ToolKind]handlerFunc{DailySteps: noop}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate tool name")
}

func TestToolKindString(t *testing.T) {
	assert.Equal(t, "weekly_summary_tool", WeeklySummary.String())
	assert.Equal(t, "ToolKind(99)", ToolKind(99).String())
}
