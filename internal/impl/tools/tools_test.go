package tools

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDailyStepsForDate(t *testing.T) {
	r := newTestRegistry(t)

	out := run(t, r, "daily_steps_tool", map[string]any{"date": "2024-06-01"})

	assert.Contains(t, out, "10,234 steps")
	assert.Contains(t, out, "8.2 km")
	assert.Contains(t, out, "2100 calories")
	assert.Contains(t, out, "75 active minutes")
}

func TestDailyStepsRecentDays(t *testing.T) {
	r := newTestRegistry(t)

	out := run(t, r, "daily_steps_tool", map[string]any{"days": "2"})

	assert.True(t, strings.HasPrefix(out, "Step data for the last 2 days:\n"))
	assert.Contains(t, out, "- 2024-06-01: 10,234 steps, 8.2 km, 2100 calories, 75 active min")
	assert.Contains(t, out, "- 2024-05-31: 12,000 steps, 9.6 km, 2400 calories, 90 active min")
	assert.NotContains(t, out, "2024-05-30")
	assert.Contains(t, out, "Average: 11,117 steps/day")
}

func TestDailyStepsMessages(t *testing.T) {
	r := newTestRegistry(t)

	assert.Equal(t, "No data found for 2023-01-01", run(t, r, "daily_steps_tool", map[string]any{"date": "2023-01-01"}))
	assert.Contains(t, run(t, r, "daily_steps_tool", map[string]any{"date": "June 1st"}), "Invalid date 'June 1st'")
}

func TestSleepData(t *testing.T) {
	r := newTestRegistry(t)

	exact := run(t, r, "sleep_data_tool", map[string]any{"date": "2024-06-01"})
	assert.Contains(t, exact, "Sleep data for 2024-06-01:")
	assert.Contains(t, exact, "- Total sleep: 8.0 hours")
	assert.Contains(t, exact, "- Light sleep: 4.0 hours")
	assert.Contains(t, exact, "- Sleep score: 90/100")

	recent := run(t, r, "sleep_data_tool", nil)
	assert.Contains(t, recent, "Sleep data for the last 7 days:")
	assert.Contains(t, recent, "- 2024-05-31: 7.0h total (Deep: 1.5h, REM: 1.8h) - Score: 80")
	assert.Contains(t, recent, "Averages: 7.5h sleep/night, Score: 85/100")

	assert.Equal(t, "No sleep data found for 2024-01-01", run(t, r, "sleep_data_tool", map[string]any{"date": "2024-01-01"}))
}

func TestHeartRateDefaultsToToday(t *testing.T) {
	r := newTestRegistry(t)

	out := run(t, r, "heart_rate_tool", nil)

	assert.Contains(t, out, "Heart rate data for 2024-06-01:")
	assert.Contains(t, out, "- Resting heart rate: 58 bpm")
	assert.Contains(t, out, "- Average: 75 bpm")
	assert.Contains(t, out, "- Max: 80 bpm")
	assert.Contains(t, out, "- Min: 70 bpm")
	assert.Contains(t, out, "  06:05: 70 bpm\n  08:15: 80 bpm\n")

	assert.Equal(t, "No heart rate data found for 2024-05-01", run(t, r, "heart_rate_tool", map[string]any{"date": "2024-05-01"}))
}

func TestActivityHistory(t *testing.T) {
	r := newTestRegistry(t)

	window := run(t, r, "activity_history_tool", map[string]any{"days": 5})
	assert.Contains(t, window, "Activity history (last 5 days):")
	assert.Contains(t, window, "- 2024-05-31: Trail Running\n  Duration: 60 min, Calories: 650, Avg HR: 145 bpm, Max HR: 175 bpm, 10.0 km")
	assert.Contains(t, window, "Max HR: 120 bpm\n")
	assert.NotContains(t, window, "Cycling")
	assert.Contains(t, window, "Total: 3 activities, 135 minutes, 1150 calories")

	byType := run(t, r, "activity_history_tool", map[string]any{"activityType": "running"})
	assert.Contains(t, byType, "Trail Running")
	assert.Contains(t, byType, "- 2024-05-28: Running")
	assert.Contains(t, byType, "Total: 2 activities, 90 minutes, 950 calories")

	assert.Equal(t, "No activities found for Swimming", run(t, r, "activity_history_tool", map[string]any{"activityType": "Swimming"}))
}

func TestWeeklySummary(t *testing.T) {
	r := newTestRegistry(t)

	out := run(t, r, "weekly_summary_tool", nil)

	assert.Contains(t, out, "WEEKLY SUMMARY (Last 7 Days)")
	assert.Contains(t, out, "Average steps: 10,078 steps/day")
	assert.Contains(t, out, "Total steps: 30,234 steps")
	assert.Contains(t, out, "Average sleep: 7.5 hours/night")
	assert.Contains(t, out, "Total workouts: 3")
	assert.Contains(t, out, "Total workout time: 135 minutes")
	assert.NotContains(t, out, "No recorded workouts")
}

func TestDeviceInfo(t *testing.T) {
	r := newTestRegistry(t)

	out := run(t, r, "device_info_tool", nil)

	assert.Contains(t, out, "User: John Doe (32 years old, Male)")
	assert.Contains(t, out, "Height: 175.0 cm, Weight: 75.0 kg")
	assert.Contains(t, out, "Model: Apple Watch Series 9")
	assert.Contains(t, out, "Purchase Date: 2024-01-15")
}

func TestDateRangeSearch(t *testing.T) {
	r := newTestRegistry(t)

	steps := run(t, r, "date_range_search_tool", map[string]any{"startDate": "2024-05-30", "endDate": "2024-05-31"})
	assert.Contains(t, steps, "Steps data from 2024-05-30 to 2024-05-31:")
	assert.Contains(t, steps, "- 2024-05-30: 8,000 steps, 6.4 km, 2000 cal")
	assert.Contains(t, steps, "Total steps: 20,000")

	sleep := run(t, r, "date_range_search_tool", map[string]any{"startDate": "2024-05-31", "endDate": "2024-06-01", "metricType": "Sleep"})
	assert.Contains(t, sleep, "- 2024-06-01: 8.0 hours, Score: 90/100")

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"empty sleep range", map[string]any{"startDate": "2020-01-01", "endDate": "2020-01-31", "metricType": "sleep"}, "No sleep data found for the specified date range"},
		{"missing bound", map[string]any{"startDate": "2024-05-30"}, "Both startDate and endDate are required (YYYY-MM-DD)."},
		{"invalid bound", map[string]any{"startDate": "2024-05-30", "endDate": "2024-13-01"}, "Invalid date '2024-13-01'. Please use the YYYY-MM-DD format."},
		{"unknown metric", map[string]any{"startDate": "2024-05-30", "endDate": "2024-05-31", "metricType": "calories"}, "Unsupported metric type 'calories'. Supported types: steps, sleep."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(t, r, "date_range_search_tool", tt.args))
		})
	}
}
