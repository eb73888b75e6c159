package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/drujensen/wearables/internal/domain/entities"
)

// maxActivitiesByType caps a filtered activity listing.
const maxActivitiesByType = 20

type activityHistoryArgs struct {
	Days         FlexInt `json:"days"`
	ActivityType string  `json:"activityType"`
}

type activityHistoryTool struct {
	env Env
}

func newActivityHistoryTool(env Env) *activityHistoryTool {
	return &activityHistoryTool{env: env}
}

func activityHistorySpec() *entities.ToolSpec {
	return &entities.ToolSpec{
		Name: ActivityHistory.String(),
		Description: "Get workout and exercise history with duration, calories, heart rate and distance. " +
			"Optionally filter by activity type such as Running, Cycling, Swimming, Yoga or Strength Training.",
		Parameters: []entities.Parameter{
			{Name: "days", Type: "integer", Description: "Number of days to look back", Default: 14},
			{Name: "activityType", Type: "string", Description: "Filter by activity type, e.g. Running or Cycling"},
		},
	}
}

func (t *activityHistoryTool) run(ctx context.Context, args activityHistoryArgs) (string, error) {
	days := args.Days.Or(14)
	activityType := strings.TrimSpace(args.ActivityType)

	var rows []entities.Activity
	var err error
	if activityType != "" {
		rows, err = t.env.Repo.ListActivitiesByType(ctx, t.env.UserID, activityType, maxActivitiesByType)
	} else {
		rows, err = t.env.Repo.ListActivitiesSince(ctx, t.env.UserID, daysBefore(t.env.Now(), days))
	}
	if err != nil {
		return "", err
	}

	if len(rows) == 0 {
		if activityType != "" {
			return fmt.Sprintf("No activities found for %s", activityType), nil
		}
		return "No activities found", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Activity history (last %d days):\n\n", days)
	totalMinutes, totalCalories := 0, 0
	for _, row := range rows {
		distance := ""
		if row.DistanceKm > 0 {
			distance = fmt.Sprintf(", %s km", formatDecimal(row.DistanceKm))
		}
		fmt.Fprintf(&b, "- %s: %s\n", row.Date, row.ActivityType)
		fmt.Fprintf(&b, "  Duration: %d min, Calories: %d, Avg HR: %d bpm, Max HR: %d bpm%s\n",
			row.DurationMinutes, row.Calories, row.AverageHeartRate, row.MaxHeartRate, distance)
		totalMinutes += row.DurationMinutes
		totalCalories += row.Calories
	}
	fmt.Fprintf(&b, "\nTotal: %d activities, %d minutes, %d calories", len(rows), totalMinutes, totalCalories)
	return b.String(), nil
}
