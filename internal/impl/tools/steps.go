package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/drujensen/wearables/internal/domain/entities"

	"github.com/dustin/go-humanize"
)

type dailyStepsArgs struct {
	Date string  `json:"date"`
	Days FlexInt `json:"days"`
}

type dailyStepsTool struct {
	env Env
}

func newDailyStepsTool(env Env) *dailyStepsTool {
	return &dailyStepsTool{env: env}
}

func dailyStepsSpec() *entities.ToolSpec {
	return &entities.ToolSpec{
		Name: DailySteps.String(),
		Description: "Get daily step counts, distance, calories burned and active minutes. " +
			"Use it for questions about steps, walking, distance or daily activity levels. " +
			"Provide a date for one specific day, or days for the most recent days.",
		Parameters: []entities.Parameter{
			{Name: "date", Type: "string", Description: "Specific date in YYYY-MM-DD format"},
			{Name: "days", Type: "integer", Description: "Number of recent days to include", Default: 7},
		},
	}
}

func (t *dailyStepsTool) run(ctx context.Context, args dailyStepsArgs) (string, error) {
	if args.Date != "" {
		return t.forDate(ctx, args.Date)
	}

	days := args.Days.Or(7)
	rows, err := t.env.Repo.ListRecentDailyMetrics(ctx, t.env.UserID, days)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "No step data found", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Step data for the last %d days:\n", days)
	total := 0
	for _, row := range rows {
		fmt.Fprintf(&b, "- %s: %s steps, %s km, %d calories, %d active min\n",
			row.Date, humanize.Comma(int64(row.Steps)), formatDecimal(row.DistanceKm), row.CaloriesBurned, row.ActiveMinutes)
		total += row.Steps
	}
	fmt.Fprintf(&b, "\nAverage: %s steps/day", humanize.Comma(int64(total/len(rows))))
	return b.String(), nil
}

func (t *dailyStepsTool) forDate(ctx context.Context, date string) (string, error) {
	if !validDate(date) {
		return invalidDateMessage(date), nil
	}

	row, err := t.env.Repo.GetDailyMetric(ctx, t.env.UserID, date)
	if err != nil {
		return "", err
	}
	if row == nil {
		return fmt.Sprintf("No data found for %s", date), nil
	}

	return fmt.Sprintf("On %s: %s steps, %s km distance, %d calories burned, %d active minutes",
		row.Date, humanize.Comma(int64(row.Steps)), formatDecimal(row.DistanceKm), row.CaloriesBurned, row.ActiveMinutes), nil
}
