package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/drujensen/wearables/internal/domain/entities"
)

type sleepDataArgs struct {
	Date string  `json:"date"`
	Days FlexInt `json:"days"`
}

type sleepDataTool struct {
	env Env
}

func newSleepDataTool(env Env) *sleepDataTool {
	return &sleepDataTool{env: env}
}

func sleepDataSpec() *entities.ToolSpec {
	return &entities.ToolSpec{
		Name: SleepData.String(),
		Description: "Get sleep duration, sleep stages (deep, light, REM, awake) and sleep scores. " +
			"Provide a date for one night, or days for the most recent nights.",
		Parameters: []entities.Parameter{
			{Name: "date", Type: "string", Description: "Specific date in YYYY-MM-DD format"},
			{Name: "days", Type: "integer", Description: "Number of recent nights to include", Default: 7},
		},
	}
}

func (t *sleepDataTool) run(ctx context.Context, args sleepDataArgs) (string, error) {
	if args.Date != "" {
		return t.forDate(ctx, args.Date)
	}

	days := args.Days.Or(7)
	rows, err := t.env.Repo.ListRecentSleepSessions(ctx, t.env.UserID, days)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "No sleep data found", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sleep data for the last %d days:\n", days)
	var totalHours float64
	totalScore := 0
	for _, row := range rows {
		fmt.Fprintf(&b, "- %s: %.1fh total (Deep: %.1fh, REM: %.1fh) - Score: %d\n",
			row.Date, row.TotalSleepHours, row.DeepSleepHours, row.RemSleepHours, row.SleepScore)
		totalHours += row.TotalSleepHours
		totalScore += row.SleepScore
	}
	fmt.Fprintf(&b, "\nAverages: %.1fh sleep/night, Score: %d/100",
		totalHours/float64(len(rows)), totalScore/len(rows))
	return b.String(), nil
}

func (t *sleepDataTool) forDate(ctx context.Context, date string) (string, error) {
	if !validDate(date) {
		return invalidDateMessage(date), nil
	}

	row, err := t.env.Repo.GetSleepSession(ctx, t.env.UserID, date)
	if err != nil {
		return "", err
	}
	if row == nil {
		return fmt.Sprintf("No sleep data found for %s", date), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sleep data for %s:\n", row.Date)
	fmt.Fprintf(&b, "- Total sleep: %.1f hours\n", row.TotalSleepHours)
	fmt.Fprintf(&b, "- Deep sleep: %.1f hours\n", row.DeepSleepHours)
	fmt.Fprintf(&b, "- Light sleep: %.1f hours\n", row.LightSleepHours)
	fmt.Fprintf(&b, "- REM sleep: %.1f hours\n", row.RemSleepHours)
	fmt.Fprintf(&b, "- Awake time: %.1f hours\n", row.AwakeHours)
	fmt.Fprintf(&b, "- Sleep score: %d/100", row.SleepScore)
	return b.String(), nil
}
