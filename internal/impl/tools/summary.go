package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/drujensen/wearables/internal/domain/entities"

	"github.com/dustin/go-humanize"
)

const summaryWindowDays = 7

type weeklySummaryArgs struct{}

type weeklySummaryTool struct {
	env Env
}

func newWeeklySummaryTool(env Env) *weeklySummaryTool {
	return &weeklySummaryTool{env: env}
}

func weeklySummarySpec() *entities.ToolSpec {
	return &entities.ToolSpec{
		Name: WeeklySummary.String(),
		Description: "Get a summary of the last 7 days covering steps, calories, active time, " +
			"sleep and workouts. Use it for weekly overviews or general progress questions.",
		Parameters: []entities.Parameter{},
	}
}

func (t *weeklySummaryTool) run(ctx context.Context, _ weeklySummaryArgs) (string, error) {
	since := daysBefore(t.env.Now(), summaryWindowDays)

	steps, err := t.env.Repo.SummarizeDailyMetricsSince(ctx, t.env.UserID, since)
	if err != nil {
		return "", err
	}
	sleep, err := t.env.Repo.SummarizeSleepSince(ctx, t.env.UserID, since)
	if err != nil {
		return "", err
	}
	workouts, err := t.env.Repo.SummarizeActivitiesSince(ctx, t.env.UserID, since)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("📊 WEEKLY SUMMARY (Last 7 Days)\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	b.WriteString("🚶 ACTIVITY:\n")
	if steps != nil && nonZero(steps.AverageSteps) {
		fmt.Fprintf(&b, "  • Average steps: %s steps/day\n", humanize.Comma(int64(*steps.AverageSteps)))
		fmt.Fprintf(&b, "  • Total steps: %s steps\n", humanize.Comma(int64(deref(steps.TotalSteps))))
		fmt.Fprintf(&b, "  • Average calories: %d cal/day\n", int(deref(steps.AverageCalories)))
		fmt.Fprintf(&b, "  • Average active time: %d min/day\n\n", int(deref(steps.AverageActiveMinutes)))
	}

	b.WriteString("😴 SLEEP:\n")
	if sleep != nil && nonZero(sleep.AverageTotalHours) {
		fmt.Fprintf(&b, "  • Average sleep: %.1f hours/night\n", *sleep.AverageTotalHours)
		fmt.Fprintf(&b, "  • Average deep sleep: %.1f hours\n", deref(sleep.AverageDeepHours))
		fmt.Fprintf(&b, "  • Average REM sleep: %.1f hours\n", deref(sleep.AverageRemHours))
		fmt.Fprintf(&b, "  • Average sleep score: %d/100\n\n", int(deref(sleep.AverageScore)))
	}

	b.WriteString("💪 WORKOUTS:\n")
	if workouts != nil && workouts.Count > 0 {
		fmt.Fprintf(&b, "  • Total workouts: %d\n", workouts.Count)
		fmt.Fprintf(&b, "  • Total workout time: %d minutes\n", workouts.TotalMinutes)
		fmt.Fprintf(&b, "  • Total calories burned: %d\n", workouts.TotalCalories)
	} else {
		b.WriteString("  • No recorded workouts this week\n")
	}

	return b.String(), nil
}

func nonZero(v *float64) bool {
	return v != nil && *v != 0
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
