package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/drujensen/wearables/internal/domain/entities"

	"github.com/dustin/go-humanize"
)

type dateRangeArgs struct {
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	MetricType string `json:"metricType"`
}

type dateRangeTool struct {
	env Env
}

func newDateRangeTool(env Env) *dateRangeTool {
	return &dateRangeTool{env: env}
}

func dateRangeSpec() *entities.ToolSpec {
	return &entities.ToolSpec{
		Name: DateRangeSearch.String(),
		Description: "Search steps or sleep data between two dates, inclusive. " +
			"Use it when the user asks about a specific period.",
		Parameters: []entities.Parameter{
			{Name: "startDate", Type: "string", Description: "Start date in YYYY-MM-DD format", Required: true},
			{Name: "endDate", Type: "string", Description: "End date in YYYY-MM-DD format", Required: true},
			{Name: "metricType", Type: "string", Description: "Metric to search", Default: "steps", Enum: []string{"steps", "sleep"}},
		},
	}
}

func (t *dateRangeTool) run(ctx context.Context, args dateRangeArgs) (string, error) {
	start, end := strings.TrimSpace(args.StartDate), strings.TrimSpace(args.EndDate)
	if start == "" || end == "" {
		return "Both startDate and endDate are required (YYYY-MM-DD).", nil
	}
	for _, d := range []string{start, end} {
		if !validDate(d) {
			return invalidDateMessage(d), nil
		}
	}

	metric := strings.ToLower(strings.TrimSpace(args.MetricType))
	if metric == "" {
		metric = "steps"
	}

	switch metric {
	case "steps":
		rows, err := t.env.Repo.ListDailyMetricsBetween(ctx, t.env.UserID, start, end)
		if err != nil {
			return "", err
		}
		if len(rows) == 0 {
			break
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Steps data from %s to %s:\n", start, end)
		total := 0
		for _, row := range rows {
			fmt.Fprintf(&b, "- %s: %s steps, %s km, %d cal\n",
				row.Date, humanize.Comma(int64(row.Steps)), formatDecimal(row.DistanceKm), row.CaloriesBurned)
			total += row.Steps
		}
		fmt.Fprintf(&b, "\nTotal steps: %s", humanize.Comma(int64(total)))
		return b.String(), nil

	case "sleep":
		rows, err := t.env.Repo.ListSleepSessionsBetween(ctx, t.env.UserID, start, end)
		if err != nil {
			return "", err
		}
		if len(rows) == 0 {
			break
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Sleep data from %s to %s:\n", start, end)
		for _, row := range rows {
			fmt.Fprintf(&b, "- %s: %.1f hours, Score: %d/100\n", row.Date, row.TotalSleepHours, row.SleepScore)
		}
		return b.String(), nil

	default:
		return fmt.Sprintf("Unsupported metric type '%s'. Supported types: steps, sleep.", args.MetricType), nil
	}

	return fmt.Sprintf("No %s data found for the specified date range", metric), nil
}
