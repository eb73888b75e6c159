package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/drujensen/wearables/internal/domain/entities"
)

// maxReadings is how many individual samples are listed per day.
const maxReadings = 8

type heartRateArgs struct {
	Date string `json:"date"`
}

type heartRateTool struct {
	env Env
}

func newHeartRateTool(env Env) *heartRateTool {
	return &heartRateTool{env: env}
}

func heartRateSpec() *entities.ToolSpec {
	return &entities.ToolSpec{
		Name: HeartRate.String(),
		Description: "Get heart rate readings for a day: resting, average, maximum and minimum heart rate " +
			"plus readings throughout the day. Defaults to today.",
		Parameters: []entities.Parameter{
			{Name: "date", Type: "string", Description: "Specific date in YYYY-MM-DD format, defaults to today"},
		},
	}
}

func (t *heartRateTool) run(ctx context.Context, args heartRateArgs) (string, error) {
	date := args.Date
	if date == "" {
		date = t.env.Now().Format(dateLayout)
	}
	if !validDate(date) {
		return invalidDateMessage(date), nil
	}

	samples, err := t.env.Repo.ListHeartRateSamples(ctx, t.env.UserID, date)
	if err != nil {
		return "", err
	}
	if len(samples) == 0 {
		return fmt.Sprintf("No heart rate data found for %s", date), nil
	}

	sum, maxHR, minHR := 0, samples[0].HeartRate, samples[0].HeartRate
	for _, s := range samples {
		sum += s.HeartRate
		maxHR = max(maxHR, s.HeartRate)
		minHR = min(minHR, s.HeartRate)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Heart rate data for %s:\n", date)
	fmt.Fprintf(&b, "- Resting heart rate: %d bpm\n", samples[0].RestingHeartRate)
	fmt.Fprintf(&b, "- Average: %d bpm\n", sum/len(samples))
	fmt.Fprintf(&b, "- Max: %d bpm\n", maxHR)
	fmt.Fprintf(&b, "- Min: %d bpm\n", minHR)
	b.WriteString("\nReadings throughout the day:\n")
	for _, s := range samples[:min(maxReadings, len(samples))] {
		fmt.Fprintf(&b, "  %s: %d bpm\n", clockTime(s.Timestamp), s.HeartRate)
	}
	return b.String(), nil
}

// clockTime extracts HH:MM from "YYYY-MM-DD HH:MM:SS" or an RFC 3339 stamp.
func clockTime(timestamp string) string {
	if i := strings.IndexAny(timestamp, " T"); i >= 0 {
		timestamp = timestamp[i+1:]
	}
	if len(timestamp) > 5 {
		timestamp = timestamp[:5]
	}
	return timestamp
}
