package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// FlexInt decodes from a JSON number or a numeric string. Models tend to
// send "7" as often as 7.
type FlexInt struct {
	Value int
	Set   bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
		if raw == "" {
			return nil
		}
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("expected an integer, got %s", string(data))
	}
	f.Value = int(n)
	f.Set = true
	return nil
}

// Or returns the decoded value, or def when absent or not positive.
func (f FlexInt) Or(def int) int {
	if !f.Set || f.Value < 1 {
		return def
	}
	return f.Value
}

// decodeArgs maps the model's loose argument object onto a typed struct.
func decodeArgs[T any](arguments map[string]any) (T, error) {
	var args T
	if len(arguments) == 0 {
		return args, nil
	}
	data, err := json.Marshal(arguments)
	if err != nil {
		return args, fmt.Errorf("failed to encode arguments: %w", err)
	}
	if err := json.Unmarshal(data, &args); err != nil {
		return args, fmt.Errorf("failed to parse arguments: %w", err)
	}
	return args, nil
}

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func invalidDateMessage(s string) string {
	return fmt.Sprintf("Invalid date '%s'. Please use the YYYY-MM-DD format.", s)
}

// daysBefore formats the UTC date n days before now, matching the
// calendar SQLite's date('now') uses.
func daysBefore(now time.Time, n int) string {
	return now.UTC().AddDate(0, 0, -n).Format(dateLayout)
}

// formatDecimal prints a float the way it is stored, keeping at least one
// fractional digit.
func formatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
