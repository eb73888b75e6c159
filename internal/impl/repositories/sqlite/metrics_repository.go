package repositories_sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/drujensen/wearables/internal/domain/entities"
	"github.com/drujensen/wearables/internal/domain/errors"
	"github.com/drujensen/wearables/internal/domain/interfaces"
	"github.com/drujensen/wearables/internal/impl/database"

	"go.uber.org/zap"
)

const (
	dailyColumns    = `date, COALESCE(steps, 0), COALESCE(distance_km, 0), COALESCE(calories_burned, 0), COALESCE(active_minutes, 0)`
	sleepColumns    = `date, COALESCE(total_sleep_hours, 0), COALESCE(deep_sleep_hours, 0), COALESCE(light_sleep_hours, 0), COALESCE(rem_sleep_hours, 0), COALESCE(awake_hours, 0), COALESCE(sleep_score, 0)`
	activityColumns = `date, activity_type, COALESCE(duration_minutes, 0), COALESCE(calories, 0), COALESCE(average_heart_rate, 0), COALESCE(max_heart_rate, 0), COALESCE(distance_km, 0)`
)

type scanner interface {
	Scan(dest ...any) error
}

type MetricsRepository struct {
	db     *database.SQLite
	logger *zap.Logger
}

func NewMetricsRepository(db *database.SQLite, logger *zap.Logger) *MetricsRepository {
	return &MetricsRepository{db: db, logger: logger}
}

func (r *MetricsRepository) GetDailyMetric(ctx context.Context, userID int, date string) (*entities.DailyMetric, error) {
	var metric *entities.DailyMetric
	err := r.db.ReadOnly(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+dailyColumns+` FROM daily_metrics WHERE user_id = ? AND date = ? LIMIT 1`, userID, date)
		m, err := scanDaily(row)
		if err != nil {
			return err
		}
		metric = &m
		return nil
	})
	return metric, r.single("daily_metrics", err)
}

func (r *MetricsRepository) ListRecentDailyMetrics(ctx context.Context, userID, limit int) ([]entities.DailyMetric, error) {
	return r.listDaily(ctx, `SELECT `+dailyColumns+` FROM daily_metrics WHERE user_id = ? ORDER BY date DESC LIMIT ?`, userID, limit)
}

func (r *MetricsRepository) ListDailyMetricsBetween(ctx context.Context, userID int, start, end string) ([]entities.DailyMetric, error) {
	return r.listDaily(ctx, `SELECT `+dailyColumns+` FROM daily_metrics WHERE user_id = ? AND date BETWEEN ? AND ? ORDER BY date`, userID, start, end)
}

func (r *MetricsRepository) SummarizeDailyMetricsSince(ctx context.Context, userID int, since string) (*entities.StepSummary, error) {
	var avgSteps, totalSteps, avgCalories, avgActive sql.NullFloat64
	err := r.db.ReadOnly(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx,
			`SELECT AVG(steps), SUM(steps), AVG(calories_burned), AVG(active_minutes) FROM daily_metrics WHERE user_id = ? AND date >= ?`,
			userID, since).Scan(&avgSteps, &totalSteps, &avgCalories, &avgActive)
	})
	if err != nil {
		return nil, r.fault("daily_metrics", err)
	}
	return &entities.StepSummary{
		AverageSteps:         nullable(avgSteps),
		TotalSteps:           nullable(totalSteps),
		AverageCalories:      nullable(avgCalories),
		AverageActiveMinutes: nullable(avgActive),
	}, nil
}

func (r *MetricsRepository) GetSleepSession(ctx context.Context, userID int, date string) (*entities.SleepSession, error) {
	var session *entities.SleepSession
	err := r.db.ReadOnly(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+sleepColumns+` FROM sleep_data WHERE user_id = ? AND date = ? LIMIT 1`, userID, date)
		s, err := scanSleep(row)
		if err != nil {
			return err
		}
		session = &s
		return nil
	})
	return session, r.single("sleep_data", err)
}

func (r *MetricsRepository) ListRecentSleepSessions(ctx context.Context, userID, limit int) ([]entities.SleepSession, error) {
	return r.listSleep(ctx, `SELECT `+sleepColumns+` FROM sleep_data WHERE user_id = ? ORDER BY date DESC LIMIT ?`, userID, limit)
}

func (r *MetricsRepository) ListSleepSessionsBetween(ctx context.Context, userID int, start, end string) ([]entities.SleepSession, error) {
	return r.listSleep(ctx, `SELECT `+sleepColumns+` FROM sleep_data WHERE user_id = ? AND date BETWEEN ? AND ? ORDER BY date`, userID, start, end)
}

func (r *MetricsRepository) SummarizeSleepSince(ctx context.Context, userID int, since string) (*entities.SleepSummary, error) {
	var avgTotal, avgDeep, avgRem, avgScore sql.NullFloat64
	err := r.db.ReadOnly(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx,
			`SELECT AVG(total_sleep_hours), AVG(deep_sleep_hours), AVG(rem_sleep_hours), AVG(sleep_score) FROM sleep_data WHERE user_id = ? AND date >= ?`,
			userID, since).Scan(&avgTotal, &avgDeep, &avgRem, &avgScore)
	})
	if err != nil {
		return nil, r.fault("sleep_data", err)
	}
	return &entities.SleepSummary{
		AverageTotalHours: nullable(avgTotal),
		AverageDeepHours:  nullable(avgDeep),
		AverageRemHours:   nullable(avgRem),
		AverageScore:      nullable(avgScore),
	}, nil
}

func (r *MetricsRepository) ListHeartRateSamples(ctx context.Context, userID int, date string) ([]entities.HeartRateSample, error) {
	var samples []entities.HeartRateSample
	err := r.db.ReadOnly(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT timestamp, COALESCE(heart_rate, 0), COALESCE(resting_heart_rate, 0) FROM heart_rate WHERE user_id = ? AND date(timestamp) = ? ORDER BY timestamp`,
			userID, date)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var s entities.HeartRateSample
			if err := rows.Scan(&s.Timestamp, &s.HeartRate, &s.RestingHeartRate); err != nil {
				return err
			}
			samples = append(samples, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, r.fault("heart_rate", err)
	}
	return samples, nil
}

// ListActivitiesByType matches activityType as a case-insensitive substring.
func (r *MetricsRepository) ListActivitiesByType(ctx context.Context, userID int, activityType string, limit int) ([]entities.Activity, error) {
	pattern := "%" + escapeLike(activityType) + "%"
	return r.listActivities(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE user_id = ? AND activity_type LIKE ? ESCAPE '\' ORDER BY date DESC LIMIT ?`,
		userID, pattern, limit)
}

func (r *MetricsRepository) ListActivitiesSince(ctx context.Context, userID int, since string) ([]entities.Activity, error) {
	return r.listActivities(ctx, `SELECT `+activityColumns+` FROM activities WHERE user_id = ? AND date >= ? ORDER BY date DESC`, userID, since)
}

func (r *MetricsRepository) SummarizeActivitiesSince(ctx context.Context, userID int, since string) (*entities.ActivitySummary, error) {
	var summary entities.ActivitySummary
	err := r.db.ReadOnly(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx,
			`SELECT COUNT(*), COALESCE(SUM(duration_minutes), 0), COALESCE(SUM(calories), 0) FROM activities WHERE user_id = ? AND date >= ?`,
			userID, since).Scan(&summary.Count, &summary.TotalMinutes, &summary.TotalCalories)
	})
	if err != nil {
		return nil, r.fault("activities", err)
	}
	return &summary, nil
}

func (r *MetricsRepository) GetDeviceProfile(ctx context.Context, userID int) (*entities.DeviceProfile, error) {
	var profile *entities.DeviceProfile
	err := r.db.ReadOnly(ctx, func(tx *sql.Tx) error {
		var p entities.DeviceProfile
		err := tx.QueryRowContext(ctx, `
			SELECT d.device_type, d.brand, d.model, COALESCE(d.purchase_date, ''),
			       u.name, COALESCE(u.age, 0), COALESCE(u.gender, ''), COALESCE(u.height_cm, 0), COALESCE(u.weight_kg, 0)
			FROM devices d
			JOIN users u ON d.user_id = u.user_id
			WHERE d.user_id = ?
			LIMIT 1`, userID).Scan(
			&p.DeviceType, &p.Brand, &p.Model, &p.PurchaseDate,
			&p.UserName, &p.Age, &p.Gender, &p.HeightCm, &p.WeightKg)
		if err != nil {
			return err
		}
		profile = &p
		return nil
	})
	return profile, r.single("devices", err)
}

func (r *MetricsRepository) listDaily(ctx context.Context, query string, args ...any) ([]entities.DailyMetric, error) {
	var metrics []entities.DailyMetric
	err := r.db.ReadOnly(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			m, err := scanDaily(rows)
			if err != nil {
				return err
			}
			metrics = append(metrics, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, r.fault("daily_metrics", err)
	}
	return metrics, nil
}

func (r *MetricsRepository) listSleep(ctx context.Context, query string, args ...any) ([]entities.SleepSession, error) {
	var sessions []entities.SleepSession
	err := r.db.ReadOnly(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			s, err := scanSleep(rows)
			if err != nil {
				return err
			}
			sessions = append(sessions, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, r.fault("sleep_data", err)
	}
	return sessions, nil
}

func (r *MetricsRepository) listActivities(ctx context.Context, query string, args ...any) ([]entities.Activity, error) {
	var activities []entities.Activity
	err := r.db.ReadOnly(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var a entities.Activity
			if err := rows.Scan(&a.Date, &a.ActivityType, &a.DurationMinutes, &a.Calories,
				&a.AverageHeartRate, &a.MaxHeartRate, &a.DistanceKm); err != nil {
				return err
			}
			activities = append(activities, a)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, r.fault("activities", err)
	}
	return activities, nil
}

// single maps a missing row to nil, nil.
func (r *MetricsRepository) single(table string, err error) error {
	if err == nil || stderrors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return r.fault(table, err)
}

func (r *MetricsRepository) fault(table string, err error) error {
	r.logger.Error("Metrics query failed", zap.String("table", table), zap.Error(err))
	return errors.WrapInternal(err, "failed to query %s", table)
}

func scanDaily(row scanner) (entities.DailyMetric, error) {
	var m entities.DailyMetric
	err := row.Scan(&m.Date, &m.Steps, &m.DistanceKm, &m.CaloriesBurned, &m.ActiveMinutes)
	return m, err
}

func scanSleep(row scanner) (entities.SleepSession, error) {
	var s entities.SleepSession
	err := row.Scan(&s.Date, &s.TotalSleepHours, &s.DeepSleepHours, &s.LightSleepHours,
		&s.RemSleepHours, &s.AwakeHours, &s.SleepScore)
	return s, err
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

var _ interfaces.MetricsRepository = (*MetricsRepository)(nil)
