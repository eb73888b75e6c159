package entities

// DailyMetric is one row of daily_metrics.
type DailyMetric struct {
	Date           string
	Steps          int
	DistanceKm     float64
	CaloriesBurned int
	ActiveMinutes  int
}

// SleepSession is one night of sleep_data.
type SleepSession struct {
	Date            string
	TotalSleepHours float64
	DeepSleepHours  float64
	LightSleepHours float64
	RemSleepHours   float64
	AwakeHours      float64
	SleepScore      int
}

type HeartRateSample struct {
	Timestamp        string
	HeartRate        int
	RestingHeartRate int
}

type Activity struct {
	Date             string
	ActivityType     string
	DurationMinutes  int
	Calories         int
	AverageHeartRate int
	MaxHeartRate     int
	DistanceKm       float64
}

// DeviceProfile is a device joined with its owner.
type DeviceProfile struct {
	DeviceType   string
	Brand        string
	Model        string
	PurchaseDate string
	UserName     string
	Age          int
	Gender       string
	HeightCm     float64
	WeightKg     float64
}

// StepSummary aggregates daily_metrics. Nil averages mean no rows matched.
type StepSummary struct {
	AverageSteps         *float64
	TotalSteps           *float64
	AverageCalories      *float64
	AverageActiveMinutes *float64
}

type SleepSummary struct {
	AverageTotalHours *float64
	AverageDeepHours  *float64
	AverageRemHours   *float64
	AverageScore      *float64
}

type ActivitySummary struct {
	Count         int
	TotalMinutes  int
	TotalCalories int
}
