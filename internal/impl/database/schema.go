package database

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		age INTEGER,
		gender TEXT,
		height_cm REAL,
		weight_kg REAL
	)`,
	`CREATE TABLE IF NOT EXISTS devices (
		device_id INTEGER PRIMARY KEY,
		user_id INTEGER,
		device_type TEXT NOT NULL,
		brand TEXT NOT NULL,
		model TEXT NOT NULL,
		purchase_date TEXT,
		FOREIGN KEY (user_id) REFERENCES users(user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS daily_metrics (
		metric_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER,
		date TEXT NOT NULL,
		steps INTEGER,
		distance_km REAL,
		calories_burned INTEGER,
		active_minutes INTEGER,
		floors_climbed INTEGER,
		FOREIGN KEY (user_id) REFERENCES users(user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_metrics_user_date ON daily_metrics(user_id, date)`,
	`CREATE TABLE IF NOT EXISTS heart_rate (
		hr_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER,
		timestamp TEXT NOT NULL,
		heart_rate INTEGER,
		resting_heart_rate INTEGER,
		FOREIGN KEY (user_id) REFERENCES users(user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_heart_rate_user_ts ON heart_rate(user_id, timestamp)`,
	`CREATE TABLE IF NOT EXISTS sleep_data (
		sleep_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER,
		date TEXT NOT NULL,
		total_sleep_hours REAL,
		deep_sleep_hours REAL,
		light_sleep_hours REAL,
		rem_sleep_hours REAL,
		awake_hours REAL,
		sleep_score INTEGER,
		FOREIGN KEY (user_id) REFERENCES users(user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sleep_data_user_date ON sleep_data(user_id, date)`,
	`CREATE TABLE IF NOT EXISTS activities (
		activity_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER,
		date TEXT NOT NULL,
		activity_type TEXT NOT NULL,
		duration_minutes INTEGER,
		calories INTEGER,
		average_heart_rate INTEGER,
		max_heart_rate INTEGER,
		distance_km REAL,
		FOREIGN KEY (user_id) REFERENCES users(user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_user_date ON activities(user_id, date)`,
}
