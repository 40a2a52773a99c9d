package domain

// WorkSession is one attendance session recorded by the mobile app. Durations and
// distances arrive as decimal strings from the spreadsheet backend.
type WorkSession struct {
	SessionID         string `json:"session_id"`
	UserID            string `json:"user_id"`
	WorkArea          string `json:"work_area"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	TotalWorkDuration string `json:"total_work_duration"`
	TotalBreakTime    string `json:"total_break_time"`
	StepCount         int    `json:"step_count"`
	DistanceTraveled  string `json:"distance_traveled"`
	SyncTimestamp     string `json:"sync_timestamp"`
	DeviceInfo        string `json:"device_info"`
	WeatherInfo       string `json:"weather_info"`
	SessionStatus     string `json:"session_status"`
}
