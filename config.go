package visitfacts

import "time"

const (
	FactTableName          = "fact_hospital_visits"
	DefaultOutputPath      = "fact_hospital_visits.csv"
	DefaultTimestampColumn = "created_at"
)

type Config struct {
	// Timeout bounds the whole run. Zero disables it.
	Timeout time.Duration
	// HTTPTimeout bounds each download. Zero disables it.
	HTTPTimeout     time.Duration
	DownloadBaseURL string
	UserAgent       string
	OutputPath      string
	// SQLitePath enables the SQLite sink when non-empty.
	SQLitePath      string
	TimestampColumn string
}

func DefaultConfig() Config {
	return Config{
		Timeout:         5 * time.Minute,
		HTTPTimeout:     60 * time.Second,
		DownloadBaseURL: DefaultDownloadBase,
		OutputPath:      DefaultOutputPath,
		TimestampColumn: DefaultTimestampColumn,
	}
}
