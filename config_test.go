package visitfacts_test

import (
	"testing"
	"time"

	"github.com/nulllvoid/visitfacts"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := visitfacts.DefaultConfig()

	if cfg.Timeout != 5*time.Minute {
		t.Errorf("Timeout = %v, want 5m", cfg.Timeout)
	}
	if cfg.HTTPTimeout != 60*time.Second {
		t.Errorf("HTTPTimeout = %v, want 60s", cfg.HTTPTimeout)
	}
	if cfg.DownloadBaseURL != visitfacts.DefaultDownloadBase {
		t.Errorf("DownloadBaseURL = %v, want %v", cfg.DownloadBaseURL, visitfacts.DefaultDownloadBase)
	}
	if cfg.OutputPath != "fact_hospital_visits.csv" {
		t.Errorf("OutputPath = %v, want fact_hospital_visits.csv", cfg.OutputPath)
	}
	if cfg.TimestampColumn != "created_at" {
		t.Errorf("TimestampColumn = %v, want created_at", cfg.TimestampColumn)
	}
	if cfg.SQLitePath != "" {
		t.Errorf("SQLitePath = %v, want empty", cfg.SQLitePath)
	}
}
