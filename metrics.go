package visitfacts

import "time"

type Metrics interface {
	RecordStageDuration(pipeline, stage string, duration time.Duration)
	RecordFetch(pipeline, dataset, status string)
	RecordRowCount(pipeline, table string, count int)
	RecordError(pipeline, stage, errorType string)
}

type NoopMetrics struct{}

func (NoopMetrics) RecordStageDuration(string, string, time.Duration) {}
func (NoopMetrics) RecordFetch(string, string, string)                {}
func (NoopMetrics) RecordRowCount(string, string, int)                {}
func (NoopMetrics) RecordError(string, string, string)                {}
