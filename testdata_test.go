package visitfacts_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nulllvoid/visitfacts"
)

const (
	patientsCSV = `id,name,sex,created_at
1,Alice,F,2023-05-01
2,Bob,M,2023-06-12
`
	doctorsCSV = `id,name,created_at
10,Dr. X,2020-01-01
11,Dr. Y,2021-03-04
`
	visitsCSV = `id,patient_id,doctor_id,created_at
100,1,10,2024-01-01
101,2,11,2024-01-02 09:30:00
`
)

func mustReadCSV(t *testing.T, name, body string) *visitfacts.Table {
	t.Helper()
	tbl, err := visitfacts.ReadCSV(strings.NewReader(body), name)
	require.NoError(t, err)
	return tbl
}

func writeTempFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func cellText(t *testing.T, tbl *visitfacts.Table, row int, col string) (string, bool) {
	t.Helper()
	v, err := tbl.Value(row, col)
	require.NoError(t, err)
	return v.String, v.Valid
}

// stubFetcher serves tables from memory, keyed by dataset location.
type stubFetcher struct {
	visitfacts.BaseFetcher
	tables map[string]string
	errs   map[string]error
	calls  []string
}

func newStubFetcher(tables map[string]string) *stubFetcher {
	return &stubFetcher{
		BaseFetcher: visitfacts.NewBaseFetcher("stub", 1),
		tables:      tables,
		errs:        map[string]error{},
	}
}

func (f *stubFetcher) Fetch(ctx context.Context, ds visitfacts.Dataset) (*visitfacts.Table, error) {
	f.calls = append(f.calls, ds.Location)
	if err := f.errs[ds.Location]; err != nil {
		return nil, err
	}
	return visitfacts.ReadCSV(strings.NewReader(f.tables[ds.Location]), ds.Name)
}

func stubRequest() *visitfacts.Request {
	return visitfacts.NewRequest("mem://patients", "mem://visits", "mem://doctors")
}

func stubTables() map[string]string {
	return map[string]string{
		"mem://patients": patientsCSV,
		"mem://visits":   visitsCSV,
		"mem://doctors":  doctorsCSV,
	}
}

type recordingLogger struct {
	mu         sync.Mutex
	infoCalls  [][]any
	errorCalls [][]any
}

func (l *recordingLogger) Info(msg string, keyvals ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infoCalls = append(l.infoCalls, append([]any{msg}, keyvals...))
}

func (l *recordingLogger) Error(msg string, keyvals ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorCalls = append(l.errorCalls, append([]any{msg}, keyvals...))
}

type recordingMetrics struct {
	stages  []string
	fetches map[string]string
	rows    map[string]int
	errors  []string
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{fetches: map[string]string{}, rows: map[string]int{}}
}

func (m *recordingMetrics) RecordStageDuration(_, stage string, _ time.Duration) {
	m.stages = append(m.stages, stage)
}
func (m *recordingMetrics) RecordFetch(_, dataset, status string) { m.fetches[dataset] = status }
func (m *recordingMetrics) RecordRowCount(_, table string, n int) { m.rows[table] = n }
func (m *recordingMetrics) RecordError(_, stage, errType string) {
	m.errors = append(m.errors, stage+":"+errType)
}
