package visitfacts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Sink persists the finished fact table in two steps. Prepare does all the
// work that can fail; the PendingWrite it returns either publishes the result
// or throws it away.
type Sink interface {
	Name() string
	Prepare(ctx context.Context, t *Table) (PendingWrite, error)
}

// PendingWrite is a prepared but unpublished write.
type PendingWrite interface {
	// Commit publishes the write and returns where the table went.
	Commit() (string, error)
	Abort() error
}

// CSVSink writes the table as a comma-separated file with a header row and
// no index column. The file is written next to its target and renamed into
// place on commit.
type CSVSink struct {
	path string
}

func NewCSVSink(path string) *CSVSink {
	if path == "" {
		path = DefaultOutputPath
	}
	return &CSVSink{path: path}
}

func (s *CSVSink) Name() string { return "csv" }
func (s *CSVSink) Path() string { return s.path }

func (s *CSVSink) Prepare(ctx context.Context, t *Table) (PendingWrite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	pending := &pendingFile{tmp: tmp.Name(), path: s.path}

	if err := WriteCSV(tmp, t); err != nil {
		tmp.Close()
		pending.Abort()
		return nil, fmt.Errorf("write %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		pending.Abort()
		return nil, fmt.Errorf("close %s: %w", pending.tmp, err)
	}
	return pending, nil
}

// Write prepares and commits in one go.
func (s *CSVSink) Write(ctx context.Context, t *Table) (string, error) {
	return commitNow(s.Prepare(ctx, t))
}

type pendingFile struct {
	tmp  string
	path string
}

func (p *pendingFile) Commit() (string, error) {
	if err := os.Rename(p.tmp, p.path); err != nil {
		p.Abort()
		return "", fmt.Errorf("rename %s: %w", p.path, err)
	}
	return p.path, nil
}

func (p *pendingFile) Abort() error {
	if err := os.Remove(p.tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func commitNow(pw PendingWrite, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return pw.Commit()
}

// LoadStage hands the fact table to every sink. Nothing is published unless
// every sink prepared successfully.
type LoadStage struct {
	sinks []Sink
}

func NewLoadStage(sinks ...Sink) *LoadStage {
	return &LoadStage{sinks: sinks}
}

func (s *LoadStage) Name() string   { return "load" }
func (s *LoadStage) Required() bool { return true }

func (s *LoadStage) Execute(ctx context.Context, state *State) error {
	fact := state.Fact()
	if fact == nil {
		return nil
	}
	logger := state.Logger()

	pending := make([]PendingWrite, 0, len(s.sinks))
	for _, sink := range s.sinks {
		pw, err := sink.Prepare(ctx, fact)
		if err != nil {
			abortAll(logger, pending)
			return fmt.Errorf("sink %s: %w", sink.Name(), err)
		}
		pending = append(pending, pw)
	}

	// Commit last to first: the first sink is the primary output and is
	// published only once the others are in.
	locations := make([]string, len(pending))
	for i := len(pending) - 1; i >= 0; i-- {
		location, err := pending[i].Commit()
		if err != nil {
			abortAll(logger, pending[:i])
			return fmt.Errorf("sink %s: %w", s.sinks[i].Name(), err)
		}
		locations[i] = location
	}

	for i, location := range locations {
		state.AddOutput(location)
		logger.Info("fact table written",
			"sink", s.sinks[i].Name(),
			"location", location,
			"rows", fact.Len(),
		)
	}
	return nil
}

func abortAll(logger Logger, pending []PendingWrite) {
	for _, pw := range pending {
		if err := pw.Abort(); err != nil {
			logger.Error("discarding prepared output", "error", err)
		}
	}
}
