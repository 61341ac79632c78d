package visitfacts

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoFetcherAvailable = errors.New("no fetcher available for dataset")
	ErrValidationFailed   = errors.New("validation failed")
	ErrInvalidShareLink   = errors.New("share link has no file identifier")
	ErrRetrieveFailed     = errors.New("dataset retrieval failed")
	ErrParseFailed        = errors.New("dataset parse failed")
	ErrDatasetsNotLoaded  = errors.New("1 or more datasets could not be loaded")
	ErrMissingColumn      = errors.New("missing column")
	ErrEnrichmentFailed   = errors.New("enrichment failed")
)

type PipelineError struct {
	Pipeline string
	Stage    string
	Op       string
	Err      error
}

func (e *PipelineError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("pipeline %s: stage %s: %s: %v", e.Pipeline, e.Stage, e.Op, e.Err)
	}
	return fmt.Sprintf("pipeline %s: %s: %v", e.Pipeline, e.Op, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func NewPipelineError(pipeline, stage, op string, err error) *PipelineError {
	return &PipelineError{Pipeline: pipeline, Stage: stage, Op: op, Err: err}
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s': %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// FetchError describes a dataset that could not be retrieved or parsed.
// Source is the location the caller asked for, not the resolved download URL.
type FetchError struct {
	Source  string
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch error from %s: %s: %v", e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("fetch error from %s: %s", e.Source, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func NewFetchError(source, message string, err error) *FetchError {
	return &FetchError{Source: source, Message: message, Err: err}
}

type EnrichmentError struct {
	Enricher string
	Message  string
	Err      error
}

func (e *EnrichmentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("enrichment error from %s: %s: %v", e.Enricher, e.Message, e.Err)
	}
	return fmt.Sprintf("enrichment error from %s: %s", e.Enricher, e.Message)
}

func (e *EnrichmentError) Unwrap() error {
	return e.Err
}

func (e *EnrichmentError) Is(target error) bool {
	return target == ErrEnrichmentFailed
}

func NewEnrichmentError(enricher, message string, err error) *EnrichmentError {
	return &EnrichmentError{Enricher: enricher, Message: message, Err: err}
}

// MissingColumnError reports a column that a drop, join or coercion expected
// but the table does not have.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("missing column %q", e.Column)
	}
	return fmt.Sprintf("missing column %q in table %s", e.Column, e.Table)
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

func NewMissingColumnError(table, column string) *MissingColumnError {
	return &MissingColumnError{Table: table, Column: column}
}

// DatasetLoadError is returned when at least one dataset failed to fetch or
// came back without rows.
type DatasetLoadError struct {
	Failed []string
	Empty  []string
}

func (e *DatasetLoadError) Error() string {
	var parts []string
	if len(e.Failed) > 0 {
		parts = append(parts, "failed: "+strings.Join(e.Failed, ", "))
	}
	if len(e.Empty) > 0 {
		parts = append(parts, "empty: "+strings.Join(e.Empty, ", "))
	}
	msg := ErrDatasetsNotLoaded.Error()
	if len(parts) > 0 {
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	return msg + ". Check the URLs and data."
}

func (e *DatasetLoadError) Unwrap() error {
	return ErrDatasetsNotLoaded
}
