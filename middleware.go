package visitfacts

import (
	"context"
	"fmt"
	"time"
)

type StageFunc func(ctx context.Context, state *State) error

type Middleware func(stageName string, next StageFunc) StageFunc

// Logger is satisfied by *slog.Logger.
type Logger interface {
	Info(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

type NopLogger struct{}

func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}

func LoggingMiddleware(logger Logger) Middleware {
	return func(stageName string, next StageFunc) StageFunc {
		return func(ctx context.Context, state *State) error {
			start := time.Now()
			err := next(ctx, state)
			if err != nil {
				logger.Error("stage failed",
					"stage", stageName,
					"duration", time.Since(start),
					"error", err,
				)
				return err
			}
			logger.Info("stage completed",
				"stage", stageName,
				"duration", time.Since(start),
				"rows", state.RowCount(),
			)
			return nil
		}
	}
}

// RecoveryMiddleware turns a panic inside a stage into an error. The
// pipeline adds the stage name when it wraps the error.
func RecoveryMiddleware() Middleware {
	return func(_ string, next StageFunc) StageFunc {
		return func(ctx context.Context, state *State) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			return next(ctx, state)
		}
	}
}
