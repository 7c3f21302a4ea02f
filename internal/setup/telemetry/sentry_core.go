package telemetry

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap/zapcore"
)

// SentryCore implements zapcore.Core interface to forward errors to Sentry.
type SentryCore struct {
	zapcore.LevelEnabler
}

// NewSentryCore creates a new Core that forwards errors to Sentry.
func NewSentryCore(enab zapcore.LevelEnabler) *SentryCore {
	return &SentryCore{LevelEnabler: enab}
}

// With adds structured context to the Core.
func (c *SentryCore) With(_ []zapcore.Field) zapcore.Core {
	return c
}

// Check determines whether the supplied Entry should be logged.
func (c *SentryCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}

	return ce
}

// Write forwards error and fatal level logs to Sentry.
func (c *SentryCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	if ent.Level < zapcore.ErrorLevel || sentry.CurrentHub().Client() == nil {
		return nil
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		// Collect zap fields, pulling error values out for the exception
		enc := zapcore.NewMapObjectEncoder()

		var errorValues []string

		for i := range fields {
			if fields[i].Type == zapcore.ErrorType {
				if err, ok := fields[i].Interface.(error); ok {
					errorValues = append(errorValues, err.Error())
				}
			}

			fields[i].AddTo(enc)
		}

		// Add fields as extras in Sentry
		for k, v := range enc.Fields {
			if k != "error" { // Skip error field as we handle it separately
				scope.SetExtra(k, v)
			}
		}

		level := sentryLevel(ent.Level)
		scope.SetLevel(level)

		// Include the underlying error text in the exception value
		exceptionValue := ent.Message
		if len(errorValues) > 0 {
			exceptionValue = fmt.Sprintf("%s: %s", ent.Message, strings.Join(errorValues, "; "))
		}

		event := sentry.NewEvent()
		event.Level = level
		event.Message = ent.Message
		event.Exception = []sentry.Exception{{
			Value:      exceptionValue,
			Type:       callerFunction(ent.Caller.Function),
			Module:     filepath.Dir(ent.Caller.File),
			Stacktrace: sentry.NewStacktrace(),
		}}

		sentry.CaptureEvent(event)
	})

	return nil
}

// Sync implements zapcore.Core.
func (c *SentryCore) Sync() error {
	return nil
}

// sentryLevel maps a zap level to the Sentry severity scale.
func sentryLevel(level zapcore.Level) sentry.Level {
	switch level {
	case zapcore.ErrorLevel:
		return sentry.LevelError
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return sentry.LevelFatal
	default:
		return sentry.LevelInfo
	}
}

// callerFunction extracts the bare function name from a fully qualified caller.
func callerFunction(qualified string) string {
	if qualified == "" {
		return ""
	}

	if lastDot := strings.LastIndexByte(qualified, '.'); lastDot > -1 {
		return qualified[lastDot+1:]
	}

	return qualified
}
