// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log is the structured logger used by the collector. Log calls are
// fire-and-forget: they never return errors and never affect control flow.
// Fields attached to a context with WithFields are added to every entry
// logged with that context.
package log

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Format selects the encoding of log entries.
type Format string

// Supported formats.
const (
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
)

type fieldsKey struct{}

// Logger wraps a zerolog.Logger.
type Logger struct {
	zl zerolog.Logger
}

// New creates a Logger writing to w. Unknown levels fall back to info.
func New(w io.Writer, format Format, level string) *Logger {
	if format != FormatJSON {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	zl := zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// Default returns a pretty info-level logger on stderr; stdout is reserved
// for collected data.
func Default() *Logger {
	return New(os.Stderr, FormatPretty, "info")
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithFields returns a context carrying key/value pairs for subsequent log
// entries. Pairs are appended to any already present.
func WithFields(ctx context.Context, keyvals ...any) context.Context {
	prev, _ := ctx.Value(fieldsKey{}).([]any)
	merged := make([]any, 0, len(prev)+len(keyvals))
	merged = append(merged, prev...)
	merged = append(merged, keyvals...)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

func (l *Logger) event(ctx context.Context, e *zerolog.Event) *zerolog.Event {
	if ctx == nil {
		return e
	}
	if fields, ok := ctx.Value(fieldsKey{}).([]any); ok {
		e = e.Fields(fields)
	}
	return e
}

// Debug logs msg at debug level.
func (l *Logger) Debug(ctx context.Context, msg string) {
	if l == nil {
		return
	}
	l.event(ctx, l.zl.Debug()).Msg(msg)
}

// Info logs msg at info level.
func (l *Logger) Info(ctx context.Context, msg string) {
	if l == nil {
		return
	}
	l.event(ctx, l.zl.Info()).Msg(msg)
}

// Warn logs msg at warn level with an optional cause.
func (l *Logger) Warn(ctx context.Context, msg string, err error) {
	if l == nil {
		return
	}
	e := l.event(ctx, l.zl.Warn())
	if err != nil {
		e = e.Err(err)
	}
	e.Msg(msg)
}
