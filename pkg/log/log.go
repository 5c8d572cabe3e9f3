// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/walteh/collsearch/pkg/status"
)

// 📦 RunOperation describes one file-tree run for logging
type RunOperation struct {
	Name     string // Command name (apply/grep)
	Root     string // Root directory
	Locale   string // Default collation locale
	Encoding string // Host encoding
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	formatter status.ConsoleFormatter
	mu        sync.Mutex
	current   *RunOperation
	files     []status.FileInfo
}

// 🏭 New creates a new logger. Console lines go to console, structured
// records go to zerolog's console writer on stderr.
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return NewWithZerolog(console, zlog)
}

// NewWithZerolog creates a logger that mirrors into an existing zerolog logger.
func NewWithZerolog(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 LogFileOperation prints one file outcome as a console row
func (l *Logger) LogFileOperation(ctx context.Context, info status.FileInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.files = append(l.files, info)

	if info.Error != nil {
		fmt.Fprintln(l.console, l.formatter.FormatError(info.Path, info.Error))
		l.zlog.Error().Str("file", info.Path).Err(info.Error).Msg("file failed")
		return
	}

	fmt.Fprintln(l.console, l.formatter.FormatFileOperation(info))

	l.zlog.Info().
		Str("file", info.Path).
		Str("status", info.Status.String()).
		Int("matches", info.Matches).
		Msg("file operation")
}

// 📝 StartRun prints the run header
func (l *Logger) StartRun(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = &op
	l.files = nil

	fmt.Fprintf(l.console, "[%s %s]\n",
		op.Name,
		color.New(color.FgCyan).Sprint(op.Root))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Locale),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.Encoding))

	l.zlog.Info().
		Str("run", op.Name).
		Str("root", op.Root).
		Str("locale", op.Locale).
		Str("encoding", op.Encoding).
		Msg("starting run")
}

// 📝 EndRun prints a one-line summary of the current run
func (l *Logger) EndRun(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return
	}

	counts := map[status.FileStatus]int{}
	for _, f := range l.files {
		counts[f.Status]++
	}

	fmt.Fprintf(l.console, "%d files: %s modified, %s matched, %s unchanged, %s failed\n",
		len(l.files),
		color.YellowString("%d", counts[status.StatusModified]),
		color.GreenString("%d", counts[status.StatusMatched]),
		color.HiBlackString("%d", counts[status.StatusUnchanged]),
		color.RedString("%d", counts[status.StatusFailed]),
	)

	l.zlog.Info().
		Str("run", l.current.Name).
		Int("files", len(l.files)).
		Int("failed", counts[status.StatusFailed]).
		Msg("run complete")

	l.current = nil
	l.files = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("collsearch")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
