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
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/ngmenu/pkg/status"
)

// 🎨 column layout for file lines
const (
	fileIndent  = 4
	nameWidth   = 45
	kindWidth   = 12
	statusWidth = 10
)

// 🎯 FileOperation is one file the run touched
type FileOperation struct {
	Path   string            // relative to the workspace
	Kind   string            // module, routing, shell, stylesheet, component, workspace, template
	Status status.FileStatus // what the commit did, or would do in a dry run
	Steps  int               // mutation steps applied to the file
}

// 📦 RunOperation is the project a run targets
type RunOperation struct {
	Project string
	Path    string // resolved generator path
	Module  string
	DryRun  bool
}

// 🎯 Logger prints the run summary for humans and mirrors it to zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer

	mu    sync.Mutex
	run   *RunOperation
	files []FileOperation
}

// 🏭 New creates a logger printing to console and logging to zlog
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

var statusSymbols = map[status.FileStatus]struct {
	symbol string
	color  color.Attribute
}{
	status.StatusNew:      {"✓", color.FgGreen},
	status.StatusModified: {"⟳", color.FgBlue},
	status.StatusSkipped:  {"-", color.FgYellow},
}

func formatFileOperation(op FileOperation) string {
	sym, ok := statusSymbols[op.Status]
	if !ok {
		sym.symbol, sym.color = "•", color.FgCyan
	}

	kindColor := color.FgBlue
	switch op.Kind {
	case "template":
		kindColor = color.FgCyan
	case "workspace":
		kindColor = color.FgYellow
	}

	line := fmt.Sprintf("%*s%s %-*s %s %-*s",
		fileIndent, "",
		color.New(sym.color).Sprint(sym.symbol),
		nameWidth, op.Path,
		color.New(kindColor).Sprintf("%-*s", kindWidth, op.Kind),
		statusWidth, op.Status.String())
	if op.Steps > 0 {
		noun := "steps"
		if op.Steps == 1 {
			noun = "step"
		}
		line += color.New(color.Faint).Sprintf("%d %s", op.Steps, noun)
	}
	return strings.TrimRight(line, " ")
}

// tally renders "2 new • 3 modified" for the files of a run
func tally(files []FileOperation) string {
	counts := map[status.FileStatus]int{}
	for _, f := range files {
		counts[f.Status]++
	}
	var parts []string
	for _, s := range []status.FileStatus{status.StatusNew, status.StatusModified, status.StatusUnchanged, status.StatusSkipped} {
		if counts[s] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[s], s))
		}
	}
	return strings.Join(parts, " • ")
}

// 📝 LogFileOperation prints one file line
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.files = append(l.files, op)
	fmt.Fprintln(l.console, formatFileOperation(op))

	l.zlog.Info().
		Str("file", op.Path).
		Str("kind", op.Kind).
		Str("status", op.Status.String()).
		Int("steps", op.Steps).
		Msg("file operation")
}

// 📝 StartRun prints the header for a run against a project
func (l *Logger) StartRun(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.run = &op
	l.files = nil

	verb := "updating"
	if op.DryRun {
		verb = "previewing"
	}
	fmt.Fprintf(l.console, "[%s %s]\n", verb, color.New(color.FgCyan).Sprint(op.Path))
	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Project),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.Module))

	l.zlog.Info().
		Str("project", op.Project).
		Str("path", op.Path).
		Str("module", op.Module).
		Bool("dry_run", op.DryRun).
		Msg("starting run")
}

// 📝 EndRun prints the per-status file counts of the current run
func (l *Logger) EndRun(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.run == nil {
		return
	}

	if summary := tally(l.files); summary != "" {
		fmt.Fprintf(l.console, "%*s%s\n", fileIndent, "", color.New(color.Faint).Sprint(summary))
	}
	l.zlog.Info().
		Str("project", l.run.Project).
		Int("files", len(l.files)).
		Msg("run complete")

	l.run = nil
	l.files = nil
}

func (l *Logger) message(prefix string, c color.Attribute, level zerolog.Level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "%s %s\n", prefix, color.New(c).Sprint(msg))
	l.zlog.WithLevel(level).Msg(msg)
}

// 📝 LogNewline prints an empty line
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header prints the command banner
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("ngmenu")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Success(msg string) { l.message("✅", color.FgGreen, zerolog.InfoLevel, msg) }
func (l *Logger) Warning(msg string) { l.message("⚠️ ", color.FgYellow, zerolog.WarnLevel, msg) }
func (l *Logger) Error(msg string)   { l.message("❌", color.FgRed, zerolog.ErrorLevel, msg) }
func (l *Logger) Info(msg string)    { l.message("ℹ️ ", color.FgCyan, zerolog.InfoLevel, msg) }

// 📝 Raw writes text to the console unchanged
func (l *Logger) Raw(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.console, text)
}

func (l *Logger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...any) {
	l.Warning(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}
