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

package status

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger provides user-friendly feedback while the generator runs
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
	out io.Writer
}

// 🎯 NewUserLogger creates a new user logger printing to stdout
func NewUserLogger(ctx context.Context) *UserLogger {
	return NewUserLoggerTo(ctx, os.Stdout)
}

// NewUserLoggerTo creates a user logger printing to w
func NewUserLoggerTo(ctx context.Context, w io.Writer) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: w,
	}
}

func (u *UserLogger) printer(base pterm.PrefixPrinter, prefix string) *pterm.PrefixPrinter {
	return base.WithPrefix(pterm.Prefix{Text: prefix, Style: base.Prefix.Style}).WithWriter(u.out)
}

// 🧩 LogStep reports whether a mutation step found its anchor
func (u *UserLogger) LogStep(name string, applied bool, detail string) {
	msg := name
	if detail != "" {
		msg += fmt.Sprintf(" (%s)", detail)
	}
	if applied {
		u.printer(pterm.Success, "✓").Println(msg)
		u.log.Info().Str("step", name).Bool("applied", true).Msg(msg)
		return
	}
	u.printer(pterm.Warning, "⏭️").Println(msg + " - anchor not found, skipped")
	u.log.Warn().Str("step", name).Bool("applied", false).Msg(msg)
}

// LogSkip reports a step left out because its content is already there
func (u *UserLogger) LogSkip(name, reason string) {
	u.printer(pterm.Info, "⏭️").Println(fmt.Sprintf("%s (%s)", name, reason))
	u.log.Debug().Str("step", name).Str("reason", reason).Msg("step skipped")
}

// 📝 LogFileChange logs a committed file with the emoji for its status
func (u *UserLogger) LogFileChange(info FileInfo) {
	var printer *pterm.PrefixPrinter
	var action string
	switch info.Status {
	case StatusNew:
		printer, action = u.printer(pterm.Success, "✨"), "Created"
	case StatusModified:
		printer, action = u.printer(pterm.Info, "🔄"), "Updated"
	case StatusSkipped:
		printer, action = u.printer(pterm.Debug, "⏭️"), "Skipped"
	default:
		printer, action = u.printer(pterm.Debug, "👍"), "Unchanged"
	}

	msg := fmt.Sprintf("%s %s", action, info.Path)
	if info.Reason != "" {
		msg += fmt.Sprintf(" (%s)", info.Reason)
	}

	if info.Error != nil {
		u.printer(pterm.Error, "❌").Println(msg)
		u.printer(pterm.Error, "❌").Println(info.Error)
		u.log.Error().Err(info.Error).Msg(msg)
		return
	}
	printer.Println(msg)
	u.log.Info().Str("path", info.Path).Str("status", info.Status.String()).Msg(msg)
}

// 📦 LogInvocation logs an external generator run
func (u *UserLogger) LogInvocation(description string, err error) {
	if err != nil {
		u.printer(pterm.Error, "❌").Println(description)
		u.printer(pterm.Error, "❌").Println(err)
		u.log.Error().Err(err).Msg(description)
		return
	}
	u.printer(pterm.Info, "📦").Println(description)
	u.log.Info().Msg(description)
}
