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
	"io"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📢 UserLogger prints command results and failures for people, mirroring
// each message into zerolog.
type UserLogger struct {
	log zerolog.Logger
	out io.Writer
}

// 🎯 NewUserLogger creates a user logger writing to out
func NewUserLogger(ctx context.Context, out io.Writer) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: out,
	}
}

// 📊 Result prints a command result on its own line
func (u *UserLogger) Result(label, value string) {
	pterm.Info.WithWriter(u.out).WithPrefix(pterm.Prefix{Text: label, Style: pterm.Info.Prefix.Style}).Println(value)
	u.log.Debug().Str(label, value).Msg("result")
}

// 🔍 Validation reports whether a config or rule set is usable
func (u *UserLogger) Validation(valid bool, description string, err error) {
	switch {
	case valid:
		pterm.Success.WithWriter(u.out).WithPrefix(pterm.Prefix{Text: "✅", Style: pterm.Success.Prefix.Style}).Println(description)
		u.log.Info().Msg(description)
	case err != nil:
		pterm.Error.WithWriter(u.out).WithPrefix(pterm.Prefix{Text: "❌", Style: pterm.Error.Prefix.Style}).Println(description)
		pterm.Error.WithWriter(u.out).Println(err)
		u.log.Error().Err(err).Msg(description)
	default:
		pterm.Warning.WithWriter(u.out).WithPrefix(pterm.Prefix{Text: "⚠️", Style: pterm.Warning.Prefix.Style}).Println(description)
		u.log.Warn().Msg(description)
	}
}

// ❌ Failure prints an error that ended a command
func (u *UserLogger) Failure(err error) {
	pterm.Error.WithWriter(u.out).Println(err)
	u.log.Error().Err(err).Msg("command failed")
}

// 📋 Table renders rows with the first row as header
func (u *UserLogger) Table(rows [][]string) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		return errors.Errorf("rendering table: %w", err)
	}
	if _, err := io.WriteString(u.out, out+"\n"); err != nil {
		return errors.Errorf("writing table: %w", err)
	}
	return nil
}
