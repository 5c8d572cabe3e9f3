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
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	statusWidth = 10 // Width for status text
)

// 🖥️ ConsoleFormatter renders aligned, colored rows for terminal output
type ConsoleFormatter struct{}

var _ FileFormatter = ConsoleFormatter{}

// 🎯 FormatFileOperation formats one file outcome as a table row
func (ConsoleFormatter) FormatFileOperation(info FileInfo) string {
	var prefix string
	detail := ""
	switch info.Status {
	case StatusModified:
		prefix = color.YellowString("⟳")
		detail = strconv.Itoa(info.Matches) + " replaced"
	case StatusMatched:
		prefix = color.GreenString("✓")
		detail = "at " + strconv.Itoa(info.Matches)
	case StatusFailed:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("-")
	}

	// Format parts with padding
	namePart := fmt.Sprintf("%-*s", nameWidth, info.Path)
	statusPart := fmt.Sprintf("%-*s", statusWidth, info.Status.String())

	return strings.TrimRight(fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		statusPart,
		detail,
	), " ")
}

func (ConsoleFormatter) FormatProgress(current, total int) string {
	return fmt.Sprintf("%s %d/%d files", color.CyanString("⏳"), current, total)
}

func (ConsoleFormatter) FormatError(path string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s%s %s %s",
		strings.Repeat(" ", fileIndent),
		color.RedString("✗"),
		path,
		color.RedString(err.Error()),
	)
}
