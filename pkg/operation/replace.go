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

package operation

import (
	"bytes"
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/collsearch/pkg/status"
	"github.com/walteh/collsearch/pkg/text"
)

// 🔁 NewReplaceOperation creates an operation that applies the configured
// replacements to every selected file
func NewReplaceOperation(opts Options) Operation {
	base := NewBaseOperation(opts)
	return &replaceOperation{
		BaseOperation: base,
		replacer:      text.NewCollationReplacer(base.Config.Codec(), base.Config.Locale, base.Open),
	}
}

// 🔁 replaceOperation implements the replace operation
type replaceOperation struct {
	BaseOperation
	replacer *text.CollationReplacer
}

// 🏃 Execute runs the replace operation
func (op *replaceOperation) Execute(ctx context.Context) error {
	rules := op.Config.Rules()
	if len(rules) == 0 {
		return errors.New("no replacements configured")
	}
	if err := op.replacer.ValidateRules(rules); err != nil {
		return errors.Errorf("validating rules: %w", err)
	}

	files, err := op.listFiles(ctx)
	if err != nil {
		return errors.Errorf("listing files: %w", err)
	}

	return op.forEach(ctx, files, func(ctx context.Context, path string) status.FileInfo {
		return op.processFile(ctx, path, text.RulesFor(path, rules))
	})
}

// 📄 processFile rewrites one file if any rule matches
func (op *replaceOperation) processFile(ctx context.Context, path string, rules []text.ReplacementRule) status.FileInfo {
	logger := zerolog.Ctx(ctx)

	if len(rules) == 0 {
		return status.FileInfo{Path: path, Status: status.StatusUnchanged}
	}

	content, err := op.StatusMgr.ReadFile(ctx, path)
	if err != nil {
		return failed(path, err)
	}

	res, err := op.replacer.ReplaceText(ctx, bytes.NewReader(content), rules)
	if err != nil {
		return failed(path, errors.Errorf("replacing: %w", err))
	}
	if !res.WasModified {
		return status.FileInfo{Path: path, Status: status.StatusUnchanged}
	}

	if op.Config.Backup {
		if err := op.StatusMgr.BackupFile(ctx, path); err != nil {
			return failed(path, err)
		}
	}
	if err := op.StatusMgr.WriteFileAtomic(ctx, path, res.ModifiedContent); err != nil {
		return failed(path, err)
	}

	logger.Info().Str("file", path).Int("replacements", res.ReplacementCount).Msg("rewrote file")

	return status.FileInfo{
		Path:     path,
		Status:   status.StatusModified,
		Matches:  res.ReplacementCount,
		Checksum: status.Checksum(res.ModifiedContent),
	}
}
