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
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/collsearch/pkg/codec"
	"github.com/walteh/collsearch/pkg/status"
	"github.com/walteh/collsearch/pkg/text"
)

// FindResult is the first match in one file.
type FindResult struct {
	Path     string
	Position int // 1-based, in host characters
}

// 🔍 FindOperation reports where a needle first occurs in each selected file
type FindOperation struct {
	BaseOperation
	needle string
	locale string

	mu      sync.Mutex
	results []FindResult
}

// 🏭 NewFindOperation creates a find operation. An empty locale means the
// config default.
func NewFindOperation(opts Options, needle, locale string) *FindOperation {
	base := NewBaseOperation(opts)
	if locale == "" {
		locale = base.Config.Locale
	}
	return &FindOperation{
		BaseOperation: base,
		needle:        needle,
		locale:        locale,
	}
}

// 🏃 Execute runs the search over every selected file with one shared
// collation handle
func (op *FindOperation) Execute(ctx context.Context) error {
	if op.needle == "" {
		return errors.Errorf("%w: empty needle", text.ErrMisuse)
	}

	c := op.Config.Codec()
	needle, err := codec.FromString(op.needle, c)
	if err != nil {
		return errors.Errorf("converting needle: %w", err)
	}

	h, err := op.Open(op.locale)
	if err != nil {
		return errors.Errorf("opening collation %q: %w", op.locale, err)
	}
	defer h.Close()

	files, err := op.listFiles(ctx)
	if err != nil {
		return errors.Errorf("listing files: %w", err)
	}

	op.mu.Lock()
	op.results = nil
	op.mu.Unlock()

	return op.forEach(ctx, files, func(ctx context.Context, path string) status.FileInfo {
		content, err := op.StatusMgr.ReadFile(ctx, path)
		if err != nil {
			return failed(path, err)
		}

		pos, err := text.Find(ctx, codec.NewText(content, c), needle, h)
		if err != nil {
			return failed(path, errors.Errorf("finding: %w", err))
		}
		if pos == 0 {
			return status.FileInfo{Path: path, Status: status.StatusUnchanged}
		}

		zerolog.Ctx(ctx).Info().Str("file", path).Int("position", pos).Msg("found needle")

		op.mu.Lock()
		op.results = append(op.results, FindResult{Path: path, Position: pos})
		op.mu.Unlock()

		return status.FileInfo{Path: path, Status: status.StatusMatched, Matches: pos}
	})
}

// Results returns the matches of the last Execute ordered by path.
func (op *FindOperation) Results() []FindResult {
	op.mu.Lock()
	defer op.mu.Unlock()

	out := append([]FindResult(nil), op.results...)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
