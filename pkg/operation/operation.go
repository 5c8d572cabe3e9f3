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
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/collsearch/pkg/config"
	"github.com/walteh/collsearch/pkg/log"
	"github.com/walteh/collsearch/pkg/status"
	"github.com/walteh/collsearch/pkg/text"
)

// ErrFilesFailed is returned when at least one file could not be processed.
// Per-file errors are tracked in the status manager.
var ErrFilesFailed = errors.Base("files failed")

// 🎯 Operation is a unit of work the Runner executes
type Operation interface {
	Execute(ctx context.Context) error
}

// 🔧 Options contains what every operation needs
type Options struct {
	// Config supplies root, globs, encoding, locale and replacements
	Config *config.Config
	// StatusMgr does file I/O and tracks per-file outcomes
	StatusMgr *status.Manager
	// Console prints one row per file; nil disables console output
	Console *log.Logger
	// Open opens collation handles; nil means text.OpenCollator
	Open text.Opener
}

// 🧱 BaseOperation holds the file walking shared by all operations
type BaseOperation struct {
	Options
}

// 🏭 NewBaseOperation fills option defaults
func NewBaseOperation(opts Options) BaseOperation {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.StatusMgr == nil {
		opts.StatusMgr = status.New(opts.Config.Root, nil)
	}
	if opts.Open == nil {
		opts.Open = text.OpenCollator
	}
	return BaseOperation{Options: opts}
}

// 📂 listFiles returns the slash-separated paths under the root that match an
// include glob and no ignore glob, sorted.
func (op *BaseOperation) listFiles(ctx context.Context) ([]string, error) {
	logger := zerolog.Ctx(ctx)
	fsys := os.DirFS(op.StatusMgr.BaseDir())

	seen := map[string]bool{}
	for _, pattern := range op.Config.Include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("globbing %q: %w", pattern, err)
		}
		for _, m := range matches {
			seen[m] = true
		}
	}

	files := make([]string, 0, len(seen))
	for path := range seen {
		if op.skip(path) {
			logger.Debug().Str("file", path).Msg("file ignored")
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)

	logger.Debug().Int("count", len(files)).Msg("listed files")
	return files, nil
}

// 🔍 skip reports whether path is ignored, a backup, or the config file itself
func (op *BaseOperation) skip(path string) bool {
	if strings.HasSuffix(path, ".bak") {
		return true
	}
	if loc := op.Config.Location(); loc != "" {
		if rel, err := filepath.Rel(op.StatusMgr.BaseDir(), loc); err == nil && filepath.ToSlash(rel) == path {
			return true
		}
	}
	for _, pattern := range op.Config.Ignore {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// ⚡ forEach runs fn over files with at most Config.Concurrency in flight.
// A failing file is tracked and does not stop the others; cancellation does.
func (op *BaseOperation) forEach(ctx context.Context, files []string, fn func(ctx context.Context, path string) status.FileInfo) error {
	op.StatusMgr.StartOperation(ctx, len(files))
	defer op.StatusMgr.FinishOperation(ctx)

	limit := op.Config.Concurrency
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			info := fn(gctx, path)
			op.record(gctx, info)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return errors.Errorf("processing files: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return errors.Errorf("processing files: %w", err)
	}

	if n := op.StatusMgr.Counts()[status.StatusFailed]; n > 0 {
		return errors.Errorf("%w: %d of %d", ErrFilesFailed, n, len(files))
	}
	return nil
}

func (op *BaseOperation) record(ctx context.Context, info status.FileInfo) {
	op.StatusMgr.TrackFile(ctx, info)
	op.StatusMgr.Advance(ctx)
	if op.Console != nil {
		op.Console.LogFileOperation(ctx, info)
	}
}

func failed(path string, err error) status.FileInfo {
	return status.FileInfo{Path: path, Status: status.StatusFailed, Error: err}
}
