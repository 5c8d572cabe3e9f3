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
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/collsearch/pkg/config"
	"github.com/walteh/collsearch/pkg/log"
	"github.com/walteh/collsearch/pkg/status"
	"github.com/walteh/collsearch/pkg/text"
)

func strPtr(s string) *string { return &s }

// 🧪 writeTree creates files (slash paths) under dir
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func newOptions(t *testing.T, cfg *config.Config) Options {
	t.Helper()
	require.NoError(t, cfg.Validate())
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return Options{
		Config:    cfg,
		StatusMgr: status.New(cfg.Root, &logger),
	}
}

func TestReplaceOperation(t *testing.T) {
	tests := []struct {
		name        string
		files       map[string]string
		cfg         config.Config
		wantFiles   map[string]string
		wantStatus  map[string]status.FileStatus
		wantMatches map[string]int
		wantErr     error
		errContains string
		wantBackups []string
		concurrency int
	}{
		{
			name: "loose_replacement",
			files: map[string]string{
				"a.txt":     "Café CAFE cafe",
				"sub/b.txt": "nothing here",
			},
			cfg: config.Config{
				Locale:       "und-u-ks-level1",
				Replacements: []config.Replacement{{Old: "cafe", New: "tea"}},
			},
			wantFiles: map[string]string{
				"a.txt":     "tea tea tea",
				"sub/b.txt": "nothing here",
			},
			wantStatus:  map[string]status.FileStatus{"a.txt": status.StatusModified, "sub/b.txt": status.StatusUnchanged},
			wantMatches: map[string]int{"a.txt": 3},
		},
		{
			name: "tertiary_strength_respects_case",
			files: map[string]string{
				"a.txt": "Café CAFE cafe",
			},
			cfg: config.Config{
				Replacements: []config.Replacement{{Old: "cafe", New: "tea"}},
			},
			wantFiles:   map[string]string{"a.txt": "Café CAFE tea"},
			wantMatches: map[string]int{"a.txt": 1},
		},
		{
			name: "rule_file_filter_and_locale_override",
			files: map[string]string{
				"notes.md":  "Strasse",
				"notes.txt": "Strasse",
			},
			cfg: config.Config{
				Replacements: []config.Replacement{
					{Old: "STRASSE", New: "Street", Locale: strPtr("de-u-ks-level2"), File: strPtr("**/*.md")},
				},
			},
			wantFiles: map[string]string{
				"notes.md":  "Street",
				"notes.txt": "Strasse",
			},
			wantStatus: map[string]status.FileStatus{"notes.md": status.StatusModified, "notes.txt": status.StatusUnchanged},
		},
		{
			name: "rules_apply_in_order",
			files: map[string]string{
				"a.txt": "one two",
			},
			cfg: config.Config{
				Replacements: []config.Replacement{
					{Old: "one", New: "two"},
					{Old: "two", New: "three"},
				},
			},
			wantFiles:   map[string]string{"a.txt": "three three"},
			wantMatches: map[string]int{"a.txt": 3},
		},
		{
			name: "include_and_ignore_globs",
			files: map[string]string{
				"keep/a.txt": "x",
				"skip/a.txt": "x",
				"keep/a.go":  "x",
			},
			cfg: config.Config{
				Include:      []string{"**/*.txt"},
				Ignore:       []string{"skip/**"},
				Replacements: []config.Replacement{{Old: "x", New: "y"}},
			},
			wantFiles: map[string]string{
				"keep/a.txt": "y",
				"skip/a.txt": "x",
				"keep/a.go":  "x",
			},
			wantStatus: map[string]status.FileStatus{"keep/a.txt": status.StatusModified},
		},
		{
			name: "backup_keeps_original",
			files: map[string]string{
				"a.txt": "old text",
			},
			cfg: config.Config{
				Backup:       true,
				Replacements: []config.Replacement{{Old: "old", New: "new"}},
			},
			wantFiles:   map[string]string{"a.txt": "new text", "a.txt.bak": "old text"},
			wantBackups: []string{"a.txt.bak"},
		},
		{
			name: "latin1_host_encoding",
			files: map[string]string{
				"a.txt": "caf\xe9 CAF\xc9",
			},
			cfg: config.Config{
				Encoding:     "LATIN1",
				Locale:       "fr-u-ks-level2",
				Replacements: []config.Replacement{{Old: "café", New: "thé"}},
			},
			wantFiles:   map[string]string{"a.txt": "th\xe9 th\xe9"},
			wantMatches: map[string]int{"a.txt": 2},
		},
		{
			name: "bad_bytes_fail_one_file",
			files: map[string]string{
				"bad.txt":  "caf\xff cafe",
				"good.txt": "cafe",
			},
			cfg: config.Config{
				Replacements: []config.Replacement{{Old: "cafe", New: "tea"}},
			},
			wantFiles: map[string]string{
				"bad.txt":  "caf\xff cafe",
				"good.txt": "tea",
			},
			wantStatus: map[string]status.FileStatus{"bad.txt": status.StatusFailed, "good.txt": status.StatusModified},
			wantErr:    ErrFilesFailed,
		},
		{
			name:        "serial_processing",
			concurrency: 1,
			files: map[string]string{
				"a.txt": "x", "b.txt": "x", "c.txt": "x",
			},
			cfg: config.Config{
				Replacements: []config.Replacement{{Old: "x", New: "yy"}},
			},
			wantFiles: map[string]string{"a.txt": "yy", "b.txt": "yy", "c.txt": "yy"},
		},
		{
			name:        "no_replacements",
			files:       map[string]string{"a.txt": "x"},
			cfg:         config.Config{},
			errContains: "no replacements configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			dir := t.TempDir()
			writeTree(t, dir, tt.files)

			cfg := tt.cfg
			cfg.Root = dir
			cfg.Concurrency = tt.concurrency
			opts := newOptions(t, &cfg)

			err := NewReplaceOperation(opts).Execute(ctx)
			switch {
			case tt.errContains != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			default:
				require.NoError(t, err)
			}

			for name, want := range tt.wantFiles {
				assert.Equal(t, want, readFile(t, dir, name), "content of %s", name)
			}
			for name, want := range tt.wantStatus {
				info, err := opts.StatusMgr.GetFileInfo(ctx, name)
				require.NoError(t, err)
				assert.Equal(t, want, info.Status, "status of %s", name)
				if want == status.StatusFailed {
					assert.Error(t, info.Error)
				}
			}
			for name, want := range tt.wantMatches {
				info, err := opts.StatusMgr.GetFileInfo(ctx, name)
				require.NoError(t, err)
				assert.Equal(t, want, info.Matches, "matches in %s", name)
				assert.NotEmpty(t, info.Checksum)
			}
			for _, name := range tt.wantBackups {
				_, err := opts.StatusMgr.GetFileInfo(ctx, name)
				assert.Error(t, err, "backups are not processed")
			}
		})
	}
}

func TestReplaceSkipsConfigFile(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".collsearch.yaml": "replacements:\n  - old: cafe\n    new: tea\n",
		"a.txt":            "cafe",
	})

	cfg, err := config.Load(ctx, filepath.Join(dir, ".collsearch.yaml"))
	require.NoError(t, err)
	cfg.Root = dir

	require.NoError(t, NewReplaceOperation(Options{Config: cfg}).Execute(ctx))

	assert.Equal(t, "tea", readFile(t, dir, "a.txt"))
	assert.Contains(t, readFile(t, dir, ".collsearch.yaml"), "old: cafe")
}

func TestReplaceOpenerFailure(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "cafe"})

	cfg := &config.Config{Root: dir, Replacements: []config.Replacement{{Old: "cafe", New: "tea"}}}
	opts := newOptions(t, cfg)
	opts.Open = func(locale string) (text.Handle, error) {
		return nil, errors.New("collator unavailable")
	}

	err := NewReplaceOperation(opts).Execute(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFilesFailed))

	info, err := opts.StatusMgr.GetFileInfo(ctx, "a.txt")
	require.NoError(t, err)
	assert.Contains(t, info.Error.Error(), "collator unavailable")
	assert.Equal(t, "cafe", readFile(t, dir, "a.txt"))
}

func TestReplaceConsoleOutput(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	ctx := testContext(t)
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "cafe", "b.txt": "tea"})

	var buf bytes.Buffer
	cfg := &config.Config{Root: dir, Replacements: []config.Replacement{{Old: "cafe", New: "tea"}}}
	opts := newOptions(t, cfg)
	opts.Console = log.NewWithZerolog(&buf, zerolog.Nop())

	require.NoError(t, NewReplaceOperation(opts).Execute(ctx))

	assert.Contains(t, buf.String(), "⟳ a.txt")
	assert.Contains(t, buf.String(), "1 replaced")
	assert.Contains(t, buf.String(), "- b.txt")

	processed, total := opts.StatusMgr.Progress()
	assert.Equal(t, 2, processed)
	assert.Equal(t, 2, total)
}

func TestFindOperation(t *testing.T) {
	tests := []struct {
		name        string
		files       map[string]string
		needle      string
		locale      string
		want        []FindResult
		errContains string
	}{
		{
			name: "first_match_per_file",
			files: map[string]string{
				"b.txt":     "Straße und STRASSE",
				"a.txt":     "und und",
				"c/none.md": "nothing",
			},
			needle: "und",
			want: []FindResult{
				{Path: "a.txt", Position: 1},
				{Path: "b.txt", Position: 8},
			},
		},
		{
			name: "locale_override",
			files: map[string]string{
				"a.txt": "Le CAFÉ",
			},
			needle: "cafe",
			locale: "fr-u-ks-level1",
			want:   []FindResult{{Path: "a.txt", Position: 4}},
		},
		{
			name:   "no_matches",
			files:  map[string]string{"a.txt": "abc"},
			needle: "xyz",
		},
		{
			name:        "empty_needle",
			files:       map[string]string{"a.txt": "abc"},
			errContains: "invalid search request",
		},
		{
			name:        "bad_locale",
			files:       map[string]string{"a.txt": "abc"},
			needle:      "a",
			locale:      "und-u-ks-level9",
			errContains: "opening collation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			dir := t.TempDir()
			writeTree(t, dir, tt.files)

			opts := newOptions(t, &config.Config{Root: dir})
			op := NewFindOperation(opts, tt.needle, tt.locale)

			err := op.Execute(ctx)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)

			if tt.want == nil {
				assert.Empty(t, op.Results())
			} else {
				assert.Equal(t, tt.want, op.Results())
			}
			for _, r := range tt.want {
				info, err := opts.StatusMgr.GetFileInfo(ctx, r.Path)
				require.NoError(t, err)
				assert.Equal(t, status.StatusMatched, info.Status)
				assert.Equal(t, r.Position, info.Matches)
			}
		})
	}
}

func TestListFiles(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.txt":        "",
		"a.txt.bak":    "",
		"docs/b.md":    "",
		"docs/c.txt":   "",
		"vendor/d.txt": "",
	})

	opts := newOptions(t, &config.Config{
		Root:    dir,
		Include: []string{"**/*.txt", "docs/*", "a.*"},
		Ignore:  []string{"vendor/**"},
	})
	base := NewBaseOperation(opts)

	files, err := base.listFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "docs/b.md", "docs/c.txt"}, files)
}

func TestNewBaseOperationDefaults(t *testing.T) {
	base := NewBaseOperation(Options{})
	require.NotNil(t, base.Config)
	require.NotNil(t, base.StatusMgr)
	require.NotNil(t, base.Open)
	assert.Equal(t, ".", base.StatusMgr.BaseDir())
}
