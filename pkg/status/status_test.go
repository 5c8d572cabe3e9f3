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
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	return New(t.TempDir(), &logger), &buf
}

func TestFileOperations(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T, dir string)
		operation   func(ctx context.Context, mgr *Manager) error
		check       func(t *testing.T, dir string)
		errContains string
	}{
		{
			name: "atomic_write_creates_file",
			operation: func(ctx context.Context, mgr *Manager) error {
				return mgr.WriteFileAtomic(ctx, "out.txt", []byte("hello"))
			},
			check: func(t *testing.T, dir string) {
				data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
				require.NoError(t, err)
				assert.Equal(t, "hello", string(data))
			},
		},
		{
			name: "atomic_write_keeps_mode",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "run.sh"), []byte("old"), 0o755))
			},
			operation: func(ctx context.Context, mgr *Manager) error {
				return mgr.WriteFileAtomic(ctx, "run.sh", []byte("new"))
			},
			check: func(t *testing.T, dir string) {
				info, err := os.Stat(filepath.Join(dir, "run.sh"))
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
			},
		},
		{
			name: "atomic_write_leaves_no_temp_files",
			operation: func(ctx context.Context, mgr *Manager) error {
				return mgr.WriteFileAtomic(ctx, "a.txt", []byte("x"))
			},
			check: func(t *testing.T, dir string) {
				entries, err := os.ReadDir(dir)
				require.NoError(t, err)
				require.Len(t, entries, 1)
				assert.Equal(t, "a.txt", entries[0].Name())
			},
		},
		{
			name: "atomic_write_missing_dir",
			operation: func(ctx context.Context, mgr *Manager) error {
				return mgr.WriteFileAtomic(ctx, "nope/a.txt", []byte("x"))
			},
			errContains: "creating temp file",
		},
		{
			name: "backup_and_restore",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("original"), 0o644))
			},
			operation: func(ctx context.Context, mgr *Manager) error {
				if err := mgr.BackupFile(ctx, "a.txt"); err != nil {
					return err
				}
				if err := mgr.WriteFileAtomic(ctx, "a.txt", []byte("changed")); err != nil {
					return err
				}
				return mgr.RestoreFile(ctx, "a.txt")
			},
			check: func(t *testing.T, dir string) {
				data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
				require.NoError(t, err)
				assert.Equal(t, "original", string(data))
				assert.NoFileExists(t, filepath.Join(dir, "a.txt.bak"))
			},
		},
		{
			name: "backup_missing_file_is_noop",
			operation: func(ctx context.Context, mgr *Manager) error {
				return mgr.BackupFile(ctx, "ghost.txt")
			},
			check: func(t *testing.T, dir string) {
				assert.NoFileExists(t, filepath.Join(dir, "ghost.txt.bak"))
			},
		},
		{
			name: "restore_without_backup",
			operation: func(ctx context.Context, mgr *Manager) error {
				return mgr.RestoreFile(ctx, "a.txt")
			},
			errContains: "backup file does not exist",
		},
		{
			name: "read_missing_file",
			operation: func(ctx context.Context, mgr *Manager) error {
				_, err := mgr.ReadFile(ctx, "missing.txt")
				return err
			},
			errContains: "reading file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mgr, _ := newTestManager(t)

			if tt.setup != nil {
				tt.setup(t, mgr.BaseDir())
			}

			err := tt.operation(ctx, mgr)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, mgr.BaseDir())
			}
		})
	}
}

func TestFileExists(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager(t)

	ok, err := mgr.FileExists(ctx, "a.txt")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mgr.WriteFileAtomic(ctx, "a.txt", nil))
	ok, err = mgr.FileExists(ctx, "a.txt")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTracking(t *testing.T) {
	ctx := context.Background()
	mgr, buf := newTestManager(t)

	mgr.TrackFile(ctx, FileInfo{Path: "b.txt", Status: StatusModified, Matches: 3})
	mgr.TrackFile(ctx, FileInfo{Path: "a.txt", Status: StatusUnchanged})
	mgr.TrackFile(ctx, FileInfo{Path: "c.txt", Status: StatusFailed, Error: errors.New("boom")})

	files := mgr.ListFiles(ctx)
	require.Len(t, files, 3)
	assert.Equal(t, "a.txt", files[0].Path, "files should be sorted by path")
	assert.Equal(t, "c.txt", files[2].Path)

	info, err := mgr.GetFileInfo(ctx, "b.txt")
	require.NoError(t, err)
	assert.Equal(t, 3, info.Matches)

	_, err = mgr.GetFileInfo(ctx, "zzz.txt")
	require.Error(t, err)

	assert.Equal(t, map[FileStatus]int{StatusModified: 1, StatusUnchanged: 1, StatusFailed: 1}, mgr.Counts())

	out := buf.String()
	assert.Contains(t, out, "📝 Modified b.txt (3 replaced)")
	assert.Contains(t, out, "❌ Error in c.txt: boom")
}

func TestProgressIsConcurrencySafe(t *testing.T) {
	ctx := context.Background()
	mgr, buf := newTestManager(t)

	mgr.StartOperation(ctx, 50)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mgr.Advance(ctx)
		}()
	}
	wg.Wait()
	mgr.FinishOperation(ctx)

	processed, total := mgr.Progress()
	assert.Equal(t, 50, processed)
	assert.Equal(t, 50, total)
	assert.Contains(t, buf.String(), "✅ Progress: 50/50 (100%)")
}

func TestNilLogger(t *testing.T) {
	mgr := New(t.TempDir(), nil)
	assert.NotPanics(t, func() {
		mgr.TrackFile(context.Background(), FileInfo{Path: "a", Status: StatusMatched, Matches: 1})
	})
}

func TestChecksum(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Checksum(nil))
	assert.NotEqual(t, Checksum([]byte("a")), Checksum([]byte("b")))
}
