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
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus is what a commit did to one project file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusNew                  // created by the run
	StatusModified             // rewritten with different content
	StatusUnchanged            // staged but identical to the original
	StatusSkipped              // left alone, e.g. a template target that already existed
)

func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// 📄 FileInfo describes one committed or skipped file, by workspace path
type FileInfo struct {
	Path     string
	Status   FileStatus
	Size     int64
	Checksum string
	Reason   string // why the file was skipped
	Error    error
}

// Summary counts committed files per status
type Summary struct {
	New       int
	Modified  int
	Unchanged int
	Skipped   int
}

// Total is the number of files in the summary
func (s Summary) Total() int {
	return s.New + s.Modified + s.Unchanged + s.Skipped
}

// 💾 FileManager reads and writes files relative to a workspace directory.
// Paths are slash separated.
type FileManager interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	FileExists(ctx context.Context, path string) (bool, error)
	Glob(ctx context.Context, pattern string) ([]string, error)
	WriteFileAtomic(ctx context.Context, path string, content []byte) error
	BackupFile(ctx context.Context, path string) error
}

// 📈 CommitReporter follows a commit file by file
type CommitReporter interface {
	BeginCommit(ctx context.Context, total int)
	RecordFile(ctx context.Context, info FileInfo)
	EndCommit(ctx context.Context)
}

var (
	_ FileManager    = (*Manager)(nil)
	_ CommitReporter = (*Manager)(nil)
)

// 🔧 Manager is the disk FileManager and CommitReporter for one workspace
type Manager struct {
	baseDir   string
	logger    *zerolog.Logger
	formatter FileFormatter

	mu       sync.RWMutex
	files    map[string]FileInfo
	total    int
	recorded int
}

// 🏭 New creates a manager rooted at baseDir
func New(baseDir string, logger *zerolog.Logger) *Manager {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Manager{
		baseDir:   filepath.Clean(baseDir),
		logger:    logger,
		formatter: NewDefaultFileFormatter(),
		files:     make(map[string]FileInfo),
	}
}

// BaseDir returns the workspace directory
func (m *Manager) BaseDir() string {
	return m.baseDir
}

func (m *Manager) abs(path string) string {
	return filepath.Join(m.baseDir, filepath.FromSlash(path))
}

// 🔍 Checksum is the hex SHA-256 of content
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// WriteFileAtomic writes through a temp file in the target directory and
// renames it into place. An existing file keeps its permissions.
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	target := m.abs(path)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Errorf("creating %s: %w", dir, err)
	}

	mode := fs.FileMode(0644)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file for %s: %w", path, err)
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.Errorf("closing temp file for %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		cleanup()
		return errors.Errorf("setting mode of %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		cleanup()
		return errors.Errorf("replacing %s: %w", path, err)
	}

	m.logger.Debug().Str("path", path).Int("bytes", len(content)).Msg("wrote file")
	return nil
}

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(m.abs(path))
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	return content, nil
}

// FileExists reports whether path is a regular file; directories are not
func (m *Manager) FileExists(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(m.abs(path))
	switch {
	case err == nil:
		return !info.IsDir(), nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, errors.Errorf("checking %s: %w", path, err)
	}
}

// Glob returns the files under the workspace matching a doublestar pattern
func (m *Manager) Glob(ctx context.Context, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(m.baseDir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("globbing %q: %w", pattern, err)
	}
	return matches, nil
}

// BackupFile copies path to <path>.bak with the same permissions. A missing
// file has nothing to back up.
func (m *Manager) BackupFile(ctx context.Context, path string) error {
	src := m.abs(path)
	info, err := os.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.Errorf("checking %s: %w", path, err)
	}

	content, err := os.ReadFile(src)
	if err != nil {
		return errors.Errorf("reading %s for backup: %w", path, err)
	}
	if err := os.WriteFile(src+".bak", content, info.Mode().Perm()); err != nil {
		return errors.Errorf("backing up %s: %w", path, err)
	}

	m.logger.Debug().Str("path", path).Msg("backed up file")
	return nil
}

// BeginCommit starts counting a commit of total files
func (m *Manager) BeginCommit(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.recorded = 0
	m.logger.Debug().Int("total", total).Msg(m.formatter.Progress(0, total))
}

// RecordFile stores the outcome for one file
func (m *Manager) RecordFile(ctx context.Context, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[info.Path] = info
	m.recorded++

	ev := m.logger.Info()
	if info.Error != nil {
		ev = m.logger.Error().Err(info.Error)
	}
	ev.Str("path", info.Path).
		Str("status", info.Status.String()).
		Str("progress", m.formatter.Progress(m.recorded, m.total)).
		Msg(m.formatter.Describe(info))
}

// EndCommit logs the per-status totals
func (m *Manager) EndCommit(ctx context.Context) {
	s := m.Summary()
	m.logger.Info().
		Int("new", s.New).
		Int("modified", s.Modified).
		Int("unchanged", s.Unchanged).
		Int("skipped", s.Skipped).
		Msg(m.formatter.Progress(s.Total(), s.Total()))
}

// Lookup returns the recorded outcome for path
func (m *Manager) Lookup(path string) (FileInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.files[path]
	return info, ok
}

// Files returns every recorded file ordered by path
func (m *Manager) Files() []FileInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// Summary counts the recorded files per status
func (m *Manager) Summary() Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var s Summary
	for _, info := range m.files {
		switch info.Status {
		case StatusNew:
			s.New++
		case StatusModified:
			s.Modified++
		case StatusUnchanged:
			s.Unchanged++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s
}
