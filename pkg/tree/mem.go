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

package tree

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

var (
	_ Source = (*MemFS)(nil)
	_ Sink   = (*MemFS)(nil)
)

// MemFS is an in-memory Source and Sink
type MemFS struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemFS creates a MemFS seeded with files
func NewMemFS(files map[string]string) *MemFS {
	m := &MemFS{files: make(map[string][]byte, len(files))}
	for p, content := range files {
		m.files[Normalize(p)] = []byte(content)
	}
	return m
}

// NewMemTree creates a staged tree over a fresh MemFS seeded with files
func NewMemTree(files map[string]string) (*Staged, *MemFS) {
	fs := NewMemFS(files)
	return New(fs, fs, Options{}), fs
}

func (m *MemFS) ReadFile(ctx context.Context, p string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	content, ok := m.files[Normalize(p)]
	if !ok {
		return nil, notExist(p)
	}
	return bytes.Clone(content), nil
}

func (m *MemFS) FileExists(ctx context.Context, p string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.files[Normalize(p)]
	return ok, nil
}

func (m *MemFS) Glob(ctx context.Context, pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []string
	for p := range m.files {
		ok, err := doublestar.Match(pattern, p)
		if err != nil {
			return nil, errors.Errorf("matching %q: %w", pattern, err)
		}
		if ok {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemFS) WriteFileAtomic(ctx context.Context, p string, content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[Normalize(p)] = bytes.Clone(content)
	return nil
}

func (m *MemFS) BackupFile(ctx context.Context, p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p = Normalize(p)
	if content, ok := m.files[p]; ok {
		m.files[p+".bak"] = bytes.Clone(content)
	}
	return nil
}

// String returns the content of p, or the empty string
func (m *MemFS) String(p string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return string(m.files[Normalize(p)])
}

// Paths lists every file in the MemFS
func (m *MemFS) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
