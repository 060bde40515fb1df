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

// Package tree stages file edits in memory and commits them in one pass.
//
// Every read goes through the staged copy first, so later steps see the
// effects of earlier ones. Nothing reaches the underlying storage until
// Commit is called.
package tree

import (
	"bytes"
	"context"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/ngmenu/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrNotExist = errors.Base("does not exist")
	ErrExist    = errors.Base("already exists")
)

// Source is where a tree reads original content from
type Source interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	FileExists(ctx context.Context, path string) (bool, error)
	Glob(ctx context.Context, pattern string) ([]string, error)
}

// Sink is where a tree commits staged content to
type Sink interface {
	WriteFileAtomic(ctx context.Context, path string, content []byte) error
	BackupFile(ctx context.Context, path string) error
}

// 🌳 Tree is a project file tree with staged writes
type Tree interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) (bool, error)
	Glob(ctx context.Context, pattern string) ([]string, error)

	// Overwrite replaces the content of an existing file
	Overwrite(ctx context.Context, path string, content []byte) error
	// Create adds a file that must not exist yet
	Create(ctx context.Context, path string, content []byte) error

	Changes() []Change
	Commit(ctx context.Context) ([]status.FileInfo, error)
}

// 📄 Change is one staged file
type Change struct {
	Path     string
	Original []byte // nil when the file is new
	Content  []byte
	Existed  bool
}

// Modified reports whether committing the change would alter the file
func (c Change) Modified() bool {
	return !c.Existed || !bytes.Equal(c.Original, c.Content)
}

// Options configures a staged tree
type Options struct {
	Backup   bool                  // copy existing files to <path>.bak before writing
	Reporter status.CommitReporter // optional, receives one record per committed file
}

var _ Tree = (*Staged)(nil)

// Staged is the Tree implementation shared by the disk and memory trees
type Staged struct {
	source Source
	sink   Sink
	opts   Options

	mu     sync.Mutex
	staged map[string]*Change
}

// New creates a staged tree over source, committing into sink
func New(source Source, sink Sink, opts Options) *Staged {
	return &Staged{
		source: source,
		sink:   sink,
		opts:   opts,
		staged: make(map[string]*Change),
	}
}

// NewDiskTree stages edits over the files managed by mgr
func NewDiskTree(mgr *status.Manager, backup bool) *Staged {
	return New(mgr, mgr, Options{Backup: backup, Reporter: mgr})
}

// Normalize turns a user or workspace path into the tree's slash-separated
// relative form
func Normalize(p string) string {
	p = strings.TrimLeft(filepath.ToSlash(p), "/")
	if p == "" {
		return "."
	}
	return path.Clean(p)
}

func notExist(p string) error {
	return errors.Errorf("file %s %w", p, ErrNotExist)
}

func (t *Staged) Read(ctx context.Context, p string) ([]byte, error) {
	p = Normalize(p)

	t.mu.Lock()
	change, ok := t.staged[p]
	t.mu.Unlock()
	if ok {
		return bytes.Clone(change.Content), nil
	}

	exists, err := t.source.FileExists(ctx, p)
	if err != nil {
		return nil, errors.Errorf("checking %s: %w", p, err)
	}
	if !exists {
		return nil, notExist(p)
	}
	content, err := t.source.ReadFile(ctx, p)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", p, err)
	}
	return content, nil
}

func (t *Staged) Exists(ctx context.Context, p string) (bool, error) {
	p = Normalize(p)

	t.mu.Lock()
	_, ok := t.staged[p]
	t.mu.Unlock()
	if ok {
		return true, nil
	}
	return t.source.FileExists(ctx, p)
}

// Glob matches pattern against both the source and the staged files
func (t *Staged) Glob(ctx context.Context, pattern string) ([]string, error) {
	matches, err := t.source.Glob(ctx, pattern)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		seen[Normalize(m)] = true
	}

	t.mu.Lock()
	for p := range t.staged {
		if seen[p] {
			continue
		}
		ok, err := doublestar.Match(pattern, p)
		if err != nil {
			t.mu.Unlock()
			return nil, errors.Errorf("matching %q: %w", pattern, err)
		}
		if ok {
			seen[p] = true
		}
	}
	t.mu.Unlock()

	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

func (t *Staged) Overwrite(ctx context.Context, p string, content []byte) error {
	p = Normalize(p)

	t.mu.Lock()
	if change, ok := t.staged[p]; ok {
		change.Content = bytes.Clone(content)
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	original, err := t.Read(ctx, p)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.staged[p] = &Change{Path: p, Original: original, Content: bytes.Clone(content), Existed: true}
	zerolog.Ctx(ctx).Debug().Str("path", p).Int("bytes", len(content)).Msg("staged overwrite")
	return nil
}

func (t *Staged) Create(ctx context.Context, p string, content []byte) error {
	p = Normalize(p)

	exists, err := t.Exists(ctx, p)
	if err != nil {
		return errors.Errorf("checking %s: %w", p, err)
	}
	if exists {
		return errors.Errorf("file %s %w", p, ErrExist)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.staged[p] = &Change{Path: p, Content: bytes.Clone(content)}
	zerolog.Ctx(ctx).Debug().Str("path", p).Int("bytes", len(content)).Msg("staged create")
	return nil
}

// Changes returns every staged file ordered by path
func (t *Staged) Changes() []Change {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Change, 0, len(t.staged))
	for _, c := range t.staged {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Commit writes every modified staged file to the sink. Staged files whose
// content did not change are reported as unchanged and not written. Nothing
// is written when ctx is already done; once started, a commit runs to the end.
func (t *Staged) Commit(ctx context.Context) ([]status.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("commit not started: %w", err)
	}

	logger := zerolog.Ctx(ctx)
	changes := t.Changes()

	if t.opts.Reporter != nil {
		t.opts.Reporter.BeginCommit(ctx, len(changes))
		defer t.opts.Reporter.EndCommit(ctx)
	}

	infos := make([]status.FileInfo, 0, len(changes))
	for _, c := range changes {
		info := status.FileInfo{
			Path:     c.Path,
			Size:     int64(len(c.Content)),
			Checksum: status.Checksum(c.Content),
		}

		switch {
		case !c.Modified():
			info.Status = status.StatusUnchanged
		default:
			if c.Existed && t.opts.Backup {
				if err := t.sink.BackupFile(ctx, c.Path); err != nil {
					return infos, errors.Errorf("backing up %s: %w", c.Path, err)
				}
			}
			if err := t.sink.WriteFileAtomic(ctx, c.Path, c.Content); err != nil {
				return infos, errors.Errorf("writing %s: %w", c.Path, err)
			}
			info.Status = status.StatusModified
			if !c.Existed {
				info.Status = status.StatusNew
			}
		}

		logger.Debug().Str("path", c.Path).Str("status", info.Status.String()).Msg("committed")
		if t.opts.Reporter != nil {
			t.opts.Reporter.RecordFile(ctx, info)
		}
		infos = append(infos, info)
	}

	t.mu.Lock()
	t.staged = make(map[string]*Change)
	t.mu.Unlock()

	return infos, nil
}
