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

// Package templates expands the bundled component and service templates into
// a project tree.
package templates

import (
	"bytes"
	"context"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/ngmenu/pkg/tree"
	"gitlab.com/tozd/go/errors"
)

//go:embed files
var filesFS embed.FS

const (
	filesRoot = "files"
	tmplExt   = ".tmpl"
)

// Data is the context every template is rendered with
type Data struct {
	Project   string
	Prefix    string
	MenuItems []string
}

// Result lists what an expansion did, by tree path
type Result struct {
	Created []string
	Skipped []string
}

// Expander expands a template set into dest
type Expander interface {
	Expand(ctx context.Context, t tree.Tree, dest string, data Data) (*Result, error)
}

// FuncMap is the set of name helpers available to templates
var FuncMap = template.FuncMap{
	"classify":   Classify,
	"dasherize":  Dasherize,
	"camelize":   Camelize,
	"decamelize": Decamelize,
	"lower":      strings.ToLower,
	"upper":      strings.ToUpper,
}

var _ Expander = (*EmbeddedExpander)(nil)

// 📦 EmbeddedExpander renders templates from an fs.FS, the bundled set by default
type EmbeddedExpander struct {
	fsys fs.FS
	root string
	skip []string
}

// NewEmbeddedExpander returns an expander over the bundled templates. Any
// template whose output path matches one of the skip globs is not rendered.
func NewEmbeddedExpander(skip ...string) (*EmbeddedExpander, error) {
	return NewExpander(filesFS, filesRoot, skip...)
}

// NewExpander returns an expander over the templates below root in fsys
func NewExpander(fsys fs.FS, root string, skip ...string) (*EmbeddedExpander, error) {
	for _, pattern := range skip {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid skip pattern %q", pattern)
		}
	}
	return &EmbeddedExpander{fsys: fsys, root: root, skip: skip}, nil
}

// Files lists the output paths of every template, relative to dest
func (e *EmbeddedExpander) Files() ([]string, error) {
	var out []string
	err := fs.WalkDir(e.fsys, e.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, tmplExt) {
			return nil
		}
		rel := strings.TrimPrefix(strings.TrimSuffix(p, tmplExt), e.root+"/")
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking templates: %w", err)
	}
	sort.Strings(out)
	return out, nil
}

func (e *EmbeddedExpander) skipped(rel string) bool {
	for _, pattern := range e.skip {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// Expand renders every template into dest. Files that already exist in the
// tree are left alone and reported as skipped.
func (e *EmbeddedExpander) Expand(ctx context.Context, t tree.Tree, dest string, data Data) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	files, err := e.Files()
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, rel := range files {
		target := tree.Normalize(path.Join(dest, rel))

		if e.skipped(rel) {
			logger.Debug().Str("template", rel).Msg("template excluded by skip pattern")
			res.Skipped = append(res.Skipped, target)
			continue
		}

		exists, err := t.Exists(ctx, target)
		if err != nil {
			return res, errors.Errorf("checking %s: %w", target, err)
		}
		if exists {
			logger.Debug().Str("path", target).Msg("file already exists, skipping template")
			res.Skipped = append(res.Skipped, target)
			continue
		}

		content, err := e.render(rel, data)
		if err != nil {
			return res, err
		}
		if err := t.Create(ctx, target, content); err != nil {
			return res, errors.Errorf("creating %s: %w", target, err)
		}
		res.Created = append(res.Created, target)
	}

	logger.Debug().Int("created", len(res.Created)).Int("skipped", len(res.Skipped)).Str("dest", dest).Msg("expanded templates")
	return res, nil
}

func (e *EmbeddedExpander) render(rel string, data Data) ([]byte, error) {
	name := path.Join(e.root, rel+tmplExt)
	raw, err := fs.ReadFile(e.fsys, name)
	if err != nil {
		return nil, errors.Errorf("reading template %s: %w", rel, err)
	}

	tmpl, err := template.New(path.Base(name)).Funcs(FuncMap).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return nil, errors.Errorf("parsing template %s: %w", rel, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, errors.Errorf("rendering template %s: %w", rel, err)
	}
	return buf.Bytes(), nil
}
