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

// Package workspace resolves project metadata from an Angular workspace file.
package workspace

import (
	"context"
	"encoding/json"
	"path"
	"sort"

	"github.com/rs/zerolog"
	"github.com/walteh/ngmenu/pkg/tree"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrNoWorkspace       = errors.Base("not an angular workspace: angular.json not found")
	ErrProjectRequired   = errors.Base(`option "project" is required`)
	ErrProjectNotDefined = errors.Base("project is not defined in this workspace")
	ErrProjectType       = errors.Base(`project type must be "application"`)
)

// WorkspaceFiles are the workspace file names tried in order
var WorkspaceFiles = []string{"angular.json", ".angular.json"}

const (
	ProjectTypeApplication = "application"
	DefaultIndex           = "src/index.html"
)

// 📦 Project is the subset of a workspace project the generator needs
type Project struct {
	Name          string
	Root          string
	SourceRoot    string
	ProjectType   string
	Prefix        string
	Index         string
	Styles        []string
	WorkspaceFile string
}

// Resolver resolves project metadata by name
type Resolver interface {
	Project(ctx context.Context, name string) (*Project, error)
}

type workspaceFile struct {
	DefaultProject string                      `json:"defaultProject"`
	Projects       map[string]workspaceProject `json:"projects"`
}

type workspaceProject struct {
	Root        string                     `json:"root"`
	SourceRoot  string                     `json:"sourceRoot"`
	ProjectType string                     `json:"projectType"`
	Prefix      string                     `json:"prefix"`
	Architect   map[string]architectTarget `json:"architect"`
	Targets     map[string]architectTarget `json:"targets"`
}

type architectTarget struct {
	Options struct {
		Index  json.RawMessage   `json:"index"`
		Styles []json.RawMessage `json:"styles"`
	} `json:"options"`
}

var _ Resolver = (*AngularResolver)(nil)

// 🔍 AngularResolver reads projects from angular.json in a tree
type AngularResolver struct {
	tree tree.Tree
}

func NewAngularResolver(t tree.Tree) *AngularResolver {
	return &AngularResolver{tree: t}
}

func (r *AngularResolver) load(ctx context.Context) (*workspaceFile, string, error) {
	for _, name := range WorkspaceFiles {
		exists, err := r.tree.Exists(ctx, name)
		if err != nil {
			return nil, "", errors.Errorf("checking %s: %w", name, err)
		}
		if !exists {
			continue
		}
		data, err := r.tree.Read(ctx, name)
		if err != nil {
			return nil, "", err
		}
		var ws workspaceFile
		if err := json.Unmarshal(data, &ws); err != nil {
			return nil, "", errors.Errorf("parsing %s: %w", name, err)
		}
		return &ws, name, nil
	}
	return nil, "", ErrNoWorkspace
}

// Project returns the named project. An empty name selects the workspace's
// default project, or its only project.
func (r *AngularResolver) Project(ctx context.Context, name string) (*Project, error) {
	logger := zerolog.Ctx(ctx)

	ws, file, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = ws.DefaultProject
	}
	if name == "" && len(ws.Projects) == 1 {
		for n := range ws.Projects {
			name = n
		}
	}
	if name == "" {
		return nil, ErrProjectRequired
	}

	wp, ok := ws.Projects[name]
	if !ok {
		return nil, errors.Errorf("%w: %s", ErrProjectNotDefined, name)
	}
	if wp.ProjectType != ProjectTypeApplication {
		return nil, errors.Errorf("%w: %s is %q", ErrProjectType, name, wp.ProjectType)
	}

	proj := &Project{
		Name:          name,
		Root:          wp.Root,
		SourceRoot:    wp.SourceRoot,
		ProjectType:   wp.ProjectType,
		Prefix:        wp.Prefix,
		Index:         DefaultIndex,
		WorkspaceFile: file,
	}
	if proj.Prefix == "" {
		proj.Prefix = "app"
	}

	build, ok := wp.Architect["build"]
	if !ok {
		build = wp.Targets["build"]
	}
	var index string
	if len(build.Options.Index) > 0 && json.Unmarshal(build.Options.Index, &index) == nil && index != "" {
		proj.Index = index
	}
	for _, raw := range build.Options.Styles {
		if s := styleInput(raw); s != "" {
			proj.Styles = append(proj.Styles, s)
		}
	}

	logger.Debug().Str("project", name).Str("workspace", file).Str("index", proj.Index).Msg("resolved project")
	return proj, nil
}

// Projects lists the project names in the workspace
func (r *AngularResolver) Projects(ctx context.Context) ([]string, error) {
	ws, _, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ws.Projects))
	for n := range ws.Projects {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// styleInput reads a styles entry, either "path" or {"input": "path"}
func styleInput(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Input string `json:"input"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return obj.Input
	}
	return ""
}

// 📂 DefaultPath is the directory new application code goes into when no
// path is given: <sourceRoot>/app, or <root>/src/app.
func DefaultPath(p *Project) string {
	root := p.SourceRoot
	if root == "" {
		root = path.Join(p.Root, "src")
	}
	return tree.Normalize(path.Join(root, "app"))
}

// SourceDir returns the project's source directory
func (p *Project) SourceDir() string {
	if p.SourceRoot != "" {
		return tree.Normalize(p.SourceRoot)
	}
	return tree.Normalize(path.Join(p.Root, "src"))
}
