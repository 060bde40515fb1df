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

	"github.com/rs/zerolog"
	"github.com/walteh/ngmenu/pkg/external"
	"github.com/walteh/ngmenu/pkg/status"
	"github.com/walteh/ngmenu/pkg/templates"
	"github.com/walteh/ngmenu/pkg/tree"
	"github.com/walteh/ngmenu/pkg/workspace"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options are the generator inputs
type Options struct {
	// Project is the workspace project name, empty for the default project
	Project string
	// Path overrides the directory the app code lives in (default <sourceRoot>/app)
	Path string
	// Module overrides the module file, otherwise it is searched from Path
	Module string
	// RemoveAppComponentHTML replaces the app component markup with a router outlet
	RemoveAppComponentHTML bool
	// InstallAuth also runs the authentication add-on
	InstallAuth bool
	// BootstrapVersion is passed to the UI bootstrap add-on
	BootstrapVersion string
	// SkipTemplates are doublestar globs of template files not to expand
	SkipTemplates []string
	// MenuItems are the header entries rendered into the templates
	MenuItems []string
}

// 📂 Files are the paths a run resolved, relative to the workspace
type Files struct {
	Path         string // directory the app/ templates are expanded into
	Module       string
	Routing      string
	Index        string
	Styles       string
	AppComponent string
}

// 🧩 Step is the outcome of one mutation
type Step struct {
	Name    string
	File    string
	Applied bool
	Detail  string
	Reason  string // set when the step was left out on purpose
}

// 📋 Report describes everything a run did
type Report struct {
	Project     *workspace.Project
	Files       Files
	Steps       []Step
	Templates   *templates.Result
	Invocations []external.Invocation
	Committed   []status.FileInfo
	Changes     []tree.Change
}

// Missed returns the steps whose anchor was not found
func (r *Report) Missed() []Step {
	var out []Step
	for _, s := range r.Steps {
		if !s.Applied && s.Reason == "" {
			out = append(out, s)
		}
	}
	return out
}

// StepsFor returns the steps that touched file
func (r *Report) StepsFor(file string) []Step {
	var out []Step
	for _, s := range r.Steps {
		if s.File == file {
			out = append(out, s)
		}
	}
	return out
}

// 🎯 Operator runs the generator
type Operator interface {
	// Plan stages every edit without writing anything
	Plan(ctx context.Context, opts Options) (*Report, error)
	// Run stages, commits and runs the external add-ons
	Run(ctx context.Context, opts Options) (*Report, error)
}

// 🔌 Deps are the collaborators a Generator works with
type Deps struct {
	// Tree is the project file tree (required)
	Tree tree.Tree
	// Runner runs external add-ons (required)
	Runner external.Runner
	// Resolver defaults to an AngularResolver over Tree
	Resolver workspace.Resolver
	// Expander defaults to the embedded template set
	Expander templates.Expander
	// User receives step feedback, optional
	User *status.UserLogger
}

var _ Operator = (*Generator)(nil)

// 🏭 Generator applies the responsive menu chain to a project
type Generator struct {
	tree     tree.Tree
	runner   external.Runner
	resolver workspace.Resolver
	expander templates.Expander
	user     *status.UserLogger
}

// 🏗️ New creates a generator from deps
func New(deps Deps) (*Generator, error) {
	if deps.Tree == nil {
		return nil, errors.Errorf("tree is required")
	}
	if deps.Runner == nil {
		return nil, errors.Errorf("external runner is required")
	}
	g := &Generator{
		tree:     deps.Tree,
		runner:   deps.Runner,
		resolver: deps.Resolver,
		expander: deps.Expander,
		user:     deps.User,
	}
	if g.resolver == nil {
		g.resolver = workspace.NewAngularResolver(deps.Tree)
	}
	return g, nil
}

// Plan stages every edit into the tree and returns the report with the
// staged changes. Nothing is written and no add-on runs.
func (g *Generator) Plan(ctx context.Context, opts Options) (*Report, error) {
	r, err := g.newRun(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := r.execute(ctx); err != nil {
		return r.report, err
	}
	r.report.Changes = g.tree.Changes()
	return r.report, nil
}

// Run plans, commits the tree and then runs the recorded add-ons in order.
// An add-on failure is returned after the files are already written.
func (g *Generator) Run(ctx context.Context, opts Options) (*Report, error) {
	logger := zerolog.Ctx(ctx)

	report, err := g.Plan(ctx, opts)
	if err != nil {
		return report, err
	}

	committed, err := g.tree.Commit(ctx)
	report.Committed = committed
	if err != nil {
		return report, errors.Errorf("committing changes: %w", err)
	}
	if g.user != nil {
		for _, info := range committed {
			g.user.LogFileChange(info)
		}
	}
	logger.Debug().Int("files", len(committed)).Msg("committed changes")

	for _, inv := range report.Invocations {
		err := g.runner.Run(ctx, inv)
		if g.user != nil {
			g.user.LogInvocation(inv.String(), err)
		}
		if err != nil {
			return report, errors.Errorf("running add-on: %w", err)
		}
	}
	return report, nil
}
