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
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/ngmenu/pkg/config"
	"github.com/walteh/ngmenu/pkg/external"
	"github.com/walteh/ngmenu/pkg/html"
	"github.com/walteh/ngmenu/pkg/templates"
	"github.com/walteh/ngmenu/pkg/text"
	"github.com/walteh/ngmenu/pkg/tree"
	"github.com/walteh/ngmenu/pkg/tsast"
	"github.com/walteh/ngmenu/pkg/workspace"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrNoStylesheet = errors.Base("no global stylesheet found")
)

const (
	httpModulePath   = "@angular/common/http"
	appComponentHTML = "app.component.html"
	routerOutlet     = "<router-outlet></router-outlet>\n"
)

// StylesheetNames are tried in order inside the project source directory
var StylesheetNames = []string{"styles.scss", "styles.css"}

type headElement struct {
	label string
	html  string
}

var headElements = []headElement{
	{"Roboto font", `<link href="https://fonts.googleapis.com/css?family=Roboto:300,400,500&display=optional" rel="stylesheet" async defer>`},
	{"Open Sans font", `<link href="https://fonts.googleapis.com/css?family=Open+Sans:300,300i,400,400i,600,600i,700,700i,800,800i&display=optional" rel="stylesheet" async defer>`},
	{"font-awesome 4.7.0", `<link rel="stylesheet" href="https://stackpath.bootstrapcdn.com/font-awesome/4.7.0/css/font-awesome.min.css" async defer>`},
	{"jquery", `<script src="assets/js/jquery-latest.min.js" async defer></script>`},
}

// buildStyles are relative to the project source directory
var buildStyles = []string{
	"assets/webslidemenu/dropdown-effects/fade-down.css",
	"assets/webslidemenu/webslidemenu.css",
}

// stylesheetRules are formatted with the project's selector prefix
const stylesheetRules = `body {
  background-color: #333333;
  color: #f2f2f2;
}

%s-header {
  height: 103px;
  display: block;
  @media (min-width: 1200px) {}
  @media (min-width: 992px) and (max-width: 1199px) {}
  @media (min-width: 576px) and (max-width: 991px) {
    height: 54px;
  }
  @media (max-width: 575px) {
    height: 54px;
  }
}

router-outlet {
  padding-bottom: 80px;
}

`

// run holds the state of one generator invocation
type run struct {
	g        *Generator
	opts     Options
	project  *workspace.Project
	expander templates.Expander
	report   *Report
}

func (g *Generator) newRun(ctx context.Context, opts Options) (*run, error) {
	if opts.BootstrapVersion == "" {
		opts.BootstrapVersion = config.DefaultBootstrapVersion
	}
	if len(opts.MenuItems) == 0 {
		opts.MenuItems = templates.DefaultMenuItems
	}

	r := &run{g: g, opts: opts, expander: g.expander}
	if r.expander == nil {
		exp, err := templates.NewEmbeddedExpander(opts.SkipTemplates...)
		if err != nil {
			return nil, err
		}
		r.expander = exp
	}

	project, err := g.resolver.Project(ctx, opts.Project)
	if err != nil {
		return nil, errors.Errorf("resolving project: %w", err)
	}
	r.project = project

	files, err := r.resolveFiles(ctx)
	if err != nil {
		return nil, err
	}
	r.report = &Report{Project: project, Files: files}

	zerolog.Ctx(ctx).Debug().
		Str("project", project.Name).
		Str("path", files.Path).
		Str("module", files.Module).
		Str("index", files.Index).
		Str("styles", files.Styles).
		Msg("resolved files")
	return r, nil
}

// resolveFiles finds every file the chain touches. Only the routing module is
// optional.
func (r *run) resolveFiles(ctx context.Context) (Files, error) {
	t := r.g.tree

	dir := r.opts.Path
	if dir == "" {
		dir = workspace.DefaultPath(r.project)
	}
	dir = tree.Normalize(dir)

	files := Files{
		Path:  path.Dir(dir),
		Index: tree.Normalize(r.project.Index),
	}

	if r.opts.Module != "" {
		files.Module = tree.Normalize(r.opts.Module)
		if err := r.mustExist(ctx, files.Module); err != nil {
			return files, err
		}
	} else {
		module, err := workspace.FindModule(ctx, t, dir)
		if err != nil {
			return files, err
		}
		files.Module = module
	}

	moduleDir := path.Dir(files.Module)
	base := strings.TrimSuffix(path.Base(files.Module), ".module.ts")
	files.Routing = path.Join(moduleDir, base+workspace.RoutingModuleExt)
	files.AppComponent = path.Join(moduleDir, appComponentHTML)

	if err := r.mustExist(ctx, files.Index); err != nil {
		return files, err
	}
	if err := r.mustExist(ctx, files.AppComponent); err != nil {
		return files, err
	}

	for _, name := range StylesheetNames {
		candidate := path.Join(r.project.SourceDir(), name)
		exists, err := t.Exists(ctx, candidate)
		if err != nil {
			return files, errors.Errorf("checking %s: %w", candidate, err)
		}
		if exists {
			files.Styles = candidate
			break
		}
	}
	if files.Styles == "" {
		return files, errors.Errorf("%w in %s (tried %s)", ErrNoStylesheet, r.project.SourceDir(), strings.Join(StylesheetNames, ", "))
	}

	return files, nil
}

func (r *run) mustExist(ctx context.Context, p string) error {
	exists, err := r.g.tree.Exists(ctx, p)
	if err != nil {
		return errors.Errorf("checking %s: %w", p, err)
	}
	if !exists {
		return errors.Errorf("file %s %w", p, tree.ErrNotExist)
	}
	return nil
}

// execute runs every step in order, stopping at the first error
func (r *run) execute(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"module", r.updateModule},
		{"templates", r.expandTemplates},
		{"head", r.updateHead},
		{"body", r.wrapBody},
		{"add-ons", r.recordAddOns},
		{"stylesheet", r.prependStyles},
		{"build styles", r.addBuildStyles},
		{"app component", r.updateAppComponent},
		{"routes", r.addRoutes},
	}
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("cancelled before %s: %w", s.name, err)
		}
		if err := s.fn(ctx); err != nil {
			return errors.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (r *run) record(step Step) {
	r.report.Steps = append(r.report.Steps, step)
	u := r.g.user
	if u == nil {
		return
	}
	if step.Reason != "" {
		u.LogSkip(step.Name, step.Reason)
		return
	}
	u.LogStep(step.Name, step.Applied, step.Detail)
}

func (r *run) read(ctx context.Context, p string) (string, error) {
	data, err := r.g.tree.Read(ctx, p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *run) write(ctx context.Context, p, content string) error {
	return r.g.tree.Overwrite(ctx, p, []byte(content))
}

// relativeTo is the import path of an artifact as seen from file
func (r *run) relativeTo(file string, a templates.Artifact) string {
	return workspace.BuildRelativePath(file, a.In(r.report.Files.Path))
}

// 📦 updateModule declares the components, imports the http module and
// provides the services and the loading interceptor
func (r *run) updateModule(ctx context.Context) error {
	modulePath := r.report.Files.Module
	content, err := r.read(ctx, modulePath)
	if err != nil {
		return err
	}

	mod, err := tsast.ParseModule(ctx, modulePath, content)
	if err != nil {
		return err
	}

	for _, c := range templates.Components {
		mod.AddDeclaration(c.Symbol, r.relativeTo(modulePath, c))
	}
	mod.AddImport("HttpClientModule", httpModulePath)
	for _, s := range templates.Services {
		mod.AddProvider(s.Symbol, tsast.Symbol{Name: s.Symbol, Path: r.relativeTo(modulePath, s)})
	}
	interceptor := templates.LoadingInterceptor
	mod.AddProvider(
		fmt.Sprintf("{ provide: HTTP_INTERCEPTORS, useClass: %s, multi: true }", interceptor.Symbol),
		tsast.Symbol{Name: "HTTP_INTERCEPTORS", Path: httpModulePath},
		tsast.Symbol{Name: interceptor.Symbol, Path: r.relativeTo(modulePath, interceptor)},
	)

	out, err := mod.Apply(ctx)
	if err != nil {
		return err
	}
	if err := r.write(ctx, modulePath, out); err != nil {
		return err
	}

	for _, key := range []string{tsast.Declarations, tsast.Imports, tsast.Providers} {
		r.record(Step{
			Name:    "module " + key,
			File:    modulePath,
			Applied: true,
			Detail:  strings.Join(mod.Pending(key), ", "),
		})
	}
	return nil
}

// 🧩 expandTemplates renders the template set under the resolved path
func (r *run) expandTemplates(ctx context.Context) error {
	res, err := r.expander.Expand(ctx, r.g.tree, r.report.Files.Path, templates.Data{
		Project:   r.project.Name,
		Prefix:    r.project.Prefix,
		MenuItems: r.opts.MenuItems,
	})
	if err != nil {
		return err
	}
	r.report.Templates = res
	r.record(Step{
		Name:    "templates",
		File:    r.report.Files.Path,
		Applied: true,
		Detail:  fmt.Sprintf("%d created, %d skipped", len(res.Created), len(res.Skipped)),
	})
	return nil
}

// 🔗 updateHead appends the font, icon and script elements to <head>
func (r *run) updateHead(ctx context.Context) error {
	index := r.report.Files.Index
	content, err := r.read(ctx, index)
	if err != nil {
		return err
	}

	for _, el := range headElements {
		step := Step{Name: "head " + el.label, File: index}
		if strings.Contains(content, el.html) {
			step.Reason = "already present"
			r.record(step)
			continue
		}
		res, err := html.AppendToHead(ctx, content, el.html)
		if err != nil {
			return err
		}
		step.Applied = res.Applied
		content = res.Content
		r.record(step)
	}
	return r.write(ctx, index, content)
}

// 📐 wrapBody wraps the shell body in the container element
func (r *run) wrapBody(ctx context.Context) error {
	index := r.report.Files.Index
	content, err := r.read(ctx, index)
	if err != nil {
		return err
	}

	opened, closed, err := html.WrapBody(ctx, content)
	if err != nil {
		return err
	}
	r.record(Step{Name: "body wrapper open", File: index, Applied: opened.Applied, Detail: "<body>"})
	r.record(Step{Name: "body wrapper close", File: index, Applied: closed.Applied, Detail: "</body>"})
	return r.write(ctx, index, closed.Content)
}

// 📦 recordAddOns queues the external add-ons; they run after the commit
func (r *run) recordAddOns(ctx context.Context) error {
	r.report.Invocations = append(r.report.Invocations, external.Bootstrap(r.opts.BootstrapVersion))
	if r.opts.InstallAuth {
		r.report.Invocations = append(r.report.Invocations, external.Auth(r.project.Name))
	}

	names := make([]string, 0, len(r.report.Invocations))
	for _, inv := range r.report.Invocations {
		names = append(names, inv.Collection)
	}
	r.record(Step{Name: "add-ons", Applied: true, Detail: strings.Join(names, ", ")})
	return nil
}

// 🎨 prependStyles puts the menu rules at the top of the global stylesheet
func (r *run) prependStyles(ctx context.Context) error {
	styles := r.report.Files.Styles
	content, err := r.read(ctx, styles)
	if err != nil {
		return err
	}
	res := text.Prepend(content, fmt.Sprintf(stylesheetRules, r.project.Prefix))
	r.record(Step{Name: "stylesheet rules", File: styles, Applied: res.Applied})
	return r.write(ctx, styles, res.Content)
}

// 🎨 addBuildStyles lists the menu stylesheets in the workspace build options
func (r *run) addBuildStyles(ctx context.Context) error {
	for _, rel := range buildStyles {
		style := path.Join(r.project.SourceDir(), rel)
		step := Step{Name: "build style " + style, File: r.project.WorkspaceFile}
		if slices.Contains(r.project.Styles, style) {
			step.Reason = "already listed"
			r.record(step)
			continue
		}
		res, err := workspace.AddBuildStyle(ctx, r.g.tree, r.project, style)
		if err != nil {
			return err
		}
		step.Applied = res.Applied
		r.record(step)
	}
	return nil
}

// 🏠 updateAppComponent puts the header before and the footer, loading and
// modal tags after the app component markup
func (r *run) updateAppComponent(ctx context.Context) error {
	file := r.report.Files.AppComponent
	content, err := r.read(ctx, file)
	if err != nil {
		return err
	}

	if r.opts.RemoveAppComponentHTML {
		content = routerOutlet
		r.record(Step{Name: "strip app component markup", File: file, Applied: true})
	}

	tag := func(name string) string {
		el := r.project.Prefix + "-" + name
		return "<" + el + "></" + el + ">"
	}
	rules := []text.Rule{
		{Fragment: tag("header") + "\n", Placement: text.PlacePrepend},
		{Fragment: "\n" + tag("footer") + "\n" + tag("loading") + "\n" + tag("modal") + "\n", Placement: text.PlaceAppend},
	}

	splicer := text.NewSplicer()
	if err := splicer.ValidateRules(rules); err != nil {
		return err
	}
	res, err := splicer.Apply(ctx, strings.NewReader(content), rules)
	if err != nil {
		return err
	}
	r.record(Step{Name: "app component tags", File: file, Applied: res.WasModified, Detail: fmt.Sprintf("%d inserted", res.AppliedCount)})
	return r.write(ctx, file, string(res.ModifiedContent))
}

// 🛣️ addRoutes inserts the home redirect and route at the start of the
// routes array
func (r *run) addRoutes(ctx context.Context) error {
	file := r.report.Files.Routing
	step := Step{Name: "routes", File: file}

	exists, err := r.g.tree.Exists(ctx, file)
	if err != nil {
		return errors.Errorf("checking %s: %w", file, err)
	}
	if !exists {
		step.Detail = "no routing module"
		r.record(step)
		return nil
	}

	content, err := r.read(ctx, file)
	if err != nil {
		return err
	}
	routing, err := tsast.ParseRouting(ctx, file, content)
	if errors.Is(err, tsast.ErrNoRoutes) {
		step.Detail = "no routes array"
		r.record(step)
		return nil
	}
	if err != nil {
		return err
	}

	home := templates.HomeComponent
	routing.AddRoute("{ path: '', redirectTo: 'home', pathMatch: 'full' }")
	routing.AddRoute(
		fmt.Sprintf("{ path: 'home', component: %s }", home.Symbol),
		tsast.Symbol{Name: home.Symbol, Path: r.relativeTo(file, home)},
	)

	out, err := routing.Apply(ctx)
	if err != nil {
		return err
	}
	step.Applied = true
	step.Detail = "'' -> home, home -> " + home.Symbol
	r.record(step)
	return r.write(ctx, file, out)
}
