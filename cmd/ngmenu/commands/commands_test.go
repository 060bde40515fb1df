package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/ngmenu/cmd/ngmenu/opts"
	"github.com/walteh/ngmenu/pkg/config"
	"github.com/walteh/ngmenu/pkg/external"
	"github.com/walteh/ngmenu/pkg/log"
	"github.com/walteh/ngmenu/pkg/operation"
	"github.com/walteh/ngmenu/pkg/status"
)

func testCtx(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func noStyling(t *testing.T) {
	color.NoColor = true
	pterm.DisableStyling()
	t.Cleanup(func() {
		color.NoColor = false
		pterm.EnableStyling()
	})
}

var workspaceFiles = map[string]string{
	"angular.json": `{
  "projects": {
    "demo": {
      "root": "",
      "sourceRoot": "src",
      "projectType": "application",
      "architect": { "build": { "options": { "styles": ["src/styles.css"] } } }
    }
  }
}
`,
	"src/index.html":             "<html>\n<head>\n  <title>Demo</title>\n</head>\n<body>\n  <app-root></app-root>\n</body>\n</html>\n",
	"src/styles.css":             "h1 { color: red; }\n",
	"src/app/app.component.html": "<h1>Demo</h1>\n",
	"src/app/app.module.ts": `import { NgModule } from '@angular/core';

@NgModule({
  declarations: [],
  imports: [],
  providers: [],
})
export class AppModule { }
`,
}

func writeWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for p, content := range workspaceFiles {
		full := filepath.Join(dir, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return dir
}

func readFile(t *testing.T, dir, p string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(p)))
	require.NoError(t, err)
	return string(data)
}

func newTestOpts(t *testing.T, dir string, out *bytes.Buffer) *opts.RootOpts {
	ctx := testCtx(t)
	return &opts.RootOpts{
		Dir:        dir,
		Config:     &config.Config{},
		Console:    log.New(out, zerolog.Nop()),
		UserLogger: status.NewUserLoggerTo(ctx, out),
		Out:        out,
	}
}

func TestRenderDiff(t *testing.T) {
	noStyling(t)

	tests := []struct {
		name   string
		before string
		after  string
		want   string
	}{
		{
			name:   "insert",
			before: "a\nb\nc\n",
			after:  "a\nX\nb\nc\n",
			want:   "--- f\n+++ f (+1 -0)\n a\n+X\n b\n c\n",
		},
		{
			name:   "replace",
			before: "a\nb\n",
			after:  "a\nc\n",
			want:   "--- f\n+++ f (+1 -1)\n a\n-b\n+c\n",
		},
		{
			name:   "collapsed_context",
			before: "l0\nl1\nl2\nl3\nl4\nl5\n",
			after:  "l0\nl1\nl2\nl3\nl4\nl5\nX\n",
			want:   "--- f\n+++ f (+1 -0)\n@@ 4 unchanged lines @@\n l4\n l5\n+X\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderDiff("f", tt.before, tt.after))
		})
	}
}

func TestMergeFlags(t *testing.T) {
	base := &config.Config{
		Project:          "demo",
		InstallAuth:      true,
		BootstrapVersion: "4.1.0",
		MenuItems:        []string{"home"},
	}

	cmd := &cobra.Command{}
	flags := &addFlags{}
	flags.register(cmd)
	require.NoError(t, cmd.Flags().Set("project", "shop"))
	require.NoError(t, cmd.Flags().Set("menu-item", "home,contactUs"))

	got := mergeFlags(cmd, base, flags)
	assert.Equal(t, "shop", got.Project)
	assert.Equal(t, []string{"home", "contactUs"}, got.MenuItems)
	assert.True(t, got.InstallAuth, "unset flags keep the config value")
	assert.Equal(t, "4.1.0", got.BootstrapVersion, "flag defaults do not override the config")
	assert.Equal(t, "demo", base.Project, "base is not modified")
}

func TestFileKind(t *testing.T) {
	files := operation.Files{
		Path:         "src",
		Module:       "src/app/app.module.ts",
		Routing:      "src/app/app-routing.module.ts",
		Index:        "src/index.html",
		Styles:       "src/styles.scss",
		AppComponent: "src/app/app.component.html",
	}
	tests := map[string]string{
		"src/app/app.module.ts":              "module",
		"src/app/app-routing.module.ts":      "routing",
		"src/index.html":                     "shell",
		"src/styles.scss":                    "stylesheet",
		"src/app/app.component.html":         "component",
		"angular.json":                       "workspace",
		"src/app/header/header.component.ts": "template",
		"README.md":                          "file",
	}
	for p, want := range tests {
		assert.Equal(t, want, fileKind(files, "angular.json", p), p)
	}
}

func TestAddCmd_DryRun(t *testing.T) {
	noStyling(t)

	dir := writeWorkspace(t)
	var out bytes.Buffer
	rootOpts := newTestOpts(t, dir, &out)

	cmd := NewAddCmd(rootOpts)
	cmd.SetArgs([]string{"--dry-run"})
	require.NoError(t, cmd.ExecuteContext(testCtx(t)))

	for p, content := range workspaceFiles {
		assert.Equal(t, content, readFile(t, dir, p), "%s is untouched", p)
	}
	_, err := os.Stat(filepath.Join(dir, "src/app/header/header.component.ts"))
	assert.True(t, os.IsNotExist(err))

	got := out.String()
	assert.Contains(t, got, "[previewing src]")
	assert.Contains(t, got, "--- src/app/app.module.ts")
	assert.Contains(t, got, "+  declarations: [HeaderComponent, FooterComponent, HomeComponent, LoadingComponent, ModalComponent],")
	assert.Contains(t, got, "would run ng generate cap-angular-schematic-bootstrap:ng-add --version=4.0.0")
	assert.Contains(t, got, "routes: anchor not found in src/app/app-routing.module.ts")
	assert.Contains(t, got, "dry run complete, nothing was written")
}

func TestAddCmd_Run(t *testing.T) {
	noStyling(t)

	dir := writeWorkspace(t)
	var out bytes.Buffer
	rootOpts := newTestOpts(t, dir, &out)
	runner := &external.RecordingRunner{}
	rootOpts.Runner = runner

	cmd := NewAddCmd(rootOpts)
	cmd.SetArgs([]string{"--install-auth", "--remove-app-component-html", "--backup"})
	require.NoError(t, cmd.ExecuteContext(testCtx(t)))

	assert.Equal(t, []external.Invocation{external.Bootstrap("4.0.0"), external.Auth("demo")}, runner.Invocations())

	assert.Contains(t, readFile(t, dir, "src/app/header/header.component.ts"), "HeaderComponent")
	assert.Contains(t, readFile(t, dir, "src/index.html"), `<div class="container-fluid p-0">`)
	assert.True(t, strings.HasPrefix(readFile(t, dir, "src/styles.css"), "body {"))
	assert.Contains(t, readFile(t, dir, "src/app/app.component.html"), "<router-outlet></router-outlet>")
	assert.Contains(t, readFile(t, dir, "angular.json"), `"src/assets/webslidemenu/webslidemenu.css"`)
	assert.Equal(t, workspaceFiles["src/app/app.module.ts"], readFile(t, dir, "src/app/app.module.ts.bak"))

	got := out.String()
	assert.Contains(t, got, "[updating src]")
	assert.Contains(t, got, "responsive menu added")
}

func TestAddCmd_MissingModule(t *testing.T) {
	noStyling(t)

	dir := writeWorkspace(t)
	var out bytes.Buffer
	rootOpts := newTestOpts(t, dir, &out)
	rootOpts.Runner = &external.RecordingRunner{}

	cmd := NewAddCmd(rootOpts)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs([]string{"--module", "src/app/other.module.ts"})
	err := cmd.ExecuteContext(testCtx(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file src/app/other.module.ts does not exist")

	for p, content := range workspaceFiles {
		assert.Equal(t, content, readFile(t, dir, p), "%s is untouched", p)
	}
}
