package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestLoad(t *testing.T) {
	want := &Config{
		Project:          "demo",
		Path:             "src/app",
		InstallAuth:      true,
		BootstrapVersion: "4.3.1",
		SkipTemplates:    []string{"app/shared/components/modal/**"},
		MenuItems:        []string{"home", "about"},
		Backup:           true,
	}

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: ".ngmenu.yaml",
			content: `project: demo
path: ./src/app
install_auth: true
bootstrap_version: 4.3.1
skip_templates:
  - app/shared/components/modal/**
menu_items: [home, about]
backup: true
`,
		},
		{
			name: "hcl",
			file: ".ngmenu.hcl",
			content: `project           = "demo"
path              = "src/app/"
install_auth      = true
bootstrap_version = "4.3.1"
skip_templates    = ["app/shared/components/modal/**"]
menu_items        = ["home", "about"]
backup            = true
`,
		},
		{
			name: "json",
			file: ".ngmenu.json",
			content: `{
  "project": "demo",
  "path": "src/app",
  "install_auth": true,
  "bootstrap_version": "4.3.1",
  "skip_templates": ["app/shared/components/modal/**"],
  "menu_items": ["home", "about"],
  "backup": true
}`,
		},
		{
			name: "extensionless_hcl",
			file: ".ngmenu",
			content: `project = "demo"
path = "src/app"
install_auth = true
bootstrap_version = "4.3.1"
skip_templates = ["app/shared/components/modal/**"]
menu_items = ["home", "about"]
backup = true
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testCtx(t)
			p := writeFile(t, t.TempDir(), tt.file, tt.content)

			cfg, err := Load(ctx, p)
			require.NoError(t, err)
			assert.Equal(t, p, cfg.Location())

			want.location = p
			assert.Equal(t, want, cfg)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	ctx := testCtx(t)
	p := writeFile(t, t.TempDir(), ".ngmenu.yaml", "project: demo\n")

	cfg, err := Load(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, DefaultBootstrapVersion, cfg.BootstrapVersion)
	assert.False(t, cfg.InstallAuth)
	assert.Empty(t, cfg.SkipTemplates)
}

func TestLoad_HCLVariable(t *testing.T) {
	ctx := testCtx(t)
	p := writeFile(t, t.TempDir(), ".ngmenu.hcl", "bootstrap_version = default_bootstrap_version\n")

	cfg, err := Load(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "4.0.0", cfg.BootstrapVersion)
}

func TestLoad_HCLFunctions(t *testing.T) {
	ctx := testCtx(t)
	t.Setenv("NGMENU_TEST_PROJECT", "shop")
	p := writeFile(t, t.TempDir(), ".ngmenu.hcl", `project    = env("NGMENU_TEST_PROJECT")
menu_items = concat(default_menu_items, ["about"])
`)

	_, err := Load(ctx, p)
	require.Error(t, err, "only env is callable")

	p = writeFile(t, t.TempDir(), ".ngmenu.hcl", `project    = env("NGMENU_TEST_PROJECT")
menu_items = default_menu_items
`)
	cfg, err := Load(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "shop", cfg.Project)
	assert.Equal(t, []string{"home"}, cfg.MenuItems)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"unknown_yaml_field", ".ngmenu.yaml", "projekt: demo\n", "parsing YAML"},
		{"unknown_json_field", ".ngmenu.json", `{"projekt": "demo"}`, "parsing JSON"},
		{"unknown_hcl_field", ".ngmenu.hcl", "projekt = \"demo\"\n", "decoding HCL"},
		{"bad_glob", ".ngmenu.yaml", "skip_templates: ['[']\n", "invalid pattern"},
		{"absolute_path", ".ngmenu.json", `{"path": "/abs/src"}`, "path must be relative"},
		{"empty_menu_item", ".ngmenu.yaml", "menu_items: ['']\n", "menu_items"},
		{"no_parser", "ngmenu.toml", "project = 'x'", "no parser found"},
		{"trailing_json", ".ngmenu.json", `{"project": "a"} {"project": "b"}`, "unexpected data"},
		{"multi_document_yaml", ".ngmenu.yaml", "project: a\n---\nproject: b\n", "single document"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testCtx(t)
			p := writeFile(t, t.TempDir(), tt.file, tt.content)

			_, err := Load(ctx, p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDiscover(t *testing.T) {
	ctx := testCtx(t)
	dir := t.TempDir()

	_, ok, err := Discover(ctx, dir)
	require.NoError(t, err)
	assert.False(t, ok)

	writeFile(t, dir, ".ngmenu.json", "{}")
	writeFile(t, dir, ".ngmenu.yml", "")

	p, ok, err := Discover(ctx, dir)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, ".ngmenu.yml"), p, "yaml wins over json")
}

func TestGetParser(t *testing.T) {
	assert.IsType(t, &YAMLParser{}, GetParser("a/.ngmenu.YAML"))
	assert.IsType(t, &YAMLParser{}, GetParser(".ngmenu.yml"))
	assert.IsType(t, &HCLParser{}, GetParser(".ngmenu.hcl"))
	assert.IsType(t, &JSONParser{}, GetParser(".ngmenu.json"))
	assert.Nil(t, GetParser(".ngmenu.toml"))
}

func TestConfig_String(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "project=<default> path= auth=false bootstrap=4.0.0", cfg.String())
}
