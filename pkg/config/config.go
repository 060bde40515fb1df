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

package config

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const DefaultBootstrapVersion = "4.0.0"

// FileNames are the config file names Discover looks for, in order
var FileNames = []string{".ngmenu.yaml", ".ngmenu.yml", ".ngmenu.hcl", ".ngmenu.json", ".ngmenu"}

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config holds the generator options that can live in a project file
type Config struct {
	Project                string   `json:"project,omitempty" yaml:"project,omitempty" hcl:"project,optional"`
	Path                   string   `json:"path,omitempty" yaml:"path,omitempty" hcl:"path,optional"`
	Module                 string   `json:"module,omitempty" yaml:"module,omitempty" hcl:"module,optional"`
	RemoveAppComponentHTML bool     `json:"remove_app_component_html,omitempty" yaml:"remove_app_component_html,omitempty" hcl:"remove_app_component_html,optional"`
	InstallAuth            bool     `json:"install_auth,omitempty" yaml:"install_auth,omitempty" hcl:"install_auth,optional"`
	BootstrapVersion       string   `json:"bootstrap_version,omitempty" yaml:"bootstrap_version,omitempty" hcl:"bootstrap_version,optional"`
	SkipTemplates          []string `json:"skip_templates,omitempty" yaml:"skip_templates,omitempty" hcl:"skip_templates,optional"`
	MenuItems              []string `json:"menu_items,omitempty" yaml:"menu_items,omitempty" hcl:"menu_items,optional"`
	Backup                 bool     `json:"backup,omitempty" yaml:"backup,omitempty" hcl:"backup,optional"`

	location string
}

// Location is the file the config was loaded from, empty for flag-only configs
func (cfg *Config) Location() string {
	return cfg.location
}

// 🔎 Discover looks for a config file in dir
func Discover(ctx context.Context, dir string) (string, bool, error) {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		info, err := os.Stat(p)
		if err == nil && !info.IsDir() {
			zerolog.Ctx(ctx).Debug().Str("path", p).Msg("found config file")
			return p, true, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", false, errors.Errorf("checking %s: %w", p, err)
		}
	}
	return "", false, nil
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, p string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", p).Msg("loading configuration")

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg *Config
	if filepath.Base(p) == ".ngmenu" {
		// extensionless files may be YAML or HCL
		cfg, err = (&YAMLParser{}).Parse(ctx, data)
		if err != nil {
			var hclErr error
			cfg, hclErr = (&HCLParser{}).Parse(ctx, data)
			if hclErr != nil {
				return nil, errors.Errorf("parsing %s as YAML or HCL: %w", p, err)
			}
		}
	} else {
		parser := GetParser(p)
		if parser == nil {
			return nil, errors.Errorf("no parser found for file: %s", p)
		}
		cfg, err = parser.Parse(ctx, data)
		if err != nil {
			return nil, errors.Errorf("parsing config: %w", err)
		}
	}

	cfg.location = p
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// 🔍 Validate fills defaults and checks the configuration
func (cfg *Config) Validate() error {
	if cfg.BootstrapVersion == "" {
		cfg.BootstrapVersion = DefaultBootstrapVersion
	}

	if cfg.Path != "" {
		if filepath.IsAbs(cfg.Path) {
			return errors.Errorf("path must be relative to the workspace: %s", cfg.Path)
		}
		cfg.Path = path.Clean(filepath.ToSlash(cfg.Path))
	}
	if cfg.Module != "" {
		cfg.Module = path.Clean(filepath.ToSlash(cfg.Module))
	}

	for _, pattern := range cfg.SkipTemplates {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("skip_templates: invalid pattern %q", pattern)
		}
	}
	for _, item := range cfg.MenuItems {
		if strings.TrimSpace(item) == "" {
			return errors.Errorf("menu_items: empty entry")
		}
	}
	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	project := cfg.Project
	if project == "" {
		project = "<default>"
	}
	return fmt.Sprintf("project=%s path=%s auth=%t bootstrap=%s", project, cfg.Path, cfg.InstallAuth, cfg.BootstrapVersion)
}
