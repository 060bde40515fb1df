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
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/ngmenu/pkg/templates"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser reads .ngmenu.hcl files
type HCLParser struct{}

func (p *HCLParser) CanParse(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".hcl"
}

// envFunc exposes environment variables as env("NAME")
var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{{Name: "name", Type: cty.String}},
	Type:   function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(os.Getenv(args[0].AsString())), nil
	},
})

// hclContext is what attribute expressions can refer to
func hclContext() *hcl.EvalContext {
	items := make([]cty.Value, 0, len(templates.DefaultMenuItems))
	for _, item := range templates.DefaultMenuItems {
		items = append(items, cty.StringVal(item))
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"default_bootstrap_version": cty.StringVal(DefaultBootstrapVersion),
			"default_menu_items":        cty.ListVal(items),
		},
		Functions: map[string]function.Function{
			"env": envFunc,
		},
	}
}

// 📝 Parse decodes top-level attributes into a Config
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, ".ngmenu.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, hclContext(), &cfg); diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}
	return &cfg, nil
}
