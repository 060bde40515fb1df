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
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔧 JSONParser reads .ngmenu.json files
type JSONParser struct{}

func init() {
	Register(&JSONParser{})
}

func (p *JSONParser) CanParse(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".json"
}

// 📝 Parse decodes exactly one JSON object, rejecting unknown keys
func (p *JSONParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing JSON at offset %d: %w", dec.InputOffset(), err)
	}
	if dec.More() {
		return nil, errors.Errorf("parsing JSON: unexpected data after offset %d", dec.InputOffset())
	}
	return &cfg, nil
}
