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

package workspace

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/ngmenu/pkg/tree"
	"gitlab.com/tozd/go/errors"
)

const (
	ModuleExt        = "app.module.ts"
	RoutingModuleExt = "-routing.module.ts"
)

var (
	ErrModuleNotFound  = errors.Base("could not find an NgModule")
	ErrModuleAmbiguous = errors.Base("more than one module matches")
)

// 🔍 FindModule walks up from dir looking for the app module file. Routing
// modules never match.
func FindModule(ctx context.Context, t tree.Tree, dir string) (string, error) {
	logger := zerolog.Ctx(ctx)

	start := tree.Normalize(dir)
	dir = start
	for {
		matches, err := t.Glob(ctx, path.Join(dir, "*"+ModuleExt))
		if err != nil {
			return "", errors.Errorf("searching %s: %w", dir, err)
		}

		var candidates []string
		for _, m := range matches {
			if !strings.HasSuffix(m, RoutingModuleExt) {
				candidates = append(candidates, m)
			}
		}

		switch len(candidates) {
		case 1:
			logger.Debug().Str("module", candidates[0]).Msg("found module")
			return candidates[0], nil
		case 0:
		default:
			return "", errors.Errorf("%w in %s: %s", ErrModuleAmbiguous, dir, strings.Join(candidates, ", "))
		}

		if dir == "." {
			return "", errors.Errorf("%w from %s", ErrModuleNotFound, start)
		}
		dir = path.Dir(dir)
	}
}

// BuildRelativePath returns the import path of to as seen from the file
// from, always starting with "./" or "../" and without the .ts extension.
func BuildRelativePath(from, to string) string {
	from = tree.Normalize(from)
	to = strings.TrimSuffix(tree.Normalize(to), ".ts")

	rel, err := filepath.Rel(filepath.FromSlash(path.Dir(from)), filepath.FromSlash(to))
	if err != nil {
		return to
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}
