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

package tsast

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/walteh/ngmenu/pkg/text"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNoRoutes is returned when a file declares no routes array
	ErrNoRoutes = errors.Base("no routes array found")
)

// RoutesVariable is the conventional name of the routing table
const RoutesVariable = "routes"

// 🛣️ RoutingFile is a routing module with pending route insertions
type RoutingFile struct {
	*sourceFile

	array   span
	entries []span
	pending []string
}

// ParseRouting parses content and locates `const routes = [...]`
func ParseRouting(ctx context.Context, path, content string) (*RoutingFile, error) {
	r := &RoutingFile{}
	found := false

	f, err := parse(ctx, path, content, func(root *sitter.Node, src []byte) {
		walk(root, func(n *sitter.Node) bool {
			if found {
				return false
			}
			if n.Type() != "variable_declarator" {
				return true
			}
			name := n.ChildByFieldName("name")
			value := n.ChildByFieldName("value")
			if name == nil || value == nil || name.Content(src) != RoutesVariable || value.Type() != "array" {
				return true
			}
			found = true
			r.array = spanOf(value)
			for _, el := range namedChildren(value) {
				r.entries = append(r.entries, spanOf(el))
			}
			return false
		})
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Errorf("%s: %w", path, ErrNoRoutes)
	}

	r.sourceFile = f
	return r, nil
}

// AddRoute queues a route literal for the start of the routes array
func (r *RoutingFile) AddRoute(entry string, uses ...Symbol) {
	r.pending = append(r.pending, entry)
	for _, sym := range uses {
		r.addImport(sym)
	}
}

// Edits computes every insertion against the frozen parse
func (r *RoutingFile) Edits() *EditList {
	edits := &EditList{}
	r.importEdits(edits)
	if len(r.pending) == 0 {
		return edits
	}

	open := r.array.start + 1
	if len(r.entries) == 0 {
		inner := r.content[open : r.array.end-1]
		if strings.TrimSpace(inner) == "" {
			edits.Replace(open, r.array.end-1, block(r.pending, text.LineIndent(r.content, r.array.start)))
			return edits
		}
	}

	indent := "  "
	if len(r.entries) > 0 && strings.Contains(r.content[r.array.start:r.entries[0].start], "\n") {
		indent = text.LineIndent(r.content, r.entries[0].start)
	}

	var b strings.Builder
	for i, entry := range r.pending {
		b.WriteString("\n")
		b.WriteString(indent)
		b.WriteString(entry)
		if i < len(r.pending)-1 || len(r.entries) > 0 {
			b.WriteString(",")
		}
	}

	switch {
	case len(r.entries) == 0:
		b.WriteString("\n")
	case r.content[open] != '\n' && r.content[open] != '\r':
		b.WriteString(" ")
	}
	edits.Insert(open, b.String())
	return edits
}

// Apply returns the routing text with every pending insertion applied
func (r *RoutingFile) Apply(ctx context.Context) (string, error) {
	return r.finish(ctx, r.Edits())
}
