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
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"gitlab.com/tozd/go/errors"
)

// 📍 span is a half-open byte range of the original text
type span struct {
	start int
	end   int
}

func spanOf(n *sitter.Node) span {
	return span{start: int(n.StartByte()), end: int(n.EndByte())}
}

// 📦 importDecl is an existing `import ... from '<path>'` statement
type importDecl struct {
	span
	path        string
	names       map[string]bool
	lastNamed   int // end of the last named specifier, -1 without a `{ }` clause
	hasNamedSet bool
}

// Symbol is a named export and the module path it is imported from
type Symbol struct {
	Name string
	Path string
}

// 📄 sourceFile holds what we extracted from a parse plus pending import edits
type sourceFile struct {
	path    string
	content string
	imports []importDecl
	// clean is false when the original already had syntax errors
	clean bool

	pendingImports []Symbol
}

// ErrSyntax is returned when source does not parse as TypeScript
var ErrSyntax = errors.Base("typescript syntax error")

// Check parses content and returns ErrSyntax if the tree has error nodes
func Check(ctx context.Context, path, content string) error {
	var bad bool
	_, err := parse(ctx, path, content, func(root *sitter.Node, src []byte) {
		bad = root.HasError()
	})
	if err != nil {
		return err
	}
	if bad {
		return errors.Errorf("%s: %w", path, ErrSyntax)
	}
	return nil
}

// finish applies edits and, when the original parsed cleanly, requires the
// result to parse cleanly too
func (f *sourceFile) finish(ctx context.Context, edits *EditList) (string, error) {
	out, err := edits.Apply(f.content)
	if err != nil {
		return "", errors.Errorf("applying edits to %s: %w", f.path, err)
	}
	if f.clean {
		if err := Check(ctx, f.path, out); err != nil {
			return "", errors.Errorf("edited source no longer parses: %w", err)
		}
	}
	return out, nil
}

// parse runs tree-sitter over content and hands the root to visit. The tree
// is closed before returning, so visit must copy out anything it needs.
func parse(ctx context.Context, path, content string, visit func(root *sitter.Node, src []byte)) (*sourceFile, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("parsing typescript source")

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(typescript.GetLanguage())

	src := []byte(content)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.Errorf("parsing %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		logger.Debug().Str("path", path).Msg("source contains syntax errors, continuing with partial tree")
	}

	f := &sourceFile{path: path, content: content, clean: !root.HasError()}
	f.imports = collectImports(root, src)
	visit(root, src)
	return f, nil
}

func collectImports(root *sitter.Node, src []byte) []importDecl {
	var out []importDecl
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() != "import_statement" {
			continue
		}
		decl := importDecl{span: spanOf(stmt), names: map[string]bool{}, lastNamed: -1}
		if source := stmt.ChildByFieldName("source"); source != nil {
			decl.path = unquote(source.Content(src))
		}
		for j := 0; j < int(stmt.NamedChildCount()); j++ {
			clause := stmt.NamedChild(j)
			if clause.Type() != "import_clause" {
				continue
			}
			for k := 0; k < int(clause.NamedChildCount()); k++ {
				named := clause.NamedChild(k)
				if named.Type() != "named_imports" {
					continue
				}
				decl.hasNamedSet = true
				for s := 0; s < int(named.NamedChildCount()); s++ {
					spec := named.NamedChild(s)
					if spec.Type() != "import_specifier" {
						continue
					}
					name := spec.ChildByFieldName("alias")
					if name == nil {
						name = spec.ChildByFieldName("name")
					}
					if name != nil {
						decl.names[name.Content(src)] = true
					}
					decl.lastNamed = int(spec.EndByte())
				}
			}
		}
		out = append(out, decl)
	}
	return out
}

// addImport records `import { name } from 'path'` unless it is already there
func (f *sourceFile) addImport(sym Symbol) {
	if sym.Name == "" || sym.Path == "" {
		return
	}
	for _, decl := range f.imports {
		if decl.path == sym.Path && decl.names[sym.Name] {
			return
		}
	}
	for _, p := range f.pendingImports {
		if p == sym {
			return
		}
	}
	f.pendingImports = append(f.pendingImports, sym)
}

// importEdits turns pending imports into edits. Symbols whose path already
// has a named import clause join that clause; the rest become new statements
// after the last import.
func (f *sourceFile) importEdits(edits *EditList) {
	var order []string
	byPath := map[string][]string{}
	for _, sym := range f.pendingImports {
		if _, ok := byPath[sym.Path]; !ok {
			order = append(order, sym.Path)
		}
		byPath[sym.Path] = append(byPath[sym.Path], sym.Name)
	}

	lastEnd := -1
	for _, decl := range f.imports {
		if decl.end > lastEnd {
			lastEnd = decl.end
		}
	}

	for _, path := range order {
		names := byPath[path]
		if decl := f.namedImportFor(path); decl != nil {
			edits.Insert(decl.lastNamed, ", "+strings.Join(names, ", "))
			continue
		}
		stmt := fmt.Sprintf("import { %s } from '%s';", strings.Join(names, ", "), path)
		if lastEnd < 0 {
			edits.Insert(0, stmt+"\n")
			continue
		}
		edits.Insert(lastEnd, "\n"+stmt)
	}
}

func (f *sourceFile) namedImportFor(path string) *importDecl {
	for i := range f.imports {
		if f.imports[i].path == path && f.imports[i].hasNamedSet && f.imports[i].lastNamed >= 0 {
			return &f.imports[i]
		}
	}
	return nil
}

// walk visits every node depth first until fn returns false
func walk(n *sitter.Node, fn func(*sitter.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if !walk(n.NamedChild(i), fn) {
			return false
		}
	}
	return true
}

// namedChildren returns the named children of n, skipping comments
func namedChildren(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' || first == '"' || first == '`') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}
