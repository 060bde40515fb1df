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
	// ErrNoNgModule is returned when a file has no @NgModule decorator
	ErrNoNgModule = errors.Base("no @NgModule decorator found")
)

// Metadata keys of the @NgModule decorator
const (
	Declarations = "declarations"
	Imports      = "imports"
	Providers    = "providers"
)

// 🧩 property is a member of the decorator's object literal
type property struct {
	span
	key   string
	value span
	// elems is nil when the value is not an array literal
	elems     []span
	array     bool
	shorthand bool
}

// 📦 ModuleFile is an NgModule source file with pending metadata insertions
type ModuleFile struct {
	*sourceFile

	object span
	props  []property

	keys    []string
	pending map[string][]string
}

// ParseModule parses content and locates its @NgModule metadata object
func ParseModule(ctx context.Context, path, content string) (*ModuleFile, error) {
	m := &ModuleFile{pending: map[string][]string{}}
	found := false

	f, err := parse(ctx, path, content, func(root *sitter.Node, src []byte) {
		walk(root, func(n *sitter.Node) bool {
			if found || n.Type() != "decorator" {
				return !found
			}
			obj := ngModuleObject(n, src)
			if obj == nil {
				return true
			}
			found = true
			m.object = spanOf(obj)
			m.props = collectProperties(obj, src)
			return false
		})
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Errorf("%s: %w", path, ErrNoNgModule)
	}

	m.sourceFile = f
	return m, nil
}

// ngModuleObject returns the object literal passed to @NgModule, if n is one
func ngModuleObject(decorator *sitter.Node, src []byte) *sitter.Node {
	for _, child := range namedChildren(decorator) {
		if child.Type() != "call_expression" {
			continue
		}
		fn := child.ChildByFieldName("function")
		if fn == nil {
			continue
		}
		name := fn.Content(src)
		if name != "NgModule" && !strings.HasSuffix(name, ".NgModule") {
			continue
		}
		args := child.ChildByFieldName("arguments")
		if args == nil {
			continue
		}
		for _, arg := range namedChildren(args) {
			if arg.Type() == "object" {
				return arg
			}
		}
	}
	return nil
}

func collectProperties(obj *sitter.Node, src []byte) []property {
	var props []property
	for _, member := range namedChildren(obj) {
		if member.Type() == "comment" {
			continue
		}
		p := property{span: spanOf(member)}
		if member.Type() == "shorthand_property_identifier" {
			p.key = member.Content(src)
			p.value = spanOf(member)
			p.shorthand = true
		}
		if member.Type() == "pair" {
			if key := member.ChildByFieldName("key"); key != nil {
				p.key = unquote(key.Content(src))
			}
			if value := member.ChildByFieldName("value"); value != nil {
				p.value = spanOf(value)
				if value.Type() == "array" {
					p.array = true
					p.elems = []span{}
					for _, el := range namedChildren(value) {
						p.elems = append(p.elems, spanOf(el))
					}
				}
			}
		}
		props = append(props, p)
	}
	return props
}

// AddDeclaration declares a component and imports it from importPath
func (m *ModuleFile) AddDeclaration(symbol, importPath string) {
	m.addSymbol(Declarations, symbol)
	m.addImport(Symbol{Name: symbol, Path: importPath})
}

// AddImport adds a module to the imports array and imports it from importPath
func (m *ModuleFile) AddImport(symbol, importPath string) {
	m.addSymbol(Imports, symbol)
	m.addImport(Symbol{Name: symbol, Path: importPath})
}

// AddProvider adds expr to the providers array and imports every symbol it uses
func (m *ModuleFile) AddProvider(expr string, uses ...Symbol) {
	m.addSymbol(Providers, expr)
	for _, sym := range uses {
		m.addImport(sym)
	}
}

// Pending returns the elements queued for a metadata key
func (m *ModuleFile) Pending(key string) []string {
	return append([]string(nil), m.pending[key]...)
}

func (m *ModuleFile) addSymbol(key, element string) {
	if _, ok := m.pending[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.pending[key] = append(m.pending[key], element)
}

// Edits computes every insertion against the frozen parse
func (m *ModuleFile) Edits() *EditList {
	edits := &EditList{}
	m.importEdits(edits)

	var missing []string
	for _, key := range m.keys {
		if !m.metadataEdits(edits, key, m.pending[key]) {
			missing = append(missing, key+": ["+strings.Join(m.pending[key], ", ")+"]")
		}
	}
	m.propertyEdits(edits, missing)
	return edits
}

// Apply returns the module text with every pending insertion applied
func (m *ModuleFile) Apply(ctx context.Context) (string, error) {
	return m.finish(ctx, m.Edits())
}

// metadataEdits extends an existing property and reports false when the
// object has no property for key
func (m *ModuleFile) metadataEdits(edits *EditList, key string, elems []string) bool {
	for _, p := range m.props {
		if p.key != key {
			continue
		}
		switch {
		case p.array:
			insertIntoArray(edits, m.content, p.value, p.elems, elems)
		case p.shorthand:
			edits.Insert(p.value.start, key+": [...")
			edits.Insert(p.value.end, ", "+strings.Join(elems, ", ")+"]")
		default:
			// value is some other expression, wrap it in a spread
			edits.Insert(p.value.start, "[...")
			edits.Insert(p.value.end, ", "+strings.Join(elems, ", ")+"]")
		}
		return true
	}
	return false
}

// propertyEdits adds the missing properties to the object literal as one
// comma separated insertion
func (m *ModuleFile) propertyEdits(edits *EditList, entries []string) {
	if len(entries) == 0 {
		return
	}

	if len(m.props) == 0 {
		inner := m.content[m.object.start+1 : m.object.end-1]
		if strings.TrimSpace(inner) != "" {
			// only comments inside, keep them
			edits.Insert(m.object.end-1, "\n  "+strings.Join(entries, ",\n  ")+"\n")
			return
		}
		indent := text.LineIndent(m.content, m.object.start)
		edits.Replace(m.object.start+1, m.object.end-1, block(entries, indent))
		return
	}

	first, last := m.props[0], m.props[len(m.props)-1]
	if strings.Contains(m.content[m.object.start:first.start], "\n") {
		indent := text.LineIndent(m.content, first.start)
		var b strings.Builder
		for _, entry := range entries {
			b.WriteString(",\n")
			b.WriteString(indent)
			b.WriteString(entry)
		}
		edits.Insert(last.end, b.String())
		return
	}
	edits.Insert(last.end, ", "+strings.Join(entries, ", "))
}

// block lays entries out one per line, indented one level below indent
func block(entries []string, indent string) string {
	inner := indent + "  "
	return "\n" + inner + strings.Join(entries, ",\n"+inner) + "\n" + indent
}

// insertIntoArray appends elems after the existing elements of an array
// literal, following its one-line or one-per-line layout
func insertIntoArray(edits *EditList, content string, array span, existing []span, elems []string) {
	if len(existing) == 0 {
		inner := content[array.start+1 : array.end-1]
		switch {
		case strings.TrimSpace(inner) != "":
			edits.Insert(array.end-1, strings.Join(elems, ", "))
		case strings.Contains(inner, "\n"):
			indent := text.LineIndent(content, array.start)
			edits.Replace(array.start+1, array.end-1, "\n"+indent+"  "+strings.Join(elems, ", ")+"\n"+indent)
		default:
			edits.Replace(array.start+1, array.end-1, strings.Join(elems, ", "))
		}
		return
	}

	first, last := existing[0], existing[len(existing)-1]
	if strings.Contains(content[array.start:first.start], "\n") {
		indent := text.LineIndent(content, first.start)
		var b strings.Builder
		for _, el := range elems {
			b.WriteString(",\n")
			b.WriteString(indent)
			b.WriteString(el)
		}
		edits.Insert(last.end, b.String())
		return
	}
	edits.Insert(last.end, ", "+strings.Join(elems, ", "))
}
