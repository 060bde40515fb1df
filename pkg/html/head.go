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

// Package html edits the application's shell document.
package html

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	sitter "github.com/smacker/go-tree-sitter"
	tshtml "github.com/smacker/go-tree-sitter/html"
	"github.com/walteh/ngmenu/pkg/text"
	"gitlab.com/tozd/go/errors"
)

const (
	// BodyWrapperOpen is inserted right after the <body> start tag
	BodyWrapperOpen = "\n  <div class=\"container-fluid p-0\">\n"
	// BodyWrapperClose is inserted right before </body>
	BodyWrapperClose = "\n  </div>\n"
)

// 🏷️ element is the location of an element found in the document
type element struct {
	start       int
	startTagEnd int
	endTagStart int // -1 when the element has no end tag
	column      int
	firstChild  int // column of the first child element, -1 when there is none
}

// findElement returns the first element named tag
func findElement(ctx context.Context, content, tag string) (*element, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(tshtml.GetLanguage())

	src := []byte(content)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.Errorf("parsing html: %w", err)
	}
	defer tree.Close()

	var found *element
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if found != nil {
			return
		}
		if n.Type() == "element" && tagName(n, src) == tag {
			found = &element{start: int(n.StartByte()), endTagStart: -1, column: int(n.StartPoint().Column), firstChild: -1}
			for i := 0; i < int(n.NamedChildCount()); i++ {
				c := n.NamedChild(i)
				switch c.Type() {
				case "start_tag":
					found.startTagEnd = int(c.EndByte())
				case "end_tag":
					found.endTagStart = int(c.StartByte())
				case "element", "script_element", "style_element":
					if found.firstChild < 0 {
						found.firstChild = int(c.StartPoint().Column)
					}
				}
			}
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(tree.RootNode())
	return found, nil
}

func tagName(n *sitter.Node, src []byte) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "start_tag" {
			continue
		}
		for j := 0; j < int(c.NamedChildCount()); j++ {
			if name := c.NamedChild(j); name.Type() == "tag_name" {
				return strings.ToLower(name.Content(src))
			}
		}
	}
	return ""
}

// AppendToHead inserts elementHTML as the last child of <head>, indented like
// its siblings. It is skipped when the document already contains elementHTML
// or has no closed <head> element.
func AppendToHead(ctx context.Context, content, elementHTML string) (text.Result, error) {
	logger := zerolog.Ctx(ctx)
	unchanged := text.Result{Content: content, Offset: -1}

	if strings.Contains(content, elementHTML) {
		logger.Debug().Str("element", elementHTML).Msg("element already present in head")
		return unchanged, nil
	}

	head, err := findElement(ctx, content, "head")
	if err != nil {
		return unchanged, err
	}
	if head == nil || head.endTagStart < 0 {
		logger.Debug().Msg("no closed <head> element found")
		return unchanged, nil
	}

	indent := head.column + 2
	if head.firstChild >= 0 {
		indent = head.firstChild
	}

	// insert at the start of the </head> line when only whitespace precedes it
	offset := head.endTagStart
	lineStart := strings.LastIndexByte(content[:offset], '\n') + 1
	if strings.TrimSpace(content[lineStart:offset]) == "" {
		offset = lineStart
	} else {
		elementHTML = "\n" + strings.Repeat(" ", indent) + elementHTML
		indent = 0
	}

	fragment := strings.Repeat(" ", indent) + elementHTML + "\n"
	return text.Result{
		Content: content[:offset] + fragment + content[offset:],
		Applied: true,
		Offset:  offset,
	}, nil
}

// WrapBody wraps the contents of <body> in the container element. The start
// tag may carry attributes. Both halves are applied together or not at all: a
// document without a closed <body> element is returned unchanged.
func WrapBody(ctx context.Context, content string) (opened, closed text.Result, err error) {
	unchanged := text.Result{Content: content, Offset: -1}

	body, err := findElement(ctx, content, "body")
	if err != nil {
		return unchanged, unchanged, err
	}
	if body == nil || body.endTagStart < 0 {
		zerolog.Ctx(ctx).Debug().Msg("no closed <body> element found")
		return unchanged, unchanged, nil
	}

	at := body.startTagEnd
	opened = text.Result{
		Content: content[:at] + BodyWrapperOpen + content[at:],
		Applied: true,
		Offset:  at,
	}

	at = body.endTagStart + len(BodyWrapperOpen)
	closed = text.Result{
		Content: opened.Content[:at] + BodyWrapperClose + opened.Content[at:],
		Applied: true,
		Offset:  at,
	}
	return opened, closed, nil
}
