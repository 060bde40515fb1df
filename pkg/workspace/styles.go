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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/ngmenu/pkg/text"
	"github.com/walteh/ngmenu/pkg/tree"
	"gitlab.com/tozd/go/errors"
)

// arraySpan locates a JSON array by byte offsets
type arraySpan struct {
	open    int // just after '['
	close   int // at ']'
	lastEnd int // just after the last element, -1 when empty
}

type jsonFrame struct {
	object  bool
	wantKey bool
	key     string
}

func keyPath(stack []*jsonFrame) []string {
	out := make([]string, 0, len(stack))
	for _, f := range stack {
		if f.object {
			out = append(out, f.key)
		} else {
			out = append(out, "[]")
		}
	}
	return out
}

// locateArray walks the decoder's token stream and returns the array found at
// the key path target. The bool is false when no such array exists.
func locateArray(data []byte, target []string) (arraySpan, bool, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var stack []*jsonFrame
	targetDepth := -1
	span := arraySpan{lastEnd: -1}

	// valueDone is called after a complete value at the current depth
	valueDone := func(end int) {
		if len(stack) == 0 {
			return
		}
		top := stack[len(stack)-1]
		if top.object {
			top.wantKey = true
		}
		if len(stack) == targetDepth {
			span.lastEnd = end
		}
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return span, false, errors.Errorf("reading workspace json: %w", err)
		}
		end := int(dec.InputOffset())

		if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].wantKey {
			if d, ok := tok.(json.Delim); ok && d == '}' {
				stack = stack[:n-1]
				valueDone(end)
				continue
			}
			key, _ := tok.(string)
			stack[n-1].key = key
			stack[n-1].wantKey = false
			continue
		}

		switch tok {
		case json.Delim('{'):
			stack = append(stack, &jsonFrame{object: true, wantKey: true})
		case json.Delim('['):
			if targetDepth < 0 && slices.Equal(keyPath(stack), target) {
				span.open = end
				targetDepth = len(stack) + 1
			}
			stack = append(stack, &jsonFrame{})
		case json.Delim(']'), json.Delim('}'):
			if len(stack) == targetDepth {
				span.close = end - 1
				return span, true, nil
			}
			stack = stack[:len(stack)-1]
			valueDone(end)
		default:
			valueDone(end)
		}
	}
	return span, false, nil
}

// 🎨 AddBuildStyle appends stylePath to the project's build styles in the
// workspace file, keeping the file's existing formatting. It is skipped when
// the style is already listed or the project has no styles array.
func AddBuildStyle(ctx context.Context, t tree.Tree, p *Project, stylePath string) (text.Result, error) {
	logger := zerolog.Ctx(ctx)

	data, err := t.Read(ctx, p.WorkspaceFile)
	if err != nil {
		return text.Result{Offset: -1}, err
	}
	content := string(data)
	unchanged := text.Result{Content: content, Offset: -1}

	var span arraySpan
	var found bool
	for _, targets := range []string{"architect", "targets"} {
		span, found, err = locateArray(data, []string{"projects", p.Name, targets, "build", "options", "styles"})
		if err != nil {
			return unchanged, err
		}
		if found {
			break
		}
	}
	if !found {
		logger.Warn().Str("project", p.Name).Msg("no build styles array in workspace")
		return unchanged, nil
	}

	var existing []json.RawMessage
	if err := json.Unmarshal(data[span.open-1:span.close+1], &existing); err != nil {
		return unchanged, errors.Errorf("parsing build styles: %w", err)
	}
	for _, raw := range existing {
		if styleInput(raw) == stylePath {
			logger.Debug().Str("style", stylePath).Msg("build style already present")
			return unchanged, nil
		}
	}

	quoted := strconv.Quote(stylePath)
	var res text.Result
	switch {
	case span.lastEnd < 0:
		res = text.Result{Content: content[:span.open] + quoted + content[span.open:], Applied: true, Offset: span.open}
	case strings.Contains(content[span.open:span.close], "\n"):
		fragment := ",\n" + text.LineIndent(content, span.lastEnd) + quoted
		res = text.Result{Content: content[:span.lastEnd] + fragment + content[span.lastEnd:], Applied: true, Offset: span.lastEnd}
	default:
		res = text.Result{Content: content[:span.lastEnd] + ", " + quoted + content[span.lastEnd:], Applied: true, Offset: span.lastEnd}
	}

	if err := t.Overwrite(ctx, p.WorkspaceFile, []byte(res.Content)); err != nil {
		return unchanged, err
	}
	p.Styles = append(p.Styles, stylePath)
	return res, nil
}
