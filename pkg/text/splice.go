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

package text

import (
	"strings"
)

// 📍 Placement says where a fragment goes relative to its anchor
type Placement int

const (
	PlaceAfter   Placement = iota // right after the first occurrence of the anchor
	PlaceBefore                   // right before the first occurrence of the anchor
	PlaceReplace                  // replaces the first occurrence of the anchor
	PlacePrepend                  // start of the content, no anchor needed
	PlaceAppend                   // end of the content, no anchor needed
)

// String returns a string representation of Placement
func (p Placement) String() string {
	switch p {
	case PlaceAfter:
		return "after"
	case PlaceBefore:
		return "before"
	case PlaceReplace:
		return "replace"
	case PlacePrepend:
		return "prepend"
	case PlaceAppend:
		return "append"
	default:
		return "unknown"
	}
}

// Anchored reports whether the placement needs an anchor to be found
func (p Placement) Anchored() bool {
	return p == PlaceAfter || p == PlaceBefore || p == PlaceReplace
}

// 🔄 Rule is a single anchor-based insertion
type Rule struct {
	// Anchor is the literal substring used to locate the insertion point
	Anchor string

	// Fragment is the text to insert
	Fragment string

	// Placement is where the fragment lands relative to the anchor
	Placement Placement
}

// 📄 Result is the outcome of splicing a single rule into a snapshot
type Result struct {
	// Content is the new snapshot; equal to the input when nothing was applied
	Content string

	// Applied is false when the anchor was not found
	Applied bool

	// Offset is the byte offset the fragment was inserted at, -1 when not applied
	Offset int
}

// ✂️ Splice inserts rule.Fragment into content relative to the first
// occurrence of rule.Anchor. The input is never modified; a missing anchor
// returns the content untouched with Applied set to false.
func Splice(content string, rule Rule) Result {
	switch rule.Placement {
	case PlacePrepend:
		return Result{Content: rule.Fragment + content, Applied: true, Offset: 0}
	case PlaceAppend:
		return Result{Content: content + rule.Fragment, Applied: true, Offset: len(content)}
	}

	if rule.Anchor == "" {
		return Result{Content: content, Offset: -1}
	}

	idx := strings.Index(content, rule.Anchor)
	if idx < 0 {
		return Result{Content: content, Offset: -1}
	}

	var b strings.Builder
	b.Grow(len(content) + len(rule.Fragment))

	switch rule.Placement {
	case PlaceBefore:
		b.WriteString(content[:idx])
		b.WriteString(rule.Fragment)
		b.WriteString(content[idx:])
		return Result{Content: b.String(), Applied: true, Offset: idx}
	case PlaceReplace:
		b.WriteString(content[:idx])
		b.WriteString(rule.Fragment)
		b.WriteString(content[idx+len(rule.Anchor):])
		return Result{Content: b.String(), Applied: true, Offset: idx}
	default:
		end := idx + len(rule.Anchor)
		b.WriteString(content[:end])
		b.WriteString(rule.Fragment)
		b.WriteString(content[end:])
		return Result{Content: b.String(), Applied: true, Offset: end}
	}
}

// InsertAfter is shorthand for a PlaceAfter splice
func InsertAfter(content, anchor, fragment string) Result {
	return Splice(content, Rule{Anchor: anchor, Fragment: fragment, Placement: PlaceAfter})
}

// InsertBefore is shorthand for a PlaceBefore splice
func InsertBefore(content, anchor, fragment string) Result {
	return Splice(content, Rule{Anchor: anchor, Fragment: fragment, Placement: PlaceBefore})
}

// Prepend is shorthand for a PlacePrepend splice
func Prepend(content, fragment string) Result {
	return Splice(content, Rule{Fragment: fragment, Placement: PlacePrepend})
}

// Append is shorthand for a PlaceAppend splice
func Append(content, fragment string) Result {
	return Splice(content, Rule{Fragment: fragment, Placement: PlaceAppend})
}

// LineIndent returns the leading whitespace of the line containing offset
func LineIndent(content string, offset int) string {
	if offset > len(content) {
		offset = len(content)
	}
	start := strings.LastIndexByte(content[:offset], '\n') + 1
	end := start
	for end < len(content) && (content[end] == ' ' || content[end] == '\t') {
		end++
	}
	return content[start:end]
}
