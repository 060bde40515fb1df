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
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ✏️ Edit replaces Len bytes at an offset of the original text with Text.
// Len is zero for a plain insertion.
type Edit struct {
	Offset int
	Len    int
	Text   string
	seq    int
}

// 📝 EditList accumulates insertions against one frozen parse
type EditList struct {
	edits []Edit
}

// Insert records text to be inserted at offset
func (l *EditList) Insert(offset int, text string) {
	l.edits = append(l.edits, Edit{Offset: offset, Text: text, seq: len(l.edits)})
}

// Replace records text to replace original[start:end]. Replaced ranges must
// not overlap other edits.
func (l *EditList) Replace(start, end int, text string) {
	l.edits = append(l.edits, Edit{Offset: start, Len: end - start, Text: text, seq: len(l.edits)})
}

// Len returns the number of recorded edits
func (l *EditList) Len() int {
	return len(l.edits)
}

// Edits returns the recorded edits in recording order
func (l *EditList) Edits() []Edit {
	out := make([]Edit, len(l.edits))
	copy(out, l.edits)
	return out
}

// Apply splices every edit into original in a single pass. Edits are applied
// by descending offset so earlier offsets stay valid; edits sharing an offset
// keep their recording order in the output.
func (l *EditList) Apply(original string) (string, error) {
	sorted := l.Edits()
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Offset != sorted[j].Offset {
			return sorted[i].Offset > sorted[j].Offset
		}
		return sorted[i].seq > sorted[j].seq
	})

	out := original
	for _, e := range sorted {
		if e.Offset < 0 || e.Len < 0 || e.Offset+e.Len > len(original) {
			return "", errors.Errorf("edit offset %d out of range [0, %d]", e.Offset, len(original))
		}
		var b strings.Builder
		b.Grow(len(out) + len(e.Text))
		b.WriteString(out[:e.Offset])
		b.WriteString(e.Text)
		b.WriteString(out[e.Offset+e.Len:])
		out = b.String()
	}
	return out, nil
}
