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
	"context"
	"io"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📦 SpliceResult contains the results of applying a rule list
type SpliceResult struct {
	// WasModified indicates if any rule was applied
	WasModified bool

	// AppliedCount is the number of rules that were applied
	AppliedCount int

	// Missed lists the anchors that could not be found
	Missed []string

	// OriginalContent is the content before any rule was applied
	OriginalContent []byte

	// ModifiedContent is the content after all rules were applied
	ModifiedContent []byte
}

// Splicer applies ordered rule lists to file content
type Splicer struct{}

// NewSplicer creates a new Splicer
func NewSplicer() *Splicer {
	return &Splicer{}
}

// Apply runs every rule in order, each against the output of the previous one
func (s *Splicer) Apply(ctx context.Context, content io.Reader, rules []Rule) (*SpliceResult, error) {
	logger := zerolog.Ctx(ctx)

	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &SpliceResult{
		OriginalContent: originalContent,
	}

	current := string(originalContent)
	for _, rule := range rules {
		res := Splice(current, rule)
		if !res.Applied {
			logger.Debug().Str("anchor", rule.Anchor).Str("placement", rule.Placement.String()).Msg("anchor not found")
			result.Missed = append(result.Missed, rule.Anchor)
			continue
		}
		result.WasModified = true
		result.AppliedCount++
		current = res.Content
	}

	result.ModifiedContent = []byte(current)
	return result, nil
}

// ValidateRules checks that every rule can be applied
func (s *Splicer) ValidateRules(rules []Rule) error {
	for i, rule := range rules {
		if rule.Fragment == "" && rule.Placement != PlaceReplace {
			return errors.Errorf("rule %d: fragment is required", i)
		}
		if rule.Placement.Anchored() && rule.Anchor == "" {
			return errors.Errorf("rule %d: anchor is required for %s placement", i, rule.Placement)
		}
	}
	return nil
}
