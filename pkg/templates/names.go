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

package templates

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	decamelizeRe = regexp.MustCompile(`([a-z\d])([A-Z])`)
	separatorRe  = regexp.MustCompile(`[ _]`)
	camelizeRe   = regexp.MustCompile(`(-|_|\.|\s)+(.)?`)
)

// Decamelize turns "innerHTML" into "inner_html"
func Decamelize(s string) string {
	return strings.ToLower(decamelizeRe.ReplaceAllString(s, "${1}_${2}"))
}

// Dasherize turns "innerHTML" or "inner html" into "inner-html"
func Dasherize(s string) string {
	return separatorRe.ReplaceAllString(Decamelize(s), "-")
}

// Camelize turns "inner-html" into "innerHtml"
func Camelize(s string) string {
	s = camelizeRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := camelizeRe.FindStringSubmatch(m)
		return strings.ToUpper(sub[2])
	})
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// Classify turns "inner-html" into "InnerHtml". Dotted names keep their dots.
func Classify(s string) string {
	upper := cases.Title(language.Und, cases.NoLower)
	parts := strings.Split(s, ".")
	for i, p := range parts {
		parts[i] = upper.String(Camelize(p))
	}
	return strings.Join(parts, ".")
}
