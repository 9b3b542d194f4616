/*
 * Copyright (c) 2020 Siemens AG
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy of
 * this software and associated documentation files (the "Software"), to deal in
 * the Software without restriction, including without limitation the rights to
 * use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
 * the Software, and to permit persons to whom the Software is furnished to do so,
 * subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
 * FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
 * COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
 * IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
 * CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 *
 * Author(s): Jonas Plum
 */

// Package filter selects raw records by a case insensitive keyword scan over
// the whole serialized record.
package filter

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/forensicanalysis/forensictimeline/timeline"
)

// DefaultKeywords target Google Chrome.
var DefaultKeywords = []string{"chrome.exe", "google", "chrome"} // nolint:gochecknoglobals

// Matcher matches records against a keyword set.
type Matcher struct {
	keywords []string
}

// New creates a Matcher. Empty keywords are ignored, a Matcher without
// keywords matches nothing.
func New(keywords []string) *Matcher {
	m := &Matcher{}
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		m.keywords = append(m.keywords, strings.ToLower(keyword))
	}
	return m
}

// Match reports whether the serialized record contains any keyword.
func (m *Matcher) Match(record timeline.Record) bool {
	if len(m.keywords) == 0 {
		return false
	}
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(record); err != nil {
		return false
	}
	text := strings.ToLower(buf.String())
	for _, keyword := range m.keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// Filter returns the matching records in input order.
func (m *Matcher) Filter(records []timeline.Record) []timeline.Record {
	var matches []timeline.Record
	for _, record := range records {
		if m.Match(record) {
			matches = append(matches, record)
		}
	}
	return matches
}

// Filter returns the records matching any of the keywords.
func Filter(records []timeline.Record, keywords []string) []timeline.Record {
	return New(keywords).Filter(records)
}
