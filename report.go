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

package forensictimeline

import (
	"fmt"
	"log"

	"github.com/fatih/structs"

	"github.com/forensicanalysis/forensictimeline/jsonl"
)

// Report summarizes a timeline build.
type Report struct {
	Sources  []SourceReport
	Combined int
	Filtered int
	Targets  int
	Entries  int
	Skips    []Skip
	Warnings []string
	Outputs  []string
}

// SourceReport counts the records of a single source.
type SourceReport struct {
	Source  string
	Tool    string
	Path    string
	Records int
	Entries int
	Skipped int
}

// Skip is a record that did not make it into the timeline. Line is set for
// undecodable lines, Record for records an adapter rejected.
type Skip struct {
	Stage  string
	Path   string
	Line   int
	Record int
	Reason string
}

// Map renders the report with snake case keys and without empty values.
func (r *Report) Map() map[string]interface{} {
	return lower(structs.Map(r)).(map[string]interface{})
}

func (r *Report) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("warning: %s", msg)
	r.Warnings = append(r.Warnings, msg)
}

func (r *Report) skip(skip Skip) {
	if skip.Line > 0 {
		log.Printf("skipping %s line %d: %s", skip.Path, skip.Line, skip.Reason)
	} else {
		log.Printf("skipping %s record %d: %s", skip.Path, skip.Record, skip.Reason)
	}
	r.Skips = append(r.Skips, skip)
}

func (r *Report) skipLines(stage string, skips []jsonl.Skip) {
	for _, s := range skips {
		r.skip(Skip{Stage: stage, Path: s.Path, Line: s.Line, Reason: s.Reason})
	}
}
