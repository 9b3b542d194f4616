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
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/forensicanalysis/forensictimeline/timeline"
)

func TestValidateEntry(t *testing.T) {
	tests := []struct {
		name      string
		element   string
		wantFlaws int
		wantErr   bool
	}{
		{"valid", `{"specific_time_line_point":"2024-01-01T00:00:00Z","original_tool_used":"Hindsight","url":"x"}`, 0, false},
		{"valid micros", `{"specific_time_line_point":"2024-01-01T00:00:00.123456Z","original_tool_used":"evtxecmd"}`, 0, false},
		{"short fraction", `{"specific_time_line_point":"2024-01-01T00:00:00.5Z","original_tool_used":"evtxecmd"}`, 0, false},
		{"nanos", `{"specific_time_line_point":"2024-01-01T00:00:00.123456789Z","original_tool_used":"evtxecmd"}`, 0, false},
		{"empty fraction", `{"specific_time_line_point":"2024-01-01T00:00:00.Z","original_tool_used":"evtxecmd"}`, 1, false},
		{"offset", `{"specific_time_line_point":"2024-01-01T00:00:00+00:00","original_tool_used":"exiftool"}`, 1, false},
		{"unknown tool", `{"specific_time_line_point":"2024-01-01T00:00:00Z","original_tool_used":"plaso"}`, 1, false},
		{"missing tool", `{"specific_time_line_point":"2024-01-01T00:00:00Z"}`, 2, false},
		{"not json", `{"specific_time_line_point":`, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotFlaws, err := ValidateEntry([]byte(tt.element))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEntry() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if len(gotFlaws) != tt.wantFlaws {
				t.Errorf("ValidateEntry() = %v, want %v flaws", gotFlaws, tt.wantFlaws)
			}
		})
	}
}

func Test_validateEntries(t *testing.T) {
	good := timeline.Entry{Time: time.Now(), Tool: timeline.Hindsight, Fields: timeline.Record{}}
	bad := timeline.Entry{Time: time.Now(), Tool: timeline.Tool("other"), Fields: timeline.Record{}}

	if err := validateEntries([]timeline.Entry{good, good}); err != nil {
		t.Errorf("validateEntries() error = %v", err)
	}
	err := validateEntries([]timeline.Entry{good, bad})
	if err == nil || !strings.Contains(err.Error(), "entry 1") {
		t.Errorf("validateEntries() error = %v, want entry 1 invalid", err)
	}
}

func TestValidateFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"valid.jsonl": `{"specific_time_line_point":"2024-01-01T00:00:00Z","original_tool_used":"Hindsight","url":"x"}
{"specific_time_line_point":"2024-01-01T00:00:00.5Z","original_tool_used":"evtxecmd","EventId":4624}
`,
		"unordered.jsonl": `{"specific_time_line_point":"2024-01-02T00:00:00Z","original_tool_used":"Hindsight"}
{"specific_time_line_point":"2024-01-01T00:00:00Z","original_tool_used":"exiftool"}
`,
		"broken.jsonl": `{"specific_time_line_point":"2024-01-01T00:00:00+01:00","original_tool_used":"Hindsight"}
not json
`,
	}
	for name, content := range files {
		if err := afero.WriteFile(fs, name, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name      string
		path      string
		wantFlaws int
		wantErr   bool
	}{
		{"valid", "valid.jsonl", 0, false},
		{"unordered", "unordered.jsonl", 1, false},
		{"broken", "broken.jsonl", 2, false},
		{"missing", "missing.jsonl", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotFlaws, err := ValidateFile(fs, tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(gotFlaws) != tt.wantFlaws {
				t.Errorf("ValidateFile() = %v, want %v flaws", gotFlaws, tt.wantFlaws)
			}
		})
	}
}
