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

package jsonl

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forensicanalysis/forensictimeline/timeline"
)

func writeFile(t *testing.T, fs afero.Fs, name string, content []byte) {
	if err := afero.WriteFile(fs, name, content, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantCount int
		wantSkips []int
	}{
		{"Records", "{\"a\":1}\n{\"b\":\"x\"}\n", 2, nil},
		{"No trailing newline", "{\"a\":1}\n{\"b\":\"x\"}", 2, nil},
		{"CRLF", "{\"a\":1}\r\n{\"b\":\"x\"}\r\n", 2, nil},
		{"Malformed line continues", "{\"a\":1}\n{\"b\":\n{\"c\":3}\n", 2, []int{2}},
		{"Not an object", "[1,2]\n\"text\"\n{\"c\":3}\n", 1, []int{1, 2}},
		{"Trailing data", "{\"a\":1} {\"b\":2}\n", 0, []int{1}},
		{"Blank lines", "\n{\"a\":1}\n   \n\n", 1, nil},
		{"BOM", "\xef\xbb\xbf{\"a\":1}\n{\"b\":2}\n", 2, nil},
		{"Empty", "", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeFile(t, fs, "/in.json", []byte(tt.content))

			records, skips, err := Load(fs, "/in.json")
			require.NoError(t, err)
			assert.Len(t, records, tt.wantCount)

			var lines []int
			for _, skip := range skips {
				assert.Equal(t, "/in.json", skip.Path)
				assert.NotEmpty(t, skip.Reason)
				lines = append(lines, skip.Line)
			}
			assert.Equal(t, tt.wantSkips, lines)
		})
	}
}

func TestLoad_bomKey(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/in.json", []byte("\xef\xbb\xbf{\"TimeCreated\":\"2024-06-01T10:00:00\"}\n"))

	records, _, err := Load(fs, "/in.json")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, records[0], "TimeCreated")
}

func TestLoad_utf16(t *testing.T) {
	fs := afero.NewMemMapFs()
	// {"a":"ä"}\n as UTF-16LE with BOM
	content := []byte{0xff, 0xfe}
	for _, r := range "{\"a\":\"ä\"}\n" {
		content = append(content, byte(r), byte(r>>8))
	}
	writeFile(t, fs, "/in.json", content)

	records, skips, err := Load(fs, "/in.json")
	require.NoError(t, err)
	assert.Empty(t, skips)
	require.Len(t, records, 1)
	assert.Equal(t, "ä", records[0]["a"])
}

func TestLoad_numbers(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/in.json", []byte("{\"EventRecordId\":18446744073709551615,\"f\":1.5}\n"))

	records, _, err := Load(fs, "/in.json")
	require.NoError(t, err)
	assert.Equal(t, json.Number("18446744073709551615"), records[0]["EventRecordId"])
	assert.Equal(t, json.Number("1.5"), records[0]["f"])
}

func TestLoad_notExist(t *testing.T) {
	_, _, err := Load(afero.NewMemMapFs(), "/missing.json")
	require.Error(t, err)
	assert.True(t, IsNotExist(err))
}

func TestSave(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/out/x.jsonl", []byte("old content that is longer than the new one\n"))

	records := []timeline.Record{
		{"b": "<&>", "a": json.Number("1")},
		{"c": nil},
	}
	require.NoError(t, Save(fs, "/out/x.jsonl", records))

	b, err := afero.ReadFile(fs, "/out/x.jsonl")
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1,\"b\":\"<&>\"}\n{\"c\":null}\n", string(b))
}

func TestSave_createsDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, Save(fs, "/a/b/c.jsonl", []timeline.Record{{"a": "b"}}))
	exists, err := afero.Exists(fs, "/a/b/c.jsonl")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSave_readOnly(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	err := Save(fs, "/x.jsonl", []timeline.Record{{"a": "b"}})
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	entries := []timeline.Entry{
		{
			Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Tool: timeline.Hindsight,
			Fields: timeline.Record{
				"url":    "https://example.org/?a=1&b=2",
				"nested": map[string]interface{}{"x": []interface{}{"y", json.Number("2")}},
			},
		},
		{
			Time:   time.Date(2024, 6, 1, 10, 0, 0, 123456000, time.UTC),
			Tool:   timeline.EvtxECmd,
			Fields: timeline.Record{"EventId": json.Number("4624"), "Payload": nil, "ok": true},
		},
		{
			Time:   time.Date(2024, 6, 1, 10, 0, 0, 123456000, time.UTC),
			Tool:   timeline.ExifTool,
			Fields: timeline.Record{},
		},
	}
	require.NoError(t, Save(fs, "/timeline.jsonl", entries))

	got, skips, err := LoadEntries(fs, "/timeline.jsonl")
	require.NoError(t, err)
	assert.Empty(t, skips)
	require.Len(t, got, len(entries))
	for i := range entries {
		assert.True(t, entries[i].Time.Equal(got[i].Time))
		assert.Equal(t, entries[i].Tool, got[i].Tool)
		assert.Equal(t, entries[i].Fields, got[i].Fields)
	}
}

func TestSkip_String(t *testing.T) {
	assert.Equal(t, "a.json:3: bad", Skip{Path: "a.json", Line: 3, Reason: "bad"}.String())
}
