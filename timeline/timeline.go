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

// Package timeline defines the record types shared by the adapters, the merger
// and the line-delimited store: raw records as emitted by the extraction tools
// and canonical, UTC normalized timeline entries.
package timeline

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// Field names of a canonical timeline entry.
const (
	TimeField = "specific_time_line_point"
	ToolField = "original_tool_used"
)

const (
	layoutSeconds = "2006-01-02T15:04:05Z"
	layoutMicros  = "2006-01-02T15:04:05.000000Z"
)

// Source is the kind of artifact a raw record was extracted from.
type Source string

// Known sources.
const (
	Browser      Source = "browser"
	FileMetadata Source = "file-metadata"
	EventLog     Source = "event-log"
)

// Sources lists all known sources in merge order.
var Sources = []Source{Browser, FileMetadata, EventLog} // nolint:gochecknoglobals

// Tool is the provenance tag of a timeline entry.
type Tool string

// Provenance tags, one per source.
const (
	Hindsight Tool = "Hindsight"
	ExifTool  Tool = "exiftool"
	EvtxECmd  Tool = "evtxecmd"
)

// Tool returns the provenance tag of entries produced from this source.
func (s Source) Tool() Tool {
	switch s {
	case Browser:
		return Hindsight
	case FileMetadata:
		return ExifTool
	case EventLog:
		return EvtxECmd
	}
	return ""
}

// Record is a single raw record as emitted by an extraction tool.
type Record map[string]interface{}

// Without returns a shallow copy of the record lacking the given field.
func (r Record) Without(field string) Record {
	c := make(Record, len(r))
	for k, v := range r {
		if k != field {
			c[k] = v
		}
	}
	return c
}

// Entry is a canonical timeline entry. Fields holds the residual fields of the
// raw record, the consumed timestamp field is never part of it.
type Entry struct {
	Time   time.Time
	Tool   Tool
	Fields Record
}

// FormatTime renders t in UTC with a literal Z suffix and at most microsecond
// precision.
func FormatTime(t time.Time) string {
	t = t.UTC().Truncate(time.Microsecond)
	if t.Nanosecond() == 0 {
		return t.Format(layoutSeconds)
	}
	return t.Format(layoutMicros)
}

// ParseTime parses a canonical timestamp as written by FormatTime. Digits
// beyond microseconds are dropped.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC().Truncate(time.Microsecond), nil
}

// Timestamp returns the canonical rendering of the entry's instant.
func (e Entry) Timestamp() string {
	return FormatTime(e.Time)
}

// MarshalJSON writes the entry as a flat object. The canonical fields come
// first, residual fields follow in key order. Residual fields named like a
// canonical field are dropped.
func (e Entry) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	if err := writeField(buf, TimeField, e.Timestamp()); err != nil {
		return nil, err
	}
	buf.WriteByte(',')
	if err := writeField(buf, ToolField, string(e.Tool)); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		if k == TimeField || k == ToolField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf.WriteByte(',')
		if err := writeField(buf, k, e.Fields[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an entry written by MarshalJSON.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var fields Record
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return err
	}

	ts, ok := fields[TimeField].(string)
	if !ok {
		return errors.Errorf("entry requires a string %s", TimeField)
	}
	t, err := ParseTime(ts)
	if err != nil {
		return errors.Wrap(err, TimeField)
	}
	tool, ok := fields[ToolField].(string)
	if !ok {
		return errors.Errorf("entry requires a string %s", ToolField)
	}
	delete(fields, TimeField)
	delete(fields, ToolField)

	e.Time = t
	e.Tool = Tool(tool)
	e.Fields = fields
	return nil
}

func writeField(buf *bytes.Buffer, key string, value interface{}) error {
	if err := encode(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return encode(buf, value)
}

// encode writes a compact JSON value without HTML escaping and without the
// trailing newline json.Encoder appends.
func encode(buf *bytes.Buffer, v interface{}) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}
