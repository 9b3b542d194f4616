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

// Package adapter maps raw records of the extraction tools into canonical
// timeline entries. All sources share one implementation which is configured
// by the timestamp fields it consumes and the rule to expand a record into
// entries.
package adapter

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/forensicanalysis/forensictimeline/timeline"
	"github.com/forensicanalysis/forensictimeline/timestamp"
)

// Timestamp fields consumed by the built-in adapters.
const (
	HindsightTimeField    = "datetime"
	EvtxTimeField         = "TimeCreated"
	ExifModificationField = "File Modification Date/Time"
	ExifAccessField       = "File Access Date/Time"
	ExifCreationField     = "File Creation Date/Time"
)

var (
	// ErrMissingField is returned if a mandatory timestamp field is absent.
	ErrMissingField = errors.New("missing timestamp field")
	// ErrNotString is returned if a timestamp field is not a string.
	ErrNotString = errors.New("timestamp field is not a string")
	// ErrUnknownSource is returned by For for sources without an adapter.
	ErrUnknownSource = errors.New("no adapter for source")
)

// Expansion decides how many entries a record expands into.
type Expansion int

const (
	// ExpandSingle consumes the first field, which is mandatory, and
	// yields exactly one entry.
	ExpandSingle Expansion = iota
	// ExpandEach yields one entry per present field.
	ExpandEach
)

// Capabilities describe an adapter.
type Capabilities struct {
	Fields    []string
	Expansion Expansion
}

// Adapter translates raw records of one source into timeline entries.
type Adapter interface {
	Source() timeline.Source
	Tool() timeline.Tool
	Fields() []string
	Adapt(record timeline.Record) ([]timeline.Entry, error)
}

// DecodeError describes a record that could not be adapted.
type DecodeError struct {
	Tool  timeline.Tool
	Field string
	Value interface{}
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s: %s", e.Tool, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s %v: %s", e.Tool, e.Field, e.Value, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type fieldAdapter struct {
	source timeline.Source
	tool   timeline.Tool
	caps   Capabilities
}

// New creates an adapter for a source. Timestamps are parsed with the format
// of the given source.
func New(source timeline.Source, tool timeline.Tool, caps Capabilities) Adapter {
	return &fieldAdapter{source: source, tool: tool, caps: caps}
}

// For returns the built-in adapter of a source.
func For(source timeline.Source) (Adapter, error) {
	switch source {
	case timeline.Browser:
		return New(source, source.Tool(), Capabilities{
			Fields:    []string{HindsightTimeField},
			Expansion: ExpandSingle,
		}), nil
	case timeline.FileMetadata:
		return New(source, source.Tool(), Capabilities{
			Fields:    []string{ExifModificationField, ExifAccessField, ExifCreationField},
			Expansion: ExpandEach,
		}), nil
	case timeline.EventLog:
		return New(source, source.Tool(), Capabilities{
			Fields:    []string{EvtxTimeField},
			Expansion: ExpandSingle,
		}), nil
	}
	return nil, errors.Wrap(ErrUnknownSource, string(source))
}

func (a *fieldAdapter) Source() timeline.Source { return a.source }

func (a *fieldAdapter) Tool() timeline.Tool { return a.tool }

func (a *fieldAdapter) Fields() []string { return a.caps.Fields }

// Adapt returns the entries of a record. On error no entries are returned.
func (a *fieldAdapter) Adapt(record timeline.Record) ([]timeline.Entry, error) {
	fields := a.caps.Fields
	if a.caps.Expansion == ExpandSingle {
		if len(fields) == 0 {
			return nil, nil
		}
		if _, ok := record[fields[0]]; !ok {
			return nil, &DecodeError{Tool: a.tool, Field: fields[0], Err: ErrMissingField}
		}
		fields = fields[:1]
	}

	var entries []timeline.Entry
	for _, field := range fields {
		value, ok := record[field]
		if !ok {
			continue
		}
		s, ok := value.(string)
		if !ok {
			return nil, &DecodeError{Tool: a.tool, Field: field, Value: value, Err: ErrNotString}
		}
		t, err := timestamp.Parse(a.source, s)
		if err != nil {
			return nil, &DecodeError{Tool: a.tool, Field: field, Value: s, Err: err}
		}
		entries = append(entries, timeline.Entry{
			Time:   t,
			Tool:   a.tool,
			Fields: record.Without(field),
		})
	}
	return entries, nil
}
