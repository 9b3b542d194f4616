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
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/qri-io/jsonschema"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"

	"github.com/forensicanalysis/forensictimeline/jsonl"
	"github.com/forensicanalysis/forensictimeline/merge"
	"github.com/forensicanalysis/forensictimeline/timeline"
)

const entrySchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2019-09/schema#",
  "$id": "https://github.com/forensicanalysis/forensictimeline/entry.json",
  "title": "timeline entry",
  "type": "object",
  "required": ["specific_time_line_point", "original_tool_used"],
  "properties": {
    "specific_time_line_point": {
      "type": "string",
      "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}T[0-9]{2}:[0-9]{2}:[0-9]{2}(\\.[0-9]+)?Z$"
    },
    "original_tool_used": {
      "enum": ["Hindsight", "exiftool", "evtxecmd"]
    }
  }
}`

var (
	entrySchema     *jsonschema.Schema // nolint:gochecknoglobals
	entrySchemaErr  error              // nolint:gochecknoglobals
	entrySchemaOnce sync.Once          // nolint:gochecknoglobals
)

func setupSchemaValidation() (*jsonschema.Schema, error) {
	entrySchemaOnce.Do(func() {
		schema := &jsonschema.Schema{}
		if err := json.Unmarshal([]byte(entrySchemaJSON), schema); err != nil {
			entrySchemaErr = errors.Wrap(err, "unmarshal entry schema")
			return
		}
		entrySchema = schema
	})
	return entrySchema, entrySchemaErr
}

// ValidateEntry returns the schema flaws of a serialized timeline entry.
func ValidateEntry(element []byte) (flaws []string, err error) {
	schema, err := setupSchemaValidation()
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(element) {
		return []string{"entry is not valid json"}, nil
	}
	if !gjson.GetBytes(element, timeline.ToolField).Exists() {
		flaws = append(flaws, "entry needs to have an "+timeline.ToolField)
	}

	errs, err := schema.ValidateBytes(context.Background(), element)
	if err != nil {
		return nil, err
	}
	for _, verr := range errs {
		flaws = append(flaws, fmt.Sprintf("failed to validate entry: %s", verr))
	}
	return flaws, nil
}

func validateEntries(entries []timeline.Entry) error {
	for i, entry := range entries {
		b, err := entry.MarshalJSON()
		if err != nil {
			return errors.Wrapf(err, "entry %d", i)
		}
		flaws, err := ValidateEntry(b)
		if err != nil {
			return err
		}
		if len(flaws) > 0 {
			return errors.Errorf("entry %d is invalid: %v", i, flaws)
		}
	}
	return nil
}

// ValidateFile checks a timeline file. Undecodable lines, entries violating
// the entry schema and entries out of timeline order are flaws.
func ValidateFile(fs afero.Fs, path string) (flaws []string, err error) {
	records, skips, err := jsonl.Load(fs, path)
	if err != nil {
		return nil, err
	}

	flaws = []string{}
	for _, skip := range skips {
		flaws = append(flaws, skip.String())
	}

	var entries []timeline.Entry
	for i, record := range records {
		b, err := json.Marshal(record)
		if err != nil {
			return nil, err
		}
		entryFlaws, err := ValidateEntry(b)
		if err != nil {
			return nil, err
		}
		for _, flaw := range entryFlaws {
			flaws = append(flaws, fmt.Sprintf("entry %d: %s", i+1, flaw))
		}
		if len(entryFlaws) > 0 {
			continue
		}

		var entry timeline.Entry
		if err := entry.UnmarshalJSON(b); err != nil {
			flaws = append(flaws, fmt.Sprintf("entry %d: %s", i+1, err))
			continue
		}
		entries = append(entries, entry)
	}

	if !merge.Sorted(entries) {
		flaws = append(flaws, "entries are not in timeline order")
	}
	return flaws, nil
}
