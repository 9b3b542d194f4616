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

// Package jsonl reads and writes newline delimited json files. Reading is
// tolerant: lines that cannot be decoded are skipped and reported, the rest
// of the file is still read.
package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/forensicanalysis/forensictimeline/timeline"
)

// Skip is a line that was not read.
type Skip struct {
	Path   string
	Line   int
	Reason string
}

func (s Skip) String() string {
	return fmt.Sprintf("%s:%d: %s", s.Path, s.Line, s.Reason)
}

// IsNotExist reports whether err is caused by a missing file.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

// Load reads all json objects of a file.
func Load(fs afero.Fs, path string) ([]timeline.Record, []Skip, error) {
	var records []timeline.Record
	skips, err := scan(fs, path, func(line []byte) error {
		record, err := decodeRecord(line)
		if err != nil {
			return err
		}
		records = append(records, record)
		return nil
	})
	return records, skips, err
}

// LoadEntries reads all timeline entries of a file.
func LoadEntries(fs afero.Fs, path string) ([]timeline.Entry, []Skip, error) {
	var entries []timeline.Entry
	skips, err := scan(fs, path, func(line []byte) error {
		var entry timeline.Entry
		if err := entry.UnmarshalJSON(line); err != nil {
			return err
		}
		entries = append(entries, entry)
		return nil
	})
	return entries, skips, err
}

// Save writes one json object per line. An existing file is replaced.
func Save[T any](fs afero.Fs, path string, items []T) (err error) {
	if err = fs.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0640)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, item := range items {
		if err := enc.Encode(item); err != nil {
			return errors.Wrapf(err, "write %s line %d", path, i+1)
		}
	}
	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

func scan(fs afero.Fs, path string, fn func(line []byte) error) ([]Skip, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close() // nolint:errcheck

	// BOMOverride strips an UTF-8 BOM and decodes UTF-16 input with a BOM
	r := bufio.NewReader(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))

	var skips []Skip
	for n := 1; ; n++ {
		line, err := r.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			if ferr := fn(line); ferr != nil {
				skips = append(skips, Skip{Path: path, Line: n, Reason: ferr.Error()})
			}
		}
		if err == io.EOF {
			return skips, nil
		}
		if err != nil {
			return skips, errors.Wrapf(err, "read %s line %d", path, n)
		}
	}
}

func decodeRecord(line []byte) (timeline.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after json object")
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, errors.Errorf("expected a json object, got %T", v)
	}
	return m, nil
}
