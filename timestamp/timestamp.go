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

// Package timestamp normalizes the source specific timestamp encodings of the
// extraction tools into UTC instants.
package timestamp

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/forensicanalysis/forensictimeline/timeline"
)

const (
	exifLayout = "2006:01:02 15:04:05-07:00"
	maxFrac    = 6
)

// browserLayouts are tried in order, zoneless layouts are read as UTC.
var browserLayouts = []string{ // nolint:gochecknoglobals
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ErrMissingOffset is returned for file metadata timestamps without an
// explicit UTC offset.
var ErrMissingOffset = errors.New("missing utc offset")

// ErrUnknownSource is returned for sources without a timestamp format.
var ErrUnknownSource = errors.New("unknown source")

// FormatError describes a timestamp that could not be parsed.
type FormatError struct {
	Source timeline.Source
	Value  string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s timestamp %q: %s", e.Source, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Parse converts a timestamp of the given source into a UTC instant with
// microsecond precision.
func Parse(source timeline.Source, value string) (time.Time, error) {
	var t time.Time
	var err error
	switch source {
	case timeline.Browser:
		t, err = parseBrowser(value)
	case timeline.FileMetadata:
		t, err = parseFileMetadata(value)
	case timeline.EventLog:
		t, err = parseEventLog(value)
	default:
		err = ErrUnknownSource
	}
	if err != nil {
		return time.Time{}, &FormatError{Source: source, Value: value, Err: err}
	}
	return t.UTC().Truncate(time.Microsecond), nil
}

// Format renders an instant in the canonical timeline form.
func Format(t time.Time) string {
	return timeline.FormatTime(t)
}

func parseBrowser(value string) (t time.Time, err error) {
	value = strings.TrimSpace(value)
	for _, layout := range browserLayouts {
		t, err = time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// parseFileMetadata reads exiftool's colon delimited date with a signed
// hours:minutes offset, e.g. 2024:01:02 10:00:00+02:00.
func parseFileMetadata(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if !strings.ContainsAny(value, "+-") {
		return time.Time{}, ErrMissingOffset
	}
	return time.Parse(exifLayout, value)
}

// parseEventLog reads EvtxECmd timestamps. Fractional seconds of any length are
// truncated to microseconds, a missing zone designator means UTC.
func parseEventLog(value string) (time.Time, error) {
	value = strings.Replace(strings.TrimSpace(value), " ", "T", 1)

	zone := "Z"
	if strings.HasSuffix(value, "Z") {
		value = value[:len(value)-1]
	} else if t := strings.IndexByte(value, 'T'); t >= 0 {
		if i := strings.LastIndexAny(value[t:], "+-"); i >= 0 {
			zone = value[t+i:]
			value = value[:t+i]
		}
	}

	if dot := strings.IndexByte(value, '.'); dot >= 0 {
		frac := value[dot+1:]
		if len(frac) > maxFrac {
			frac = frac[:maxFrac]
		}
		value = value[:dot]
		if frac != "" {
			value += "." + frac
		}
	}

	return time.Parse(time.RFC3339Nano, value+zone)
}
