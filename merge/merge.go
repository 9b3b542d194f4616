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

// Package merge combines the timeline entries of several sources into a single
// chronological sequence.
package merge

import (
	"sort"
	"time"

	"github.com/forensicanalysis/forensictimeline/timeline"
)

// Merge concatenates the sources in argument order and sorts the result by
// instant at microsecond precision. The sort is stable, entries with equal
// instants keep their source and input order. Entries are never de-duplicated.
func Merge(sources ...[]timeline.Entry) []timeline.Entry {
	n := 0
	for _, source := range sources {
		n += len(source)
	}
	entries := make([]timeline.Entry, 0, n)
	for _, source := range sources {
		entries = append(entries, source...)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return before(entries[i], entries[j])
	})
	return entries
}

// Sorted reports whether the entries are in chronological order.
func Sorted(entries []timeline.Entry) bool {
	return sort.SliceIsSorted(entries, func(i, j int) bool {
		return before(entries[i], entries[j])
	})
}

// before compares at the precision of the canonical timestamp.
func before(a, b timeline.Entry) bool {
	return a.Time.Truncate(time.Microsecond).Before(b.Time.Truncate(time.Microsecond))
}
