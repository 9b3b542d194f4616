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

// Package forensictimeline builds a unified forensic timeline from the output
// of independent extraction tools.
//
// # The pipeline
//
// Windows event logs (EvtxECmd), browser artifacts (Hindsight) and file system
// metadata (exiftool) are read from newline delimited json files, normalized
// to UTC and merged into a single chronological sequence:
//
//	event logs ─ combine ─ keyword filter ─┐
//	browser artifacts ───── target paths ──┼─ adapt ─ merge ─ unified_timeline.jsonl
//	file metadata (per target path) ───────┘                 └ timeline.db
//
// # Timeline entries
//
// Every entry is a flat json object:
//
//   - specific_time_line_point is the instant of the event, always in UTC with a Z suffix.
//   - original_tool_used names the tool that produced the record (Hindsight, exiftool or evtxecmd).
//   - All other fields are copied from the raw record, except the timestamp field the entry was built from.
//
// A single exiftool record yields up to three entries, one each for the
// modification, access and creation time of a file.
package forensictimeline
