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
	"os"
	"path/filepath"

	"github.com/jmespath/go-jmespath"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/forensicanalysis/forensictimeline/adapter"
	"github.com/forensicanalysis/forensictimeline/exifmeta"
	"github.com/forensicanalysis/forensictimeline/filter"
	"github.com/forensicanalysis/forensictimeline/jsonl"
	"github.com/forensicanalysis/forensictimeline/merge"
	"github.com/forensicanalysis/forensictimeline/timeline"
)

// EventLogExtractor converts the event log of a category into
// <outDir>/<category>.json.
type EventLogExtractor interface {
	ExtractEventLog(ctx context.Context, category, outDir string) error
}

// BrowserExtractor writes browser history and cache records to outPath.
type BrowserExtractor interface {
	ExtractBrowser(ctx context.Context, outPath string) error
}

// MetadataExtractor returns the key: value metadata text of a file.
type MetadataExtractor interface {
	ExtractMetadata(ctx context.Context, targetPath string) (string, error)
}

// Pipeline builds a unified timeline. Extractors are optional, without an
// extractor the previously extracted file is read.
type Pipeline struct {
	Config    *Config
	Fs        afero.Fs
	EventLogs EventLogExtractor
	Browser   BrowserExtractor
	Metadata  MetadataExtractor
}

type sourceRecords struct {
	source  timeline.Source
	path    string
	records []timeline.Record
}

// Run executes all stages. Problems with single inputs or records are
// recorded in the report, failing to write an output aborts the run.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}
	report := &Report{}

	eventLogs, err := p.eventLogs(ctx, report)
	if err != nil {
		return report, err
	}

	browser, err := p.browser(ctx, report)
	if err != nil {
		return report, err
	}

	metadata, err := p.metadata(ctx, report, browser)
	if err != nil {
		return report, err
	}

	entries := p.adapt(report, []sourceRecords{
		{timeline.Browser, p.Config.BrowserPath, browser},
		{timeline.FileMetadata, p.Config.MetadataPath, metadata},
		{timeline.EventLog, p.Config.FilteredPath, eventLogs},
	})
	report.Entries = len(entries)

	if err := validateEntries(entries); err != nil {
		return report, err
	}
	if err := save(p.Fs, report, p.Config.TimelinePath, entries); err != nil {
		return report, err
	}

	if p.Config.DatabasePath != "" {
		if err := writeDatabase(report, p.Config.DatabasePath, entries); err != nil {
			return report, err
		}
	}
	return report, nil
}

// eventLogs combines the event logs of all categories and returns the
// records matching the keywords.
func (p *Pipeline) eventLogs(ctx context.Context, report *Report) ([]timeline.Record, error) {
	var combined []timeline.Record
	for _, category := range p.Config.EventLogCategories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if p.EventLogs != nil {
			if err := p.EventLogs.ExtractEventLog(ctx, category, p.Config.EventLogDir); err != nil {
				report.warn("could not extract %s event log: %s", category, err)
			}
		}

		records, ok := p.load(report, "event log", filepath.Join(p.Config.EventLogDir, category+".json"))
		if ok {
			combined = append(combined, records...)
		}
	}
	report.Combined = len(combined)
	if err := save(p.Fs, report, p.Config.CombinedPath, combined); err != nil {
		return nil, err
	}

	filtered := filter.New(p.Config.Keywords).Filter(combined)
	report.Filtered = len(filtered)
	if err := save(p.Fs, report, p.Config.FilteredPath, filtered); err != nil {
		return nil, err
	}
	return filtered, nil
}

func (p *Pipeline) browser(ctx context.Context, report *Report) ([]timeline.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Browser != nil {
		if err := p.Browser.ExtractBrowser(ctx, p.Config.BrowserPath); err != nil {
			report.warn("could not extract browser artifacts: %s", err)
		}
	}
	records, _ := p.load(report, "browser", p.Config.BrowserPath)
	return records, nil
}

// metadata reads the metadata of every file referenced by a browser record.
func (p *Pipeline) metadata(ctx context.Context, report *Report, browser []timeline.Record) ([]timeline.Record, error) {
	if p.Metadata == nil {
		records, _ := p.load(report, "metadata", p.Config.MetadataPath)
		return records, nil
	}

	targets, err := TargetPaths(p.Config.TargetPathQuery, browser)
	if err != nil {
		return nil, err
	}
	report.Targets = len(targets)

	var records []timeline.Record
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		exists, err := afero.Exists(p.Fs, target)
		if err != nil || !exists {
			report.warn("file not found: %s", target)
			continue
		}
		text, err := p.Metadata.ExtractMetadata(ctx, target)
		if err != nil {
			report.warn("could not extract metadata of %s: %s", target, err)
			continue
		}
		if text == "" {
			continue
		}
		records = append(records, exifmeta.Parse(text))
	}

	if err := save(p.Fs, report, p.Config.MetadataPath, records); err != nil {
		return nil, err
	}
	return records, nil
}

// adapt converts the records of all sources and merges them. The order of
// sources decides between entries with equal timestamps.
func (p *Pipeline) adapt(report *Report, sources []sourceRecords) []timeline.Entry {
	var entries [][]timeline.Entry
	for _, src := range sources {
		sourceReport := SourceReport{
			Source:  string(src.source),
			Tool:    string(src.source.Tool()),
			Path:    src.path,
			Records: len(src.records),
		}

		a, err := adapter.For(src.source)
		if err != nil {
			report.warn("%s", err)
			continue
		}

		var sourceEntries []timeline.Entry
		for i, record := range src.records {
			recordEntries, err := a.Adapt(record)
			if err != nil {
				sourceReport.Skipped++
				report.skip(Skip{Stage: "adapt", Path: src.path, Record: i + 1, Reason: err.Error()})
				continue
			}
			sourceEntries = append(sourceEntries, recordEntries...)
		}
		sourceReport.Entries = len(sourceEntries)
		report.Sources = append(report.Sources, sourceReport)
		entries = append(entries, sourceEntries)
	}
	return merge.Merge(entries...)
}

// load reads a jsonl file. A missing or unreadable file is a warning.
func (p *Pipeline) load(report *Report, stage, path string) ([]timeline.Record, bool) {
	records, skips, err := jsonl.Load(p.Fs, path)
	report.skipLines(stage, skips)
	if err != nil {
		if jsonl.IsNotExist(err) {
			report.warn("%s file %s does not exist", stage, path)
		} else {
			report.warn("could not read %s: %s", path, err)
		}
		return nil, false
	}
	return records, true
}

func save[T any](fs afero.Fs, report *Report, path string, items []T) error {
	if err := jsonl.Save(fs, path, items); err != nil {
		return err
	}
	report.Outputs = append(report.Outputs, path)
	return nil
}

// TargetPaths evaluates a JMESPath expression on every record and returns the
// resulting paths in order of appearance without duplicates. Results that
// are neither a string nor a list of strings are ignored.
func TargetPaths(query string, records []timeline.Record) ([]string, error) {
	expr, err := jmespath.Compile(query)
	if err != nil {
		return nil, errors.Wrap(err, "target path query")
	}

	seen := map[string]bool{}
	var paths []string
	add := func(v interface{}) {
		if s, ok := v.(string); ok && s != "" && !seen[s] {
			seen[s] = true
			paths = append(paths, s)
		}
	}
	for _, record := range records {
		result, err := expr.Search(map[string]interface{}(record))
		if err != nil {
			return nil, errors.Wrap(err, "target path query")
		}
		if list, ok := result.([]interface{}); ok {
			for _, v := range list {
				add(v)
			}
			continue
		}
		add(result)
	}
	return paths, nil
}

// writeDatabase replaces the timeline database at path.
func writeDatabase(report *Report, path string, entries []timeline.Entry) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "could not replace timeline database")
	}

	store, err := New(path)
	if err != nil {
		return err
	}
	if _, err := store.InsertBatch(entries); err != nil {
		_ = store.Close()
		return err
	}

	flaws, err := store.Validate()
	if err != nil {
		_ = store.Close()
		return err
	}
	for _, flaw := range flaws {
		report.warn("timeline database: %s", flaw)
	}

	if err := store.Close(); err != nil {
		return err
	}
	report.Outputs = append(report.Outputs, path)
	return nil
}
