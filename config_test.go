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
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "full.yaml", []byte(`
event_log_dir: evtx
event_log_categories: [Security]
timeline_path: out/timeline.jsonl
database_path: out/timeline.db
keywords: [firefox]
target_path_query: "download.target_path"
tools:
  exiftool: /opt/exiftool
  timeout: 90s
`), 0644))
	require.NoError(t, afero.WriteFile(fs, "empty.yaml", []byte(""), 0644))
	require.NoError(t, afero.WriteFile(fs, "invalid.yaml", []byte("keywords: [a"), 0644))
	require.NoError(t, afero.WriteFile(fs, "query.yaml", []byte("target_path_query: 'a[?'"), 0644))

	cfg, err := LoadConfig(fs, "full.yaml")
	require.NoError(t, err)
	assert.Equal(t, "evtx", cfg.EventLogDir)
	assert.Equal(t, []string{"Security"}, cfg.EventLogCategories)
	assert.Equal(t, "out/timeline.jsonl", cfg.TimelinePath)
	assert.Equal(t, "out/timeline.db", cfg.DatabasePath)
	assert.Equal(t, []string{"firefox"}, cfg.Keywords)
	assert.Equal(t, "download.target_path", cfg.TargetPathQuery)
	assert.Equal(t, "/opt/exiftool", cfg.Tools.ExifTool)
	assert.Equal(t, 90*time.Second, cfg.Tools.Timeout)
	// defaults
	assert.Equal(t, "CombinedLogs.jsonl", cfg.CombinedPath)
	assert.Equal(t, "hindsight", cfg.Tools.Hindsight)

	cfg, err = LoadConfig(fs, "empty.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	tests := []struct {
		name string
		path string
	}{
		{"Missing", "missing.yaml"},
		{"Invalid yaml", "invalid.yaml"},
		{"Invalid query", "query.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(fs, tt.path)
			assert.Error(t, err)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"Default", func(*Config) {}, false},
		{"No timeline path", func(c *Config) { c.TimelinePath = "" }, true},
		{"No categories", func(c *Config) { c.EventLogCategories = nil }, true},
		{"Empty category", func(c *Config) { c.EventLogCategories = []string{""} }, true},
		{"No keywords", func(c *Config) { c.Keywords = nil }, true},
		{"Empty keywords", func(c *Config) { c.Keywords = []string{""} }, true},
		{"No query", func(c *Config) { c.TargetPathQuery = "" }, true},
		{"Negative timeout", func(c *Config) { c.Tools.Timeout = -time.Second }, true},
		{"No database", func(c *Config) { c.DatabasePath = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
