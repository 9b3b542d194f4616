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
	"time"

	"github.com/imdario/mergo"
	"github.com/jmespath/go-jmespath"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/forensicanalysis/forensictimeline/filter"
)

// DefaultTimeout limits a single run of an extraction tool.
const DefaultTimeout = 30 * time.Minute

// Config describes the inputs, intermediate files and outputs of a timeline
// build.
type Config struct {
	// EventLogDir holds one <category>.json file per event log category.
	EventLogDir        string   `yaml:"event_log_dir"`
	EventLogCategories []string `yaml:"event_log_categories"`

	CombinedPath string `yaml:"combined_path"`
	FilteredPath string `yaml:"filtered_path"`
	BrowserPath  string `yaml:"browser_path"`
	MetadataPath string `yaml:"metadata_path"`
	TimelinePath string `yaml:"timeline_path"`
	// DatabasePath is optional, no database is written if it is empty.
	DatabasePath string `yaml:"database_path"`

	Keywords []string `yaml:"keywords"`
	// TargetPathQuery is a JMESPath expression evaluated on every browser
	// record. Each resulting string is a file handed to the metadata tool.
	TargetPathQuery string `yaml:"target_path_query"`

	Tools ToolsConfig `yaml:"tools"`
}

// ToolsConfig locates the extraction tools and their inputs.
type ToolsConfig struct {
	EvtxECmd       string        `yaml:"evtxecmd"`
	EventLogSource string        `yaml:"event_log_source"`
	Hindsight      string        `yaml:"hindsight"`
	UserData       string        `yaml:"user_data"`
	ExifTool       string        `yaml:"exiftool"`
	Timeout        time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the file layout of a timeline build in the working
// directory.
func DefaultConfig() *Config {
	return &Config{
		EventLogDir:        "AllLogs",
		EventLogCategories: []string{"Security", "Application", "System"},
		CombinedPath:       "CombinedLogs.jsonl",
		FilteredPath:       "ChromeLogs.jsonl",
		BrowserPath:        "hindsight_output.jsonl",
		MetadataPath:       "exiftool_output.jsonl",
		TimelinePath:       "unified_timeline.jsonl",
		Keywords:           append([]string{}, filter.DefaultKeywords...),
		TargetPathQuery:    "target_path",
		Tools: ToolsConfig{
			EvtxECmd:  "EvtxECmd",
			Hindsight: "hindsight",
			ExifTool:  "exiftool",
			Timeout:   DefaultTimeout,
		},
	}
}

// LoadConfig reads a yaml configuration. Fields missing in the file keep
// their default value.
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config file")
	}

	if err := cfg.SetDefaults(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}
	return cfg, nil
}

// SetDefaults fills all empty fields from DefaultConfig.
func (c *Config) SetDefaults() error {
	return errors.Wrap(mergo.Merge(c, *DefaultConfig()), "merging defaults")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	required := []struct{ name, value string }{
		{"event_log_dir", c.EventLogDir},
		{"combined_path", c.CombinedPath},
		{"filtered_path", c.FilteredPath},
		{"browser_path", c.BrowserPath},
		{"metadata_path", c.MetadataPath},
		{"timeline_path", c.TimelinePath},
	}
	for _, field := range required {
		if field.value == "" {
			return errors.Errorf("%s is required", field.name)
		}
	}

	if len(c.EventLogCategories) == 0 {
		return errors.New("event_log_categories: at least one category is required")
	}
	for i, category := range c.EventLogCategories {
		if category == "" {
			return errors.Errorf("event_log_categories[%d] is empty", i)
		}
	}

	keywords := 0
	for _, keyword := range c.Keywords {
		if keyword != "" {
			keywords++
		}
	}
	if keywords == 0 {
		return errors.New("keywords: at least one keyword is required")
	}

	if c.TargetPathQuery == "" {
		return errors.New("target_path_query is required")
	}
	if _, err := jmespath.Compile(c.TargetPathQuery); err != nil {
		return errors.Wrap(err, "target_path_query")
	}

	if c.Tools.Timeout < 0 {
		return errors.New("tools.timeout must not be negative")
	}
	return nil
}
