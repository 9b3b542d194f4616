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

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/forensicanalysis/forensictimeline"
	"github.com/forensicanalysis/forensictimeline/invoke"
)

// Build is the forensictimeline build commandline subcommand
func Build() *cobra.Command {
	var configPath string
	var noExtract bool
	flags := forensictimeline.DefaultConfig()

	buildCommand := &cobra.Command{
		Use:   "build",
		Short: "Build a unified timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := afero.NewOsFs()

			cfg := forensictimeline.DefaultConfig()
			if configPath != "" {
				var err error
				cfg, err = forensictimeline.LoadConfig(fs, configPath)
				if err != nil {
					return err
				}
			}
			override(cmd.Flags(), cfg, flags)

			pipeline := &forensictimeline.Pipeline{Config: cfg, Fs: fs}
			if !noExtract {
				extractors(pipeline)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			report, err := pipeline.Run(ctx)
			if report != nil {
				if perr := printReport(os.Stdout, report); perr != nil && err == nil {
					err = perr
				}
			}
			return err
		},
	}

	f := buildCommand.Flags()
	f.StringVarP(&configPath, "config", "c", "", "yaml configuration")
	f.BoolVar(&noExtract, "no-extract", false, "do not run the extraction tools, read their previous output")
	f.StringVar(&flags.EventLogDir, "event-log-dir", flags.EventLogDir, "directory of the EvtxECmd json output")
	f.StringSliceVar(&flags.EventLogCategories, "category", flags.EventLogCategories, "event log category")
	f.StringVar(&flags.TimelinePath, "timeline", flags.TimelinePath, "unified timeline output")
	f.StringVar(&flags.DatabasePath, "db", flags.DatabasePath, "timeline database output")
	f.StringSliceVarP(&flags.Keywords, "keyword", "k", flags.Keywords, "case insensitive event log keyword")
	f.StringVar(&flags.TargetPathQuery, "target-path-query", flags.TargetPathQuery, "JMESPath expression selecting files from browser records")
	f.StringVar(&flags.Tools.EvtxECmd, "evtxecmd", flags.Tools.EvtxECmd, "EvtxECmd executable")
	f.StringVar(&flags.Tools.EventLogSource, "evtx", flags.Tools.EventLogSource, "directory of the .evtx files")
	f.StringVar(&flags.Tools.Hindsight, "hindsight", flags.Tools.Hindsight, "hindsight executable")
	f.StringVar(&flags.Tools.UserData, "user-data", flags.Tools.UserData, "Chrome user data directory")
	f.StringVar(&flags.Tools.ExifTool, "exiftool", flags.Tools.ExifTool, "exiftool executable")
	f.DurationVar(&flags.Tools.Timeout, "timeout", flags.Tools.Timeout, "timeout per tool run")
	return buildCommand
}

// override copies all flags set on the commandline into the configuration.
func override(flags *pflag.FlagSet, cfg, values *forensictimeline.Config) {
	set := map[string]func(){
		"event-log-dir":     func() { cfg.EventLogDir = values.EventLogDir },
		"category":          func() { cfg.EventLogCategories = values.EventLogCategories },
		"timeline":          func() { cfg.TimelinePath = values.TimelinePath },
		"db":                func() { cfg.DatabasePath = values.DatabasePath },
		"keyword":           func() { cfg.Keywords = values.Keywords },
		"target-path-query": func() { cfg.TargetPathQuery = values.TargetPathQuery },
		"evtxecmd":          func() { cfg.Tools.EvtxECmd = values.Tools.EvtxECmd },
		"evtx":              func() { cfg.Tools.EventLogSource = values.Tools.EventLogSource },
		"hindsight":         func() { cfg.Tools.Hindsight = values.Tools.Hindsight },
		"user-data":         func() { cfg.Tools.UserData = values.Tools.UserData },
		"exiftool":          func() { cfg.Tools.ExifTool = values.Tools.ExifTool },
		"timeout":           func() { cfg.Tools.Timeout = values.Tools.Timeout },
	}
	flags.Visit(func(flag *pflag.Flag) {
		if fn, ok := set[flag.Name]; ok {
			fn()
		}
	})
}

// extractors sets up the tools whose inputs are configured.
func extractors(pipeline *forensictimeline.Pipeline) {
	tools := pipeline.Config.Tools
	timeout := tools.Timeout

	if tools.EventLogSource != "" {
		pipeline.EventLogs = &invoke.EvtxECmd{Path: tools.EvtxECmd, EventLogDir: tools.EventLogSource, Timeout: timeout}
	}
	if tools.UserData != "" {
		pipeline.Browser = &invoke.Hindsight{Path: tools.Hindsight, UserData: tools.UserData, Timeout: timeout}
	}
	pipeline.Metadata = &invoke.ExifTool{Path: tools.ExifTool, Timeout: timeout}
}

func printReport(w io.Writer, report *forensictimeline.Report) error {
	b, err := json.MarshalIndent(report.Map(), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}
