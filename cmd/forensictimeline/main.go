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

// Package forensictimeline implements the forensictimeline command line tool
// with various subcommands to build and inspect unified forensic timelines.
//
//	build     Build a timeline from EvtxECmd, Hindsight and exiftool output
//	filter    Keep the event log records that contain a keyword
//	merge     Merge timeline files
//	validate  Validate a timeline file or database
//	db        Query a timeline database (all, select, search)
//
// # Usage
//
// Build a timeline, running all tools
//
//	forensictimeline build --evtx C:\Windows\System32\winevt\Logs --user-data "%LOCALAPPDATA%\Google\Chrome\User Data" --db timeline.db
//
// Build a timeline from previous tool output
//
//	forensictimeline build --config case.yml --no-extract
//
// Query the timeline database
//
//	forensictimeline db search chrome.exe timeline.db
//	forensictimeline db select Hindsight timeline.db > browser.json
//
// Validate a timeline
//
//	forensictimeline validate unified_timeline.jsonl
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/forensicanalysis/forensictimeline/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "forensictimeline",
		Short: "Build unified forensic timelines",
	}
	rootCmd.AddCommand(cmd.Build(), cmd.Filter(), cmd.Merge(), cmd.Validate(), cmd.DB())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1) // nolint:gocritic
	}
}
