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
	"fmt"
	"log"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/forensicanalysis/forensictimeline/filter"
	"github.com/forensicanalysis/forensictimeline/jsonl"
	"github.com/forensicanalysis/forensictimeline/merge"
	"github.com/forensicanalysis/forensictimeline/timeline"
)

// Filter is the forensictimeline filter commandline subcommand
func Filter() *cobra.Command {
	var keywords []string
	filterCommand := &cobra.Command{
		Use:   "filter <in.jsonl> <out.jsonl>",
		Short: "Keep the records that contain a keyword",
		Args:  cobra.ExactArgs(2), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.Flags().Args()[0]
			out := cmd.Flags().Args()[1]
			fs := afero.NewOsFs()

			records, skips, err := jsonl.Load(fs, in)
			if err != nil {
				return err
			}
			logSkips(skips)

			filtered := filter.New(keywords).Filter(records)
			if err := jsonl.Save(fs, out, filtered); err != nil {
				return err
			}
			fmt.Printf("%d of %d records matched\n", len(filtered), len(records))
			return nil
		},
	}
	filterCommand.Flags().StringSliceVarP(&keywords, "keyword", "k", filter.DefaultKeywords, "case insensitive keyword")
	return filterCommand
}

// Merge is the forensictimeline merge commandline subcommand
func Merge() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <out.jsonl> <timeline.jsonl>...",
		Short: "Merge timeline files into a single timeline",
		Args:  cobra.MinimumNArgs(2), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.Flags().Args()[0]
			fs := afero.NewOsFs()

			var sources [][]timeline.Entry
			for _, in := range cmd.Flags().Args()[1:] {
				entries, skips, err := jsonl.LoadEntries(fs, in)
				if err != nil {
					return err
				}
				logSkips(skips)
				sources = append(sources, entries)
			}

			entries := merge.Merge(sources...)
			if err := jsonl.Save(fs, out, entries); err != nil {
				return err
			}
			fmt.Printf("%d entries merged\n", len(entries))
			return nil
		},
	}
}

func logSkips(skips []jsonl.Skip) {
	for _, skip := range skips {
		log.Printf("skipping %s", skip)
	}
}
