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
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forensicanalysis/forensictimeline"
	"github.com/forensicanalysis/forensictimeline/timeline"
)

func selectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "select <tool> <timeline.db>",
		Short: "Retrieve all entries of a tool",
		Args:  cobra.ExactArgs(2), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			tool := cmd.Flags().Args()[0]
			storeName := cmd.Flags().Args()[1]
			store, err := forensictimeline.Open(storeName)
			if err != nil {
				return err
			}
			defer store.Close()
			entries, err := store.Select(timeline.Tool(tool))
			if err != nil {
				return err
			}
			return printEntries(entries)
		},
	}
}

func searchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query> <timeline.db>",
		Short: "Full text search the entries",
		Args:  cobra.ExactArgs(2), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			query := cmd.Flags().Args()[0]
			storeName := cmd.Flags().Args()[1]
			store, err := forensictimeline.Open(storeName)
			if err != nil {
				return err
			}
			defer store.Close()
			entries, err := store.Search(query)
			if err != nil {
				return err
			}
			return printEntries(entries)
		},
	}
}

func allCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "all <timeline.db>",
		Short: "Retrieve all entries",
		Args:  cobra.ExactArgs(1), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			storeName := cmd.Flags().Args()[0]
			store, err := forensictimeline.Open(storeName)
			if err != nil {
				return err
			}
			defer store.Close()
			entries, err := store.All()
			if err != nil {
				return err
			}
			return printEntries(entries)
		},
	}
}

func printEntries(entries []timeline.Entry) error {
	if entries == nil {
		entries = []timeline.Entry{}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entries); err != nil {
		fmt.Println(err)
		return err
	}
	return nil
}
