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
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/forensicanalysis/forensictimeline"
)

// DB is the forensictimeline db commandline subcommand
func DB() *cobra.Command {
	dbCommand := &cobra.Command{
		Use:   "db",
		Short: "Query a timeline database",
	}
	dbCommand.AddCommand(allCommand(), selectCommand(), searchCommand())
	return dbCommand
}

// Validate is the forensictimeline validate commandline subcommand
func Validate() *cobra.Command {
	var noFail bool
	validateCommand := &cobra.Command{
		Use:   "validate <timeline.jsonl|timeline.db>",
		Short: "Validate a timeline file or database",
		Args:  requireOneFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := cmd.Flags().Args()[0]

			valErr, err := validate(name)
			if err != nil {
				fmt.Println(err)
				return err
			}
			if len(valErr) > 0 {
				for i, v := range valErr {
					valErr[i] = strings.Replace(v, "\"", "\\\"", -1)
				}
				fmt.Printf("[\"%s\"]\n", strings.Join(valErr, "\", \""))
				if noFail {
					return nil
				}
				return errors.Errorf("%d flaws found", len(valErr))
			}
			return nil
		},
	}
	validateCommand.Flags().BoolVar(&noFail, "no-fail", false, "return exit code 0")
	return validateCommand
}

const sqliteHeader = "SQLite format 3\x00"

func validate(name string) ([]string, error) {
	fs := afero.NewOsFs()
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	header := make([]byte, len(sqliteHeader))
	n, _ := io.ReadFull(f, header)
	f.Close() // nolint:errcheck

	if string(header[:n]) != sqliteHeader {
		return forensictimeline.ValidateFile(fs, name)
	}

	store, err := forensictimeline.Open(name)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Validate()
}

func requireOneFile(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("requires exactly one file")
	}
	for _, arg := range args {
		if _, err := os.Stat(arg); os.IsNotExist(err) {
			return errors.Wrap(os.ErrNotExist, arg)
		}
	}
	return nil
}
