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

// Package invoke runs the third party extraction tools EvtxECmd, Hindsight and
// exiftool as child processes.
package invoke

import (
	"bytes"
	"context"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// EvtxECmd converts Windows event log files into json lines.
type EvtxECmd struct {
	Path        string
	EventLogDir string
	Timeout     time.Duration
}

// ExtractEventLog converts <EventLogDir>/<category>.evtx into
// <outDir>/<category>.json.
func (e *EvtxECmd) ExtractEventLog(ctx context.Context, category, outDir string) error {
	logFile := filepath.Join(e.EventLogDir, category+".evtx")
	if _, err := os.Stat(logFile); err != nil {
		return errors.Wrap(err, "event log")
	}
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return err
	}
	log.Printf("Running EvtxECmd for %s", category)
	_, err := run(ctx, e.Timeout, e.Path, "-f", logFile, "--json", outDir, "--jsonf", category+".json")
	return err
}

// Hindsight extracts browser artifacts of a Chrome user data directory.
type Hindsight struct {
	Path     string
	UserData string
	Browser  string
	Timeout  time.Duration
}

// ExtractBrowser writes the Hindsight json lines output to outPath. Hindsight
// appends the .jsonl extension itself.
func (h *Hindsight) ExtractBrowser(ctx context.Context, outPath string) error {
	browser := h.Browser
	if browser == "" {
		browser = "Chrome"
	}
	log.Printf("Running Hindsight on %s", h.UserData)
	_, err := run(ctx, h.Timeout, h.Path,
		"-i", h.UserData,
		"-o", strings.TrimSuffix(outPath, ".jsonl"),
		"-b", browser,
		"-f", "jsonl",
	)
	return err
}

// ExifTool reads file system metadata of single files.
type ExifTool struct {
	Path    string
	Timeout time.Duration
}

// ExtractMetadata returns the exiftool output for a file.
func (e *ExifTool) ExtractMetadata(ctx context.Context, targetPath string) (string, error) {
	out, err := run(ctx, e.Timeout, e.Path, targetPath)
	return string(out), err
}

func run(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := exec.CommandContext(ctx, name, args...) // #nosec
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, errors.Wrap(err, filepath.Base(name))
		}
		return nil, errors.Wrapf(err, "%s: %s", filepath.Base(name), msg)
	}
	return stdout.Bytes(), nil
}
