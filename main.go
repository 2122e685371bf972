// Copyright (c) 2023-2025 D. Bohdan
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"
	tsize "github.com/kopoli/go-terminal-size"
)

const (
	exitCodeCommandNotFound = 255
	fallbackWrapWidth       = 80
	maxVerboseLevel         = 2
	version                 = "0.2.0"
)

type syncConfig struct {
	Command     string
	HelpFlag    string
	DocPath     string
	MarkerBegin string
	MarkerEnd   string
	Condition   string
	Timeout     time.Duration
	WrapWidth   int
	Check       bool
	DryRun      bool
	Verbose     int
}

type cli struct {
	Command   string           `arg:"" help:"command whose help output to embed"`
	Version   kong.VersionFlag `short:"V" help:"print version number and exit"`
	Begin     string           `default:".. BEGIN HELP TEXT" help:"marker that opens the help region"`
	Check     bool             `help:"report whether the document is up to date without writing it"`
	Condition string           `default:"code == 0" short:"c" help:"acceptance condition for the help invocation (Starlark expression)"`
	Doc       string           `default:"readme.rst" help:"document to update"`
	DryRun    bool             `help:"print the updated document instead of writing it"`
	End       string           `default:".. END HELP TEXT" help:"marker that closes the help region"`
	HelpFlag  string           `default:"--help" name:"help-flag" help:"argument that requests help text"`
	Timeout   float64          `default:"0" short:"t" help:"timeout for the help invocation (seconds, 0 for no timeout)"`
	Verbose   int              `short:"v" type:"counter" help:"increase verbosity"`
	Wrap      string           `default:"0" short:"w" help:"wrap help text to this many columns ('auto' for terminal width, 0 for no wrapping)"`
}

func parseWrapWidth(s string) (int, error) {
	if s == "auto" {
		if size, err := tsize.GetSize(); err == nil && size.Width > 0 {
			return size.Width, nil
		}

		return fallbackWrapWidth, nil
	}

	width, err := strconv.Atoi(s)
	if err != nil || width < 0 {
		return 0, fmt.Errorf("invalid wrap width: %s", s)
	}

	return width, nil
}

func helpLabel(command, helpFlag string) string {
	return "Output of ``" + filepath.Base(command) + " " + helpFlag + "``::"
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

func syncHelpBlock(config syncConfig, logger *log.Logger, stdout io.Writer) error {
	result := captureHelp(config.Command, config.HelpFlag, config.Timeout)

	if config.Verbose >= 1 {
		switch result.Status {
		case statusFinished:
			logger.Printf("help command exited with code %d after %s", result.ExitCode, formatDuration(result.Duration))
		case statusTimeout:
			logger.Printf("help command timed out after %s", formatDuration(result.Duration))
		case statusNotFound:
			logger.Printf("help command was not found")
		case statusUnknownError:
			logger.Printf("unknown error occurred while running the help command")
		}
	}

	success, err := evaluateCondition(result, config.Condition)
	if err != nil {
		var exitErr *exitRequestError
		if errors.As(err, &exitErr) {
			return err
		}

		return fmt.Errorf("condition evaluation failed: %w", err)
	}
	if !success {
		return fmt.Errorf("help invocation rejected by condition %q", config.Condition)
	}

	block := formatHelpBlock(result.Output, helpLabel(config.Command, config.HelpFlag), config.WrapWidth)

	doc, err := os.ReadFile(config.DocPath)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", config.DocPath, err)
	}

	updated, err := spliceBetweenMarkers(string(doc), block, config.MarkerBegin, config.MarkerEnd)
	if err != nil {
		return err
	}

	if config.DryRun {
		_, err := io.WriteString(stdout, updated)

		return err
	}

	if config.Check {
		if updated != string(doc) {
			return fmt.Errorf("%q is out of date", config.DocPath)
		}

		if config.Verbose >= 1 {
			logger.Printf("%q is up to date", config.DocPath)
		}

		return nil
	}

	if err := writeFileAtomic(config.DocPath, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", config.DocPath, err)
	}

	if config.Verbose >= 1 {
		logger.Printf("updated %q", config.DocPath)
	}

	return nil
}

func main() {
	var cliConfig cli
	kongCtx := kong.Parse(&cliConfig,
		kong.Name("helpsync"),
		kong.Description("Keep a document's embedded help text in sync with a command's help output."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	if cliConfig.Verbose > maxVerboseLevel {
		kongCtx.Fatalf("up to %d verbose flags is allowed", maxVerboseLevel)
	}

	wrapWidth, err := parseWrapWidth(cliConfig.Wrap)
	if err != nil {
		kongCtx.Fatalf("invalid wrap: %v", err)
	}

	config := syncConfig{
		Command:     cliConfig.Command,
		HelpFlag:    cliConfig.HelpFlag,
		DocPath:     cliConfig.Doc,
		MarkerBegin: cliConfig.Begin,
		MarkerEnd:   cliConfig.End,
		Condition:   cliConfig.Condition,
		Timeout:     time.Duration(cliConfig.Timeout * float64(time.Second)),
		WrapWidth:   wrapWidth,
		Check:       cliConfig.Check,
		DryRun:      cliConfig.DryRun,
		Verbose:     cliConfig.Verbose,
	}

	logger := log.New(os.Stderr, "helpsync: ", 0)

	if config.Verbose >= maxVerboseLevel {
		logger.Printf("%s", repr.String(config, repr.Indent("  ")))
	}

	if err := syncHelpBlock(config, logger, os.Stdout); err != nil {
		logger.Printf("%v", err)

		var exitErr *exitRequestError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}

		os.Exit(1)
	}
}
