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
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

type commandStatus int

const (
	statusFinished commandStatus = iota
	statusTimeout
	statusNotFound
	statusUnknownError
)

type captureResult struct {
	Status   commandStatus
	ExitCode int
	Output   string
	Duration time.Duration
}

// captureHelp runs the command with the help flag as its only argument.
// Stdout is captured; stderr is inherited so the command's own diagnostics
// remain visible.
func captureHelp(command, helpFlag string, timeout time.Duration) captureResult {
	if _, err := exec.LookPath(command); err != nil {
		return captureResult{
			Status:   statusNotFound,
			ExitCode: exitCodeCommandNotFound,
		}
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, command, helpFlag)
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return captureResult{
				Status:   statusTimeout,
				ExitCode: -1,
				Duration: duration,
			}
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return captureResult{
				Status:   statusFinished,
				ExitCode: exitErr.ExitCode(),
				Output:   stdout.String(),
				Duration: duration,
			}
		}

		return captureResult{
			Status:   statusUnknownError,
			ExitCode: -1,
			Duration: duration,
		}
	}

	return captureResult{
		Status:   statusFinished,
		ExitCode: cmd.ProcessState.ExitCode(),
		Output:   stdout.String(),
		Duration: duration,
	}
}
