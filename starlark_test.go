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
	"strings"
	"testing"
)

func TestConditionDefaultSuccess(t *testing.T) {
	result := captureResult{Status: statusFinished, ExitCode: 0}

	success, err := evaluateCondition(result, "code == 0")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !success {
		t.Error("Expected the default condition to accept exit code 0")
	}
}

func TestConditionDefaultFailure(t *testing.T) {
	result := captureResult{Status: statusFinished, ExitCode: 1}

	success, err := evaluateCondition(result, "code == 0")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if success {
		t.Error("Expected the default condition to reject exit code 1")
	}
}

func TestConditionCommandNotFoundCode(t *testing.T) {
	result := captureResult{Status: statusNotFound, ExitCode: exitCodeCommandNotFound}

	success, err := evaluateCondition(result, "code == 0")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if success {
		t.Error("Expected the default condition to reject a missing command")
	}
}

func TestConditionCommandNotFoundExit(t *testing.T) {
	result := captureResult{Status: statusNotFound, ExitCode: exitCodeCommandNotFound}

	_, err := evaluateCondition(result, "command_found or exit(42)")

	var exitErr *exitRequestError
	if !errors.As(err, &exitErr) || exitErr.Code != 42 {
		t.Errorf("Expected an exit request with code 42, got %v", err)
	}
}

func TestConditionExitArgNone(t *testing.T) {
	result := captureResult{Status: statusNotFound, ExitCode: exitCodeCommandNotFound}

	_, err := evaluateCondition(result, "exit(None)")

	var exitErr *exitRequestError
	if !errors.As(err, &exitErr) || exitErr.Code != exitCodeCommandNotFound {
		t.Errorf("Expected an exit request with code %d, got %v", exitCodeCommandNotFound, err)
	}
}

func TestConditionExitArgTooLarge(t *testing.T) {
	result := captureResult{Status: statusFinished, ExitCode: 0}

	_, err := evaluateCondition(result, "exit(10000000000000000000)")
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Fatalf("Expected a 'too large' error, got %v", err)
	}
}

func TestConditionOutputVariable(t *testing.T) {
	result := captureResult{Status: statusFinished, ExitCode: 0, Output: "usage: tool [-h]\n"}

	success, err := evaluateCondition(result, `code == 0 and "usage" in output`)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !success {
		t.Error("Expected the condition to see the captured output")
	}
}

func TestConditionTruthiness(t *testing.T) {
	result := captureResult{Status: statusFinished, ExitCode: 0, Output: "text"}

	success, err := evaluateCondition(result, "output")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !success {
		t.Error("Expected a non-empty string to be truthy")
	}
}

func TestConditionBadExpression(t *testing.T) {
	result := captureResult{Status: statusFinished, ExitCode: 0}

	if _, err := evaluateCondition(result, "no_such_variable == 0"); err == nil {
		t.Error("Expected an error for an undefined variable")
	}
}
