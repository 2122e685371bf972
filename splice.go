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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/mitchellh/go-wordwrap"
)

const indentPrefix = "   "

type markerNotFoundError struct {
	Marker string
}

func (e *markerNotFoundError) Error() string {
	return fmt.Sprintf("marker %q not found", e.Marker)
}

// indent prefixes every line that contains something other than whitespace.
// Blank lines are left empty so the document gets no trailing spaces.
func indent(text, prefix string) string {
	var b strings.Builder

	for _, line := range strings.SplitAfter(text, "\n") {
		if strings.TrimSpace(line) != "" {
			b.WriteString(prefix)
		}

		b.WriteString(line)
	}

	return b.String()
}

// formatHelpBlock turns raw help output into the reStructuredText block that
// goes between the markers: a blank line, an unindented label ending in a
// literal-block marker, a blank line, then the output indented three spaces
// and followed by a blank line.
func formatHelpBlock(helpOutput, label string, wrapWidth int) string {
	text := strings.TrimRightFunc(helpOutput, unicode.IsSpace)

	if wrapWidth > 0 {
		text = wordwrap.WrapString(text, uint(wrapWidth))
	}

	text += "\n\n"

	return "\n" + label + "\n\n" + indent(text, indentPrefix)
}

// spliceBetweenMarkers replaces the text between the first occurrence of the
// begin marker and the first occurrence of the end marker after it. The
// markers themselves and everything outside them are preserved byte for byte.
func spliceBetweenMarkers(doc, block, begin, end string) (string, error) {
	beginIdx := strings.Index(doc, begin)
	if beginIdx < 0 {
		return "", &markerNotFoundError{Marker: begin}
	}

	afterBegin := beginIdx + len(begin)
	if afterBegin >= len(doc) || doc[afterBegin] != '\n' {
		return "", fmt.Errorf("no newline after marker %q", begin)
	}

	endIdx := strings.Index(doc[afterBegin:], end)
	if endIdx < 0 {
		return "", &markerNotFoundError{Marker: end}
	}
	endIdx += afterBegin

	return doc[:afterBegin+1] + block + doc[endIdx:], nil
}

// writeFileAtomic writes to a temporary file in the same directory and
// renames it over the target, so an interrupted run never leaves a
// truncated document.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)

		return err
	}

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpPath)

		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)

		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)

		return err
	}

	return nil
}
