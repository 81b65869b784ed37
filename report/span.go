// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package report provides structured diagnostics shared by the parser,
// resolver, and typer passes.
//
// A pass never writes error text directly; it builds [Diagnostic] values
// and appends them to a [Report]. Rendering those diagnostics into a
// user-facing format is left to a collaborator outside this module.
package report

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/rivo/uniseg"
)

// TabstopWidth is the column width used when rendering a tab character.
const TabstopWidth = 4

// File is a source file participating in diagnostics.
type File struct {
	// Path is a name for the file. It need not be a real filesystem path,
	// but distinct files must use distinct paths.
	Path string
	// Text is the complete source text of the file.
	Text string
}

// Spanner is anything with an associated source span.
type Spanner interface {
	Span() Span
}

// Span is a half-open byte range [Start, End) within an [IndexedFile].
//
// The zero Span is "nil": it has no file and Start == End == 0. A Span
// built over a nil *IndexedFile is always reported as Nil.
type Span struct {
	File       *IndexedFile
	Start, End int
	// Implicit marks a Span that was synthesized rather than read from
	// source, e.g. an injected default visibility or return type.
	Implicit bool
}

// Nil reports whether s refers to no location at all.
func (s Span) Nil() bool {
	return s.File == nil
}

// Span implements [Spanner].
func (s Span) Span() Span { return s }

// Text returns the source text covered by this span.
func (s Span) Text() string {
	if s.Nil() {
		return ""
	}
	return s.File.Text()[s.Start:s.End]
}

// StartLoc returns the start [Location] of this span.
func (s Span) StartLoc() Location {
	if s.Nil() {
		return Location{}
	}
	return s.File.Search(s.Start)
}

// EndLoc returns the end [Location] of this span.
func (s Span) EndLoc() Location {
	if s.Nil() {
		return Location{}
	}
	return s.File.Search(s.End)
}

// String implements [fmt.Stringer].
func (s Span) String() string {
	if s.Nil() {
		return "<implicit>"
	}
	return fmt.Sprintf("%s[%d:%d]", s.File.Path(), s.Start, s.End)
}

// Join returns the smallest span containing every non-nil span in spans.
//
// Panics if the given spans refer to more than one distinct file.
func Join(spans ...Spanner) Span {
	joined := Span{Start: math.MaxInt}
	for _, s := range spans {
		if s == nil {
			continue
		}
		sp := s.Span()
		if sp.Nil() {
			continue
		}
		if joined.File == nil {
			joined.File = sp.File
		} else if joined.File != sp.File {
			panic("report: Join called with spans from distinct files")
		}
		joined.Start = min(joined.Start, sp.Start)
		joined.End = max(joined.End, sp.End)
	}
	if joined.File == nil {
		return Span{}
	}
	return joined
}

// Location is a user-displayable position within a [File]: a 1-indexed
// line/column pair plus the byte offset it was computed from.
type Location struct {
	Offset       int
	Line, Column int
}

// IndexedFile adds an O(log n) offset-to-[Location] index over a [File].
type IndexedFile struct {
	file File

	once  sync.Once
	lines []int // byte offset of the start of each line
}

// NewIndexedFile builds a line index for file. Indexing itself is lazy.
func NewIndexedFile(file File) *IndexedFile {
	return &IndexedFile{file: file}
}

// File returns the indexed file.
func (f *IndexedFile) File() File { return f.file }

// Path returns f.File().Path.
func (f *IndexedFile) Path() string { return f.file.Path }

// Text returns f.File().Text.
func (f *IndexedFile) Text() string { return f.file.Text }

// Search computes the [Location] of a byte offset into this file.
func (f *IndexedFile) Search(offset int) Location {
	f.once.Do(f.index)

	line, exact := slices.BinarySearch(f.lines, offset)
	if !exact {
		line--
	}

	column := columnWidth(f.file.Text[f.lines[line]:offset])
	return Location{Offset: offset, Line: line + 1, Column: column + 1}
}

func (f *IndexedFile) index() {
	var next int
	text := f.file.Text
	for {
		nl := strings.IndexByte(text, '\n') + 1
		if nl == 0 {
			break
		}
		text = text[nl:]
		f.lines = append(f.lines, next)
		next += nl
	}
	f.lines = append(f.lines, next)
}

// columnWidth computes the rendered column width of text, honoring
// grapheme clusters (so a location lands between characters a user would
// actually perceive as distinct) and tab stops.
func columnWidth(text string) int {
	var column int
	for text != "" {
		next := text
		haveTab := false
		if i := strings.IndexByte(text, '\t'); i != -1 {
			next, text = text[:i], text[i+1:]
			haveTab = true
		} else {
			text = ""
		}

		column += uniseg.StringWidth(next)
		if haveTab {
			column += TabstopWidth - (column % TabstopWidth)
		}
	}
	return column
}
