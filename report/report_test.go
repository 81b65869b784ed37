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

package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crunch-lang/crunchc/report"
)

func TestSpan_NilByDefault(t *testing.T) {
	t.Parallel()

	var s report.Span
	assert.True(t, s.Nil())
	assert.Equal(t, "<implicit>", s.String())
	assert.Equal(t, "", s.Text())
}

func TestSpan_TextAndLocation(t *testing.T) {
	t.Parallel()

	file := report.NewIndexedFile(report.File{Path: "a.crunch", Text: "fn f()\nend\n"})
	s := report.Span{File: file, Start: 3, End: 4}
	assert.Equal(t, "f", s.Text())

	loc := s.StartLoc()
	assert.Equal(t, 1, loc.Line)
	assert.Equal(t, 4, loc.Column)
}

func TestIndexedFile_SearchAcrossLines(t *testing.T) {
	t.Parallel()

	file := report.NewIndexedFile(report.File{Path: "a.crunch", Text: "abc\ndef\nghi\n"})

	loc := file.Search(5) // 'e', start of second line + 1
	assert.Equal(t, 2, loc.Line)
	assert.Equal(t, 2, loc.Column)

	loc = file.Search(0)
	assert.Equal(t, 1, loc.Line)
	assert.Equal(t, 1, loc.Column)
}

func TestJoin_SpansSmallestCoveringRange(t *testing.T) {
	t.Parallel()

	file := report.NewIndexedFile(report.File{Path: "a.crunch", Text: "0123456789"})
	a := report.Span{File: file, Start: 2, End: 4}
	b := report.Span{File: file, Start: 6, End: 8}

	joined := report.Join(a, b)
	assert.Equal(t, 2, joined.Start)
	assert.Equal(t, 8, joined.End)
}

func TestJoin_SkipsNilSpans(t *testing.T) {
	t.Parallel()

	file := report.NewIndexedFile(report.File{Path: "a.crunch", Text: "0123456789"})
	a := report.Span{File: file, Start: 2, End: 4}

	joined := report.Join(report.Span{}, a, nil)
	assert.Equal(t, a, joined)
}

func TestJoin_PanicsAcrossDistinctFiles(t *testing.T) {
	t.Parallel()

	f1 := report.NewIndexedFile(report.File{Path: "a.crunch", Text: "0123456789"})
	f2 := report.NewIndexedFile(report.File{Path: "b.crunch", Text: "0123456789"})
	a := report.Span{File: f1, Start: 0, End: 1}
	b := report.Span{File: f2, Start: 0, End: 1}

	assert.Panics(t, func() { report.Join(a, b) })
}

func TestReport_OkAndErrorAccounting(t *testing.T) {
	t.Parallel()

	var rep report.Report
	assert.True(t, rep.Ok())

	rep.Warning(report.Message("hm"))
	assert.True(t, rep.Ok(), "warnings never affect Ok")
	assert.Equal(t, 0, rep.Errors())

	rep.Error(report.Tag("oops"), report.Message("bad: %d", 1))
	assert.False(t, rep.Ok())
	assert.Equal(t, 1, rep.Errors())
	assert.Equal(t, 2, rep.Len())

	require.Len(t, rep.Diagnostics(), 2)
	assert.Equal(t, "oops", rep.Diagnostics()[1].Tag())
	assert.Equal(t, "bad: 1", rep.Diagnostics()[1].Message())
}

func TestReport_Merge(t *testing.T) {
	t.Parallel()

	var a, b report.Report
	a.Warning(report.Message("from a"))
	b.Error(report.Message("from b"))

	a.Merge(&b)
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 1, a.Errors())
	assert.False(t, a.Ok())
}

func TestDiagnostic_SnippetOptionIgnoresNilSpan(t *testing.T) {
	t.Parallel()

	var rep report.Report
	d := rep.Error(report.Message("x"), report.Snippet(report.Span{}))
	assert.Empty(t, d.Snippets())
}

func TestDiagnostic_FirstSnippetIsPrimary(t *testing.T) {
	t.Parallel()

	file := report.NewIndexedFile(report.File{Path: "a.crunch", Text: "0123456789"})
	first := report.Span{File: file, Start: 0, End: 1}
	second := report.Span{File: file, Start: 2, End: 3}

	var rep report.Report
	d := rep.Error(report.Message("x"), report.Snippet(first, "here"), report.Snippet(second, "and here"))

	require.Len(t, d.Snippets(), 2)
	assert.Equal(t, first, d.Primary())
	assert.Equal(t, "here", d.Snippets()[0].Message())
	assert.Equal(t, "and here", d.Snippets()[1].Message())
}

func TestLevel_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "error", report.Error.String())
	assert.Equal(t, "warning", report.Warning.String())
	assert.Equal(t, "remark", report.Remark.String())
}
