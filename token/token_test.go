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

package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crunch-lang/crunchc/report"
	"github.com/crunch-lang/crunchc/token"
)

func TestKind_StringKnownAndUnknown(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Function", token.Function.String())
	assert.Equal(t, "Walrus", token.Walrus.String())
	assert.Equal(t, "Kind(?)", token.Kind(9999).String())
}

func TestToken_CarriesSpanAndText(t *testing.T) {
	t.Parallel()

	file := report.NewIndexedFile(report.File{Path: "a.crunch", Text: "fn"})
	tok := token.Token{Kind: token.Function, Text: "fn", Span: report.Span{File: file, Start: 0, End: 2}}

	assert.Equal(t, "fn", tok.Text)
	assert.Equal(t, "fn", tok.Span.Text())
	assert.False(t, tok.Span.Nil())
}
