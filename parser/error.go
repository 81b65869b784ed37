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

package parser

import (
	"github.com/crunch-lang/crunchc/report"
	"github.com/crunch-lang/crunchc/token"
)

// Syntax error tags, one per distinct error shape the parser produces.
const (
	tagGeneric                 = "syntax-generic"
	tagUnrecognizedEscapeSeq   = "unrecognized-escape-seq"
	tagMissingEscapeBraces     = "missing-escape-braces"
	tagInvalidEscapeCharacters = "invalid-escape-characters"
	tagMissingEscapeSpecifier  = "missing-escape-specifier"
	tagInvalidEscapeSeq        = "invalid-escape-seq"
	tagInvalidLiteral          = "invalid-literal"
	tagRecursionLimit          = "recursion-limit"
	tagNoAttributesAllowed     = "no-attributes-allowed"
	tagNoDecoratorsAllowed     = "no-decorators-allowed"
	tagInvalidTopLevel         = "invalid-top-level"
	tagMissingImport           = "missing-import"
	tagImportStringLiteral     = "import-string-literal"
	tagImportByteStringLiteral = "import-byte-string-literal"
	tagEndOfFile               = "end-of-file"
)

// errorAt appends an error-level diagnostic at span, tagged and with the
// given message, to p's report.
func (p *Parser) errorAt(span report.Span, tag, format string, args ...any) {
	p.report.Error(
		report.Tag(tag),
		report.Message(format, args...),
		report.Snippet(spanner{span}),
	)
}

// spanner adapts a bare [report.Span] to [report.Spanner].
type spanner struct{ s report.Span }

func (s spanner) Span() report.Span { return s.s }

func (p *Parser) genericError(span report.Span, format string, args ...any) {
	p.errorAt(span, tagGeneric, format, args...)
}

func (p *Parser) recursionLimit(span report.Span, current, limit int) {
	p.errorAt(span, tagRecursionLimit,
		"recursion limit exceeded: depth %d exceeds limit %d", current, limit)
}

func (p *Parser) noAttributesAllowed(span report.Span, decl string) {
	p.errorAt(span, tagNoAttributesAllowed, "%s declarations may not carry attributes", decl)
}

func (p *Parser) noDecoratorsAllowed(span report.Span, decl string) {
	p.errorAt(span, tagNoDecoratorsAllowed, "%s declarations may not carry decorators", decl)
}

func (p *Parser) invalidTopLevel(tok token.Token) {
	p.errorAt(tok.Span, tagInvalidTopLevel, "unexpected token at top level: %s", tok.Kind)
}

func (p *Parser) missingImport(span report.Span) {
	p.errorAt(span, tagMissingImport, "import path has no final segment")
}

func (p *Parser) importStringLiteral(span report.Span) {
	p.errorAt(span, tagImportStringLiteral, "import path must be a string literal")
}

func (p *Parser) importByteStringLiteral(span report.Span) {
	p.errorAt(span, tagImportByteStringLiteral, "import path must not be a byte-string literal")
}

func (p *Parser) invalidLiteral(span report.Span, kind string) {
	p.errorAt(span, tagInvalidLiteral, "invalid %s literal", kind)
}

func (p *Parser) unrecognizedEscapeSeq(span report.Span, ch rune) {
	p.errorAt(span, tagUnrecognizedEscapeSeq, "unrecognized escape sequence: \\%c", ch)
}

func (p *Parser) missingEscapeBraces(span report.Span) {
	p.errorAt(span, tagMissingEscapeBraces,
		"string escapes are expected to begin with '{' and end with '}'")
}

func (p *Parser) invalidEscapeCharacters(span report.Span, set string) {
	p.errorAt(span, tagInvalidEscapeCharacters,
		"string escapes may only have the characters %s", set)
}

func (p *Parser) missingEscapeSpecifier(span report.Span) {
	p.errorAt(span, tagMissingEscapeSpecifier, "ran out of string escape specifiers")
}

func (p *Parser) invalidEscapeSeq(span report.Span, seq string) {
	p.errorAt(span, tagInvalidEscapeSeq, "invalid escape sequence: %s", seq)
}

func (p *Parser) endOfFile(span report.Span) {
	p.errorAt(span, tagEndOfFile, "unexpected end of file")
}

func (p *Parser) expected(span report.Span, want token.Kind, got token.Token) {
	p.errorAt(span, tagGeneric, "expected %s, got %s", want, got.Kind)
}
