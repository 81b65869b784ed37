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
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/crunch-lang/crunchc/report"
)

// Digit sets permitted inside a braced escape, by specifier.
const (
	hexDigits    = "0123456789abcdefABCDEF"
	octalDigits  = "01234567"
	binaryDigits = "01"
)

// stringLiteralBody strips the quotes off a String token's text and
// reports whether it was a byte-string literal (a `b` prefix before the
// opening quote).
func stringLiteralBody(text string) (body string, isByte bool) {
	if strings.HasPrefix(text, "b\"") {
		isByte = true
		text = text[1:]
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	return text, isByte
}

// stringLiteral consumes a String token's text: strips quotes, decodes
// escape sequences, and reports any malformed escapes at span. The decoded
// text is always returned, holding whatever could be salvaged.
func (p *Parser) stringLiteral(span report.Span, text string) string {
	body, _ := stringLiteralBody(text)
	return p.unescape(span, body)
}

// unescape decodes the escape sequences in a string literal's body.
//
// Simple escapes are \n, \r, \t, \0, \\, \', and \". Numeric escapes are
// braced and carry a radix specifier: \x{..} and \u{..} in hexadecimal,
// \o{..} in octal, \b{..} in binary.
func (p *Parser) unescape(span report.Span, body string) string {
	// Escape-free bodies, the overwhelmingly common case, pass through
	// without building a copy.
	if !strings.ContainsRune(body, '\\') {
		return body
	}

	var out strings.Builder
	out.Grow(len(body))
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			out.WriteByte(c)
			i++
			continue
		}

		i++
		if i >= len(body) {
			p.missingEscapeSpecifier(span)
			break
		}

		spec := body[i]
		i++
		switch spec {
		case 'n':
			out.WriteByte('\n')
		case 'r':
			out.WriteByte('\r')
		case 't':
			out.WriteByte('\t')
		case '0':
			out.WriteByte(0)
		case '\\', '\'', '"':
			out.WriteByte(spec)
		case 'x', 'u', 'o', 'b':
			r, width, ok := p.bracedEscape(span, spec, body[i:])
			if ok {
				out.WriteRune(r)
			}
			i += width
		default:
			p.unrecognizedEscapeSeq(span, rune(spec))
		}
	}
	return out.String()
}

// bracedEscape decodes the {digits} part of a numeric escape, where spec
// selects the radix. Returns the decoded rune, how many bytes of rest were
// consumed, and whether decoding succeeded.
func (p *Parser) bracedEscape(span report.Span, spec byte, rest string) (rune, int, bool) {
	var digits string
	var radix int
	switch spec {
	case 'x', 'u':
		digits, radix = hexDigits, 16
	case 'o':
		digits, radix = octalDigits, 8
	case 'b':
		digits, radix = binaryDigits, 2
	}

	if rest == "" || rest[0] != '{' {
		p.missingEscapeBraces(span)
		return 0, 0, false
	}
	close := strings.IndexByte(rest, '}')
	if close == -1 {
		p.missingEscapeBraces(span)
		return 0, len(rest), false
	}

	inner := rest[1:close]
	consumed := close + 1
	for i := 0; i < len(inner); i++ {
		if !strings.ContainsRune(digits, rune(inner[i])) {
			p.invalidEscapeCharacters(span, digits)
			return 0, consumed, false
		}
	}

	value, err := strconv.ParseUint(inner, radix, 32)
	if err != nil || !utf8.ValidRune(rune(value)) {
		p.invalidEscapeSeq(span, "\\"+string(spec)+rest[:consumed])
		return 0, consumed, false
	}
	return rune(value), consumed, true
}
