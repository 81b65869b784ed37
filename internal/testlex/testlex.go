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

// Package testlex is a minimal hand-written tokenizer used only by this
// module's own tests. The lexer proper is an external collaborator that
// this core never implements; tests need some way to turn Crunch source
// text into a [token.Token] stream without pulling in a real lexer, so
// this package stands in for that collaborator within the test suite
// only.
//
// It recognizes exactly the keyword and punctuation set the parser
// consumes, plus identifiers, string literals, and decimal integer
// literals. Anything else is reported back to the caller as a test
// fatal, since no test fixture should need it.
package testlex

import (
	"strings"
	"unicode"

	"github.com/crunch-lang/crunchc/report"
	"github.com/crunch-lang/crunchc/token"
)

var keywords = map[string]token.Kind{
	"fn":       token.Function,
	"type":     token.Type,
	"enum":     token.Enum,
	"trait":    token.Trait,
	"import":   token.Import,
	"extend":   token.Extend,
	"alias":    token.Alias,
	"exposing": token.Exposing,
	"exposed":  token.Exposed,
	"pkg":      token.Package,
	"library":  token.Library,
	"const":    token.Const,
	"as":       token.As,
	"end":      token.End,
	"mut":      token.Mut,
	"let":      token.Let,
	"if":       token.If,
	"else":     token.Else,
	"return":   token.Return,
	"match":    token.Match,
	"loop":     token.Loop,
	"continue": token.Continue,
	"break":    token.Break,
	"with":     token.With,
}

// Lex tokenizes text (attributed to file, for span construction) into a
// stream package parser can consume. It panics on a byte it doesn't
// recognize, rather than returning an error, since every caller is a
// test fixture under this module's own control.
func Lex(file *report.IndexedFile, text string) []token.Token {
	var toks []token.Token
	i := 0
	n := len(text)

	span := func(start, end int) report.Span {
		return report.Span{File: file, Start: start, End: end}
	}

	for i < n {
		c := text[i]
		switch {
		case c == '\n':
			toks = append(toks, token.Token{Kind: token.Newline, Text: "\n", Span: span(i, i+1)})
			i++

		case c == ' ' || c == '\t' || c == '\r':
			i++

		case c == '#':
			for i < n && text[i] != '\n' {
				i++
			}

		case c == '"', c == 'b' && i+1 < n && text[i+1] == '"':
			start := i
			if c == 'b' {
				i++ // byte-string prefix
			}
			i++
			for i < n && text[i] != '"' {
				if text[i] == '\\' && i+1 < n {
					i++
				}
				i++
			}
			if i < n {
				i++
			}
			toks = append(toks, token.Token{Kind: token.String, Text: text[start:i], Span: span(start, i)})

		case unicode.IsDigit(rune(c)):
			start := i
			for i < n && unicode.IsDigit(rune(text[i])) {
				i++
			}
			toks = append(toks, token.Token{Kind: token.IntLiteral, Text: text[start:i], Span: span(start, i)})

		case isIdentStart(c):
			start := i
			for i < n && isIdentCont(text[i]) {
				i++
			}
			word := text[start:i]
			if kind, ok := keywords[word]; ok {
				toks = append(toks, token.Token{Kind: kind, Text: word, Span: span(start, i)})
			} else {
				toks = append(toks, token.Token{Kind: token.Ident, Text: word, Span: span(start, i)})
			}

		default:
			kind, width, ok := punct(text[i:])
			if !ok {
				panic("testlex: unrecognized byte " + string(c) + " in input")
			}
			toks = append(toks, token.Token{Kind: kind, Text: text[i : i+width], Span: span(i, i+width)})
			i += width
		}
	}

	return toks
}

func isIdentStart(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c))
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || unicode.IsDigit(rune(c))
}

// longestPuncts is tried in order so two-byte operators are matched
// before their single-byte prefix.
var longestPuncts = []struct {
	text string
	kind token.Kind
}{
	{":=", token.Walrus},
	{"->", token.RightArrow},
	{"==", token.EqualEqual},
	{"@", token.AtSign},
	{",", token.Comma},
	{":", token.Colon},
	{".", token.Dot},
	{"=", token.Equal},
	{"*", token.Star},
	{"(", token.LeftParen},
	{")", token.RightParen},
	{"{", token.LeftBrace},
	{"}", token.RightBrace},
}

func punct(rest string) (token.Kind, int, bool) {
	for _, p := range longestPuncts {
		if strings.HasPrefix(rest, p.text) {
			return p.kind, len(p.text), true
		}
	}
	return 0, 0, false
}
