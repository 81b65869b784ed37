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

// Package parser implements the recursive-descent parser that turns a
// token stream into an arena-allocated [ast.Context].
package parser

import (
	"github.com/crunch-lang/crunchc/ast"
	"github.com/crunch-lang/crunchc/report"
	"github.com/crunch-lang/crunchc/token"
)

// Parser drives recursive-descent parsing of a single file's token stream
// into its [ast.Context].
type Parser struct {
	ctx    *ast.Context
	cursor *Cursor
	report *report.Report
	guard  depthGuard
}

// Option configures a [Parser] constructed by [New].
type Option func(*Parser)

// WithRecursionLimit overrides [DefaultRecursionLimit].
func WithRecursionLimit(limit int) Option {
	return func(p *Parser) { p.guard = newDepthGuard(limit) }
}

// New constructs a parser reading tokens into ctx, reporting diagnostics
// to rep.
func New(ctx *ast.Context, tokens []token.Token, rep *report.Report, opts ...Option) *Parser {
	p := &Parser{
		ctx:    ctx,
		cursor: NewCursor(tokens),
		report: rep,
		guard:  newDepthGuard(DefaultRecursionLimit),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// enter checks and increments the recursion guard for one production,
// returning an exit func the caller must invoke (typically via defer) on
// every return path. If the limit was exceeded it reports a diagnostic;
// the caller still parses optimistically within the guarded region (the
// guard reports, it does not abort parsing).
func (p *Parser) enter(at report.Span) func() {
	current, exit := p.guard.enter()
	if p.guard.exceeded(current) {
		p.recursionLimit(at, current, p.guard.limit)
	}
	return exit
}

// Parse runs the top-level loop, populating p's [ast.Context] with every
// declaration found at module scope. Returns true iff no error-level
// diagnostic was recorded.
func (p *Parser) Parse() bool {
	defer p.enter(p.cursor.Peek().Span)()

	for !p.cursor.Done() {
		mark := p.cursor.Mark()

		if p.atEOF() {
			break
		}

		decl, ok := p.topLevelItem()
		if ok {
			p.ctx.AddDecl(decl)
		}

		if p.cursor.Mark() == mark {
			// A production consumed nothing; force progress to avoid an
			// infinite loop on malformed input.
			p.cursor.Next()
		}
	}

	return p.report.Ok()
}

func (p *Parser) atEOF() bool {
	return p.cursor.Peek().Kind == token.EOF
}

// peek returns the next token without consuming it.
func (p *Parser) peek() token.Token { return p.cursor.Peek() }

// next consumes and returns the next token.
func (p *Parser) next() token.Token { return p.cursor.Next() }

// at reports whether the next token has kind k.
func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

// eat consumes the next token if it has kind k. Otherwise it reports an
// end-of-file error if the stream ran out, or a generic syntax error, and
// returns ok == false.
func (p *Parser) eat(k token.Kind) (token.Token, bool) {
	if !p.at(k) {
		tok := p.peek()
		if tok.Kind == token.EOF && k != token.EOF {
			p.endOfFile(tok.Span)
		} else {
			p.expected(tok.Span, k, tok)
		}
		return tok, false
	}
	return p.next(), true
}

// skipTrivia consumes any run of newlines.
func (p *Parser) skipTrivia() {
	for p.at(token.Newline) {
		p.next()
	}
}
