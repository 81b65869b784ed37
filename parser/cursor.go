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

import "github.com/crunch-lang/crunchc/token"

// Cursor walks a fixed token stream produced by the lexer collaborator.
//
// It never panics on out-of-range access: past the end of the stream it
// keeps yielding an EOF token whose span is the last token's end, so the
// parser's error paths can always attach a location.
type Cursor struct {
	tokens []token.Token
	pos    int
}

// NewCursor wraps tokens for parsing.
func NewCursor(tokens []token.Token) *Cursor {
	return &Cursor{tokens: tokens}
}

// Peek returns the token at the cursor without advancing.
func (c *Cursor) Peek() token.Token {
	return c.PeekAt(0)
}

// PeekAt returns the token n positions ahead of the cursor without
// advancing.
func (c *Cursor) PeekAt(n int) token.Token {
	i := c.pos + n
	if i >= len(c.tokens) {
		return c.eofToken()
	}
	return c.tokens[i]
}

// Next returns the token at the cursor and advances past it.
func (c *Cursor) Next() token.Token {
	t := c.Peek()
	if c.pos < len(c.tokens) {
		c.pos++
	}
	return t
}

// Done reports whether the cursor has reached the end of the stream.
func (c *Cursor) Done() bool {
	return c.pos >= len(c.tokens)
}

// Mark returns an opaque progress marker; a production that fails to
// advance the cursor across an iteration is a parser bug, not valid input.
func (c *Cursor) Mark() int {
	return c.pos
}

func (c *Cursor) eofToken() token.Token {
	if len(c.tokens) == 0 {
		return token.Token{Kind: token.EOF}
	}
	last := c.tokens[len(c.tokens)-1]
	return token.Token{Kind: token.EOF, Span: last.Span}
}
