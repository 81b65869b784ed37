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

// Package token defines the token shape the parser consumes.
//
// Lexical analysis itself is an external collaborator delivering a
// stream of typed tokens with spans; this package only fixes the
// contract between that collaborator and package parser.
package token

import "github.com/crunch-lang/crunchc/report"

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	EOF Kind = iota
	Ident
	String
	IntLiteral
	AtSign
	Function
	Type
	Enum
	Trait
	Import
	Extend
	Alias
	Exposing
	Exposed
	Package
	Library
	Const
	As
	Comma
	Colon
	Dot
	Equal
	EqualEqual
	Star
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	RightArrow
	Newline
	Space
	End
	Mut
	Let
	If
	Else
	Return
	Match
	Loop
	Continue
	Break
	Walrus // `:=`
	With
)

// String implements [fmt.Stringer].
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "Kind(?)"
}

var names = map[Kind]string{
	EOF: "EOF", Ident: "Ident", String: "String", IntLiteral: "IntLiteral",
	AtSign: "AtSign", Function: "Function", Type: "Type", Enum: "Enum",
	Trait: "Trait", Import: "Import", Extend: "Extend", Alias: "Alias",
	Exposing: "Exposing", Exposed: "Exposed", Package: "Package",
	Library: "Library", Const: "Const", As: "As", Comma: "Comma",
	Colon: "Colon", Dot: "Dot", Equal: "Equal", EqualEqual: "EqualEqual",
	Star: "Star", LeftParen: "LeftParen", RightParen: "RightParen",
	LeftBrace: "LeftBrace", RightBrace: "RightBrace", RightArrow: "RightArrow",
	Newline: "Newline", Space: "Space", End: "End", Mut: "Mut", Let: "Let",
	If: "If", Else: "Else", Return: "Return", Match: "Match", Loop: "Loop",
	Continue: "Continue", Break: "Break", Walrus: "Walrus", With: "With",
}

// Token is a single lexical token: a kind, the source text it covers, and
// its span.
type Token struct {
	Kind Kind
	Text string
	Span report.Span
}
