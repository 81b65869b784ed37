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

package ast

import (
	"github.com/crunch-lang/crunchc/internal/arena"
	"github.com/crunch-lang/crunchc/internal/intern"
	"github.com/crunch-lang/crunchc/report"
)

// Block is a braceless sequence of statements, as found in a function
// body, match arm, loop body, or scope expression.
type Block struct {
	Stmts []arena.Ticket[Stmt]
	Span  report.Span
}

// Stmt is either a nested item, a bare expression, or a variable
// declaration.
type Stmt struct {
	Kind StmtKind
	Span report.Span

	Item    Decl
	Expr    arena.Ticket[Expr]
	VarDecl VarDecl
}

// StmtKind tags which variant a [Stmt] holds.
type StmtKind int8

const (
	StmtItem StmtKind = iota
	StmtExpr
	StmtVarDecl
)

// VarDecl is a `let [mut] name [: ty] := value` statement.
type VarDecl struct {
	Name    Locatable[intern.ID]
	Mutable bool
	Type    Locatable[arena.Ticket[Type]] // zero ticket when no `: ty` was written
	Value   arena.Ticket[Expr]
}

// Expr is a single expression node. Kind selects which field is
// meaningful; the rest are left zero.
type Expr struct {
	Kind ExprKind
	Span report.Span

	Match      MatchExpr
	Loop       arena.Ticket[Block]
	Scope      arena.Ticket[Block]
	Return     arena.Ticket[Expr] // Nil() when a bare `return`
	Continue   struct{}
	Break      arena.Ticket[Expr] // Nil() when a bare `break`
	Call       CallExpr
	Literal    LiteralVal
	Comparison BinaryExpr
	Variable   intern.ID
	Assign     BinaryExpr
	BinOp      BinOpExpr
	Cast       CastExpr
	Reference  arena.Ticket[Expr]
	Index      BinaryExpr

	// If is AST-only sugar: `if cond ... else ... end`. It has no HIR
	// ExprKind counterpart; lowering desugars it into a two-armed Match
	// over the condition's boolean value.
	If IfExpr
}

// IfExpr is an `if cond then-block [else else-block] end` expression.
type IfExpr struct {
	Cond arena.Ticket[Expr]
	Then arena.Ticket[Block]
	Else arena.Ticket[Block] // Nil() when there is no `else`
}

// ExprKind tags which variant of [Expr] is populated.
type ExprKind int8

const (
	ExprMatch ExprKind = iota
	ExprLoop
	ExprScope
	ExprReturn
	ExprContinue
	ExprBreak
	ExprCall
	ExprLiteral
	ExprComparison
	ExprVariable
	ExprAssign
	ExprBinOp
	ExprCast
	ExprReference
	ExprIndex
	ExprIf
)

// BinaryExpr is a generic left/right expression pair, shared by
// comparisons, assignments, and indexing.
type BinaryExpr struct {
	Left, Right arena.Ticket[Expr]
	Op          intern.ID // comparison/assignment operator spelling, interned
}

// BinOpExpr is an arithmetic or logical binary operation.
type BinOpExpr struct {
	Left, Right arena.Ticket[Expr]
	Op          intern.ID
}

// CastExpr is a `value as Type` expression.
type CastExpr struct {
	Value arena.Ticket[Expr]
	Type  arena.Ticket[Type]
}

// CallExpr is a function call `callee(args...)`.
type CallExpr struct {
	Callee arena.Ticket[Expr]
	Args   []arena.Ticket[Expr]
}

// MatchExpr is a `match scrutinee ... end` expression.
type MatchExpr struct {
	Scrutinee arena.Ticket[Expr]
	Arms      []MatchArm
}

// MatchArm is one `pattern [if guard] => body` arm of a match expression.
type MatchArm struct {
	Bindings []Binding
	Type     arena.Ticket[Type] // declared type of the bound pattern, if any
	Guard    arena.Ticket[Expr] // Nil() when there is no `if guard`
	Body     arena.Ticket[Block]
	Span     report.Span
}

// Binding is a single name bound by a match pattern.
type Binding struct {
	Name    intern.ID
	Pattern Pattern
}

// Pattern is what a match arm matches against: a literal, a bound
// variable, or a wildcard.
type Pattern struct {
	Kind    PatternKind
	Literal LiteralVal
	Name    intern.ID
}

// PatternKind tags which variant a [Pattern] holds.
type PatternKind int8

const (
	PatternWildcard PatternKind = iota
	PatternLiteral
	PatternBind
)

// LiteralVal is the value carried by a literal expression.
type LiteralVal struct {
	Kind   LiteralKind
	Int    int64
	Bool   bool
	String intern.ID
	Array  []arena.Ticket[Expr]
	Struct StructLiteral
}

// LiteralKind tags which field of [LiteralVal] is meaningful.
type LiteralKind int8

const (
	LiteralInt LiteralKind = iota
	LiteralBool
	LiteralString
	LiteralArray
	LiteralStruct
)

// StructLiteral is a `Name { member: value, ... }` literal.
type StructLiteral struct {
	Name    intern.ID
	Members []StructLiteralMember
}

// StructLiteralMember is a single `member: value` entry in a
// [StructLiteral].
type StructLiteralMember struct {
	Name  intern.ID
	Value arena.Ticket[Expr]
}
