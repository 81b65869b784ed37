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

package hir

import (
	"github.com/crunch-lang/crunchc/ast"
	"github.com/crunch-lang/crunchc/internal/arena"
	"github.com/crunch-lang/crunchc/internal/intern"
	"github.com/crunch-lang/crunchc/report"
	"github.com/crunch-lang/crunchc/resolve"
)

// integerTypeNames are the declared-type spellings that lower to
// [KindInteger]. The resolver's primitive set has no Integer primitive
// of its own; Integer only arises here and in the typer's literal rule,
// so lowering recognizes these by name instead of by a resolved
// [resolve.TypeId].
var integerTypeNames = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true, "isize": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "usize": true,
	"int": true,
}

// typeKindFromName maps a declared type's spelling to the [TypeKind] the
// typer reasons over. Anything this core has no opinion about (a custom
// aggregate, `Rune`, `Absurd`) lowers to [KindInfer]: the typer will
// either unify it away or fail with FailedInfer, never panic on it.
func typeKindFromName(name string) TypeKind {
	switch name {
	case "Bool", "bool":
		return KindBool
	case "String", "string", "str":
		return KindString
	case "Unit", "unit":
		return KindUnit
	case "_":
		return KindInfer
	default:
		if integerTypeNames[name] {
			return KindInteger
		}
		return KindInfer
	}
}

// lowerDeclaredType builds a [Type] directly from an AST type node,
// bypassing the resolver entirely. Used for slots the resolver never
// touches, like a cast's target type or a local (statement-level)
// function's signature.
func lowerDeclaredType(ctx *ast.Context, node *ast.Type, loc report.Span) Type {
	if node.Infer {
		return Type{Kind: KindInfer, Loc: loc}
	}
	return Type{Kind: typeKindFromName(ctx.Value(node.Name)), Loc: loc}
}

// lowerTypeRef builds a [Type] from a resolver-produced [resolve.TypeRef].
// An unresolved reference has already been diagnosed by the resolver
// (NameNotFound); lowering simply carries it through as [KindInfer] so
// the typer reports a normal inference failure instead of a second,
// redundant error.
func lowerTypeRef(ref resolve.TypeRef, types []resolve.Type, interner *intern.Table, loc report.Span) Type {
	id, ok := ref.Left()
	if !ok || int(id) >= len(types) {
		return Type{Kind: KindInfer, Loc: loc}
	}
	return Type{Kind: typeKindFromName(interner.Value(types[id].Name)), Loc: loc}
}

// Lower walks every top-level (and extend-block-nested) function
// declaration bound by r from ctx and lowers it to HIR, in the same
// order [resolve.Resolver.Bind] assigned [resolve.FunctionId]s — so the
// n'th function this walk finds is r.Functions()[n]. Only functions
// become HIR items: types, enums, traits, imports, and aliases are
// resolver- and typer-irrelevant past the bind phase and have no HIR
// counterpart.
func Lower(ctx *ast.Context, r *resolve.Resolver, interner *intern.Table) []*Function {
	l := &lowerer{ctx: ctx, interner: interner, types: r.Types()}
	fns := r.Functions()

	var out []*Function
	var walk func(decls []ast.Decl)
	walk = func(decls []ast.Decl) {
		for _, d := range decls {
			switch d.Kind {
			case ast.DeclFunction:
				astFn := ctx.Function(d.Function)
				resolved := fns[l.funcIdx]
				l.funcIdx++
				out = append(out, l.lowerResolvedFunction(astFn, resolved, d.Span))
			case ast.DeclExtendBlock:
				walk(ctx.ExtendBlock(d.ExtendBlock).Items)
			}
		}
	}
	walk(ctx.Decls())
	return out
}

type lowerer struct {
	ctx      *ast.Context
	interner *intern.Table
	types    []resolve.Type
	funcIdx  int
	autoNext int
}

func (l *lowerer) auto() Var {
	v := AutoVar(l.autoNext)
	l.autoNext++
	return v
}

// lowerResolvedFunction lowers a function whose argument and return
// types were resolved by r (a module- or extend-block-level
// declaration).
func (l *lowerer) lowerResolvedFunction(fn *ast.Function, resolved resolve.Function, span report.Span) *Function {
	args := make([]FuncArg, len(fn.Args))
	for i, a := range fn.Args {
		args[i] = FuncArg{
			Name: UserVar(a.Value.Name.Value),
			Type: lowerTypeRef(resolved.Args[i].Type, l.types, l.interner, a.Value.Type.Span),
			Loc:  a.Value.Name.Span,
		}
	}
	return &Function{
		Name: fn.Name,
		Args: args,
		Body: l.lowerBlock(l.ctx.Block(fn.Body)),
		Ret:  lowerTypeRef(resolved.Returns, l.types, l.interner, fn.Returns.Span),
		Loc:  span,
		Sig:  span,
	}
}

// lowerLocalFunction lowers a function declared as a statement inside
// another function's body. The resolver's bind phase only walks
// top-level and extend-block declarations, so a local item's signature
// is never resolved; lowering reads its declared types
// directly off the AST instead, the same path a cast's target type
// takes.
func (l *lowerer) lowerLocalFunction(fn *ast.Function, span report.Span) *Function {
	args := make([]FuncArg, len(fn.Args))
	for i, a := range fn.Args {
		args[i] = FuncArg{
			Name: UserVar(a.Value.Name.Value),
			Type: lowerDeclaredType(l.ctx, l.ctx.Type(a.Value.Type.Value), a.Value.Type.Span),
			Loc:  a.Value.Name.Span,
		}
	}
	return &Function{
		Name: fn.Name,
		Args: args,
		Body: l.lowerBlock(l.ctx.Block(fn.Body)),
		Ret:  lowerDeclaredType(l.ctx, l.ctx.Type(fn.Returns.Value), fn.Returns.Span),
		Loc:  span,
		Sig:  span,
	}
}

func (l *lowerer) lowerBlock(b *ast.Block) Block[Stmt] {
	out := Block[Stmt]{Loc: b.Span}
	for _, ptr := range b.Stmts {
		out.Push(l.lowerStmt(l.ctx.Stmt(ptr)))
	}
	return out
}

func (l *lowerer) lowerStmt(s *ast.Stmt) Stmt {
	switch s.Kind {
	case ast.StmtItem:
		if s.Item.Kind != ast.DeclFunction {
			// A local type/enum/trait/import/alias contributes nothing
			// past parsing: it has no HIR shape and the typer never
			// visits it. Kept as an empty item slot so block indices
			// still line up one-to-one with the AST.
			return Stmt{Kind: StmtItem}
		}
		astFn := l.ctx.Function(s.Item.Function)
		return Stmt{Kind: StmtItem, Item: l.lowerLocalFunction(astFn, s.Item.Span)}
	case ast.StmtVarDecl:
		vd := s.VarDecl
		ty := Type{Kind: KindInfer, Loc: vd.Name.Span}
		if !vd.Type.Value.Nil() {
			ty = lowerDeclaredType(l.ctx, l.ctx.Type(vd.Type.Value), vd.Type.Span)
		}
		return Stmt{
			Kind: StmtVarDecl,
			VarDecl: &VarDecl{
				Name:    UserVar(vd.Name.Value),
				Value:   l.lowerExprPtr(vd.Value),
				Mutable: vd.Mutable,
				Ty:      ty,
				Loc:     s.Span,
			},
		}
	default:
		return Stmt{Kind: StmtExpr, Expr: l.lowerExprPtr(s.Expr)}
	}
}

func (l *lowerer) lowerExprPtr(ptr arena.Ticket[ast.Expr]) *Expr {
	if ptr.Nil() {
		return nil
	}
	e := l.lowerExpr(l.ctx.Expr(ptr))
	return &e
}

func (l *lowerer) lowerExpr(e *ast.Expr) Expr {
	switch e.Kind {
	case ast.ExprMatch:
		return l.lowerMatch(e)
	case ast.ExprIf:
		return l.lowerIf(e)
	case ast.ExprLoop:
		return Expr{Kind: ExprLoop, Loc: e.Span, Loop: l.lowerBlock(l.ctx.Block(e.Loop))}
	case ast.ExprScope:
		return Expr{Kind: ExprScope, Loc: e.Span, Scope: l.lowerBlock(l.ctx.Block(e.Scope))}
	case ast.ExprReturn:
		return Expr{Kind: ExprReturn, Loc: e.Span, Return: Return{Value: l.lowerExprPtr(e.Return)}}
	case ast.ExprContinue:
		return Expr{Kind: ExprContinue, Loc: e.Span}
	case ast.ExprBreak:
		return Expr{Kind: ExprBreak, Loc: e.Span, Break: Break{Value: l.lowerExprPtr(e.Break)}}
	case ast.ExprCall:
		return l.lowerCall(e)
	case ast.ExprLiteral:
		return Expr{Kind: ExprLiteral, Loc: e.Span, Literal: l.lowerLiteral(e.Literal)}
	case ast.ExprComparison:
		return Expr{Kind: ExprComparison, Loc: e.Span, Comparison: l.lowerSided(e.Comparison)}
	case ast.ExprVariable:
		return Expr{Kind: ExprVariable, Loc: e.Span, Variable: UserVar(e.Variable)}
	case ast.ExprAssign:
		return l.lowerAssign(e)
	case ast.ExprBinOp:
		return Expr{Kind: ExprBinOp, Loc: e.Span, BinOp: l.lowerBinOp(e.BinOp)}
	case ast.ExprCast:
		return Expr{
			Kind: ExprCast, Loc: e.Span,
			Cast: Cast{
				Value: l.lowerExprPtr(e.Cast.Value),
				To:    lowerDeclaredType(l.ctx, l.ctx.Type(e.Cast.Type), e.Span),
			},
		}
	case ast.ExprReference:
		return Expr{Kind: ExprReference, Loc: e.Span, Reference: l.lowerExprPtr(e.Reference)}
	case ast.ExprIndex:
		return l.lowerIndex(e)
	default:
		return Expr{Kind: ExprLiteral, Loc: e.Span, Literal: Literal{Kind: LiteralInt}}
	}
}

// lowerIf desugars `if cond then else end` into a two-armed match over
// the condition's boolean value: [ast.ExprIf] is the one AST construct
// with no direct HIR counterpart.
func (l *lowerer) lowerIf(e *ast.Expr) Expr {
	cond := l.lowerExprPtr(e.If.Cond)
	thenBody := l.lowerBlock(l.ctx.Block(e.If.Then))

	var elseBody Block[Stmt]
	if !e.If.Else.Nil() {
		elseBody = l.lowerBlock(l.ctx.Block(e.If.Else))
	} else {
		elseBody = Block[Stmt]{Loc: e.Span}
	}

	arms := []MatchArm{
		{
			Bind: Binding{Pattern: Pattern{Kind: PatternLiteralKind, Literal: Literal{Kind: LiteralBool, Bool: true}}},
			Body: thenBody,
			Loc:  thenBody.Loc,
		},
		{
			Bind: Binding{Pattern: Pattern{Kind: PatternWildcardKind}},
			Body: elseBody,
			Loc:  elseBody.Loc,
		},
	}
	return Expr{Kind: ExprMatch, Loc: e.Span, Match: Match{Cond: cond, Arms: arms}}
}

func (l *lowerer) lowerMatch(e *ast.Expr) Expr {
	m := e.Match
	arms := make([]MatchArm, len(m.Arms))
	for i, arm := range m.Arms {
		arms[i] = l.lowerMatchArm(arm)
	}
	return Expr{Kind: ExprMatch, Loc: e.Span, Match: Match{Cond: l.lowerExprPtr(m.Scrutinee), Arms: arms}}
}

func (l *lowerer) lowerMatchArm(arm ast.MatchArm) MatchArm {
	bind := Binding{Pattern: Pattern{Kind: PatternWildcardKind}}
	if len(arm.Bindings) > 0 {
		bind = l.lowerBinding(arm.Bindings[0])
	}
	if !arm.Type.Nil() {
		ty := lowerDeclaredType(l.ctx, l.ctx.Type(arm.Type), arm.Span)
		bind.Ty = &ty
	}
	return MatchArm{
		Bind:  bind,
		Guard: l.lowerExprPtr(arm.Guard),
		Body:  l.lowerBlock(l.ctx.Block(arm.Body)),
		Loc:   arm.Span,
	}
}

func (l *lowerer) lowerBinding(b ast.Binding) Binding {
	return Binding{Pattern: l.lowerPattern(b.Pattern)}
}

func (l *lowerer) lowerPattern(p ast.Pattern) Pattern {
	switch p.Kind {
	case ast.PatternLiteral:
		return Pattern{Kind: PatternLiteralKind, Literal: l.lowerLiteral(p.Literal)}
	case ast.PatternBind:
		return Pattern{Kind: PatternIdentKind, Ident: p.Name}
	default:
		return Pattern{Kind: PatternWildcardKind}
	}
}

func (l *lowerer) lowerLiteral(v ast.LiteralVal) Literal {
	switch v.Kind {
	case ast.LiteralInt:
		return Literal{Kind: LiteralInt, Int: v.Int}
	case ast.LiteralBool:
		return Literal{Kind: LiteralBool, Bool: v.Bool}
	case ast.LiteralString:
		return Literal{Kind: LiteralString, String: v.String}
	case ast.LiteralArray:
		items := make([]*Expr, len(v.Array))
		for i, p := range v.Array {
			items[i] = l.lowerExprPtr(p)
		}
		return Literal{Kind: LiteralArray, Array: items}
	case ast.LiteralStruct:
		members := make([]StructLiteralMember, len(v.Struct.Members))
		for i, m := range v.Struct.Members {
			members[i] = StructLiteralMember{Name: m.Name, Value: l.lowerExprPtr(m.Value)}
		}
		return Literal{Kind: LiteralStruct, Struct: StructLiteral{Name: v.Struct.Name, Members: members}}
	default:
		return Literal{Kind: LiteralInt}
	}
}

func (l *lowerer) lowerSided(b ast.BinaryExpr) Sided {
	return Sided{Op: b.Op, Left: l.lowerExprPtr(b.Left), Right: l.lowerExprPtr(b.Right)}
}

func (l *lowerer) lowerBinOp(b ast.BinOpExpr) Sided {
	return Sided{Op: b.Op, Left: l.lowerExprPtr(b.Left), Right: l.lowerExprPtr(b.Right)}
}

// lowerAssign lowers `lvalue = value`. The parser accepts any expression
// on the left of an assignment; a variable reference names the assigned
// Var, and any other left side is lowered to a fresh l.auto() variable.
func (l *lowerer) lowerAssign(e *ast.Expr) Expr {
	left := l.ctx.Expr(e.Assign.Left)
	v := l.auto()
	if left.Kind == ast.ExprVariable {
		v = UserVar(left.Variable)
	}
	return Expr{
		Kind:   ExprAssign,
		Loc:    e.Span,
		Assign: Assign{Var: v, Value: l.lowerExprPtr(e.Assign.Right)},
	}
}

// lowerIndex lowers a member access `base.name` (an [ast.ExprIndex]),
// treating a non-variable base the same way [lowerer.lowerAssign] treats
// a non-variable left side.
func (l *lowerer) lowerIndex(e *ast.Expr) Expr {
	left := l.ctx.Expr(e.Index.Left)
	v := l.auto()
	if left.Kind == ast.ExprVariable {
		v = UserVar(left.Variable)
	}
	return Expr{
		Kind:  ExprIndex,
		Loc:   e.Span,
		Index: Index{Var: v, Index: l.lowerExprPtr(e.Index.Right)},
	}
}

func (l *lowerer) lowerCall(e *ast.Expr) Expr {
	callee := l.ctx.Expr(e.Call.Callee)
	var name intern.ID
	if callee.Kind == ast.ExprVariable {
		name = callee.Variable
	}
	args := make([]*Expr, len(e.Call.Args))
	for i, a := range e.Call.Args {
		args[i] = l.lowerExprPtr(a)
	}
	return Expr{Kind: ExprCall, Loc: e.Span, Call: FuncCall{Func: name, Args: args}}
}
