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

package typer

import (
	"github.com/crunch-lang/crunchc/hir"
	"github.com/crunch-lang/crunchc/report"
)

// Walk type-checks every function in funcs, in order, rewriting each
// one's HIR in place so that every type-carrying slot reconstructs to a
// concrete [hir.TypeKind]. It returns true iff no error-level diagnostic
// was recorded, matching [resolve.Resolver.Finalize]'s return-status
// convention.
func (e *Engine) Walk(funcs []*hir.Function) bool {
	for _, fn := range funcs {
		e.visitFunc(fn)
	}
	return e.report.Ok()
}

// visitFunc binds every argument, folds the body (the function's result
// is the last statement's type), unifies that result against the
// declared return type, and writes both the reconstructed return type
// and every reconstructed argument type back into fn.
//
// If the return type fails to unify or reconstruct, argument
// reconstruction is skipped for this function: its diagnostic has
// already been recorded, and the declared types stay visibly intact.
func (e *Engine) visitFunc(fn *hir.Function) {
	argIds := make([]TypeId, len(fn.Args))
	for i, a := range fn.Args {
		argIds[i] = e.insert(a.Name, a.Type.Kind, a.Loc)
	}

	ty := e.insertBare(typeInfo{kind: infoInfer}, fn.Loc)
	for _, stmt := range fn.Body.Stmts {
		ty = e.visitStmt(stmt)
	}

	retTy := e.insertBare(infoFromKind(fn.Ret.Kind), fn.Loc)
	if !e.unify(ty, retTy) {
		return
	}
	kind, ok := e.reconstruct(ty)
	if !ok {
		return
	}
	fn.Ret.Kind = kind

	for i, id := range argIds {
		if kind, ok := e.reconstruct(id); ok {
			fn.Args[i].Type.Kind = kind
		}
	}
}

// visitStmt type-checks one statement and returns its TypeId: a
// variable declaration has type Unit, a bare expression passes its own
// type through.
func (e *Engine) visitStmt(s hir.Stmt) TypeId {
	switch s.Kind {
	case hir.StmtVarDecl:
		if s.VarDecl == nil {
			return e.insertBare(typeInfo{kind: infoUnit}, report.Span{})
		}
		return e.visitVarDecl(s.VarDecl)
	case hir.StmtItem:
		loc := report.Span{}
		if s.Item != nil {
			loc = s.Item.Loc
			e.visitFunc(s.Item)
		}
		return e.insertBare(typeInfo{kind: infoUnit}, loc)
	default:
		if s.Expr == nil {
			return e.insertBare(typeInfo{kind: infoUnit}, report.Span{})
		}
		return e.visitExpr(s.Expr)
	}
}

func (e *Engine) visitVarDecl(vd *hir.VarDecl) TypeId {
	v := e.insert(vd.Name, vd.Ty.Kind, vd.Loc)
	expr := e.visitExprOrUnit(vd.Value, vd.Loc)
	e.unify(v, expr)
	if kind, ok := e.reconstruct(v); ok {
		vd.Ty.Kind = kind
	}
	return e.insertBare(typeInfo{kind: infoUnit}, vd.Loc)
}

func (e *Engine) visitExprOrUnit(expr *hir.Expr, loc report.Span) TypeId {
	if expr == nil {
		return e.insertBare(typeInfo{kind: infoUnit}, loc)
	}
	return e.visitExpr(expr)
}

// visitExpr dispatches on expr.Kind. Match, literal, comparison, and
// variable references carry the interesting inference rules; the
// remaining kinds get a minimal, never-panicking treatment built from
// the same insert/unify/reconstruct primitives.
func (e *Engine) visitExpr(expr *hir.Expr) TypeId {
	switch expr.Kind {
	case hir.ExprMatch:
		return e.visitMatch(&expr.Match, expr.Loc)
	case hir.ExprScope:
		return e.visitScope(expr.Scope, expr.Loc)
	case hir.ExprLoop:
		return e.visitLoop(expr.Loop, expr.Loc)
	case hir.ExprReturn:
		return e.visitExprOrUnit(expr.Return.Value, expr.Loc)
	case hir.ExprContinue:
		return e.insertBare(typeInfo{kind: infoUnit}, expr.Loc)
	case hir.ExprBreak:
		return e.visitExprOrUnit(expr.Break.Value, expr.Loc)
	case hir.ExprCall:
		return e.visitCall(expr.Call, expr.Loc)
	case hir.ExprLiteral:
		return e.visitLiteral(expr.Literal, expr.Loc)
	case hir.ExprComparison:
		return e.visitComparison(expr.Comparison, expr.Loc)
	case hir.ExprVariable:
		id, ok := e.get(expr.Variable)
		if !ok {
			return e.insertBare(typeInfo{kind: infoInfer}, expr.Loc)
		}
		return id
	case hir.ExprAssign:
		return e.visitAssign(expr.Assign, expr.Loc)
	case hir.ExprBinOp:
		return e.visitBinOp(expr.BinOp, expr.Loc)
	case hir.ExprCast:
		return e.visitCast(expr.Cast, expr.Loc)
	case hir.ExprReference:
		return e.visitExprOrUnit(expr.Reference, expr.Loc)
	case hir.ExprIndex:
		return e.visitIndex(expr.Index, expr.Loc)
	default:
		return e.insertBare(typeInfo{kind: infoInfer}, expr.Loc)
	}
}

// visitMatch recurses the scrutinee, then for each arm allocates a fresh
// TypeId from its declared type, checks the optional guard against Bool,
// folds the arm's body, and unifies — reconstructing back into the arm's
// declared type. Finally every arm's type is unified with the match's
// own declared type and reconstructed back into it.
//
// The arm's body type is its *first* statement's type, falling back to
// Unit for an empty body. This deliberately differs from a function
// body's last-statement-wins fold in visitFunc.
func (e *Engine) visitMatch(m *hir.Match, loc report.Span) TypeId {
	e.visitExprOrUnit(m.Cond, loc)

	armTypes := make([]TypeId, len(m.Arms))
	for i := range m.Arms {
		arm := &m.Arms[i]
		armTy := e.insertBare(infoFromKind(arm.Ty.Kind), arm.Loc)

		if arm.Guard != nil {
			guardTy := e.visitExpr(arm.Guard)
			boolId := e.insertBare(typeInfo{kind: infoBool}, arm.Guard.Loc)
			e.unify(guardTy, boolId)
		}

		var armRet TypeId
		if len(arm.Body.Stmts) > 0 {
			armRet = e.visitStmt(arm.Body.Stmts[0])
		} else {
			armRet = e.insertBare(typeInfo{kind: infoUnit}, arm.Body.Loc)
		}

		e.unify(armTy, armRet)
		if kind, ok := e.reconstruct(armTy); ok {
			arm.Ty.Kind = kind
		}
		armTypes[i] = armTy
	}

	matchTy := e.insertBare(infoFromKind(m.Ty.Kind), loc)
	for _, at := range armTypes {
		e.unify(matchTy, at)
	}
	if kind, ok := e.reconstruct(matchTy); ok {
		m.Ty.Kind = kind
	}
	return matchTy
}

func (e *Engine) visitLiteral(lit hir.Literal, loc report.Span) TypeId {
	return e.insertBare(infoFromLiteral(lit), loc)
}

// visitComparison recurses both sides, unifies them, and always yields
// Bool: a comparison's own result type never depends on whether its
// operands agreed.
func (e *Engine) visitComparison(s hir.Sided, loc report.Span) TypeId {
	left := e.visitExprOrUnit(s.Left, loc)
	right := e.visitExprOrUnit(s.Right, loc)
	e.unify(left, right)
	return e.insertBare(typeInfo{kind: infoBool}, loc)
}

// visitBinOp recurses both sides and unifies them, yielding the unified
// operand type — arithmetic and logical operators never change an
// expression's type the way a comparison collapses it to Bool.
func (e *Engine) visitBinOp(s hir.Sided, loc report.Span) TypeId {
	left := e.visitExprOrUnit(s.Left, loc)
	right := e.visitExprOrUnit(s.Right, loc)
	e.unify(left, right)
	return left
}

// visitAssign unifies the target variable's type with the assigned
// value's type and yields Unit.
func (e *Engine) visitAssign(a hir.Assign, loc report.Span) TypeId {
	val := e.visitExprOrUnit(a.Value, loc)
	if varId, ok := e.get(a.Var); ok {
		e.unify(varId, val)
	}
	return e.insertBare(typeInfo{kind: infoUnit}, loc)
}

// visitCast yields the declared target type directly; a cast's source
// expression is visited for its own diagnostics but never unified
// against the target; casts are how a program tells the typer two
// otherwise-conflicting types are intentionally related.
func (e *Engine) visitCast(c hir.Cast, loc report.Span) TypeId {
	e.visitExprOrUnit(c.Value, loc)
	return e.insertBare(infoFromKind(c.To.Kind), loc)
}

// visitIndex visits the index expression for its own diagnostics and
// yields the indexed variable's own type, approximating the unmodeled
// "element type of an array" with the array's own type.
func (e *Engine) visitIndex(idx hir.Index, loc report.Span) TypeId {
	e.visitExprOrUnit(idx.Index, loc)
	id, ok := e.get(idx.Var)
	if !ok {
		return e.insertBare(typeInfo{kind: infoInfer}, loc)
	}
	return id
}

// visitCall visits every argument for its own diagnostics and yields a
// fresh Infer: without a function-signature table in scope here, a
// call's result type cannot be determined. A caller relying on a call
// expression's type sees FailedInfer instead of a crash.
func (e *Engine) visitCall(call hir.FuncCall, loc report.Span) TypeId {
	for _, a := range call.Args {
		e.visitExpr(a)
	}
	return e.insertBare(typeInfo{kind: infoInfer}, loc)
}

// visitLoop folds every statement in body for its own diagnostics and
// always yields Unit: this core does not model a `break` carrying a
// value out of its enclosing loop.
func (e *Engine) visitLoop(body hir.Block[hir.Stmt], loc report.Span) TypeId {
	for _, stmt := range body.Stmts {
		e.visitStmt(stmt)
	}
	return e.insertBare(typeInfo{kind: infoUnit}, loc)
}

// visitScope folds body the same way a function body does: sequential
// execution, result is the last statement's type (Unit for an empty
// scope).
func (e *Engine) visitScope(body hir.Block[hir.Stmt], loc report.Span) TypeId {
	ty := e.insertBare(typeInfo{kind: infoUnit}, loc)
	for _, stmt := range body.Stmts {
		ty = e.visitStmt(stmt)
	}
	return ty
}
