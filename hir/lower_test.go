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

package hir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crunch-lang/crunchc/ast"
	"github.com/crunch-lang/crunchc/hir"
	"github.com/crunch-lang/crunchc/internal/intern"
	"github.com/crunch-lang/crunchc/internal/testlex"
	"github.com/crunch-lang/crunchc/parser"
	"github.com/crunch-lang/crunchc/report"
	"github.com/crunch-lang/crunchc/resolve"
)

func compileModule(t *testing.T, text string) (*ast.Context, *resolve.Resolver, *intern.Table) {
	t.Helper()
	interner := &intern.Table{}
	file := report.NewIndexedFile(report.File{Path: "m.crunch", Text: text})
	ctx := ast.NewContext(report.File{Path: "m.crunch", Text: text}, interner)
	toks := testlex.Lex(file, text)
	rep := &report.Report{}
	p := parser.New(ctx, toks, rep)
	require.True(t, p.Parse(), "%v", rep.Diagnostics())

	r := resolve.New(rep, interner)
	r.Bind(ctx, interner.Intern("m"), nil)
	require.True(t, r.Finalize(), "%v", rep.Diagnostics())
	return ctx, r, interner
}

func TestLower_ArgAndReturnTypes(t *testing.T) {
	t.Parallel()

	// The resolver has no Integer primitive of its own, so
	// "i32" only resolves at all because it's declared as an otherwise-
	// empty custom type here; lowering recognizes KindInteger purely by
	// the resolved name's spelling, not by how it resolved.
	ctx, r, interner := compileModule(t, "type i32\nend\n\nfn id(x : i32) -> i32\nreturn x\nend\n")
	fns := hir.Lower(ctx, r, interner)
	require.Len(t, fns, 1)

	fn := fns[0]
	require.Len(t, fn.Args, 1)
	assert.Equal(t, hir.KindInteger, fn.Args[0].Type.Kind)
	assert.Equal(t, hir.KindInteger, fn.Ret.Kind)
	require.Len(t, fn.Body.Stmts, 1)
	assert.Equal(t, hir.StmtExpr, fn.Body.Stmts[0].Kind)
	assert.Equal(t, hir.ExprReturn, fn.Body.Stmts[0].Expr.Kind)
}

func TestLower_IfDesugarsToTwoArmedMatch(t *testing.T) {
	t.Parallel()

	src := "fn f()\nif 1 == 1\n\"a\"\nelse\n\"b\"\nend\nend\n"
	ctx, r, interner := compileModule(t, src)
	fns := hir.Lower(ctx, r, interner)
	require.Len(t, fns, 1)

	require.Len(t, fns[0].Body.Stmts, 1)
	expr := fns[0].Body.Stmts[0].Expr
	require.Equal(t, hir.ExprMatch, expr.Kind)
	require.Len(t, expr.Match.Arms, 2)
	assert.Equal(t, hir.PatternLiteralKind, expr.Match.Arms[0].Bind.Pattern.Kind)
	assert.True(t, expr.Match.Arms[0].Bind.Pattern.Literal.Bool)
	assert.Equal(t, hir.PatternWildcardKind, expr.Match.Arms[1].Bind.Pattern.Kind)
}

func TestLower_VarDeclWithoutDeclaredTypeStartsAsInfer(t *testing.T) {
	t.Parallel()

	ctx, r, interner := compileModule(t, "fn f()\nlet x := 1\nend\n")
	fns := hir.Lower(ctx, r, interner)

	stmt := fns[0].Body.Stmts[0]
	require.Equal(t, hir.StmtVarDecl, stmt.Kind)
	assert.Equal(t, hir.KindInfer, stmt.VarDecl.Ty.Kind)
}
