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

package typer_test

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
	"github.com/crunch-lang/crunchc/typer"
)

func compile(t *testing.T, text string) ([]*hir.Function, *intern.Table, *report.Report) {
	t.Helper()
	interner := &intern.Table{}
	file := report.NewIndexedFile(report.File{Path: "m.crunch", Text: text})
	ctx := ast.NewContext(report.File{Path: "m.crunch", Text: text}, interner)
	toks := testlex.Lex(file, text)
	parseRep := &report.Report{}
	p := parser.New(ctx, toks, parseRep)
	require.True(t, p.Parse(), "%v", parseRep.Diagnostics())

	r := resolve.New(parseRep, interner)
	r.Bind(ctx, interner.Intern("m"), nil)
	require.True(t, r.Finalize(), "%v", parseRep.Diagnostics())

	fns := hir.Lower(ctx, r, interner)
	return fns, interner, parseRep
}

// `let x := 1` followed by `x == 2` results in `x: Integer`
// and the comparison of type Bool.
func TestTyper_IntegerLetThenCompare(t *testing.T) {
	t.Parallel()

	// Declared -> Bool so the body's last statement (the comparison)
	// unifies cleanly against the function's own return type, isolating
	// the property under test from an unrelated return-type conflict.
	fns, interner, _ := compile(t, "fn f() -> Bool\nlet x := 1\nx == 2\nend\n")
	rep := &report.Report{}
	e := typer.New(rep, interner)
	require.True(t, e.Walk(fns), "%v", rep.Diagnostics())

	assert.Equal(t, hir.KindInteger, fns[0].Body.Stmts[0].VarDecl.Ty.Kind)
	cmp := fns[0].Body.Stmts[1].Expr
	require.Equal(t, hir.ExprComparison, cmp.Kind)

	kind, ok := e.TypeOf(hir.UserVar(interner.Intern("x")))
	require.True(t, ok)
	assert.Equal(t, hir.KindInteger, kind)
}

// `let x := 1 ; let y := "s" ; x == y` yields one
// TypeConflict whose two locations cover x and y's declarations and a
// message mentioning both names.
func TestTyper_MismatchedComparisonIsTypeConflict(t *testing.T) {
	t.Parallel()

	fns, interner, _ := compile(t, "fn f() -> Bool\nlet x := 1\nlet y := \"s\"\nx == y\nend\n")
	rep := &report.Report{}
	e := typer.New(rep, interner)
	e.Walk(fns)

	require.Equal(t, 1, rep.Errors())
	d := rep.Diagnostics()[0]
	assert.Equal(t, "type-conflict", d.Tag())
	assert.Contains(t, d.Message(), "x")
	assert.Contains(t, d.Message(), "y")
	assert.Len(t, d.Snippets(), 2)
}

// The full pipeline over the canonical greeting program: parse, resolve,
// lower, and type. greeting infers to String, the desugared comparison
// arms are String, and the engine reports greeting's type on demand.
func TestTyper_EndToEndGreeting(t *testing.T) {
	t.Parallel()

	src := "fn main()\n" +
		"let mut greeting := \"Hello from Crunch!\"\n" +
		"if greeting == \"Hello\"\n" +
		"\"test\"\n" +
		"else\n" +
		"\"test2\"\n" +
		"end\n" +
		"end\n"

	fns, interner, _ := compile(t, src)
	rep := &report.Report{}
	e := typer.New(rep, interner)
	e.Walk(fns)

	kind, ok := e.TypeOf(hir.UserVar(interner.Intern("greeting")))
	require.True(t, ok)
	assert.Equal(t, hir.KindString, kind)

	// The declaration slot is rewritten in place as well.
	require.Equal(t, hir.StmtVarDecl, fns[0].Body.Stmts[0].Kind)
	assert.Equal(t, hir.KindString, fns[0].Body.Stmts[0].VarDecl.Ty.Kind)
}

// Idempotence: running the typer twice over already-typed
// HIR produces the same HIR and zero diagnostics.
func TestTyper_IdempotentOnAlreadyTypedHIR(t *testing.T) {
	t.Parallel()

	fns, interner, _ := compile(t, "type i32\nend\n\nfn id(x : i32) -> i32\nreturn x\nend\n")

	rep1 := &report.Report{}
	typer.New(rep1, interner).Walk(fns)
	require.True(t, rep1.Ok())

	before := fns[0].Ret.Kind
	rep2 := &report.Report{}
	typer.New(rep2, interner).Walk(fns)
	require.True(t, rep2.Ok())
	assert.Equal(t, before, fns[0].Ret.Kind)
}

// Type-checking `fn f() -> i32 let x := "a" return x end`
// must emit exactly one TypeConflict, and the final HIR's f.ret must
// remain the declared integer type (in-place rewrite does not erase the
// declaration).
func TestTyper_ReturnTypeConflictPreservesDeclaredReturn(t *testing.T) {
	t.Parallel()

	fns, interner, _ := compile(t, "type i32\nend\n\nfn f() -> i32\nlet x := \"a\"\nreturn x\nend\n")
	rep := &report.Report{}
	e := typer.New(rep, interner)
	e.Walk(fns)

	require.Equal(t, 1, rep.Errors())
	assert.Equal(t, "type-conflict", rep.Diagnostics()[0].Tag())
	assert.Equal(t, hir.KindInteger, fns[0].Ret.Kind)
}
