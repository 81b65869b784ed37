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

package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crunch-lang/crunchc/ast"
	"github.com/crunch-lang/crunchc/internal/intern"
	"github.com/crunch-lang/crunchc/report"
)

func newContext() *ast.Context {
	return ast.NewContext(report.File{Path: "a.crunch", Text: "fn f() end\n"}, &intern.Table{})
}

func TestContext_TicketRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := newContext()
	name := ctx.Intern("f")
	ptr := ctx.NewFunction(ast.Function{Name: name})

	fn := ctx.Function(ptr)
	require.NotNil(t, fn)
	assert.Equal(t, name, fn.Name)
	assert.Equal(t, "f", ctx.Value(fn.Name))
}

func TestContext_DeclsAccumulateInOrder(t *testing.T) {
	t.Parallel()

	ctx := newContext()
	assert.Empty(t, ctx.Decls())

	d1 := ast.Decl{Kind: ast.DeclFunction, Function: ctx.NewFunction(ast.Function{Name: ctx.Intern("a")})}
	d2 := ast.Decl{Kind: ast.DeclFunction, Function: ctx.NewFunction(ast.Function{Name: ctx.Intern("b")})}
	ctx.AddDecl(d1)
	ctx.AddDecl(d2)

	require.Len(t, ctx.Decls(), 2)
	assert.Equal(t, "a", ctx.Value(ctx.Function(ctx.Decls()[0].Function).Name))
	assert.Equal(t, "b", ctx.Value(ctx.Function(ctx.Decls()[1].Function).Name))
}

func TestContext_DistinctArenasDoNotAlias(t *testing.T) {
	t.Parallel()

	ctx := newContext()
	fnPtr := ctx.NewFunction(ast.Function{Name: ctx.Intern("only")})
	tyPtr := ctx.NewTypeDecl(ast.TypeDecl{Name: ctx.Intern("only")})

	// A function ticket and a type-decl ticket are backed by distinct
	// arenas: mutating through one must never be visible through the other.
	ctx.Function(fnPtr).Name = ctx.Intern("renamed")
	assert.Equal(t, "only", ctx.Value(ctx.TypeDecl(tyPtr).Name))
}
