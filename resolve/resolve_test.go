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

package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crunch-lang/crunchc/ast"
	"github.com/crunch-lang/crunchc/internal/intern"
	"github.com/crunch-lang/crunchc/internal/testlex"
	"github.com/crunch-lang/crunchc/parser"
	"github.com/crunch-lang/crunchc/report"
	"github.com/crunch-lang/crunchc/resolve"
)

func parseModule(t *testing.T, interner *intern.Table, text string) *ast.Context {
	t.Helper()
	file := report.NewIndexedFile(report.File{Path: "m.crunch", Text: text})
	ctx := ast.NewContext(report.File{Path: "m.crunch", Text: text}, interner)
	toks := testlex.Lex(file, text)
	rep := &report.Report{}
	p := parser.New(ctx, toks, rep)
	require.True(t, p.Parse(), "%v", rep.Diagnostics())
	return ctx
}

// For a single module with `type T ... end` and a function
// `fn g() -> T ... end`, after finalize, g.ret is Left(id) where
// types[id] is the custom type T.
func TestResolver_FinalizeResolvesCustomReturnType(t *testing.T) {
	t.Parallel()

	interner := &intern.Table{}
	ctx := parseModule(t, interner, "type T\nx : Bool\nend\n\nfn g() -> T\nend\n")

	rep := &report.Report{}
	r := resolve.New(rep, interner)
	modID := r.Bind(ctx, interner.Intern("m"), nil)
	require.True(t, r.Finalize(), "%v", rep.Diagnostics())

	mod := r.Modules()[modID]
	require.Len(t, mod.Functions, 1)

	g := r.Functions()[mod.Functions[0]]
	id, ok := g.Returns.Left()
	require.True(t, ok)
	assert.Equal(t, resolve.TypeCustomKind, r.Types()[id].Kind)
	assert.Equal(t, interner.Intern("T"), r.Types()[id].Name)
}

func TestResolver_PrimitiveLookupDuringBind(t *testing.T) {
	t.Parallel()

	interner := &intern.Table{}
	ctx := parseModule(t, interner, "fn id(x : Bool) -> Bool\nend\n")

	rep := &report.Report{}
	r := resolve.New(rep, interner)
	r.Bind(ctx, interner.Intern("m"), nil)

	fn := r.Functions()[0]
	_, stillUnresolved := fn.Returns.Right()
	assert.False(t, stillUnresolved, "primitive return type should resolve during bind, before finalize")
	assert.True(t, fn.Returns.IsLeft())
}

// An unresolved name after finalize yields a NameNotFound
// diagnostic naming the offending identifier.
func TestResolver_NameNotFound(t *testing.T) {
	t.Parallel()

	interner := &intern.Table{}
	ctx := parseModule(t, interner, "fn g() -> DoesNotExist\nend\n")

	rep := &report.Report{}
	r := resolve.New(rep, interner)
	r.Bind(ctx, interner.Intern("m"), nil)
	require.False(t, r.Finalize())

	require.NotEmpty(t, rep.Diagnostics())
	assert.Equal(t, "name-not-found", rep.Diagnostics()[0].Tag())
}

func TestResolver_ExportedTypeVisibleToImporter(t *testing.T) {
	t.Parallel()

	interner := &intern.Table{}

	libCtx := parseModule(t, interner, "exposed\ntype Shared\nv : Bool\nend\n")
	userCtx := parseModule(t, interner, "fn f() -> Shared\nend\n")

	rep := &report.Report{}
	r := resolve.New(rep, interner)
	libID := r.Bind(libCtx, interner.Intern("lib"), nil)
	userID := r.Bind(userCtx, interner.Intern("user"), map[string]resolve.ModuleId{})

	// Wire the import relationship directly, since bindImport only
	// consults importPaths keyed by the literal import path string, and
	// this fixture never writes an `import "..."` statement.
	r.Modules()[userID].Imports = append(r.Modules()[userID].Imports, libID)

	require.True(t, r.Finalize(), "%v", rep.Diagnostics())
	g := r.Functions()[r.Modules()[userID].Functions[0]]
	id, ok := g.Returns.Left()
	require.True(t, ok)
	assert.Equal(t, interner.Intern("Shared"), r.Types()[id].Name)
}

// A type that is not exported must not be visible across modules, even
// when a direct import link exists: lookupExportedType only inspects a
// module's exports, never its private items.
func TestResolver_UnexportedTypeNotVisible(t *testing.T) {
	t.Parallel()

	interner := &intern.Table{}

	libCtx := parseModule(t, interner, "type Private\nv : Bool\nend\n")
	userCtx := parseModule(t, interner, "fn f() -> Private\nend\n")

	rep := &report.Report{}
	r := resolve.New(rep, interner)
	libID := r.Bind(libCtx, interner.Intern("lib"), nil)
	userID := r.Bind(userCtx, interner.Intern("user"), nil)
	r.Modules()[userID].Imports = append(r.Modules()[userID].Imports, libID)

	assert.False(t, r.Finalize())
}
