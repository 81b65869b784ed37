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

package resolve

import (
	"github.com/crunch-lang/crunchc/ast"
	"github.com/crunch-lang/crunchc/internal/arena"
	"github.com/crunch-lang/crunchc/internal/intern"
	"github.com/crunch-lang/crunchc/report"
)

// Resolver accumulates one or more modules bound from [ast.Context]s and
// resolves their forward type references in a single finalize pass.
//
// Primitive types are seeded at construction and occupy ids 0..5 so bind-
// phase primitive lookup never touches the patch list, per the model's
// fixed-low-index invariant.
type Resolver struct {
	modules   []Module
	types     []Type
	functions []Function
	report    *report.Report
	interner  *intern.Table

	primitiveByName map[intern.ID]TypeId
	patches         []patch
}

type patchKind int8

const (
	patchArg patchKind = iota
	patchReturn
	patchMember
	patchAliasTarget
)

type patch struct {
	kind      patchKind
	fn        FunctionId
	argIdx    int
	ty        TypeId
	memberIdx int
	name      intern.ID
	module    ModuleId
	loc       report.Span
}

// New creates a Resolver with the six primitive types seeded, reporting
// diagnostics to rep.
func New(rep *report.Report, interner *intern.Table) *Resolver {
	r := &Resolver{
		report:          rep,
		interner:        interner,
		primitiveByName: make(map[intern.ID]TypeId, 6),
	}
	seed := []struct {
		id   TypeId
		kind TypeKind
		name string
	}{
		{PrimBool, TypeBoolKind, "Bool"},
		{PrimString, TypeStringKind, "String"},
		{PrimRune, TypeRuneKind, "Rune"},
		{PrimUnit, TypeUnitKind, "Unit"},
		{PrimAbsurd, TypeAbsurdKind, "Absurd"},
		{PrimInfer, TypeInferKind, "_"},
	}
	for _, s := range seed {
		name := interner.Intern(s.name)
		r.types = append(r.types, Type{Kind: s.kind, Name: name})
		r.primitiveByName[name] = s.id
	}
	return r
}

// Types returns every type record, indexed by [TypeId].
func (r *Resolver) Types() []Type { return r.types }

// Functions returns every function record, indexed by [FunctionId].
func (r *Resolver) Functions() []Function { return r.functions }

// Modules returns every bound module, indexed by [ModuleId].
func (r *Resolver) Modules() []Module { return r.modules }

// Bind walks ctx's top-level declarations (the bind phase) into a fresh
// module named name, returning its id. importPaths maps an import's
// string path to an already-bound module, letting a caller compose
// multiple files; an import whose path is absent from importPaths
// resolves no exports (source-file loading is an external collaborator,
// out of the resolver's scope).
func (r *Resolver) Bind(ctx *ast.Context, name intern.ID, importPaths map[string]ModuleId) ModuleId {
	id := ModuleId(len(r.modules))
	r.modules = append(r.modules, Module{Name: name})

	for _, d := range ctx.Decls() {
		r.bindDecl(ctx, id, d, importPaths)
	}
	return id
}

func (r *Resolver) bindDecl(ctx *ast.Context, mod ModuleId, d ast.Decl, importPaths map[string]ModuleId) {
	switch d.Kind {
	case ast.DeclFunction:
		r.bindFunction(ctx, mod, ctx.Function(d.Function), d.Span)
	case ast.DeclType:
		r.bindType(ctx, mod, ctx.TypeDecl(d.TypeDecl), d.Span)
	case ast.DeclEnum:
		r.bindEnum(ctx, mod, ctx.Enum(d.Enum), d.Span)
	case ast.DeclTrait:
		r.bindTrait(ctx, mod, ctx.Trait(d.Trait), d.Span)
	case ast.DeclAlias:
		r.bindAlias(ctx, mod, ctx.Alias(d.Alias), d.Span)
	case ast.DeclImport:
		r.bindImport(ctx, mod, ctx.Import(d.Import), importPaths)
	case ast.DeclExtendBlock:
		r.bindExtendBlock(ctx, mod, ctx.ExtendBlock(d.ExtendBlock), importPaths)
	}
}

func isExposed(attrs []ast.Locatable[ast.Attribute]) bool {
	for _, a := range attrs {
		if !a.Value.IsConst && a.Value.Visibility == ast.Exposed {
			return true
		}
	}
	return false
}

func (r *Resolver) addType(mod ModuleId, ty Type, exposed bool) TypeId {
	m := &r.modules[mod]
	for _, existing := range m.Types {
		if r.types[existing].Name == ty.Name {
			r.duplicateName(ty.Loc, ty.Name)
			break
		}
	}
	id := TypeId(len(r.types))
	r.types = append(r.types, ty)
	m.Types = append(m.Types, id)
	if exposed {
		m.Exports = append(m.Exports, Export{Kind: ExportType, Name: ty.Name, Id: int(id)})
	}
	return id
}

func (r *Resolver) bindFunction(ctx *ast.Context, mod ModuleId, fn *ast.Function, span report.Span) FunctionId {
	args := make([]Arg, len(fn.Args))
	id := FunctionId(len(r.functions))
	r.functions = append(r.functions, Function{Name: fn.Name, Parent: mod, Loc: span})

	for i, a := range fn.Args {
		args[i] = Arg{Name: a.Value.Name.Value, Type: r.resolveTypeRef(ctx, mod, a.Value.Type)}
		if _, ok := args[i].Type.Right(); ok {
			r.patches = append(r.patches, patch{
				kind: patchArg, fn: id, argIdx: i,
				name: ctx.Type(a.Value.Type.Value).Name, module: mod, loc: a.Value.Type.Span,
			})
		}
	}
	returns := r.resolveTypeRef(ctx, mod, fn.Returns)
	if _, ok := returns.Right(); ok {
		r.patches = append(r.patches, patch{
			kind: patchReturn, fn: id,
			name: ctx.Type(fn.Returns.Value).Name, module: mod, loc: fn.Returns.Span,
		})
	}

	r.functions[id].Args = args
	r.functions[id].Returns = returns

	m := &r.modules[mod]
	for _, existing := range m.Functions {
		if r.functions[existing].Name == fn.Name {
			r.duplicateName(span, fn.Name)
			break
		}
	}
	m.Functions = append(m.Functions, id)
	if isExposed(fn.Attrs) {
		m.Exports = append(m.Exports, Export{Kind: ExportFunction, Name: fn.Name, Id: int(id)})
	}
	return id
}

// resolveTypeRef attempts the bind-phase fast path (primitive lookup or
// an explicit `_` inference marker); anything else is a deferred Right
// awaiting the finalize phase.
func (r *Resolver) resolveTypeRef(ctx *ast.Context, mod ModuleId, ty ast.Locatable[arena.Ticket[ast.Type]]) TypeRef {
	node := ctx.Type(ty.Value)
	if node.Infer {
		return Left[TypeId, UnresolvedRef](PrimInfer)
	}
	if id, ok := r.primitiveByName[node.Name]; ok {
		return Left[TypeId, UnresolvedRef](id)
	}
	return Right[TypeId](UnresolvedRef{Name: node.Name, Module: mod, Loc: ty.Span})
}

func (r *Resolver) bindType(ctx *ast.Context, mod ModuleId, t *ast.TypeDecl, span report.Span) TypeId {
	members := make([]Member, len(t.Members))
	id := TypeId(len(r.types))
	r.types = append(r.types, Type{Kind: TypeCustomKind, Name: t.Name, Parent: mod, Loc: span})

	for i, mem := range t.Members {
		members[i] = Member{
			Name: mem.Value.Name,
			Type: r.resolveTypeRef(ctx, mod, mem.Value.Type),
			Loc:  mem.Span,
		}
		if _, ok := members[i].Type.Right(); ok {
			r.patches = append(r.patches, patch{
				kind: patchMember, ty: id, memberIdx: i,
				name: ctx.Type(mem.Value.Type.Value).Name, module: mod, loc: mem.Value.Type.Span,
			})
		}
	}
	r.types[id].Members = members

	m := &r.modules[mod]
	for _, existing := range m.Types {
		if r.types[existing].Name == t.Name {
			r.duplicateName(span, t.Name)
			break
		}
	}
	m.Types = append(m.Types, id)
	if isExposed(t.Attrs) {
		m.Exports = append(m.Exports, Export{Kind: ExportType, Name: t.Name, Id: int(id)})
	}
	return id
}

// bindEnum and bindTrait register a named custom type so other
// declarations can refer to them by name; their internals (variants,
// method signatures) are outside the typer's contract in this core and
// are not threaded through the member/patch machinery above.
func (r *Resolver) bindEnum(ctx *ast.Context, mod ModuleId, e *ast.Enum, span report.Span) TypeId {
	return r.addType(mod, Type{Kind: TypeCustomKind, Name: e.Name, Parent: mod, Loc: span}, isExposed(e.Attrs))
}

func (r *Resolver) bindTrait(ctx *ast.Context, mod ModuleId, t *ast.Trait, span report.Span) TypeId {
	return r.addType(mod, Type{Kind: TypeCustomKind, Name: t.Name, Parent: mod, Loc: span}, isExposed(t.Attrs))
}

func (r *Resolver) bindAlias(ctx *ast.Context, mod ModuleId, a *ast.Alias, span report.Span) TypeId {
	name := ctx.Type(a.Name.Value).Name
	target := r.resolveTypeRef(ctx, mod, a.Actual)

	id := TypeId(len(r.types))
	r.types = append(r.types, Type{Kind: TypeAliasKind, Name: name, Parent: mod, Target: target, Loc: span})
	if _, ok := target.Right(); ok {
		r.patches = append(r.patches, patch{
			kind: patchAliasTarget, ty: id,
			name: ctx.Type(a.Actual.Value).Name, module: mod, loc: a.Actual.Span,
		})
	}

	m := &r.modules[mod]
	m.Types = append(m.Types, id)
	if isExposed(a.Attrs) {
		m.Exports = append(m.Exports, Export{Kind: ExportType, Name: name, Id: int(id)})
	}
	return id
}

func (r *Resolver) bindImport(ctx *ast.Context, mod ModuleId, imp *ast.Import, importPaths map[string]ModuleId) {
	path := ctx.Value(imp.File.Value)
	if target, ok := importPaths[path]; ok {
		r.modules[mod].Imports = append(r.modules[mod].Imports, target)
	}
}

func (r *Resolver) bindExtendBlock(ctx *ast.Context, mod ModuleId, eb *ast.ExtendBlock, importPaths map[string]ModuleId) {
	for _, item := range eb.Items {
		r.bindDecl(ctx, mod, item, importPaths)
	}
}

// Finalize resolves every deferred type reference collected during bind,
// then checks every alias chain for cycles. Returns true iff no
// error-level diagnostic was recorded by either phase.
func (r *Resolver) Finalize() bool {
	for _, p := range r.patches {
		id, ok := r.lookupType(p.module, p.name)
		if !ok {
			r.nameNotFound(p.loc, p.name)
			continue
		}
		r.applyPatch(p, id)
	}
	r.checkAliasCycles()
	return r.report.Ok()
}

func (r *Resolver) applyPatch(p patch, resolved TypeId) {
	switch p.kind {
	case patchArg:
		r.functions[p.fn].Args[p.argIdx].Type.SetLeft(resolved)
	case patchReturn:
		r.functions[p.fn].Returns.SetLeft(resolved)
	case patchMember:
		r.types[p.ty].Members[p.memberIdx].Type.SetLeft(resolved)
	case patchAliasTarget:
		r.types[p.ty].Target.SetLeft(resolved)
	}
}

// lookupType implements the finalize lookup rule: the module's own
// types, then each import's exports, breadth-first, first hit wins.
func (r *Resolver) lookupType(mod ModuleId, name intern.ID) (TypeId, bool) {
	if id, ok := r.primitiveByName[name]; ok {
		return id, true
	}

	m := &r.modules[mod]
	for _, tid := range m.Types {
		if r.types[tid].Name == name {
			return tid, true
		}
	}

	queue := append([]ModuleId(nil), m.Imports...)
	seen := map[ModuleId]bool{mod: true}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true
		if id, ok := r.lookupExportedType(next, name); ok {
			return id, true
		}
		queue = append(queue, r.modules[next].Imports...)
	}
	return 0, false
}

func (r *Resolver) lookupExportedType(mod ModuleId, name intern.ID) (TypeId, bool) {
	for _, e := range r.modules[mod].Exports {
		if e.Kind == ExportType && e.Name == name {
			return TypeId(e.Id), true
		}
	}
	return 0, false
}

// checkAliasCycles walks every alias's Target chain; an alias reachable
// from itself is reported once as CycleInAlias.
func (r *Resolver) checkAliasCycles() {
	for id, t := range r.types {
		if t.Kind != TypeAliasKind {
			continue
		}
		visited := map[TypeId]bool{TypeId(id): true}
		cur := t
		for cur.Kind == TypeAliasKind {
			target, ok := cur.Target.Left()
			if !ok {
				break
			}
			if visited[target] {
				if target == TypeId(id) {
					r.cycleInAlias(t.Loc, t.Name)
				}
				break
			}
			visited[target] = true
			cur = r.types[target]
		}
	}
}
