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

// Package typer is a Hindley-Milner-style type inference engine over
// [hir.Function] bodies: a union-find of [TypeId]s, rewritten into each
// HIR node's [hir.Type] slot once a concrete kind is known.
//
// TypeId is the engine's own ephemeral bookkeeping handle, scoped to a
// single [Engine]'s lifetime, analogous to how [resolve.TypeId] belongs
// to the resolver rather than to the AST it walks. Nothing in package
// hir ever stores one.
package typer

import (
	"github.com/crunch-lang/crunchc/hir"
	"github.com/crunch-lang/crunchc/internal/intern"
	"github.com/crunch-lang/crunchc/report"
)

// TypeId is a dense handle into an [Engine]'s unification table.
type TypeId int

// infoKind tags which shape a [typeInfo] holds.
type infoKind int8

const (
	// infoInfer is the zero value: a [TypeId] queried before it was ever
	// inserted behaves as an unconstrained hole rather than a
	// self-referential Ref, which would otherwise recurse forever.
	infoInfer infoKind = iota
	infoRef
	infoInteger
	infoString
	infoBool
	infoUnit
)

// typeInfo is the engine's internal belief about a [TypeId]: either a
// concrete primitive, an as-yet-unconstrained hole, or a reference to
// another TypeId standing in for it.
type typeInfo struct {
	kind infoKind
	ref  TypeId
}

func infoFromKind(k hir.TypeKind) typeInfo {
	switch k {
	case hir.KindInteger:
		return typeInfo{kind: infoInteger}
	case hir.KindString:
		return typeInfo{kind: infoString}
	case hir.KindBool:
		return typeInfo{kind: infoBool}
	case hir.KindUnit:
		return typeInfo{kind: infoUnit}
	default:
		return typeInfo{kind: infoInfer}
	}
}

func infoFromLiteral(lit hir.Literal) typeInfo {
	switch lit.Kind {
	case hir.LiteralInt:
		return typeInfo{kind: infoInteger}
	case hir.LiteralBool:
		return typeInfo{kind: infoBool}
	case hir.LiteralString:
		return typeInfo{kind: infoString}
	default:
		// Array and struct literals have no inference rule of their
		// own; left as Infer so reconstruction surfaces FailedInfer
		// instead of silently guessing a kind.
		return typeInfo{kind: infoInfer}
	}
}

type typeEntry struct {
	info typeInfo
	loc  report.Span
}

// Engine is one type-checking pass over a set of [hir.Function]s. A zero
// Engine is not ready to use; construct one with [New].
type Engine struct {
	idCounter TypeId
	types     map[TypeId]typeEntry
	ids       map[hir.Var]TypeId

	interner *intern.Table
	report   *report.Report
}

// New creates an Engine reporting diagnostics to rep.
func New(rep *report.Report, interner *intern.Table) *Engine {
	return &Engine{
		types:    make(map[TypeId]typeEntry),
		ids:      make(map[hir.Var]TypeId),
		interner: interner,
		report:   rep,
	}
}

// insert binds variable to a fresh or existing TypeId carrying kind's
// info; rebinding an already-bound variable updates its info and
// location in place rather than minting a second id.
func (e *Engine) insert(variable hir.Var, kind hir.TypeKind, loc report.Span) TypeId {
	if id, ok := e.ids[variable]; ok {
		e.types[id] = typeEntry{info: infoFromKind(kind), loc: loc}
		return id
	}
	id := e.idCounter
	e.idCounter++
	e.types[id] = typeEntry{info: infoFromKind(kind), loc: loc}
	e.ids[variable] = id
	return id
}

// insertBare allocates a new anonymous TypeId carrying info directly.
func (e *Engine) insertBare(info typeInfo, loc report.Span) TypeId {
	id := e.idCounter
	e.idCounter++
	e.types[id] = typeEntry{info: info, loc: loc}
	return id
}

// get returns the TypeId bound to var, reporting VarNotInScope if none
// exists.
func (e *Engine) get(v hir.Var) (TypeId, bool) {
	id, ok := e.ids[v]
	if !ok {
		e.varNotInScope(v)
		return 0, false
	}
	return id, true
}

// nameOf recovers the variable name bound to id by reverse lookup, or
// "<anonymous type>" when id names no variable.
func (e *Engine) nameOf(id TypeId) string {
	for v, vid := range e.ids {
		if vid == id {
			return v.String(e.interner)
		}
	}
	return "<anonymous type>"
}

// unify forces a and b to represent the same type: Ref chains are
// chased first, then an Infer side rebinds to reference the other, then
// equal primitives succeed. Two ids whose chains already end at the same
// id succeed without rebinding. On conflict it reports TypeConflict,
// named and located after a and b as passed in (not their chain ends),
// and returns false; the caller is expected to keep walking rather than
// unwind, per this pass's accumulate-and-continue error policy.
func (e *Engine) unify(a, b TypeId) bool {
	ra, rb := a, b
	for e.types[ra].info.kind == infoRef {
		ra = e.types[ra].info.ref
	}
	for e.types[rb].info.kind == infoRef {
		rb = e.types[rb].info.ref
	}
	if ra == rb {
		return true
	}
	ea, eb := e.types[ra], e.types[rb]

	if ea.info.kind == infoInfer {
		e.types[ra] = typeEntry{info: typeInfo{kind: infoRef, ref: rb}, loc: ea.loc}
		return true
	}
	if eb.info.kind == infoInfer {
		e.types[rb] = typeEntry{info: typeInfo{kind: infoRef, ref: ra}, loc: eb.loc}
		return true
	}
	if ea.info.kind == eb.info.kind {
		return true
	}

	e.typeConflict(a, b,
		typeEntry{info: ea.info, loc: e.types[a].loc},
		typeEntry{info: eb.info, loc: e.types[b].loc})
	return false
}

// reconstruct walks id's Ref chain and returns its terminal TypeKind,
// reporting FailedInfer if it terminates on an unconstrained Infer.
func (e *Engine) reconstruct(id TypeId) (hir.TypeKind, bool) {
	entry := e.types[id]
	switch entry.info.kind {
	case infoInfer:
		e.failedInfer(id, entry.loc)
		return hir.KindInfer, false
	case infoRef:
		return e.reconstruct(entry.info.ref)
	case infoInteger:
		return hir.KindInteger, true
	case infoBool:
		return hir.KindBool, true
	case infoUnit:
		return hir.KindUnit, true
	case infoString:
		return hir.KindString, true
	default:
		return hir.KindInfer, false
	}
}

// TypeOf returns the reconstructed type currently bound to v. Intended
// for callers (tests, downstream passes) inspecting the result of a
// completed Walk.
func (e *Engine) TypeOf(v hir.Var) (hir.TypeKind, bool) {
	id, ok := e.get(v)
	if !ok {
		return hir.KindInfer, false
	}
	return e.reconstruct(id)
}
