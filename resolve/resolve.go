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

// Package resolve walks an [ast.Context] and produces a module forest in
// which every identifier reference has been reduced to a stable integer
// handle: a [TypeId] or [FunctionId].
package resolve

import (
	"github.com/crunch-lang/crunchc/internal/intern"
	"github.com/crunch-lang/crunchc/report"
)

// TypeId is a dense handle into a [Resolver]'s type table. The primitive
// types occupy fixed low indices so primitive lookup during the bind
// phase never touches the patch list.
type TypeId int

// FunctionId is a dense handle into a [Resolver]'s function table.
type FunctionId int

// ModuleId is a dense handle into a [Resolver]'s module table.
type ModuleId int

const (
	PrimBool TypeId = iota
	PrimString
	PrimRune
	PrimUnit
	PrimAbsurd
	PrimInfer
	firstCustomTypeId
)

// TypeKind tags which shape a [Type] record holds.
type TypeKind int8

const (
	TypeBoolKind TypeKind = iota
	TypeStringKind
	TypeRuneKind
	TypeUnitKind
	TypeAbsurdKind
	TypeInferKind
	TypeCustomKind
	TypeAliasKind
)

// Member is one `name: type` entry of a custom type.
type Member struct {
	Name intern.ID
	Type TypeRef
	Loc  report.Span
}

// Type is a resolved type record: one of the six primitives, a
// user-defined aggregate, or an alias pending its target's resolution.
type Type struct {
	Kind    TypeKind
	Name    intern.ID
	Members []Member
	Methods []FunctionId
	Parent  ModuleId
	Target  TypeRef // meaningful only when Kind == TypeAliasKind
	Loc     report.Span
}

// UnresolvedRef is a name awaiting resolution against a particular
// module's scope.
type UnresolvedRef struct {
	Name   intern.ID
	Module ModuleId
	Loc    report.Span
}

// TypeRef is the resolver's `Either<TypeId, UnresolvedRef>`: a deferred
// type reference that starts out on the Right and is patched to the
// Left once resolved.
type TypeRef = Deferred[TypeId, UnresolvedRef]

// Arg is one resolved argument slot of a [Function].
type Arg struct {
	Name intern.ID
	Type TypeRef
}

// Function is a resolved function record: its signature shape, with
// argument and return types initially unresolved.
type Function struct {
	Name    intern.ID
	Args    []Arg
	Returns TypeRef
	Parent  ModuleId
	Loc     report.Span
}

// ExportKind tags what an [Export] entry names.
type ExportKind int8

const (
	ExportFunction ExportKind = iota
	ExportType
	ExportModule
)

// Export is one `name` visible to importers of a module, resolved to a
// same-namespace id at bind time (exports are never deferred: a module
// can only export what it already owns).
type Export struct {
	Kind ExportKind
	Name intern.ID
	Id   int
}

// Module owns a lexical scope: its own functions and types, the modules
// it imports (for "see-through" export lookup), and its children in the
// module forest.
type Module struct {
	Name      intern.ID
	Parent    *ModuleId
	Imports   []ModuleId
	Exports   []Export
	Functions []FunctionId
	Types     []TypeId
	Children  []ModuleId
}
