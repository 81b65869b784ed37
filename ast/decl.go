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

// Visibility is the effective exposure of a top-level declaration.
type Visibility int8

const (
	// FileLocal is the default visibility, injected implicitly when a
	// declaration's source omits a visibility attribute.
	FileLocal Visibility = iota
	// Package makes a declaration visible to other files in the same
	// package but not to importers outside it.
	Package
	// Exposed makes a declaration visible to importing modules.
	Exposed
)

// String implements [fmt.Stringer].
func (v Visibility) String() string {
	switch v {
	case FileLocal:
		return "file"
	case Package:
		return "pkg"
	case Exposed:
		return "exposed"
	default:
		return "visibility(?)"
	}
}

// Attribute is a modifier parsed at the head of a top-level declaration:
// either a [Visibility] or the `const` marker.
type Attribute struct {
	// IsConst is true for the `const` attribute; when false, Visibility
	// holds this attribute's visibility.
	IsConst    bool
	Visibility Visibility
}

// VisibilityAttr returns an Attribute carrying the given visibility.
func VisibilityAttr(v Visibility) Attribute { return Attribute{Visibility: v} }

// ConstAttr returns the `const` Attribute.
func ConstAttr() Attribute { return Attribute{IsConst: true} }

// Decorator is a `@name(args...)` annotation attached to a declaration.
// Decorators are parsed and attached but never interpreted by the core.
type Decorator struct {
	Name Locatable[intern.ID]
	Args []arena.Ticket[Expr]
}

// Decl is any top-level AST item. Exactly one of the pointer-typed fields
// is non-nil ("nil" meaning .Nil() on the corresponding ticket); Kind says
// which.
type Decl struct {
	Kind DeclKind
	Span report.Span

	Function    arena.Ticket[Function]
	TypeDecl    arena.Ticket[TypeDecl]
	Enum        arena.Ticket[Enum]
	Trait       arena.Ticket[Trait]
	Import      arena.Ticket[Import]
	ExtendBlock arena.Ticket[ExtendBlock]
	Alias       arena.Ticket[Alias]
}

// DeclKind tags which variant a [Decl] holds.
type DeclKind int8

const (
	DeclFunction DeclKind = iota
	DeclType
	DeclEnum
	DeclTrait
	DeclImport
	DeclExtendBlock
	DeclAlias
)

// Function is a `fn name(args) -> ret ... end` declaration.
type Function struct {
	Decorators []Locatable[Decorator]
	Attrs      []Locatable[Attribute]
	Name       intern.ID
	Args       []Locatable[FuncArg]
	Returns    Locatable[arena.Ticket[Type]]
	Body       arena.Ticket[Block]
}

// FuncArg is a single `name : type` parameter, optionally prefixed with
// `const` to mark it compile-time.
type FuncArg struct {
	Name     Locatable[intern.ID]
	Type     Locatable[arena.Ticket[Type]]
	Comptime bool
}

// TypeDecl is a `type Name[generics] ... end` declaration.
type TypeDecl struct {
	Decorators []Locatable[Decorator]
	Attrs      []Locatable[Attribute]
	Name       intern.ID
	Generics   []Locatable[arena.Ticket[Type]]
	Members    []Locatable[TypeMember]
}

// TypeMember is a single `name : type` field inside a type declaration.
type TypeMember struct {
	Decorators []Locatable[Decorator]
	Attrs      []Locatable[Attribute]
	Name       intern.ID
	Type       Locatable[arena.Ticket[Type]]
}

// Enum is an `enum Name[generics] ... end` declaration.
type Enum struct {
	Decorators []Locatable[Decorator]
	Attrs      []Locatable[Attribute]
	Name       intern.ID
	Generics   []Locatable[arena.Ticket[Type]]
	Variants   []Locatable[EnumVariant]
}

// EnumVariant is either a bare name (Unit) or a name plus a tuple of
// element types (Tuple); no other shape exists.
type EnumVariant struct {
	Tuple      bool
	Name       intern.ID
	Elements   []Locatable[arena.Ticket[Type]]
	Decorators []Locatable[Decorator]
}

// Trait is a `trait Name[generics] ... end` declaration of method
// signatures.
type Trait struct {
	Decorators []Locatable[Decorator]
	Attrs      []Locatable[Attribute]
	Name       intern.ID
	Generics   []Locatable[arena.Ticket[Type]]
	Methods    []Locatable[arena.Ticket[Function]]
}

// Import is an `import "path" ...` declaration. Imports never carry
// decorators or attributes; the parser rejects both.
type Import struct {
	File    Locatable[intern.ID]
	Dest    ImportDest
	Exposes ImportExposure
}

// ImportDest says where an imported path is resolved from.
type ImportDest int8

const (
	// ImportRelative is the default: resolve relative to the importing
	// file.
	ImportRelative ImportDest = iota
	// ImportLibrary resolves against the native library search path.
	ImportLibrary
	// ImportPackage resolves against the current package's root.
	ImportPackage
)

// ImportExposure says which names an import brings into scope.
type ImportExposure struct {
	// Kind selects which of the fields below is meaningful.
	Kind ImportExposureKind
	// Alias is set when Kind == ExposeNone: the local name bound to the
	// imported module, defaulting to the last path segment.
	Alias Locatable[intern.ID]
	// Members is set when Kind == ExposeMembers: each entry is an
	// exposed name and an optional `as` alias.
	Members []Locatable[ExposedMember]
}

// ExposedMember is one `name` or `name as alias` entry in an `exposing`
// clause.
type ExposedMember struct {
	Name  intern.ID
	Alias intern.ID // zero ID (empty string) when no alias was given
}

// ImportExposureKind tags an [ImportExposure]'s shape.
type ImportExposureKind int8

const (
	// ExposeNone means the import is bound to a single alias and exposes
	// nothing into the importing scope directly.
	ExposeNone ImportExposureKind = iota
	// ExposeAll means `exposing *`.
	ExposeAll
	// ExposeMembers means `exposing A, B as C, ...`.
	ExposeMembers
)

// ExtendBlock is an `extend T [with U] ... end` declaration, reusing the
// top-level item grammar for its body.
type ExtendBlock struct {
	Target   Locatable[arena.Ticket[Type]]
	Extender *Locatable[arena.Ticket[Type]] // nil when no `with U` clause
	Items    []Decl
}

// Alias is an `alias T = U` declaration.
type Alias struct {
	Decorators []Locatable[Decorator]
	Attrs      []Locatable[Attribute]
	Name       Locatable[arena.Ticket[Type]]
	Actual     Locatable[arena.Ticket[Type]]
}

// Name returns the identifier a declaration introduces, if any. Imports,
// extend blocks, and aliases introduce no single name.
func (c *Context) Name(d Decl) (intern.ID, bool) {
	switch d.Kind {
	case DeclFunction:
		return c.Function(d.Function).Name, true
	case DeclType:
		return c.TypeDecl(d.TypeDecl).Name, true
	case DeclEnum:
		return c.Enum(d.Enum).Name, true
	case DeclTrait:
		return c.Trait(d.Trait).Name, true
	default:
		return 0, false
	}
}
