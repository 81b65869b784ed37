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

// Package ast defines the arena-backed abstract syntax tree produced by
// package parser.
//
// Every node kind lives in its own typed arena inside a [Context]; nodes
// are referred to by [arena.Ticket] handles rather than Go pointers, so
// the tree is stable and comparable even as parsing continues to grow it.
package ast

import (
	"github.com/crunch-lang/crunchc/internal/arena"
	"github.com/crunch-lang/crunchc/internal/intern"
	"github.com/crunch-lang/crunchc/report"
)

// Context owns every arena backing a single file's AST, plus that file's
// interner and indexed source text.
//
// A zero Context is not ready to use; construct one with [NewContext].
type Context struct {
	file     *report.IndexedFile
	interner *intern.Table

	functions arena.Arena[Function]
	types     arena.Arena[TypeDecl]
	enums     arena.Arena[Enum]
	traits    arena.Arena[Trait]
	imports   arena.Arena[Import]
	extends   arena.Arena[ExtendBlock]
	aliases   arena.Arena[Alias]

	typeRefs arena.Arena[Type]
	exprs    arena.Arena[Expr]
	stmts    arena.Arena[Stmt]
	blocks   arena.Arena[Block]

	decls []Decl
}

// NewContext creates an empty [Context] for the given file, interning
// identifiers into interner.
func NewContext(file report.File, interner *intern.Table) *Context {
	return &Context{
		file:     report.NewIndexedFile(file),
		interner: interner,
	}
}

// File returns the indexed source file this context's nodes were parsed
// from.
func (c *Context) File() *report.IndexedFile { return c.file }

// Intern interns s using this context's interner.
func (c *Context) Intern(s string) intern.ID { return c.interner.Intern(s) }

// Value resolves id back to its string using this context's interner.
func (c *Context) Value(id intern.ID) string { return c.interner.Value(id) }

// Decls returns every top-level declaration parsed into this context, in
// source order.
func (c *Context) Decls() []Decl { return c.decls }

// AddDecl appends d to this context's top-level declaration list.
func (c *Context) AddDecl(d Decl) { c.decls = append(c.decls, d) }

// Ticket constructors. Each stores a node in its dedicated arena and
// returns the ticket referring to it.

func (c *Context) NewFunction(f Function) arena.Ticket[Function] { return c.functions.Store(f) }
func (c *Context) NewTypeDecl(t TypeDecl) arena.Ticket[TypeDecl] { return c.types.Store(t) }
func (c *Context) NewEnum(e Enum) arena.Ticket[Enum]             { return c.enums.Store(e) }
func (c *Context) NewTrait(t Trait) arena.Ticket[Trait]          { return c.traits.Store(t) }
func (c *Context) NewImport(i Import) arena.Ticket[Import]       { return c.imports.Store(i) }
func (c *Context) NewExtendBlock(e ExtendBlock) arena.Ticket[ExtendBlock] {
	return c.extends.Store(e)
}
func (c *Context) NewAlias(a Alias) arena.Ticket[Alias] { return c.aliases.Store(a) }
func (c *Context) NewType(t Type) arena.Ticket[Type]    { return c.typeRefs.Store(t) }
func (c *Context) NewExpr(e Expr) arena.Ticket[Expr]    { return c.exprs.Store(e) }
func (c *Context) NewStmt(s Stmt) arena.Ticket[Stmt]    { return c.stmts.Store(s) }
func (c *Context) NewBlock(b Block) arena.Ticket[Block] { return c.blocks.Store(b) }

// Dereference helpers. Each follows a ticket back into its arena.

func (c *Context) Function(p arena.Ticket[Function]) *Function { return p.In(&c.functions) }
func (c *Context) TypeDecl(p arena.Ticket[TypeDecl]) *TypeDecl { return p.In(&c.types) }
func (c *Context) Enum(p arena.Ticket[Enum]) *Enum             { return p.In(&c.enums) }
func (c *Context) Trait(p arena.Ticket[Trait]) *Trait          { return p.In(&c.traits) }
func (c *Context) Import(p arena.Ticket[Import]) *Import       { return p.In(&c.imports) }
func (c *Context) ExtendBlock(p arena.Ticket[ExtendBlock]) *ExtendBlock {
	return p.In(&c.extends)
}
func (c *Context) Alias(p arena.Ticket[Alias]) *Alias { return p.In(&c.aliases) }
func (c *Context) Type(p arena.Ticket[Type]) *Type    { return p.In(&c.typeRefs) }
func (c *Context) Expr(p arena.Ticket[Expr]) *Expr    { return p.In(&c.exprs) }
func (c *Context) Stmt(p arena.Ticket[Stmt]) *Stmt    { return p.In(&c.stmts) }
func (c *Context) Block(p arena.Ticket[Block]) *Block { return p.In(&c.blocks) }
