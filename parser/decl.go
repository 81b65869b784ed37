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

package parser

import (
	"github.com/crunch-lang/crunchc/ast"
	"github.com/crunch-lang/crunchc/internal/arena"
	"github.com/crunch-lang/crunchc/report"
	"github.com/crunch-lang/crunchc/token"
)

// topLevelItem parses decorators and attributes accumulating across blank
// lines, then exactly one declaration, draining the accumulated buffers
// into it. Returns ok == false when nothing was produced: at end of input,
// or on a token that starts no declaration, which is consumed (and
// reported as invalid-top-level if decorators or attributes preceded it).
func (p *Parser) topLevelItem() (ast.Decl, bool) {
	defer p.enter(p.peek().Span)()

	var decorators []ast.Locatable[ast.Decorator]
	var attrs []ast.Locatable[ast.Attribute]

	for {
		p.skipTrivia()
		if p.atEOF() {
			return ast.Decl{}, false
		}

		tok := p.peek()
		switch tok.Kind {
		case token.AtSign:
			decorators = append(decorators, p.decorator())
			continue

		case token.Exposed, token.Package, token.Const:
			attrs = append(attrs, p.attribute())
			continue

		case token.Function:
			return p.function(decorators, attrs), true

		case token.Type:
			return p.typeDecl(decorators, attrs), true

		case token.Enum:
			return p.enumDecl(decorators, attrs), true

		case token.Trait:
			return p.traitDecl(decorators, attrs), true

		case token.Extend:
			return p.extendBlock(decorators, attrs), true

		case token.Alias:
			return p.alias(decorators, attrs), true

		case token.Import:
			if len(attrs) != 0 {
				p.noAttributesAllowed(tok.Span, "import")
			}
			if len(decorators) != 0 {
				p.noDecoratorsAllowed(tok.Span, "import")
			}
			return p.importDecl(), true

		default:
			if len(decorators) != 0 || len(attrs) != 0 {
				p.invalidTopLevel(tok)
			}
			p.next()
			return ast.Decl{}, false
		}
	}
}

func (p *Parser) decorator() ast.Locatable[ast.Decorator] {
	defer p.enter(p.peek().Span)()

	at := p.next() // consume '@'
	nameTok, _ := p.eat(token.Ident)
	name := ast.NewLocatable(p.ctx.Intern(nameTok.Text), nameTok.Span)

	var args []arena.Ticket[ast.Expr]
	if p.at(token.LeftParen) {
		p.next()
		for !p.at(token.RightParen) && !p.atEOF() {
			args = append(args, p.expr())
			if p.at(token.Comma) {
				p.next()
			} else {
				break
			}
		}
		p.eat(token.RightParen)
	}

	span := report.Join(spanner{at.Span}, spanner{nameTok.Span})
	return ast.NewLocatable(ast.Decorator{Name: name, Args: args}, span)
}

func (p *Parser) attribute() ast.Locatable[ast.Attribute] {
	tok := p.next()
	var attr ast.Attribute
	switch tok.Kind {
	case token.Exposed:
		attr = ast.VisibilityAttr(ast.Exposed)
	case token.Package:
		attr = ast.VisibilityAttr(ast.Package)
	case token.Const:
		attr = ast.ConstAttr()
	default:
		p.genericError(tok.Span, "expected an attribute, got %s", tok.Kind)
	}
	return ast.NewLocatable(attr, tok.Span)
}

// ensureVisibility returns attrs unchanged if it already contains a
// visibility attribute, otherwise appends an implicit FileLocal one
// located at sig (the declaration's signature span), per the invariant
// that every declaration ends with a visibility attribute.
func ensureVisibility(attrs []ast.Locatable[ast.Attribute], sig report.Span) []ast.Locatable[ast.Attribute] {
	for _, a := range attrs {
		if !a.Value.IsConst {
			return attrs
		}
	}
	return append(attrs, ast.Implicit(ast.VisibilityAttr(ast.FileLocal), sig))
}

func declOf(kind ast.DeclKind, span report.Span) ast.Decl {
	return ast.Decl{Kind: kind, Span: span}
}

func (p *Parser) function(decorators []ast.Locatable[ast.Decorator], attrs []ast.Locatable[ast.Attribute]) ast.Decl {
	defer p.enter(p.peek().Span)()

	start := p.next().Span // 'fn'
	nameTok, _ := p.eat(token.Ident)
	name := p.ctx.Intern(nameTok.Text)

	p.eat(token.LeftParen)
	var args []ast.Locatable[ast.FuncArg]
	for !p.at(token.RightParen) && !p.atEOF() {
		args = append(args, p.funcArg())
		if p.at(token.Comma) {
			p.next()
		} else {
			break
		}
	}
	p.eat(token.RightParen)

	sig := report.Join(spanner{start}, spanner{p.peek().Span})

	var returns ast.Locatable[arena.Ticket[ast.Type]]
	if p.at(token.RightArrow) {
		p.next()
		returns = p.typeRef()
	} else {
		unit := p.ctx.NewType(ast.Type{Name: p.ctx.Intern("Unit")})
		returns = ast.Implicit(unit, sig)
	}

	p.skipTrivia()
	body := p.block(isEnd)
	p.eat(token.End)

	attrs = ensureVisibility(attrs, sig)
	fn := p.ctx.NewFunction(ast.Function{
		Decorators: decorators,
		Attrs:      attrs,
		Name:       name,
		Args:       args,
		Returns:    returns,
		Body:       body,
	})

	d := declOf(ast.DeclFunction, report.Join(spanner{start}, spanner{p.peek().Span}))
	d.Function = fn
	return d
}

func (p *Parser) funcArg() ast.Locatable[ast.FuncArg] {
	comptime := false
	if p.at(token.Const) {
		p.next()
		comptime = true
	}
	nameTok, _ := p.eat(token.Ident)
	name := ast.NewLocatable(p.ctx.Intern(nameTok.Text), nameTok.Span)
	p.eat(token.Colon)
	ty := p.typeRef()

	span := report.Join(spanner{nameTok.Span}, spanner{ty.Span})
	return ast.NewLocatable(ast.FuncArg{Name: name, Type: ty, Comptime: comptime}, span)
}

func (p *Parser) typeRef() ast.Locatable[arena.Ticket[ast.Type]] {
	tok, _ := p.eat(token.Ident)
	name := p.ctx.Intern(tok.Text)

	// The token stream carries no bracket punctuation, so a type
	// reference is always a bare name here; its generics list stays
	// empty, and downstream passes treat nil and empty identically.
	ticket := p.ctx.NewType(ast.Type{Name: name})
	return ast.NewLocatable(ticket, tok.Span)
}

// blockEndPredicate decides when a [block] scan should stop consuming
// statements.
type blockEndPredicate func(token.Kind) bool

func isEnd(k token.Kind) bool { return k == token.End || k == token.EOF }

func isEndOrElse(k token.Kind) bool { return k == token.End || k == token.Else || k == token.EOF }

func (p *Parser) block(stop blockEndPredicate) arena.Ticket[ast.Block] {
	defer p.enter(p.peek().Span)()

	start := p.peek().Span
	var stmts []arena.Ticket[ast.Stmt]
	for {
		p.skipTrivia()
		if stop(p.peek().Kind) {
			break
		}
		stmts = append(stmts, p.stmt())
	}
	span := report.Join(spanner{start}, spanner{p.peek().Span})
	return p.ctx.NewBlock(ast.Block{Stmts: stmts, Span: span})
}

func (p *Parser) typeDecl(decorators []ast.Locatable[ast.Decorator], attrs []ast.Locatable[ast.Attribute]) ast.Decl {
	defer p.enter(p.peek().Span)()

	start := p.next().Span // 'type'
	nameTok, _ := p.eat(token.Ident)
	name := p.ctx.Intern(nameTok.Text)
	generics := p.genericsList()
	sig := report.Join(spanner{start}, spanner{p.peek().Span})
	p.skipTrivia()

	var members []ast.Locatable[ast.TypeMember]
	for !p.at(token.End) && !p.atEOF() {
		p.skipTrivia()
		if p.at(token.End) {
			break
		}
		members = append(members, p.typeMember())
		p.skipTrivia()
	}
	p.eat(token.End)

	attrs = ensureVisibility(attrs, sig)
	ticket := p.ctx.NewTypeDecl(ast.TypeDecl{
		Decorators: decorators, Attrs: attrs, Name: name,
		Generics: generics, Members: members,
	})
	d := declOf(ast.DeclType, report.Join(spanner{start}, spanner{p.peek().Span}))
	d.TypeDecl = ticket
	return d
}

func (p *Parser) typeMember() ast.Locatable[ast.TypeMember] {
	var decorators []ast.Locatable[ast.Decorator]
	var attrs []ast.Locatable[ast.Attribute]
	for p.at(token.AtSign) || p.at(token.Exposed) || p.at(token.Package) || p.at(token.Const) {
		if p.at(token.AtSign) {
			decorators = append(decorators, p.decorator())
		} else {
			attrs = append(attrs, p.attribute())
		}
		p.skipTrivia()
	}

	nameTok, _ := p.eat(token.Ident)
	name := p.ctx.Intern(nameTok.Text)
	p.eat(token.Colon)
	ty := p.typeRef()

	span := report.Join(spanner{nameTok.Span}, spanner{ty.Span})
	return ast.NewLocatable(ast.TypeMember{
		Decorators: decorators, Attrs: attrs, Name: name, Type: ty,
	}, span)
}

func (p *Parser) genericsList() []ast.Locatable[arena.Ticket[ast.Type]] {
	// Absence of `[...]` and an empty `[]` are the same value: both
	// yield a nil slice. The token stream carries no bracket tokens, so
	// a generics list is always empty here.
	return nil
}

func (p *Parser) enumDecl(decorators []ast.Locatable[ast.Decorator], attrs []ast.Locatable[ast.Attribute]) ast.Decl {
	defer p.enter(p.peek().Span)()

	start := p.next().Span // 'enum'
	nameTok, _ := p.eat(token.Ident)
	name := p.ctx.Intern(nameTok.Text)
	generics := p.genericsList()
	sig := report.Join(spanner{start}, spanner{p.peek().Span})
	p.skipTrivia()

	var variants []ast.Locatable[ast.EnumVariant]
	for !p.at(token.End) && !p.atEOF() {
		p.skipTrivia()
		if p.at(token.End) {
			break
		}
		variants = append(variants, p.enumVariant())
		p.skipTrivia()
	}
	p.eat(token.End)

	attrs = ensureVisibility(attrs, sig)
	ticket := p.ctx.NewEnum(ast.Enum{
		Decorators: decorators, Attrs: attrs, Name: name,
		Generics: generics, Variants: variants,
	})
	d := declOf(ast.DeclEnum, report.Join(spanner{start}, spanner{p.peek().Span}))
	d.Enum = ticket
	return d
}

func (p *Parser) enumVariant() ast.Locatable[ast.EnumVariant] {
	nameTok, _ := p.eat(token.Ident)
	name := p.ctx.Intern(nameTok.Text)
	span := nameTok.Span

	if p.at(token.LeftParen) {
		p.next()
		var elements []ast.Locatable[arena.Ticket[ast.Type]]
		for !p.at(token.RightParen) && !p.atEOF() {
			elements = append(elements, p.typeRef())
			if p.at(token.Comma) {
				p.next()
			} else {
				break
			}
		}
		end, _ := p.eat(token.RightParen)
		span = report.Join(spanner{span}, spanner{end.Span})
		return ast.NewLocatable(ast.EnumVariant{Tuple: true, Name: name, Elements: elements}, span)
	}

	return ast.NewLocatable(ast.EnumVariant{Name: name}, span)
}

func (p *Parser) traitDecl(decorators []ast.Locatable[ast.Decorator], attrs []ast.Locatable[ast.Attribute]) ast.Decl {
	defer p.enter(p.peek().Span)()

	start := p.next().Span // 'trait'
	nameTok, _ := p.eat(token.Ident)
	name := p.ctx.Intern(nameTok.Text)
	generics := p.genericsList()
	sig := report.Join(spanner{start}, spanner{p.peek().Span})
	p.skipTrivia()

	var methods []ast.Locatable[arena.Ticket[ast.Function]]
	for !p.at(token.End) && !p.atEOF() {
		p.skipTrivia()
		if p.at(token.End) {
			break
		}
		if !p.at(token.Function) {
			p.genericError(p.peek().Span, "expected a method function, got %s", p.peek().Kind)
			p.next()
			continue
		}
		fnDecl := p.function(nil, nil)
		methods = append(methods, ast.NewLocatable(fnDecl.Function, fnDecl.Span))
		p.skipTrivia()
	}
	p.eat(token.End)

	attrs = ensureVisibility(attrs, sig)
	ticket := p.ctx.NewTrait(ast.Trait{
		Decorators: decorators, Attrs: attrs, Name: name,
		Generics: generics, Methods: methods,
	})
	d := declOf(ast.DeclTrait, report.Join(spanner{start}, spanner{p.peek().Span}))
	d.Trait = ticket
	return d
}

func (p *Parser) importDecl() ast.Decl {
	defer p.enter(p.peek().Span)()

	start := p.next().Span // 'import'
	fileTok := p.peek()
	if fileTok.Kind == token.String {
		p.next()
	} else {
		p.importStringLiteral(fileTok.Span)
	}

	body, isByte := stringLiteralBody(fileTok.Text)
	if isByte {
		p.importByteStringLiteral(fileTok.Span)
	}
	path := p.unescape(fileTok.Span, body)
	lastSegment := lastPathSegment(path)
	if lastSegment == "" {
		p.missingImport(fileTok.Span)
	}
	file := ast.NewLocatable(p.ctx.Intern(path), fileTok.Span)

	dest := ast.ImportRelative
	switch {
	case p.at(token.Library):
		p.next()
		dest = ast.ImportLibrary
	case p.at(token.Package):
		p.next()
		dest = ast.ImportPackage
	}

	var exposes ast.ImportExposure
	switch {
	case p.at(token.Exposing):
		p.next()
		if p.at(token.Star) {
			p.next()
			exposes = ast.ImportExposure{Kind: ast.ExposeAll}
		} else {
			exposes = ast.ImportExposure{Kind: ast.ExposeMembers, Members: p.exposedMembers()}
		}
	case p.at(token.As):
		p.next()
		aliasTok, _ := p.eat(token.Ident)
		exposes = ast.ImportExposure{
			Kind:  ast.ExposeNone,
			Alias: ast.NewLocatable(p.ctx.Intern(aliasTok.Text), aliasTok.Span),
		}
	default:
		exposes = ast.ImportExposure{
			Kind:  ast.ExposeNone,
			Alias: ast.NewLocatable(p.ctx.Intern(lastSegment), fileTok.Span),
		}
	}

	ticket := p.ctx.NewImport(ast.Import{File: file, Dest: dest, Exposes: exposes})
	d := declOf(ast.DeclImport, report.Join(spanner{start}, spanner{p.peek().Span}))
	d.Import = ticket
	return d
}

func (p *Parser) exposedMembers() []ast.Locatable[ast.ExposedMember] {
	var members []ast.Locatable[ast.ExposedMember]
	for {
		nameTok, ok := p.eat(token.Ident)
		if !ok {
			break
		}
		member := ast.ExposedMember{Name: p.ctx.Intern(nameTok.Text)}
		span := nameTok.Span
		if p.at(token.As) {
			p.next()
			aliasTok, _ := p.eat(token.Ident)
			member.Alias = p.ctx.Intern(aliasTok.Text)
			span = report.Join(spanner{span}, spanner{aliasTok.Span})
		}
		members = append(members, ast.NewLocatable(member, span))
		if p.at(token.Comma) {
			p.next()
			continue
		}
		break
	}
	return members
}

func (p *Parser) extendBlock(decorators []ast.Locatable[ast.Decorator], attrs []ast.Locatable[ast.Attribute]) ast.Decl {
	defer p.enter(p.peek().Span)()

	start := p.next().Span // 'extend'
	if len(decorators) != 0 {
		p.noDecoratorsAllowed(start, "extend")
	}
	if len(attrs) != 0 {
		p.noAttributesAllowed(start, "extend")
	}

	target := p.typeRef()
	var extender *ast.Locatable[arena.Ticket[ast.Type]]
	if p.at(token.With) {
		p.next()
		e := p.typeRef()
		extender = &e
	}
	p.skipTrivia()

	var items []ast.Decl
	for !p.at(token.End) && !p.atEOF() {
		p.skipTrivia()
		if p.at(token.End) {
			break
		}
		item, ok := p.extendItem()
		if ok {
			items = append(items, item)
		}
	}
	p.eat(token.End)

	ticket := p.ctx.NewExtendBlock(ast.ExtendBlock{Target: target, Extender: extender, Items: items})
	d := declOf(ast.DeclExtendBlock, report.Join(spanner{start}, spanner{p.peek().Span}))
	d.ExtendBlock = ticket
	return d
}

// extendItem mirrors the top-level dispatcher for an extend body, with one
// difference: decorators and attributes left dangling before the body's
// `end` attach to nothing and are a syntax error rather than silently
// carrying over to the declaration after the extend block.
func (p *Parser) extendItem() (ast.Decl, bool) {
	defer p.enter(p.peek().Span)()

	var decorators []ast.Locatable[ast.Decorator]
	var attrs []ast.Locatable[ast.Attribute]

	for {
		p.skipTrivia()

		tok := p.peek()
		switch tok.Kind {
		case token.AtSign:
			decorators = append(decorators, p.decorator())
			continue

		case token.Exposed, token.Package, token.Const:
			attrs = append(attrs, p.attribute())
			continue

		case token.End, token.EOF:
			if len(decorators) != 0 {
				p.noDecoratorsAllowed(tok.Span, "extend body")
			}
			if len(attrs) != 0 {
				p.noAttributesAllowed(tok.Span, "extend body")
			}
			return ast.Decl{}, false

		case token.Function:
			return p.function(decorators, attrs), true

		case token.Type:
			return p.typeDecl(decorators, attrs), true

		case token.Enum:
			return p.enumDecl(decorators, attrs), true

		case token.Trait:
			return p.traitDecl(decorators, attrs), true

		case token.Alias:
			return p.alias(decorators, attrs), true

		case token.Extend:
			return p.extendBlock(decorators, attrs), true

		case token.Import:
			if len(attrs) != 0 {
				p.noAttributesAllowed(tok.Span, "import")
			}
			if len(decorators) != 0 {
				p.noDecoratorsAllowed(tok.Span, "import")
			}
			return p.importDecl(), true

		default:
			if len(decorators) != 0 || len(attrs) != 0 {
				p.invalidTopLevel(tok)
			}
			p.next()
			return ast.Decl{}, false
		}
	}
}

func (p *Parser) alias(decorators []ast.Locatable[ast.Decorator], attrs []ast.Locatable[ast.Attribute]) ast.Decl {
	defer p.enter(p.peek().Span)()

	start := p.next().Span // 'alias'
	name := p.typeRef()
	p.eat(token.Equal)
	actual := p.typeRef()

	ticket := p.ctx.NewAlias(ast.Alias{Decorators: decorators, Attrs: attrs, Name: name, Actual: actual})
	d := declOf(ast.DeclAlias, report.Join(spanner{start}, spanner{p.peek().Span}))
	d.Alias = ticket
	return d
}

// lastPathSegment returns the final `.`-separated segment of a dotted
// import path.
func lastPathSegment(path string) string {
	last := path
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			start = i + 1
		}
	}
	last = path[start:]
	return last
}
