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
	"strconv"

	"github.com/crunch-lang/crunchc/ast"
	"github.com/crunch-lang/crunchc/internal/arena"
	"github.com/crunch-lang/crunchc/report"
	"github.com/crunch-lang/crunchc/token"
)

func (p *Parser) stmt() arena.Ticket[ast.Stmt] {
	defer p.enter(p.peek().Span)()

	switch p.peek().Kind {
	case token.Let:
		return p.varDeclStmt()
	case token.Function, token.Type, token.Enum, token.Trait, token.Import, token.Extend, token.Alias:
		item, ok := p.topLevelItem()
		span := item.Span
		if !ok {
			span = p.peek().Span
		}
		return p.ctx.NewStmt(ast.Stmt{Kind: ast.StmtItem, Span: span, Item: item})
	default:
		e := p.expr()
		return p.ctx.NewStmt(ast.Stmt{Kind: ast.StmtExpr, Span: p.ctx.Expr(e).Span, Expr: e})
	}
}

func (p *Parser) varDeclStmt() arena.Ticket[ast.Stmt] {
	start := p.next().Span // 'let'
	mutable := false
	if p.at(token.Mut) {
		p.next()
		mutable = true
	}

	nameTok, _ := p.eat(token.Ident)
	name := ast.NewLocatable(p.ctx.Intern(nameTok.Text), nameTok.Span)

	var ty ast.Locatable[arena.Ticket[ast.Type]]
	if p.at(token.Colon) {
		p.next()
		ty = p.typeRef()
	} else {
		inferred := p.ctx.NewType(ast.Type{Infer: true})
		ty = ast.Implicit(inferred, nameTok.Span)
	}

	p.eat(token.Walrus)
	value := p.expr()

	span := report.Join(spanner{start}, spanner{p.ctx.Expr(value).Span})
	decl := ast.VarDecl{Name: name, Mutable: mutable, Type: ty, Value: value}
	return p.ctx.NewStmt(ast.Stmt{Kind: ast.StmtVarDecl, Span: span, VarDecl: decl})
}

// expr parses a full expression: assignment (lowest precedence), then
// comparison, then `*`, then `as` casts, then a primary/postfix term.
func (p *Parser) expr() arena.Ticket[ast.Expr] {
	defer p.enter(p.peek().Span)()
	return p.assignExpr()
}

func (p *Parser) assignExpr() arena.Ticket[ast.Expr] {
	left := p.comparisonExpr()
	if p.at(token.Equal) {
		op := p.next()
		right := p.assignExpr()
		span := report.Join(spanner{p.ctx.Expr(left).Span}, spanner{p.ctx.Expr(right).Span})
		return p.ctx.NewExpr(ast.Expr{
			Kind: ast.ExprAssign, Span: span,
			Assign: ast.BinaryExpr{Left: left, Right: right, Op: p.ctx.Intern(op.Text)},
		})
	}
	return left
}

func (p *Parser) comparisonExpr() arena.Ticket[ast.Expr] {
	left := p.additiveExpr()
	if p.at(token.EqualEqual) {
		op := p.next()
		right := p.additiveExpr()
		span := report.Join(spanner{p.ctx.Expr(left).Span}, spanner{p.ctx.Expr(right).Span})
		return p.ctx.NewExpr(ast.Expr{
			Kind: ast.ExprComparison, Span: span,
			Comparison: ast.BinaryExpr{Left: left, Right: right, Op: p.ctx.Intern(op.Text)},
		})
	}
	return left
}

func (p *Parser) additiveExpr() arena.Ticket[ast.Expr] {
	left := p.asExpr()
	for p.at(token.Star) {
		op := p.next()
		right := p.asExpr()
		span := report.Join(spanner{p.ctx.Expr(left).Span}, spanner{p.ctx.Expr(right).Span})
		left = p.ctx.NewExpr(ast.Expr{
			Kind: ast.ExprBinOp, Span: span,
			BinOp: ast.BinOpExpr{Left: left, Right: right, Op: p.ctx.Intern(op.Text)},
		})
	}
	return left
}

func (p *Parser) asExpr() arena.Ticket[ast.Expr] {
	value := p.postfixExpr()
	for p.at(token.As) {
		p.next()
		ty := p.typeRef()
		span := report.Join(spanner{p.ctx.Expr(value).Span}, spanner{ty.Span})
		value = p.ctx.NewExpr(ast.Expr{
			Kind: ast.ExprCast, Span: span,
			Cast: ast.CastExpr{Value: value, Type: ty.Value},
		})
	}
	return value
}

func (p *Parser) postfixExpr() arena.Ticket[ast.Expr] {
	e := p.primaryExpr()
	for {
		switch {
		case p.at(token.LeftParen):
			p.next()
			var args []arena.Ticket[ast.Expr]
			for !p.at(token.RightParen) && !p.atEOF() {
				args = append(args, p.expr())
				if p.at(token.Comma) {
					p.next()
				} else {
					break
				}
			}
			end, _ := p.eat(token.RightParen)
			span := report.Join(spanner{p.ctx.Expr(e).Span}, spanner{end.Span})
			e = p.ctx.NewExpr(ast.Expr{
				Kind: ast.ExprCall, Span: span,
				Call: ast.CallExpr{Callee: e, Args: args},
			})
		case p.at(token.Dot):
			p.next()
			idxTok, _ := p.eat(token.Ident)
			idx := p.ctx.NewExpr(ast.Expr{
				Kind: ast.ExprVariable, Span: idxTok.Span,
				Variable: p.ctx.Intern(idxTok.Text),
			})
			span := report.Join(spanner{p.ctx.Expr(e).Span}, spanner{idxTok.Span})
			e = p.ctx.NewExpr(ast.Expr{
				Kind: ast.ExprIndex, Span: span,
				Index: ast.BinaryExpr{Left: e, Right: idx},
			})
		default:
			return e
		}
	}
}

func (p *Parser) primaryExpr() arena.Ticket[ast.Expr] {
	defer p.enter(p.peek().Span)()

	tok := p.peek()
	switch tok.Kind {
	case token.String:
		p.next()
		lit := ast.LiteralVal{Kind: ast.LiteralString, String: p.ctx.Intern(p.stringLiteral(tok.Span, tok.Text))}
		return p.ctx.NewExpr(ast.Expr{Kind: ast.ExprLiteral, Span: tok.Span, Literal: lit})

	case token.IntLiteral:
		p.next()
		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			p.invalidLiteral(tok.Span, "integer")
		}
		lit := ast.LiteralVal{Kind: ast.LiteralInt, Int: n}
		return p.ctx.NewExpr(ast.Expr{Kind: ast.ExprLiteral, Span: tok.Span, Literal: lit})

	case token.Ident:
		p.next()
		return p.ctx.NewExpr(ast.Expr{Kind: ast.ExprVariable, Span: tok.Span, Variable: p.ctx.Intern(tok.Text)})

	case token.LeftParen:
		p.next()
		e := p.expr()
		p.eat(token.RightParen)
		return e

	case token.If:
		return p.ifExpr()

	case token.Match:
		return p.matchExpr()

	case token.Loop:
		return p.loopExpr()

	case token.Return:
		p.next()
		var value arena.Ticket[ast.Expr]
		if !p.atStmtEnd() {
			value = p.expr()
		}
		return p.ctx.NewExpr(ast.Expr{Kind: ast.ExprReturn, Span: tok.Span, Return: value})

	case token.Continue:
		p.next()
		return p.ctx.NewExpr(ast.Expr{Kind: ast.ExprContinue, Span: tok.Span})

	case token.Break:
		p.next()
		var value arena.Ticket[ast.Expr]
		if !p.atStmtEnd() {
			value = p.expr()
		}
		return p.ctx.NewExpr(ast.Expr{Kind: ast.ExprBreak, Span: tok.Span, Break: value})

	default:
		p.genericError(tok.Span, "expected an expression, got %s", tok.Kind)
		p.next()
		return p.ctx.NewExpr(ast.Expr{
			Kind: ast.ExprLiteral, Span: tok.Span,
			Literal: ast.LiteralVal{Kind: ast.LiteralBool, Bool: false},
		})
	}
}

func (p *Parser) atStmtEnd() bool {
	k := p.peek().Kind
	return k == token.Newline || k == token.End || k == token.Else || k == token.EOF
}

func (p *Parser) ifExpr() arena.Ticket[ast.Expr] {
	start := p.next().Span // 'if'
	cond := p.expr()
	p.skipTrivia()
	then := p.block(isEndOrElse)

	var elseBlock arena.Ticket[ast.Block]
	if p.at(token.Else) {
		p.next()
		p.skipTrivia()
		elseBlock = p.block(isEnd)
	}
	end, _ := p.eat(token.End)

	span := report.Join(spanner{start}, spanner{end.Span})
	return p.ctx.NewExpr(ast.Expr{
		Kind: ast.ExprIf, Span: span,
		If: ast.IfExpr{Cond: cond, Then: then, Else: elseBlock},
	})
}

func (p *Parser) loopExpr() arena.Ticket[ast.Expr] {
	start := p.next().Span // 'loop'
	p.skipTrivia()
	body := p.block(isEnd)
	end, _ := p.eat(token.End)
	span := report.Join(spanner{start}, spanner{end.Span})
	return p.ctx.NewExpr(ast.Expr{Kind: ast.ExprLoop, Span: span, Loop: body})
}

func (p *Parser) matchExpr() arena.Ticket[ast.Expr] {
	start := p.next().Span // 'match'
	scrutinee := p.expr()
	p.skipTrivia()

	var arms []ast.MatchArm
	for !p.at(token.End) && !p.atEOF() {
		p.skipTrivia()
		if p.at(token.End) {
			break
		}
		arms = append(arms, p.matchArm())
		p.skipTrivia()
	}
	end, _ := p.eat(token.End)

	span := report.Join(spanner{start}, spanner{end.Span})
	return p.ctx.NewExpr(ast.Expr{
		Kind: ast.ExprMatch, Span: span,
		Match: ast.MatchExpr{Scrutinee: scrutinee, Arms: arms},
	})
}

func (p *Parser) matchArm() ast.MatchArm {
	start := p.peek().Span
	pattern := p.pattern()

	var guard arena.Ticket[ast.Expr]
	if p.at(token.If) {
		p.next()
		guard = p.expr()
	}

	p.eat(token.RightArrow)
	p.skipTrivia()
	body := p.block(func(k token.Kind) bool {
		return k == token.End || k == token.Comma || k == token.EOF
	})
	if p.at(token.Comma) {
		p.next()
	}

	span := report.Join(spanner{start}, spanner{p.peek().Span})
	return ast.MatchArm{
		Bindings: []ast.Binding{{Name: pattern.Name, Pattern: pattern}},
		Guard:    guard,
		Body:     body,
		Span:     span,
	}
}

func (p *Parser) pattern() ast.Pattern {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		p.next()
		if tok.Text == "_" {
			return ast.Pattern{Kind: ast.PatternWildcard}
		}
		return ast.Pattern{Kind: ast.PatternBind, Name: p.ctx.Intern(tok.Text)}
	case token.String:
		p.next()
		return ast.Pattern{
			Kind:    ast.PatternLiteral,
			Literal: ast.LiteralVal{Kind: ast.LiteralString, String: p.ctx.Intern(p.stringLiteral(tok.Span, tok.Text))},
		}
	case token.IntLiteral:
		p.next()
		n, _ := strconv.ParseInt(tok.Text, 10, 64)
		return ast.Pattern{Kind: ast.PatternLiteral, Literal: ast.LiteralVal{Kind: ast.LiteralInt, Int: n}}
	default:
		p.genericError(tok.Span, "expected a pattern, got %s", tok.Kind)
		p.next()
		return ast.Pattern{Kind: ast.PatternWildcard}
	}
}
