package parser

import (
	"strings"

	"github.com/kythera-lang/kyc/internal/ast"
	"github.com/kythera-lang/kyc/internal/lexer"
)

// looksLikeJSXStart implements the one-token lookahead rule from spec.md
// §4.2: '<' begins JSX only when the next token is an identifier (a tag)
// or '>' (a fragment); whitespace between them is skipped by the lexer
// and not checked. Anything else is reported by parsePrefix as an
// unexpected '<': the parser has no relational '<' operator.
func (p *Parser) looksLikeJSXStart() bool {
	if p.at(lexer.TLessThanSlash) {
		return false // a stray close tag is a parse error, not a new element
	}
	clone := p.lex.Clone()
	clone.Next()
	switch clone.Token.Kind {
	case lexer.TIdentifier, lexer.TGreaterThan:
		return true
	default:
		return false
	}
}

// parseJSXElementOrFragment parses one element or fragment starting at the
// leading '<'. Invariant: on entry and on return, ModeJSXText is NOT the
// current lexer mode — the opening/closing tag and attributes are always
// scanned in the surrounding (Normal-ish) mode; only the child region
// between '>' and '</' runs in JsxText mode, and parseJSXChildren leaves
// that mode popped again before returning.
func (p *Parser) parseJSXElementOrFragment() ast.Expr {
	loc := p.loc()
	p.next() // '<'

	if p.at(lexer.TGreaterThan) {
		p.next() // '>' opening a fragment
		children := p.parseJSXChildren()
		p.expectJSXClose("")
		return ast.Expr{Data: &ast.EJSXFragment{Children: children}, Loc: loc}
	}

	tagName, isMember := p.parseJSXTagName()
	attrs := p.parseJSXAttributes()

	if p.at(lexer.TSlashGreaterThan) || (p.at(lexer.TOperator) && p.tok().Lexeme == "/") {
		p.consumeSelfClose()
		return ast.Expr{Data: &ast.EJSXElement{TagName: tagName, TagIsMember: isMember, Attrs: attrs, IsSelfClosing: true}, Loc: loc}
	}

	p.expect(lexer.TGreaterThan, "'>'")
	children := p.parseJSXChildren()
	p.expectJSXClose(tagName)
	return ast.Expr{Data: &ast.EJSXElement{TagName: tagName, TagIsMember: isMember, Attrs: attrs, Children: children}, Loc: loc}
}

// consumeSelfClose accepts a self-closing tag's trailing "/>" whether the
// lexer produced it as one TSlashGreaterThan token or, since self-closing
// tags are scanned outside JsxText mode, as a bare '/' operator followed
// by '>'.
func (p *Parser) consumeSelfClose() {
	if p.at(lexer.TSlashGreaterThan) {
		p.next()
		return
	}
	p.next() // '/'
	p.expect(lexer.TGreaterThan, "'>'")
}

func (p *Parser) parseJSXTagName() (name string, isMember bool) {
	name = p.tok().Lexeme
	p.next()
	for p.at(lexer.TDot) {
		isMember = true
		p.next()
		name += "." + p.tok().Lexeme
		p.next()
	}
	return name, isMember
}

func (p *Parser) parseJSXAttributes() []ast.JSXAttrOrSpread {
	var attrs []ast.JSXAttrOrSpread
	for p.at(lexer.TIdentifier) || p.at(lexer.TOpenBrace) {
		attrLoc := p.loc()
		if p.at(lexer.TOpenBrace) {
			p.next()
			p.expect(lexer.TDotDotDot, "'...'")
			v := p.parseExpression(ast.LAssign)
			p.expect(lexer.TCloseBrace, "'}'")
			attrs = append(attrs, ast.JSXAttrOrSpread{Spread: &ast.JSXSpreadAttr{Value: v, Loc: attrLoc}})
			continue
		}
		name := p.tok().Lexeme
		p.next()
		for p.at(lexer.TDot) {
			p.next()
			name += "." + p.tok().Lexeme
			p.next()
		}
		var value *ast.Expr
		if p.at(lexer.TEquals) {
			p.next()
			switch {
			case p.at(lexer.TStringLiteral):
				v := ast.Expr{Data: &ast.EString{Value: p.lex.StringValue}, Loc: p.loc()}
				p.next()
				value = &v
			case p.at(lexer.TOpenBrace):
				p.next()
				v := p.parseExpression(ast.LLowest)
				p.expect(lexer.TCloseBrace, "'}'")
				value = &v
			default:
				p.errorHere("expected JSX attribute value")
			}
		}
		attrs = append(attrs, ast.JSXAttrOrSpread{Attr: &ast.JSXAttr{Name: name, Value: value, Loc: attrLoc}})
	}
	return attrs
}

// parseJSXChildren scans the region between a tag's '>' and its matching
// '</' in JsxText mode: text accumulates raw (coalescing happens in the
// JSX-lowering transform pass, not here), '{' starts an expression hole
// (the lexer auto-enters JsxExpr and auto-resumes JsxText on the matching
// '}'), and '<' starts a nested child — JsxText is popped around the
// recursive call and re-pushed for the following siblings.
func (p *Parser) parseJSXChildren() []ast.Expr {
	p.lex.PushMode(lexer.ModeJSXText)
	p.lex.Next() // rescan the current position in JsxText mode

	var children []ast.Expr
	for {
		switch p.tok().Kind {
		case lexer.TJSXText:
			text := p.tok().Lexeme
			loc := p.loc()
			p.next()
			if text != "" {
				children = append(children, ast.Expr{Data: &ast.EJSXText{Value: text}, Loc: loc})
			}

		case lexer.TOpenBrace:
			loc := p.loc()
			p.next()
			if p.at(lexer.TCloseBrace) {
				p.next()
				continue
			}
			v := p.parseExpression(ast.LLowest)
			p.expect(lexer.TCloseBrace, "'}'")
			children = append(children, ast.Expr{Data: &ast.EJSXExprContainer{Value: v}, Loc: loc})

		case lexer.TLessThanSlash:
			p.lex.PopMode()
			return children

		case lexer.TLessThan:
			p.lex.PopMode()
			child := p.parseJSXElementOrFragment()
			children = append(children, child)
			p.lex.PushMode(lexer.ModeJSXText)
			p.lex.Next()

		case lexer.TEOF:
			p.errorHere("unterminated JSX element")
			p.lex.PopMode()
			return children

		default:
			p.errorHere("unexpected token %q in JSX children", p.tok().Lexeme)
			p.next()
		}
	}
}

// expectJSXClose consumes "</" [name] ">"; a mismatched closing tag name
// is reported but does not abort (the parser's one level of error
// recovery is a diagnostic, not a hard stop).
func (p *Parser) expectJSXClose(expectedName string) {
	if !p.at(lexer.TLessThanSlash) {
		p.errorHere("expected closing tag")
		return
	}
	p.next()
	if p.at(lexer.TIdentifier) {
		closing, _ := p.parseJSXTagName()
		if expectedName != "" && closing != expectedName {
			p.errorHere("mismatched closing tag: expected </%s>, found </%s>", expectedName, strings.TrimSpace(closing))
		}
	}
	p.expect(lexer.TGreaterThan, "'>'")
}
