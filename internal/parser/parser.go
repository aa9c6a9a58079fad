// Package parser builds a typed ast.Program from a token stream, the way
// the teacher's js_parser builds js_ast: recursive-descent statement
// routing, a Pratt/precedence-climbing expression parser, and dedicated
// sub-parsers for JSX, destructuring, and the dialect's `component` form.
// It never panics on malformed input; errors become diagnostics and the
// parser resynchronizes at the next statement boundary.
package parser

import (
	"fmt"

	"github.com/kythera-lang/kyc/internal/ast"
	"github.com/kythera-lang/kyc/internal/lexer"
	"github.com/kythera-lang/kyc/internal/logger"
)

type Parser struct {
	log    logger.Log
	source logger.Source
	lex    *lexer.Lexer

	// recoverDepth is not read or written by any parser method; recovery
	// goes through synchronize and parseProgram's no-progress guard.
	recoverDepth int
}

// Parse tokenizes and parses one source file, returning a best-effort
// Program even when diagnostics were recorded; the parser never throws.
func Parse(log logger.Log, source logger.Source) (ast.Program, []logger.Msg) {
	var msgs []logger.Msg
	capturingLog := logger.Log{
		AddMsg:     func(m logger.Msg) { msgs = append(msgs, m); log.AddMsg(m) },
		HasErrors:  log.HasErrors,
		AlmostDone: log.AlmostDone,
		Done:       log.Done,
	}
	p := &Parser{log: capturingLog, source: source, lex: lexer.NewLexer(capturingLog, source)}
	program := p.parseProgram()
	return program, msgs
}

func (p *Parser) tok() lexer.Token { return p.lex.Token }

func (p *Parser) at(kind lexer.T) bool { return p.tok().Kind == kind }

func (p *Parser) atKeyword(kw string) bool {
	return p.tok().Kind == lexer.TKeyword && p.tok().Lexeme == kw
}

func (p *Parser) next() { p.lex.Next() }

func (p *Parser) loc() ast.Loc { return ast.Loc{Start: p.tok().StartOffset} }

func (p *Parser) errorHere(format string, args ...interface{}) {
	r := ast.Range{Loc: p.loc(), Len: int32(len(p.tok().Lexeme))}
	if r.Len == 0 {
		r.Len = 1
	}
	p.log.AddRangeError(&p.source, r, logger.PhaseParser, fmt.Sprintf(format, args...))
}

func (p *Parser) expect(kind lexer.T, what string) bool {
	if p.at(kind) {
		p.next()
		return true
	}
	p.errorHere("expected %s but found %q", what, p.tok().Lexeme)
	return false
}

// synchronize skips tokens until a statement boundary so one malformed
// statement doesn't cascade into spurious downstream errors.
func (p *Parser) synchronize() {
	for {
		switch p.tok().Kind {
		case lexer.TEOF, lexer.TSemicolon, lexer.TCloseBrace:
			return
		case lexer.TKeyword:
			switch p.tok().Lexeme {
			case "component", "function", "const", "let", "var", "if", "for", "while",
				"return", "import", "export", "try", "throw", "interface", "type", "enum":
				return
			}
		}
		p.next()
	}
}

// ---- Program / statements ----

func (p *Parser) parseProgram() ast.Program {
	var body []ast.Stmt
	for !p.at(lexer.TEOF) {
		before := p.tok().StartOffset
		stmt := p.parseStatement()
		body = append(body, stmt)
		if p.tok().StartOffset == before {
			// Guard against a statement parser that made no progress.
			p.next()
		}
	}
	return ast.Program{Body: body}
}

func (p *Parser) parseStatement() ast.Stmt {
	loc := p.loc()
	switch {
	case p.at(lexer.TSemicolon):
		p.next()
		return ast.Stmt{Data: &ast.SEmpty{}, Loc: loc}
	case p.at(lexer.TOpenBrace):
		return p.parseBlock()
	case p.atKeyword("import"):
		return p.parseImport()
	case p.atKeyword("export"):
		return p.parseExport()
	case p.atKeyword("component"):
		return p.parseComponent(loc, false)
	case p.atKeyword("function"):
		return p.parseFunction(loc, false)
	case p.atKeyword("const"), p.atKeyword("let"), p.atKeyword("var"):
		s := p.parseVarDecl()
		p.consumeSemicolon()
		return s
	case p.atKeyword("if"):
		return p.parseIf()
	case p.atKeyword("for"):
		return p.parseFor()
	case p.atKeyword("while"):
		return p.parseWhile()
	case p.atKeyword("return"):
		return p.parseReturn()
	case p.atKeyword("throw"):
		return p.parseThrow()
	case p.atKeyword("try"):
		return p.parseTry()
	case p.atKeyword("interface"):
		return p.parseInterface()
	case p.atKeyword("type"):
		return p.parseTypeAlias()
	case p.atKeyword("enum"):
		return p.parseEnum()
	default:
		expr := p.parseExpression(ast.LLowest)
		p.consumeSemicolon()
		return ast.Stmt{Data: &ast.SExpr{Value: expr}, Loc: loc}
	}
}

// consumeSemicolon implements lightweight automatic-semicolon-insertion:
// a semicolon is optional before '}', EOF, or a newline-preceded token.
func (p *Parser) consumeSemicolon() {
	if p.at(lexer.TSemicolon) {
		p.next()
		return
	}
	if p.at(lexer.TCloseBrace) || p.at(lexer.TEOF) || p.lex.HasNewlineBefore {
		return
	}
	p.errorHere("expected ';'")
}

func (p *Parser) parseBlock() ast.Stmt {
	loc := p.loc()
	p.expect(lexer.TOpenBrace, "'{'")
	var body []ast.Stmt
	for !p.at(lexer.TCloseBrace) && !p.at(lexer.TEOF) {
		body = append(body, p.parseStatement())
	}
	p.expect(lexer.TCloseBrace, "'}'")
	return ast.Stmt{Data: &ast.SBlock{Body: body}, Loc: loc}
}

func (p *Parser) parseBlockBody() []ast.Stmt {
	stmt := p.parseBlock()
	return stmt.Data.(*ast.SBlock).Body
}

// ---- import / export ----

func (p *Parser) parseImport() ast.Stmt {
	loc := p.loc()
	p.next() // 'import'

	var specs []ast.ImportSpecifier
	isTypeOnly := false
	if p.atKeyword("type") {
		isTypeOnly = true
		p.next()
	}

	if p.at(lexer.TIdentifier) {
		specs = append(specs, ast.ImportSpecifier{Kind: ast.ImportDefault, ImportedName: "default", LocalName: p.tok().Lexeme, IsTypeOnly: isTypeOnly, Loc: p.loc()})
		p.next()
		if p.at(lexer.TComma) {
			p.next()
		}
	}

	if p.at(lexer.TOperator) && p.tok().Lexeme == "*" {
		p.next()
		// 'as' local
		if p.atKeyword("as") {
			p.next()
		}
		local := p.tok().Lexeme
		p.next()
		specs = append(specs, ast.ImportSpecifier{Kind: ast.ImportNamespace, ImportedName: local, LocalName: local, IsTypeOnly: isTypeOnly})
	} else if p.at(lexer.TOpenBrace) {
		p.next()
		for !p.at(lexer.TCloseBrace) && !p.at(lexer.TEOF) {
			specLoc := p.loc()
			specTypeOnly := isTypeOnly
			if p.atKeyword("type") {
				specTypeOnly = true
				p.next()
			}
			imported := p.tok().Lexeme
			p.next()
			local := imported
			if p.atKeyword("as") {
				p.next()
				local = p.tok().Lexeme
				p.next()
			}
			specs = append(specs, ast.ImportSpecifier{Kind: ast.ImportNamed, ImportedName: imported, LocalName: local, IsTypeOnly: specTypeOnly, Loc: specLoc})
			if p.at(lexer.TComma) {
				p.next()
			}
		}
		p.expect(lexer.TCloseBrace, "'}'")
	}

	if p.atKeyword("from") {
		p.next()
	}
	sourceLoc := p.loc()
	source := p.tok().Lexeme
	if p.at(lexer.TStringLiteral) {
		source = p.lex.StringValue
	}
	p.next()
	p.consumeSemicolon()

	return ast.Stmt{Data: &ast.SImport{Specifiers: specs, Source: source, SourceLoc: sourceLoc}, Loc: loc}
}

func (p *Parser) parseExport() ast.Stmt {
	loc := p.loc()
	p.next() // 'export'

	if p.atKeyword("default") {
		p.next()
		if p.atKeyword("component") || p.atKeyword("function") {
			declLoc := p.loc()
			var decl ast.Stmt
			if p.atKeyword("component") {
				decl = p.parseComponent(declLoc, false)
			} else {
				decl = p.parseFunction(declLoc, false)
			}
			return ast.Stmt{Data: &ast.SExport{Kind: ast.ExportDefault, Decl: &decl}, Loc: loc}
		}
		expr := p.parseExpression(ast.LComma)
		p.consumeSemicolon()
		return ast.Stmt{Data: &ast.SExport{Kind: ast.ExportDefault, Expr: &expr}, Loc: loc}
	}

	switch {
	case p.atKeyword("component"), p.atKeyword("function"), p.atKeyword("const"),
		p.atKeyword("let"), p.atKeyword("var"), p.atKeyword("interface"),
		p.atKeyword("type"), p.atKeyword("enum"):
		decl := p.parseStatement()
		return ast.Stmt{Data: &ast.SExport{Kind: ast.ExportDecl, Decl: &decl}, Loc: loc}
	case p.at(lexer.TOperator) && p.tok().Lexeme == "*":
		p.next()
		var source *string
		if p.atKeyword("from") {
			p.next()
			s := p.lex.StringValue
			p.next()
			source = &s
		}
		p.consumeSemicolon()
		return ast.Stmt{Data: &ast.SExport{Kind: ast.ExportAll, Source: source}, Loc: loc}
	case p.at(lexer.TOpenBrace):
		p.next()
		var specs []ast.ExportSpecifier
		for !p.at(lexer.TCloseBrace) && !p.at(lexer.TEOF) {
			local := p.tok().Lexeme
			p.next()
			exported := local
			if p.atKeyword("as") {
				p.next()
				exported = p.tok().Lexeme
				p.next()
			}
			specs = append(specs, ast.ExportSpecifier{LocalName: local, ExportedName: exported})
			if p.at(lexer.TComma) {
				p.next()
			}
		}
		p.expect(lexer.TCloseBrace, "'}'")
		var source *string
		if p.atKeyword("from") {
			p.next()
			s := p.lex.StringValue
			p.next()
			source = &s
		}
		p.consumeSemicolon()
		return ast.Stmt{Data: &ast.SExport{Kind: ast.ExportNamed, Specifiers: specs, Source: source}, Loc: loc}
	default:
		p.errorHere("expected declaration after 'export'")
		p.synchronize()
		return ast.Stmt{Data: &ast.SEmpty{}, Loc: loc}
	}
}

// ---- component / function declarations ----

func (p *Parser) parseComponent(loc ast.Loc, _ bool) ast.Stmt {
	p.next() // 'component'
	name := p.tok().Lexeme
	p.expect(lexer.TIdentifier, "component name")

	var typeParams []ast.TypeSpan
	if p.at(lexer.TLessThan) {
		typeParams = p.parseTypeArgList()
	}

	params := p.parseParamList()

	var returnType *ast.TypeSpan
	if p.at(lexer.TColon) {
		p.next()
		span := p.parseTypeSpan()
		returnType = &span
	}
	_ = returnType

	body := p.parseBlockBody()
	return ast.Stmt{Data: &ast.SComponent{Name: name, TypeParams: typeParams, Params: params, Body: body}, Loc: loc}
}

func (p *Parser) parseFunction(loc ast.Loc, isAsync bool) ast.Stmt {
	p.next() // 'function'
	isGen := false
	if p.at(lexer.TOperator) && p.tok().Lexeme == "*" {
		isGen = true
		p.next()
	}
	name := p.tok().Lexeme
	p.expect(lexer.TIdentifier, "function name")
	if p.at(lexer.TLessThan) {
		p.parseTypeArgList()
	}
	params := p.parseParamList()
	var returnType *ast.TypeSpan
	if p.at(lexer.TColon) {
		p.next()
		span := p.parseTypeSpan()
		returnType = &span
	}
	body := p.parseBlockBody()
	return ast.Stmt{Data: &ast.SFunction{Name: name, Params: params, Body: body, IsAsync: isAsync, IsGen: isGen, ReturnType: returnType}, Loc: loc}
}

// parseTypeArgList consumes a "<...>" generic parameter/argument list as an
// opaque span, using the lexer's type-context hook so '>' terminates it
// instead of being read as relational or shift.
func (p *Parser) parseTypeArgList() []ast.TypeSpan {
	start := p.tok().StartOffset
	p.lex.EnterTypeContext()
	defer p.lex.ExitTypeContext()
	p.next() // '<'
	depth := 1
	for depth > 0 && !p.at(lexer.TEOF) {
		switch {
		case p.at(lexer.TLessThan):
			depth++
			p.next()
		case p.at(lexer.TGreaterThan):
			depth--
			if depth == 0 {
				break
			}
			p.next()
		default:
			p.next()
		}
		if depth == 0 {
			break
		}
	}
	end := p.tok().StartOffset
	p.lex.RescanGreaterThan()
	if p.at(lexer.TGreaterThan) {
		p.next()
	}
	return []ast.TypeSpan{{Range: ast.Range{Loc: ast.Loc{Start: start}, Len: end - start}}}
}

func (p *Parser) parseTypeSpan() ast.TypeSpan {
	start := p.tok().StartOffset
	depth := 0
	for {
		switch p.tok().Kind {
		case lexer.TEOF:
			goto done
		case lexer.TOpenBrace, lexer.TOpenBracket, lexer.TOpenParen:
			depth++
		case lexer.TCloseBrace, lexer.TCloseBracket, lexer.TCloseParen:
			if depth == 0 {
				goto done
			}
			depth--
		case lexer.TLessThan:
			depth++
		case lexer.TGreaterThan:
			if depth > 0 {
				depth--
			}
		case lexer.TComma, lexer.TSemicolon, lexer.TEquals, lexer.TEqualsGreaterThan:
			if depth == 0 {
				goto done
			}
		}
		p.next()
	}
done:
	end := p.tok().StartOffset
	return ast.TypeSpan{Range: ast.Range{Loc: ast.Loc{Start: start}, Len: end - start}, Text: p.source.Contents[start:end]}
}

func (p *Parser) parseParamList() []ast.Param {
	p.expect(lexer.TOpenParen, "'('")
	var params []ast.Param
	for !p.at(lexer.TCloseParen) && !p.at(lexer.TEOF) {
		params = append(params, p.parseParam())
		if p.at(lexer.TComma) {
			p.next()
		}
	}
	p.expect(lexer.TCloseParen, "')'")
	return params
}

func (p *Parser) parseParam() ast.Param {
	binding := p.parseBindingTarget()
	var typeSpan *ast.TypeSpan
	if p.at(lexer.TQuestion) {
		p.next()
	}
	if p.at(lexer.TColon) {
		p.next()
		span := p.parseTypeSpan()
		typeSpan = &span
	}
	var def *ast.Expr
	if p.at(lexer.TEquals) {
		p.next()
		e := p.parseExpression(ast.LAssign)
		def = &e
	}
	return ast.Param{Binding: binding, Default: def, TypeSpan: typeSpan}
}

// ---- destructuring ----

func (p *Parser) parseBindingTarget() ast.BindingTarget {
	loc := p.loc()
	switch {
	case p.at(lexer.TOpenBracket):
		return p.parseArrayBinding(loc)
	case p.at(lexer.TOpenBrace):
		return p.parseObjectBinding(loc)
	case p.at(lexer.TComma):
		return ast.BindingTarget{Kind: ast.BMissing, Loc: loc}
	default:
		name := p.tok().Lexeme
		p.expect(lexer.TIdentifier, "binding identifier")
		return ast.BindingTarget{Kind: ast.BIdentifier, Name: name, Loc: loc}
	}
}

func (p *Parser) parseArrayBinding(loc ast.Loc) ast.BindingTarget {
	p.next() // '['
	var items []ast.ArrayBindingItem
	for !p.at(lexer.TCloseBracket) && !p.at(lexer.TEOF) {
		if p.at(lexer.TComma) {
			items = append(items, ast.ArrayBindingItem{Target: ast.BindingTarget{Kind: ast.BMissing}})
			p.next()
			continue
		}
		isRest := false
		if p.at(lexer.TDotDotDot) {
			isRest = true
			p.next()
		}
		target := p.parseBindingTarget()
		var def *ast.Expr
		if p.at(lexer.TEquals) {
			p.next()
			e := p.parseExpression(ast.LAssign)
			def = &e
		}
		items = append(items, ast.ArrayBindingItem{Target: target, Default: def, IsRest: isRest})
		if p.at(lexer.TComma) {
			p.next()
		}
	}
	p.expect(lexer.TCloseBracket, "']'")
	return ast.BindingTarget{Kind: ast.BArray, ArrayItems: items, Loc: loc}
}

func (p *Parser) parseObjectBinding(loc ast.Loc) ast.BindingTarget {
	p.next() // '{'
	var items []ast.ObjectBindingItem
	for !p.at(lexer.TCloseBrace) && !p.at(lexer.TEOF) {
		isRest := false
		if p.at(lexer.TDotDotDot) {
			isRest = true
			p.next()
		}
		propName := p.tok().Lexeme
		p.next()
		target := ast.BindingTarget{Kind: ast.BIdentifier, Name: propName}
		if p.at(lexer.TColon) {
			p.next()
			target = p.parseBindingTarget()
		}
		var def *ast.Expr
		if p.at(lexer.TEquals) {
			p.next()
			e := p.parseExpression(ast.LAssign)
			def = &e
		}
		items = append(items, ast.ObjectBindingItem{PropName: propName, Target: target, Default: def, IsRest: isRest})
		if p.at(lexer.TComma) {
			p.next()
		}
	}
	p.expect(lexer.TCloseBrace, "'}'")
	return ast.BindingTarget{Kind: ast.BObject, ObjectItems: items, Loc: loc}
}

// ---- variable declarations ----

func (p *Parser) parseVarDecl() ast.Stmt {
	loc := p.loc()
	var kind ast.VarKind
	switch p.tok().Lexeme {
	case "const":
		kind = ast.VarConst
	case "let":
		kind = ast.VarLet
	case "var":
		kind = ast.VarVar
	}
	p.next()

	var decls []ast.VarDeclarator
	for {
		binding := p.parseBindingTarget()
		if p.at(lexer.TColon) {
			p.next()
			p.parseTypeSpan()
		}
		var init *ast.Expr
		if p.at(lexer.TEquals) {
			p.next()
			e := p.parseExpression(ast.LAssign)
			init = &e
		}
		decls = append(decls, ast.VarDeclarator{Binding: binding, Init: init})
		if p.at(lexer.TComma) {
			p.next()
			continue
		}
		break
	}
	return ast.Stmt{Data: &ast.SVarDecl{Kind: kind, Decls: decls}, Loc: loc}
}

// ---- control-flow statements ----

func (p *Parser) parseIf() ast.Stmt {
	loc := p.loc()
	p.next()
	p.expect(lexer.TOpenParen, "'('")
	test := p.parseExpression(ast.LLowest)
	p.expect(lexer.TCloseParen, "')'")
	yes := p.parseStatement()
	var no *ast.Stmt
	if p.atKeyword("else") {
		p.next()
		n := p.parseStatement()
		no = &n
	}
	return ast.Stmt{Data: &ast.SIf{Test: test, Yes: yes, No: no}, Loc: loc}
}

func (p *Parser) parseFor() ast.Stmt {
	loc := p.loc()
	p.next()
	p.expect(lexer.TOpenParen, "'('")

	if p.atKeyword("const") || p.atKeyword("let") || p.atKeyword("var") {
		kindLexeme := p.tok().Lexeme
		var declKind ast.VarKind
		switch kindLexeme {
		case "const":
			declKind = ast.VarConst
		case "let":
			declKind = ast.VarLet
		case "var":
			declKind = ast.VarVar
		}
		save := p.lex.Clone()
		savedTok := p.tok()
		p.next()
		binding := p.parseBindingTarget()
		if p.atKeyword("of") || p.atKeyword("in") {
			kind := ast.ForOf
			if p.tok().Lexeme == "in" {
				kind = ast.ForIn
			}
			p.next()
			value := p.parseExpression(ast.LLowest)
			p.expect(lexer.TCloseParen, "')'")
			body := p.parseStatement()
			return ast.Stmt{Data: &ast.SForInOf{Kind: kind, Binding: binding, DeclKind: &declKind, Value: value, Body: body}, Loc: loc}
		}
		// Not a for-in/of: rewind and parse as a normal C-style init.
		*p.lex = save
		p.lex.Token = savedTok
	}

	var init *ast.Stmt
	if !p.at(lexer.TSemicolon) {
		s := p.parseForInit()
		init = &s
	}
	p.expect(lexer.TSemicolon, "';'")
	var test *ast.Expr
	if !p.at(lexer.TSemicolon) {
		e := p.parseExpression(ast.LLowest)
		test = &e
	}
	p.expect(lexer.TSemicolon, "';'")
	var update *ast.Expr
	if !p.at(lexer.TCloseParen) {
		e := p.parseExpression(ast.LLowest)
		update = &e
	}
	p.expect(lexer.TCloseParen, "')'")
	body := p.parseStatement()
	return ast.Stmt{Data: &ast.SFor{Init: init, Test: test, Update: update, Body: body}, Loc: loc}
}

func (p *Parser) parseForInit() ast.Stmt {
	loc := p.loc()
	if p.atKeyword("const") || p.atKeyword("let") || p.atKeyword("var") {
		return p.parseVarDecl()
	}
	expr := p.parseExpression(ast.LLowest)
	return ast.Stmt{Data: &ast.SExpr{Value: expr}, Loc: loc}
}

func (p *Parser) parseWhile() ast.Stmt {
	loc := p.loc()
	p.next()
	p.expect(lexer.TOpenParen, "'('")
	test := p.parseExpression(ast.LLowest)
	p.expect(lexer.TCloseParen, "')'")
	body := p.parseStatement()
	return ast.Stmt{Data: &ast.SWhile{Test: test, Body: body}, Loc: loc}
}

func (p *Parser) parseReturn() ast.Stmt {
	loc := p.loc()
	p.next()
	if p.at(lexer.TSemicolon) || p.at(lexer.TCloseBrace) || p.at(lexer.TEOF) || p.lex.HasNewlineBefore {
		p.consumeSemicolon()
		return ast.Stmt{Data: &ast.SReturn{}, Loc: loc}
	}
	expr := p.parseExpression(ast.LLowest)
	p.consumeSemicolon()
	return ast.Stmt{Data: &ast.SReturn{Value: &expr}, Loc: loc}
}

func (p *Parser) parseThrow() ast.Stmt {
	loc := p.loc()
	p.next()
	expr := p.parseExpression(ast.LLowest)
	p.consumeSemicolon()
	return ast.Stmt{Data: &ast.SThrow{Value: expr}, Loc: loc}
}

func (p *Parser) parseTry() ast.Stmt {
	loc := p.loc()
	p.next()
	body := p.parseBlockBody()
	var catch *ast.CatchClause
	if p.atKeyword("catch") {
		p.next()
		var binding *ast.BindingTarget
		if p.at(lexer.TOpenParen) {
			p.next()
			b := p.parseBindingTarget()
			binding = &b
			p.expect(lexer.TCloseParen, "')'")
		}
		catchBody := p.parseBlockBody()
		catch = &ast.CatchClause{Binding: binding, Body: catchBody}
	}
	var finallyBody []ast.Stmt
	if p.atKeyword("finally") {
		p.next()
		finallyBody = p.parseBlockBody()
	}
	return ast.Stmt{Data: &ast.STry{Body: body, Catch: catch, Finally: finallyBody}, Loc: loc}
}

// ---- type-level declarations (parsed and erased downstream) ----

func (p *Parser) parseInterface() ast.Stmt {
	loc := p.loc()
	p.next()
	name := p.tok().Lexeme
	p.next()
	if p.at(lexer.TLessThan) {
		p.parseTypeArgList()
	}
	if p.atKeyword("extends") {
		p.next()
		p.parseTypeSpan()
	}
	start := p.tok().StartOffset
	p.expect(lexer.TOpenBrace, "'{'")
	depth := 1
	for depth > 0 && !p.at(lexer.TEOF) {
		if p.at(lexer.TOpenBrace) {
			depth++
		} else if p.at(lexer.TCloseBrace) {
			depth--
			if depth == 0 {
				break
			}
		}
		p.next()
	}
	end := p.tok().StartOffset
	p.expect(lexer.TCloseBrace, "'}'")
	return ast.Stmt{Data: &ast.SInterface{Name: name, Span: ast.TypeSpan{Range: ast.Range{Loc: ast.Loc{Start: start}, Len: end - start}}}, Loc: loc}
}

func (p *Parser) parseTypeAlias() ast.Stmt {
	loc := p.loc()
	p.next()
	name := p.tok().Lexeme
	p.next()
	if p.at(lexer.TLessThan) {
		p.parseTypeArgList()
	}
	p.expect(lexer.TEquals, "'='")
	span := p.parseTypeSpan()
	p.consumeSemicolon()
	return ast.Stmt{Data: &ast.STypeAlias{Name: name, Span: span}, Loc: loc}
}

func (p *Parser) parseEnum() ast.Stmt {
	loc := p.loc()
	p.next()
	name := p.tok().Lexeme
	p.next()
	p.expect(lexer.TOpenBrace, "'{'")
	var members []string
	for !p.at(lexer.TCloseBrace) && !p.at(lexer.TEOF) {
		members = append(members, p.tok().Lexeme)
		p.next()
		if p.at(lexer.TEquals) {
			p.next()
			p.parseExpression(ast.LAssign)
		}
		if p.at(lexer.TComma) {
			p.next()
		}
	}
	p.expect(lexer.TCloseBrace, "'}'")
	return ast.Stmt{Data: &ast.SEnum{Name: name, Members: members}, Loc: loc}
}
