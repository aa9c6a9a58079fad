package parser

import (
	"github.com/kythera-lang/kyc/internal/ast"
	"github.com/kythera-lang/kyc/internal/lexer"
)

// binaryPrecedence maps an infix operator lexeme to its precedence level
// and OpCode, mirroring the table in spec.md §4.2.
var binaryPrecedence = map[string]struct {
	level ast.L
	op    ast.OpCode
}{
	"??":  {ast.LNullishCoalescing, ast.BinOpNullishCoalescing},
	"||":  {ast.LLogicalOr, ast.BinOpLogicalOr},
	"&&":  {ast.LLogicalAnd, ast.BinOpLogicalAnd},
	"|":   {ast.LBitwiseOr, ast.BinOpBitwiseOr},
	"^":   {ast.LBitwiseXor, ast.BinOpBitwiseXor},
	"&":   {ast.LBitwiseAnd, ast.BinOpBitwiseAnd},
	"==":  {ast.LEquals, ast.BinOpEq},
	"!=":  {ast.LEquals, ast.BinOpNe},
	"===": {ast.LEquals, ast.BinOpStrictEq},
	"!==": {ast.LEquals, ast.BinOpStrictNe},
	"<=":  {ast.LCompare, ast.BinOpLe},
	">=":  {ast.LCompare, ast.BinOpGe},
	"<<":  {ast.LShift, ast.BinOpShl},
	">>":  {ast.LShift, ast.BinOpShr},
	">>>": {ast.LShift, ast.BinOpUShr},
	"+":   {ast.LAdd, ast.BinOpAdd},
	"-":   {ast.LAdd, ast.BinOpSub},
	"*":   {ast.LMultiply, ast.BinOpMul},
	"/":   {ast.LMultiply, ast.BinOpDiv},
	"%":   {ast.LMultiply, ast.BinOpMod},
	"**":  {ast.LExponent, ast.BinOpPow},
}

var assignOp = map[string]ast.OpCode{
	"=":    ast.BinOpAssign,
	"+=":   ast.BinOpAddAssign,
	"-=":   ast.BinOpSubAssign,
	"*=":   ast.BinOpMulAssign,
	"/=":   ast.BinOpDivAssign,
	"%=":   ast.BinOpModAssign,
	"**=":  ast.BinOpPowAssign,
	"<<=":  ast.BinOpShlAssign,
	">>=":  ast.BinOpShrAssign,
	">>>=": ast.BinOpUShrAssign,
	"&=":   ast.BinOpBitwiseAndAssign,
	"|=":   ast.BinOpBitwiseOrAssign,
	"^=":   ast.BinOpBitwiseXorAssign,
	"&&=":  ast.BinOpLogicalAndAssign,
	"||=":  ast.BinOpLogicalOrAssign,
	"??=":  ast.BinOpNullishCoalescingAssign,
}

func (p *Parser) parseExpression(minLevel ast.L) ast.Expr {
	left := p.parsePrefix()
	return p.parseSuffix(minLevel, left)
}

func (p *Parser) parseSuffix(minLevel ast.L, left ast.Expr) ast.Expr {
	for {
		switch p.tok().Kind {
		case lexer.TDot, lexer.TQuestionDot:
			if ast.LMember < minLevel {
				return left
			}
			optional := p.at(lexer.TQuestionDot)
			p.next()
			name := p.tok().Lexeme
			p.next()
			left = ast.Expr{Data: &ast.EDot{Target: left, Name: name, OptionalChain: optional}, Loc: left.Loc}

		case lexer.TOpenBracket:
			if ast.LMember < minLevel {
				return left
			}
			p.next()
			idx := p.parseExpression(ast.LLowest)
			p.expect(lexer.TCloseBracket, "']'")
			left = ast.Expr{Data: &ast.EIndex{Target: left, Index: idx}, Loc: left.Loc}

		case lexer.TOpenParen:
			if ast.LCall < minLevel {
				return left
			}
			args := p.parseArgs()
			left = ast.Expr{Data: &ast.ECall{Target: left, Args: args}, Loc: left.Loc}

		case lexer.TLessThan:
			if ast.LCall < minLevel || !p.looksLikeCallTypeArgs() {
				return left
			}
			typeArgs := p.parseTypeArgList()
			if !p.at(lexer.TOpenParen) {
				return left
			}
			args := p.parseArgs()
			left = ast.Expr{Data: &ast.ECall{Target: left, Args: args, TypeArgs: typeArgs}, Loc: left.Loc}

		case lexer.TQuestion:
			if ast.LConditional < minLevel {
				return left
			}
			p.next()
			yes := p.parseExpression(ast.LAssign)
			p.expect(lexer.TColon, "':'")
			no := p.parseExpression(ast.LAssign)
			left = ast.Expr{Data: &ast.EConditional{Test: left, Yes: yes, No: no}, Loc: left.Loc}

		case lexer.TComma:
			if ast.LComma < minLevel {
				return left
			}
			p.next()
			right := p.parseExpression(ast.LAssign)
			left = ast.Expr{Data: &ast.EBinary{Op: ast.BinOpComma, Left: left, Right: right}, Loc: left.Loc}

		case lexer.TEquals, lexer.TOperator:
			lexeme := p.tok().Lexeme
			if op, ok := assignOp[lexeme]; ok {
				if ast.LAssign < minLevel {
					return left
				}
				p.next()
				right := p.parseExpression(ast.LAssign)
				left = ast.Expr{Data: &ast.EBinary{Op: op, Left: left, Right: right}, Loc: left.Loc}
				continue
			}
			if info, ok := binaryPrecedence[lexeme]; ok {
				if info.level < minLevel {
					return left
				}
				p.next()
				nextMin := info.level + 1
				if lexeme == "**" {
					nextMin = info.level // right-associative
				}
				right := p.parseExpression(nextMin)
				left = ast.Expr{Data: &ast.EBinary{Op: info.op, Left: left, Right: right}, Loc: left.Loc}
				continue
			}
			if lexeme == "instanceof" || lexeme == "in" {
				// handled as keywords below; unreachable here
			}
			return left

		case lexer.TGreaterThan:
			if ast.LCompare < minLevel {
				return left
			}
			p.next()
			right := p.parseExpression(ast.LCompare + 1)
			left = ast.Expr{Data: &ast.EBinary{Op: ast.BinOpGt, Left: left, Right: right}, Loc: left.Loc}

		case lexer.TKeyword:
			switch p.tok().Lexeme {
			case "instanceof":
				if ast.LCompare < minLevel {
					return left
				}
				p.next()
				right := p.parseExpression(ast.LCompare + 1)
				left = ast.Expr{Data: &ast.EBinary{Op: ast.BinOpInstanceof, Left: left, Right: right}, Loc: left.Loc}
			case "in":
				if ast.LCompare < minLevel {
					return left
				}
				p.next()
				right := p.parseExpression(ast.LCompare + 1)
				left = ast.Expr{Data: &ast.EBinary{Op: ast.BinOpIn, Left: left, Right: right}, Loc: left.Loc}
			case "as":
				// type assertion `expr as Type`: parse and discard the type span
				p.next()
				p.parseTypeSpan()
			default:
				return left
			}

		case lexer.TDotDotDot:
			return left

		default:
			return left
		}
	}
}

func (p *Parser) parseArgs() []ast.Expr {
	p.expect(lexer.TOpenParen, "'('")
	var args []ast.Expr
	for !p.at(lexer.TCloseParen) && !p.at(lexer.TEOF) {
		loc := p.loc()
		if p.at(lexer.TDotDotDot) {
			p.next()
			v := p.parseExpression(ast.LAssign)
			args = append(args, ast.Expr{Data: &ast.ESpread{Value: v}, Loc: loc})
		} else {
			args = append(args, p.parseExpression(ast.LAssign))
		}
		if p.at(lexer.TComma) {
			p.next()
		}
	}
	p.expect(lexer.TCloseParen, "')'")
	return args
}

// looksLikeCallTypeArgs guards the `f<T>(x)` disambiguation: a '<' after a
// call target is a type-argument list only if, scanning ahead with a clone
// of the lexer, it closes with '>' immediately followed by '('.
func (p *Parser) looksLikeCallTypeArgs() bool {
	clone := p.lex.Clone()
	clone.EnterTypeContext()
	clone.Next()
	depth := 1
	for depth > 0 {
		switch clone.Token.Kind {
		case lexer.TEOF:
			return false
		case lexer.TLessThan:
			depth++
			clone.Next()
		case lexer.TGreaterThan:
			depth--
			if depth == 0 {
				break
			}
			clone.Next()
		case lexer.TSemicolon, lexer.TOpenBrace:
			return false
		default:
			clone.Next()
		}
		if depth == 0 {
			break
		}
	}
	clone.RescanGreaterThan()
	if clone.Token.Kind != lexer.TGreaterThan {
		return false
	}
	clone.ExitTypeContext()
	clone.Next()
	return clone.Token.Kind == lexer.TOpenParen
}

func (p *Parser) parsePrefix() ast.Expr {
	loc := p.loc()
	tok := p.tok()

	switch tok.Kind {
	case lexer.TNumericLiteral:
		v := p.lex.NumberValue
		p.next()
		return ast.Expr{Data: &ast.ENumber{Value: v}, Loc: loc}

	case lexer.TStringLiteral:
		v := p.lex.StringValue
		p.next()
		return ast.Expr{Data: &ast.EString{Value: v}, Loc: loc}

	case lexer.TRegExpLiteral:
		v := tok.Lexeme
		p.next()
		return ast.Expr{Data: &ast.ERegExp{Value: v}, Loc: loc}

	case lexer.TNoSubstitutionTemplateLiteral, lexer.TTemplateHead:
		return p.parseTemplate(nil)

	case lexer.TIdentifier:
		name := tok.Lexeme
		if p.isArrowAhead() {
			return p.parseArrowFromIdentifier(loc, name)
		}
		p.next()
		return ast.Expr{Data: &ast.EIdentifier{Name: name}, Loc: loc}

	case lexer.TKeyword:
		return p.parsePrefixKeyword(loc, tok.Lexeme)

	case lexer.TOpenParen:
		return p.parseParenOrArrow(loc)

	case lexer.TOpenBracket:
		return p.parseArrayLiteral(loc)

	case lexer.TOpenBrace:
		return p.parseObjectLiteral(loc)

	case lexer.TLessThan, lexer.TLessThanSlash:
		if p.looksLikeJSXStart() {
			return p.parseJSXElementOrFragment()
		}
		p.errorHere("unexpected '<'")
		p.next()
		return ast.Expr{Data: &ast.EMissing{}, Loc: loc}

	case lexer.TOperator:
		return p.parseUnary(loc, tok.Lexeme)

	case lexer.TDotDotDot:
		p.next()
		v := p.parseExpression(ast.LSpread)
		return ast.Expr{Data: &ast.ESpread{Value: v}, Loc: loc}

	default:
		p.errorHere("unexpected token %q", tok.Lexeme)
		p.next()
		return ast.Expr{Data: &ast.EMissing{}, Loc: loc}
	}
}

func (p *Parser) parseUnary(loc ast.Loc, lexeme string) ast.Expr {
	var op ast.OpCode
	switch lexeme {
	case "+":
		op = ast.UnOpPos
	case "-":
		op = ast.UnOpNeg
	case "~":
		op = ast.UnOpCpl
	case "!":
		op = ast.UnOpNot
	case "++":
		op = ast.UnOpPreInc
	case "--":
		op = ast.UnOpPreDec
	default:
		p.errorHere("unexpected operator %q", lexeme)
		p.next()
		return ast.Expr{Data: &ast.EMissing{}, Loc: loc}
	}
	p.next()
	v := p.parseExpression(ast.LPrefix)
	return ast.Expr{Data: &ast.EUnary{Op: op, Value: v}, Loc: loc}
}

func (p *Parser) parsePrefixKeyword(loc ast.Loc, kw string) ast.Expr {
	switch kw {
	case "true":
		p.next()
		return ast.Expr{Data: &ast.EBoolean{Value: true}, Loc: loc}
	case "false":
		p.next()
		return ast.Expr{Data: &ast.EBoolean{Value: false}, Loc: loc}
	case "null":
		p.next()
		return ast.Expr{Data: &ast.ENull{}, Loc: loc}
	case "undefined":
		p.next()
		return ast.Expr{Data: &ast.EUndefined{}, Loc: loc}
	case "this":
		p.next()
		return ast.Expr{Data: &ast.EThis{}, Loc: loc}
	case "super":
		p.next()
		return ast.Expr{Data: &ast.EIdentifier{Name: "super"}, Loc: loc}
	case "new":
		p.next()
		target := p.parseExpression(ast.LCall)
		if call, ok := target.Data.(*ast.ECall); ok {
			return ast.Expr{Data: &ast.ENew{Target: call.Target, Args: call.Args}, Loc: loc}
		}
		return ast.Expr{Data: &ast.ENew{Target: target}, Loc: loc}
	case "void":
		p.next()
		v := p.parseExpression(ast.LPrefix)
		return ast.Expr{Data: &ast.EUnary{Op: ast.UnOpVoid, Value: v}, Loc: loc}
	case "typeof":
		p.next()
		v := p.parseExpression(ast.LPrefix)
		return ast.Expr{Data: &ast.EUnary{Op: ast.UnOpTypeof, Value: v}, Loc: loc}
	case "delete":
		p.next()
		v := p.parseExpression(ast.LPrefix)
		return ast.Expr{Data: &ast.EUnary{Op: ast.UnOpDelete, Value: v}, Loc: loc}
	case "await":
		p.next()
		v := p.parseExpression(ast.LPrefix)
		return ast.Expr{Data: &ast.EAwait{Value: v}, Loc: loc}
	case "yield":
		p.next()
		delegate := false
		if p.at(lexer.TOperator) && p.tok().Lexeme == "*" {
			delegate = true
			p.next()
		}
		if p.at(lexer.TSemicolon) || p.at(lexer.TCloseParen) || p.at(lexer.TCloseBrace) || p.at(lexer.TComma) {
			return ast.Expr{Data: &ast.EYield{IsDelegate: delegate}, Loc: loc}
		}
		v := p.parseExpression(ast.LYield)
		return ast.Expr{Data: &ast.EYield{Value: &v, IsDelegate: delegate}, Loc: loc}
	case "async":
		p.next()
		if p.atKeyword("function") {
			stmt := p.parseFunction(loc, true)
			fn := stmt.Data.(*ast.SFunction)
			return ast.Expr{Data: &ast.EFunctionExpr{Name: &fn.Name, Params: fn.Params, Body: fn.Body, IsAsync: true, IsGen: fn.IsGen}, Loc: loc}
		}
		if p.at(lexer.TIdentifier) {
			name := p.tok().Lexeme
			return p.parseArrowFromIdentifier(loc, name)
		}
		return p.parseParenOrArrow(loc)
	case "function":
		stmt := p.parseFunction(loc, false)
		fn := stmt.Data.(*ast.SFunction)
		var name *string
		if fn.Name != "" {
			name = &fn.Name
		}
		return ast.Expr{Data: &ast.EFunctionExpr{Name: name, Params: fn.Params, Body: fn.Body, IsGen: fn.IsGen}, Loc: loc}
	default:
		// Contextual keywords used as plain identifiers (e.g. `of`, `as`, `from`).
		p.next()
		return ast.Expr{Data: &ast.EIdentifier{Name: kw}, Loc: loc}
	}
}

// isArrowAhead detects `ident =>` without consuming input.
func (p *Parser) isArrowAhead() bool {
	clone := p.lex.Clone()
	clone.Next()
	return clone.Token.Kind == lexer.TEqualsGreaterThan
}

func (p *Parser) parseArrowFromIdentifier(loc ast.Loc, name string) ast.Expr {
	p.next() // identifier
	p.expect(lexer.TEqualsGreaterThan, "'=>'")
	return p.finishArrow(loc, []ast.Param{{Binding: ast.BindingTarget{Kind: ast.BIdentifier, Name: name}}}, false)
}

// parseParenOrArrow disambiguates `(expr)` from `(params) => body` by
// cloning the lexer and attempting to scan to a matching ')' followed by
// '=>'; on failure it parses an ordinary parenthesized expression.
func (p *Parser) parseParenOrArrow(loc ast.Loc) ast.Expr {
	if p.looksLikeArrowParams() {
		params := p.parseParamList()
		var returnType *ast.TypeSpan
		if p.at(lexer.TColon) {
			p.next()
			span := p.parseTypeSpan()
			returnType = &span
		}
		p.expect(lexer.TEqualsGreaterThan, "'=>'")
		arrow := p.finishArrow(loc, params, false)
		if returnType != nil {
			arrow.Data.(*ast.EArrow).ReturnType = returnType
		}
		return arrow
	}

	p.next() // '('
	inner := p.parseExpression(ast.LLowest)
	p.expect(lexer.TCloseParen, "')'")
	return inner
}

func (p *Parser) finishArrow(loc ast.Loc, params []ast.Param, isAsync bool) ast.Expr {
	if p.at(lexer.TOpenBrace) {
		body := p.parseBlockBody()
		return ast.Expr{Data: &ast.EArrow{Params: params, Body: body, IsAsync: isAsync}, Loc: loc}
	}
	bodyExpr := p.parseExpression(ast.LAssign)
	return ast.Expr{Data: &ast.EArrow{Params: params, BodyExpr: &bodyExpr, IsAsync: isAsync}, Loc: loc}
}

// looksLikeArrowParams scans ahead from '(' to the matching ')' and checks
// whether '=>' (optionally after a ': ReturnType' span) follows.
func (p *Parser) looksLikeArrowParams() bool {
	clone := p.lex.Clone()
	depth := 0
	for {
		switch clone.Token.Kind {
		case lexer.TEOF:
			return false
		case lexer.TOpenParen:
			depth++
		case lexer.TCloseParen:
			depth--
			if depth == 0 {
				clone.Next()
				goto afterParen
			}
		}
		clone.Next()
	}
afterParen:
	if clone.Token.Kind == lexer.TColon {
		// Skip a return-type annotation conservatively up to '=>' or a stop token.
		for clone.Token.Kind != lexer.TEOF && clone.Token.Kind != lexer.TEqualsGreaterThan &&
			clone.Token.Kind != lexer.TSemicolon && clone.Token.Kind != lexer.TOpenBrace {
			clone.Next()
		}
	}
	return clone.Token.Kind == lexer.TEqualsGreaterThan
}

func (p *Parser) parseArrayLiteral(loc ast.Loc) ast.Expr {
	p.next() // '['
	var items []ast.Expr
	for !p.at(lexer.TCloseBracket) && !p.at(lexer.TEOF) {
		if p.at(lexer.TComma) {
			items = append(items, ast.Expr{Data: &ast.EMissing{}})
			p.next()
			continue
		}
		itemLoc := p.loc()
		if p.at(lexer.TDotDotDot) {
			p.next()
			v := p.parseExpression(ast.LAssign)
			items = append(items, ast.Expr{Data: &ast.ESpread{Value: v}, Loc: itemLoc})
		} else {
			items = append(items, p.parseExpression(ast.LAssign))
		}
		if p.at(lexer.TComma) {
			p.next()
		}
	}
	p.expect(lexer.TCloseBracket, "']'")
	return ast.Expr{Data: &ast.EArray{Items: items}, Loc: loc}
}

func (p *Parser) parseObjectLiteral(loc ast.Loc) ast.Expr {
	p.next() // '{'
	var props []ast.Property
	for !p.at(lexer.TCloseBrace) && !p.at(lexer.TEOF) {
		propLoc := p.loc()
		if p.at(lexer.TDotDotDot) {
			p.next()
			v := p.parseExpression(ast.LAssign)
			props = append(props, ast.Property{Kind: ast.PropertySpread, Value: v, Loc: propLoc})
			if p.at(lexer.TComma) {
				p.next()
			}
			continue
		}

		isMethod := false
		var key ast.Expr
		if p.at(lexer.TOpenBracket) {
			p.next()
			key = p.parseExpression(ast.LAssign)
			p.expect(lexer.TCloseBracket, "']'")
		} else {
			keyName := p.tok().Lexeme
			keyLoc := p.loc()
			if p.at(lexer.TStringLiteral) {
				keyName = p.lex.StringValue
			}
			p.next()
			if p.at(lexer.TOpenParen) {
				isMethod = true
			}
			key = ast.Expr{Data: &ast.EString{Value: keyName}, Loc: keyLoc}
		}

		switch {
		case isMethod:
			params := p.parseParamList()
			if p.at(lexer.TColon) {
				p.next()
				p.parseTypeSpan()
			}
			body := p.parseBlockBody()
			props = append(props, ast.Property{Kind: ast.PropertyMethod, Key: key, Value: ast.Expr{Data: &ast.EFunctionExpr{Params: params, Body: body}, Loc: propLoc}, Loc: propLoc})
		case p.at(lexer.TColon):
			p.next()
			v := p.parseExpression(ast.LAssign)
			props = append(props, ast.Property{Kind: ast.PropertyNormal, Key: key, Value: v, Loc: propLoc})
		case p.at(lexer.TEquals):
			// Shorthand with default, valid only in destructuring contexts;
			// tolerated here as a shorthand-with-initializer expression.
			p.next()
			def := p.parseExpression(ast.LAssign)
			props = append(props, ast.Property{Kind: ast.PropertyShorthand, Key: key, Value: def, Loc: propLoc})
		default:
			name := ""
			if s, ok := key.Data.(*ast.EString); ok {
				name = s.Value
			}
			props = append(props, ast.Property{Kind: ast.PropertyShorthand, Key: key, Value: ast.Expr{Data: &ast.EIdentifier{Name: name}, Loc: propLoc}, Loc: propLoc})
		}

		if p.at(lexer.TComma) {
			p.next()
		}
	}
	p.expect(lexer.TCloseBrace, "'}'")
	return ast.Expr{Data: &ast.EObject{Properties: props}, Loc: loc}
}

func (p *Parser) parseTemplate(tag *ast.Expr) ast.Expr {
	loc := p.loc()
	var quasis []string
	var exprs []ast.Expr

	quasis = append(quasis, p.lex.TemplateCooked)
	if p.at(lexer.TNoSubstitutionTemplateLiteral) {
		p.next()
		return ast.Expr{Data: &ast.ETemplate{Quasis: quasis, Tag: tag}, Loc: loc}
	}
	p.next() // TTemplateHead

	for {
		exprs = append(exprs, p.parseExpression(ast.LLowest))
		// The expression ends at the hole's closing '}'; consuming it flips
		// the lexer back into TemplateQuasi mode so the next token is the
		// continuation of the quasi text.
		if !p.expect(lexer.TCloseBrace, "'}'") {
			break
		}
		if !p.at(lexer.TTemplateMiddle) && !p.at(lexer.TTemplateTail) {
			p.errorHere("malformed template literal")
			break
		}
		quasis = append(quasis, p.lex.TemplateCooked)
		isTail := p.at(lexer.TTemplateTail)
		p.next()
		if isTail {
			break
		}
	}
	return ast.Expr{Data: &ast.ETemplate{Quasis: quasis, Exprs: exprs, Tag: tag}, Loc: loc}
}
