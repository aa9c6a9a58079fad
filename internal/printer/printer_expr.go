package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kythera-lang/kyc/internal/ast"
)

// printExpr prints e, wrapping it in parentheses when its own precedence
// is lower than level requires. JSX nodes never reach here in a
// successfully transformed program (Pass 3 rewrites every EJSXElement /
// EJSXFragment / EJSXExprContainer into plain calls) — encountering one
// is reported as an emitter failure rather than silently printed.
func (p *printer) printExpr(e ast.Expr, level ast.L) {
	switch n := e.Data.(type) {
	case *ast.EIdentifier:
		p.js.AddString(n.Name)

	case *ast.ENumber:
		p.printNumber(n.Value)

	case *ast.EString:
		p.js.AddBytes(p.quote(n.Value))

	case *ast.EBoolean:
		if n.Value {
			p.js.AddString("true")
		} else {
			p.js.AddString("false")
		}

	case *ast.ENull:
		p.js.AddString("null")

	case *ast.EUndefined:
		p.js.AddString("undefined")

	case *ast.EThis:
		p.js.AddString("this")

	case *ast.EMissing:
		// elision; caller owns the surrounding commas

	case *ast.ETemplate:
		p.printTemplate(n)

	case *ast.ERegExp:
		p.js.AddString(n.Value)

	case *ast.EArray:
		p.js.AddString("[")
		for i, item := range n.Items {
			if i > 0 {
				p.js.AddString(", ")
			}
			p.printExpr(item, ast.LComma)
		}
		p.js.AddString("]")

	case *ast.EObject:
		p.printObject(n)

	case *ast.ESpread:
		p.js.AddString("...")
		p.printExpr(n.Value, ast.LSpread)

	case *ast.EUnary:
		p.printUnary(n, level)

	case *ast.EBinary:
		p.printBinary(n, level)

	case *ast.EConditional:
		p.wrapIf(level > ast.LConditional, func() {
			p.printExpr(n.Test, ast.LNullishCoalescing)
			p.js.AddString(" ? ")
			p.printExpr(n.Yes, ast.LAssign)
			p.js.AddString(" : ")
			p.printExpr(n.No, ast.LAssign)
		})

	case *ast.ECall:
		p.printCall(n, level)

	case *ast.ENew:
		p.wrapIf(level > ast.LCall, func() {
			p.js.AddString("new ")
			p.printExpr(n.Target, ast.LMember)
			p.js.AddString("(")
			for i, a := range n.Args {
				if i > 0 {
					p.js.AddString(", ")
				}
				p.printExpr(a, ast.LComma)
			}
			p.js.AddString(")")
		})

	case *ast.EDot:
		p.wrapIf(level > ast.LMember, func() {
			p.printExpr(n.Target, ast.LMember)
			if n.OptionalChain {
				p.js.AddString("?.")
			} else {
				p.js.AddString(".")
			}
			p.js.AddString(n.Name)
		})

	case *ast.EIndex:
		p.wrapIf(level > ast.LMember, func() {
			p.printExpr(n.Target, ast.LMember)
			if n.OptionalChain {
				p.js.AddString("?.")
			}
			p.js.AddString("[")
			p.printExpr(n.Index, ast.LLowest)
			p.js.AddString("]")
		})

	case *ast.EArrow:
		p.printArrow(n, level)

	case *ast.EFunctionExpr:
		p.printFunctionExpr(n)

	case *ast.EAwait:
		p.wrapIf(level > ast.LPrefix, func() {
			p.js.AddString("await ")
			p.printExpr(n.Value, ast.LPrefix)
		})

	case *ast.EYield:
		p.wrapIf(level > ast.LYield, func() {
			p.js.AddString("yield")
			if n.IsDelegate {
				p.js.AddString("*")
			}
			if n.Value != nil {
				p.js.AddString(" ")
				p.printExpr(*n.Value, ast.LYield)
			}
		})

	case *ast.EJSXElement, *ast.EJSXFragment, *ast.EJSXExprContainer, *ast.EJSXText:
		p.unsupportedNode(e.Loc, fmt.Sprintf("unlowered JSX node %T reached the emitter", n))

	default:
		p.unsupportedNode(e.Loc, fmt.Sprintf("%T", n))
	}
}

func (p *printer) wrapIf(wrap bool, body func()) {
	if wrap {
		p.js.AddString("(")
	}
	body()
	if wrap {
		p.js.AddString(")")
	}
}

func (p *printer) printNumber(v float64) {
	if v == float64(int64(v)) {
		p.js.AddString(strconv.FormatInt(int64(v), 10))
		return
	}
	p.js.AddString(strconv.FormatFloat(v, 'g', -1, 64))
}

func (p *printer) printTemplate(n *ast.ETemplate) {
	if n.Tag != nil {
		p.printExpr(*n.Tag, ast.LMember)
	}
	p.js.AddString("`")
	for i, quasi := range n.Quasis {
		p.js.AddString(templateEscape(quasi))
		if i < len(n.Exprs) {
			p.js.AddString("${")
			p.printExpr(n.Exprs[i], ast.LLowest)
			p.js.AddString("}")
		}
	}
	p.js.AddString("`")
}

func templateEscape(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "`", "\\`", "${", "\\${")
	return r.Replace(s)
}

func (p *printer) printObject(n *ast.EObject) {
	if len(n.Properties) == 0 {
		p.js.AddString("{}")
		return
	}
	p.js.AddString("{ ")
	for i, prop := range n.Properties {
		if i > 0 {
			p.js.AddString(", ")
		}
		p.printProperty(prop)
	}
	p.js.AddString(" }")
}

func (p *printer) printProperty(prop ast.Property) {
	switch prop.Kind {
	case ast.PropertySpread:
		p.js.AddString("...")
		p.printExpr(prop.Value, ast.LSpread)
	case ast.PropertyShorthand:
		p.printExpr(prop.Key, ast.LLowest)
	case ast.PropertyMethod:
		p.printPropertyKey(prop.Key)
		if arrow, ok := prop.Value.Data.(*ast.EArrow); ok {
			p.js.AddString("(")
			p.printParams(arrow.Params)
			p.js.AddString(") ")
			p.printArrowBody(arrow)
			return
		}
		p.js.AddString(": ")
		p.printExpr(prop.Value, ast.LComma)
	default:
		p.printPropertyKey(prop.Key)
		p.js.AddString(": ")
		p.printExpr(prop.Value, ast.LComma)
	}
}

func (p *printer) printPropertyKey(key ast.Expr) {
	if s, ok := key.Data.(*ast.EString); ok {
		p.js.AddBytes(p.quotePropKey(s.Value))
		return
	}
	if _, ok := key.Data.(*ast.EIdentifier); ok {
		p.printExpr(key, ast.LLowest)
		return
	}
	p.js.AddString("[")
	p.printExpr(key, ast.LLowest)
	p.js.AddString("]")
}

func (p *printer) printUnary(n *ast.EUnary, level ast.L) {
	switch n.Op {
	case ast.UnOpPostDec, ast.UnOpPostInc:
		p.wrapIf(level > ast.LPostfix, func() {
			p.printExpr(n.Value, ast.LPostfix)
			p.js.AddString(unaryOpText(n.Op))
		})
		return
	}
	p.wrapIf(level > ast.LPrefix, func() {
		text := unaryOpText(n.Op)
		p.js.AddString(text)
		if isWordOp(text) {
			p.js.AddString(" ")
		}
		p.printExpr(n.Value, ast.LPrefix)
	})
}

func isWordOp(s string) bool {
	switch s {
	case "typeof", "void", "delete":
		return true
	default:
		return false
	}
}

func unaryOpText(op ast.OpCode) string {
	switch op {
	case ast.UnOpPos:
		return "+"
	case ast.UnOpNeg:
		return "-"
	case ast.UnOpCpl:
		return "~"
	case ast.UnOpNot:
		return "!"
	case ast.UnOpVoid:
		return "void"
	case ast.UnOpTypeof:
		return "typeof"
	case ast.UnOpDelete:
		return "delete"
	case ast.UnOpPreDec:
		return "--"
	case ast.UnOpPreInc:
		return "++"
	case ast.UnOpPostDec:
		return "--"
	case ast.UnOpPostInc:
		return "++"
	default:
		return "?"
	}
}

var binaryOpInfo = map[ast.OpCode]struct {
	text  string
	level ast.L
}{
	ast.BinOpAdd:                  {"+", ast.LAdd},
	ast.BinOpSub:                  {"-", ast.LAdd},
	ast.BinOpMul:                  {"*", ast.LMultiply},
	ast.BinOpDiv:                  {"/", ast.LMultiply},
	ast.BinOpMod:                  {"%", ast.LMultiply},
	ast.BinOpPow:                  {"**", ast.LExponent},
	ast.BinOpShl:                  {"<<", ast.LShift},
	ast.BinOpShr:                  {">>", ast.LShift},
	ast.BinOpUShr:                 {">>>", ast.LShift},
	ast.BinOpLt:                   {"<", ast.LCompare},
	ast.BinOpLe:                   {"<=", ast.LCompare},
	ast.BinOpGt:                   {">", ast.LCompare},
	ast.BinOpGe:                   {">=", ast.LCompare},
	ast.BinOpIn:                   {"in", ast.LCompare},
	ast.BinOpInstanceof:           {"instanceof", ast.LCompare},
	ast.BinOpEq:                   {"==", ast.LEquals},
	ast.BinOpNe:                   {"!=", ast.LEquals},
	ast.BinOpStrictEq:             {"===", ast.LEquals},
	ast.BinOpStrictNe:             {"!==", ast.LEquals},
	ast.BinOpBitwiseAnd:           {"&", ast.LBitwiseAnd},
	ast.BinOpBitwiseOr:            {"|", ast.LBitwiseOr},
	ast.BinOpBitwiseXor:           {"^", ast.LBitwiseXor},
	ast.BinOpLogicalAnd:           {"&&", ast.LLogicalAnd},
	ast.BinOpLogicalOr:            {"||", ast.LLogicalOr},
	ast.BinOpNullishCoalescing:    {"??", ast.LNullishCoalescing},
	ast.BinOpComma:                {",", ast.LComma},
	ast.BinOpAssign:               {"=", ast.LAssign},
	ast.BinOpAddAssign:            {"+=", ast.LAssign},
	ast.BinOpSubAssign:            {"-=", ast.LAssign},
	ast.BinOpMulAssign:            {"*=", ast.LAssign},
	ast.BinOpDivAssign:            {"/=", ast.LAssign},
	ast.BinOpModAssign:            {"%=", ast.LAssign},
	ast.BinOpPowAssign:            {"**=", ast.LAssign},
	ast.BinOpShlAssign:            {"<<=", ast.LAssign},
	ast.BinOpShrAssign:            {">>=", ast.LAssign},
	ast.BinOpUShrAssign:           {">>>=", ast.LAssign},
	ast.BinOpBitwiseAndAssign:     {"&=", ast.LAssign},
	ast.BinOpBitwiseOrAssign:      {"|=", ast.LAssign},
	ast.BinOpBitwiseXorAssign:     {"^=", ast.LAssign},
	ast.BinOpLogicalAndAssign:     {"&&=", ast.LAssign},
	ast.BinOpLogicalOrAssign:      {"||=", ast.LAssign},
	ast.BinOpNullishCoalescingAssign: {"??=", ast.LAssign},
}

func (p *printer) printBinary(n *ast.EBinary, level ast.L) {
	info, ok := binaryOpInfo[n.Op]
	if !ok {
		p.unsupportedNode(ast.Loc{}, "unknown binary operator")
		return
	}
	wrap := level > info.level
	p.wrapIf(wrap, func() {
		leftLevel := info.level
		rightLevel := info.level + 1
		if n.Op.IsAssign() {
			leftLevel = info.level + 1
			rightLevel = info.level
		}
		p.printExpr(n.Left, leftLevel)
		p.js.AddString(" " + info.text + " ")
		p.printExpr(n.Right, rightLevel)
	})
}

func (p *printer) printCall(n *ast.ECall, level ast.L) {
	p.wrapIf(level > ast.LCall, func() {
		p.printExpr(n.Target, ast.LMember)
		if n.OptionalChain {
			p.js.AddString("?.")
		}
		p.js.AddString("(")
		for i, a := range n.Args {
			if i > 0 {
				p.js.AddString(", ")
			}
			p.printExpr(a, ast.LComma)
		}
		p.js.AddString(")")
	})
}

func (p *printer) printArrow(n *ast.EArrow, level ast.L) {
	p.wrapIf(level > ast.LAssign, func() {
		if n.IsAsync {
			p.js.AddString("async ")
		}
		if len(n.Params) == 1 && n.Params[0].Default == nil && n.Params[0].Binding.Kind == ast.BIdentifier {
			p.js.AddString(n.Params[0].Binding.Name)
		} else {
			p.js.AddString("(")
			p.printParams(n.Params)
			p.js.AddString(")")
		}
		p.js.AddString(" => ")
		p.printArrowBody(n)
	})
}

func (p *printer) printArrowBody(n *ast.EArrow) {
	if n.BodyExpr != nil {
		if _, ok := n.BodyExpr.Data.(*ast.EObject); ok {
			p.js.AddString("(")
			p.printExpr(*n.BodyExpr, ast.LComma)
			p.js.AddString(")")
			return
		}
		p.printExpr(*n.BodyExpr, ast.LAssign)
		return
	}
	p.js.AddString("{")
	p.newline()
	p.indent++
	p.printStmtBody(n.Body)
	p.indent--
	p.printIndent()
	p.js.AddString("}")
}

func (p *printer) printFunctionExpr(n *ast.EFunctionExpr) {
	if n.IsAsync {
		p.js.AddString("async ")
	}
	p.js.AddString("function")
	if n.IsGen {
		p.js.AddString("*")
	}
	if n.Name != nil {
		p.js.AddString(" " + *n.Name)
	}
	p.js.AddString("(")
	p.printParams(n.Params)
	p.js.AddString(") {")
	p.newline()
	p.indent++
	p.printStmtBody(n.Body)
	p.indent--
	p.printIndent()
	p.js.AddString("}")
}
