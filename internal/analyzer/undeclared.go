package analyzer

import "github.com/kythera-lang/kyc/internal/ast"

// wellKnownGlobals covers the host/runtime identifiers a component body may
// reference without a local declaration or import. This is deliberately a
// flat allowlist rather than full lexical scoping (spec.md §4.3 marks
// UndeclaredIdentifier optional) — good enough to catch the documented
// boundary case of a typo'd signal getter without false-positiving on
// ordinary DOM/JS globals.
var wellKnownGlobals = map[string]bool{
	"window": true, "document": true, "console": true, "globalThis": true,
	"Math": true, "JSON": true, "Array": true, "Object": true, "String": true,
	"Number": true, "Boolean": true, "Date": true, "Promise": true, "Error": true,
	"Map": true, "Set": true, "WeakMap": true, "WeakSet": true, "RegExp": true,
	"Symbol": true, "undefined": true, "NaN": true, "Infinity": true,
	"fetch": true, "setTimeout": true, "clearTimeout": true,
	"setInterval": true, "clearInterval": true, "parseInt": true, "parseFloat": true,
	"isNaN": true, "isFinite": true, "encodeURIComponent": true, "decodeURIComponent": true,
}

// checkUndeclaredJSX scans a component/function body's JSX for a call
// whose callee identifier resolves to nothing the analyzer knows about
// (bare identifiers are not flagged; see checkUndeclaredExpr), per
// spec.md §8's boundary case:
// `<div>{x()}</div>` with unresolved `x` emits UndeclaredIdentifier as a
// warning and still lowers `x()` as a plain call.
//
// This is a flat, whole-body approximation of scope (every name declared
// anywhere in the body's statements counts as in-scope everywhere in it,
// and an arrow function's parameters count as declared from the point
// the walk reaches that arrow) rather than true block scoping, since the diagnostic is optional and a
// false negative here is far cheaper than a false positive on a typical
// nested-closure param shadow.
func (a *Analyzer) checkUndeclaredJSX(params []ast.Param, body []ast.Stmt) {
	declared := make(map[string]bool)
	for _, p := range params {
		for _, n := range collectBindingNames(p.Binding) {
			declared[n] = true
		}
	}
	collectDeclaredNames(body, declared)

	resolvable := func(name string) bool {
		if declared[name] || wellKnownGlobals[name] {
			return true
		}
		if _, ok := a.sym.Imports[name]; ok {
			return true
		}
		if _, ok := a.sym.SignalGetters[name]; ok {
			return true
		}
		return false
	}

	var walkExpr func(e ast.Expr)
	walkExpr = func(e ast.Expr) {
		switch n := e.Data.(type) {
		case *ast.EJSXExprContainer:
			a.checkUndeclaredExpr(n.Value, resolvable)
			walkExpr(n.Value)
		case *ast.EJSXElement:
			for _, attr := range n.Attrs {
				if attr.Attr != nil && attr.Attr.Value != nil {
					walkExpr(*attr.Attr.Value)
				}
				if attr.Spread != nil {
					walkExpr(attr.Spread.Value)
				}
			}
			for _, child := range n.Children {
				walkExpr(child)
			}
		case *ast.EJSXFragment:
			for _, child := range n.Children {
				walkExpr(child)
			}
		case *ast.ECall:
			walkExpr(n.Target)
			for _, arg := range n.Args {
				walkExpr(arg)
			}
		case *ast.EArrow:
			for _, p := range n.Params {
				for _, name := range collectBindingNames(p.Binding) {
					declared[name] = true
				}
			}
			if n.BodyExpr != nil {
				walkExpr(*n.BodyExpr)
			}
			walkStmtsForJSX(n.Body, walkExpr)
		case *ast.EBinary:
			walkExpr(n.Left)
			walkExpr(n.Right)
		case *ast.EConditional:
			walkExpr(n.Test)
			walkExpr(n.Yes)
			walkExpr(n.No)
		case *ast.EObject:
			for _, prop := range n.Properties {
				walkExpr(prop.Value)
			}
		case *ast.EArray:
			for _, item := range n.Items {
				walkExpr(item)
			}
		}
	}
	walkStmtsForJSX(body, walkExpr)
}

func walkStmtsForJSX(body []ast.Stmt, visit func(ast.Expr)) {
	for _, stmt := range body {
		switch s := stmt.Data.(type) {
		case *ast.SReturn:
			if s.Value != nil {
				visit(*s.Value)
			}
		case *ast.SExpr:
			visit(s.Value)
		case *ast.SVarDecl:
			for _, d := range s.Decls {
				if d.Init != nil {
					visit(*d.Init)
				}
			}
		case *ast.SIf:
			visit(s.Test)
			walkStmtsForJSX([]ast.Stmt{s.Yes}, visit)
			if s.No != nil {
				walkStmtsForJSX([]ast.Stmt{*s.No}, visit)
			}
		case *ast.SBlock:
			walkStmtsForJSX(s.Body, visit)
		case *ast.SFor:
			walkStmtsForJSX([]ast.Stmt{s.Body}, visit)
		case *ast.SForInOf:
			walkStmtsForJSX([]ast.Stmt{s.Body}, visit)
		case *ast.SWhile:
			walkStmtsForJSX([]ast.Stmt{s.Body}, visit)
		}
	}
}

// checkUndeclaredExpr reports the specific shape spec.md §8 names: a bare
// call whose callee identifier resolves to nothing known. A bare
// identifier with no call is left alone — it is far more likely to be a
// constant or prop destructured upstream than a typo.
func (a *Analyzer) checkUndeclaredExpr(e ast.Expr, resolvable func(string) bool) {
	call, ok := e.Data.(*ast.ECall)
	if !ok {
		return
	}
	ident, ok := call.Target.Data.(*ast.EIdentifier)
	if !ok {
		return
	}
	if !resolvable(ident.Name) {
		a.warnAt(e.Loc, "undeclared identifier %q", ident.Name)
	}
}

func collectDeclaredNames(body []ast.Stmt, out map[string]bool) {
	for _, stmt := range body {
		switch s := stmt.Data.(type) {
		case *ast.SVarDecl:
			for _, d := range s.Decls {
				for _, n := range collectBindingNames(d.Binding) {
					out[n] = true
				}
			}
		case *ast.SFunction:
			out[s.Name] = true
			collectDeclaredNames(s.Body, out)
		case *ast.SIf:
			collectDeclaredNames([]ast.Stmt{s.Yes}, out)
			if s.No != nil {
				collectDeclaredNames([]ast.Stmt{*s.No}, out)
			}
		case *ast.SBlock:
			collectDeclaredNames(s.Body, out)
		case *ast.SFor:
			if s.Init != nil {
				collectDeclaredNames([]ast.Stmt{*s.Init}, out)
			}
			collectDeclaredNames([]ast.Stmt{s.Body}, out)
		case *ast.SForInOf:
			for _, n := range collectBindingNames(s.Binding) {
				out[n] = true
			}
			collectDeclaredNames([]ast.Stmt{s.Body}, out)
		case *ast.SWhile:
			collectDeclaredNames([]ast.Stmt{s.Body}, out)
		case *ast.STry:
			collectDeclaredNames(s.Body, out)
			if s.Catch != nil {
				if s.Catch.Binding != nil {
					for _, n := range collectBindingNames(*s.Catch.Binding) {
						out[n] = true
					}
				}
				collectDeclaredNames(s.Catch.Body, out)
			}
			collectDeclaredNames(s.Finally, out)
		}
	}
}
