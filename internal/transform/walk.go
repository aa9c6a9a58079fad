package transform

import "github.com/kythera-lang/kyc/internal/ast"

// walkExpr visits every expression reachable from *e, post-order (children
// before parent), calling visit on the addressable slot so a pass can
// rewrite a node in place by assigning through the pointer. Passes 2 and
// 4 share this walker through forEachBodyExpr; Pass 1 does no tree walk,
// and Pass 3 uses its own keyed-context recursion (pass3.go).
func walkExpr(e *ast.Expr, visit func(*ast.Expr)) {
	if e == nil {
		return
	}
	switch n := e.Data.(type) {
	case *ast.ETemplate:
		for i := range n.Exprs {
			walkExpr(&n.Exprs[i], visit)
		}
		if n.Tag != nil {
			walkExpr(n.Tag, visit)
		}

	case *ast.EArray:
		for i := range n.Items {
			walkExpr(&n.Items[i], visit)
		}

	case *ast.EObject:
		for i := range n.Properties {
			if n.Properties[i].Kind != ast.PropertySpread {
				walkExpr(&n.Properties[i].Key, visit)
			}
			walkExpr(&n.Properties[i].Value, visit)
		}

	case *ast.ESpread:
		walkExpr(&n.Value, visit)

	case *ast.EUnary:
		walkExpr(&n.Value, visit)

	case *ast.EBinary:
		walkExpr(&n.Left, visit)
		walkExpr(&n.Right, visit)

	case *ast.EConditional:
		walkExpr(&n.Test, visit)
		walkExpr(&n.Yes, visit)
		walkExpr(&n.No, visit)

	case *ast.ECall:
		walkExpr(&n.Target, visit)
		for i := range n.Args {
			walkExpr(&n.Args[i], visit)
		}

	case *ast.ENew:
		walkExpr(&n.Target, visit)
		for i := range n.Args {
			walkExpr(&n.Args[i], visit)
		}

	case *ast.EDot:
		walkExpr(&n.Target, visit)

	case *ast.EIndex:
		walkExpr(&n.Target, visit)
		walkExpr(&n.Index, visit)

	case *ast.EArrow:
		walkStmts(n.Body, visit)
		if n.BodyExpr != nil {
			walkExpr(n.BodyExpr, visit)
		}

	case *ast.EFunctionExpr:
		walkStmts(n.Body, visit)

	case *ast.EAwait:
		walkExpr(&n.Value, visit)

	case *ast.EYield:
		if n.Value != nil {
			walkExpr(n.Value, visit)
		}

	case *ast.EJSXElement:
		for i := range n.Attrs {
			if n.Attrs[i].Attr != nil && n.Attrs[i].Attr.Value != nil {
				walkExpr(n.Attrs[i].Attr.Value, visit)
			}
			if n.Attrs[i].Spread != nil {
				walkExpr(&n.Attrs[i].Spread.Value, visit)
			}
		}
		for i := range n.Children {
			walkExpr(&n.Children[i], visit)
		}

	case *ast.EJSXFragment:
		for i := range n.Children {
			walkExpr(&n.Children[i], visit)
		}

	case *ast.EJSXExprContainer:
		walkExpr(&n.Value, visit)
	}

	visit(e)
}

// walkStmts visits every expression reachable from a statement list,
// recursing into nested blocks and control-flow bodies.
func walkStmts(body []ast.Stmt, visit func(*ast.Expr)) {
	for i := range body {
		walkStmt(&body[i], visit)
	}
}

func walkStmt(s *ast.Stmt, visit func(*ast.Expr)) {
	switch n := s.Data.(type) {
	case *ast.SVarDecl:
		for i := range n.Decls {
			if n.Decls[i].Init != nil {
				walkExpr(n.Decls[i].Init, visit)
			}
		}

	case *ast.SExpr:
		walkExpr(&n.Value, visit)

	case *ast.SReturn:
		if n.Value != nil {
			walkExpr(n.Value, visit)
		}

	case *ast.SThrow:
		walkExpr(&n.Value, visit)

	case *ast.SIf:
		walkExpr(&n.Test, visit)
		walkStmt(&n.Yes, visit)
		if n.No != nil {
			walkStmt(n.No, visit)
		}

	case *ast.SFor:
		if n.Init != nil {
			walkStmt(n.Init, visit)
		}
		if n.Test != nil {
			walkExpr(n.Test, visit)
		}
		if n.Update != nil {
			walkExpr(n.Update, visit)
		}
		walkStmt(&n.Body, visit)

	case *ast.SForInOf:
		walkExpr(&n.Value, visit)
		walkStmt(&n.Body, visit)

	case *ast.SWhile:
		walkExpr(&n.Test, visit)
		walkStmt(&n.Body, visit)

	case *ast.SBlock:
		walkStmts(n.Body, visit)

	case *ast.STry:
		walkStmts(n.Body, visit)
		if n.Catch != nil {
			walkStmts(n.Catch.Body, visit)
		}
		walkStmts(n.Finally, visit)
	}
}
