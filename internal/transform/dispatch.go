package transform

import (
	"github.com/kythera-lang/kyc/internal/ast"
	"github.com/kythera-lang/kyc/internal/ir"
)

// forEachBodyExpr calls visit, via the shared post-order walker in
// walk.go, on every expression reachable from each top-level
// declaration's body. Passes 2 and 4 share this entry point; Pass 3 uses
// its own keyed-context walker over the same set of bodies (pass3.go).
func forEachBodyExpr(program ir.Program, visit func(*ast.Expr)) {
	for _, node := range program.Body {
		switch n := node.(type) {
		case *ir.ComponentIR:
			walkStmts(n.Body, visit)
		case *ir.FunctionIR:
			walkStmts(n.Body, visit)
		case *ir.VariableDeclarationIR:
			for i := range n.Decls {
				if n.Decls[i].Init != nil {
					walkExpr(&n.Decls[i].Init.Expr, visit)
				}
			}
		case *ir.RawStmtIR:
			stmt := n.Stmt
			walkStmt(&stmt, visit)
		}
	}
}
