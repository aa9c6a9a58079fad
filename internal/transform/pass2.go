package transform

import (
	"github.com/kythera-lang/kyc/internal/ast"
	"github.com/kythera-lang/kyc/internal/ir"
)

// runPass2 is spec.md §4.4 Pass 2 (control-flow lowering): a zero-arg
// signal-getter call in a control-flow component's structural attribute
// (`when` for Show, `each` for For/Index) is unwrapped to the bare
// getter, since the runtime re-invokes it itself as a dependency-tracked
// thunk rather than receiving an already-evaluated value.
func (t *transformer) runPass2(program ir.Program, guard *loopGuard) {
	visit := func(e *ast.Expr) {
		if !guard.tick() {
			return
		}
		elem, ok := e.Data.(*ast.EJSXElement)
		if !ok {
			return
		}
		kind, ok := t.sym.ClassifyControlFlowTag(elem.TagName)
		if !ok {
			return
		}
		attrName := structuralAttrFor(kind)
		if attrName == "" {
			return
		}
		for i := range elem.Attrs {
			attr := elem.Attrs[i].Attr
			if attr != nil && attr.Name == attrName && attr.Value != nil {
				t.unwrapGetterCall(attr.Value)
			}
		}
	}
	forEachBodyExpr(program, visit)
}

func structuralAttrFor(kind ir.ControlFlowKind) string {
	switch kind {
	case ir.ControlFlowShow:
		return "when"
	case ir.ControlFlowFor, ir.ControlFlowIndex:
		return "each"
	default:
		return ""
	}
}

// unwrapGetterCall handles the structural attribute of a control-flow
// element per spec.md §4.4 Pass 2. A bare zero-arg signal-getter call
// is unwrapped to the getter itself, since the runtime re-invokes it as
// a dependency-tracked thunk. Any other expression (a plain identifier,
// a boolean expression, a non-getter call) is instead wrapped in a
// zero-arg arrow, so the runtime always receives something it can call
// to re-derive the value reactively rather than an already-evaluated
// snapshot. Already-unwrapped getters and already-wrapped arrows fall
// through untouched, making the rewrite idempotent.
func (t *transformer) unwrapGetterCall(v *ast.Expr) {
	if _, ok := v.Data.(*ast.EArrow); ok {
		return
	}
	if call, ok := v.Data.(*ast.ECall); ok && len(call.Args) == 0 {
		if ident, ok := call.Target.Data.(*ast.EIdentifier); ok && t.sym.IsSignalGetter(ident.Name) {
			*v = call.Target
			return
		}
	}
	if ident, ok := v.Data.(*ast.EIdentifier); ok && t.sym.IsSignalGetter(ident.Name) {
		return
	}
	body := *v
	*v = ast.Expr{Data: &ast.EArrow{BodyExpr: &body}}
}
