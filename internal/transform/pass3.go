package transform

import (
	"strings"

	"github.com/kythera-lang/kyc/internal/ast"
	"github.com/kythera-lang/kyc/internal/ir"
)

// runPass3 is spec.md §4.4 Pass 3 (JSX lowering): every JSX element or
// fragment becomes a `t_element(tag, props, children)` call. It walks its
// own recursion (rather than the shared walkExpr in walk.go) because it
// needs pre-order context — whether the current subtree sits directly
// inside a For/Index render function, which narrows prop-key handling —
// in addition to the usual post-order child-before-parent rewrite.
func (t *transformer) runPass3(program ir.Program, guard *loopGuard) {
	for _, node := range program.Body {
		switch n := node.(type) {
		case *ir.ComponentIR:
			t.lowerStmtsJSX(n.Body, false, guard)
		case *ir.FunctionIR:
			t.lowerStmtsJSX(n.Body, false, guard)
		case *ir.VariableDeclarationIR:
			for i := range n.Decls {
				if n.Decls[i].Init != nil {
					t.lowerExprJSX(&n.Decls[i].Init.Expr, false, guard)
				}
			}
		case *ir.RawStmtIR:
			stmt := n.Stmt
			t.lowerStmtJSX(&stmt, false, guard)
		}
	}
}

func (t *transformer) lowerStmtsJSX(body []ast.Stmt, keyed bool, guard *loopGuard) {
	for i := range body {
		t.lowerStmtJSX(&body[i], keyed, guard)
	}
}

func (t *transformer) lowerStmtJSX(s *ast.Stmt, keyed bool, guard *loopGuard) {
	if !guard.tick() {
		return
	}
	switch n := s.Data.(type) {
	case *ast.SVarDecl:
		for i := range n.Decls {
			if n.Decls[i].Init != nil {
				t.lowerExprJSX(n.Decls[i].Init, keyed, guard)
			}
		}
	case *ast.SExpr:
		t.lowerExprJSX(&n.Value, keyed, guard)
	case *ast.SReturn:
		if n.Value != nil {
			t.lowerExprJSX(n.Value, keyed, guard)
		}
	case *ast.SThrow:
		t.lowerExprJSX(&n.Value, keyed, guard)
	case *ast.SIf:
		t.lowerExprJSX(&n.Test, keyed, guard)
		t.lowerStmtJSX(&n.Yes, keyed, guard)
		if n.No != nil {
			t.lowerStmtJSX(n.No, keyed, guard)
		}
	case *ast.SFor:
		if n.Init != nil {
			t.lowerStmtJSX(n.Init, keyed, guard)
		}
		if n.Test != nil {
			t.lowerExprJSX(n.Test, keyed, guard)
		}
		if n.Update != nil {
			t.lowerExprJSX(n.Update, keyed, guard)
		}
		t.lowerStmtJSX(&n.Body, keyed, guard)
	case *ast.SForInOf:
		t.lowerExprJSX(&n.Value, keyed, guard)
		t.lowerStmtJSX(&n.Body, keyed, guard)
	case *ast.SWhile:
		t.lowerExprJSX(&n.Test, keyed, guard)
		t.lowerStmtJSX(&n.Body, keyed, guard)
	case *ast.SBlock:
		t.lowerStmtsJSX(n.Body, keyed, guard)
	case *ast.STry:
		t.lowerStmtsJSX(n.Body, keyed, guard)
		if n.Catch != nil {
			t.lowerStmtsJSX(n.Catch.Body, keyed, guard)
		}
		t.lowerStmtsJSX(n.Finally, keyed, guard)
	}
}

func (t *transformer) lowerExprJSX(e *ast.Expr, keyed bool, guard *loopGuard) {
	if !guard.tick() {
		return
	}
	switch n := e.Data.(type) {
	case *ast.EJSXElement:
		t.lowerJSXElement(e, n, keyed, guard)
		return

	case *ast.EJSXFragment:
		t.lowerJSXFragment(e, n, keyed, guard)
		return

	case *ast.EJSXExprContainer:
		t.lowerExprJSX(&n.Value, keyed, guard)
		if t.isDeferredTextBinding(n.Value) {
			*e = t.buildDeferredTextBinding(n.Value)
		} else {
			*e = n.Value
		}
		return

	case *ast.ETemplate:
		for i := range n.Exprs {
			t.lowerExprJSX(&n.Exprs[i], keyed, guard)
		}
		if n.Tag != nil {
			t.lowerExprJSX(n.Tag, keyed, guard)
		}
	case *ast.EArray:
		for i := range n.Items {
			t.lowerExprJSX(&n.Items[i], keyed, guard)
		}
	case *ast.EObject:
		for i := range n.Properties {
			if n.Properties[i].Kind != ast.PropertySpread {
				t.lowerExprJSX(&n.Properties[i].Key, keyed, guard)
			}
			t.lowerExprJSX(&n.Properties[i].Value, keyed, guard)
		}
	case *ast.ESpread:
		t.lowerExprJSX(&n.Value, keyed, guard)
	case *ast.EUnary:
		t.lowerExprJSX(&n.Value, keyed, guard)
	case *ast.EBinary:
		t.lowerExprJSX(&n.Left, keyed, guard)
		t.lowerExprJSX(&n.Right, keyed, guard)
	case *ast.EConditional:
		t.lowerExprJSX(&n.Test, keyed, guard)
		t.lowerExprJSX(&n.Yes, keyed, guard)
		t.lowerExprJSX(&n.No, keyed, guard)
	case *ast.ECall:
		t.lowerExprJSX(&n.Target, keyed, guard)
		for i := range n.Args {
			t.lowerExprJSX(&n.Args[i], keyed, guard)
		}
	case *ast.ENew:
		t.lowerExprJSX(&n.Target, keyed, guard)
		for i := range n.Args {
			t.lowerExprJSX(&n.Args[i], keyed, guard)
		}
	case *ast.EDot:
		t.lowerExprJSX(&n.Target, keyed, guard)
	case *ast.EIndex:
		t.lowerExprJSX(&n.Target, keyed, guard)
		t.lowerExprJSX(&n.Index, keyed, guard)
	case *ast.EArrow:
		t.lowerStmtsJSX(n.Body, keyed, guard)
		if n.BodyExpr != nil {
			t.lowerExprJSX(n.BodyExpr, keyed, guard)
		}
	case *ast.EFunctionExpr:
		t.lowerStmtsJSX(n.Body, keyed, guard)
	case *ast.EAwait:
		t.lowerExprJSX(&n.Value, keyed, guard)
	case *ast.EYield:
		if n.Value != nil {
			t.lowerExprJSX(n.Value, keyed, guard)
		}
	}
}

func (t *transformer) lowerJSXElement(e *ast.Expr, n *ast.EJSXElement, keyed bool, guard *loopGuard) {
	kind, isControlFlow := t.sym.ClassifyControlFlowTag(n.TagName)
	childKeyed := isControlFlow && (kind == ir.ControlFlowFor || kind == ir.ControlFlowIndex)

	for i := range n.Attrs {
		if n.Attrs[i].Attr != nil && n.Attrs[i].Attr.Value != nil {
			t.lowerExprJSX(n.Attrs[i].Attr.Value, keyed, guard)
		}
		if n.Attrs[i].Spread != nil {
			t.lowerExprJSX(&n.Attrs[i].Spread.Value, keyed, guard)
		}
	}
	for i := range n.Children {
		t.lowerExprJSX(&n.Children[i], childKeyed, guard)
	}

	tagExpr := t.buildTagExpr(n.TagName, n.TagIsMember)
	isShow := isControlFlow && kind == ir.ControlFlowShow
	propsExpr := t.buildPropsObject(n.Attrs, keyed, isShow)
	childrenExpr := t.buildChildrenArray(n.Children)

	*e = ast.Expr{Data: &ast.ECall{
		Target: ast.Expr{Data: &ast.EIdentifier{Name: "t_element"}},
		Args:   []ast.Expr{tagExpr, propsExpr, childrenExpr},
	}, Loc: e.Loc}
	t.tracker.RecordNamed(t.opts.Emitter.RuntimePaths.Core, "t_element", "t_element")
}

func (t *transformer) lowerJSXFragment(e *ast.Expr, n *ast.EJSXFragment, keyed bool, guard *loopGuard) {
	for i := range n.Children {
		t.lowerExprJSX(&n.Children[i], keyed, guard)
	}
	childrenExpr := t.buildChildrenArray(n.Children)

	*e = ast.Expr{Data: &ast.ECall{
		Target: ast.Expr{Data: &ast.EIdentifier{Name: "t_element"}},
		Args: []ast.Expr{
			{Data: &ast.EIdentifier{Name: "$Fragment"}},
			{Data: &ast.ENull{}},
			childrenExpr,
		},
	}, Loc: e.Loc}
	t.tracker.RecordNamed(t.opts.Emitter.RuntimePaths.Core, "t_element", "t_element")
	t.tracker.RecordNamed(t.opts.Emitter.RuntimePaths.Registry, "$Fragment", "$Fragment")
}

// buildTagExpr turns a JSX tag's raw lexeme text into the expression the
// emitter will print as the first t_element argument: a string literal
// for an intrinsic (lowercase) tag, an identifier/member-expression chain
// for a component reference.
func (t *transformer) buildTagExpr(tagName string, isMember bool) ast.Expr {
	if !isMember && len(tagName) > 0 && tagName[0] >= 'a' && tagName[0] <= 'z' {
		return ast.Expr{Data: &ast.EString{Value: tagName}}
	}
	parts := strings.Split(tagName, ".")
	expr := ast.Expr{Data: &ast.EIdentifier{Name: parts[0]}}
	for _, p := range parts[1:] {
		expr = ast.Expr{Data: &ast.EDot{Target: expr, Name: p}}
	}
	return expr
}

// buildPropsObject builds the second t_element argument, preserving
// source attribute order (spec.md §4.5: "observable property order
// matters for the runtime"). A `key` attribute is omitted when this
// element is the direct JSX produced by a For/Index render function — the
// runtime keys list items separately from their props. Show's `fallback`
// attribute is treated as a child producer (spec.md §4.4 Pass 2): its
// value is wrapped in a zero-arg arrow so the runtime only constructs the
// fallback tree when it actually needs to render it, instead of eagerly
// building both branches on every call.
func (t *transformer) buildPropsObject(attrs []ast.JSXAttrOrSpread, keyed bool, isShow bool) ast.Expr {
	var props []ast.Property
	for _, a := range attrs {
		switch {
		case a.Spread != nil:
			props = append(props, ast.Property{Kind: ast.PropertySpread, Value: a.Spread.Value})
		case a.Attr != nil:
			if keyed && a.Attr.Name == "key" {
				continue
			}
			value := ast.Expr{Data: &ast.EBoolean{Value: true}}
			if a.Attr.Value != nil {
				value = *a.Attr.Value
			}
			switch {
			case a.Attr.Name == "style":
				value = t.wrapReactiveStyleProps(value)
			case isShow && a.Attr.Name == "fallback":
				value = wrapProducer(value)
			}
			props = append(props, ast.Property{
				Kind:  ast.PropertyNormal,
				Key:   ast.Expr{Data: &ast.EString{Value: a.Attr.Name}},
				Value: value,
			})
		}
	}
	return ast.Expr{Data: &ast.EObject{Properties: props}}
}

// wrapProducer wraps an already-lowered expression in a zero-arg arrow,
// deferring its evaluation to the runtime's call site. Already-wrapped
// values fall through untouched, making the rewrite idempotent.
func wrapProducer(v ast.Expr) ast.Expr {
	if _, ok := v.Data.(*ast.EArrow); ok {
		return v
	}
	return ast.Expr{Data: &ast.EArrow{BodyExpr: &v}}
}

// wrapReactiveStyleProps defers each style property value that is itself
// reactive (a zero-arg signal-getter call, or a template literal with
// interpolations) behind a zero-arg arrow, per spec.md §4.4 Pass 3.
func (t *transformer) wrapReactiveStyleProps(style ast.Expr) ast.Expr {
	obj, ok := style.Data.(*ast.EObject)
	if !ok {
		return style
	}
	out := make([]ast.Property, len(obj.Properties))
	for i, prop := range obj.Properties {
		out[i] = prop
		if prop.Kind == ast.PropertySpread {
			continue
		}
		if t.isReactiveStyleValue(prop.Value) {
			v := prop.Value
			out[i].Value = ast.Expr{Data: &ast.EArrow{BodyExpr: &v}}
		}
	}
	return ast.Expr{Data: &ast.EObject{Properties: out}}
}

func (t *transformer) isReactiveStyleValue(v ast.Expr) bool {
	if call, ok := v.Data.(*ast.ECall); ok && len(call.Args) == 0 {
		if ident, ok := call.Target.Data.(*ast.EIdentifier); ok && t.sym.IsSignalGetter(ident.Name) {
			return true
		}
	}
	if tmpl, ok := v.Data.(*ast.ETemplate); ok && len(tmpl.Exprs) > 0 {
		return true
	}
	return false
}

// isDeferredTextBinding reports whether a JSX expression container's
// payload is exactly a zero-arg signal-getter call — the one shape that
// becomes a $REGISTRY.wire(...) text binding rather than a plain value.
func (t *transformer) isDeferredTextBinding(v ast.Expr) bool {
	call, ok := v.Data.(*ast.ECall)
	if !ok || len(call.Args) != 0 {
		return false
	}
	ident, ok := call.Target.Data.(*ast.EIdentifier)
	return ok && t.sym.IsSignalGetter(ident.Name)
}

// buildDeferredTextBinding produces the IIFE from spec.md §4.4 Pass 3:
// (() => { const t = document.createTextNode(''); $REGISTRY.wire(t,
// 'textContent', () => getter()); return t; })()
func (t *transformer) buildDeferredTextBinding(getterCall ast.Expr) ast.Expr {
	t.tracker.RecordNamed(t.opts.Emitter.RuntimePaths.Registry, "$REGISTRY", "$REGISTRY")

	textNodeDecl := ast.Stmt{Data: &ast.SVarDecl{
		Kind: ast.VarConst,
		Decls: []ast.VarDeclarator{{
			Binding: ast.BindingTarget{Kind: ast.BIdentifier, Name: "t"},
			Init: &ast.Expr{Data: &ast.ECall{
				Target: ast.Expr{Data: &ast.EDot{Target: ast.Expr{Data: &ast.EIdentifier{Name: "document"}}, Name: "createTextNode"}},
				Args:   []ast.Expr{{Data: &ast.EString{Value: ""}}},
			}},
		}},
	}}

	wireCall := ast.Stmt{Data: &ast.SExpr{Value: ast.Expr{Data: &ast.ECall{
		Target: ast.Expr{Data: &ast.EDot{Target: ast.Expr{Data: &ast.EIdentifier{Name: "$REGISTRY"}}, Name: "wire"}},
		Args: []ast.Expr{
			{Data: &ast.EIdentifier{Name: "t"}},
			{Data: &ast.EString{Value: "textContent"}},
			{Data: &ast.EArrow{BodyExpr: &getterCall}},
		},
	}}}}

	ret := ast.Stmt{Data: &ast.SReturn{Value: &ast.Expr{Data: &ast.EIdentifier{Name: "t"}}}}

	iife := ast.Expr{Data: &ast.EArrow{Body: []ast.Stmt{textNodeDecl, wireCall, ret}}}
	return ast.Expr{Data: &ast.ECall{Target: iife}}
}

// buildChildrenArray coalesces adjacent JsxText children per spec.md
// §4.4 Pass 3's whitespace rule and returns the third t_element argument.
func (t *transformer) buildChildrenArray(children []ast.Expr) ast.Expr {
	var items []ast.Expr
	var pendingText strings.Builder
	hasPending := false

	flush := func() {
		if !hasPending {
			return
		}
		if text, keep := normalizeJSXText(pendingText.String()); keep {
			items = append(items, ast.Expr{Data: &ast.EString{Value: text}})
		}
		pendingText.Reset()
		hasPending = false
	}

	for _, child := range children {
		if text, ok := child.Data.(*ast.EJSXText); ok {
			pendingText.WriteString(text.Value)
			hasPending = true
			continue
		}
		flush()
		items = append(items, child)
	}
	flush()

	return ast.Expr{Data: &ast.EArray{Items: items}}
}

// normalizeJSXText applies spec.md §4.4's rule: keep a single space for
// whitespace bridging inline siblings on one logical line, drop
// pure-whitespace text that spans a newline, and collapse internal
// whitespace runs in any text with real content.
func normalizeJSXText(s string) (string, bool) {
	if strings.TrimSpace(s) == "" {
		if strings.ContainsAny(s, "\n\r") {
			return "", false
		}
		if s == "" {
			return "", false
		}
		return " ", true
	}
	fields := strings.Fields(s)
	collapsed := strings.Join(fields, " ")
	if len(s) > 0 && isSpace(rune(s[0])) {
		collapsed = " " + collapsed
	}
	if len(s) > 0 && isSpace(rune(s[len(s)-1])) {
		collapsed = collapsed + " "
	}
	return collapsed, true
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
