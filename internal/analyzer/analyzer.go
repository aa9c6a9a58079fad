// Package analyzer turns a parsed ast.Program into ir.Program: it
// resolves imports into a symbol table, classifies signal bindings,
// registers components with a stable registry key, tags call sites with
// the flags the transformer passes need, and normalizes destructured
// signal bindings so the emitter can reproduce them verbatim.
package analyzer

import (
	"fmt"

	"github.com/kythera-lang/kyc/internal/ast"
	"github.com/kythera-lang/kyc/internal/helpers"
	"github.com/kythera-lang/kyc/internal/ir"
	"github.com/kythera-lang/kyc/internal/logger"
)

// wellKnownSignalConstructors maps a runtime's exported name to the kind
// of binding it produces. Resolution goes through the imported name
// (spec.md §4.3 step 1: "classifiable by identity rather than name alone
// when possible"), not the local alias, so `import { signal as useSig }`
// still classifies correctly.
var wellKnownSignalConstructors = map[string]bool{
	"signal": true, "createSignal": true,
}

var wellKnownMemoConstructors = map[string]bool{
	"computed": true, "createMemo": true,
}

var wellKnownEffectConstructors = map[string]bool{
	"effect": true, "createEffect": true,
}

var wellKnownControlFlow = map[string]ir.ControlFlowKind{
	"Show": ir.ControlFlowShow, "ShowRegistry": ir.ControlFlowShow,
	"For": ir.ControlFlowFor, "ForRegistry": ir.ControlFlowFor,
	"Index": ir.ControlFlowIndex,
}

// ImportBinding records what a local name resolves to, resolved purely
// from the file's own import declarations — there is no cross-module
// resolution in this compiler (spec.md Non-goals).
type ImportBinding struct {
	Source       string
	ImportedName string
	Kind         ast.ImportKind
	IsTypeOnly   bool
}

// SymbolTable is exported so the transformer passes can reuse the exact
// same classification logic (spec.md §4.4 passes 2 and 4 both need to
// know whether an identifier names a signal getter or a control-flow
// component).
type SymbolTable struct {
	Imports map[string]ImportBinding
	// SignalGetters maps a local binding name to the paired setter name
	// (empty for a memo-form getter, which has no setter).
	SignalGetters map[string]string
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		Imports:       make(map[string]ImportBinding),
		SignalGetters: make(map[string]string),
	}
}

func (st *SymbolTable) resolvedImportName(localName string) (string, bool) {
	b, ok := st.Imports[localName]
	if !ok {
		return "", false
	}
	return b.ImportedName, true
}

// IsSignalGetter reports whether a bare identifier name was registered as
// a signal getter by a prior `const [get, set] = signal(...)` or
// `const get = computed(...)` declaration in this file.
func (st *SymbolTable) IsSignalGetter(name string) bool {
	_, ok := st.SignalGetters[name]
	return ok
}

// ClassifyControlFlowTag reports whether a JSX tag name resolves (through
// the import table) to a known control-flow component.
func (st *SymbolTable) ClassifyControlFlowTag(tagName string) (ir.ControlFlowKind, bool) {
	imported, ok := st.resolvedImportName(tagName)
	if !ok {
		// Not imported in this file; fall back to the raw tag name so
		// locally re-exported aliases of the same identifier still work.
		imported = tagName
	}
	kind, ok := wellKnownControlFlow[imported]
	return kind, ok
}

type Analyzer struct {
	log    logger.Log
	source logger.Source
	sym    *SymbolTable
}

// Analyze runs the full AST -> IR conversion described in spec.md §4.3 and
// returns the resulting program, the resolved symbol table (handed to the
// transformer so passes 2 and 4 can reuse its classification), and any
// diagnostics recorded along the way.
func Analyze(program ast.Program, source logger.Source, log logger.Log) (ir.Program, *SymbolTable, []logger.Msg) {
	var msgs []logger.Msg
	capturingLog := logger.Log{
		AddMsg:     func(m logger.Msg) { msgs = append(msgs, m); log.AddMsg(m) },
		HasErrors:  log.HasErrors,
		AlmostDone: log.AlmostDone,
		Done:       log.Done,
	}
	a := &Analyzer{log: capturingLog, source: source, sym: NewSymbolTable()}

	a.resolveImports(program.Body)
	a.checkDuplicateExports(program.Body)

	var out ir.Program
	for _, stmt := range program.Body {
		node := a.lowerStmt(stmt, false, false)
		if node != nil {
			out.Body = append(out.Body, node)
		}
	}
	return out, a.sym, msgs
}

// checkDuplicateExports reports a file exporting the same name twice,
// whether via two ExportDecl declarations or a named re-export colliding
// with one.
func (a *Analyzer) checkDuplicateExports(body []ast.Stmt) {
	seen := make(map[string]bool)
	var order []string
	mark := func(name string, loc ast.Loc) {
		if seen[name] {
			a.errorAt(loc, "duplicate export %q (already exported: %s)", name,
				helpers.StringArrayToQuotedCommaSeparatedString(order))
			return
		}
		seen[name] = true
		order = append(order, name)
	}
	for _, stmt := range body {
		exp, ok := stmt.Data.(*ast.SExport)
		if !ok {
			continue
		}
		switch exp.Kind {
		case ast.ExportDecl:
			if exp.Decl == nil {
				continue
			}
			if name, ok := declaredName(*exp.Decl); ok {
				mark(name, stmt.Loc)
			}
		case ast.ExportNamed:
			for _, spec := range exp.Specifiers {
				mark(spec.ExportedName, stmt.Loc)
			}
		}
	}
}

func declaredName(stmt ast.Stmt) (string, bool) {
	switch s := stmt.Data.(type) {
	case *ast.SComponent:
		return s.Name, true
	case *ast.SFunction:
		return s.Name, true
	case *ast.SInterface:
		return s.Name, true
	case *ast.STypeAlias:
		return s.Name, true
	case *ast.SEnum:
		return s.Name, true
	case *ast.SVarDecl:
		if len(s.Decls) == 1 && s.Decls[0].Binding.Kind == ast.BIdentifier {
			return s.Decls[0].Binding.Name, true
		}
		return "", false
	default:
		return "", false
	}
}

func (a *Analyzer) errorAt(loc ast.Loc, format string, args ...interface{}) {
	a.log.AddError(&a.source, loc, logger.PhaseAnalyzer, fmt.Sprintf(format, args...))
}

func (a *Analyzer) warnAt(loc ast.Loc, format string, args ...interface{}) {
	a.log.AddWarning(&a.source, loc, logger.PhaseAnalyzer, fmt.Sprintf(format, args...))
}

// ---- import resolution (step 1) ----

func (a *Analyzer) resolveImports(body []ast.Stmt) {
	for _, stmt := range body {
		imp, ok := stmt.Data.(*ast.SImport)
		if !ok {
			continue
		}
		for _, spec := range imp.Specifiers {
			if existing, dup := a.sym.Imports[spec.LocalName]; dup && existing.Source != imp.Source {
				a.warnAt(spec.Loc, "import %q shadows an existing binding from %q", spec.LocalName, existing.Source)
			}
			a.sym.Imports[spec.LocalName] = ImportBinding{
				Source:       imp.Source,
				ImportedName: spec.ImportedName,
				Kind:         spec.Kind,
				IsTypeOnly:   spec.IsTypeOnly,
			}
		}
	}
}

// ---- top-level statement lowering ----

func (a *Analyzer) lowerStmt(stmt ast.Stmt, isExported, isDefault bool) ir.Node {
	switch s := stmt.Data.(type) {
	case *ast.SImport:
		specs := make([]ir.ImportSpecifierIR, len(s.Specifiers))
		for i, spec := range s.Specifiers {
			specs[i] = ir.ImportSpecifierIR{Kind: spec.Kind, ImportedName: spec.ImportedName, LocalName: spec.LocalName, IsTypeOnly: spec.IsTypeOnly}
		}
		return &ir.ImportIR{Specifiers: specs, Source: s.Source, Loc: stmt.Loc}

	case *ast.SExport:
		if s.Decl != nil {
			return a.lowerStmt(*s.Decl, true, s.Kind == ast.ExportDefault)
		}
		return &ir.ExportIR{Kind: s.Kind, Specifiers: s.Specifiers, Source: s.Source, Loc: stmt.Loc}

	case *ast.SComponent:
		a.classifySignalBindingsInBody(s.Body)
		a.checkUndeclaredJSX(s.Params, s.Body)
		return &ir.ComponentIR{
			Name:        s.Name,
			RegistryKey: "component:" + s.Name,
			Params:      s.Params,
			Body:        s.Body,
			UsesSignals: a.bodyUsesSignals(s.Body),
			IsExported:  isExported,
			IsDefault:   isDefault,
			Loc:         stmt.Loc,
		}

	case *ast.SFunction:
		if isExported && a.looksLikeComponent(s) {
			a.classifySignalBindingsInBody(s.Body)
			a.checkUndeclaredJSX(s.Params, s.Body)
			return &ir.ComponentIR{
				Name:        s.Name,
				RegistryKey: "component:" + s.Name,
				Params:      s.Params,
				Body:        s.Body,
				UsesSignals: a.bodyUsesSignals(s.Body),
				IsExported:  isExported,
				IsDefault:   isDefault,
				Loc:         stmt.Loc,
			}
		}
		return &ir.FunctionIR{
			Name: s.Name, Params: s.Params, Body: s.Body,
			IsAsync: s.IsAsync, IsGen: s.IsGen,
			IsExported: isExported, IsDefault: isDefault,
			Loc: stmt.Loc,
		}

	case *ast.SVarDecl:
		return a.lowerVarDecl(s, stmt.Loc)

	default:
		return &ir.RawStmtIR{Stmt: stmt}
	}
}

// looksLikeComponent applies spec.md §4.3 step 3: an exported function is
// a component if its return type annotation reads HTMLElement/Element/
// Node (or a union containing them). Type spans are opaque lexeme text at
// this stage, so the check is textual.
func (a *Analyzer) looksLikeComponent(fn *ast.SFunction) bool {
	if fn.ReturnType == nil {
		return false
	}
	text := fn.ReturnType.Text
	return containsAny(text, "HTMLElement", "Element", "Node")
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if indexOf(haystack, n) >= 0 {
			return true
		}
	}
	return false
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}

// ---- signal classification (step 2) ----

// classifySignalBindingsInBody pre-scans the top-level statements of a
// component/function body so that a signal getter declared there is known
// by the time call-site tagging inspects later statements, matching the
// "enclosing scope" language in spec.md §4.3 step 2. Declarations inside
// nested blocks, loops or closures are not scanned.
func (a *Analyzer) classifySignalBindingsInBody(body []ast.Stmt) {
	for _, stmt := range body {
		if decl, ok := stmt.Data.(*ast.SVarDecl); ok {
			for _, d := range decl.Decls {
				a.classifyDeclarator(d)
			}
		}
	}
}

func (a *Analyzer) bodyUsesSignals(body []ast.Stmt) bool {
	for _, stmt := range body {
		if decl, ok := stmt.Data.(*ast.SVarDecl); ok {
			for _, d := range decl.Decls {
				if d.Init != nil && a.classifyCallKind(*d.Init) != kindPlain {
					return true
				}
			}
		}
	}
	return false
}

type callKind uint8

const (
	kindPlain callKind = iota
	kindSignalCreation
	kindMemoCreation
	kindEffect
)

func (a *Analyzer) classifyCallKind(e ast.Expr) callKind {
	call, ok := e.Data.(*ast.ECall)
	if !ok {
		return kindPlain
	}
	ident, ok := call.Target.Data.(*ast.EIdentifier)
	if !ok {
		return kindPlain
	}
	imported, hasImport := a.sym.resolvedImportName(ident.Name)
	name := ident.Name
	if hasImport {
		name = imported
	}
	switch {
	case wellKnownSignalConstructors[name]:
		return kindSignalCreation
	case wellKnownMemoConstructors[name]:
		return kindMemoCreation
	case wellKnownEffectConstructors[name]:
		return kindEffect
	default:
		return kindPlain
	}
}

func (a *Analyzer) classifyDeclarator(d ast.VarDeclarator) {
	if d.Init == nil {
		return
	}
	kind := a.classifyCallKind(*d.Init)
	switch kind {
	case kindSignalCreation:
		if d.Binding.Kind == ast.BArray && len(d.Binding.ArrayItems) == 2 {
			getter := d.Binding.ArrayItems[0].Target
			setter := d.Binding.ArrayItems[1].Target
			if getter.Kind == ast.BIdentifier && setter.Kind == ast.BIdentifier {
				a.sym.SignalGetters[getter.Name] = setter.Name
				return
			}
		}
		a.errorAt(d.Binding.Loc, "invalid signal binding: expected `const [getter, setter] = signal(...)`")
	case kindMemoCreation:
		if d.Binding.Kind == ast.BIdentifier {
			a.sym.SignalGetters[d.Binding.Name] = ""
		}
	}
}

// ---- variable declaration lowering (steps 2 and 5) ----

func (a *Analyzer) lowerVarDecl(s *ast.SVarDecl, loc ast.Loc) ir.Node {
	decls := make([]ir.VarDeclaratorIR, len(s.Decls))
	for i, d := range s.Decls {
		decls[i] = a.lowerDeclarator(d)
	}
	return &ir.VariableDeclarationIR{Kind: s.Kind, Decls: decls, Loc: loc}
}

func (a *Analyzer) lowerDeclarator(d ast.VarDeclarator) ir.VarDeclaratorIR {
	out := ir.VarDeclaratorIR{Binding: d.Binding}
	if d.Init == nil {
		return out
	}
	calls := make(map[*ast.ECall]*ir.CallFlags)
	a.tagCalls(*d.Init, calls)
	out.Init = &ir.ExprIR{Expr: *d.Init, Calls: calls}
	switch a.classifyCallKind(*d.Init) {
	case kindSignalCreation:
		if d.Binding.Kind == ast.BArray && len(d.Binding.ArrayItems) == 2 {
			out.Form = ir.BindingSignalPair
			out.SignalGetterName = d.Binding.ArrayItems[0].Target.Name
			out.SignalSetterName = d.Binding.ArrayItems[1].Target.Name
			out.DestructuringNames = []string{out.SignalGetterName, out.SignalSetterName}
		}
	case kindMemoCreation:
		if d.Binding.Kind == ast.BIdentifier {
			out.Form = ir.BindingMemo
			out.SignalGetterName = d.Binding.Name
		}
	}
	if d.Binding.Kind == ast.BObject || (d.Binding.Kind == ast.BArray && out.Form == ir.BindingPlain) {
		out.Form = ir.BindingDestructured
		out.DestructuringNames = collectBindingNames(d.Binding)
	}
	return out
}

func collectBindingNames(b ast.BindingTarget) []string {
	switch b.Kind {
	case ast.BIdentifier:
		return []string{b.Name}
	case ast.BArray:
		var names []string
		for _, item := range b.ArrayItems {
			names = append(names, collectBindingNames(item.Target)...)
		}
		return names
	case ast.BObject:
		var names []string
		for _, item := range b.ObjectItems {
			names = append(names, collectBindingNames(item.Target)...)
		}
		return names
	default:
		return nil
	}
}

// ---- call-site tagging (step 4) ----

// tagCalls walks an expression tree and records a CallFlags entry for
// every ast.ECall it finds, keyed by node identity so the transformer can
// look a call back up without re-deriving its classification.
func (a *Analyzer) tagCalls(e ast.Expr, out map[*ast.ECall]*ir.CallFlags) {
	switch n := e.Data.(type) {
	case *ast.ECall:
		flags := &ir.CallFlags{}
		if ident, ok := n.Target.Data.(*ast.EIdentifier); ok {
			switch a.classifyCallKind(e) {
			case kindSignalCreation:
				flags.IsSignalCreation = true
			case kindMemoCreation:
				flags.IsSignalCreation = true
			}
			if a.sym.IsSignalGetter(ident.Name) && len(n.Args) == 0 {
				flags.IsSignalGetter = true
			}
			if kind, ok := a.sym.ClassifyControlFlowTag(ident.Name); ok {
				flags.IsControlFlow = true
				flags.ControlFlowKind = kind
			}
		}
		out[n] = flags
		a.tagCalls(n.Target, out)
		for _, arg := range n.Args {
			a.tagCalls(arg, out)
		}

	case *ast.ENew:
		a.tagCalls(n.Target, out)
		for _, arg := range n.Args {
			a.tagCalls(arg, out)
		}

	case *ast.EDot:
		a.tagCalls(n.Target, out)

	case *ast.EIndex:
		a.tagCalls(n.Target, out)
		a.tagCalls(n.Index, out)

	case *ast.EUnary:
		a.tagCalls(n.Value, out)

	case *ast.EBinary:
		a.tagCalls(n.Left, out)
		a.tagCalls(n.Right, out)

	case *ast.EConditional:
		a.tagCalls(n.Test, out)
		a.tagCalls(n.Yes, out)
		a.tagCalls(n.No, out)

	case *ast.EArray:
		for _, item := range n.Items {
			a.tagCalls(item, out)
		}

	case *ast.EObject:
		for _, prop := range n.Properties {
			if prop.Kind != ast.PropertySpread {
				a.tagCalls(prop.Key, out)
			}
			a.tagCalls(prop.Value, out)
		}

	case *ast.ESpread:
		a.tagCalls(n.Value, out)

	case *ast.ETemplate:
		for _, expr := range n.Exprs {
			a.tagCalls(expr, out)
		}
		if n.Tag != nil {
			a.tagCalls(*n.Tag, out)
		}

	case *ast.EAwait:
		a.tagCalls(n.Value, out)

	case *ast.EYield:
		if n.Value != nil {
			a.tagCalls(*n.Value, out)
		}

	case *ast.EArrow:
		if n.BodyExpr != nil {
			a.tagCalls(*n.BodyExpr, out)
		}
		a.tagStmts(n.Body, out)

	case *ast.EFunctionExpr:
		a.tagStmts(n.Body, out)

	case *ast.EJSXElement:
		for _, attr := range n.Attrs {
			switch {
			case attr.Attr != nil && attr.Attr.Value != nil:
				a.tagCalls(*attr.Attr.Value, out)
			case attr.Spread != nil:
				a.tagCalls(attr.Spread.Value, out)
			}
		}
		for _, child := range n.Children {
			a.tagCalls(child, out)
		}

	case *ast.EJSXFragment:
		for _, child := range n.Children {
			a.tagCalls(child, out)
		}

	case *ast.EJSXExprContainer:
		a.tagCalls(n.Value, out)
	}
}

// tagStmts walks nested function/arrow bodies so a signal getter call
// inside a callback (e.g. an event handler passed as a JSX attribute) is
// tagged the same as one at the top level of a component.
func (a *Analyzer) tagStmts(body []ast.Stmt, out map[*ast.ECall]*ir.CallFlags) {
	for _, stmt := range body {
		switch s := stmt.Data.(type) {
		case *ast.SExpr:
			a.tagCalls(s.Value, out)
		case *ast.SVarDecl:
			for _, d := range s.Decls {
				if d.Init != nil {
					a.tagCalls(*d.Init, out)
				}
			}
		case *ast.SReturn:
			if s.Value != nil {
				a.tagCalls(*s.Value, out)
			}
		case *ast.SIf:
			a.tagCalls(s.Test, out)
			a.tagStmts([]ast.Stmt{s.Yes}, out)
			if s.No != nil {
				a.tagStmts([]ast.Stmt{*s.No}, out)
			}
		case *ast.SBlock:
			a.tagStmts(s.Body, out)
		case *ast.SFor:
			if s.Test != nil {
				a.tagCalls(*s.Test, out)
			}
			if s.Update != nil {
				a.tagCalls(*s.Update, out)
			}
			a.tagStmts([]ast.Stmt{s.Body}, out)
		case *ast.SForInOf:
			a.tagCalls(s.Value, out)
			a.tagStmts([]ast.Stmt{s.Body}, out)
		case *ast.SWhile:
			a.tagCalls(s.Test, out)
			a.tagStmts([]ast.Stmt{s.Body}, out)
		case *ast.SThrow:
			a.tagCalls(s.Value, out)
		case *ast.STry:
			a.tagStmts(s.Body, out)
			if s.Catch != nil {
				a.tagStmts(s.Catch.Body, out)
			}
			a.tagStmts(s.Finally, out)
		}
	}
}
