// Package ir defines the normalized tree the analyzer produces from the
// AST and the transformer passes rewrite in place. Where ast favors exact
// source shape, ir favors the facts downstream passes need pre-computed:
// which calls are signal getters, which declarations are components, what
// a JSX element's final children look like. Like ast, variants are
// encoded as tagged unions dispatched by type switch.
package ir

import "github.com/kythera-lang/kyc/internal/ast"

type Loc = ast.Loc

// Node is the closed set of top-level and nested IR statement-shaped
// constructs a pass may encounter while walking a Program.
type Node interface{ isNode() }

func (*ComponentIR) isNode()           {}
func (*FunctionIR) isNode()            {}
func (*VariableDeclarationIR) isNode() {}
func (*ImportIR) isNode()              {}
func (*ExportIR) isNode()              {}
func (*RawStmtIR) isNode()             {}

// Program is the root of one file's IR, produced once by the analyzer and
// threaded through all four transform passes before the emitter walks it.
type Program struct {
	Body []Node
}

// ComponentIR is the dialect's `component Name(...) {}` form (or an
// exported function declaration whose return type reads as an element
// type — see analyzer.looksLikeComponent). Exported arrow functions are
// not classified as components; they stay variable declarations.
// RegistryKey is stable for the whole compilation unit: "component:<Name>".
type ComponentIR struct {
	Name        string
	RegistryKey string
	Params      []ast.Param
	Body        []ast.Stmt
	UsesSignals bool
	IsExported  bool
	IsDefault   bool
	// Wrapped is set by transform Pass 1 (component wrapping); the emitter
	// only produces the $REGISTRY.execute(...) shape when this is true, so
	// re-running the pass twice on the same IR is a no-op (spec.md §8
	// idempotence).
	Wrapped bool
	Loc     Loc
}

// FunctionIR is an ordinary (non-component) function declaration that
// the analyzer did not classify as a component. It passes through
// the pipeline largely unmodified except for JSX appearing in its body.
type FunctionIR struct {
	Name       string
	Params     []ast.Param
	Body       []ast.Stmt
	IsAsync    bool
	IsGen      bool
	IsExported bool
	IsDefault  bool
	Loc        Loc
}

type BindingFormKind uint8

const (
	BindingPlain BindingFormKind = iota
	BindingSignalPair        // const [get, set] = signal(...)
	BindingMemo              // const get = computed(...)
	BindingDestructured      // preserved verbatim; emitter must not rename
)

// VariableDeclarationIR distinguishes signal creation from a plain
// binding so later passes can classify call sites without re-deriving the
// binding shape from the AST.
type VariableDeclarationIR struct {
	Kind ast.VarKind
	Decls []VarDeclaratorIR
	Loc  Loc
}

type VarDeclaratorIR struct {
	Binding ast.BindingTarget
	Init    *ExprIR

	Form               BindingFormKind
	SignalGetterName   string // set when Form == BindingSignalPair or BindingMemo
	SignalSetterName   string // set when Form == BindingSignalPair
	DestructuringNames []string
}

// ExprIR wraps an ast.Expr that the analyzer has annotated with
// call-site flags; transform passes mutate ast.Expr nodes in place (via
// Data) and consult the flags recorded alongside.
type ExprIR struct {
	Expr  ast.Expr
	Calls map[*ast.ECall]*CallFlags
}

// CallFlags records the analyzer's call-site tagging (spec.md §4.3 step
// 4). Looked up by the *ast.ECall pointer identity within one ExprIR.
type CallFlags struct {
	IsSignalCreation bool
	IsSignalGetter   bool
	IsControlFlow    bool
	ControlFlowKind  ControlFlowKind
}

type ControlFlowKind uint8

const (
	NotControlFlow ControlFlowKind = iota
	ControlFlowShow
	ControlFlowFor
	ControlFlowIndex
)

type ImportSpecifierIR struct {
	Kind       ast.ImportKind
	ImportedName string
	LocalName  string
	IsTypeOnly bool
}

type ImportIR struct {
	Specifiers []ImportSpecifierIR
	Source     string
	Loc        Loc
}

type ExportIR struct {
	Kind       ast.ExportKind
	Specifiers []ast.ExportSpecifier
	Source     *string
	Loc        Loc
}

// RawStmtIR carries any statement the analyzer does not need to normalize
// (control flow, blocks, type declarations already erased to nothing).
// Passes that need to find JSX inside these walk the embedded ast.Stmt.
type RawStmtIR struct {
	Stmt ast.Stmt
}

