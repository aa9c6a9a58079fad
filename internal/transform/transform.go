// Package transform runs the four ordered IR-rewrite passes described in
// spec.md §4.4 over the analyzer's output: component wrapping, control-flow
// lowering, JSX lowering, and reactivity normalization. Passes mutate the
// ast.Expr/ast.Stmt nodes embedded in the IR in place and write to a
// shared importtrack.Tracker, matching the teacher's own preference for
// targeted in-place AST mangling (js_parser.go's visitExpr family) over
// rebuilding a parallel tree.
package transform

import (
	"fmt"

	"github.com/kythera-lang/kyc/internal/analyzer"
	"github.com/kythera-lang/kyc/internal/ast"
	"github.com/kythera-lang/kyc/internal/config"
	"github.com/kythera-lang/kyc/internal/importtrack"
	"github.com/kythera-lang/kyc/internal/ir"
	"github.com/kythera-lang/kyc/internal/logger"
)

type transformer struct {
	sym     *analyzer.SymbolTable
	tracker *importtrack.Tracker
	opts    config.Options
	source  logger.Source
	log     logger.Log
}

func (t *transformer) errorAt(loc ast.Loc, format string, args ...interface{}) {
	t.log.AddError(&t.source, loc, logger.PhaseTransform, fmt.Sprintf(format, args...))
}

// Run executes the four passes in spec.md §4.4 order over program and
// returns the rewritten IR plus any diagnostics. tracker accumulates every
// import the passes introduce or preserve; the caller hands the same
// tracker to the emitter afterward.
func Run(program ir.Program, sym *analyzer.SymbolTable, tracker *importtrack.Tracker, opts config.Options, source logger.Source, log logger.Log) (ir.Program, []logger.Msg) {
	var msgs []logger.Msg
	capturingLog := logger.Log{
		AddMsg:     func(m logger.Msg) { msgs = append(msgs, m); log.AddMsg(m) },
		HasErrors:  log.HasErrors,
		AlmostDone: log.AlmostDone,
		Done:       log.Done,
	}
	t := &transformer{sym: sym, tracker: tracker, opts: opts, source: source, log: capturingLog}

	seedImports(program, tracker)

	guard := newLoopGuard(opts.MaxIterations())
	t.runPass1(program)
	t.runPass2(program, guard)
	t.runPass3(program, guard)
	t.runPass4(program, guard)

	if guard.Tripped {
		t.errorAt(ast.Loc{}, "internal loop detected: exceeded %d tree-walk iterations", opts.MaxIterations())
		return ir.Program{}, msgs
	}

	return program, msgs
}

// seedImports records every original, non-type-only import verbatim
// except the dialect aliases Pass 4 supersedes with the runtime's own
// names (signal/computed/effect/useState) — recording both would leave a
// stale alias import alongside the renamed one.
func seedImports(program ir.Program, tracker *importtrack.Tracker) {
	superseded := map[string]bool{"signal": true, "computed": true, "effect": true, "useState": true}
	for _, node := range program.Body {
		imp, ok := node.(*ir.ImportIR)
		if !ok {
			continue
		}
		for _, spec := range imp.Specifiers {
			if spec.IsTypeOnly || superseded[spec.ImportedName] {
				continue
			}
			switch spec.Kind {
			case ast.ImportNamed:
				tracker.RecordNamed(imp.Source, spec.ImportedName, spec.LocalName)
			case ast.ImportDefault:
				tracker.RecordDefault(imp.Source, spec.LocalName)
			case ast.ImportNamespace:
				tracker.Record(imp.Source, importtrack.Specifier{Kind: importtrack.Namespace, LocalName: spec.LocalName})
			}
		}
	}
}
