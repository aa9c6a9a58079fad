package transform

import (
	"strings"

	"github.com/kythera-lang/kyc/internal/ast"
	"github.com/kythera-lang/kyc/internal/ir"
)

var reactiveRename = map[string]string{
	"signal":   "createSignal",
	"computed": "createMemo",
	"effect":   "createEffect",
}

// runPass4 is spec.md §4.4 Pass 4 (reactivity normalization): rename
// call sites whose callee is the dialect alias to the runtime's name and
// record the corresponding import. It runs last so the import tracker
// ends up holding only the names actually emitted.
func (t *transformer) runPass4(program ir.Program, guard *loopGuard) {
	visit := func(e *ast.Expr) {
		if !guard.tick() {
			return
		}
		call, ok := e.Data.(*ast.ECall)
		if !ok {
			return
		}
		ident, ok := call.Target.Data.(*ast.EIdentifier)
		if !ok {
			return
		}
		binding, hasImport := t.sym.Imports[ident.Name]
		resolvedName := ident.Name
		if hasImport {
			resolvedName = binding.ImportedName
		}

		if renamed, ok := reactiveRename[resolvedName]; ok {
			ident.Name = renamed
			t.tracker.RecordNamed(t.opts.Emitter.RuntimePaths.Core, renamed, renamed)
			return
		}

		if resolvedName == "useState" {
			source := t.opts.Emitter.RuntimePaths.Core
			if hasImport && strings.HasSuffix(binding.Source, "/hooks") {
				source = binding.Source
			}
			t.tracker.RecordNamed(source, "useState", "useState")
		}
	}
	forEachBodyExpr(program, visit)
}
