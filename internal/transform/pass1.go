package transform

import "github.com/kythera-lang/kyc/internal/ir"

// runPass1 is spec.md §4.4 Pass 1 (component wrapping): every top-level
// ComponentIR is marked Wrapped so the emitter produces
// $REGISTRY.execute(registryKey, () => { body }). Nested functions inside
// a component body are never visited here — only Program.Body's direct
// entries are components, matching "nested closures never receive
// component wrapping" (spec.md §3 invariants).
func (t *transformer) runPass1(program ir.Program) {
	for _, node := range program.Body {
		comp, ok := node.(*ir.ComponentIR)
		if !ok {
			continue
		}
		comp.Wrapped = true
		t.tracker.RecordNamed(t.opts.Emitter.RuntimePaths.Registry, "$REGISTRY", "$REGISTRY")
	}
}
