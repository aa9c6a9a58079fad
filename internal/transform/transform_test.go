package transform_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kythera-lang/kyc/internal/analyzer"
	"github.com/kythera-lang/kyc/internal/ast"
	"github.com/kythera-lang/kyc/internal/config"
	"github.com/kythera-lang/kyc/internal/helpers"
	"github.com/kythera-lang/kyc/internal/importtrack"
	"github.com/kythera-lang/kyc/internal/ir"
	"github.com/kythera-lang/kyc/internal/logger"
	"github.com/kythera-lang/kyc/internal/parser"
	"github.com/kythera-lang/kyc/internal/testutil"
	"github.com/kythera-lang/kyc/internal/transform"
)

func buildIR(t *testing.T, contents string) (ir.Program, *analyzer.SymbolTable, logger.Source, logger.Log) {
	t.Helper()
	log, msgs := testutil.CollectLog()
	source := testutil.SourceForTest(contents)
	program, parseMsgs := parser.Parse(log, source)
	require.Empty(t, parseMsgs)
	irProgram, sym, analyzeMsgs := analyzer.Analyze(program, source, log)
	require.Empty(t, analyzeMsgs)
	require.Empty(t, *msgs)
	return irProgram, sym, source, log
}

func trackedNames(tracker *importtrack.Tracker, dialectExt string) []string {
	var names []string
	for _, src := range tracker.Finalize(dialectExt) {
		names = append(names, src.Defaults...)
		names = append(names, src.Namespaces...)
		for _, n := range src.Named {
			names = append(names, n.ImportedName)
		}
	}
	return names
}

func TestTransformWrapsComponentAndRecordsRegistryImport(t *testing.T) {
	irProgram, sym, source, log := buildIR(t, `export component Greeter() { return <div>hi</div>; }`)
	tracker := importtrack.New()
	opts := config.Default()

	out, msgs := transform.Run(irProgram, sym, tracker, opts, source, log)
	require.Empty(t, msgs)

	comp := out.Body[0].(*ir.ComponentIR)
	require.True(t, comp.Wrapped)

	names := trackedNames(tracker, opts.DialectExtension)
	require.Contains(t, names, "$REGISTRY")
	require.Contains(t, names, "t_element")
}

func TestTransformUnwrapsShowGetterAndLowersJSX(t *testing.T) {
	irProgram, sym, source, log := buildIR(t, `
export component Panel() {
  const [open, setOpen] = signal(false);
  return <Show when={open()}><div>shown</div></Show>;
}`)
	tracker := importtrack.New()
	opts := config.Default()
	out, msgs := transform.Run(irProgram, sym, tracker, opts, source, log)
	require.Empty(t, msgs)

	// Pass 3 turned the returned <Show> into t_element(Show, props, children),
	// and Pass 2 left `when` as the bare getter `open` rather than `open()`.
	comp := out.Body[0].(*ir.ComponentIR)
	ret := comp.Body[1].Data.(*ast.SReturn)
	call := ret.Value.Data.(*ast.ECall)
	require.Equal(t, "t_element", call.Target.Data.(*ast.EIdentifier).Name)
	props := call.Args[1].Data.(*ast.EObject)
	require.Equal(t, "open", props.Properties[0].Value.Data.(*ast.EIdentifier).Name)

	names := trackedNames(tracker, opts.DialectExtension)
	require.Contains(t, names, "createSignal")
}

// TestTransformPassesAreIdempotent exercises spec.md §8's idempotence
// property directly: running the full pass pipeline twice over the IR
// produces the same import surface both times (re-running Pass 1's
// wrapping, Pass 2's unwrap, and Pass 4's rename all no-op on
// already-transformed IR).
func TestTransformPassesAreIdempotent(t *testing.T) {
	irProgram, sym, source, log := buildIR(t, `
export component Counter() {
  const [c, setC] = signal(0);
  return <button onClick={() => setC(c()+1)}>{c()}</button>;
}`)
	opts := config.Default()

	firstTracker := importtrack.New()
	out, msgs := transform.Run(irProgram, sym, firstTracker, opts, source, log)
	require.Empty(t, msgs)
	firstNames := trackedNames(firstTracker, opts.DialectExtension)

	secondTracker := importtrack.New()
	_, msgs = transform.Run(out, sym, secondTracker, opts, source, log)
	require.Empty(t, msgs)
	secondNames := trackedNames(secondTracker, opts.DialectExtension)

	require.True(t, helpers.StringArraysEqual(firstNames, secondNames),
		"expected %v to equal %v after a second pass run", secondNames, firstNames)
}
