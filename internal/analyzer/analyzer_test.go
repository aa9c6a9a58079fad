package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kythera-lang/kyc/internal/analyzer"
	"github.com/kythera-lang/kyc/internal/ir"
	"github.com/kythera-lang/kyc/internal/logger"
	"github.com/kythera-lang/kyc/internal/parser"
	"github.com/kythera-lang/kyc/internal/testutil"
)

func analyze(t *testing.T, contents string) (ir.Program, *analyzer.SymbolTable, []logger.Msg) {
	t.Helper()
	log, _ := testutil.CollectLog()
	source := testutil.SourceForTest(contents)
	program, parseMsgs := parser.Parse(log, source)
	require.Empty(t, parseMsgs)
	irProgram, sym, msgs := analyzer.Analyze(program, source, log)
	return irProgram, sym, msgs
}

func TestAnalyzeClassifiesSignalGetter(t *testing.T) {
	_, sym, msgs := analyze(t, `
export component Counter() {
  const [count, setCount] = signal(0);
  return <div>{count()}</div>;
}`)
	require.Empty(t, msgs)
	require.True(t, sym.IsSignalGetter("count"))
}

func TestAnalyzeRegistersComponentIR(t *testing.T) {
	out, _, msgs := analyze(t, `export component Greeter() { return <div>hi</div>; }`)
	require.Empty(t, msgs)
	require.Len(t, out.Body, 1)
	comp, ok := out.Body[0].(*ir.ComponentIR)
	require.True(t, ok)
	require.Equal(t, "component:Greeter", comp.RegistryKey)
}

func TestAnalyzeFlagsDuplicateExport(t *testing.T) {
	_, _, msgs := analyze(t, `
export function f() {}
export function f() {}`)
	require.NotEmpty(t, msgs)
	require.Equal(t, logger.Error, msgs[0].Kind)
}

func TestAnalyzeWarnsOnUndeclaredJSXCall(t *testing.T) {
	_, _, msgs := analyze(t, `
export component Weird() {
  return <div>{missing()}</div>;
}`)
	require.Len(t, msgs, 1)
	require.Equal(t, logger.Warning, msgs[0].Kind)
}

func TestAnalyzeResolvesImportedControlFlowAlias(t *testing.T) {
	out, sym, msgs := analyze(t, `
import { Show as Cond } from "kythera/control-flow";
export component Panel() {
  const [open, setOpen] = signal(false);
  return <Cond when={open()}><div>shown</div></Cond>;
}`)
	require.Empty(t, msgs)
	kind, ok := sym.ClassifyControlFlowTag("Cond")
	require.True(t, ok)
	require.Equal(t, ir.ControlFlowShow, kind)
	require.Len(t, out.Body, 2)
}
