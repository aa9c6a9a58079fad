package printer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kythera-lang/kyc/internal/analyzer"
	"github.com/kythera-lang/kyc/internal/config"
	"github.com/kythera-lang/kyc/internal/importtrack"
	"github.com/kythera-lang/kyc/internal/logger"
	"github.com/kythera-lang/kyc/internal/parser"
	"github.com/kythera-lang/kyc/internal/printer"
	"github.com/kythera-lang/kyc/internal/testutil"
	"github.com/kythera-lang/kyc/internal/transform"
)

// expectPrinted runs the full pipeline (parse, analyze, transform, print)
// and asserts the emitted text matches expected exactly, the way the
// teacher's own expectPrinted drives its printer tests end to end rather
// than constructing an IR by hand.
func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	log, msgs := testutil.CollectLog()
	source := testutil.SourceForTest(contents)

	program, parseMsgs := parser.Parse(log, source)
	require.Empty(t, parseMsgs)

	irProgram, sym, analyzeMsgs := analyzer.Analyze(program, source, log)
	require.Empty(t, analyzeMsgs)

	tracker := importtrack.New()
	opts := config.Default()
	irProgram, transformMsgs := transform.Run(irProgram, sym, tracker, opts, source, log)
	require.Empty(t, transformMsgs)

	out, printMsgs := printer.Print(irProgram, tracker, printer.Options{
		Indent:           opts.Emitter.Indent,
		ASCIISafe:        opts.Emitter.ASCIISafe,
		DialectExtension: opts.DialectExtension,
	}, source, log)
	require.Empty(t, printMsgs)
	require.Empty(t, *msgs)

	require.Equal(t, expected, string(out))
}

func TestPrintPlainFunction(t *testing.T) {
	expectPrinted(t,
		`export function add(a, b) { return a + b; }`,
		"export function add(a, b) {\n  return a + b;\n}\n",
	)
}

func TestPrintSignalRename(t *testing.T) {
	expectPrinted(t,
		`import { signal } from "kythera/reactive";
const [count, setCount] = signal(0);`,
		"import { createSignal } from 'kythera/runtime';\n\n"+
			"const [count, setCount] = createSignal(0);\n",
	)
}

func TestPrintComponentWrapping(t *testing.T) {
	expectPrinted(t,
		`export component Greeter() {
  return <div>hi</div>;
}`,
		"import { $REGISTRY, t_element } from 'kythera/runtime';\n\n"+
			"export function Greeter() {\n"+
			"  return $REGISTRY.execute('component:Greeter', () => {\n"+
			"    return t_element('div', {}, ['hi']);\n"+
			"  });\n"+
			"}\n",
	)
}

func TestPrintShowUnwrapsGetter(t *testing.T) {
	expectPrinted(t,
		`import { signal } from "kythera/reactive";
export component Panel() {
  const [open, setOpen] = signal(false);
  return <Show when={open()}><div>shown</div></Show>;
}`,
		"import { $REGISTRY, createSignal, t_element } from 'kythera/runtime';\n\n"+
			"export function Panel() {\n"+
			"  return $REGISTRY.execute('component:Panel', () => {\n"+
			"    const [open, setOpen] = createSignal(false);\n"+
			"    return t_element(Show, { when: open }, [t_element('div', {}, ['shown'])]);\n"+
			"  });\n"+
			"}\n",
	)
}

// TestPrintShowWrapsPlainExpressionWhen exercises spec.md §4.4 Pass 2's
// second branch: a structural attribute that is not itself a zero-arg
// signal-getter call (here, a bare parameter reference) is wrapped in a
// zero-arg arrow instead of being passed through eagerly evaluated.
func TestPrintShowWrapsPlainExpressionWhen(t *testing.T) {
	expectPrinted(t,
		`export component Panel({ isOpen }) {
  return <Show when={isOpen}><div>shown</div></Show>;
}`,
		"import { $REGISTRY, t_element } from 'kythera/runtime';\n\n"+
			"export function Panel({ isOpen }) {\n"+
			"  return $REGISTRY.execute('component:Panel', () => {\n"+
			"    return t_element(Show, { when: () => isOpen }, [t_element('div', {}, ['shown'])]);\n"+
			"  });\n"+
			"}\n",
	)
}

// TestPrintShowFallbackIsWrappedAsProducer exercises spec.md §4.4's
// "fallback attribute is treated as a child producer": Show's fallback
// value is lowered like any other JSX child, then deferred behind a
// zero-arg arrow so the runtime only builds it when actually shown.
func TestPrintShowFallbackIsWrappedAsProducer(t *testing.T) {
	expectPrinted(t,
		`import { signal } from "kythera/reactive";
export component Panel() {
  const [open, setOpen] = signal(false);
  return <Show when={open()} fallback={<span>none</span>}><div>shown</div></Show>;
}`,
		"import { $REGISTRY, createSignal, t_element } from 'kythera/runtime';\n\n"+
			"export function Panel() {\n"+
			"  return $REGISTRY.execute('component:Panel', () => {\n"+
			"    const [open, setOpen] = createSignal(false);\n"+
			"    return t_element(Show, { when: open, fallback: () => t_element('span', {}, ['none']) }, [t_element('div', {}, ['shown'])]);\n"+
			"  });\n"+
			"}\n",
	)
}
