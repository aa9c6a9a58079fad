package api_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kythera-lang/kyc/pkg/api"
)

// These six scenarios are spec.md §8's own worked examples: literal
// inputs paired with observable facts about the emitted output, rather
// than full golden-file equality (the printer package's tests already
// cover exact-output assertions at a finer grain).

func TestTransformCounter(t *testing.T) {
	result := api.Transform(`
export component Counter() {
  const [c, setC] = signal(0);
  return <button onClick={() => setC(c()+1)}>{c()}</button>;
}`, api.TransformOptions{FilePath: "counter.ky"})

	require.Empty(t, errorsOf(result))
	require.Contains(t, result.Code, "$REGISTRY.execute('component:Counter'")
	require.Contains(t, result.Code, "createSignal(0)")
	require.Contains(t, result.Code, "const [c, setC] = createSignal(0)")
	require.Contains(t, result.Code, "t_element('button',")
	require.Contains(t, result.Code, "$REGISTRY.wire(")
	require.Contains(t, result.Code, "createSignal")
	require.Contains(t, result.Code, "$REGISTRY")
	require.Contains(t, result.Code, "t_element")
}

func TestTransformFragmentWithText(t *testing.T) {
	result := api.Transform(`
export component Frag() {
  return <>Hello</>;
}`, api.TransformOptions{FilePath: "frag.ky"})

	require.Empty(t, errorsOf(result))
	require.Contains(t, result.Code, "['Hello']")
}

func TestTransformShowWithSignal(t *testing.T) {
	result := api.Transform(`
export component Panel() {
  const [visible, setVisible] = signal(true);
  return <Show when={visible()} fallback={<span/>}><p>hi</p></Show>;
}`, api.TransformOptions{FilePath: "panel.ky"})

	require.Empty(t, errorsOf(result))
	require.Contains(t, result.Code, "{ when: visible,")
	require.NotContains(t, result.Code, "when: visible(),")
}

func TestTransformStyleWithReactiveProperty(t *testing.T) {
	result := api.Transform(`
export component Themed() {
  const [theme, setTheme] = signal('dark');
  return <div style={{ color: theme() }}>x</div>;
}`, api.TransformOptions{FilePath: "themed.ky"})

	require.Empty(t, errorsOf(result))
	require.Contains(t, result.Code, "color: () => theme()")
}

func TestTransformDefaultParameterComponent(t *testing.T) {
	result := api.Transform(`
export component Avatar({ size = 'md', name }) {
  return <div>{name}</div>;
}`, api.TransformOptions{FilePath: "avatar.ky"})

	require.Empty(t, errorsOf(result))
	require.Contains(t, result.Code, "size = 'md'")
	require.Contains(t, result.Code, "t_element('div', {}, [name])")
}

func TestTransformTemplateLiteralWithInterpolation(t *testing.T) {
	result := api.Transform(`
export component Greeting() {
  const [who, setWho] = signal('world');
  const s = `+"`hi ${who()}`"+`;
  return <div>{s}</div>;
}`, api.TransformOptions{FilePath: "greeting.ky"})

	require.Empty(t, errorsOf(result))
	require.Contains(t, result.Code, "who()")
}

func TestTransformEmptySource(t *testing.T) {
	result := api.Transform("", api.TransformOptions{FilePath: "empty.ky"})
	require.Empty(t, result.Diagnostics)
	require.Empty(t, result.Code)
}

func TestTransformStrictPromotesWarnings(t *testing.T) {
	result := api.Transform(`
export component Weird() {
  return <div>{missing()}</div>;
}`, api.TransformOptions{FilePath: "weird.ky", Strict: true})

	require.NotEmpty(t, errorsOf(result))
	require.Empty(t, result.Code)
}

func errorsOf(r api.Result) []api.Diagnostic {
	var out []api.Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == api.SeverityError {
			out = append(out, d)
		}
	}
	return out
}
