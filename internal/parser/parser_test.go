package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kythera-lang/kyc/internal/ast"
	"github.com/kythera-lang/kyc/internal/logger"
	"github.com/kythera-lang/kyc/internal/parser"
	"github.com/kythera-lang/kyc/internal/testutil"
)

func parse(t *testing.T, contents string) (ast.Program, []logger.Msg) {
	t.Helper()
	log, msgs := testutil.CollectLog()
	source := testutil.SourceForTest(contents)
	program, parseMsgs := parser.Parse(log, source)
	require.Equal(t, *msgs, parseMsgs)
	return program, parseMsgs
}

func TestParseComponentDeclaration(t *testing.T) {
	program, msgs := parse(t, `export component Greeter() {
  return <div>hi</div>;
}`)
	require.Empty(t, msgs)
	require.Len(t, program.Body, 1)

	exp, ok := program.Body[0].Data.(*ast.SExport)
	require.True(t, ok)
	require.Equal(t, ast.ExportDecl, exp.Kind)
	require.NotNil(t, exp.Decl)

	comp, ok := exp.Decl.Data.(*ast.SComponent)
	require.True(t, ok)
	require.Equal(t, "Greeter", comp.Name)
}

func TestParseDestructuredParamWithDefault(t *testing.T) {
	program, msgs := parse(t, `component Avatar({ size = 'md', name }) {
  return <div>{name}</div>;
}`)
	require.Empty(t, msgs)
	comp := program.Body[0].Data.(*ast.SComponent)
	require.Len(t, comp.Params, 1)
	binding := comp.Params[0].Binding
	require.Equal(t, ast.BObject, binding.Kind)
	require.Len(t, binding.ObjectItems, 2)
	require.Equal(t, "size", binding.ObjectItems[0].PropName)
	require.NotNil(t, binding.ObjectItems[0].Default)
}

func TestParseJSXFragmentAndExpressionChild(t *testing.T) {
	program, msgs := parse(t, `const el = <>{value}</>;`)
	require.Empty(t, msgs)
	decl := program.Body[0].Data.(*ast.SVarDecl)
	init := decl.Decls[0].Init
	require.NotNil(t, init)
	_, ok := init.Data.(*ast.EJSXFragment)
	require.True(t, ok)
}

func TestParseImportSpecifiers(t *testing.T) {
	program, msgs := parse(t, `import { signal as useSignal, computed } from "kythera/reactive";`)
	require.Empty(t, msgs)
	imp := program.Body[0].Data.(*ast.SImport)
	require.Equal(t, "kythera/reactive", imp.Source)
	require.Len(t, imp.Specifiers, 2)
	require.Equal(t, "signal", imp.Specifiers[0].ImportedName)
	require.Equal(t, "useSignal", imp.Specifiers[0].LocalName)
}

func TestParseRecoversFromSyntaxError(t *testing.T) {
	program, msgs := parse(t, `const a = ;
const b = 2;`)
	require.NotEmpty(t, msgs)
	// Recovery should still find the second, well-formed declaration.
	found := false
	for _, stmt := range program.Body {
		if decl, ok := stmt.Data.(*ast.SVarDecl); ok && len(decl.Decls) == 1 &&
			decl.Decls[0].Binding.Kind == ast.BIdentifier && decl.Decls[0].Binding.Name == "b" {
			found = true
		}
	}
	require.True(t, found)
}
