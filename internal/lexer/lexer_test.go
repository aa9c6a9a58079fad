package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kythera-lang/kyc/internal/lexer"
	"github.com/kythera-lang/kyc/internal/testutil"
)

func tokenize(t *testing.T, contents string) []lexer.Token {
	t.Helper()
	log, msgs := testutil.CollectLog()
	source := testutil.SourceForTest(contents)
	l := lexer.NewLexer(log, source)

	var toks []lexer.Token
	for l.Token.Kind != lexer.TEOF {
		toks = append(toks, l.Token)
		l.Next()
	}
	toks = append(toks, l.Token)
	require.Empty(t, *msgs)
	return toks
}

func kinds(toks []lexer.Token) []lexer.T {
	out := make([]lexer.T, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexerPunctuationAndIdentifiers(t *testing.T) {
	toks := tokenize(t, "const x = 1;")
	require.Equal(t, []lexer.T{
		lexer.TKeyword, lexer.TIdentifier, lexer.TEquals, lexer.TNumericLiteral, lexer.TSemicolon, lexer.TEOF,
	}, kinds(toks))
}

func TestLexerStringEscapes(t *testing.T) {
	toks := tokenize(t, `"a\nb"`)
	require.Len(t, toks, 2)
	require.Equal(t, lexer.TStringLiteral, toks[0].Kind)
}

func TestLexerTemplateLiteralParts(t *testing.T) {
	toks := tokenize(t, "`hi ${name}`")
	require.Equal(t, []lexer.T{
		lexer.TTemplateHead, lexer.TIdentifier, lexer.TCloseBrace, lexer.TTemplateTail, lexer.TEOF,
	}, kinds(toks))
}

func TestLexerOperatorRuns(t *testing.T) {
	toks := tokenize(t, "a ??= b")
	require.Len(t, toks, 4)
	require.Equal(t, lexer.TIdentifier, toks[0].Kind)
	require.Equal(t, lexer.TIdentifier, toks[2].Kind)
}

func TestLexerRegexVsDivideDisambiguation(t *testing.T) {
	toks := tokenize(t, "a / b")
	require.Equal(t, lexer.TIdentifier, toks[0].Kind)
	require.NotEqual(t, lexer.TRegExpLiteral, toks[1].Kind)

	reToks := tokenize(t, "return /abc/;")
	found := false
	for _, tok := range reToks {
		if tok.Kind == lexer.TRegExpLiteral {
			found = true
		}
	}
	require.True(t, found)
}

func TestLexerDoesNotChokeOnEmptySource(t *testing.T) {
	toks := tokenize(t, "")
	require.Equal(t, []lexer.T{lexer.TEOF}, kinds(toks))
}
