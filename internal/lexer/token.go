package lexer

// T is the closed set of token kinds named in spec.md §3.
type T uint8

const (
	TEOF T = iota
	TSyntaxError

	TIdentifier
	TKeyword
	TNumericLiteral
	TStringLiteral
	TRegExpLiteral

	TNoSubstitutionTemplateLiteral
	TTemplateHead
	TTemplateMiddle
	TTemplateTail

	TJSXText

	// Punctuation
	TOpenParen
	TCloseParen
	TOpenBrace
	TCloseBrace
	TOpenBracket
	TCloseBracket
	TComma
	TSemicolon
	TColon
	TQuestion
	TQuestionDot
	TQuestionQuestion
	TDot
	TDotDotDot
	TEqualsGreaterThan
	TEquals

	// JSX-specific punctuation
	TLessThan
	TLessThanSlash
	TGreaterThan
	TSlashGreaterThan

	// Operators (binary/unary/assignment — lexeme carries the exact spelling)
	TOperator

	TEndOfFile = TEOF
)

// Keyword is the closed set named in spec.md §3. Keywords are returned as
// TKeyword tokens; Lexeme disambiguates which one.
var Keywords = map[string]bool{
	"component": true, "const": true, "let": true, "var": true,
	"function": true, "if": true, "else": true, "for": true, "while": true,
	"return": true, "try": true, "catch": true, "finally": true, "throw": true,
	"yield": true, "await": true, "async": true, "import": true, "export": true,
	"from": true, "as": true, "type": true, "interface": true, "enum": true,
	"default": true, "new": true, "delete": true, "void": true, "typeof": true,
	"instanceof": true, "in": true, "of": true, "this": true, "super": true,
	"null": true, "true": true, "false": true, "undefined": true, "class": true,
	"extends": true, "static": true, "get": true, "set": true, "do": true,
	"switch": true, "case": true, "break": true, "continue": true, "debugger": true,
}

type Token struct {
	Kind       T
	Lexeme     string
	Line       int
	Column     int
	StartOffset int32
	EndOffset   int32
}
