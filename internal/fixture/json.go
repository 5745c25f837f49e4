package fixture

import (
	"github.com/coregx/constrain/lexdfa"
	"github.com/coregx/constrain/lrtab"
	"github.com/coregx/constrain/vocab"
)

// JSON terminal and nonterminal names, declared once so json.go's
// grammar and lexer token declarations can't drift out of step with
// each other (lexdfa.TokenKind and lrtab.TerminalID both number by
// declaration order here, and lr1parse assumes they coincide — see
// lr1constraint's driver.go).
const (
	tLBrace   = "LBRACE"
	tRBrace   = "RBRACE"
	tLBracket = "LBRACKET"
	tRBracket = "RBRACKET"
	tComma    = "COMMA"
	tColon    = "COLON"
	tString   = "STRING"
	tNumber   = "NUMBER"
)

const (
	ntValue   = "value"
	ntObject  = "object"
	ntMembers = "members"
	ntPair    = "pair"
	ntArray   = "array"
	ntItems   = "items"
)

// jsonTerminals and jsonNonterminals fix the declaration order shared by
// the grammar and the lexer below.
var jsonTerminals = []string{tLBrace, tRBrace, tLBracket, tRBracket, tComma, tColon, tString, tNumber}

var jsonNonterminals = []string{ntValue, ntObject, ntMembers, ntPair, ntArray, ntItems}

// jsonProductions is a small JSON-object/array/string/number subset: it
// drops whitespace handling, escapes, floats, and null/true/false
// (exercised instead by regexconstraint's boolean-literal fixture) to
// keep the hand-authored grammar small enough to read end to end, while
// still exercising nested objects/arrays, left-recursive repetition
// (members, items), and the longest-match lexer boundary between
// STRING/NUMBER tokens and the surrounding punctuation.
var jsonProductions = []prodDecl{
	{name: "value_is_object", lhs: ntValue, rhs: []string{ntObject}},
	{name: "value_is_array", lhs: ntValue, rhs: []string{ntArray}},
	{name: "value_is_string", lhs: ntValue, rhs: []string{tString}},
	{name: "value_is_number", lhs: ntValue, rhs: []string{tNumber}},
	{name: "object", lhs: ntObject, rhs: []string{tLBrace, ntMembers, tRBrace}},
	{name: "members_one", lhs: ntMembers, rhs: []string{ntPair}},
	{name: "members_many", lhs: ntMembers, rhs: []string{ntMembers, tComma, ntPair}},
	{name: "pair", lhs: ntPair, rhs: []string{tString, tColon, ntValue}},
	{name: "array", lhs: ntArray, rhs: []string{tLBracket, ntItems, tRBracket}},
	{name: "items_one", lhs: ntItems, rhs: []string{ntValue}},
	{name: "items_many", lhs: ntItems, rhs: []string{ntItems, tComma, ntValue}},
}

// JSONGrammar builds the LR(1) table for the bundled JSON-subset grammar.
func JSONGrammar() (*lrtab.Table, error) {
	g, err := resolveGrammar(jsonTerminals, jsonNonterminals, ntValue, jsonProductions)
	if err != nil {
		return nil, err
	}
	return g.buildTable()
}

// JSONLexer builds the combined lexer DFA for the bundled JSON-subset
// grammar. Token declaration order matches jsonTerminals so a
// lexdfa.TokenKind value can be used directly as an lrtab.TerminalID
// (see lr1parse.Parser.nextLookahead).
func JSONLexer() (*lexdfa.DFA, error) {
	b := lexdfa.NewBuilder().
		AddToken(tLBrace, `\{`, 0).
		AddToken(tRBrace, `\}`, 0).
		AddToken(tLBracket, `\[`, 0).
		AddToken(tRBracket, `\]`, 0).
		AddToken(tComma, `,`, 0).
		AddToken(tColon, `:`, 0).
		AddToken(tString, `"[^"]*"`, 0).
		AddToken(tNumber, `-?[0-9]+`, 0)
	return b.Build()
}

// JSONVocab is a small closed vocabulary sized for the worked examples
// in the bundled test suite and the cmd/constrainctl demo: object/array
// punctuation, four string literals, and the ten single digits.
func JSONVocab() (*vocab.ByteVocab, error) {
	tokens := [][]byte{
		[]byte("{"), []byte("}"), []byte("["), []byte("]"), []byte(","), []byte(":"),
		[]byte(`"key"`), []byte(`"a"`), []byte(`"k"`), []byte(`"v"`),
		[]byte("0"), []byte("1"), []byte("2"), []byte("3"), []byte("4"),
		[]byte("5"), []byte("6"), []byte("7"), []byte("8"), []byte("9"),
	}
	return vocab.New(tokens)
}

// BooleanLiteralPattern is the bundled regex fixture: JSON's "true"/
// "false" literal, small enough to hand-verify the regexdfa.DFA's
// whole-string-membership-plus-liveness behavior against in tests.
const BooleanLiteralPattern = `true|false`

// BooleanLiteralVocab is a closed vocabulary whose tokens split "true"
// and "false": "tr"+"u"+"e" = true, "fa"+"lse" = false. From the empty
// prefix both "tr" and "fa" are admissible; after "tr", "tru" or "fa"
// exactly one token is.
func BooleanLiteralVocab() (*vocab.ByteVocab, error) {
	tokens := [][]byte{[]byte("tr"), []byte("fa"), []byte("u"), []byte("e"), []byte("lse")}
	return vocab.New(tokens)
}
