package synth

import (
	"fmt"
	"regexp"

	"github.com/alecthomas/participle/v2/lexer"
)

// jsLexer is a coarse lexer for generated modules. It understands just
// enough JS (strings, comments, template literals with nested ${} blocks) to
// prove the output is lexically closed.
var jsLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "BlockComment", Pattern: `/\*([^*]|\*+[^*/])*\*+/`},
		{Name: "String", Pattern: `"(\\.|[^"\\\n])*"|'(\\.|[^'\\\n])*'`},
		{Name: "TemplateStart", Pattern: "`", Action: lexer.Push("Template")},
		{Name: "Ident", Pattern: `[A-Za-z_$][A-Za-z0-9_$]*`},
		{Name: "Number", Pattern: `[0-9][0-9a-fA-FxXn._]*`},
		{Name: "Punct", Pattern: `=>|\.\.\.|[-+*/%=<>!&|^~?:;,.()\[\]{}@#]`},
		{Name: "Whitespace", Pattern: `\s+`},
	},
	"Template": {
		{Name: "TemplateEnd", Pattern: "`", Action: lexer.Pop()},
		{Name: "Expr", Pattern: `\$\{`, Action: lexer.Push("Expr")},
		{Name: "TemplateChars", Pattern: "(\\\\.|[^`\\\\$])+"},
		{Name: "Dollar", Pattern: `\$`},
	},
	"Expr": {
		{Name: "ExprEnd", Pattern: `\}`, Action: lexer.Pop()},
		{Name: "Block", Pattern: `\{`, Action: lexer.Push("Expr")},
		lexer.Include("Root"),
	},
})

var sentinelPattern = regexp.MustCompile(`@@[A-Z_]+@@`)

// ValidateModule checks that src lexes cleanly: every string, comment and
// template literal is closed, and no @@PLACEHOLDER@@ sentinel survived.
func ValidateModule(filename, src string) error {
	if m := sentinelPattern.FindString(src); m != "" {
		return fmt.Errorf("unreplaced placeholder %s", m)
	}

	lex, err := jsLexer.LexString(filename, src)
	if err != nil {
		return err
	}

	symbols := jsLexer.Symbols()
	opens := map[lexer.TokenType]bool{
		symbols["TemplateStart"]: true,
		symbols["Expr"]:          true,
		symbols["Block"]:         true,
	}
	closes := map[lexer.TokenType]bool{
		symbols["TemplateEnd"]: true,
		symbols["ExprEnd"]:     true,
	}

	depth := 0
	var lastOpen lexer.Position
	for {
		tok, err := lex.Next()
		if err != nil {
			return err
		}
		if tok.EOF() {
			break
		}
		switch {
		case opens[tok.Type]:
			depth++
			lastOpen = tok.Pos
		case closes[tok.Type]:
			depth--
		}
	}

	if depth != 0 {
		return fmt.Errorf("%s: unterminated template literal or expression opened near %d:%d", filename, lastOpen.Line, lastOpen.Column)
	}
	return nil
}
