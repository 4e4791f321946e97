package synth

import (
	"bytes"
	"encoding/json"
	"strings"
	"text/template"
)

var templateFuncs = template.FuncMap{
	"jsString":        jsString,
	"templateLiteral": templateLiteral,
}

// jsString renders s as a double-quoted JS string literal
func jsString(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// templateLiteral escapes s for the body of a JS template literal. Back-ticks
// become ${"`"} so user markup can never close the enclosing literal.
func templateLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "${", `\${`)
	return strings.ReplaceAll(s, "`", "${\"`\"}")
}
