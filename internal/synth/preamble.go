package synth

import (
	"embed"
	"strings"

	"github.com/toyz/devbar/internal/deps"
	"github.com/toyz/devbar/internal/errors"
)

//go:embed preambles/*.js
var preambleFS embed.FS

// BaseToken is replaced by the host base path in preamble scripts
const BaseToken = "__BASE__"

// DefaultBase is used when the host config carries no base path
const DefaultBase = "/"

// LoadPreamble returns the fast-refresh preamble for fw with the base path
// substituted. Frameworks without a preamble return an empty string.
func LoadPreamble(fw deps.Framework, base string) (string, error) {
	if !fw.NeedsFastRefresh() {
		return "", nil
	}

	path := "preambles/" + fw.String() + ".js"
	data, err := preambleFS.ReadFile(path)
	if err != nil {
		return "", errors.NewTemplateLoadError(fw.String(), path, err)
	}

	return strings.ReplaceAll(string(data), BaseToken, normalizeBase(base)), nil
}

func normalizeBase(base string) string {
	if base == "" {
		return DefaultBase
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}
