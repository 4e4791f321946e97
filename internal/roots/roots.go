package roots

// Roots holds the three candidate directories searched for an installed
// dependency. Values are computed per request and never persisted.
type Roots struct {
	// Consumer is the consuming project's root (the host's configured root).
	Consumer string
	// Library is this library's own root; empty when unavailable.
	Library string
	// Integration is the root of the package that requested the toolbar app.
	Integration string
}

// Candidates returns the non-empty roots in search order (consumer, library,
// integration) without duplicates.
func (r Roots) Candidates() []string {
	var out []string
	seen := make(map[string]bool, 3)
	for _, root := range []string{r.Consumer, r.Library, r.Integration} {
		if root == "" || seen[root] {
			continue
		}
		seen[root] = true
		out = append(out, root)
	}
	return out
}

// Compute builds Roots for one request. callerPath is any file or directory
// inside the integration package; the integration root is the nearest
// ancestor with a package.json. libraryRoot overrides LibraryRoot when set.
func Compute(locator *Locator, consumerRoot, callerPath, libraryRoot string) (Roots, error) {
	r := Roots{Consumer: consumerRoot, Library: libraryRoot}

	if r.Library == "" {
		if root, ok := LibraryRoot(); ok {
			r.Library = root
		}
	}

	if callerPath == "" {
		return r, nil
	}

	integration, err := locator.Locate(callerPath)
	if err != nil {
		return Roots{}, err
	}
	r.Integration = integration

	return r, nil
}
