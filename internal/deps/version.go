package deps

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Incompatibility records an installed package whose version falls outside
// the framework's supported range. It is advisory: the package still counts
// as available.
type Incompatibility struct {
	Package    string
	Version    string
	Constraint string
	Reason     string
}

// checkVersion returns nil when version satisfies constraint or either side
// is absent.
func checkVersion(req Requirement, version string) *Incompatibility {
	if req.Constraint == "" || version == "" {
		return nil
	}

	c, err := semver.NewConstraint(req.Constraint)
	if err != nil {
		return &Incompatibility{
			Package:    req.Package,
			Version:    version,
			Constraint: req.Constraint,
			Reason:     fmt.Sprintf("invalid constraint: %v", err),
		}
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return &Incompatibility{
			Package:    req.Package,
			Version:    version,
			Constraint: req.Constraint,
			Reason:     fmt.Sprintf("unparseable version: %v", err),
		}
	}

	if ok, errs := c.Validate(v); !ok {
		reason := "version out of range"
		if len(errs) > 0 {
			reason = errs[0].Error()
		}
		return &Incompatibility{
			Package:    req.Package,
			Version:    version,
			Constraint: req.Constraint,
			Reason:     reason,
		}
	}
	return nil
}
