package deps

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/toyz/devbar/internal/roots"
	"github.com/toyz/devbar/internal/utils/fileops"
)

// Checker determines which of a framework's packages are installed
type Checker struct {
	files *fileops.FileOps
}

// NewChecker creates a checker backed by the given filesystem access
func NewChecker(files *fileops.FileOps) *Checker {
	if files == nil {
		files = fileops.Default
	}
	return &Checker{files: files}
}

// FindMissing returns, in requirement order, the packages of fw that are not
// installed under any candidate root. A package is present when
// node_modules/<pkg> exists under at least one root.
func (c *Checker) FindMissing(fw Framework, r roots.Roots) []string {
	candidates := r.Candidates()

	var missing []string
	for _, pkg := range fw.Packages() {
		if !c.installedUnderAny(pkg, candidates) {
			missing = append(missing, pkg)
		}
	}
	return missing
}

func (c *Checker) installedUnderAny(pkg string, candidates []string) bool {
	for _, root := range candidates {
		if c.files.Exists(PackageDir(root, pkg)) {
			return true
		}
	}
	return false
}

// LoadReport is the outcome of loading every package of a framework
type LoadReport struct {
	Framework    Framework
	Loaded       map[string]*PackageInfo
	Missing      []string
	Incompatible []Incompatibility
}

// OK reports whether every package loaded
func (r *LoadReport) OK() bool {
	return len(r.Missing) == 0
}

type loadResult struct {
	info         *PackageInfo
	incompatible *Incompatibility
}

// LoadAll tries to load every package of fw concurrently and waits for all
// of them; a package whose manifest or entry point cannot be read from any
// root is reported missing. Only context cancellation returns an error.
func (c *Checker) LoadAll(ctx context.Context, fw Framework, r roots.Roots) (*LoadReport, error) {
	reqs := fw.Requirements()
	candidates := r.Candidates()
	results := make([]loadResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		g.Go(func() error {
			info, err := c.load(gctx, req.Package, candidates)
			if err != nil {
				return err
			}
			results[i].info = info
			if info != nil {
				results[i].incompatible = checkVersion(req, info.Version)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &LoadReport{Framework: fw, Loaded: make(map[string]*PackageInfo)}
	for i, req := range reqs {
		res := results[i]
		if res.info == nil {
			report.Missing = append(report.Missing, req.Package)
			continue
		}
		report.Loaded[req.Package] = res.info
		if res.incompatible != nil {
			report.Incompatible = append(report.Incompatible, *res.incompatible)
		}
	}
	return report, nil
}

// load returns the first root's loadable copy of pkg, or nil when none loads
func (c *Checker) load(ctx context.Context, pkg string, candidates []string) (*PackageInfo, error) {
	for _, root := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := ReadPackage(c.files, PackageDir(root, pkg))
		if err == nil {
			return info, nil
		}
	}
	return nil, nil
}
