package domain

// Phase identifies which half of the gendeps pipeline a failure occurred in.
type Phase string

const (
	// PhaseIndex is the provider-index construction phase.
	PhaseIndex Phase = "index"
	// PhaseResolve is the dependency resolution and repack phase.
	PhaseResolve Phase = "resolve"
)

// PackageFailure records one package that could not be fully processed.
// Failures are isolated: they never abort the rest of the batch.
type PackageFailure struct {
	Package string
	Phase   Phase
	Err     error
}

// Report summarizes one gendeps run.
type Report struct {
	// Total is the number of archives discovered.
	Total int

	// Indexed is the number of packages scanned into the provider index.
	Indexed int

	// Providers is the number of library identifiers in the final index.
	Providers int

	// Updated counts packages whose deps.txt content changed this run.
	Updated int

	// Unchanged counts packages rewritten with identical content.
	Unchanged int

	// Deps maps package name to its final sorted dependency list.
	Deps map[string][]string

	// Failures lists the packages that failed, with the phase they failed in.
	Failures []PackageFailure
}

// Failed returns the number of failed packages.
func (r *Report) Failed() int {
	return len(r.Failures)
}

// PushReport summarizes one push run.
type PushReport struct {
	// Pushed lists the package names successfully published.
	Pushed []string

	// Skipped lists archive filenames that were not valid packages.
	Skipped []string
}
