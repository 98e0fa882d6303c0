// Package status replaces the original source's global mutable status
// dictionary with an explicit reporter, passed through the build/identify
// pipelines instead of read and written as ambient state (§9).
package status

// Reporter receives named pipeline events with structured fields. It is
// threaded explicitly through every call that wants to report progress;
// nothing in this module reaches for a package-level reporter.
type Reporter interface {
	Track(event string, fields map[string]any)
}

// NoOp discards every event. It is the zero-value default for callers
// that don't want terminal output, such as library consumers and tests.
type NoOp struct{}

func (NoOp) Track(string, map[string]any) {}
