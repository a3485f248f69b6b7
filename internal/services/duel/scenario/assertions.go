package scenario

import (
	"errors"
	"log"
)

// AssertionMode controls how expectation mismatches are reported.
type AssertionMode int

const (
	// AssertionStrict fails the run on any mismatch.
	AssertionStrict AssertionMode = iota
	// AssertionLogOnly logs mismatches and lets the run succeed.
	AssertionLogOnly
)

// Assertions applies an AssertionMode to a set of failures.
type Assertions struct {
	Mode   AssertionMode
	Logger *log.Logger
}

// Report returns the joined failures in strict mode. In log-only mode it
// logs each failure and returns nil.
func (a Assertions) Report(failures []error) error {
	if len(failures) == 0 {
		return nil
	}
	if a.Mode == AssertionLogOnly {
		if a.Logger != nil {
			for _, failure := range failures {
				a.Logger.Printf("expectation: %v", failure)
			}
		}
		return nil
	}
	return errors.Join(failures...)
}
