package graph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is the kind of every circular dependency failure.
var ErrCycle = errors.New("circular dependency")

// CycleError identifies a dependency cycle. Entry is the first task found to
// be on the cycle; Path walks the cycle and ends where it started.
type CycleError struct {
	Entry string
	Path  []string
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("%s at %s", ErrCycle, e.Entry)
	}
	return fmt.Sprintf("%s at %s: %s", ErrCycle, e.Entry, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }
