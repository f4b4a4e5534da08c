package fragments

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var ErrUnknownFragment = errors.New("unknown fragment")

// UnknownFragmentError is returned when a fragment spread names a fragment that is not registered.
type UnknownFragmentError struct {
	Name string
}

func (e *UnknownFragmentError) Error() string {
	return fmt.Sprintf("unknown fragment %q", e.Name)
}

func (e *UnknownFragmentError) Is(target error) bool {
	return target == ErrUnknownFragment
}

// FragmentCycleError is returned when a fragment spreads itself directly or through other fragments.
// Path starts and ends with the same fragment name.
type FragmentCycleError struct {
	Path []string
}

func (e *FragmentCycleError) Error() string {
	return fmt.Sprintf("fragment cycle: %s", strings.Join(e.Path, " -> "))
}

// DuplicateFragmentError is returned in strict mode when two different fragments share a name.
type DuplicateFragmentError struct {
	Name   string
	First  string
	Second string
}

func (e *DuplicateFragmentError) Error() string {
	return fmt.Sprintf("fragment %q defined in %s conflicts with definition in %s", e.Name, e.Second, e.First)
}
