package matcher

import (
	"errors"
	"fmt"

	"go.trai.ch/depot/internal/core/domain"
)

// SelectorError reports a selector that could not be parsed or matched nothing usable.
// Err is one of the domain selector sentinels. Package names the offending
// match when there is one.
type SelectorError struct {
	Selector string
	Package  string
	Err      error
	Cause    error
}

func (e *SelectorError) Error() string {
	switch {
	case errors.Is(e.Err, domain.ErrNoMatch):
		return fmt.Sprintf("'%s' matches no packages", e.Selector)
	case errors.Is(e.Err, domain.ErrNoInstalledMatch):
		return fmt.Sprintf("'%s' matches no installed packages", e.Selector)
	case errors.Is(e.Err, domain.ErrNoMarkedMatch):
		return fmt.Sprintf("'%s' matches no marked packages", e.Selector)
	case errors.Is(e.Err, domain.ErrAlreadyInstalled):
		return fmt.Sprintf("%s matches '%s' and is already installed", e.Package, e.Selector)
	case errors.Is(e.Err, domain.ErrMultipleMatches):
		return fmt.Sprintf("'%s' matches multiple installed packages", e.Selector)
	case e.Cause != nil:
		return fmt.Sprintf("'%s' is not a valid package selector: %v", e.Selector, e.Cause)
	default:
		return fmt.Sprintf("'%s': %v", e.Selector, e.Err)
	}
}

func (e *SelectorError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// NewSelectorError reports that selector failed with one of the domain selector sentinels.
func NewSelectorError(selector string, err error) error {
	return &SelectorError{Selector: selector, Err: err}
}
