package transaction

import (
	"strings"

	"go.trai.ch/depot/internal/core/domain"
)

// Constraint is a forced state of a package and the reason it was forced.
// Action is ActionInstall when the package must be present after the
// transaction and ActionRemove when it must be absent.
type Constraint struct {
	Package *domain.Package
	Action  domain.Action
	Reason  string
}

// String renders the constraint as "install name-version (reason)".
func (c Constraint) String() string {
	s := c.Action.String() + " " + c.Package.String()
	if c.Reason != "" {
		s += " (" + c.Reason + ")"
	}
	return s
}

// ResolutionError reports that no consistent changeset exists. Constraints
// holds the forced states that could not be satisfied together.
type ResolutionError struct {
	Constraints []Constraint
	// Cause is set when resolution stopped for a reason other than a contradiction.
	Cause error
}

func (e *ResolutionError) Error() string {
	parts := make([]string, 0, len(e.Constraints))
	for _, c := range e.Constraints {
		parts = append(parts, c.String())
	}
	msg := domain.ErrResolutionFailed.Error()
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if len(parts) > 0 {
		msg += ": " + strings.Join(parts, "; ")
	}
	return msg
}

// Is matches domain.ErrResolutionFailed.
func (e *ResolutionError) Is(target error) bool {
	return target == domain.ErrResolutionFailed
}

func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

func conflict(constraints ...Constraint) *ResolutionError {
	return &ResolutionError{Constraints: constraints}
}
