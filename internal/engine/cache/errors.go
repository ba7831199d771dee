package cache

import "go.trai.ch/depot/internal/core/domain"

// SourceError reports a loader that failed to read its source.
// It matches domain.ErrSourceFailed with errors.Is.
type SourceError struct {
	Loader string
	Err    error
}

func (e *SourceError) Error() string {
	return domain.ErrSourceFailed.Error() + " (" + e.Loader + "): " + e.Err.Error()
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is reports whether target is domain.ErrSourceFailed.
func (e *SourceError) Is(target error) bool {
	return target == domain.ErrSourceFailed
}
