package domain

import "go.trai.ch/zerr"

var (
	// ErrSourceFailed is returned when a loader could not read or parse its source.
	// It never aborts the other loaders of a cache load.
	ErrSourceFailed = zerr.New("source failed to load")

	// ErrNoMatch is returned when a package selector matches no packages.
	ErrNoMatch = zerr.New("selector matches no packages")

	// ErrNoInstalledMatch is returned when a selector matches packages but none of them is installed.
	ErrNoInstalledMatch = zerr.New("selector matches no installed packages")

	// ErrNoMarkedMatch is returned when a selector matches packages but none of them has a pending change.
	ErrNoMarkedMatch = zerr.New("selector matches no marked packages")

	// ErrMultipleMatches is returned when a selector must name exactly one package but matches several.
	ErrMultipleMatches = zerr.New("selector matches multiple packages")

	// ErrAlreadyInstalled is returned when the best match of an install selector is already installed.
	ErrAlreadyInstalled = zerr.New("package is already installed")

	// ErrInvalidSelector is returned when a package selector cannot be parsed.
	ErrInvalidSelector = zerr.New("invalid package selector")

	// ErrResolutionFailed is returned when no consistent changeset exists for the requested actions.
	ErrResolutionFailed = zerr.New("resolution failed")

	// ErrSearchLimit is returned when resolution gives up after exploring too many alternatives.
	ErrSearchLimit = zerr.New("resolution search limit reached")

	// ErrIdentity is returned when a cache invariant does not hold, e.g. a reverse edge is missing.
	ErrIdentity = zerr.New("cache identity invariant violated")

	// ErrInvalidRelation is returned when a relation string cannot be parsed.
	ErrInvalidRelation = zerr.New("invalid relation")

	// ErrInvalidOperator is returned when a relational operator is not recognised.
	ErrInvalidOperator = zerr.New("invalid relational operator")

	// ErrInvalidAction is returned when an action name is not recognised.
	ErrInvalidAction = zerr.New("invalid action")

	// ErrUnknownPackage is returned when a persistent token references a package missing from the cache.
	ErrUnknownPackage = zerr.New("package not found in cache")

	// ErrAmbiguousPackage is returned when a persistent token entry could name
	// several structurally different packages of the same name and version.
	ErrAmbiguousPackage = zerr.New("package identity is ambiguous")

	// ErrLoaderNotRegistered is returned when removing a loader the cache does not know.
	ErrLoaderNotRegistered = zerr.New("loader not registered")

	// ErrNothingToUndo is returned when the undo stack is empty.
	ErrNothingToUndo = zerr.New("nothing to undo")

	// ErrNothingToRedo is returned when the redo stack is empty.
	ErrNothingToRedo = zerr.New("nothing to redo")

	// ErrNothingToCommit is returned when committing an empty changeset.
	ErrNothingToCommit = zerr.New("no changes marked")

	// ErrUnknownChannel is returned when a command names a channel alias that is not configured.
	ErrUnknownChannel = zerr.New("unknown channel")

	// ErrCheckFailed is returned when installed packages have relations that need changes to hold.
	ErrCheckFailed = zerr.New("installed packages have unresolved relations")

	// ErrUnknownComparator is returned when the configured version scheme does not exist.
	ErrUnknownComparator = zerr.New("unknown version comparator")

	// ErrConfigNotFound is returned when no depot.yaml exists in the working directory or its parents.
	ErrConfigNotFound = zerr.New("could not find depot.yaml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when the config file is well-formed but semantically invalid.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrIndexReadFailed is returned when a repository index file cannot be read.
	ErrIndexReadFailed = zerr.New("failed to read repository index")

	// ErrIndexParseFailed is returned when a repository index file cannot be parsed.
	ErrIndexParseFailed = zerr.New("failed to parse repository index")

	// ErrIndexInvalid is returned when a repository index declares an invalid package.
	ErrIndexInvalid = zerr.New("invalid repository index")

	// ErrStateReadFailed is returned when a state file cannot be read.
	ErrStateReadFailed = zerr.New("failed to read state file")

	// ErrStateUnmarshalFailed is returned when a state file cannot be decoded.
	ErrStateUnmarshalFailed = zerr.New("failed to unmarshal state file")

	// ErrStateMarshalFailed is returned when a state file cannot be encoded.
	ErrStateMarshalFailed = zerr.New("failed to marshal state file")

	// ErrStateWriteFailed is returned when a state file cannot be written.
	ErrStateWriteFailed = zerr.New("failed to write state file")

	// ErrStateDirCreateFailed is returned when the state directory cannot be created.
	ErrStateDirCreateFailed = zerr.New("failed to create state directory")

	// ErrPlanWriteFailed is returned when the commit plan cannot be written.
	ErrPlanWriteFailed = zerr.New("failed to write commit plan")

	// ErrMetricsWriteFailed is returned when the metrics textfile cannot be written.
	ErrMetricsWriteFailed = zerr.New("failed to write metrics file")
)
