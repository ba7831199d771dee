package domain

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Phase names a stage of a depot operation reported to telemetry.
type Phase string

const (
	// PhaseLoad covers opening sources and building the cache.
	PhaseLoad Phase = "load"
	// PhaseLink covers auditing the linked relations of a loaded cache.
	PhaseLink Phase = "link"
	// PhaseResolve covers a transaction run.
	PhaseResolve Phase = "resolve"
	// PhaseCommit covers writing the commit plan.
	PhaseCommit Phase = "commit"
)
