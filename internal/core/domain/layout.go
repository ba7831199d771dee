package domain

import "path/filepath"

const (
	// StateDirName is the default name of the workspace state directory.
	StateDirName = ".depot"

	// ConfigFileName is the name of the workspace configuration file.
	ConfigFileName = "depot.yaml"

	// SessionFileName is the name of the persisted interactive session.
	SessionFileName = "session.json"

	// SnapshotFileName is the name of the package snapshot written by update.
	SnapshotFileName = "packages.json"

	// PlanFileName is the default name of the committed transaction plan.
	PlanFileName = "plan.json"

	// MetricsFileName is the default name of the metrics textfile.
	MetricsFileName = "depot.prom"

	// DefaultUndoDepth is the number of undo states retained.
	DefaultUndoDepth = 20

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultSessionPath returns the session file path inside stateDir.
func DefaultSessionPath(stateDir string) string {
	return filepath.Join(stateDir, SessionFileName)
}

// DefaultSnapshotPath returns the package snapshot path inside stateDir.
func DefaultSnapshotPath(stateDir string) string {
	return filepath.Join(stateDir, SnapshotFileName)
}

// DefaultPlanPath returns the plan file path inside stateDir.
func DefaultPlanPath(stateDir string) string {
	return filepath.Join(stateDir, PlanFileName)
}
