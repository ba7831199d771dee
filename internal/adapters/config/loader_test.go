package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depot/internal/adapters/config"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func createFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func TestLoader_Load_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, `
version: "1"
comparator: semver
undo-depth: 5
metrics-file: out/depot.prom
channels:
  - alias: rpmdb
    installed: true
    components: [system.yaml]
  - alias: fedora
    name: Fedora 40
    priority: 10
    components: [repo/main.yaml, /srv/extra.yaml]
  - alias: testing
    disabled: true
    components: [testing.yaml]
`)

	cfg, err := config.NewLoader(mockLogger).Load(rootDir)
	require.NoError(t, err)

	assert.Equal(t, rootDir, cfg.Root)
	assert.Equal(t, domain.ComparatorSemver, cfg.Comparator)
	assert.Equal(t, 5, cfg.UndoDepth)
	assert.Equal(t, filepath.Join(rootDir, domain.StateDirName), cfg.StateDir)
	assert.Equal(t, filepath.Join(rootDir, domain.StateDirName, domain.PlanFileName), cfg.PlanFile)
	assert.Equal(t, filepath.Join(rootDir, "out", "depot.prom"), cfg.MetricsFile)

	require.Len(t, cfg.Channels, 3)
	assert.Equal(t, domain.Channel{
		Alias:      "rpmdb",
		Name:       "rpmdb",
		Installed:  true,
		Components: []string{filepath.Join(rootDir, "system.yaml")},
	}, cfg.Channels[0])
	assert.Equal(t, "Fedora 40", cfg.Channels[1].Name)
	assert.Equal(t, 10, cfg.Channels[1].Priority)
	assert.Equal(t, []string{filepath.Join(rootDir, "repo", "main.yaml"), "/srv/extra.yaml"}, cfg.Channels[1].Components)

	enabled := cfg.EnabledChannels()
	require.Len(t, enabled, 2)
	assert.Equal(t, "fedora", enabled[1].Alias)
}

func TestLoader_Load_Defaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(2)

	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, "channels: []\n")

	cfg, err := config.NewLoader(mockLogger).Load(rootDir)
	require.NoError(t, err)
	assert.Equal(t, domain.ComparatorRPM, cfg.Comparator)
	assert.Equal(t, domain.DefaultUndoDepth, cfg.UndoDepth)
	assert.Empty(t, cfg.MetricsFile)
}

func TestLoader_Load_SearchesParents(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, `
version: "1"
channels:
  - alias: main
    components: [main.yaml]
`)
	nested := filepath.Join(rootDir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))

	cfg, err := config.NewLoader(mockLogger).Load(nested)
	require.NoError(t, err)
	assert.Equal(t, rootDir, cfg.Root)
}

func TestLoader_Load_ExplicitPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	rootDir := t.TempDir()
	path := createFile(t, rootDir, "custom.yaml", `
version: "1"
state-dir: /var/lib/depot
channels:
  - alias: main
    components: [main.yaml]
`)

	loader := &config.Loader{Logger: mockLogger, Filename: path}
	cfg, err := loader.Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/depot", cfg.StateDir)
	assert.Equal(t, "/var/lib/depot/plan.json", cfg.PlanFile)
}

func TestLoader_Load_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	_, err := config.NewLoader(mockLogger).Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigNotFound.Error())
}

func TestLoader_Load_ParseError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, "channels: [unterminated\n")

	_, err := config.NewLoader(mockLogger).Load(rootDir)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigParseFailed.Error())
}

func TestLoader_Load_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		key     string
		value   any
	}{
		{
			name:    "unknown comparator",
			content: "version: \"1\"\ncomparator: dpkg\n",
			key:     "comparator",
			value:   "dpkg",
		},
		{
			name:    "negative undo depth",
			content: "version: \"1\"\nundo-depth: -1\n",
			key:     "undo-depth",
			value:   -1,
		},
		{
			name:    "bad alias",
			content: "version: \"1\"\nchannels:\n  - alias: \"my repo\"\n    components: [a.yaml]\n",
			key:     "alias",
			value:   "my repo",
		},
		{
			name: "duplicate alias",
			content: "version: \"1\"\nchannels:\n" +
				"  - alias: main\n    components: [a.yaml]\n" +
				"  - alias: main\n    components: [b.yaml]\n",
			key:   "duplicate_alias",
			value: "main",
		},
		{
			name:    "no components",
			content: "version: \"1\"\nchannels:\n  - alias: main\n",
			key:     "alias",
			value:   "main",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockLogger := mocks.NewMockLogger(ctrl)

			rootDir := t.TempDir()
			createFile(t, rootDir, domain.ConfigFileName, tt.content)

			_, err := config.NewLoader(mockLogger).Load(rootDir)
			require.Error(t, err)
			assert.ErrorContains(t, err, domain.ErrConfigInvalid.Error())

			var zErr *zerr.Error
			require.ErrorAs(t, err, &zErr)
			assert.Equal(t, tt.value, zErr.Metadata()[tt.key])
		})
	}
}

func TestLoader_Load_FileArgument(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	rootDir := t.TempDir()
	path := createFile(t, rootDir, "other.yaml", `
version: "1"
channels:
  - alias: main
    components: [main.yaml]
`)

	cfg, err := config.NewLoader(mockLogger).Load(path)
	require.NoError(t, err)
	assert.Equal(t, rootDir, cfg.Root)
	assert.Equal(t, []string{filepath.Join(rootDir, "main.yaml")}, cfg.Channels[0].Components)
}
