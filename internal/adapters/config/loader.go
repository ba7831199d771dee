// Package config provides the configuration loader for depot.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	// Filename is the config file to look for. An absolute path is used as is,
	// otherwise it is searched in the working directory and its parents.
	Filename string
}

// NewLoader creates a new Loader looking for depot.yaml.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, Filename: domain.ConfigFileName}
}

var validAliasRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Load finds the configuration file from cwd and returns the validated
// configuration. When cwd names a regular file, that file is loaded instead.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	var depotfile Depotfile
	if err := readAndUnmarshalYAML(configPath, &depotfile); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	cfg, err := l.build(filepath.Dir(configPath), &depotfile)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	return cfg, nil
}

func (l *Loader) findConfiguration(cwd string) (string, error) {
	if info, err := os.Stat(cwd); err == nil && info.Mode().IsRegular() {
		return filepath.Abs(cwd)
	}

	name := l.Filename
	if name == "" {
		name = domain.ConfigFileName
	}
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", zerr.With(domain.ErrConfigNotFound, "path", name)
		}
		return name, nil
	}

	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func (l *Loader) build(root string, f *Depotfile) (*domain.Config, error) {
	if f.Version == "" {
		l.Logger.Warn(fmt.Sprintf("'version' missing in %s, assuming \"1\"", domain.ConfigFileName))
	}

	switch f.Comparator {
	case "":
		f.Comparator = domain.ComparatorRPM
	case domain.ComparatorRPM, domain.ComparatorSemver:
	default:
		return nil, zerr.With(domain.ErrConfigInvalid, "comparator", f.Comparator)
	}

	if f.UndoDepth < 0 {
		return nil, zerr.With(domain.ErrConfigInvalid, "undo-depth", f.UndoDepth)
	}
	if f.UndoDepth == 0 {
		f.UndoDepth = domain.DefaultUndoDepth
	}

	stateDir := resolvePath(root, f.StateDir, domain.StateDirName)
	cfg := &domain.Config{
		Root:        root,
		Comparator:  f.Comparator,
		UndoDepth:   f.UndoDepth,
		StateDir:    stateDir,
		PlanFile:    resolvePath(root, f.PlanFile, domain.DefaultPlanPath(stateDir)),
		MetricsFile: resolvePath(root, f.MetricsFile, ""),
	}

	aliases := make(map[string]int, len(f.Channels))
	for i, dto := range f.Channels {
		ch, err := l.buildChannel(root, i, dto, aliases)
		if err != nil {
			return nil, err
		}
		cfg.Channels = append(cfg.Channels, ch)
	}

	if len(cfg.EnabledChannels()) == 0 {
		l.Logger.Warn("no enabled channels configured")
	}
	return cfg, nil
}

func (l *Loader) buildChannel(root string, index int, dto *ChannelDTO, aliases map[string]int) (domain.Channel, error) {
	if dto == nil {
		return domain.Channel{}, zerr.With(domain.ErrConfigInvalid, "channel", index)
	}
	if !validAliasRegex.MatchString(dto.Alias) {
		err := zerr.With(domain.ErrConfigInvalid, "alias", dto.Alias)
		return domain.Channel{}, zerr.With(err, "channel", index)
	}
	if first, exists := aliases[dto.Alias]; exists {
		err := zerr.With(domain.ErrConfigInvalid, "duplicate_alias", dto.Alias)
		err = zerr.With(err, "first_occurrence", first)
		return domain.Channel{}, zerr.With(err, "duplicate_at", index)
	}
	aliases[dto.Alias] = index

	if len(dto.Components) == 0 {
		return domain.Channel{}, zerr.With(zerr.With(domain.ErrConfigInvalid, "reason", "channel has no components"), "alias", dto.Alias)
	}

	components := make([]string, len(dto.Components))
	for i, c := range dto.Components {
		components[i] = resolvePath(root, c, "")
	}

	name := dto.Name
	if name == "" {
		name = dto.Alias
	}
	return domain.Channel{
		Alias:      dto.Alias,
		Name:       name,
		Priority:   dto.Priority,
		Installed:  dto.Installed,
		Disabled:   dto.Disabled,
		Components: components,
	}, nil
}

// resolvePath makes p absolute against root, using fallback when p is empty.
// An empty fallback keeps an empty path empty.
func resolvePath(root, p, fallback string) string {
	if p == "" {
		p = fallback
	}
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(root, p))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}
	return nil
}
