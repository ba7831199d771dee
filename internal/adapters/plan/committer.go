// Package plan writes resolved changesets as ordered JSON plan files.
package plan

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"github.com/opencontainers/go-digest"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/zerr"
)

// Step is one package operation of a plan.
type Step struct {
	Action   domain.Action `json:"action"`
	Name     string        `json:"name"`
	Version  string        `json:"version"`
	Channels []string      `json:"channels,omitzero"`
}

// Plan is the document handed to whatever applies a changeset.
type Plan struct {
	// Digest identifies the steps independently of formatting.
	Digest digest.Digest `json:"digest"`
	Steps  []Step        `json:"steps"`
}

// stepOrder is the order in which actions are applied: removals free names
// and files before anything new lands.
var stepOrder = map[domain.Action]int{
	domain.ActionRemove:    0,
	domain.ActionUpgrade:   1,
	domain.ActionInstall:   2,
	domain.ActionReinstall: 3,
}

// Committer implements ports.Committer by writing a Plan to a file.
type Committer struct{}

// NewCommitter creates a new Committer.
func NewCommitter() *Committer {
	return &Committer{}
}

// Build turns a changeset into a plan. Keep and fix entries carry no operation
// and are skipped.
func Build(cs *domain.ChangeSet) (*Plan, error) {
	steps := make([]Step, 0, cs.Len())
	for _, pkg := range cs.Packages() {
		action, _ := cs.Get(pkg)
		if _, ok := stepOrder[action]; !ok {
			continue
		}
		step := Step{Action: action, Name: pkg.Name.String(), Version: pkg.Version.String()}
		for _, o := range pkg.Origins {
			if !slices.Contains(step.Channels, o.Loader) {
				step.Channels = append(step.Channels, o.Loader)
			}
		}
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		return nil, domain.ErrNothingToCommit
	}

	// Packages() is already sorted; a stable sort keeps that order per action.
	slices.SortStableFunc(steps, func(a, b Step) int {
		return stepOrder[a.Action] - stepOrder[b.Action]
	})

	data, err := json.Marshal(steps)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrPlanWriteFailed.Error())
	}
	return &Plan{Digest: digest.FromBytes(data), Steps: steps}, nil
}

// Commit writes the plan of cs to path and returns the path written.
func (c *Committer) Commit(ctx context.Context, path string, cs *domain.ChangeSet) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p, err := Build(cs)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrPlanWriteFailed.Error())
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrStateDirCreateFailed.Error()), "path", path)
	}

	tmp := path + ".tmp"
	//nolint:gosec // Path comes from the validated configuration
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrPlanWriteFailed.Error()), "path", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", zerr.With(zerr.Wrap(err, domain.ErrPlanWriteFailed.Error()), "path", path)
	}
	return path, nil
}
