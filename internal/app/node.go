package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/depot/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/depot/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/depot/internal/adapters/metrics"            //nolint:depguard // Wired in app layer
	"go.trai.ch/depot/internal/adapters/plan"               //nolint:depguard // Wired in app layer
	"go.trai.ch/depot/internal/adapters/repo"               //nolint:depguard // Wired in app layer
	"go.trai.ch/depot/internal/adapters/session"            //nolint:depguard // Wired in app layer
	"go.trai.ch/depot/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/depot/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components bundles the App with the adapters main needs directly.
type Components struct {
	App       *App
	Logger    ports.Logger
	Telemetry ports.Telemetry
}

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			repo.NodeID,
			session.NodeID,
			plan.NodeID,
			logger.NodeID,
			progrock.NodeID,
			metrics.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log, Telemetry: telemetry}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	opener, err := graft.Dep[ports.SourceOpener](ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := graft.Dep[ports.SessionStore](ctx)
	if err != nil {
		return nil, err
	}

	committer, err := graft.Dep[ports.Committer](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	m, err := graft.Dep[ports.Metrics](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, opener, sessions, committer, log, telemetry, m), nil
}
