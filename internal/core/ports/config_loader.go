package ports

import "go.trai.ch/depot/internal/core/domain"

// ConfigLoader defines the interface for loading the workspace configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads depot.yaml from the given working directory and returns the validated configuration.
	Load(cwd string) (*domain.Config, error)
}
