package config

// Depotfile represents the structure of the depot.yaml configuration file.
type Depotfile struct {
	Version     string        `yaml:"version"`
	Comparator  string        `yaml:"comparator"`
	UndoDepth   int           `yaml:"undo-depth"`
	StateDir    string        `yaml:"state-dir"`
	MetricsFile string        `yaml:"metrics-file"`
	PlanFile    string        `yaml:"plan-file"`
	Channels    []*ChannelDTO `yaml:"channels"`
}

// ChannelDTO represents a channel definition in the configuration.
type ChannelDTO struct {
	Alias      string   `yaml:"alias"`
	Name       string   `yaml:"name"`
	Priority   int      `yaml:"priority"`
	Installed  bool     `yaml:"installed"`
	Disabled   bool     `yaml:"disabled"`
	Components []string `yaml:"components"`
}
