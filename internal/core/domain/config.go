package domain

// Comparator names accepted in the configuration.
const (
	ComparatorRPM    = "rpm"
	ComparatorSemver = "semver"
)

// Config is the validated workspace configuration.
type Config struct {
	// Root is the directory the config file was loaded from. Relative paths resolve against it.
	Root        string
	Comparator  string
	UndoDepth   int
	StateDir    string
	MetricsFile string
	PlanFile    string
	Channels    []Channel
}

// Channel is one logical package source, possibly backed by several component indexes.
type Channel struct {
	Alias      string
	Name       string
	Priority   int
	Installed  bool
	Disabled   bool
	Components []string
}

// EnabledChannels returns the channels that are not disabled, in declaration order.
func (c *Config) EnabledChannels() []Channel {
	out := make([]Channel, 0, len(c.Channels))
	for _, ch := range c.Channels {
		if !ch.Disabled {
			out = append(out, ch)
		}
	}
	return out
}
