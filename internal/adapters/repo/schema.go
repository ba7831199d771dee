package repo

// Index is the YAML document of one repository component.
type Index struct {
	Packages []*PackageDTO `yaml:"packages"`
}

// PackageDTO declares one package of an index. Relations use the
// "name [op version]" syntax.
type PackageDTO struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Provides    []string `yaml:"provides"`
	Requires    []string `yaml:"requires"`
	Obsoletes   []string `yaml:"obsoletes"`
	Conflicts   []string `yaml:"conflicts"`
	Priority    int      `yaml:"priority"`
	Summary     string   `yaml:"summary"`
	Description string   `yaml:"description"`
	URL         string   `yaml:"url"`
	Files       []string `yaml:"files"`
}
