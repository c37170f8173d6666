package config

// RoadwayNetworkInputConfig mirrors RoadwayNetworkInputConfig.
type RoadwayNetworkInputConfig struct {
	Dir             string `yaml:"dir"`
	FileFormat      string `yaml:"file_format"`
	ReadInShapes    bool   `yaml:"read_in_shapes"`
	BoundaryGeocode string `yaml:"boundary_geocode,omitempty"`
	BoundaryFile    string `yaml:"boundary_file,omitempty"`
}

// RoadwayNetworkOutputConfig mirrors RoadwayNetworkOutputConfig.
type RoadwayNetworkOutputConfig struct {
	OutDir     string `yaml:"out_dir"`
	Prefix     string `yaml:"prefix,omitempty"`
	FileFormat string `yaml:"file_format"`
	TrueShape  bool   `yaml:"true_shape"`
	Write      bool   `yaml:"write"`
}

// TransitNetworkInputConfig mirrors TransitNetworkInputConfig.
type TransitNetworkInputConfig struct {
	Dir        string `yaml:"dir"`
	FileFormat string `yaml:"file_format"`
}

// TransitNetworkOutputConfig mirrors TransitNetworkOutputConfig.
type TransitNetworkOutputConfig struct {
	OutDir     string `yaml:"out_dir"`
	Prefix     string `yaml:"prefix,omitempty"`
	FileFormat string `yaml:"file_format"`
	Write      bool   `yaml:"write"`
}

// ProjectCardOutputConfig mirrors ProjectCardOutputConfig.
type ProjectCardOutputConfig struct {
	OutDir string `yaml:"out_dir"`
	Write  bool   `yaml:"write"`
}

// ScenarioInputConfig mirrors ScenarioInputConfig: the base scenario's
// networks plus what has already been applied to them.
type ScenarioInputConfig struct {
	Roadway         *RoadwayNetworkInputConfig `yaml:"roadway,omitempty"`
	Transit         *TransitNetworkInputConfig `yaml:"transit,omitempty"`
	AppliedProjects []string                   `yaml:"applied_projects"`
	Conflicts       map[string][]string        `yaml:"conflicts"`
}

// ScenarioOutputConfig mirrors ScenarioOutputConfig.
type ScenarioOutputConfig struct {
	Path         string                      `yaml:"path"`
	Roadway      RoadwayNetworkOutputConfig  `yaml:"roadway"`
	Transit      TransitNetworkOutputConfig  `yaml:"transit"`
	ProjectCards *ProjectCardOutputConfig    `yaml:"project_cards,omitempty"`
	Overwrite    bool                        `yaml:"overwrite"`
}

// ProjectsConfig mirrors ProjectsConfig: where to find project cards to
// apply on top of the base scenario.
type ProjectsConfig struct {
	ProjectCardFilepath []string `yaml:"project_card_filepath"`
	FilterTags          []string `yaml:"filter_tags"`
}

// ScenarioConfig is the top-level scenario config file shape spec.md
// §6's "Scenario config" section names, mirroring ScenarioConfig.
type ScenarioConfig struct {
	Name           string          `yaml:"name"`
	BaseScenario   ScenarioInputConfig  `yaml:"base_scenario"`
	Projects       ProjectsConfig       `yaml:"projects"`
	OutputScenario ScenarioOutputConfig `yaml:"output_scenario"`
	WranglerConfig WranglerConfig       `yaml:"wrangler_config"`
}
