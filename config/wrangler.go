// Package config implements the WranglerConfig/ScenarioConfig knobs
// spec.md §6 names, loaded from yaml via gopkg.in/yaml.v3, grounded on
// configs/wrangler.py and configs/scenario.py's field layout and
// defaults.
package config

// IDGenerationMethod selects how a new id is minted: by adding a fixed
// scalar, or by drawing from a numeric range.
type IDGenerationMethod string

const (
	IDMethodScalar IDGenerationMethod = "scalar"
	IDMethodRange  IDGenerationMethod = "range"
)

// IDsConfig mirrors IdGenerationConfig: how shape/managed-lane link and
// node ids are generated when an editor needs a fresh one.
type IDsConfig struct {
	TransitShapeIDMethod IDGenerationMethod `yaml:"TRANSIT_SHAPE_ID_METHOD"`
	TransitShapeIDScalar int                `yaml:"TRANSIT_SHAPE_ID_SCALAR"`
	RoadShapeIDMethod    IDGenerationMethod `yaml:"ROAD_SHAPE_ID_METHOD"`
	RoadShapeIDScalar    int                `yaml:"ROAD_SHAPE_ID_SCALAR"`
	MLLinkIDMethod       IDGenerationMethod `yaml:"ML_LINK_ID_METHOD"`
	MLLinkIDRange        [2]int             `yaml:"ML_LINK_ID_RANGE"`
	MLLinkIDScalar       int                `yaml:"ML_LINK_ID_SCALAR"`
	MLNodeIDMethod       IDGenerationMethod `yaml:"ML_NODE_ID_METHOD"`
	MLNodeIDRange        [2]int             `yaml:"ML_NODE_ID_RANGE"`
	MLNodeIDScalar       int                `yaml:"ML_NODE_ID_SCALAR"`
}

// OverwriteScopedPolicy mirrors EditsConfig.OVERWRITE_SCOPED's
// "conflicting"/"all"/false tri-state.
type OverwriteScopedPolicy string

const (
	OverwriteScopedConflicting OverwriteScopedPolicy = "conflicting"
	OverwriteScopedAll         OverwriteScopedPolicy = "all"
	OverwriteScopedNone        OverwriteScopedPolicy = "false"
)

// EditsConfig mirrors EditsConfig.
type EditsConfig struct {
	ExistingValueConflictError bool                  `yaml:"EXISTING_VALUE_CONFLICT_ERROR"`
	OverwriteScoped            OverwriteScopedPolicy `yaml:"OVERWRITE_SCOPED"`
}

// ModelRoadwayConfig mirrors ModelRoadwayConfig.
type ModelRoadwayConfig struct {
	MLOffsetMeters                 float64  `yaml:"ML_OFFSET_METERS"`
	AdditionalCopyFromGPToML       []string `yaml:"ADDITIONAL_COPY_FROM_GP_TO_ML"`
	AdditionalCopyToAccessEgress   []string `yaml:"ADDITIONAL_COPY_TO_ACCESS_EGRESS"`
}

// CPUConfig mirrors CpuConfig: estimated pandas-style read speed per
// format, used only to size progress estimates, never outcomes.
type CPUConfig struct {
	EstReadSpeedSecPerMB map[string]float64 `yaml:"EST_PD_READ_SPEED"`
}

// WranglerConfig is the full runtime-knob config spec §6 describes.
type WranglerConfig struct {
	IDs           IDsConfig          `yaml:"IDS"`
	Edits         EditsConfig        `yaml:"EDITS"`
	ModelRoadway  ModelRoadwayConfig `yaml:"MODEL_ROADWAY"`
	CPU           CPUConfig          `yaml:"CPU"`
}

// Default mirrors DefaultConfig: the wrangler defaults used when a
// scenario config omits wrangler_config entirely.
func Default() WranglerConfig {
	return WranglerConfig{
		IDs: IDsConfig{
			TransitShapeIDMethod: IDMethodScalar,
			TransitShapeIDScalar: 1_000_000,
			RoadShapeIDMethod:    IDMethodScalar,
			RoadShapeIDScalar:    1_000,
			MLLinkIDMethod:       IDMethodRange,
			MLLinkIDRange:        [2]int{950_000, 999_999},
			MLLinkIDScalar:       15_000,
			MLNodeIDMethod:       IDMethodRange,
			MLNodeIDRange:        [2]int{950_000, 999_999},
			MLNodeIDScalar:       15_000,
		},
		Edits: EditsConfig{
			ExistingValueConflictError: true,
			OverwriteScoped:            OverwriteScopedConflicting,
		},
		ModelRoadway: ModelRoadwayConfig{
			MLOffsetMeters: -10,
		},
		CPU: CPUConfig{
			EstReadSpeedSecPerMB: map[string]float64{
				"csv": 0.03, "parquet": 0.005, "geojson": 0.03, "json": 0.15, "txt": 0.04,
			},
		},
	}
}
