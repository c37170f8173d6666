package scenario

import "time"

// ManifestEntry records one project's successful application, in the
// order it was committed.
type ManifestEntry struct {
	Project   string
	AppliedAt time.Time
}

// Manifest is the write-order record of a scenario's applied projects,
// carrying a timestamp per entry rather than just the name list that
// config.ScenarioInputConfig.AppliedProjects round-trips.
type Manifest struct {
	Entries []ManifestEntry
}

func (m *Manifest) record(project string, at time.Time) {
	m.Entries = append(m.Entries, ManifestEntry{Project: project, AppliedAt: at})
}

// ProjectNames returns the applied project names in commit order,
// matching the shape config.ScenarioInputConfig.AppliedProjects expects
// for a subsequent run's base_scenario.
func (m Manifest) ProjectNames() []string {
	names := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		names[i] = e.Project
	}
	return names
}
