// Package errs holds the error taxonomy shared by every component of the
// network editor. Errors are constructed with github.com/pkg/errors so
// callers can recover a stack trace with %+v at the boundary where they
// are finally logged.
package errs

import "github.com/pkg/errors"

// Format / parse errors (C1, selection dicts).
var (
	ErrTimeFormat      = errors.New("invalid time format")
	ErrTimespanFormat  = errors.New("invalid timespan format")
	ErrSegmentFormat   = errors.New("invalid segment format")
)

// Table DB errors (C3).
var (
	ErrTableValidation = errors.New("table validation failed")
	ErrForeignKeyValue = errors.New("foreign key value missing from referenced table")
)

// Scoped value errors (C2).
var (
	ErrScopeConflict   = errors.New("scoped value write conflicts with an existing scope")
	ErrScopeLinkValue  = errors.New("invalid scoped link value list")
	ErrInvalidScopedLinkValue = errors.New("invalid scoped link value")
)

// Selection errors (C6).
var (
	ErrSubnetCreation              = errors.New("subnet could not be created from the initial filter")
	ErrSubnetExpansion             = errors.New("subnet could not be expanded to reach the requested node")
	ErrSegmentSelection            = errors.New("no path found between segment endpoints")
	ErrSelection                   = errors.New("selection could not be resolved")
	ErrDataframeSelection          = errors.New("selection over table failed")
	ErrTransitSelectionEmpty       = errors.New("transit selection matched no trips")
	ErrTransitSelectionConsistency = errors.New("transit selection is inconsistent with the transit network")
)

// Roadway editor errors (C7).
var (
	ErrLinkAdd          = errors.New("error adding links")
	ErrLinkChange       = errors.New("error changing link property")
	ErrLinkCreation     = errors.New("error creating link")
	ErrLinkDeletion     = errors.New("error deleting links")
	ErrLinkNotFound     = errors.New("link not found")
	ErrNodeAdd          = errors.New("error adding nodes")
	ErrNodeChange       = errors.New("error applying node change")
	ErrNodeDeletion     = errors.New("error deleting nodes")
	ErrNodeNotFound     = errors.New("node not found")
	ErrNodesInLinksMissing = errors.New("nodes referenced by links are missing")
	ErrMissingNodes     = errors.New("referenced nodes are missing from the network")
	ErrShapeAdd         = errors.New("error adding shapes")
	ErrShapeDeletion    = errors.New("error deleting shapes")
	ErrManagedLaneAccessEgress = errors.New("error setting managed lane access/egress points")
	ErrRoadwayDeletion  = errors.New("error applying roadway deletion")
	ErrRoadwayPropertyChange = errors.New("error applying roadway property change")
	ErrExistingValueConflict = errors.New("asserted existing value did not match")
)

// Transit editor errors (C8).
var (
	ErrFeedRead                 = errors.New("error reading transit feed")
	ErrFeedValidation           = errors.New("transit feed validation failed")
	ErrTransitPropertyChange    = errors.New("error applying transit property change")
	ErrTransitRouteAdd          = errors.New("error applying transit route addition")
	ErrTransitRoutingChange     = errors.New("error applying transit routing change")
	ErrTransitRoadwayConsistency = errors.New("transit shape segment has no matching roadway link")
	ErrTransitValidation        = errors.New("transit network failed validation")
)

// Scenario orchestrator errors (C10).
var (
	ErrScenarioConflict     = errors.New("project conflicts with an already-applied project")
	ErrScenarioCorequisite  = errors.New("project corequisite is not queued")
	ErrScenarioPrerequisite = errors.New("project prerequisite has not been applied")
)

// ExistingValueConflictPolicy controls behavior when an editor's asserted
// `existing` value fails to match the current value.
type ExistingValueConflictPolicy string

const (
	ConflictPolicyError ExistingValueConflictPolicy = "error"
	ConflictPolicyWarn  ExistingValueConflictPolicy = "warn"
	ConflictPolicySkip  ExistingValueConflictPolicy = "skip"
)
