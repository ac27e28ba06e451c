package discovery

import "github.com/compasshq/fcx/internal/store"

// sharedArchitecturalBoundaries are entity types legitimately reachable from
// many features; past the entry point they must be depth-filtered or every
// feature discovers the whole codebase.
var sharedArchitecturalBoundaries = map[string]bool{
	store.EntStore:      true,
	store.EntService:    true,
	store.EntController: true,
	store.EntRepository: true,
	store.EntRequest:    true,
	store.EntModel:      true,
}

// architecturalBoundaries are the subset whose files self-validate during
// architectural pre-validation.
var architecturalBoundaries = map[string]bool{
	store.EntStore:      true,
	store.EntService:    true,
	store.EntController: true,
	store.EntRepository: true,
}

// deepEntityTypes are entity types subject to the deep-entity skip.
var deepEntityTypes = map[string]bool{
	store.EntModel:      true,
	store.EntController: true,
	store.EntService:    true,
	store.EntRequest:    true,
}

// Depth thresholds. Backward traversal is allowed deeper because it chases
// the caller chain (model -> service -> controller -> store); forward chains
// saturate fast, so deep forward targets are almost always pollution.
const (
	forwardEntityDepth      = 2
	forwardModelEntityDepth = 3
	backwardEntityDepth     = 4
	forwardMethodDepth      = 2
	backwardMethodDepth     = 4
)

// DepthFilterPolicy holds the pure depth predicates of the traversal. The
// entry point's entity type loosens the model rules when the feature starts
// at a model.
type DepthFilterPolicy struct {
	EntryEntityType string
}

// ShouldFilterEntity reports whether an entity of the given type must be
// skipped at this traversal depth.
func (p DepthFilterPolicy) ShouldFilterEntity(entityType string, depth int, dir Direction) bool {
	if !deepEntityTypes[entityType] {
		return false
	}
	if dir == Backward {
		return depth >= backwardEntityDepth
	}
	if entityType == store.EntModel {
		return depth >= forwardModelEntityDepth
	}
	return depth >= forwardEntityDepth
}

// ShouldFilterMethod reports whether a method reached at this depth is past
// the method threshold. The caller additionally checks the method's parent:
// only methods whose parent is a deep entity type (model, controller,
// service, request) are dropped.
func (p DepthFilterPolicy) ShouldFilterMethod(depth int, dir Direction) bool {
	if dir == Backward {
		return depth >= backwardMethodDepth
	}
	return depth >= forwardMethodDepth
}

// ShouldFilterSharedBoundary reports whether a shared architectural boundary
// entity reached past the entry point is too deep to discover.
func (p DepthFilterPolicy) ShouldFilterSharedBoundary(entityType string, depth int, dir Direction) bool {
	if depth == 0 || !sharedArchitecturalBoundaries[entityType] {
		return false
	}
	return p.ShouldFilterEntity(entityType, depth, dir)
}

// AllowDeepModelQueue reports whether a model may be queued for backward
// traversal at this depth. Models queue freely next to the entry point, and
// a bit deeper when the feature itself starts at a model.
func (p DepthFilterPolicy) AllowDeepModelQueue(depth int) bool {
	if depth < 1 {
		return true
	}
	return p.EntryEntityType == store.EntModel && depth <= 2
}

// IsSharedBoundary reports whether the entity type is a shared architectural
// boundary.
func IsSharedBoundary(entityType string) bool {
	return sharedArchitecturalBoundaries[entityType]
}

// IsArchitecturalBoundary reports whether the entity type self-validates its
// file during architectural pre-validation.
func IsArchitecturalBoundary(entityType string) bool {
	return architecturalBoundaries[entityType]
}
