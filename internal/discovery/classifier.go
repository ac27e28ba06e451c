package discovery

import "github.com/compasshq/fcx/internal/store"

// architecturalEntityTypes are the entity tags that mark a symbol as part of
// the application architecture rather than plain code. The column is an open
// set; unknown tags fall through to the structural rules.
var architecturalEntityTypes = map[string]bool{
	store.EntStore:      true,
	store.EntComponent:  true,
	store.EntComposable: true,
	store.EntController: true,
	store.EntService:    true,
	store.EntModel:      true,
	store.EntRequest:    true,
	store.EntRepository: true,
	store.EntJob:        true,
	store.EntMiddleware: true,
	"notification":      true,
	"command":           true,
	"provider":          true,
	"resource":          true,
	"manager":           true,
	"handler":           true,
	"coordinator":       true,
	"engine":            true,
	"validator":         true,
	"adapter":           true,
	"factory":           true,
	"builder":           true,
	"pool":              true,
}

// dataSymbolTypes are symbol types that define shape rather than behavior.
var dataSymbolTypes = map[string]bool{
	store.SymInterface: true,
	store.SymType:      true,
	store.SymVariable:  true,
	store.SymProperty:  true,
	store.SymEnum:      true,
	store.SymConstant:  true,
}

// Classify maps a symbol to its traversal role.
func Classify(sym *store.Symbol) Role {
	if sym == nil {
		return RoleData
	}

	if dataSymbolTypes[sym.SymbolType] && !architecturalEntityTypes[sym.EntityType] {
		return RoleData
	}

	// Executable code is an executor no matter what it belongs to.
	// Composables execute even when recorded as variables.
	if sym.SymbolType == store.SymMethod || sym.SymbolType == store.SymFunction {
		return RoleExecutor
	}
	if sym.EntityType == store.EntComposable {
		return RoleExecutor
	}

	if architecturalEntityTypes[sym.EntityType] {
		// Stores are an execution boundary: never expanded like a class.
		if sym.EntityType == store.EntStore {
			return RoleEntity
		}
		if sym.SymbolType == store.SymClass {
			return RoleContainer
		}
		return RoleEntity
	}

	if sym.SymbolType == store.SymClass || sym.SymbolType == store.SymFile {
		return RoleContainer
	}

	return RoleData
}

// NaturalDirection returns the direction a symbol wants to be traversed in,
// encoding which layer of the stack it sits on. Backend leaves (models,
// services) look backward for their users; frontend leaves (components) and
// controller methods look forward for what they use.
func NaturalDirection(sym *store.Symbol, role Role) Direction {
	if sym == nil {
		return Forward
	}

	switch role {
	case RoleExecutor:
		switch sym.EntityType {
		case store.EntController:
			// Entry-point forward only; a controller method discovered
			// mid-traversal must not explode backward.
			return Forward
		case store.EntMethod:
			return Forward
		default:
			return Both
		}

	case RoleContainer, RoleEntity:
		switch sym.EntityType {
		case store.EntModel, store.EntService:
			return Backward
		case store.EntComponent:
			if sym.SymbolType != store.SymMethod {
				return Forward
			}
			return Both
		default:
			return Both
		}

	default: // RoleData: never traversed
		return Forward
	}
}
