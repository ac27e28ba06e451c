package discovery

import "github.com/compasshq/fcx/internal/store"

// validatedEntityTypes are entity types whose files are self-validating:
// finding one proves the file belongs to the feature. Models are deliberately
// absent — validating a model's file would drag in every relationship method
// defined next to it.
var validatedEntityTypes = map[string]bool{
	store.EntStore:      true,
	store.EntService:    true,
	store.EntController: true,
	store.EntComponent:  true,
	store.EntRequest:    true,
	store.EntComposable: true,
}

// FileValidationPolicy decides whether a symbol survives file-level context
// filtering at depth > 1.
type FileValidationPolicy struct{}

// IsValidatedEntity reports whether the symbol's entity type self-validates.
func (FileValidationPolicy) IsValidatedEntity(sym *store.Symbol) bool {
	return sym != nil && validatedEntityTypes[sym.EntityType]
}

// ShouldValidateByFile reports whether the symbol passes file-level
// filtering: close to the entry point everything passes; deeper, only symbols
// whose file already contains a validated entity survive.
func (p FileValidationPolicy) ShouldValidateByFile(sym *store.Symbol, depth int, state *TraversalState) bool {
	if depth <= 1 {
		return true
	}
	if sym == nil || sym.FileID == 0 {
		return true
	}
	if p.IsValidatedEntity(sym) {
		return true
	}
	return state.IsFileValidated(sym.FileID)
}
