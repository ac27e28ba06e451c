package discovery

import "github.com/compasshq/fcx/internal/store"

// DirectionResolver computes the traversal direction for start symbols and
// for transitively discovered targets. Its rules are what keep one feature's
// traversal from collapsing into whole-codebase discovery: backward is only
// preserved along genuine caller chains, and shared service methods lose it
// as soon as they are reached transitively.
type DirectionResolver struct {
	graph GraphStore
}

// NewDirectionResolver returns a resolver reading parents from the graph.
func NewDirectionResolver(graph GraphStore) *DirectionResolver {
	return &DirectionResolver{graph: graph}
}

// StructuralParent returns the unique contains-parent of a symbol, or nil
// when it has none. Auxiliary component parents recorded via calls edges are
// not structural and are looked up separately where needed.
func (r *DirectionResolver) StructuralParent(id int64) (*store.Symbol, error) {
	parents, err := r.graph.EdgesTo(id, []string{store.DepContains})
	if err != nil {
		return nil, err
	}
	if len(parents) == 0 {
		return nil, nil
	}
	return r.graph.GetSymbol(parents[0])
}

// InitialDirection returns the direction for a depth-0 symbol. Entry service
// methods override their natural direction to Both: they bridge the caller
// chain above them and the models below them.
func (r *DirectionResolver) InitialDirection(sym *store.Symbol, role Role) (Direction, error) {
	dir := NaturalDirection(sym, role)

	if role == RoleExecutor && sym.SymbolType == store.SymMethod {
		parent, err := r.StructuralParent(sym.ID)
		if err != nil {
			return dir, err
		}
		if parent != nil && parent.EntityType == store.EntService {
			return Both, nil
		}
	}

	return dir, nil
}

// NextDirection returns the direction a transitively discovered target is
// enqueued with. cur is the direction the source was being traversed in and
// depth is the source's depth.
//
// Only depth 0 may hand Backward or Both to entities and containers; executor
// targets keep a backward chain alive only through controller/store parents
// near the entry point or along a pure caller chain.
func (r *DirectionResolver) NextDirection(cur Direction, targetRole Role, target *store.Symbol, depth int) (Direction, error) {
	switch targetRole {
	case RoleExecutor:
		return r.nextExecutorDirection(cur, target, depth)

	case RoleEntity, RoleContainer:
		nat := NaturalDirection(target, targetRole)
		if depth == 0 {
			return nat, nil
		}
		if nat == Backward || nat == Both {
			return Forward, nil
		}
		return nat, nil

	default: // RoleData: never enqueued, direction is moot
		return Forward, nil
	}
}

func (r *DirectionResolver) nextExecutorDirection(cur Direction, target *store.Symbol, depth int) (Direction, error) {
	parent, err := r.StructuralParent(target.ID)
	if err != nil {
		return Forward, err
	}

	parentType := ""
	if parent != nil {
		parentType = parent.EntityType
	}

	switch parentType {
	case store.EntController, store.EntStore:
		if depth <= 1 {
			if cur == Backward || cur == Both {
				return cur, nil
			}
			return NaturalDirection(target, RoleExecutor), nil
		}
		return Forward, nil

	case store.EntService:
		// A service method on a backward caller chain keeps chasing its
		// callers; one reached forward or from a bridge must not re-acquire
		// backward, or every shared base service drags in all its users.
		if cur == Backward {
			return Backward, nil
		}
		return Forward, nil

	default:
		if cur == Backward {
			return Backward, nil
		}
		return Forward, nil
	}
}
