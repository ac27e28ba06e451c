package discovery

import "github.com/compasshq/fcx/internal/store"

// ContainerExpander turns container symbols into the executors they hold, so
// traversal always starts from code that actually runs.
type ContainerExpander struct {
	graph GraphStore
}

// NewContainerExpander returns an expander reading children from the graph.
func NewContainerExpander(graph GraphStore) *ContainerExpander {
	return &ContainerExpander{graph: graph}
}

// ExpandToExecutors maps each input id to the executors it stands for:
// executors and non-class entities pass through, containers expand to their
// contained methods and functions. A container with no executable children —
// a composable function acting as its own container — stands for itself.
func (e *ContainerExpander) ExpandToExecutors(ids []int64, symbols map[int64]*store.Symbol) ([]int64, error) {
	var out []int64
	seen := make(map[int64]struct{}, len(ids))

	add := func(id int64) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}

	for _, id := range ids {
		sym := symbols[id]
		if sym == nil {
			continue
		}

		switch Classify(sym) {
		case RoleExecutor:
			add(id)
		case RoleEntity:
			add(id)
		case RoleContainer:
			children, err := e.graph.ChildrenOf(id, []string{store.SymMethod, store.SymFunction})
			if err != nil {
				return nil, err
			}
			if len(children) == 0 {
				add(id)
				continue
			}
			for _, child := range children {
				add(child)
			}
		}
	}

	return out, nil
}
