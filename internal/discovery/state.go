package discovery

// Safety limits for a single traversal.
const (
	// MaxVisitedNodes terminates the BFS early.
	MaxVisitedNodes = 50_000
	// MaxQueueSize bounds the traversal queue; on overflow the shallowest
	// items survive.
	MaxQueueSize = 10_000
)

// TraversalState owns the mutable sets of one traversal: the scored
// discoveries, the visited ids and the validated files. It is created per
// discovery call and never shared. Every discovered id is also visited.
type TraversalState struct {
	discovered     map[int64]float64
	visited        map[int64]struct{}
	validatedFiles map[int64]struct{}
}

// NewTraversalState returns an empty traversal state.
func NewTraversalState() *TraversalState {
	return &TraversalState{
		discovered:     make(map[int64]float64),
		visited:        make(map[int64]struct{}),
		validatedFiles: make(map[int64]struct{}),
	}
}

// AddDiscovered records a symbol at the given relevance and marks it visited.
// The first write wins: returns false without changing anything when the id
// is already discovered.
func (s *TraversalState) AddDiscovered(id int64, relevance float64) bool {
	if _, ok := s.discovered[id]; ok {
		return false
	}
	if relevance < 0 {
		relevance = 0
	} else if relevance > 1 {
		relevance = 1
	}
	s.discovered[id] = relevance
	s.visited[id] = struct{}{}
	return true
}

// IsDiscovered reports whether the id has been discovered.
func (s *TraversalState) IsDiscovered(id int64) bool {
	_, ok := s.discovered[id]
	return ok
}

// MarkVisited records the id as visited without discovering it.
func (s *TraversalState) MarkVisited(id int64) {
	s.visited[id] = struct{}{}
}

// IsVisited reports whether the id has been visited.
func (s *TraversalState) IsVisited(id int64) bool {
	_, ok := s.visited[id]
	return ok
}

// AddValidatedFile marks a file as containing an entity of interest.
func (s *TraversalState) AddValidatedFile(fileID int64) {
	if fileID != 0 {
		s.validatedFiles[fileID] = struct{}{}
	}
}

// IsFileValidated reports whether the file holds a previously validated entity.
func (s *TraversalState) IsFileValidated(fileID int64) bool {
	_, ok := s.validatedFiles[fileID]
	return ok
}

// Size returns the number of discovered symbols.
func (s *TraversalState) Size() int {
	return len(s.discovered)
}

// VisitedCount returns the number of visited symbols.
func (s *TraversalState) VisitedCount() int {
	return len(s.visited)
}

// HasExceeded reports whether the visited set has grown past maxNodes.
func (s *TraversalState) HasExceeded(maxNodes int) bool {
	return len(s.visited) > maxNodes
}

// Discovered returns the scored discoveries. The map is owned by the state;
// callers copy if they outlive it.
func (s *TraversalState) Discovered() map[int64]float64 {
	return s.discovered
}
