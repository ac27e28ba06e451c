// Package discovery finds the set of code symbols belonging to a feature by
// traversing the parser-built code graph from a single entry-point symbol.
//
// The engine runs registered strategies in priority order until the symbol
// set stops growing. The cross-stack strategy bridges frontend and backend
// symbols through recorded HTTP calls; the dependency-traversal strategy is a
// direction- and depth-aware BFS with per-entity-type pollution prevention.
// Both read the graph through the narrow GraphStore port and exchange only
// symbol ids and relevance scores.
package discovery
