package store

import "fmt"

// EdgesFrom returns the target ids of outgoing edges from the given symbol,
// restricted to the given dependency types. Duplicates are not removed.
func (s *Store) EdgesFrom(id int64, depTypes []string) ([]int64, error) {
	if len(depTypes) == 0 {
		return nil, nil
	}

	query := `
		SELECT to_symbol_id FROM dependencies
		WHERE from_symbol_id = ? AND dependency_type IN (` + placeholders(len(depTypes)) + `)`

	args := append([]any{id}, stringArgs(depTypes)...)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("edges from %d: %w", id, err)
	}
	defer rows.Close()

	var targets []int64
	for rows.Next() {
		var to int64
		if err := rows.Scan(&to); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		targets = append(targets, to)
	}
	return targets, rows.Err()
}

// EdgesTo returns the source ids of incoming edges into the given symbol,
// restricted to the given dependency types.
func (s *Store) EdgesTo(id int64, depTypes []string) ([]int64, error) {
	if len(depTypes) == 0 {
		return nil, nil
	}

	query := `
		SELECT from_symbol_id FROM dependencies
		WHERE to_symbol_id = ? AND dependency_type IN (` + placeholders(len(depTypes)) + `)`

	args := append([]any{id}, stringArgs(depTypes)...)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("edges to %d: %w", id, err)
	}
	defer rows.Close()

	var sources []int64
	for rows.Next() {
		var from int64
		if err := rows.Scan(&from); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		sources = append(sources, from)
	}
	return sources, rows.Err()
}

// ChildrenOf returns the symbols structurally contained in the given symbol,
// restricted to the given symbol types.
func (s *Store) ChildrenOf(id int64, symbolTypes []string) ([]int64, error) {
	if len(symbolTypes) == 0 {
		return nil, nil
	}

	query := `
		SELECT d.to_symbol_id
		FROM dependencies d
		JOIN symbols c ON c.id = d.to_symbol_id
		WHERE d.from_symbol_id = ? AND d.dependency_type = ?
		  AND c.symbol_type IN (` + placeholders(len(symbolTypes)) + `)`

	args := append([]any{id, DepContains}, stringArgs(symbolTypes)...)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("children of %d: %w", id, err)
	}
	defer rows.Close()

	var children []int64
	for rows.Next() {
		var child int64
		if err := rows.Scan(&child); err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		children = append(children, child)
	}
	return children, rows.Err()
}

// FindMethodsReferencing returns the methods and functions contained in the
// given container that have a calls/references/imports edge to source.
// Used when walking into a container backward: only the members that actually
// touch the source symbol are worth following.
func (s *Store) FindMethodsReferencing(containerID, sourceID int64) ([]int64, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT m.to_symbol_id
		FROM dependencies m
		JOIN symbols ms ON ms.id = m.to_symbol_id
		JOIN dependencies r ON r.from_symbol_id = m.to_symbol_id
		WHERE m.from_symbol_id = ? AND m.dependency_type = ?
		  AND ms.symbol_type IN (?, ?)
		  AND r.to_symbol_id = ?
		  AND r.dependency_type IN (?, ?, ?)`,
		containerID, DepContains, SymMethod, SymFunction, sourceID,
		DepCalls, DepReferences, DepImports)
	if err != nil {
		return nil, fmt.Errorf("methods of %d referencing %d: %w", containerID, sourceID, err)
	}
	defer rows.Close()

	var methods []int64
	for rows.Next() {
		var m int64
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("scan method: %w", err)
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

// stringArgs converts a string slice into query arguments.
func stringArgs(vals []string) []any {
	args := make([]any, len(vals))
	for i, v := range vals {
		args[i] = v
	}
	return args
}
