package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// batchChunk bounds the number of placeholders in a single IN clause.
const batchChunk = 500

// GetSymbol returns the symbol with the given id, or nil if it does not exist.
func (s *Store) GetSymbol(id int64) (*Symbol, error) {
	row := s.db.QueryRow(`
		SELECT id, repo_id, name, symbol_type, COALESCE(entity_type, ''), COALESCE(file_id, 0)
		FROM symbols WHERE id = ?`, id)

	var sym Symbol
	err := row.Scan(&sym.ID, &sym.RepoID, &sym.Name, &sym.SymbolType, &sym.EntityType, &sym.FileID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get symbol %d: %w", id, err)
	}
	return &sym, nil
}

// GetSymbolsBatch returns the symbols for the given ids, keyed by id.
// Missing ids are simply absent from the result.
func (s *Store) GetSymbolsBatch(ids []int64) (map[int64]*Symbol, error) {
	result := make(map[int64]*Symbol, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	for start := 0; start < len(ids); start += batchChunk {
		end := start + batchChunk
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		query := `
			SELECT id, repo_id, name, symbol_type, COALESCE(entity_type, ''), COALESCE(file_id, 0)
			FROM symbols WHERE id IN (` + placeholders(len(chunk)) + `)`

		rows, err := s.db.Query(query, int64Args(chunk)...)
		if err != nil {
			return nil, fmt.Errorf("get symbols batch: %w", err)
		}

		for rows.Next() {
			var sym Symbol
			if err := rows.Scan(&sym.ID, &sym.RepoID, &sym.Name, &sym.SymbolType, &sym.EntityType, &sym.FileID); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan symbol: %w", err)
			}
			result[sym.ID] = &sym
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("symbols batch rows: %w", err)
		}
		rows.Close()
	}

	return result, nil
}

// placeholders returns "?,?,...,?" with n placeholders.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

// int64Args converts an id slice into query arguments.
func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
