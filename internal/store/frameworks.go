package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// RepositoryFrameworks returns the frameworks the parser detected for a
// repository (e.g. "vue", "laravel"). Returns nil for unknown repositories.
func (s *Store) RepositoryFrameworks(repoID int64) ([]string, error) {
	row := s.db.QueryRow(`SELECT COALESCE(frameworks, '') FROM repositories WHERE id = ?`, repoID)

	var raw string
	err := row.Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository frameworks %d: %w", repoID, err)
	}

	var frameworks []string
	for _, f := range strings.Split(raw, ",") {
		f = strings.TrimSpace(f)
		if f != "" {
			frameworks = append(frameworks, f)
		}
	}
	return frameworks, nil
}
