package store

import (
	"database/sql"
	"fmt"
)

// APICallsFrom returns api_call rows whose caller is one of the given ids.
func (s *Store) APICallsFrom(ids []int64) ([]ApiCall, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT caller_symbol_id, endpoint_symbol_id, COALESCE(http_method, ''), COALESCE(path, '')
		FROM api_calls WHERE caller_symbol_id IN (` + placeholders(len(ids)) + `)`

	return s.queryAPICalls(query, int64Args(ids))
}

// APICallsTo returns api_call rows whose endpoint is one of the given ids.
func (s *Store) APICallsTo(ids []int64) ([]ApiCall, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT caller_symbol_id, endpoint_symbol_id, COALESCE(http_method, ''), COALESCE(path, '')
		FROM api_calls WHERE endpoint_symbol_id IN (` + placeholders(len(ids)) + `)`

	return s.queryAPICalls(query, int64Args(ids))
}

func (s *Store) queryAPICalls(query string, args []any) ([]ApiCall, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("api calls: %w", err)
	}
	defer rows.Close()

	var calls []ApiCall
	for rows.Next() {
		var caller, endpoint sql.NullInt64
		var call ApiCall
		if err := rows.Scan(&caller, &endpoint, &call.HTTPMethod, &call.Path); err != nil {
			return nil, fmt.Errorf("scan api call: %w", err)
		}
		if caller.Valid {
			v := caller.Int64
			call.CallerID = &v
		}
		if endpoint.Valid {
			v := endpoint.Int64
			call.EndpointID = &v
		}
		calls = append(calls, call)
	}
	return calls, rows.Err()
}
