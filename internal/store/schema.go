package store

// schemaSQL defines the graph schema the parser writes. The store only reads
// these tables; the DDL is here so tests and fresh parser runs can bootstrap
// an empty database.
const schemaSQL = `
-- code symbols across all indexed repositories
CREATE TABLE IF NOT EXISTS symbols (
    id INTEGER PRIMARY KEY,
    repo_id INTEGER NOT NULL DEFAULT 0,
    name TEXT NOT NULL,
    symbol_type TEXT NOT NULL,        -- class, method, function, interface, type, variable, property, enum, constant, file
    entity_type TEXT,                 -- store, component, composable, controller, service, model, request, ... (open set)
    file_id INTEGER
);

-- typed edges between symbols
CREATE TABLE IF NOT EXISTS dependencies (
    from_symbol_id INTEGER NOT NULL,
    to_symbol_id INTEGER NOT NULL,
    dependency_type TEXT NOT NULL,    -- calls, api_call, contains, imports, references
    PRIMARY KEY (from_symbol_id, to_symbol_id, dependency_type)
);

-- HTTP bridges between frontend callers and backend endpoints.
-- Either side may be NULL when only the path is known.
CREATE TABLE IF NOT EXISTS api_calls (
    caller_symbol_id INTEGER,
    endpoint_symbol_id INTEGER,
    http_method TEXT,
    path TEXT
);

-- indexed repositories and their detected frameworks
CREATE TABLE IF NOT EXISTS repositories (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    frameworks TEXT                   -- comma-separated, e.g. "vue,laravel"
);

CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file_id);
CREATE INDEX IF NOT EXISTS idx_deps_from ON dependencies(from_symbol_id, dependency_type);
CREATE INDEX IF NOT EXISTS idx_deps_to ON dependencies(to_symbol_id, dependency_type);
CREATE INDEX IF NOT EXISTS idx_api_calls_caller ON api_calls(caller_symbol_id);
CREATE INDEX IF NOT EXISTS idx_api_calls_endpoint ON api_calls(endpoint_symbol_id);
`
