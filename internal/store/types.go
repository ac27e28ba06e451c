package store

// Symbol is one row of the symbols table: a named code unit in the indexed
// codebase. EntityType is an open set; tags the classifier does not know are
// treated as unclassified.
type Symbol struct {
	ID         int64  `yaml:"id" json:"id"`
	RepoID     int64  `yaml:"repo_id" json:"repo_id"`
	Name       string `yaml:"name" json:"name"`
	SymbolType string `yaml:"symbol_type" json:"symbol_type"`
	EntityType string `yaml:"entity_type,omitempty" json:"entity_type,omitempty"`
	FileID     int64  `yaml:"file_id,omitempty" json:"file_id,omitempty"`
}

// ApiCall is one row of the api_calls table: an HTTP bridge from a frontend
// caller symbol to a backend endpoint symbol. Either side may be nil when the
// parser resolved only the path.
type ApiCall struct {
	CallerID   *int64 `yaml:"caller_id,omitempty" json:"caller_id,omitempty"`
	EndpointID *int64 `yaml:"endpoint_id,omitempty" json:"endpoint_id,omitempty"`
	HTTPMethod string `yaml:"http_method,omitempty" json:"http_method,omitempty"`
	Path       string `yaml:"path,omitempty" json:"path,omitempty"`
}

// Dependency edge types.
const (
	DepCalls      = "calls"
	DepAPICall    = "api_call"
	DepContains   = "contains"
	DepImports    = "imports"
	DepReferences = "references"
)

// Symbol types.
const (
	SymClass     = "class"
	SymMethod    = "method"
	SymFunction  = "function"
	SymInterface = "interface"
	SymType      = "type"
	SymVariable  = "variable"
	SymProperty  = "property"
	SymEnum      = "enum"
	SymConstant  = "constant"
	SymFile      = "file"
)

// Entity types the discovery policies care about. The column is an open set;
// anything else is unclassified.
const (
	EntStore      = "store"
	EntComponent  = "component"
	EntComposable = "composable"
	EntController = "controller"
	EntService    = "service"
	EntModel      = "model"
	EntRequest    = "request"
	EntRepository = "repository"
	EntJob        = "job"
	EntMiddleware = "middleware"
	EntMethod     = "method"
)
