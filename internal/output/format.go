// Package output renders discovery results for the CLI and the MCP server.
package output

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/compasshq/fcx/internal/discovery"
	"github.com/compasshq/fcx/internal/store"
	"gopkg.in/yaml.v3"
)

// Format selects the rendering.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ScoredSymbol is one line of the rendered manifest.
type ScoredSymbol struct {
	ID         int64   `yaml:"id" json:"id"`
	Name       string  `yaml:"name" json:"name"`
	SymbolType string  `yaml:"symbol_type" json:"symbol_type"`
	EntityType string  `yaml:"entity_type,omitempty" json:"entity_type,omitempty"`
	Relevance  float64 `yaml:"relevance" json:"relevance"`
}

// Report is the rendered discovery result: symbols sorted by descending
// relevance, ties broken by id for stable output.
type Report struct {
	Feature string         `yaml:"feature,omitempty" json:"feature,omitempty"`
	Symbols []ScoredSymbol `yaml:"symbols" json:"symbols"`
	Stats   discovery.Stats `yaml:"stats" json:"stats"`
}

// BuildReport resolves the scored ids against the graph and orders them.
// Symbols the graph no longer knows are listed by id alone.
func BuildReport(graph discovery.GraphStore, feature string, result *discovery.Result) (*Report, error) {
	ids := make([]int64, 0, len(result.Symbols))
	for id := range result.Symbols {
		ids = append(ids, id)
	}

	symbols, err := graph.GetSymbolsBatch(ids)
	if err != nil {
		return nil, fmt.Errorf("resolve result symbols: %w", err)
	}

	report := &Report{Feature: feature, Stats: result.Stats}
	for id, score := range result.Symbols {
		entry := ScoredSymbol{ID: id, Relevance: score}
		if sym := symbols[id]; sym != nil {
			entry.Name = sym.Name
			entry.SymbolType = sym.SymbolType
			entry.EntityType = sym.EntityType
		}
		report.Symbols = append(report.Symbols, entry)
	}

	sort.Slice(report.Symbols, func(i, j int) bool {
		if report.Symbols[i].Relevance != report.Symbols[j].Relevance {
			return report.Symbols[i].Relevance > report.Symbols[j].Relevance
		}
		return report.Symbols[i].ID < report.Symbols[j].ID
	})

	return report, nil
}

// Render serializes the report in the requested format.
func Render(report *Report, format Format) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return "", fmt.Errorf("render json: %w", err)
		}
		return string(data), nil
	case FormatYAML, "":
		data, err := yaml.Marshal(report)
		if err != nil {
			return "", fmt.Errorf("render yaml: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

// RenderSymbol serializes a single symbol lookup.
func RenderSymbol(sym *store.Symbol, format Format) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(sym, "", "  ")
		if err != nil {
			return "", fmt.Errorf("render json: %w", err)
		}
		return string(data), nil
	case FormatYAML, "":
		data, err := yaml.Marshal(sym)
		if err != nil {
			return "", fmt.Errorf("render yaml: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}
