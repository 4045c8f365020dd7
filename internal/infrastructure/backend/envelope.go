package backend

import (
	"bytes"
	"encoding/json"

	"github.com/healytics/healytics-client/internal/core/domain"
)

// decodeCollection normalizes the backend's two list shapes: a bare JSON
// array or a {results: [...]} pagination envelope. Any other shape is not
// treated as a failure; it degrades to an empty array collection.
func decodeCollection[T any](raw json.RawMessage) domain.Collection[T] {
	empty := domain.Collection[T]{Items: []T{}, Source: domain.SourceArray}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return empty
	}

	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return empty
		}
		if items == nil {
			items = []T{}
		}
		return domain.Collection[T]{Items: items, Source: domain.SourceArray}
	case '{':
		var envelope struct {
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return empty
		}
		results := bytes.TrimSpace(envelope.Results)
		if len(results) == 0 || results[0] != '[' {
			return empty
		}
		var items []T
		if err := json.Unmarshal(results, &items); err != nil {
			return empty
		}
		if items == nil {
			items = []T{}
		}
		return domain.Collection[T]{Items: items, Source: domain.SourcePaginated}
	default:
		return empty
	}
}
