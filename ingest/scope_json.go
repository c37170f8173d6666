package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/wsp-sag/network-wrangler-sub001/scope"
	"github.com/wsp-sag/network-wrangler-sub001/timespan"
)

// scopeItemJSON is the wire shape of a scope.Item in a CSV cell, e.g.
// `[{"category":"truck","timespan":["06:00","09:00"],"value":2}]`,
// mirroring spec §6's "list-like columns preserved as JSON arrays".
type scopeItemJSON struct {
	Category string    `json:"category"`
	Timespan [2]string `json:"timespan"`
	Value    any       `json:"value"`
}

// decodeScopeItems parses a JSON-array cell into scope.Items. An empty
// string decodes to nil (no scoped overrides).
func decodeScopeItems(cell string) ([]scope.Item, error) {
	if cell == "" {
		return nil, nil
	}
	var raw []scopeItemJSON
	if err := json.Unmarshal([]byte(cell), &raw); err != nil {
		return nil, fmt.Errorf("decoding scoped value cell %q: %w", cell, err)
	}
	items := make([]scope.Item, len(raw))
	for i, r := range raw {
		category := r.Category
		if category == "" {
			category = scope.DefaultCategory
		}
		ts, err := timespan.ParseList(r.Timespan[:])
		if err != nil {
			return nil, fmt.Errorf("decoding scoped value cell %q item %d: %w", cell, i, err)
		}
		items[i] = scope.Item{Category: category, Timespan: ts, Value: r.Value}
	}
	return items, nil
}

// encodeScopeItems is the inverse of decodeScopeItems, used by a
// CSV-emitting counterpart (spec §6's "Emission formats mirror
// ingestion"); kept alongside the decoder since the two must agree on
// wire shape.
func encodeScopeItems(items []scope.Item) (string, error) {
	if len(items) == 0 {
		return "", nil
	}
	raw := make([]scopeItemJSON, len(items))
	for i, it := range items {
		raw[i] = scopeItemJSON{
			Category: it.Category,
			Timespan: [2]string{it.Timespan.Start.String(), it.Timespan.End.String()},
			Value:    it.Value,
		}
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("encoding scoped value: %w", err)
	}
	return string(b), nil
}
