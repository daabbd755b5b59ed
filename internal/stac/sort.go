package stac

import (
	"fmt"
	"strings"
)

// SortDirection represents the sort direction.
type SortDirection string

const (
	// SortAsc represents ascending sort order.
	SortAsc SortDirection = "asc"
	// SortDesc represents descending sort order.
	SortDesc SortDirection = "desc"
)

// SortbyItem represents a single sort criterion.
type SortbyItem struct {
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction"`
}

// ParseSortby parses the GET form of the sort extension: a comma separated
// list of fields, each optionally prefixed with "+" or "-".
func ParseSortby(s string) ([]SortbyItem, error) {
	var out []SortbyItem
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		item := SortbyItem{Direction: SortAsc}
		switch part[0] {
		case '-':
			item.Direction = SortDesc
			part = part[1:]
		case '+':
			part = part[1:]
		}
		if part == "" {
			return nil, fmt.Errorf("sortby entry has no field name")
		}
		item.Field = normalizeSortField(part)
		out = append(out, item)
	}
	return out, nil
}

// FormatSortby encodes items in the GET form accepted by STAC APIs.
func FormatSortby(items []SortbyItem) string {
	parts := make([]string, len(items))
	for i, item := range items {
		prefix := "+"
		if item.Direction == SortDesc {
			prefix = "-"
		}
		parts[i] = prefix + item.Field
	}
	return strings.Join(parts, ",")
}

// normalizeSortField qualifies bare item property names with "properties.".
func normalizeSortField(field string) string {
	switch field {
	case "id", "collection", "geometry", "bbox":
		return field
	}
	if strings.HasPrefix(field, "properties.") {
		return field
	}
	return "properties." + field
}
