package catalog

import (
	"sort"

	"resource-booking-backend/internal/model"
)

// categoryOrder is the fixed order of the well-known categories on the dashboard.
var categoryOrder = []string{"Room", "Vehicle", "Equipment", "Other"}

// Group is one dashboard section.
type Group struct {
	Category string        `json:"category"`
	Assets   []model.Asset `json:"assets"`
}

// GroupByCategory groups assets by type. Well-known categories come first in their
// fixed order, any other category follows alphabetically. Empty groups are omitted
// and assets keep their relative order.
func GroupByCategory(assets []model.Asset) []Group {
	byType := make(map[string][]model.Asset)
	for _, a := range assets {
		byType[a.Type] = append(byType[a.Type], a)
	}

	groups := make([]Group, 0, len(byType))
	for _, category := range categoryOrder {
		if members, ok := byType[category]; ok {
			groups = append(groups, Group{Category: category, Assets: members})
			delete(byType, category)
		}
	}

	rest := make([]string, 0, len(byType))
	for category := range byType {
		rest = append(rest, category)
	}
	sort.Strings(rest)
	for _, category := range rest {
		groups = append(groups, Group{Category: category, Assets: byType[category]})
	}
	return groups
}
