package browse

import "go-wallpaper-browser/pkg/models"

// ActiveFilterKind names the dimension an active filter chip represents
type ActiveFilterKind string

const (
	KindCategory    ActiveFilterKind = "category"
	KindOrder       ActiveFilterKind = "order"
	KindOrientation ActiveFilterKind = "orientation"
	KindColor       ActiveFilterKind = "color"
)

// ClearOp is the controller operation a chip's clear action invokes
type ClearOp string

const (
	OpClearCategory    ClearOp = "clear_category"
	OpClearFilterField ClearOp = "clear_filter_field"
)

// ClearAction references the operation that removes an active filter
type ClearAction struct {
	Op    ClearOp            `json:"op"`
	Field models.FilterField `json:"field,omitempty"`
}

// ActiveFilter is one non-default dimension of the current browse state
type ActiveFilter struct {
	Kind   ActiveFilterKind `json:"kind"`
	Label  string           `json:"label"`
	Swatch string           `json:"swatch,omitempty"`
	Clear  ClearAction      `json:"clear"`
}

// DeriveActiveFilters lists, in display order, the selected category and
// every filter that differs from its default.
func DeriveActiveFilters(intent QueryIntent, filters models.FilterSet) []ActiveFilter {
	active := make([]ActiveFilter, 0, 4)

	if intent.Category != "" {
		active = append(active, ActiveFilter{
			Kind:  KindCategory,
			Label: string(intent.Category),
			Clear: ClearAction{Op: OpClearCategory},
		})
	}

	if filters.IsDefault() {
		return active
	}

	def := models.DefaultFilterSet()
	if filters.Order != def.Order {
		active = append(active, ActiveFilter{
			Kind:  KindOrder,
			Label: filters.Order.Label(),
			Clear: ClearAction{Op: OpClearFilterField, Field: models.FieldOrder},
		})
	}
	if filters.Orientation != def.Orientation {
		active = append(active, ActiveFilter{
			Kind:  KindOrientation,
			Label: filters.Orientation.Label(),
			Clear: ClearAction{Op: OpClearFilterField, Field: models.FieldOrientation},
		})
	}
	if filters.Color != def.Color {
		active = append(active, ActiveFilter{
			Kind:   KindColor,
			Label:  filters.Color.Label(),
			Swatch: filters.Color.Swatch(),
			Clear:  ClearAction{Op: OpClearFilterField, Field: models.FieldColor},
		})
	}
	return active
}
