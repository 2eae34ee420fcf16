package browse

import (
	"testing"

	"go-wallpaper-browser/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveActiveFilters_Empty(t *testing.T) {
	assert.Empty(t, DeriveActiveFilters(QueryIntent{}, models.DefaultFilterSet()))
	assert.Empty(t, DeriveActiveFilters(QueryIntent{SearchText: "beach"}, models.DefaultFilterSet()))
}

func TestDeriveActiveFilters_ColorOnly(t *testing.T) {
	filters := models.DefaultFilterSet()
	filters.Color = models.ColorRed

	active := DeriveActiveFilters(QueryIntent{}, filters)

	require.Len(t, active, 1)
	assert.Equal(t, KindColor, active[0].Kind)
	assert.Equal(t, "Red", active[0].Label)
	assert.Equal(t, "#ff0000", active[0].Swatch)
	assert.Equal(t, ClearAction{Op: OpClearFilterField, Field: models.FieldColor}, active[0].Clear)
}

func TestDeriveActiveFilters_AllDimensions(t *testing.T) {
	intent := QueryIntent{Category: models.CategoryCars}
	filters := models.FilterSet{
		Order:       models.OrderLatest,
		Orientation: models.OrientationPortrait,
		Color:       models.ColorTurquoise,
	}

	active := DeriveActiveFilters(intent, filters)

	require.Len(t, active, 4)
	assert.Equal(t, []ActiveFilterKind{KindCategory, KindOrder, KindOrientation, KindColor},
		[]ActiveFilterKind{active[0].Kind, active[1].Kind, active[2].Kind, active[3].Kind})
	assert.Equal(t, "Cars", active[0].Label)
	assert.Equal(t, ClearAction{Op: OpClearCategory}, active[0].Clear)
	assert.Equal(t, "Latest", active[1].Label)
	assert.Equal(t, "Portrait", active[2].Label)
	assert.Equal(t, "Turquoise", active[3].Label)
}

func TestDeriveActiveFilters_Deterministic(t *testing.T) {
	intent := QueryIntent{Category: models.CategoryArt}
	filters := models.FilterSet{Order: models.OrderPopular, Orientation: models.OrientationSquare, Color: models.ColorAll}

	assert.Equal(t, DeriveActiveFilters(intent, filters), DeriveActiveFilters(intent, filters))
}
