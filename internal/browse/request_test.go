package browse

import (
	"testing"

	"go-wallpaper-browser/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildRequest(t *testing.T) {
	defaults := models.DefaultFilterSet()

	tests := []struct {
		name    string
		intent  QueryIntent
		filters models.FilterSet
		page    int
		want    models.PhotoRequest
	}{
		{
			name:    "default feed",
			filters: defaults,
			page:    1,
			want:    models.PhotoRequest{Endpoint: models.EndpointCurated, Page: 1, PerPage: 20},
		},
		{
			name:    "search text is trimmed",
			intent:  QueryIntent{SearchText: "  city lights "},
			filters: defaults,
			page:    3,
			want:    models.PhotoRequest{Endpoint: models.EndpointSearch, Query: "city lights", Page: 3, PerPage: 20},
		},
		{
			name:    "blank search text uses curated feed",
			intent:  QueryIntent{SearchText: " \t "},
			filters: defaults,
			page:    1,
			want:    models.PhotoRequest{Endpoint: models.EndpointCurated, Page: 1, PerPage: 20},
		},
		{
			name:    "category",
			intent:  QueryIntent{Category: models.CategoryArchitecture},
			filters: defaults,
			page:    2,
			want:    models.PhotoRequest{Endpoint: models.EndpointSearch, Query: "Architecture", Page: 2, PerPage: 20},
		},
		{
			name:    "search text wins over category",
			intent:  QueryIntent{SearchText: "red cars", Category: models.CategoryCars},
			filters: defaults,
			page:    1,
			want:    models.PhotoRequest{Endpoint: models.EndpointSearch, Query: "red cars", Page: 1, PerPage: 20},
		},
		{
			name:    "latest order keeps curated endpoint",
			filters: models.FilterSet{Order: models.OrderLatest, Orientation: models.OrientationAll, Color: models.ColorAll},
			page:    1,
			want:    models.PhotoRequest{Endpoint: models.EndpointCurated, Page: 1, PerPage: 20},
		},
		{
			name:    "orientation and color only when not all",
			intent:  QueryIntent{Category: models.CategorySpace},
			filters: models.FilterSet{Order: models.OrderPopular, Orientation: models.OrientationLandscape, Color: models.ColorViolet},
			page:    1,
			want: models.PhotoRequest{
				Endpoint:    models.EndpointSearch,
				Query:       "Space",
				Page:        1,
				PerPage:     20,
				Orientation: models.OrientationLandscape,
				Color:       models.ColorViolet,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildRequest(tt.intent, tt.filters, tt.page))
		})
	}
}

func TestQueryIntent_Mode(t *testing.T) {
	assert.Equal(t, IntentDefault, QueryIntent{}.Mode())
	assert.Equal(t, IntentDefault, QueryIntent{SearchText: "  "}.Mode())
	assert.Equal(t, IntentSearch, QueryIntent{SearchText: "dogs"}.Mode())
	assert.Equal(t, IntentCategory, QueryIntent{Category: models.CategoryAnimals}.Mode())
	assert.Equal(t, IntentSearch, QueryIntent{SearchText: "dogs", Category: models.CategoryAnimals}.Mode())
}
