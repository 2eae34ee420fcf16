package browse

import (
	"strings"

	"go-wallpaper-browser/pkg/models"
)

// BuildRequest derives the outbound photo request from browse state.
//
// A trimmed search term or a selected category targets the search endpoint;
// anything else targets the curated feed. The order filter never changes the
// endpoint: the curated feed is used for both Popular and Latest.
func BuildRequest(intent QueryIntent, filters models.FilterSet, page int) models.PhotoRequest {
	req := models.PhotoRequest{
		Endpoint: models.EndpointCurated,
		Page:     page,
		PerPage:  models.PageSize,
	}

	if text := strings.TrimSpace(intent.SearchText); text != "" {
		req.Endpoint = models.EndpointSearch
		req.Query = text
	} else if intent.Category != "" {
		req.Endpoint = models.EndpointSearch
		req.Query = string(intent.Category)
	}

	if filters.Orientation != models.OrientationAll && filters.Orientation != "" {
		req.Orientation = filters.Orientation
	}
	if filters.Color != models.ColorAll && filters.Color != "" {
		req.Color = filters.Color
	}
	return req
}
