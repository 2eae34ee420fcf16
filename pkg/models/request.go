package models

// Endpoint selects which photo API listing a request targets
type Endpoint string

const (
	EndpointSearch  Endpoint = "search"
	EndpointCurated Endpoint = "curated"
)

// PageSize is the fixed number of photos requested per page
const PageSize = 20

// PhotoRequest is the outbound request derived from browse state.
// Orientation and Color are empty when the corresponding filter is "all".
type PhotoRequest struct {
	Endpoint    Endpoint    `json:"endpoint"`
	Query       string      `json:"query,omitempty"`
	Page        int         `json:"page"`
	PerPage     int         `json:"per_page"`
	Orientation Orientation `json:"orientation,omitempty"`
	Color       Color       `json:"color,omitempty"`
}
