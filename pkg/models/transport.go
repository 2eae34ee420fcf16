package models

// SearchTermRequest carries the free-text search term
type SearchTermRequest struct {
	Text string `json:"text"`
}

// CategoryRequest selects a category by label
type CategoryRequest struct {
	Label string `json:"label" binding:"required"`
}

// MediaRequest names the resource a media action operates on
type MediaRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
	Details string `json:"details,omitempty"`
	Notice  string `json:"notice,omitempty"`
}

// Catalog lists everything a client needs to render the browse controls
type Catalog struct {
	Categories   []Category `json:"categories"`
	Orders       []Option   `json:"orders"`
	Orientations []Option   `json:"orientations"`
	Colors       []Option   `json:"colors"`
	PageSize     int        `json:"page_size"`
}

// DefaultCatalog builds the catalog from the fixed enumerations
func DefaultCatalog() Catalog {
	return Catalog{
		Categories:   Categories,
		Orders:       OrderOptions,
		Orientations: OrientationOptions,
		Colors:       ColorOptions,
		PageSize:     PageSize,
	}
}

// DownloadResult describes a wallpaper committed to the gallery
type DownloadResult struct {
	Location string `json:"location"`
	Bytes    int64  `json:"bytes"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Notice   string `json:"notice,omitempty"`
}

// ShareResult describes a wallpaper handed to the share target
type ShareResult struct {
	Target string `json:"target"`
	Bytes  int64  `json:"bytes"`
	Format string `json:"format"`
}
