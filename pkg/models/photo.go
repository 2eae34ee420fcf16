package models

// PhotoSource holds the rendition URLs the photo API returns for a photo
type PhotoSource struct {
	Original  string `json:"original"`
	Large2x   string `json:"large2x,omitempty"`
	Large     string `json:"large,omitempty"`
	Medium    string `json:"medium"`
	Small     string `json:"small,omitempty"`
	Portrait  string `json:"portrait,omitempty"`
	Landscape string `json:"landscape,omitempty"`
	Tiny      string `json:"tiny,omitempty"`
}

// Photo is a single result item. Only ID, the preview and the full URL are
// interpreted by the browse controller; the rest is carried through.
type Photo struct {
	ID              int64       `json:"id"`
	Width           int         `json:"width"`
	Height          int         `json:"height"`
	URL             string      `json:"url,omitempty"`
	Photographer    string      `json:"photographer,omitempty"`
	PhotographerURL string      `json:"photographer_url,omitempty"`
	AvgColor        string      `json:"avg_color,omitempty"`
	Alt             string      `json:"alt,omitempty"`
	Src             PhotoSource `json:"src"`
}

// PreviewURL returns the grid-sized rendition
func (p Photo) PreviewURL() string {
	return p.Src.Medium
}

// FullURL returns the full-resolution rendition used for download and share
func (p Photo) FullURL() string {
	return p.Src.Original
}

// PhotoPage is the envelope both photo endpoints respond with
type PhotoPage struct {
	Photos []Photo `json:"photos"`
}
