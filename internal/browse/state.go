package browse

import (
	"errors"
	"strings"

	apperrors "go-wallpaper-browser/internal/errors"
	"go-wallpaper-browser/pkg/models"
)

var (
	// ErrUnknownCategory is returned when a label is not in the category list
	ErrUnknownCategory = errors.New("unknown category")

	// ErrUnknownFilterField is returned when a field name is not a filter dimension
	ErrUnknownFilterField = errors.New("unknown filter field")

	// ErrInvalidFilterValue is returned when a filter value is outside its enumeration
	ErrInvalidFilterValue = errors.New("invalid filter value")
)

// IntentMode tells which request shape a QueryIntent produces
type IntentMode string

const (
	IntentDefault  IntentMode = "default"
	IntentSearch   IntentMode = "search"
	IntentCategory IntentMode = "category"
)

// QueryIntent is the user's browsing intent. A non-empty search term takes
// precedence over the category when building requests.
type QueryIntent struct {
	SearchText string          `json:"search_text"`
	Category   models.Category `json:"category,omitempty"`
}

// Mode reports the active intent mode
func (q QueryIntent) Mode() IntentMode {
	switch {
	case strings.TrimSpace(q.SearchText) != "":
		return IntentSearch
	case q.Category != "":
		return IntentCategory
	default:
		return IntentDefault
	}
}

// Cursor tracks the next page to request
type Cursor struct {
	Page    int  `json:"page"`
	HasMore bool `json:"has_more"`
}

func initialCursor() Cursor {
	return Cursor{Page: 1, HasMore: true}
}

// Outcome describes what an operation did
type Outcome string

const (
	// OutcomeNone means state changed but no fetch was attempted
	OutcomeNone Outcome = "none"
	// OutcomeFetched means a fetch ran and its result was applied
	OutcomeFetched Outcome = "fetched"
	// OutcomeFailed means a fetch ran and failed; prior results are kept
	OutcomeFailed Outcome = "failed"
	// OutcomeDropped means the fetch was skipped by a guard or its result discarded
	OutcomeDropped Outcome = "dropped"
)

// Snapshot is a read-only copy of the controller state for presentation
type Snapshot struct {
	SessionID     string              `json:"session_id,omitempty"`
	Photos        []models.Photo      `json:"photos"`
	Page          int                 `json:"page"`
	HasMore       bool                `json:"has_more"`
	Loading       bool                `json:"loading"`
	LastError     *apperrors.AppError `json:"last_error,omitempty"`
	Notice        string              `json:"notice,omitempty"`
	Intent        QueryIntent         `json:"intent"`
	Mode          IntentMode          `json:"mode"`
	Filters       models.FilterSet    `json:"filters"`
	Draft         models.FilterSet    `json:"draft"`
	ActiveFilters []ActiveFilter      `json:"active_filters"`
}
