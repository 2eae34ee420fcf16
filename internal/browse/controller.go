package browse

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "go-wallpaper-browser/internal/errors"
	"go-wallpaper-browser/internal/logger"
	"go-wallpaper-browser/internal/observer"
	"go-wallpaper-browser/pkg/models"

	"github.com/sirupsen/logrus"
)

// Source fetches one page of photos for a request
type Source interface {
	Fetch(ctx context.Context, req models.PhotoRequest) ([]models.Photo, error)
}

type fetchMode string

const (
	modeReset  fetchMode = "reset"
	modeAppend fetchMode = "append"
)

// Option configures a Controller
type Option func(*Controller)

// WithEvents publishes fetch events to subject
func WithEvents(subject observer.Subject) Option {
	return func(c *Controller) {
		c.events = subject
	}
}

// WithSessionID tags events and logs with the owning session
func WithSessionID(id string) Option {
	return func(c *Controller) {
		c.sessionID = id
	}
}

// Controller owns query, filter and pagination state for one browsing
// session and turns user actions into photo page fetches.
//
// At most one fetch runs at a time. Any fetch-triggering call made while
// one is outstanding is dropped, not queued.
type Controller struct {
	source    Source
	events    observer.Subject
	sessionID string

	mu            sync.Mutex
	intent        QueryIntent
	filters       models.FilterSet
	draft         models.FilterSet
	cursor        Cursor
	photos        []models.Photo
	fetchInFlight bool
	lastError     *apperrors.AppError
	disposed      bool
}

// NewController creates a controller at the default curated feed with no
// results loaded. Nothing is fetched until an operation asks for it.
func NewController(source Source, opts ...Option) *Controller {
	c := &Controller{
		source:  source,
		filters: models.DefaultFilterSet(),
		draft:   models.DefaultFilterSet(),
		cursor:  initialCursor(),
		photos:  make([]models.Photo, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetSearchTerm stores the search text without fetching
func (c *Controller) SetSearchTerm(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.intent.SearchText = text
}

// SubmitSearch clears the category and reloads from page 1. Empty text falls
// back to the curated feed.
func (c *Controller) SubmitSearch(ctx context.Context) (Outcome, error) {
	return c.reset(ctx, func() {
		c.intent.Category = ""
	})
}

// SelectCategory switches to category mode for label, clearing the search text
func (c *Controller) SelectCategory(ctx context.Context, label string) (Outcome, error) {
	category, ok := models.ParseCategory(label)
	if !ok {
		appErr := apperrors.NewValidationError(fmt.Sprintf("unknown category %q", label), ErrUnknownCategory)
		if suggestion, found := models.SuggestCategory(label); found {
			appErr = appErr.WithDetails(fmt.Sprintf("did you mean %q?", suggestion))
		}
		return OutcomeNone, appErr
	}

	return c.reset(ctx, func() {
		c.intent.SearchText = ""
		c.intent.Category = category
	})
}

// ClearCategory returns to the default feed, or to the search term if one is set
func (c *Controller) ClearCategory(ctx context.Context) (Outcome, error) {
	return c.reset(ctx, func() {
		c.intent.Category = ""
	})
}

// OpenFilterPanel starts a draft from the live filter set
func (c *Controller) OpenFilterPanel() models.FilterSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = c.filters
	return c.draft
}

// UpdateFilterDraft stages a partial filter change. The live filter set is
// untouched until ApplyFilters.
func (c *Controller) UpdateFilterDraft(patch models.FilterPatch) (models.FilterSet, error) {
	if field, bad := patch.Invalid(); bad {
		return models.FilterSet{}, apperrors.NewValidationError(
			fmt.Sprintf("invalid value for filter %q", field), ErrInvalidFilterValue)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = patch.Apply(c.draft)
	return c.draft, nil
}

// ApplyFilters commits the draft and reloads from page 1
func (c *Controller) ApplyFilters(ctx context.Context) (Outcome, error) {
	return c.reset(ctx, func() {
		c.filters = c.draft
	})
}

// ResetFilters restores the draft to defaults without fetching
func (c *Controller) ResetFilters() models.FilterSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = models.DefaultFilterSet()
	return c.draft
}

// ClearFilterField restores one live filter to its default and reloads.
// The draft is left as it was.
func (c *Controller) ClearFilterField(ctx context.Context, field models.FilterField) (Outcome, error) {
	switch field {
	case models.FieldOrder, models.FieldOrientation, models.FieldColor:
	default:
		return OutcomeNone, apperrors.NewValidationError(
			fmt.Sprintf("unknown filter field %q", field), ErrUnknownFilterField)
	}

	return c.reset(ctx, func() {
		c.filters = c.filters.WithDefault(field)
	})
}

// LoadMore appends the next page. It is dropped while a fetch is in flight
// or once the last page has been seen.
func (c *Controller) LoadMore(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.disposed || c.fetchInFlight || !c.cursor.HasMore {
		c.mu.Unlock()
		c.publish(ctx, observer.Event{EventType: observer.FetchDropped, Mode: string(modeAppend)})
		return OutcomeDropped, nil
	}
	c.fetchInFlight = true
	req := BuildRequest(c.intent, c.filters, c.cursor.Page)
	c.mu.Unlock()

	return c.fetch(ctx, modeAppend, req, nil)
}

// Refresh reloads page 1 for the current intent and filters
func (c *Controller) Refresh(ctx context.Context) (Outcome, error) {
	return c.reset(ctx, func() {})
}

// DismissError clears the last fetch error
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastError = nil
}

// Photo looks up a loaded photo for full view
func (c *Controller) Photo(id int64) (models.Photo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.photos {
		if p.ID == id {
			return p, true
		}
	}
	return models.Photo{}, false
}

// ActiveFilters derives the active filter chips from the current state
func (c *Controller) ActiveFilters() []ActiveFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return DeriveActiveFilters(c.intent, c.filters)
}

// Perform runs the clear action attached to an active filter
func (c *Controller) Perform(ctx context.Context, action ClearAction) (Outcome, error) {
	switch action.Op {
	case OpClearCategory:
		return c.ClearCategory(ctx)
	case OpClearFilterField:
		return c.ClearFilterField(ctx, action.Field)
	default:
		return OutcomeNone, apperrors.NewValidationError(fmt.Sprintf("unknown clear action %q", action.Op), nil)
	}
}

// Snapshot returns a copy of the state for presentation
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	photos := make([]models.Photo, len(c.photos))
	copy(photos, c.photos)

	var notice string
	if c.lastError != nil {
		notice = observer.Notice(observer.Event{EventType: observer.FetchFailed, ErrorType: string(c.lastError.Type)})
	}

	return Snapshot{
		SessionID:     c.sessionID,
		Photos:        photos,
		Page:          c.cursor.Page,
		HasMore:       c.cursor.HasMore,
		Loading:       c.fetchInFlight,
		LastError:     c.lastError,
		Notice:        notice,
		Intent:        c.intent,
		Mode:          c.intent.Mode(),
		Filters:       c.filters,
		Draft:         c.draft,
		ActiveFilters: DeriveActiveFilters(c.intent, c.filters),
	}
}

// Dispose detaches the controller. Later operations are dropped and results
// of a fetch still in flight are discarded.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disposed = true
}

// reset applies mutate and reloads from page 1. When a fetch is already in
// flight the whole call, mutation included, is dropped.
func (c *Controller) reset(ctx context.Context, mutate func()) (Outcome, error) {
	c.mu.Lock()
	if c.disposed || c.fetchInFlight {
		c.mu.Unlock()
		c.publish(ctx, observer.Event{EventType: observer.FetchDropped, Mode: string(modeReset)})
		return OutcomeDropped, nil
	}
	prior := &checkpoint{intent: c.intent, filters: c.filters, cursor: c.cursor}
	mutate()
	c.cursor = initialCursor()
	c.fetchInFlight = true
	req := BuildRequest(c.intent, c.filters, c.cursor.Page)
	c.mu.Unlock()

	return c.fetch(ctx, modeReset, req, prior)
}

// checkpoint is the query state a failed reset rolls back to, so intent,
// filters and cursor keep describing the Result Set.
type checkpoint struct {
	intent  QueryIntent
	filters models.FilterSet
	cursor  Cursor
}

// fetch runs with fetchInFlight already set and always clears it. On failure
// the state is restored from prior when one is given.
func (c *Controller) fetch(ctx context.Context, mode fetchMode, req models.PhotoRequest, prior *checkpoint) (Outcome, error) {
	defer c.finishFetch()

	log := logger.WithFields(logrus.Fields{
		"session_id": c.sessionID,
		"mode":       mode,
		"endpoint":   req.Endpoint,
		"page":       req.Page,
	})
	c.publish(ctx, observer.Event{EventType: observer.FetchStarted, Mode: string(mode), Metadata: requestMetadata(req)})

	start := time.Now()
	photos, fetchErr := c.source.Fetch(ctx, req)
	elapsed := time.Since(start)

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		log.Debug("Discarding fetch result for disposed session")
		c.publish(ctx, observer.Event{EventType: observer.FetchDropped, Mode: string(mode), Duration: elapsed})
		return OutcomeDropped, nil
	}

	if fetchErr != nil {
		appErr := apperrors.NewFetchFailure("failed to load photos", fetchErr)
		c.lastError = appErr
		if prior != nil {
			c.intent = prior.intent
			c.filters = prior.filters
			c.cursor = prior.cursor
		}
		c.mu.Unlock()

		log.WithError(fetchErr).Warn("Photo fetch failed")
		c.publish(ctx, observer.Event{
			EventType:    observer.FetchFailed,
			Mode:         string(mode),
			Duration:     elapsed,
			ErrorType:    string(appErr.Type),
			ErrorMessage: fetchErr.Error(),
		})
		return OutcomeFailed, appErr
	}

	if mode == modeReset {
		c.photos = append(make([]models.Photo, 0, len(photos)), photos...)
		c.cursor.Page = 2
	} else {
		c.photos = append(c.photos, photos...)
		c.cursor.Page++
	}
	c.cursor.HasMore = len(photos) == models.PageSize
	c.lastError = nil
	total, hasMore := len(c.photos), c.cursor.HasMore
	c.mu.Unlock()

	log.WithFields(logrus.Fields{
		"received": len(photos),
		"total":    total,
		"has_more": hasMore,
	}).Debug("Photo page loaded")
	c.publish(ctx, observer.Event{
		EventType: observer.FetchCompleted,
		Mode:      string(mode),
		Duration:  elapsed,
		Success:   true,
		Metadata:  map[string]interface{}{"received": len(photos), "has_more": hasMore},
	})
	return OutcomeFetched, nil
}

func (c *Controller) finishFetch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchInFlight = false
}

func (c *Controller) publish(ctx context.Context, event observer.Event) {
	if c.events == nil {
		return
	}
	event.SessionID = c.sessionID
	c.events.NotifyObservers(ctx, event)
}

func requestMetadata(req models.PhotoRequest) map[string]interface{} {
	meta := map[string]interface{}{
		"endpoint": string(req.Endpoint),
		"page":     req.Page,
	}
	if req.Query != "" {
		meta["query"] = req.Query
	}
	if req.Orientation != "" {
		meta["orientation"] = string(req.Orientation)
	}
	if req.Color != "" {
		meta["color"] = string(req.Color)
	}
	return meta
}
