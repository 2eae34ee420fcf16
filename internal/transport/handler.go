package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go-wallpaper-browser/internal/browse"
	"go-wallpaper-browser/internal/config"
	apperrors "go-wallpaper-browser/internal/errors"
	"go-wallpaper-browser/internal/logger"
	"go-wallpaper-browser/internal/observer"
	"go-wallpaper-browser/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SessionStore resolves browse sessions
type SessionStore interface {
	Create() (string, *browse.Controller, error)
	Get(id string) (*browse.Controller, error)
	Dispose(id string) error
}

// MediaActions performs download and share
type MediaActions interface {
	DownloadToGallery(ctx context.Context, url string) (*models.DownloadResult, error)
	ShareFile(ctx context.Context, url string) (*models.ShareResult, error)
}

// BrowseResponse is returned by every session operation. Error fields are
// set when the operation failed; the session snapshot is always current.
type BrowseResponse struct {
	Outcome browse.Outcome  `json:"outcome"`
	Session browse.Snapshot `json:"session"`
	*models.ErrorResponse
}

// failure is attached to a gin error so errorHandler can describe it
type failure struct {
	message string
	event   observer.EventType
}

type browseOp func(ctx context.Context, c *gin.Context, ctrl *browse.Controller) (browse.Outcome, error)

type handler struct {
	sessions SessionStore
	media    MediaActions
	cfg      *config.Config
}

func NewHandler(sessions SessionStore, media MediaActions, metrics http.Handler, cfg *config.Config) http.Handler {
	h := &handler{sessions: sessions, media: media, cfg: cfg}
	r := gin.Default()

	// Add middleware
	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/health", healthCheck)
	r.GET("/catalog", catalog)
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	r.POST("/sessions", h.createSession)
	s := r.Group("/sessions/:id")
	{
		s.GET("", h.sessionOp(snapshotOnly))
		s.DELETE("", h.disposeSession)

		s.PUT("/search-term", h.sessionOp(setSearchTerm))
		s.POST("/search", h.sessionOp(submitSearch))
		s.PUT("/category", h.sessionOp(selectCategory))
		s.DELETE("/category", h.sessionOp(clearCategory))

		s.POST("/filters/open", h.sessionOp(openFilterPanel))
		s.PATCH("/filters/draft", h.sessionOp(updateFilterDraft))
		s.POST("/filters/apply", h.sessionOp(applyFilters))
		s.POST("/filters/reset", h.sessionOp(resetFilters))
		s.DELETE("/filters/:field", h.sessionOp(clearFilterField))

		s.POST("/more", h.sessionOp(loadMore))
		s.POST("/refresh", h.sessionOp(refresh))
		s.DELETE("/error", h.sessionOp(dismissError))
		s.GET("/photos/:photoID", h.photo)
	}

	r.POST("/media/download", h.download)
	r.POST("/media/share", h.share)

	return r
}

func (h *handler) createSession(c *gin.Context) {
	id, ctrl, err := h.sessions.Create()
	if err != nil {
		respondError(c, apperrors.GetStatusCode(err), "failed to open session", err)
		return
	}

	logger.WithFields(logrus.Fields{
		"session_id": id,
		"ip":         c.ClientIP(),
	}).Info("Session opened")

	c.JSON(http.StatusCreated, BrowseResponse{Outcome: browse.OutcomeNone, Session: ctrl.Snapshot()})
}

func (h *handler) disposeSession(c *gin.Context) {
	if err := h.sessions.Dispose(c.Param("id")); err != nil {
		respondError(c, apperrors.GetStatusCode(err), "failed to close session", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// sessionOp resolves the session, runs op under the request timeout and
// replies with the outcome and a fresh snapshot
func (h *handler) sessionOp(op browseOp) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl, err := h.sessions.Get(c.Param("id"))
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "unknown session", err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
		defer cancel()

		startTime := time.Now()
		outcome, err := op(ctx, c, ctrl)
		resp := BrowseResponse{Outcome: outcome, Session: ctrl.Snapshot()}

		fields := logrus.Fields{
			"session_id":         c.Param("id"),
			"path":               c.FullPath(),
			"method":             c.Request.Method,
			"outcome":            outcome,
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		}
		if err != nil {
			code := apperrors.GetStatusCode(err)
			resp.ErrorResponse = errorBody(code, err)
			if apperrors.IsType(err, apperrors.ErrorTypeFetchFailure) {
				resp.Notice = noticeFor(observer.FetchFailed, err)
			}
			logger.WithError(err).WithFields(fields).Warn("Browse operation failed")
			c.AbortWithStatusJSON(code, resp)
			return
		}

		logger.WithFields(fields).Debug("Browse operation completed")
		c.JSON(http.StatusOK, resp)
	}
}

func snapshotOnly(ctx context.Context, c *gin.Context, ctrl *browse.Controller) (browse.Outcome, error) {
	return browse.OutcomeNone, nil
}

func setSearchTerm(ctx context.Context, c *gin.Context, ctrl *browse.Controller) (browse.Outcome, error) {
	var req models.SearchTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return browse.OutcomeNone, apperrors.NewValidationError("invalid request format", err)
	}
	ctrl.SetSearchTerm(req.Text)
	return browse.OutcomeNone, nil
}

func submitSearch(ctx context.Context, c *gin.Context, ctrl *browse.Controller) (browse.Outcome, error) {
	return ctrl.SubmitSearch(ctx)
}

func selectCategory(ctx context.Context, c *gin.Context, ctrl *browse.Controller) (browse.Outcome, error) {
	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return browse.OutcomeNone, apperrors.NewValidationError("invalid request format", err)
	}
	return ctrl.SelectCategory(ctx, req.Label)
}

func clearCategory(ctx context.Context, c *gin.Context, ctrl *browse.Controller) (browse.Outcome, error) {
	return ctrl.ClearCategory(ctx)
}

func openFilterPanel(ctx context.Context, c *gin.Context, ctrl *browse.Controller) (browse.Outcome, error) {
	ctrl.OpenFilterPanel()
	return browse.OutcomeNone, nil
}

func updateFilterDraft(ctx context.Context, c *gin.Context, ctrl *browse.Controller) (browse.Outcome, error) {
	var patch models.FilterPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		return browse.OutcomeNone, apperrors.NewValidationError("invalid request format", err)
	}
	if _, err := ctrl.UpdateFilterDraft(patch); err != nil {
		return browse.OutcomeNone, err
	}
	return browse.OutcomeNone, nil
}

func applyFilters(ctx context.Context, c *gin.Context, ctrl *browse.Controller) (browse.Outcome, error) {
	return ctrl.ApplyFilters(ctx)
}

func resetFilters(ctx context.Context, c *gin.Context, ctrl *browse.Controller) (browse.Outcome, error) {
	ctrl.ResetFilters()
	return browse.OutcomeNone, nil
}

func clearFilterField(ctx context.Context, c *gin.Context, ctrl *browse.Controller) (browse.Outcome, error) {
	field, ok := models.ParseFilterField(c.Param("field"))
	if !ok {
		field = models.FilterField(c.Param("field"))
	}
	return ctrl.ClearFilterField(ctx, field)
}

func loadMore(ctx context.Context, c *gin.Context, ctrl *browse.Controller) (browse.Outcome, error) {
	return ctrl.LoadMore(ctx)
}

func refresh(ctx context.Context, c *gin.Context, ctrl *browse.Controller) (browse.Outcome, error) {
	return ctrl.Refresh(ctx)
}

func dismissError(ctx context.Context, c *gin.Context, ctrl *browse.Controller) (browse.Outcome, error) {
	ctrl.DismissError()
	return browse.OutcomeNone, nil
}

func (h *handler) photo(c *gin.Context) {
	ctrl, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.GetStatusCode(err), "unknown session", err)
		return
	}

	id, err := strconv.ParseInt(c.Param("photoID"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid photo id",
			apperrors.NewValidationError("photo id must be an integer", err))
		return
	}

	p, ok := ctrl.Photo(id)
	if !ok {
		respondError(c, http.StatusNotFound, "photo not loaded",
			apperrors.NewNotFoundError(fmt.Sprintf("photo %d is not in the result set", id), nil))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"photo":       p,
		"preview_url": p.PreviewURL(),
		"full_url":    p.FullURL(),
	})
}

func (h *handler) download(c *gin.Context) {
	req, ok := bindMediaRequest(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	result, err := h.media.DownloadToGallery(ctx, req.URL)
	if err != nil {
		_ = c.Error(err).SetMeta(failure{message: "download failed", event: observer.DownloadFailed})
		return
	}
	result.Notice = noticeFor(observer.DownloadCompleted, nil)
	c.JSON(http.StatusOK, result)
}

func (h *handler) share(c *gin.Context) {
	req, ok := bindMediaRequest(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	result, err := h.media.ShareFile(ctx, req.URL)
	if err != nil {
		_ = c.Error(err).SetMeta(failure{message: "share failed", event: observer.ShareFailed})
		return
	}
	c.JSON(http.StatusOK, result)
}

func bindMediaRequest(c *gin.Context) (models.MediaRequest, bool) {
	var req models.MediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"ip": c.ClientIP(),
		}).Error("Invalid request format")
		respondError(c, http.StatusBadRequest, "invalid request format",
			apperrors.NewValidationError("invalid request format", err))
		return req, false
	}
	return req, true
}

// noticeFor returns the user-facing notice for an outcome
func noticeFor(event observer.EventType, err error) string {
	e := observer.Event{EventType: event}
	if appErr, ok := apperrors.As(err); ok {
		e.ErrorType = string(appErr.Type)
	}
	return observer.Notice(e)
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func catalog(c *gin.Context) {
	c.JSON(http.StatusOK, models.DefaultCatalog())
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		last := c.Errors.Last()
		message := "request processing failed"
		var notice string
		if meta, ok := last.Meta.(failure); ok {
			message = meta.message
			notice = noticeFor(meta.event, last.Err)
		}
		respondErrorWithNotice(c, determineStatusCode(last.Err), message, notice, last.Err)
	}
}

// determineStatusCode maps an error to its HTTP status. Running out of time
// wins over the error's own type.
func determineStatusCode(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return apperrors.GetStatusCode(err)
}

func errorBody(code int, err error) *models.ErrorResponse {
	body := &models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: err.Error(),
	}
	if appErr, ok := apperrors.As(err); ok {
		body.Message = appErr.Message
		body.Type = string(appErr.Type)
		body.Details = appErr.Details
	}
	return body
}

func respondError(c *gin.Context, code int, message string, err error) {
	respondErrorWithNotice(c, code, message, "", err)
}

func respondErrorWithNotice(c *gin.Context, code int, message, notice string, err error) {
	// Log the error with context
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	body := errorBody(code, err)
	body.Message = fmt.Sprintf("%s: %s", message, body.Message)
	body.Notice = notice
	c.AbortWithStatusJSON(code, body)
}
