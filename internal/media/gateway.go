package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	apperrors "go-wallpaper-browser/internal/errors"
	"go-wallpaper-browser/internal/logger"
	"go-wallpaper-browser/internal/observer"
	"go-wallpaper-browser/internal/storage"
	"go-wallpaper-browser/pkg/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// URLChecker rejects URLs that may not be fetched
type URLChecker interface {
	ValidateMediaURL(mediaURL string) error
}

// Option configures a Gateway
type Option func(*Gateway)

// WithPermission sets the media library permission policy. Access is granted
// when unset.
func WithPermission(p PermissionPolicy) Option {
	return func(g *Gateway) { g.permission = p }
}

// WithValidator checks every URL before anything is fetched
func WithValidator(v URLChecker) Option {
	return func(g *Gateway) { g.validator = v }
}

// WithScratchDir sets where downloads are staged before they are saved or shared
func WithScratchDir(dir string) Option {
	return func(g *Gateway) { g.scratchDir = dir }
}

// WithEvents publishes download and share outcomes to subject
func WithEvents(subject observer.Subject) Option {
	return func(g *Gateway) { g.events = subject }
}

// Gateway downloads wallpapers into the gallery and hands them to the share
// mechanism. The two actions share no state and never retry.
type Gateway struct {
	fetcher    storage.FileFetcher
	gallery    storage.Gallery
	sharer     Sharer
	permission PermissionPolicy
	validator  URLChecker
	scratchDir string
	events     observer.Subject
	now        func() time.Time
}

// NewGateway creates a gateway. Without options access is granted, any
// http(s) URL is accepted and scratch files go to the OS temp dir.
func NewGateway(fetcher storage.FileFetcher, gallery storage.Gallery, sharer Sharer, opts ...Option) *Gateway {
	g := &Gateway{
		fetcher:    fetcher,
		gallery:    gallery,
		sharer:     sharer,
		permission: StaticPermission(true),
		scratchDir: filepath.Join(os.TempDir(), "vixel"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.sharer == nil {
		g.sharer = UnavailableSharer{}
	}
	return g
}

// DownloadToGallery saves the image at url into the gallery. Access is
// requested first; when it is refused nothing is transferred.
func (g *Gateway) DownloadToGallery(ctx context.Context, url string) (*models.DownloadResult, error) {
	start := time.Now()
	log := logger.WithFields(logrus.Fields{"action": "download", "url": url})

	result, err := g.download(ctx, url)
	if err != nil {
		log.WithError(err).Warn("Download failed")
		g.publishFailure(ctx, observer.DownloadFailed, url, start, err)
		return nil, err
	}

	log.WithField("location", result.Location).Info("Wallpaper saved to gallery")
	g.publish(ctx, observer.Event{
		EventType: observer.DownloadCompleted,
		URL:       url,
		Duration:  time.Since(start),
		Success:   true,
		Metadata: map[string]interface{}{
			"location": result.Location,
			"bytes":    result.Bytes,
			"gallery":  g.gallery.Name(),
		},
	})
	return result, nil
}

func (g *Gateway) download(ctx context.Context, url string) (*models.DownloadResult, error) {
	granted, err := g.permission.Request(ctx)
	if err != nil || !granted {
		return nil, apperrors.NewPermissionDenied("media library access was not granted", err)
	}

	if err := g.validate(url); err != nil {
		return nil, err
	}

	path := g.scratchPath("wallpaper")
	defer os.Remove(path)

	n, info, err := g.fetch(ctx, url, path)
	if err != nil {
		return nil, err
	}

	location, err := g.gallery.Save(ctx, path, filepath.Base(path))
	if err != nil {
		return nil, apperrors.NewTransferError("failed to save to gallery", err)
	}

	return &models.DownloadResult{
		Location: location,
		Bytes:    n,
		Width:    info.Width,
		Height:   info.Height,
		Format:   info.Format,
	}, nil
}

// ShareFile fetches the image at url and hands it to the share mechanism.
// Availability is checked once the file is local.
func (g *Gateway) ShareFile(ctx context.Context, url string) (*models.ShareResult, error) {
	start := time.Now()
	log := logger.WithFields(logrus.Fields{"action": "share", "url": url, "sharer": g.sharer.Name()})

	result, err := g.share(ctx, url)
	if err != nil {
		log.WithError(err).Warn("Share failed")
		g.publishFailure(ctx, observer.ShareFailed, url, start, err)
		return nil, err
	}

	log.WithField("target", result.Target).Info("Wallpaper shared")
	g.publish(ctx, observer.Event{
		EventType: observer.ShareCompleted,
		URL:       url,
		Duration:  time.Since(start),
		Success:   true,
		Metadata: map[string]interface{}{
			"target": result.Target,
			"bytes":  result.Bytes,
			"sharer": g.sharer.Name(),
		},
	})
	return result, nil
}

func (g *Gateway) share(ctx context.Context, url string) (*models.ShareResult, error) {
	if err := g.validate(url); err != nil {
		return nil, err
	}

	path := g.scratchPath("wallpaper_share")
	defer os.Remove(path)

	n, info, err := g.fetch(ctx, url, path)
	if err != nil {
		return nil, err
	}

	if !g.sharer.Available() {
		return nil, apperrors.NewSharingUnavailable("sharing is not available on this device", nil)
	}

	target, err := g.sharer.Share(ctx, ShareRequest{Path: path, SourceURL: url, Info: info})
	if err != nil {
		return nil, apperrors.NewTransferError("failed to share wallpaper", err)
	}

	return &models.ShareResult{Target: target, Bytes: n, Format: info.Format}, nil
}

func (g *Gateway) validate(url string) error {
	if g.validator == nil {
		return nil
	}
	return g.validator.ValidateMediaURL(url)
}

// fetch downloads url to path and checks that it is an image
func (g *Gateway) fetch(ctx context.Context, url, path string) (int64, ImageInfo, error) {
	if err := os.MkdirAll(g.scratchDir, 0o755); err != nil {
		return 0, ImageInfo{}, apperrors.NewInternalError("failed to prepare scratch dir", err)
	}

	n, err := g.fetcher.FetchToFile(ctx, url, path)
	if err != nil {
		return 0, ImageInfo{}, apperrors.NewTransferError("failed to download wallpaper", err)
	}

	info, err := Inspect(path)
	if err != nil {
		return 0, ImageInfo{}, apperrors.NewTransferError("downloaded file is not an image", err)
	}
	return n, info, nil
}

// scratchPath names a file unique to this call: <prefix>_<unixms>_<id8>.jpg
func (g *Gateway) scratchPath(prefix string) string {
	name := fmt.Sprintf("%s_%d_%s.jpg", prefix, g.now().UnixMilli(), uuid.NewString()[:8])
	return filepath.Join(g.scratchDir, name)
}

func (g *Gateway) publishFailure(ctx context.Context, eventType observer.EventType, url string, start time.Time, err error) {
	event := observer.Event{
		EventType:    eventType,
		URL:          url,
		Duration:     time.Since(start),
		ErrorMessage: err.Error(),
	}
	if appErr, ok := apperrors.As(err); ok {
		event.ErrorType = string(appErr.Type)
	}
	g.publish(ctx, event)
}

func (g *Gateway) publish(ctx context.Context, event observer.Event) {
	if g.events == nil {
		return
	}
	g.events.NotifyObservers(ctx, event)
}
