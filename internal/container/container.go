package container

import (
	"context"
	"fmt"
	"net/http"

	"go-wallpaper-browser/internal/config"
	"go-wallpaper-browser/internal/factory"
	"go-wallpaper-browser/internal/logger"
	"go-wallpaper-browser/internal/media"
	"go-wallpaper-browser/internal/observer"
	"go-wallpaper-browser/internal/pexels"
	"go-wallpaper-browser/internal/session"
	"go-wallpaper-browser/internal/storage"
	"go-wallpaper-browser/internal/transport"
	"go-wallpaper-browser/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config   *config.Config
	events   *observer.EventPublisher
	metrics  *observer.MetricsObserver
	sessions *session.Registry
	gateway  *media.Gateway
	sharer   media.Sharer
	handler  http.Handler
}

// NewContainer builds the dependency graph from cfg
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	events := observer.NewEventPublisher()
	metrics := observer.NewMetricsObserver("vixel")
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	photos := pexels.NewClient(cfg.Pexels.BaseURL, cfg.Pexels.APIKey, cfg.ImageFetchTimeout)
	sessions := session.NewRegistry(photos, events, cfg.MaxSessions)

	components := factory.NewComponentFactory(cfg)
	gallery, err := components.GalleryFactory.CreateGallery(ctx, factory.GalleryType(cfg.Gallery.Kind))
	if err != nil {
		return nil, fmt.Errorf("failed to create gallery: %w", err)
	}
	sharer, err := components.SharerFactory.CreateSharer(factory.SharerType(cfg.Share.Kind))
	if err != nil {
		return nil, fmt.Errorf("failed to create sharer: %w", err)
	}

	gateway := media.NewGateway(
		storage.NewHTTPFileFetcher(cfg.ImageFetchTimeout),
		gallery,
		sharer,
		media.WithPermission(media.StaticPermission(cfg.Media.AccessGranted)),
		media.WithValidator(validation.NewURLValidatorWithOptions([]string{"http", "https"}, cfg.Media.AllowedHosts)),
		media.WithScratchDir(cfg.Media.ScratchDir),
		media.WithEvents(events),
	)

	handler := transport.NewHandler(sessions, gateway, metrics.Handler(), cfg)

	logger.WithField("gallery", gallery.Name()).
		WithField("sharer", sharer.Name()).
		Info("Components initialized")

	return &Container{
		config:   cfg,
		events:   events,
		metrics:  metrics,
		sessions: sessions,
		gateway:  gateway,
		sharer:   sharer,
		handler:  handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Close disposes every session and releases the share connection
func (c *Container) Close() {
	c.sessions.DisposeAll()
	if closer, ok := c.sharer.(interface{ Close() }); ok {
		closer.Close()
	}
}
