package factory

import (
	"context"
	"fmt"

	"go-wallpaper-browser/internal/config"
	"go-wallpaper-browser/internal/media"
	"go-wallpaper-browser/internal/storage"
)

// GalleryType represents the media library backends
type GalleryType string

const (
	// LocalGallery keeps wallpapers in a directory
	LocalGallery GalleryType = "local"
	// AzureGallery uploads wallpapers to Azure Blob Storage
	AzureGallery GalleryType = "azure"
	// MinioGallery uploads wallpapers to an S3-compatible bucket
	MinioGallery GalleryType = "minio"
)

// SharerType represents the share mechanisms
type SharerType string

const (
	// NoSharer leaves sharing unavailable
	NoSharer SharerType = "none"
	// OutboxSharer copies shared wallpapers into a directory
	OutboxSharer SharerType = "outbox"
	// NATSSharer publishes shared wallpapers on a NATS subject
	NATSSharer SharerType = "nats"
)

// GalleryFactory creates galleries
type GalleryFactory interface {
	CreateGallery(ctx context.Context, galleryType GalleryType) (storage.Gallery, error)
}

// SharerFactory creates share mechanisms
type SharerFactory interface {
	CreateSharer(sharerType SharerType) (media.Sharer, error)
}

type galleryFactory struct {
	cfg config.GalleryConfig
}

// NewGalleryFactory creates a gallery factory
func NewGalleryFactory(cfg config.GalleryConfig) GalleryFactory {
	return &galleryFactory{cfg: cfg}
}

// CreateGallery creates a gallery based on the specified type
func (f *galleryFactory) CreateGallery(ctx context.Context, galleryType GalleryType) (storage.Gallery, error) {
	switch galleryType {
	case LocalGallery:
		return storage.NewLocalGallery(f.cfg.Dir)
	case AzureGallery:
		return storage.NewAzureGallery(ctx, f.cfg.AzureAccountName, f.cfg.AzureAccountKey, f.cfg.AzureContainer)
	case MinioGallery:
		return storage.NewMinioGallery(ctx, f.cfg.MinioEndpoint, f.cfg.MinioAccessKey,
			f.cfg.MinioSecretKey, f.cfg.MinioBucket, f.cfg.MinioUseSSL)
	default:
		return nil, fmt.Errorf("unsupported gallery type: %s", galleryType)
	}
}

type sharerFactory struct {
	cfg config.ShareConfig
}

// NewSharerFactory creates a sharer factory
func NewSharerFactory(cfg config.ShareConfig) SharerFactory {
	return &sharerFactory{cfg: cfg}
}

// CreateSharer creates a share mechanism based on the specified type
func (f *sharerFactory) CreateSharer(sharerType SharerType) (media.Sharer, error) {
	switch sharerType {
	case NoSharer:
		return media.UnavailableSharer{}, nil
	case OutboxSharer:
		return media.NewOutboxSharer(f.cfg.OutboxDir)
	case NATSSharer:
		return media.NewNATSSharer(f.cfg.NATSURL, f.cfg.NATSSubject, f.cfg.NATSTimeout)
	default:
		return nil, fmt.Errorf("unsupported sharer type: %s", sharerType)
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	GalleryFactory GalleryFactory
	SharerFactory  SharerFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		GalleryFactory: NewGalleryFactory(cfg.Gallery),
		SharerFactory:  NewSharerFactory(cfg.Share),
	}
}
