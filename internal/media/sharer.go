package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-wallpaper-browser/internal/logger"
	"go-wallpaper-browser/internal/storage"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// ShareRequest describes the file being handed off
type ShareRequest struct {
	Path      string
	SourceURL string
	Info      ImageInfo
}

// Sharer is the platform share mechanism
type Sharer interface {
	// Available reports whether a share can be attempted at all
	Available() bool
	// Share hands the file off and returns where it went
	Share(ctx context.Context, req ShareRequest) (string, error)
	Name() string
}

// UnavailableSharer is used when no share mechanism is configured
type UnavailableSharer struct{}

func (UnavailableSharer) Available() bool { return false }
func (UnavailableSharer) Name() string    { return "none" }

func (UnavailableSharer) Share(ctx context.Context, req ShareRequest) (string, error) {
	return "", fmt.Errorf("sharing is not available")
}

// OutboxSharer drops shared files into a directory watched by another process
type OutboxSharer struct {
	dir string
}

func NewOutboxSharer(dir string) (*OutboxSharer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create outbox dir %s: %w", dir, err)
	}
	return &OutboxSharer{dir: dir}, nil
}

func (s *OutboxSharer) Available() bool { return true }
func (s *OutboxSharer) Name() string    { return "outbox" }

func (s *OutboxSharer) Share(ctx context.Context, req ShareRequest) (string, error) {
	dest := filepath.Join(s.dir, filepath.Base(req.Path))
	if err := storage.CopyFile(req.Path, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// natsPublisher is the part of *nats.Conn the sharer needs
type natsPublisher interface {
	PublishMsg(m *nats.Msg) error
	FlushTimeout(timeout time.Duration) error
	MaxPayload() int64
	IsConnected() bool
}

// NATSSharer publishes the file bytes on a subject
type NATSSharer struct {
	conn    natsPublisher
	nc      *nats.Conn
	subject string
	timeout time.Duration
}

// NewNATSSharer connects to url and shares on subject
func NewNATSSharer(url, subject string, timeout time.Duration) (*NATSSharer, error) {
	log := logger.WithField("component", "nats_sharer")
	opts := []nats.Option{
		nats.Name("vixel-share"),
		nats.Timeout(timeout),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.WithError(err).Error("NATS error")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("NATS connection closed")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.WithError(err).Warn("NATS disconnected")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.WithField("url", nc.ConnectedUrl()).Info("Connected to NATS")

	return &NATSSharer{conn: nc, nc: nc, subject: subject, timeout: timeout}, nil
}

func (s *NATSSharer) Available() bool { return s.conn.IsConnected() }
func (s *NATSSharer) Name() string    { return "nats" }

func (s *NATSSharer) Share(ctx context.Context, req ShareRequest) (string, error) {
	data, err := os.ReadFile(req.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", req.Path, err)
	}
	if limit := s.conn.MaxPayload(); limit > 0 && int64(len(data)) > limit {
		return "", fmt.Errorf("file of %d bytes exceeds NATS max payload of %d", len(data), limit)
	}

	msg := nats.NewMsg(s.subject)
	msg.Data = data
	msg.Header.Set("Content-Type", "image/"+req.Info.Format)
	msg.Header.Set("X-File-Name", filepath.Base(req.Path))
	msg.Header.Set("X-Source-URL", req.SourceURL)

	if err := s.conn.PublishMsg(msg); err != nil {
		return "", fmt.Errorf("failed to publish on %s: %w", s.subject, err)
	}
	if err := s.conn.FlushTimeout(s.timeout); err != nil {
		return "", fmt.Errorf("failed to flush on %s: %w", s.subject, err)
	}

	logger.WithFields(logrus.Fields{
		"subject": s.subject,
		"bytes":   len(data),
	}).Debug("Wallpaper shared over NATS")
	return s.subject, nil
}

// Close drains the connection
func (s *NATSSharer) Close() {
	if s.nc != nil && !s.nc.IsClosed() {
		if err := s.nc.Drain(); err != nil {
			logger.WithError(err).Error("Error draining NATS connection")
		}
	}
}
