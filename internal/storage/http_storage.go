package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// FileFetcher downloads a remote resource into a local file
type FileFetcher interface {
	FetchToFile(ctx context.Context, resourceURL, path string) (int64, error)
}

// HTTPFileFetcher implements FileFetcher over plain HTTP(S)
type HTTPFileFetcher struct {
	client *http.Client
}

// NewHTTPFileFetcher creates a fetcher whose whole transfer is bounded by timeout
func NewHTTPFileFetcher(timeout time.Duration) *HTTPFileFetcher {
	transport := &http.Transport{
		// Connection pooling sized for one image at a time
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPFileFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,

			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
	}
}

// FetchToFile downloads resourceURL into path in a single attempt. The file
// only appears at path once the body has been fully written.
func (h *HTTPFileFetcher) FetchToFile(ctx context.Context, resourceURL, path string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resourceURL, nil)
	if err != nil {
		return 0, fmt.Errorf("invalid URL: %w", err)
	}

	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, */*")
	req.Header.Set("User-Agent", "Vixel-Wallpaper-Browser/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return 0, fmt.Errorf("client error: status code %d", resp.StatusCode)
		}
		return 0, fmt.Errorf("server error: status code %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".partial-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	written, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(tmpName)
		if copyErr != nil {
			return 0, fmt.Errorf("failed to read body: %w", copyErr)
		}
		return 0, fmt.Errorf("failed to write file: %w", closeErr)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("failed to move file into place: %w", err)
	}
	return written, nil
}
