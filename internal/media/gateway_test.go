package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	apperrors "go-wallpaper-browser/internal/errors"
	"go-wallpaper-browser/internal/observer"
	"go-wallpaper-browser/internal/storage"
	"go-wallpaper-browser/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

type fakeFetcher struct {
	body  []byte
	err   error
	calls int
	paths []string
}

func (f *fakeFetcher) FetchToFile(ctx context.Context, resourceURL, path string) (int64, error) {
	f.calls++
	f.paths = append(f.paths, path)
	if f.err != nil {
		return 0, f.err
	}
	if err := os.WriteFile(path, f.body, 0o644); err != nil {
		return 0, err
	}
	return int64(len(f.body)), nil
}

type fakeGallery struct {
	saved []string
	err   error
}

func (g *fakeGallery) Name() string { return "fake" }

func (g *fakeGallery) Save(ctx context.Context, path, name string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	g.saved = append(g.saved, name)
	return "mem://" + name, nil
}

type fakeSharer struct {
	available bool
	err       error
	shared    []ShareRequest
}

func (s *fakeSharer) Available() bool { return s.available }
func (s *fakeSharer) Name() string    { return "fake" }

func (s *fakeSharer) Share(ctx context.Context, req ShareRequest) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.shared = append(s.shared, req)
	return "fake-target", nil
}

type deniedWithError struct{}

func (deniedWithError) Request(ctx context.Context) (bool, error) {
	return false, errors.New("prompt dismissed")
}

type recorder struct{ events []observer.Event }

func (r *recorder) OnEvent(ctx context.Context, e observer.Event) { r.events = append(r.events, e) }
func (r *recorder) GetObserverName() string                       { return "recorder" }

const photoURL = "https://images.pexels.com/photos/1/pexels-photo-1.jpeg"

func TestDownloadToGallery_Success(t *testing.T) {
	scratch := t.TempDir()
	fetcher := &fakeFetcher{body: encodePNG(t, 4, 3)}
	gallery := &fakeGallery{}
	g := NewGateway(fetcher, gallery, nil,
		WithScratchDir(scratch),
		WithValidator(validation.NewURLValidator()),
	)
	g.now = func() time.Time { return time.UnixMilli(1700000000123) }

	result, err := g.DownloadToGallery(context.Background(), photoURL)
	require.NoError(t, err)

	require.Len(t, gallery.saved, 1)
	assert.Regexp(t, regexp.MustCompile(`^wallpaper_1700000000123_[0-9a-f-]{8}\.jpg$`), gallery.saved[0])
	assert.Equal(t, "mem://"+gallery.saved[0], result.Location)
	assert.Equal(t, int64(len(fetcher.body)), result.Bytes)
	assert.Equal(t, 4, result.Width)
	assert.Equal(t, 3, result.Height)
	assert.Equal(t, "png", result.Format)

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch file is removed")
}

func TestDownloadToGallery_PermissionDenied(t *testing.T) {
	for name, policy := range map[string]PermissionPolicy{
		"refused":       StaticPermission(false),
		"prompt failed": deniedWithError{},
	} {
		t.Run(name, func(t *testing.T) {
			fetcher := &fakeFetcher{body: encodePNG(t, 1, 1)}
			gallery := &fakeGallery{}
			g := NewGateway(fetcher, gallery, nil, WithPermission(policy), WithScratchDir(t.TempDir()))

			_, err := g.DownloadToGallery(context.Background(), photoURL)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypePermissionDenied))
			assert.Zero(t, fetcher.calls, "no transfer without permission")
			assert.Empty(t, gallery.saved)
		})
	}
}

func TestDownloadToGallery_InvalidURL(t *testing.T) {
	fetcher := &fakeFetcher{}
	g := NewGateway(fetcher, &fakeGallery{}, nil,
		WithValidator(validation.NewURLValidator()),
		WithScratchDir(t.TempDir()),
	)

	_, err := g.DownloadToGallery(context.Background(), "ftp://example.com/a.jpg")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Zero(t, fetcher.calls)
}

func TestDownloadToGallery_TransferErrors(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *fakeFetcher
		gallery *fakeGallery
	}{
		{"fetch fails", &fakeFetcher{err: errors.New("status 500")}, &fakeGallery{}},
		{"not an image", &fakeFetcher{body: []byte("<html>nope</html>")}, &fakeGallery{}},
		{"gallery fails", &fakeFetcher{body: encodePNG(t, 1, 1)}, &fakeGallery{err: errors.New("disk full")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scratch := t.TempDir()
			g := NewGateway(tt.fetcher, tt.gallery, nil, WithScratchDir(scratch))

			_, err := g.DownloadToGallery(context.Background(), photoURL)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeTransfer))
			assert.Empty(t, tt.gallery.saved)

			entries, _ := os.ReadDir(scratch)
			assert.Empty(t, entries)
		})
	}
}

func TestShareFile_Success(t *testing.T) {
	sharer := &fakeSharer{available: true}
	fetcher := &fakeFetcher{body: encodePNG(t, 2, 2)}
	g := NewGateway(fetcher, &fakeGallery{}, sharer, WithScratchDir(t.TempDir()))

	result, err := g.ShareFile(context.Background(), photoURL)
	require.NoError(t, err)
	assert.Equal(t, "fake-target", result.Target)
	assert.Equal(t, "png", result.Format)

	require.Len(t, sharer.shared, 1)
	assert.Equal(t, photoURL, sharer.shared[0].SourceURL)
	assert.Contains(t, filepath.Base(sharer.shared[0].Path), "wallpaper_share_")
}

func TestShareFile_Unavailable(t *testing.T) {
	for name, sharer := range map[string]Sharer{
		"unconfigured": nil,
		"offline":      &fakeSharer{available: false},
	} {
		t.Run(name, func(t *testing.T) {
			fetcher := &fakeFetcher{body: encodePNG(t, 1, 1)}
			g := NewGateway(fetcher, &fakeGallery{}, sharer, WithScratchDir(t.TempDir()))

			_, err := g.ShareFile(context.Background(), photoURL)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeSharingUnavailable))
			assert.Equal(t, 1, fetcher.calls, "availability is checked after the download")
		})
	}
}

func TestShareFile_TransferErrors(t *testing.T) {
	t.Run("fetch fails", func(t *testing.T) {
		sharer := &fakeSharer{available: true}
		g := NewGateway(&fakeFetcher{err: errors.New("timeout")}, &fakeGallery{}, sharer, WithScratchDir(t.TempDir()))

		_, err := g.ShareFile(context.Background(), photoURL)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeTransfer))
		assert.Empty(t, sharer.shared)
	})

	t.Run("share fails", func(t *testing.T) {
		sharer := &fakeSharer{available: true, err: errors.New("broken pipe")}
		g := NewGateway(&fakeFetcher{body: encodePNG(t, 1, 1)}, &fakeGallery{}, sharer, WithScratchDir(t.TempDir()))

		_, err := g.ShareFile(context.Background(), photoURL)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeTransfer))
	})
}

func TestGateway_PublishesEvents(t *testing.T) {
	publisher := observer.NewEventPublisher()
	rec := &recorder{}
	publisher.Subscribe(rec)

	g := NewGateway(&fakeFetcher{body: encodePNG(t, 1, 1)}, &fakeGallery{}, nil,
		WithScratchDir(t.TempDir()),
		WithEvents(publisher),
	)

	_, err := g.DownloadToGallery(context.Background(), photoURL)
	require.NoError(t, err)
	_, err = g.ShareFile(context.Background(), photoURL)
	require.Error(t, err)

	require.Len(t, rec.events, 2)
	assert.Equal(t, observer.DownloadCompleted, rec.events[0].EventType)
	assert.True(t, rec.events[0].Success)
	assert.Equal(t, observer.ShareFailed, rec.events[1].EventType)
	assert.Equal(t, string(apperrors.ErrorTypeSharingUnavailable), rec.events[1].ErrorType)
	assert.Equal(t, observer.NoticeShareUnavailable, observer.Notice(rec.events[1]))
}

func TestGateway_EndToEnd(t *testing.T) {
	body := encodePNG(t, 8, 6)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer server.Close()

	gallery, err := storage.NewLocalGallery(filepath.Join(t.TempDir(), "gallery"))
	require.NoError(t, err)
	outbox, err := NewOutboxSharer(filepath.Join(t.TempDir(), "outbox"))
	require.NoError(t, err)

	g := NewGateway(storage.NewHTTPFileFetcher(5*time.Second), gallery, outbox,
		WithScratchDir(t.TempDir()),
		WithValidator(validation.NewURLValidator()),
	)

	downloaded, err := g.DownloadToGallery(context.Background(), server.URL+"/photo.jpeg")
	require.NoError(t, err)
	saved, err := os.ReadFile(downloaded.Location)
	require.NoError(t, err)
	assert.Equal(t, body, saved)
	assert.Equal(t, 8, downloaded.Width)

	shared, err := g.ShareFile(context.Background(), server.URL+"/photo.jpeg")
	require.NoError(t, err)
	_, err = os.Stat(shared.Target)
	assert.NoError(t, err)
}
