package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go-wallpaper-browser/pkg/models"
)

// maxErrorBody caps how much of a failed response is kept for the error message
const maxErrorBody = 512

// Client talks to the Pexels v1 API
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a photo API client. baseURL is the API root, for example
// https://api.pexels.com/v1.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// BuildURL renders the request as an absolute URL. Parameters keep the order
// query, per_page, page, orientation, color.
func (c *Client) BuildURL(req models.PhotoRequest) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteByte('/')
	b.WriteString(string(req.Endpoint))
	b.WriteByte('?')

	if req.Endpoint == models.EndpointSearch {
		b.WriteString("query=")
		b.WriteString(url.QueryEscape(req.Query))
		b.WriteByte('&')
	}
	b.WriteString("per_page=")
	b.WriteString(strconv.Itoa(req.PerPage))
	b.WriteString("&page=")
	b.WriteString(strconv.Itoa(req.Page))

	if req.Orientation != "" {
		b.WriteString("&orientation=")
		b.WriteString(url.QueryEscape(string(req.Orientation)))
	}
	if req.Color != "" {
		b.WriteString("&color=")
		b.WriteString(url.QueryEscape(string(req.Color)))
	}
	return b.String()
}

// Fetch performs a single GET against the search or curated endpoint
func (c *Client) Fetch(ctx context.Context, req models.PhotoRequest) ([]models.Photo, error) {
	switch req.Endpoint {
	case models.EndpointSearch, models.EndpointCurated:
	default:
		return nil, fmt.Errorf("unsupported endpoint: %q", req.Endpoint)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BuildURL(req), nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	httpReq.Header.Set("Authorization", c.apiKey)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "Vixel/1.0")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var page models.PhotoPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if page.Photos == nil {
		return []models.Photo{}, nil
	}
	return page.Photos, nil
}
