package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"
)

// Fetcher retrieves remote content for the update pipeline.
type Fetcher interface {
	// FetchText retrieves a text document, typically the appcast.
	FetchText(ctx context.Context, rawURL string) (string, error)
	// FetchBytes retrieves binary content, typically the update artifact.
	FetchBytes(ctx context.Context, rawURL string) ([]byte, error)
}

// ErrBadStatus reports a response with a non-OK HTTP status.
var ErrBadStatus = errors.New("unexpected http status")

// HTTPFetcher fetches content over HTTP(S) with a per-request timeout.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher whose requests time out after the provided duration.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// FetchText retrieves a text document from the provided URL.
func (f *HTTPFetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	data, err := f.FetchBytes(ctx, rawURL)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// FetchBytes retrieves binary content from the provided URL.
func (f *HTTPFetcher) FetchBytes(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	response, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s, %s: %w", rawURL, response.Status, ErrBadStatus)
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}

	return data, nil
}

// DownloadFile fetches the content behind rawURL into dir and returns the
// local path. The file is named after the last URL path element.
func DownloadFile(ctx context.Context, f Fetcher, rawURL, dir string) (string, error) {
	data, err := f.FetchBytes(ctx, rawURL)
	if err != nil {
		return "", err
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse artifact URL: %w", err)
	}

	name := path.Base(parsed.Path)
	if name == "." || name == "/" {
		name = "artifact"
	}

	outputPath := filepath.Clean(filepath.Join(dir, name))
	if err = os.WriteFile(outputPath, data, 0o600); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}

	return outputPath, nil
}
