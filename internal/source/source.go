// Package source fetches dataset text from the primary location and carries
// the embedded fallback copy.
package source

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// DefaultLocation is the primary dataset resource, resolved relative to the
// working directory unless it is an http(s) URL.
const DefaultLocation = "mpnn_results.csv"

// maxBodyBytes caps a fetched dataset.
const maxBodyBytes = 32 << 20

//go:embed data/mpnn_results.csv
var embedded string

var (
	// ErrUnavailable indicates the primary source answered but could not serve the dataset.
	ErrUnavailable = errors.New("data source unavailable")
	// ErrTooLarge indicates the dataset exceeded the fetch size limit.
	ErrTooLarge = errors.New("dataset too large")
)

// Embedded returns the CSV text built into the binary.
func Embedded() string {
	return embedded
}

// HTTPFetcher retrieves a dataset over HTTP.
type HTTPFetcher struct {
	url      string
	client   *http.Client
	maxBytes int64
}

// NewHTTPFetcher creates a fetcher for url. A nil client uses http.DefaultClient.
func NewHTTPFetcher(url string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{url: url, client: client, maxBytes: maxBodyBytes}
}

// WithMaxBytes sets the largest body Fetch accepts.
func (f *HTTPFetcher) WithMaxBytes(n int64) *HTTPFetcher {
	f.maxBytes = n
	return f
}

// Fetch GETs the dataset. Any non-2xx status is an error, as is a body over
// the size limit; a truncated dataset is never returned.
func (f *HTTPFetcher) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned %s", ErrUnavailable, f.url, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", f.url, err)
	}
	if int64(len(body)) > f.maxBytes {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, f.url, f.maxBytes)
	}
	return string(body), nil
}

// FileFetcher reads a dataset from the local filesystem.
type FileFetcher struct {
	path string
}

// NewFileFetcher creates a fetcher for path.
func NewFileFetcher(path string) *FileFetcher {
	return &FileFetcher{path: path}
}

// Fetch reads the file. Cancellation is checked before the read.
func (f *FileFetcher) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	body, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return string(body), nil
}

// Fetcher retrieves dataset text.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// New picks an HTTP fetcher for http(s) locations and a file fetcher
// otherwise. A file:// prefix is stripped.
func New(location string, client *http.Client) Fetcher {
	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return NewHTTPFetcher(location, client)
	case strings.HasPrefix(lower, "file://"):
		return NewFileFetcher(location[len("file://"):])
	default:
		return NewFileFetcher(location)
	}
}
