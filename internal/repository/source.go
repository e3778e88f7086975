package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by a Source when the requested resource does not exist.
var ErrNotFound = errors.New("resource not found")

const indexFile = "clients.json"

// Source serves the raw JSON data tree: one index of all clients and one
// bundle per client.
type Source interface {
	Index(ctx context.Context) ([]byte, error)
	Detail(ctx context.Context, clientID string) ([]byte, error)
}

// NewSource picks an HTTPSource for http(s) locations and a DirSource otherwise.
func NewSource(location string, opts ...HTTPOption) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(location, opts...)
	}
	return NewDirSource(location)
}

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) HTTPOption {
	return func(s *HTTPSource) {
		s.httpClient = httpClient
	}
}

// WithBaseURL overrides the base URL (used for testing).
func WithBaseURL(baseURL string) HTTPOption {
	return func(s *HTTPSource) {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// HTTPSource fetches the data tree from a static web location.
type HTTPSource struct {
	baseURL    string
	httpClient HTTPClient
}

// NewHTTPSource creates a source rooted at baseURL.
func NewHTTPSource(baseURL string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Index fetches clients.json.
func (s *HTTPSource) Index(ctx context.Context) ([]byte, error) {
	return s.get(ctx, s.baseURL+"/"+indexFile)
}

// Detail fetches <clientID>.json.
func (s *HTTPSource) Detail(ctx context.Context, clientID string) ([]byte, error) {
	if !validClientID(clientID) {
		return nil, fmt.Errorf("client %q: %w", clientID, ErrNotFound)
	}
	return s.get(ctx, s.baseURL+"/"+url.PathEscape(clientID)+".json")
}

func (s *HTTPSource) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, target)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

func statusError(statusCode int, target string) error {
	switch statusCode {
	case http.StatusNotFound, http.StatusGone:
		return fmt.Errorf("%s: %w", target, ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("data source denied access to %s (status %d)", target, statusCode)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("data source server error for %s (status %d)", target, statusCode)
	default:
		return fmt.Errorf("data source returned HTTP %d for %s", statusCode, target)
	}
}

// DirSource reads the data tree from a local directory.
type DirSource struct {
	dir string
}

// NewDirSource creates a source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Index reads clients.json.
func (s *DirSource) Index(ctx context.Context) ([]byte, error) {
	return s.read(ctx, indexFile)
}

// Detail reads <clientID>.json.
func (s *DirSource) Detail(ctx context.Context, clientID string) ([]byte, error) {
	if !validClientID(clientID) {
		return nil, fmt.Errorf("client %q: %w", clientID, ErrNotFound)
	}
	return s.read(ctx, clientID+".json")
}

// validClientID reports whether id names a single file in the data tree.
func validClientID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

func (s *DirSource) read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name)) // #nosec G304 -- client ids are checked by validClientID
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}
