package templates

import (
	"context"
	"embed"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

//go:embed presets/*.json
var presets embed.FS

// Source fetches one template document by file name.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// EmbeddedSource serves the presets bundled with the binary.
type EmbeddedSource struct{}

func (EmbeddedSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return presets.ReadFile(path.Join("presets", name))
}

// DirSource reads templates from a local directory.
type DirSource struct {
	Dir string
}

func (s DirSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("invalid template name: %s", name)
	}
	// #nosec G304 -- name is a bare file name inside the configured directory
	return os.ReadFile(filepath.Join(s.Dir, name))
}

// StaticPath is where the host serves the plugin's template documents.
const StaticPath = "/plugin/webhooks/static/templates/"

// HTTPSource fetches templates from the host's static file route.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource creates a source for the host at baseURL.
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+StaticPath+name, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("template %s: status %d", name, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}
