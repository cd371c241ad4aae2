package adapters

import (
	"context"
	"io"
	"net/http"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"target-platform/internal/ports"
	"target-platform/internal/shared"
	"target-platform/internal/types"
)

// RepositoryHTTPAdapter fetches repository YAML over HTTP. A URL ending in
// "/" is completed with content.yaml.
type RepositoryHTTPAdapter struct {
	URL    string
	User   string
	APIKey string
	http   httpRetryConfig
}

func NewRepositoryHTTPAdapter(url string, user string, apiKey string, cfg httpRetryConfig) RepositoryHTTPAdapter {
	if len(url) > 0 && url[len(url)-1] == '/' {
		url += RepositoryContentFile
	}
	return RepositoryHTTPAdapter{URL: url, User: user, APIKey: apiKey, http: cfg}
}

func (a RepositoryHTTPAdapter) Name() string {
	return a.URL
}

func (a RepositoryHTTPAdapter) ListUnits(ctx context.Context) ([]types.Unit, error) {
	resp, err := doRequest(ctx, a.URL, a.User, a.APIKey, a.http)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("repository not found").
			WithCause(shared.HTTPStatusError(resp.StatusCode, a.URL))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to fetch repository").
			WithCause(shared.HTTPStatusError(resp.StatusCode, a.URL))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read repository").
			WithCause(err)
	}
	return decodeRepository(data, a.URL)
}

var _ ports.RepositoryPort = RepositoryHTTPAdapter{}
