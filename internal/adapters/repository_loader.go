package adapters

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"target-platform/internal/ports"
	"target-platform/internal/types"
)

// RepositoryLoaderAdapter opens repository references by scheme: http(s)
// URLs go through the retrying HTTP adapter, everything else is a local
// file or directory relative to BaseDir.
type RepositoryLoaderAdapter struct {
	BaseDir string
	User    string
	APIKey  string
	http    httpRetryConfig
}

func NewRepositoryLoaderAdapter(baseDir string, timeoutSec int, retries int, delayMs int) RepositoryLoaderAdapter {
	return RepositoryLoaderAdapter{
		BaseDir: baseDir,
		http:    normalizeHTTPConfig(timeoutSec, retries, delayMs),
	}
}

// WithCredentials returns a copy that sends basic auth to HTTP repositories.
func (a RepositoryLoaderAdapter) WithCredentials(user string, apiKey string) RepositoryLoaderAdapter {
	a.User = user
	a.APIKey = apiKey
	return a
}

func (a RepositoryLoaderAdapter) Open(ctx context.Context, ref types.RepositoryRef) (ports.RepositoryPort, error) {
	location := strings.TrimSpace(ref.Location)
	if location == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("repository location is empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if isHTTPLocation(location) {
		return NewRepositoryHTTPAdapter(location, a.User, a.APIKey, a.http), nil
	}
	path := strings.TrimPrefix(location, "file://")
	if !filepath.IsAbs(path) && a.BaseDir != "" {
		path = filepath.Join(a.BaseDir, path)
	}
	return NewRepositoryFileAdapter(path), nil
}

func isHTTPLocation(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

var _ ports.RepositoryLoaderPort = RepositoryLoaderAdapter{}
