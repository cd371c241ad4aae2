package adapters

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"target-platform/internal/core"
	"target-platform/internal/ports"
	"target-platform/internal/types"
)

// RepositoryContentFile is the file looked up when a repository location
// is a directory.
const RepositoryContentFile = "content.yaml"

type RepositoryFileAdapter struct {
	Path string
}

func NewRepositoryFileAdapter(path string) RepositoryFileAdapter {
	return RepositoryFileAdapter{Path: resolveRepositoryPath(path)}
}

func (a RepositoryFileAdapter) Name() string {
	return a.Path
}

func (a RepositoryFileAdapter) ListUnits(ctx context.Context) ([]types.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("repository file not found").
			WithCause(err)
	}
	return decodeRepository(data, a.Path)
}

func resolveRepositoryPath(location string) string {
	path := strings.TrimPrefix(location, "file://")
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, RepositoryContentFile)
	}
	return path
}

var gzipMagic = []byte{0x1f, 0x8b}

// decodeRepository parses repository YAML, optionally gzip compressed,
// and checks every version, range and filter against the declared scheme.
func decodeRepository(data []byte, source string) ([]types.Unit, error) {
	if bytes.HasPrefix(data, gzipMagic) {
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, invalidRepository(source, "failed to read gzipped repository", err)
		}
		defer gz.Close()
		plain, err := io.ReadAll(gz)
		if err != nil {
			return nil, invalidRepository(source, "failed to read gzipped repository", err)
		}
		data = plain
	}
	var file types.RepositoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, invalidRepository(source, "failed to parse repository yaml", err)
	}
	if !core.ValidScheme(file.VersionScheme) {
		return nil, invalidRepository(source, fmt.Sprintf("unsupported version scheme %q", file.VersionScheme), nil)
	}
	units := make([]types.Unit, 0, len(file.Units))
	for i, unit := range file.Units {
		if strings.TrimSpace(unit.ID) == "" {
			return nil, invalidRepository(source, fmt.Sprintf("unit %d has no id", i), nil)
		}
		if unit.Scheme == "" {
			unit.Scheme = file.VersionScheme
		}
		if unit.Scheme == "" {
			unit.Scheme = types.VersionSchemeOSGi
		}
		if err := validateUnit(unit); err != nil {
			return nil, invalidRepository(source, fmt.Sprintf("unit %s", unit.Key()), err)
		}
		unit.Synthetic = false
		unit.Provenance = ""
		units = append(units, unit)
	}
	return units, nil
}

func validateUnit(unit types.Unit) error {
	if err := core.ValidateVersion(unit.Scheme, unit.Version); err != nil {
		return err
	}
	if err := core.ValidateFilter(unit.Filter); err != nil {
		return err
	}
	for _, req := range unit.Requires {
		if strings.TrimSpace(req.Namespace) == "" || strings.TrimSpace(req.Name) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("requirement needs a namespace and a name")
		}
		if _, err := core.ParseVersionRange(req.Range); err != nil {
			return err
		}
		if err := core.ValidateFilter(req.Filter); err != nil {
			return err
		}
	}
	for _, capability := range unit.Provides {
		if strings.TrimSpace(capability.Namespace) == "" || strings.TrimSpace(capability.Name) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("capability needs a namespace and a name")
		}
	}
	return nil
}

func invalidRepository(source string, msg string, cause error) error {
	err := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("%s: %s", source, msg))
	if cause != nil {
		err = err.WithCause(cause)
	}
	return err
}

var _ ports.RepositoryPort = RepositoryFileAdapter{}
