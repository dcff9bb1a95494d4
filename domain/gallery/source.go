package gallery

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	apperrors "github.com/mcsoccercamp/camp-api/pkg/errors"
)

//go:embed default_manifest.txt
var defaultManifest []byte

// Source lists the filenames that make up the gallery.
type Source interface {
	Filenames(ctx context.Context) ([]string, error)
	// Name identifies the source in logs and cache keys.
	Name() string
}

// NewSource picks a directory listing when dir is set, then a manifest file,
// then the built-in list.
func NewSource(dir, manifestPath string) Source {
	if dir != "" {
		return &DirSource{Dir: dir}
	}
	if manifestPath != "" {
		return &ManifestSource{Path: manifestPath}
	}
	return EmbeddedSource{}
}

type DirSource struct {
	Dir string
}

func (s *DirSource) Name() string { return "dir:" + s.Dir }

func (s *DirSource) Filenames(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewNotFoundError("Gallery directory not found", err)
		}
		return nil, apperrors.NewInternalServerError("unable to read gallery directory", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

type ManifestSource struct {
	Path string
}

func (s *ManifestSource) Name() string { return "manifest:" + s.Path }

func (s *ManifestSource) Filenames(_ context.Context) ([]string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewNotFoundError("Gallery manifest not found", err)
		}
		return nil, apperrors.NewInternalServerError("unable to read gallery manifest", err)
	}
	return parseManifest(data), nil
}

type EmbeddedSource struct{}

func (EmbeddedSource) Name() string { return "embedded" }

func (EmbeddedSource) Filenames(_ context.Context) ([]string, error) {
	return parseManifest(defaultManifest), nil
}

// parseManifest reads one filename per line. Blank lines and # comments are ignored.
func parseManifest(data []byte) []string {
	var names []string

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names
}

// AppendToManifest adds filename to the manifest at path, creating the file if
// needed. It reports false when the name is already listed.
func AppendToManifest(path, filename string) (bool, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" || strings.ContainsAny(filename, "/\\\n") {
		return false, fmt.Errorf("invalid gallery filename %q", filename)
	}

	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("read manifest: %w", err)
	}

	for _, name := range parseManifest(existing) {
		if name == filename {
			return false, nil
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	line := filename + "\n"
	if len(existing) > 0 && !bytes.HasSuffix(existing, []byte("\n")) {
		line = "\n" + line
	}
	if _, err := f.WriteString(line); err != nil {
		return false, fmt.Errorf("write manifest: %w", err)
	}
	return true, nil
}
