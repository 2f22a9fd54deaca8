package usecase

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"patientscribe/internal/domain"
)

// UnsupportedFormatError rejects an import before any store mutation.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf(
		"unsupported file type %q; please select a supported file type: %s",
		e.Extension,
		strings.ToUpper(strings.Join(domain.SupportedFormats(), ", ")),
	)
}

// Importer brings an existing audio or transcript file into the app by
// copying it into the cache directory and publishing it as the current
// artifact. Imported files carry an unknown duration of zero.
type Importer struct {
	results  *ResultStore
	cacheDir string
}

func NewImporter(results *ResultStore, cacheDir string) *Importer {
	if cacheDir == "" {
		cacheDir = os.TempDir()
	}
	return &Importer{results: results, cacheDir: cacheDir}
}

func (i *Importer) Import(path string) (domain.RecordingArtifact, error) {
	ext := domain.FileExtension(path)
	if !domain.IsSupportedFormat(ext) {
		return domain.RecordingArtifact{}, &UnsupportedFormatError{Extension: ext}
	}

	location, err := i.copyToCache(path, ext)
	if err != nil {
		return domain.RecordingArtifact{}, err
	}

	artifact := domain.RecordingArtifact{Location: location, DurationSeconds: 0, Format: ext}
	i.results.Set(artifact)
	return artifact, nil
}

func (i *Importer) copyToCache(path string, ext string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer src.Close()

	if err := os.MkdirAll(i.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	location := filepath.Join(i.cacheDir, "import-"+uuid.NewString()+"."+ext)
	dst, err := os.Create(location)
	if err != nil {
		return "", fmt.Errorf("failed to create cached copy: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(location)
		return "", fmt.Errorf("failed to copy %q into cache: %w", path, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(location)
		return "", fmt.Errorf("failed to finalize cached copy: %w", err)
	}
	return location, nil
}
