// Package filestorage persists sealed diploma documents on the local
// filesystem under a configurable root directory.
package filestorage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/isms-esp/diploma-registry/internal/pkg/logger"
)

// LocalStorage writes and reads documents under a base directory.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a LocalStorage rooted at basePath, creating
// the directory if it does not exist.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Document storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// SaveBytes writes data under the given relative name and returns the
// path as stored, relative to the storage root. Subdirectories in name
// are created as needed.
func (ls *LocalStorage) SaveBytes(name string, data []byte) (string, error) {
	cleaned := filepath.Clean(name)
	if cleaned == "." || cleaned == ".." || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid document name: %s", name)
	}

	dstPath := filepath.Join(ls.basePath, cleaned)
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create document subdirectory")
		return "", fmt.Errorf("failed to create document subdirectory: %w", err)
	}

	if err := os.WriteFile(dstPath, data, 0o644); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write document")
		return "", fmt.Errorf("failed to write document: %w", err)
	}

	logger.Info().Str("path", cleaned).Int("bytes", len(data)).Msg("Document saved")
	return cleaned, nil
}

// Open returns a reader over the stored document along with its size.
// The caller must close the reader.
func (ls *LocalStorage) Open(storedPath string) (io.ReadSeekCloser, int64, error) {
	physicalPath := ls.fullPath(storedPath)
	if physicalPath == "" {
		return nil, 0, fmt.Errorf("invalid document path: %s", storedPath)
	}

	f, err := os.Open(physicalPath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open document: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("failed to stat document: %w", err)
	}
	return f, info.Size(), nil
}

// ReadBytes loads the whole stored document into memory.
func (ls *LocalStorage) ReadBytes(storedPath string) ([]byte, error) {
	physicalPath := ls.fullPath(storedPath)
	if physicalPath == "" {
		return nil, fmt.Errorf("invalid document path: %s", storedPath)
	}
	data, err := os.ReadFile(physicalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return data, nil
}

// Remove deletes a stored document. Removing a missing document is not
// an error so cleanup stays idempotent.
func (ls *LocalStorage) Remove(storedPath string) error {
	physicalPath := ls.fullPath(storedPath)
	if physicalPath == "" {
		return fmt.Errorf("invalid document path: %s", storedPath)
	}

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("Document to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete document")
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// FullPath returns the absolute filesystem path for a stored document.
func (ls *LocalStorage) FullPath(storedPath string) string {
	return ls.fullPath(storedPath)
}

func (ls *LocalStorage) fullPath(storedPath string) string {
	cleaned := filepath.Clean(storedPath)
	if cleaned == "." || cleaned == ".." || filepath.IsAbs(cleaned) {
		return ""
	}
	return filepath.Join(ls.basePath, cleaned)
}
