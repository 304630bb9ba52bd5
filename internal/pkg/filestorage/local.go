// Package filestorage stores uploaded media files on the local filesystem.
// Stored paths end up in the local reference slots of media records
// (localImage, localVideo, localAudio).
package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/avolkov/lms-backend/internal/pkg/logger"
)

// Kinds of media files the storage accepts, used as subdirectories.
const (
	KindImage = "image"
	KindVideo = "video"
	KindAudio = "audio"
)

// ValidKind reports whether kind is one of the accepted media kinds.
func ValidKind(kind string) bool {
	switch kind {
	case KindImage, KindVideo, KindAudio:
		return true
	}
	return false
}

// LocalStorage saves media files under a base directory, one subdirectory
// per kind.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a LocalStorage rooted at basePath. baseURL, if
// set, is prepended to returned paths so they are directly fetchable.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// Save stores an uploaded file under the subdirectory for kind and returns
// the accessible path. The original filename is discarded; files get a
// generated name to prevent collisions.
func (ls *LocalStorage) Save(fileHeader *multipart.FileHeader, kind string) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("no file uploaded")
	}
	if !ValidKind(kind) {
		return "", fmt.Errorf("unknown media kind %q", kind)
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dir := filepath.Join(ls.basePath, kind)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	name := uuid.New().String() + filepath.Ext(fileHeader.Filename)
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	accessiblePath := kind + "/" + name
	if ls.baseURL != "" {
		accessiblePath = strings.TrimRight(ls.baseURL, "/") + "/" + accessiblePath
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", name).Str("kind", kind).Msg("File saved")
	return accessiblePath, nil
}

// Delete removes a stored file. Deleting a file that does not exist is not
// an error.
func (ls *LocalStorage) Delete(storedPath string) error {
	if storedPath == "" {
		return nil
	}

	kind := filepath.Base(filepath.Dir(storedPath))
	name := filepath.Base(storedPath)
	if name == "" || name == "." || name == "/" || !ValidKind(kind) {
		return fmt.Errorf("invalid stored path: %s", storedPath)
	}

	physicalPath := filepath.Join(ls.basePath, kind, name)
	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted")
	return nil
}
