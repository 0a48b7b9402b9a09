package services

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/feastly/feastly-backend/internal/logger"
)

// MediaService materializes inline data-URI images as files under the
// media root and removes them again. Stored paths are relative to the
// root so the serving layer can prefix them freely.
type MediaService interface {
	SaveDataURI(dataURI, subdir string) (string, error)
	Delete(relPath string) error
}

type mediaService struct {
	log  *logger.Logger
	root string
}

func NewMediaService(log *logger.Logger, root string) (MediaService, error) {
	if root == "" {
		root = "media"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media root: %w", err)
	}
	return &mediaService{log: log.With("service", "MediaService"), root: root}, nil
}

// SaveDataURI decodes a "data:image/<ext>;base64,<payload>" string and
// writes it to <root>/<subdir>/<uuid>/image.<ext>, returning the path
// relative to the media root.
func (ms *mediaService) SaveDataURI(dataURI, subdir string) (string, error) {
	ext, payload, err := parseImageDataURI(dataURI)
	if err != nil {
		return "", err
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", validationError("image payload is not valid base64")
	}
	relDir := filepath.Join(subdir, uuid.New().String())
	if err := os.MkdirAll(filepath.Join(ms.root, relDir), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media dir: %w", err)
	}
	relPath := filepath.Join(relDir, "image."+ext)
	if err := os.WriteFile(filepath.Join(ms.root, relPath), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return filepath.ToSlash(relPath), nil
}

func (ms *mediaService) Delete(relPath string) error {
	if relPath == "" {
		return nil
	}
	full := filepath.Join(ms.root, filepath.FromSlash(relPath))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove media file: %w", err)
	}
	return nil
}

// parseImageDataURI splits a data URI into the MIME subtype and the
// base64 payload. Only image/* URIs are accepted.
func parseImageDataURI(dataURI string) (ext, payload string, err error) {
	if !strings.HasPrefix(dataURI, "data:image/") {
		return "", "", validationError("image must be a data:image/... URI")
	}
	rest := strings.TrimPrefix(dataURI, "data:image/")
	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return "", "", validationError("image data URI must be base64 encoded")
	}
	ext = rest[:sep]
	payload = rest[sep+len(";base64,"):]
	if ext == "" || payload == "" {
		return "", "", validationError("image data URI is malformed")
	}
	return ext, payload, nil
}
