package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Storage saves uploaded avatar images on local disk. Files are served
// back under /storage.
type Storage struct {
	basePath string
}

func NewStorage(basePath string) *Storage {
	return &Storage{basePath: basePath}
}

const maxAvatarSize = 2 << 20 // 2 MiB

var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// SaveAvatar stores an uploaded avatar under a unique name and returns
// its relative path.
func (s *Storage) SaveAvatar(file *multipart.FileHeader) (string, error) {
	ext := filepath.Ext(file.Filename)
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("invalid file type: only image files allowed")
	}
	if file.Size > maxAvatarSize {
		return "", fmt.Errorf("file too large: avatar limit is 2MB")
	}

	filename := fmt.Sprintf("%s_%d%s", uuid.New().String(), time.Now().Unix(), ext)
	savePath := filepath.Join(s.basePath, "avatars", filename)

	if err := os.MkdirAll(filepath.Dir(savePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(savePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filepath.Join("avatars", filename), nil
}

// DeleteFile removes a previously saved file.
func (s *Storage) DeleteFile(filePath string) error {
	if err := os.Remove(filepath.Join(s.basePath, filePath)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// FileURL maps a stored path to its public URL.
func (s *Storage) FileURL(filePath string) string {
	return fmt.Sprintf("/storage/%s", filepath.ToSlash(filePath))
}
