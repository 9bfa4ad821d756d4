package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxFileSize is the upload size cap for a single image (5 MiB)
const MaxFileSize = 5 * 1024 * 1024

// ErrInvalidImage is returned when an uploaded file fails the
// extension or size check
var ErrInvalidImage = errors.New("Invalid file type or size")

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// FileStore persists uploaded images under a fixed storage root and
// hands back public relative paths of the form /uploads/<subfolder>/<name>
type FileStore struct {
	root string
}

// NewFileStore creates a FileStore rooted at the given directory
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// Save validates and writes an uploaded file into the store.
// A nil or zero-length file is not an error; it saves nothing and
// returns an empty path. The file name is regenerated so concurrent
// uploads never collide.
func (s *FileStore) Save(file *multipart.FileHeader, subFolder string) (string, error) {
	if file == nil || file.Size == 0 {
		return "", nil
	}

	if !s.IsValidImage(file) {
		return "", ErrInvalidImage
	}

	uploadsFolder := filepath.Join(s.root, "uploads", subFolder)
	if err := os.MkdirAll(uploadsFolder, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	extension := strings.ToLower(filepath.Ext(file.Filename))
	fileName := uuid.New().String() + extension

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(uploadsFolder, fileName))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return fmt.Sprintf("/uploads/%s/%s", subFolder, fileName), nil
}

// Delete removes a previously stored file. Empty paths and files that
// are already gone are a no-op.
func (s *FileStore) Delete(filePath string) {
	if filePath == "" {
		return
	}

	fullPath := filepath.Join(s.root, strings.TrimPrefix(filePath, "/"))

	if _, err := os.Stat(fullPath); err == nil {
		_ = os.Remove(fullPath)
	}
}

// IsValidImage reports whether the uploaded file passes the size and
// extension checks
func (s *FileStore) IsValidImage(file *multipart.FileHeader) bool {
	if file.Size > MaxFileSize {
		return false
	}

	extension := strings.ToLower(filepath.Ext(file.Filename))
	return allowedExtensions[extension]
}
