package services

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.\p{L}\-_]`)

// SaveUpload writes an uploaded file under basePath and returns the public
// URL to reference it by. The stored name is prefixed with a timestamp and
// a random component so uploads never collide, with the original name
// sanitized and kept as a suffix for readability.
func SaveUpload(basePath, filename string, body io.Reader) (string, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return "", err
	}
	clean := unsafeFilenameChars.ReplaceAllString(filepath.Base(filename), "_")
	if clean == "" || clean == "." {
		clean = "file"
	}
	key := fmt.Sprintf("%d-%d-%s", time.Now().UnixMilli(), rand.Intn(1_000_000_000), clean)
	targetPath := filepath.Join(basePath, key)

	file, err := os.Create(targetPath)
	if err != nil {
		return "", err
	}
	size, err := io.Copy(file, body)
	_ = file.Close()
	if err != nil {
		_ = os.Remove(targetPath)
		return "", err
	}
	if size == 0 {
		_ = os.Remove(targetPath)
		return "", ErrBadRequest("Uploaded file is empty")
	}
	return BuildUploadURL(key), nil
}

// BuildUploadURL returns the public path a stored upload is served from.
func BuildUploadURL(key string) string {
	return "/uploads/" + key
}
