package uploadbackends

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"pixbatch/logger"
)

// UploadToDirectServe writes content to the local serve directory, which the
// HTTP server exposes under the public base URL, and returns the resulting
// public URL.
func UploadToDirectServe(ctx context.Context, accessInfo map[string]string, reader io.Reader) (string, error) {
	baseDir := accessInfo["baseDir"]       // Base directory where files are served from
	folder := accessInfo["folder"]         // Subfolder inside the base directory
	filename := accessInfo["filename"]     // Target filename
	publicBase := accessInfo["publicBase"] // URL prefix the serve dir is mounted at

	if baseDir == "" || filename == "" {
		return "", fmt.Errorf("missing required accessInfo keys: baseDir, filename")
	}

	fullDir := filepath.Join(baseDir, folder)
	fullPath := filepath.Join(fullDir, filename)

	if err := os.MkdirAll(fullDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", fullPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return "", fmt.Errorf("failed to write to file %s: %w", fullPath, err)
	}

	url := strings.TrimRight(publicBase, "/") + "/" + path.Join(folder, filename)
	logger.Infof("Successfully saved file '%s' to '%s'", filename, fullPath)
	return url, nil
}
