package uploadbackends

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestUploadToDirectServe(t *testing.T) {
	baseDir := t.TempDir()
	accessInfo := map[string]string{
		"baseDir":    baseDir,
		"publicBase": "http://localhost:8080/files/",
		"folder":     "job-abc",
		"filename":   "photo.webp",
	}

	content := []byte("optimized bytes")
	url, err := UploadToDirectServe(context.Background(), accessInfo, bytes.NewReader(content))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	want := "http://localhost:8080/files/job-abc/photo.webp"
	if url != want {
		t.Errorf("url = %q, want %q", url, want)
	}

	written, err := os.ReadFile(filepath.Join(baseDir, "job-abc", "photo.webp"))
	if err != nil {
		t.Fatalf("read written file: %v", err)
	}
	if !bytes.Equal(written, content) {
		t.Error("written content mismatch")
	}
}

func TestUploadToDirectServeMissingKeys(t *testing.T) {
	_, err := UploadToDirectServe(context.Background(), map[string]string{}, bytes.NewReader(nil))
	if err == nil {
		t.Error("expected error for missing accessInfo keys")
	}
}

func TestUploadImageUnknownBackend(t *testing.T) {
	_, err := UploadImage(context.Background(), map[string]string{}, bytes.NewReader(nil), "carrier-pigeon")
	if err == nil {
		t.Error("expected error for unknown backend type")
	}
}
