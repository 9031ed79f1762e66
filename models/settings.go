package models

import "fmt"

// DefaultQuality is applied when a submission omits the quality field.
const DefaultQuality = 80

// supportedFormats are the target codecs accepted at submission.
// "jpeg" is folded into "jpg" before reaching the encoders.
var supportedFormats = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
	"avif": true,
}

// OptimizationSettings describes the batch-wide transform. Width/Height of
// zero mean unset: both zero skips resizing, exactly one set derives the
// other preserving aspect ratio, both set stretches. Quality is ignored by
// lossless formats.
type OptimizationSettings struct {
	Format  string `json:"format"`
	Quality int    `json:"quality"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

// Validate checks the settings against the allowed schema.
func (s OptimizationSettings) Validate() error {
	if s.Format == "" {
		return fmt.Errorf("format is required")
	}
	if !supportedFormats[s.Format] {
		return fmt.Errorf("unsupported format %q", s.Format)
	}
	if s.Quality < 1 || s.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", s.Quality)
	}
	if s.Width < 0 {
		return fmt.Errorf("width must be positive, got %d", s.Width)
	}
	if s.Height < 0 {
		return fmt.Errorf("height must be positive, got %d", s.Height)
	}
	return nil
}
