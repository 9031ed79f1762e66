package encoder

import (
	"context"
	"os/exec"

	"pixbatch/logger"
)

// EncodeFunc is the function signature for any encoder
type EncodeFunc func(ctx context.Context, input, output string, opts EncodeOptions) error

// EncodeOptions carries the per-item transform parameters. Width/Height of
// zero mean "no resize on that axis"; when only one is set the encoder
// preserves the original aspect ratio, when both are set it stretches.
type EncodeOptions struct {
	Width, Height int
	Quality       int
}

// Registry maps format name → encoder function
var Registry = map[string]EncodeFunc{}

// Register adds encoder if the underlying command exists, logs status
func Register(format string, cmdName string, fn EncodeFunc) {
	if _, err := exec.LookPath(cmdName); err != nil {
		logger.Warnf("encoder [%s] skipped: command '%s' not found in PATH", format, cmdName)
		return
	}
	Registry[format] = fn
	logger.Debugf("encoder [%s] registered (command: %s)", format, cmdName)
}

// Lookup encoder by format
func Get(format string) (EncodeFunc, bool) {
	fn, ok := Registry[format]
	return fn, ok
}

// Explicit defaults registration
func RegisterDefaults() {
	Register("jpg", "magick", EncodeJPG)
	Register("png", "magick", EncodePNG)
	Register("webp", "cwebp", EncodeWebP)
	Register("avif", "avifenc", EncodeAVIF)
}

// NormalizeFormat folds format aliases onto the registry keys.
func NormalizeFormat(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}

// ExtensionFor returns the file extension for a given target format.
func ExtensionFor(format string) string {
	switch format {
	case "jpeg", "jpg":
		return "jpg"
	case "png":
		return "png"
	case "webp":
		return "webp"
	case "avif":
		return "avif"
	default:
		return format // fallback
	}
}
