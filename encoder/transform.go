package encoder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"pixbatch/models"
)

// Transform re-encodes one image in memory: the input bytes are staged
// through a temp directory, the registered encoder for the target format is
// invoked, and the encoded output is read back. Malformed or unsupported
// input surfaces as an error from the encoder command, never as partial
// output.
func Transform(ctx context.Context, data []byte, settings models.OptimizationSettings) ([]byte, error) {
	format := NormalizeFormat(settings.Format)
	enc, ok := Get(format)
	if !ok {
		return nil, fmt.Errorf("no encoder registered for format %q", format)
	}

	dir, err := os.MkdirTemp("", "pixbatch-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "input")
	outPath := filepath.Join(dir, "output."+ExtensionFor(format))
	if err := os.WriteFile(inPath, data, 0644); err != nil {
		return nil, fmt.Errorf("stage input: %w", err)
	}

	opts := EncodeOptions{
		Width:   settings.Width,
		Height:  settings.Height,
		Quality: settings.Quality,
	}
	if err := enc(ctx, inPath, outPath, opts); err != nil {
		return nil, fmt.Errorf("encode to %s: %w", format, err)
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read encoded output: %w", err)
	}
	return out, nil
}
