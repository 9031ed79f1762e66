package encoder

import (
	"context"
	"fmt"
	"os/exec"
)

// EncodeJPG encodes using ImageMagick
func EncodeJPG(ctx context.Context, in, out string, o EncodeOptions) error {
	return magickEncode(ctx, in, out, o, "jpg")
}

// EncodePNG encodes using ImageMagick. PNG is lossless; the quality knob is
// not passed through.
func EncodePNG(ctx context.Context, in, out string, o EncodeOptions) error {
	args := []string{in}
	if geom := resizeGeometry(o); geom != "" {
		args = append(args, "-resize", geom)
	}
	args = append(args, fmt.Sprintf("png:%s", out))
	cmd := exec.CommandContext(ctx, "magick", args...)
	return cmd.Run()
}

// Shared helper for magick-based formats
func magickEncode(ctx context.Context, in, out string, o EncodeOptions, format string) error {
	args := []string{in}
	if geom := resizeGeometry(o); geom != "" {
		args = append(args, "-resize", geom)
	}
	args = append(args,
		"-quality", fmt.Sprint(o.Quality),
		fmt.Sprintf("%s:%s", format, out),
	)
	cmd := exec.CommandContext(ctx, "magick", args...)
	return cmd.Run()
}

// resizeGeometry maps the resize rule onto ImageMagick geometry syntax:
// both axes set forces the exact size (stretch), a single axis preserves
// aspect ratio, neither skips the resize entirely.
func resizeGeometry(o EncodeOptions) string {
	switch {
	case o.Width > 0 && o.Height > 0:
		return fmt.Sprintf("%dx%d!", o.Width, o.Height)
	case o.Width > 0:
		return fmt.Sprintf("%d", o.Width)
	case o.Height > 0:
		return fmt.Sprintf("x%d", o.Height)
	default:
		return ""
	}
}
