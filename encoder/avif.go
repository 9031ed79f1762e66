package encoder

import (
	"context"
	"fmt"
	"os/exec"
)

func EncodeAVIF(ctx context.Context, in, out string, o EncodeOptions) error {
	args := []string{
		"--min", fmt.Sprint(avifQuantizer(o.Quality)),
		"--max", fmt.Sprint(avifQuantizer(o.Quality)),
	}
	if o.Width > 0 && o.Height > 0 {
		args = append(args, "--resize", fmt.Sprintf("%dx%d", o.Width, o.Height))
	}
	args = append(args, in, out)
	cmd := exec.CommandContext(ctx, "avifenc", args...)
	return cmd.Run()
}

// avifQuantizer maps the 1-100 quality scale onto avifenc's inverted
// 0-63 quantizer range.
func avifQuantizer(quality int) int {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	return (100 - quality) * 63 / 100
}
