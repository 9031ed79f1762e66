package encoder

import (
	"context"
	"fmt"
	"os/exec"
)

// EncodeWebP encodes using cwebp. A zero on either resize axis makes cwebp
// derive it from the aspect ratio, matching the resize rule.
func EncodeWebP(ctx context.Context, in, out string, o EncodeOptions) error {
	args := []string{
		"-q", fmt.Sprint(o.Quality),
	}
	if o.Width > 0 || o.Height > 0 {
		args = append(args, "-resize", fmt.Sprint(o.Width), fmt.Sprint(o.Height))
	}
	args = append(args, in, "-o", out)
	cmd := exec.CommandContext(ctx, "cwebp", args...)
	return cmd.Run()
}
