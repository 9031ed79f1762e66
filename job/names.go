package job

import (
	"fmt"
	"strings"

	"pixbatch/encoder"
	"pixbatch/models"
)

// outputNames derives the optimized filename for every batch item:
// the original base name with the target format's extension. Duplicate base
// names within one batch get a numeric suffix so archive entries and upload
// keys stay unique.
func outputNames(batch []models.NamedFile, format string) []string {
	ext := encoder.ExtensionFor(encoder.NormalizeFormat(format))
	names := make([]string, len(batch))
	seen := make(map[string]int, len(batch))

	for i, item := range batch {
		base := baseName(item.Name)
		name := base + "." + ext
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s_%d.%s", base, n, ext)
		}
		names[i] = name
	}
	return names
}

// baseName strips the extension from a filename, keeping interior dots.
func baseName(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		return filename[:idx]
	}
	return filename
}
