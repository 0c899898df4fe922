package organizer

import (
	"os"
	"path/filepath"
	"strconv"

	"subjectsort/internal/scanner"
)

// FileExists checks if anything exists at the given path.
// A dangling symlink counts as existing.
func FileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// FreeName returns a filename that does not exist yet in destDir.
// If filename is free it is returned unchanged; otherwise "_1", "_2", ...
// is appended before the extension until a free name is found. The counter
// always starts at 1.
//
// Examples:
//   - "x.pdf" -> "x_1.pdf" (if x.pdf exists)
//   - "x.pdf" -> "x_2.pdf" (if x.pdf and x_1.pdf exist)
//   - "x_1.pdf" -> "x_1_1.pdf" (if x_1.pdf exists)
//   - ".bashrc" -> ".bashrc_1" (if .bashrc exists)
func FreeName(destDir, filename string) string {
	if !FileExists(filepath.Join(destDir, filename)) {
		return filename
	}

	ext := scanner.Extension(filename)
	base := scanner.Stem(filename)

	for n := 1; ; n++ {
		candidate := base + "_" + strconv.Itoa(n) + ext
		if !FileExists(filepath.Join(destDir, candidate)) {
			return candidate
		}
	}
}
