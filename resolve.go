package filerepo

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Resolve joins relativePath onto root and returns the cleaned physical path.
// An empty relativePath resolves to root itself. An absolute relativePath is
// rejected rather than rebased under root. The result must be root or lie
// below root followed by a separator; anything else fails with
// ErrIllegalPath. Resolve has no side effects and never touches the disk.
func Resolve(root, relativePath string) (string, error) {
	if strings.IndexByte(relativePath, 0) >= 0 {
		return "", fmt.Errorf("%w: name contains NUL byte", ErrIllegalPath)
	}
	if isAbsolute(relativePath) {
		return "", fmt.Errorf("%w: %q is an absolute path", ErrIllegalPath, relativePath)
	}

	root = filepath.Clean(root)
	fullPath := filepath.Join(root, relativePath)

	if !isPathUnderRoot(root, fullPath) {
		return "", fmt.Errorf("%w: %q escapes the root directory", ErrIllegalPath, relativePath)
	}

	return fullPath, nil
}

// isPathUnderRoot checks if a cleaned path is root or inside it. A plain
// prefix test would accept /data2 for root /data, so the separator is part
// of the comparison.
func isPathUnderRoot(root, path string) bool {
	if path == root {
		return true
	}

	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

// isAbsolute catches rooted names on every platform, including "/x" on
// Windows where filepath.IsAbs reports false.
func isAbsolute(path string) bool {
	if filepath.IsAbs(path) || filepath.VolumeName(path) != "" {
		return true
	}
	return path != "" && (path[0] == '/' || path[0] == filepath.Separator)
}
