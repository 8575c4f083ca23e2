package filerepo

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/gobwas/glob"
)

// ListFiles returns the files under path whose base name matches the
// pattern, as root-relative paths in lexical order. An empty path lists the
// root. By default only the immediate children are listed.
func (r *Repository) ListFiles(ctx context.Context, path string, opts ...ListOption) ([]string, error) {
	return r.list(ctx, "listfiles", path, false, opts)
}

// ListDirectories is like ListFiles but returns directories.
func (r *Repository) ListDirectories(ctx context.Context, path string, opts ...ListOption) ([]string, error) {
	return r.list(ctx, "listdirs", path, true, opts)
}

func (r *Repository) list(ctx context.Context, op, path string, wantDirs bool, opts []ListOption) ([]string, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	o := listOptions{pattern: "*"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.pattern == "" {
		o.pattern = "*"
	}

	fullPath, err := r.resolve(op, path)
	if err != nil {
		return nil, err
	}

	matcher, err := glob.Compile(o.pattern)
	if err != nil {
		return nil, &PathError{Op: op, Path: path, Err: fmt.Errorf("%w: %v", ErrInvalidPattern, err)}
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &PathError{Op: op, Path: path, Err: ErrNotExist}
		}
		return nil, r.ioError(op, path, err)
	}
	if !info.IsDir() {
		return nil, &PathError{Op: op, Path: path, Err: ErrNotDir}
	}

	results := []string{}
	err = filepath.WalkDir(fullPath, func(walkPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip the directory being listed
		if walkPath == fullPath {
			return nil
		}

		if err := checkContext(ctx); err != nil {
			return err
		}

		if d.IsDir() {
			if wantDirs && matcher.Match(d.Name()) {
				results = append(results, r.relative(walkPath))
			}
			if !o.recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if !wantDirs && matcher.Match(d.Name()) {
			results = append(results, r.relative(walkPath))
		}
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, r.ioError(op, path, err)
	}

	slices.Sort(results)
	return results, nil
}
