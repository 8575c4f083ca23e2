package filerepo

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobeaver/filerepo/filevalidator"
)

// Repository confines file operations to a root directory and verifies
// uploaded content before it is written.
//
// The root and the verifier are fixed at construction. Operations hold no
// state between calls and take no locks: concurrent saves to the same name
// are arbitrated by the filesystem, not by the repository.
type Repository struct {
	root       string
	verifier   filevalidator.Verifier
	logger     *slog.Logger
	dirPerm    os.FileMode
	filePerm   os.FileMode
	createRoot bool
	checksum   ChecksumAlgorithm
}

// NewRepository creates a repository rooted at root. The root is made
// absolute and cleaned once here. Unless WithCreateRoot(false) is given the
// root directory is created if missing.
func NewRepository(root string, verifier filevalidator.Verifier, opts ...RepositoryOption) (*Repository, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root directory is required")
	}
	if verifier == nil {
		return nil, errors.New("verifier is required")
	}

	r := &Repository{
		verifier:   verifier,
		logger:     discardLogger(),
		dirPerm:    0o755,
		filePerm:   0o644,
		createRoot: true,
	}
	for _, opt := range opts {
		opt(r)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root directory: %w", err)
	}

	if r.createRoot {
		if err := os.MkdirAll(absRoot, r.dirPerm); err != nil {
			return nil, fmt.Errorf("create root directory: %w", err)
		}
	}

	// Canonicalize through symlinks when the root exists, so listed paths
	// and the boundary check agree with what the OS reports.
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}
	r.root = filepath.Clean(absRoot)

	return r, nil
}

// Root returns the absolute root directory
func (r *Repository) Root() string {
	return r.root
}

// Save verifies content against mimeType and writes it to name, replacing
// any existing file. Nothing is written when verification fails. If copying
// fails part way, the partially written file is left in place.
func (r *Repository) Save(ctx context.Context, name, mimeType string, content io.ReadSeeker, opts ...SaveOption) (*SaveResult, error) {
	const op = "save"

	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	fullPath, err := r.resolveFile(op, name)
	if err != nil {
		return nil, err
	}

	if content == nil {
		return nil, &PathError{Op: op, Path: name, Err: ErrNoContent}
	}

	if err := r.verifier.Validate(content, name, mimeType); err != nil {
		r.logger.Info("file rejected by verifier",
			slog.String("op", op),
			slog.String("path", name),
			slog.String("mime_type", mimeType),
			errAttr(err),
		)
		return nil, &PathError{Op: op, Path: name, Err: err}
	}

	o := saveOptions{checksum: r.checksum}
	for _, opt := range opts {
		opt(&o)
	}

	if !r.rootExists() {
		return nil, &PathError{Op: op, Path: name, Err: fmt.Errorf("%w: root directory", ErrNotExist)}
	}

	// MkdirAll treats a directory created concurrently as success
	if err := os.MkdirAll(filepath.Dir(fullPath), r.dirPerm); err != nil {
		return nil, r.ioError(op, name, err)
	}

	// Copy from the start even if the caller handed over a moved stream
	if _, err := content.Seek(0, io.SeekStart); err != nil {
		return nil, r.ioError(op, name, err)
	}

	var h hash.Hash
	if o.checksum != "" {
		h, err = NewHasher(o.checksum)
		if err != nil {
			return nil, &PathError{Op: op, Path: name, Err: err}
		}
	}

	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, r.filePerm)
	if err != nil {
		return nil, r.ioError(op, name, err)
	}

	var w io.Writer = f
	if h != nil {
		w = io.MultiWriter(f, h)
	}

	n, copyErr := io.Copy(w, content)
	closeErr := f.Close()
	if copyErr != nil {
		return nil, r.ioError(op, name, copyErr)
	}
	if closeErr != nil {
		return nil, r.ioError(op, name, closeErr)
	}

	result := &SaveResult{
		Path: r.relative(fullPath),
		Size: n,
	}
	if h != nil {
		result.Checksum = hex.EncodeToString(h.Sum(nil))
		result.ChecksumAlgorithm = o.checksum
	}

	r.logger.Debug("file saved",
		slog.String("path", result.Path),
		slog.String("mime_type", mimeType),
		slog.Int64("size", n),
	)

	return result, nil
}

// OpenRead opens name for reading. The caller must close the returned
// reader. A missing root, a missing file and a directory all fail with
// ErrNotExist.
func (r *Repository) OpenRead(ctx context.Context, name string) (io.ReadCloser, error) {
	const op = "openread"

	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	fullPath, err := r.resolveFile(op, name)
	if err != nil {
		return nil, err
	}

	if !r.rootExists() {
		return nil, &PathError{Op: op, Path: name, Err: ErrNotExist}
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &PathError{Op: op, Path: name, Err: ErrNotExist}
		}
		return nil, r.ioError(op, name, err)
	}
	if info.IsDir() {
		return nil, &PathError{Op: op, Path: name, Err: ErrNotExist}
	}

	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &PathError{Op: op, Path: name, Err: ErrNotExist}
		}
		return nil, r.ioError(op, name, err)
	}

	return f, nil
}

// ReadAll reads the whole file into memory. Use for small files only.
func (r *Repository) ReadAll(ctx context.Context, name string) ([]byte, error) {
	rc, err := r.OpenRead(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// FileExists reports whether name is a regular file under the root.
// It returns false, not an error, when the root itself is missing.
func (r *Repository) FileExists(ctx context.Context, name string) (bool, error) {
	const op = "fileexists"

	if err := checkContext(ctx); err != nil {
		return false, err
	}

	fullPath, err := r.resolveFile(op, name)
	if err != nil {
		return false, err
	}

	if !r.rootExists() {
		return false, nil
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, r.ioError(op, name, err)
	}

	// Return true only if it's a file (not a directory)
	return !info.IsDir(), nil
}

// DirectoryExists reports whether path is a directory under the root. An
// empty path names the root. It returns false when the root is missing.
func (r *Repository) DirectoryExists(ctx context.Context, path string) (bool, error) {
	const op = "direxists"

	if err := checkContext(ctx); err != nil {
		return false, err
	}

	fullPath, err := r.resolve(op, path)
	if err != nil {
		return false, err
	}

	if !r.rootExists() {
		return false, nil
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, r.ioError(op, path, err)
	}

	// Return true only if it's a directory
	return info.IsDir(), nil
}

// DeleteFile removes name. A missing file is not an error.
func (r *Repository) DeleteFile(ctx context.Context, name string) error {
	const op = "delete"

	if err := checkContext(ctx); err != nil {
		return err
	}

	fullPath, err := r.resolveFile(op, name)
	if err != nil {
		return err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return r.ioError(op, name, err)
	}
	if info.IsDir() {
		return nil
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return r.ioError(op, name, err)
	}

	r.logger.Debug("file deleted", slog.String("path", name))
	return nil
}

// DeleteDirectory removes the directory at path, with its contents when
// recursive is set. A missing directory is not an error. Removing a
// non-empty directory without recursive fails with the underlying I/O error.
// The root itself cannot be deleted; a path resolving to it fails with
// ErrIllegalPath.
func (r *Repository) DeleteDirectory(ctx context.Context, path string, recursive bool) error {
	const op = "deletedir"

	if err := checkContext(ctx); err != nil {
		return err
	}

	fullPath, err := r.resolve(op, path)
	if err != nil {
		return err
	}
	if fullPath == r.root {
		r.logger.Warn("suspicious path rejected",
			slog.String("op", op),
			slog.String("path", path),
			slog.String("reason", "root directory"),
		)
		return &PathError{Op: op, Path: path, Err: fmt.Errorf("%w: the root directory cannot be deleted", ErrIllegalPath)}
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return r.ioError(op, path, err)
	}
	if !info.IsDir() {
		return nil
	}

	if recursive {
		err = os.RemoveAll(fullPath)
	} else {
		err = os.Remove(fullPath)
	}
	if err != nil && !os.IsNotExist(err) {
		return r.ioError(op, path, err)
	}

	r.logger.Debug("directory deleted", slog.String("path", path), slog.Bool("recursive", recursive))
	return nil
}

// resolve maps a client path to a physical path and logs rejected attempts.
func (r *Repository) resolve(op, path string) (string, error) {
	fullPath, err := Resolve(r.root, path)
	if err != nil {
		r.logger.Warn("suspicious path rejected",
			slog.String("op", op),
			slog.String("path", path),
			errAttr(err),
		)
		return "", &PathError{Op: op, Path: path, Err: err}
	}
	return fullPath, nil
}

// resolveFile is resolve for operations that need a file name.
func (r *Repository) resolveFile(op, name string) (string, error) {
	if name == "" {
		r.logger.Warn("suspicious path rejected",
			slog.String("op", op),
			slog.String("reason", "empty file name"),
		)
		return "", &PathError{Op: op, Path: name, Err: fmt.Errorf("%w: file name is required", ErrIllegalPath)}
	}

	fullPath, err := r.resolve(op, name)
	if err != nil {
		return "", err
	}
	if fullPath == r.root {
		return "", &PathError{Op: op, Path: name, Err: fmt.Errorf("%w: name refers to the root directory", ErrIllegalPath)}
	}
	return fullPath, nil
}

// relative strips the root and its separator from a resolved path.
func (r *Repository) relative(fullPath string) string {
	rel, err := filepath.Rel(r.root, fullPath)
	if err != nil || rel == "." {
		return ""
	}
	return rel
}

func (r *Repository) rootExists() bool {
	info, err := os.Stat(r.root)
	return err == nil && info.IsDir()
}

func (r *Repository) ioError(op, path string, err error) error {
	r.logger.Error("file operation failed",
		slog.String("op", op),
		slog.String("path", path),
		errAttr(err),
	)
	return &PathError{Op: op, Path: path, Err: err}
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// errAttr returns an empty attribute for nil errors so callers need no nil check.
func errAttr(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}
