package filerepo

import (
	"io"
	"log/slog"
	"os"
)

// RepositoryOption configures a Repository
type RepositoryOption func(*Repository)

// WithLogger sets the logger used for rejected paths, failed verification
// and I/O errors. The default discards everything.
func WithLogger(logger *slog.Logger) RepositoryOption {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDirPerm sets the permissions for directories created by Save
func WithDirPerm(perm os.FileMode) RepositoryOption {
	return func(r *Repository) {
		r.dirPerm = perm
	}
}

// WithFilePerm sets the permissions for files created by Save
func WithFilePerm(perm os.FileMode) RepositoryOption {
	return func(r *Repository) {
		r.filePerm = perm
	}
}

// WithCreateRoot controls whether the root directory is created when the
// repository is constructed. Enabled by default.
func WithCreateRoot(create bool) RepositoryOption {
	return func(r *Repository) {
		r.createRoot = create
	}
}

// WithDefaultChecksum makes every Save compute a checksum with the given
// algorithm unless the call overrides it.
func WithDefaultChecksum(algorithm ChecksumAlgorithm) RepositoryOption {
	return func(r *Repository) {
		r.checksum = algorithm
	}
}

// SaveOption represents an option for a single Save call
type SaveOption func(*saveOptions)

type saveOptions struct {
	checksum ChecksumAlgorithm
}

// WithChecksum computes a checksum of the written bytes. Use an empty
// algorithm to disable a repository default.
func WithChecksum(algorithm ChecksumAlgorithm) SaveOption {
	return func(o *saveOptions) {
		o.checksum = algorithm
	}
}

// SaveResult describes a file written by Save
type SaveResult struct {
	// Path is the root-relative path of the file.
	Path string

	// Size is the number of bytes written.
	Size int64

	// Checksum is the hex-encoded checksum, when requested.
	Checksum string

	// ChecksumAlgorithm names the algorithm behind Checksum.
	ChecksumAlgorithm ChecksumAlgorithm
}

// ListOption configures ListFiles and ListDirectories
type ListOption func(*listOptions)

type listOptions struct {
	pattern   string
	recursive bool
}

// WithPattern filters entries by base name. Supports *, ?, [...] and {a,b}.
// The default is "*".
func WithPattern(pattern string) ListOption {
	return func(o *listOptions) {
		o.pattern = pattern
	}
}

// WithRecursive includes entries from all descendant directories
func WithRecursive(recursive bool) ListOption {
	return func(o *listOptions) {
		o.recursive = recursive
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
