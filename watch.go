package filerepo

import (
	"context"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// Watch returns a token that fires once when a file whose root-relative
// path matches pattern is created, written, removed or renamed. Patterns use
// "/" separators; "*" stays within one directory and "**" crosses them, for
// example "reports/*.pdf" or "**/*.png". The watched directory is resolved
// like any other client path, so a pattern cannot reach outside the root.
//
// Watching stops when ctx is cancelled or the token fires. Directories
// created after Watch returns are not picked up.
func (r *Repository) Watch(ctx context.Context, pattern string) (ChangeToken, error) {
	const op = "watch"

	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	matcher, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, &PathError{Op: op, Path: pattern, Err: ErrInvalidPattern}
	}

	watchPath, err := r.resolve(op, watchBase(pattern))
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, r.ioError(op, pattern, err)
	}

	if err := watcher.Add(watchPath); err != nil {
		watcher.Close()
		return nil, r.ioError(op, pattern, err)
	}

	// For recursive patterns (**), add all subdirectories
	if strings.Contains(pattern, "**") {
		_ = filepath.WalkDir(watchPath, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() && p != watchPath {
				if addErr := watcher.Add(p); addErr != nil {
					r.logger.Warn("watch subdirectory failed", slog.String("path", r.relative(p)), errAttr(addErr))
				}
			}
			return nil
		})
	}

	token := NewCallbackChangeToken()

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}

				rel, err := filepath.Rel(r.root, event.Name)
				if err != nil {
					continue
				}
				if matcher.Match(filepath.ToSlash(rel)) {
					token.SignalChange()
					return // Token is spent after first change
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.logger.Warn("watch error", slog.String("pattern", pattern), errAttr(err))
			}
		}
	}()

	return token, nil
}

// watchBase returns the directory part of pattern before its first glob
// metacharacter, or "" for the root.
func watchBase(pattern string) string {
	idx := strings.IndexAny(pattern, "*?[{")
	if idx < 0 {
		dir := path.Dir(pattern)
		if dir == "." {
			return ""
		}
		return dir
	}

	prefix := pattern[:idx]
	if lastSlash := strings.LastIndex(prefix, "/"); lastSlash >= 0 {
		return prefix[:lastSlash]
	}
	return ""
}
