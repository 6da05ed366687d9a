package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docdash/internal/core/domain"
	"github.com/custodia-labs/docdash/internal/logger"
)

// MaxFileSize is the largest file that is read for indexing.
const MaxFileSize = 10 << 20

// ErrClosed is returned when a closed connector is asked to watch.
var ErrClosed = errors.New("connector is closed")

// File is a readable document found on disk.
type File struct {
	Path    string
	Kind    domain.SourceKind
	Content string
	ModTime time.Time
}

// ChangeType describes what happened to a watched file.
type ChangeType int

const (
	// ChangeCreated means a new file appeared.
	ChangeCreated ChangeType = iota
	// ChangeUpdated means an existing file was written.
	ChangeUpdated
	// ChangeDeleted means a file was removed or renamed away.
	ChangeDeleted
)

// String returns the string representation.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Change is a single filesystem event that affects the index.
// File.Content is empty for deletions.
type Change struct {
	Type ChangeType
	File File
}

// Connector reads documents under one root, which may be a file or a directory.
type Connector struct {
	rootPath string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// New creates a connector for rootPath.
func New(rootPath string) *Connector {
	return &Connector{rootPath: rootPath}
}

// Root returns the path the connector reads from.
func (c *Connector) Root() string {
	return c.rootPath
}

// Validate checks that the root exists.
func (c *Connector) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(c.rootPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", c.rootPath)
		}
		return fmt.Errorf("cannot access path: %w", err)
	}
	return nil
}

// FullSync walks the root and streams every indexable file.
// Both channels are closed when the walk ends. At most one error is sent.
func (c *Connector) FullSync(ctx context.Context) (<-chan File, <-chan error) {
	files := make(chan File)
	errs := make(chan error, 1)

	go func() {
		defer close(files)
		defer close(errs)

		if err := c.Validate(ctx); err != nil {
			errs <- err
			return
		}

		err := filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Debug("Skipping %s: %v", path, err)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if c.hidden(path) {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}

			file, ok, readErr := readFile(path)
			if readErr != nil {
				logger.Debug("Skipping %s: %v", path, readErr)
				return nil
			}
			if !ok {
				return nil
			}

			select {
			case files <- file:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			errs <- err
		}
	}()

	return files, errs
}

// Watch streams changes under the root until ctx is cancelled or the
// connector is closed. The channel is closed when watching stops.
func (c *Connector) Watch(ctx context.Context) (<-chan Change, error) {
	if err := c.Validate(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	c.watcher = watcher
	c.mu.Unlock()

	if err := c.addWatches(watcher); err != nil {
		watcher.Close()
		return nil, err
	}

	changes := make(chan Change)
	go func() {
		defer close(changes)
		defer c.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				c.followNewDirectory(watcher, event)
				change := c.handleFsEvent(event)
				if change == nil {
					continue
				}
				select {
				case changes <- *change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error on %s: %v", c.rootPath, err)
			}
		}
	}()

	return changes, nil
}

// Close stops any running watch. It is safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}

// addWatches registers the root directory and its visible subdirectories.
// A file root is watched through its parent directory.
func (c *Connector) addWatches(watcher *fsnotify.Watcher) error {
	info, err := os.Stat(c.rootPath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(c.rootPath))
	}

	return filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if c.hidden(path) {
			return fs.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// followNewDirectory starts watching directories created under the root.
func (c *Connector) followNewDirectory(watcher *fsnotify.Watcher, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) || c.hidden(event.Name) {
		return
	}
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if err := watcher.Add(event.Name); err != nil {
			logger.Debug("Cannot watch %s: %v", event.Name, err)
		}
	}
}

// handleFsEvent converts an fsnotify event into a Change, or nil when the
// event does not affect the index.
func (c *Connector) handleFsEvent(event fsnotify.Event) *Change {
	if c.hidden(event.Name) || !c.covers(event.Name) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		file, ok, err := readFile(event.Name)
		if err != nil || !ok {
			return nil
		}
		changeType := ChangeUpdated
		if event.Has(fsnotify.Create) {
			changeType = ChangeCreated
		}
		return &Change{Type: changeType, File: file}

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		kind, ok := DetectKind(event.Name)
		if !ok {
			return nil
		}
		return &Change{Type: ChangeDeleted, File: File{Path: event.Name, Kind: kind}}

	default:
		return nil
	}
}

// covers reports whether path is the root or lies under it.
func (c *Connector) covers(path string) bool {
	rel, err := filepath.Rel(c.rootPath, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// hidden reports whether path is hidden relative to the root. The root
// itself is never hidden, so a root under a dot directory still works.
func (c *Connector) hidden(path string) bool {
	rel, err := filepath.Rel(c.rootPath, path)
	if err != nil || rel == "." {
		return false
	}
	return isHidden(rel)
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	}) {
		if part != "." && part != ".." && strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// readFile loads path when it is an indexable text file. The second result
// is false for directories, unsupported types, oversized or binary files.
func readFile(path string) (File, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, false, err
	}
	if info.IsDir() {
		return File{}, false, nil
	}
	kind, ok := DetectKind(path)
	if !ok {
		return File{}, false, nil
	}
	if info.Size() > MaxFileSize {
		logger.Debug("Skipping %s: %d bytes exceeds limit", path, info.Size())
		return File{}, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, false, err
	}
	if !utf8.Valid(data) {
		logger.Debug("Skipping %s: not valid UTF-8", path)
		return File{}, false, nil
	}

	return File{
		Path:    path,
		Kind:    kind,
		Content: string(data),
		ModTime: info.ModTime(),
	}, true, nil
}
