package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdash/internal/core/domain"
)

// collect drains a FullSync run.
func collect(t *testing.T, c *Connector, ctx context.Context) ([]File, error) {
	t.Helper()
	files, errs := c.FullSync(ctx)
	var out []File
	for f := range files {
		out = append(out, f)
	}
	return out, <-errs
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func paths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func TestNew(t *testing.T) {
	c := New("/tmp/test")
	require.NotNil(t, c)
	assert.Equal(t, "/tmp/test", c.Root())
}

func TestConnector_Validate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	writeFile(t, file, "content")

	assert.NoError(t, New(dir).Validate(context.Background()))
	assert.NoError(t, New(file).Validate(context.Background()))

	err := New("/non/existent/path/12345").Validate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, context.Canceled, New(dir).Validate(ctx))
}

func TestConnector_FullSync(t *testing.T) {
	t.Run("syncs files from directory", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "file1.txt"), "content 1")
		writeFile(t, filepath.Join(dir, "file2.md"), "# Markdown")
		writeFile(t, filepath.Join(dir, "page.html"), "<p>hi</p>")
		writeFile(t, filepath.Join(dir, "nested", "deep.txt"), "deep")

		files, err := collect(t, New(dir), context.Background())
		require.NoError(t, err)
		require.Len(t, files, 4)

		byName := make(map[string]File)
		for _, f := range files {
			byName[filepath.Base(f.Path)] = f
		}
		assert.Equal(t, domain.SourceKindPlainText, byName["file1.txt"].Kind)
		assert.Equal(t, "content 1", byName["file1.txt"].Content)
		assert.Equal(t, domain.SourceKindHTML, byName["page.html"].Kind)
		assert.Equal(t, domain.SourceKindMarkdown, byName["file2.md"].Kind)
		assert.Equal(t, "deep", byName["deep.txt"].Content)
		assert.False(t, byName["deep.txt"].ModTime.IsZero())
	})

	t.Run("skips hidden files and directories", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "visible.txt"), "visible")
		writeFile(t, filepath.Join(dir, ".hidden.txt"), "hidden")
		writeFile(t, filepath.Join(dir, ".git", "config"), "hidden")

		files, err := collect(t, New(dir), context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "visible.txt")}, paths(files))
	})

	t.Run("root inside a hidden directory still syncs", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), ".config", "docs")
		writeFile(t, filepath.Join(root, "a.txt"), "a")

		files, err := collect(t, New(root), context.Background())
		require.NoError(t, err)
		assert.Len(t, files, 1)
	})

	t.Run("skips binary and unsupported files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "ok.txt"), "fine")
		writeFile(t, filepath.Join(dir, "image.png"), "\x89PNG")
		writeFile(t, filepath.Join(dir, "bad.txt"), "\xff\xfe\xfd")

		files, err := collect(t, New(dir), context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "ok.txt")}, paths(files))
	})

	t.Run("single file root", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "only.txt")
		writeFile(t, file, "only")

		files, err := collect(t, New(file), context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{file}, paths(files))
	})

	t.Run("empty directory", func(t *testing.T) {
		files, err := collect(t, New(t.TempDir()), context.Background())
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("handles non-existent directory", func(t *testing.T) {
		files, err := collect(t, New("/non/existent/path/12345"), context.Background())
		require.Error(t, err)
		assert.Empty(t, files)
	})

	t.Run("handles cancelled context", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.txt"), "a")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := collect(t, New(dir), ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestConnector_Watch(t *testing.T) {
	waitFor := func(t *testing.T, changes <-chan Change, want ChangeType) Change {
		t.Helper()
		deadline := time.After(2 * time.Second)
		for {
			select {
			case change, ok := <-changes:
				require.True(t, ok, "channel closed early")
				if change.Type == want {
					return change
				}
			case <-deadline:
				t.Fatalf("timeout waiting for %s event", want)
			}
		}
	}

	t.Run("watches for file creation", func(t *testing.T) {
		dir := t.TempDir()
		c := New(dir)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := c.Watch(ctx)
		require.NoError(t, err)

		path := filepath.Join(dir, "new-file.txt")
		writeFile(t, path, "content")

		change := waitFor(t, changes, ChangeCreated)
		assert.Equal(t, path, change.File.Path)
	})

	t.Run("detects file modifications", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "test.txt")
		writeFile(t, path, "initial")

		c := New(dir)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := c.Watch(ctx)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, []byte("modified"), 0o644))

		change := waitFor(t, changes, ChangeUpdated)
		assert.Equal(t, path, change.File.Path)
		assert.Equal(t, "modified", change.File.Content)
	})

	t.Run("detects file deletions", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "to-delete.txt")
		writeFile(t, path, "delete me")

		c := New(dir)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := c.Watch(ctx)
		require.NoError(t, err)
		require.NoError(t, os.Remove(path))

		change := waitFor(t, changes, ChangeDeleted)
		assert.Equal(t, path, change.File.Path)
		assert.Empty(t, change.File.Content)
	})

	t.Run("returns error for non-existent directory", func(t *testing.T) {
		_, err := New("/non/existent/path/12345").Watch(context.Background())
		assert.Error(t, err)
	})

	t.Run("closes channel when context is cancelled", func(t *testing.T) {
		c := New(t.TempDir())
		ctx, cancel := context.WithCancel(context.Background())

		changes, err := c.Watch(ctx)
		require.NoError(t, err)
		cancel()

		select {
		case _, ok := <-changes:
			assert.False(t, ok)
		case <-time.After(2 * time.Second):
			t.Fatal("channel not closed after cancel")
		}
	})

	t.Run("returns error when connector is closed", func(t *testing.T) {
		c := New(t.TempDir())
		require.NoError(t, c.Close())

		_, err := c.Watch(context.Background())
		assert.ErrorIs(t, err, ErrClosed)
	})
}

func TestConnector_Close(t *testing.T) {
	c := New(t.TempDir())
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Close()
		}()
	}
	wg.Wait()
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{".hidden", true},
		{"path/to/.hidden", true},
		{"/path/.hidden/file.txt", true},
		{"dir/.git/config", true},
		{".config/.cache/data", true},
		{"file.txt", false},
		{"path/to/file.txt", false},
		{".", false},
		{"..", false},
		{"path/./file", false},
		{"path/../file", false},
		{"", false},
		{"/", false},
		{"file.hidden", false},
		{"directory.name/file", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHidden(tt.path))
		})
	}
}

func TestHandleFsEvent(t *testing.T) {
	tests := []struct {
		name           string
		setupFile      bool
		setupDir       bool
		setupHidden    bool
		operation      fsnotify.Op
		expectedChange bool
		expectedType   ChangeType
	}{
		{name: "create file event", setupFile: true, operation: fsnotify.Create,
			expectedChange: true, expectedType: ChangeCreated},
		{name: "write file event", setupFile: true, operation: fsnotify.Write,
			expectedChange: true, expectedType: ChangeUpdated},
		{name: "remove file event", operation: fsnotify.Remove,
			expectedChange: true, expectedType: ChangeDeleted},
		{name: "rename file event", operation: fsnotify.Rename,
			expectedChange: true, expectedType: ChangeDeleted},
		{name: "chmod file event - not handled", setupFile: true, operation: fsnotify.Chmod},
		{name: "create directory event - skipped", setupDir: true, operation: fsnotify.Create},
		{name: "hidden file create - skipped", setupHidden: true, operation: fsnotify.Create},
		{name: "hidden file remove - skipped", setupHidden: true, operation: fsnotify.Remove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()

			var eventPath string
			switch {
			case tt.setupDir:
				eventPath = filepath.Join(dir, "testdir")
				require.NoError(t, os.Mkdir(eventPath, 0o755))
			case tt.setupHidden:
				eventPath = filepath.Join(dir, ".hidden.txt")
				if tt.operation != fsnotify.Remove {
					writeFile(t, eventPath, "hidden")
				}
			case tt.setupFile:
				eventPath = filepath.Join(dir, "test.txt")
				writeFile(t, eventPath, "content")
			default:
				eventPath = filepath.Join(dir, "removed.txt")
			}

			change := New(dir).handleFsEvent(fsnotify.Event{Name: eventPath, Op: tt.operation})

			if !tt.expectedChange {
				assert.Nil(t, change)
				return
			}
			require.NotNil(t, change)
			assert.Equal(t, tt.expectedType, change.Type)
			assert.Equal(t, eventPath, change.File.Path)
			assert.Equal(t, domain.SourceKindPlainText, change.File.Kind)
			if tt.expectedType != ChangeDeleted {
				assert.Equal(t, "content", change.File.Content)
			}
		})
	}

	t.Run("combined operations", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "test.txt")
		writeFile(t, path, "content")

		change := New(dir).handleFsEvent(fsnotify.Event{Name: path, Op: fsnotify.Write | fsnotify.Chmod})
		require.NotNil(t, change)
		assert.Equal(t, ChangeUpdated, change.Type)
	})

	t.Run("file root ignores siblings", func(t *testing.T) {
		dir := t.TempDir()
		root := filepath.Join(dir, "watched.txt")
		sibling := filepath.Join(dir, "other.txt")
		writeFile(t, root, "root")
		writeFile(t, sibling, "sibling")

		c := New(root)
		assert.Nil(t, c.handleFsEvent(fsnotify.Event{Name: sibling, Op: fsnotify.Write}))
		assert.NotNil(t, c.handleFsEvent(fsnotify.Event{Name: root, Op: fsnotify.Write}))
	})
}

func TestChangeType_String(t *testing.T) {
	assert.Equal(t, "created", ChangeCreated.String())
	assert.Equal(t, "updated", ChangeUpdated.String())
	assert.Equal(t, "deleted", ChangeDeleted.String())
	assert.Equal(t, "unknown", ChangeType(99).String())
}
