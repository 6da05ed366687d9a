// Package filesystem reads documents from local files and directories and
// watches them for changes with fsnotify.
//
// Hidden files and directories (a path element starting with ".") are
// skipped, as are files whose type cannot be indexed as text, HTML or
// Markdown and files that are not valid UTF-8.
package filesystem
