package filesystem

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docdash/internal/core/domain"
)

// fallbackMIMETypes covers text formats the platform MIME table often lacks.
var fallbackMIMETypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".rst":      "text/x-rst",
	".go":       "text/x-go",
	".py":       "text/x-python",
	".rs":       "text/x-rust",
	".ts":       "text/typescript",
	".tsx":      "text/typescript-jsx",
	".jsx":      "text/javascript-jsx",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
	".toml":     "text/toml",
	".sh":       "text/x-shellscript",
	".bash":     "text/x-shellscript",
	".sql":      "text/x-sql",
	".log":      "text/plain",
}

// detectMIMEType returns the MIME type for filename without parameters.
// Files without an extension are treated as plain text.
func detectMIMEType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "text/plain"
	}
	if t, ok := fallbackMIMETypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if mediaType, _, err := mime.ParseMediaType(t); err == nil {
			return mediaType
		}
		return strings.TrimSpace(strings.Split(t, ";")[0])
	}
	return "application/octet-stream"
}

// kindForMIME maps a MIME type to the source kind it is ingested as.
// The second result is false for types that cannot be indexed.
func kindForMIME(mimeType string) (domain.SourceKind, bool) {
	switch {
	case mimeType == "text/html", mimeType == "application/xhtml+xml":
		return domain.SourceKindHTML, true
	case mimeType == "text/markdown", mimeType == "text/x-markdown":
		return domain.SourceKindMarkdown, true
	case strings.HasPrefix(mimeType, "text/"),
		mimeType == "application/json",
		mimeType == "application/xml":
		return domain.SourceKindPlainText, true
	default:
		return "", false
	}
}

// DetectKind returns how the file at path would be ingested.
func DetectKind(path string) (domain.SourceKind, bool) {
	return kindForMIME(detectMIMEType(path))
}
