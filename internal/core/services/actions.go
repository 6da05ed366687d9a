package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/custodia-labs/docdash/internal/core/domain"
	"github.com/custodia-labs/docdash/internal/core/ports/driven"
	"github.com/custodia-labs/docdash/internal/core/ports/driving"
)

// Operating system identifiers.
const (
	osDarwin  = "darwin"
	osLinux   = "linux"
	osWindows = "windows"
)

// Ensure ResultActionService implements the interface.
var _ driving.ResultActionService = (*ResultActionService)(nil)

// ResultActionService provides actions on search results.
type ResultActionService struct {
	index driven.DocumentIndex

	// start launches a detached command, run waits for one.
	start func(*exec.Cmd) error
	run   func(*exec.Cmd) error
	goos  string
}

// NewResultActionService creates a new result action service.
func NewResultActionService(index driven.DocumentIndex) *ResultActionService {
	return &ResultActionService{
		index: index,
		start: (*exec.Cmd).Start,
		run:   (*exec.Cmd).Run,
		goos:  runtime.GOOS,
	}
}

// CopyToClipboard copies the result's snippet to the system clipboard.
func (s *ResultActionService) CopyToClipboard(_ context.Context, result *domain.ScoredResult) error {
	if result == nil {
		return fmt.Errorf("result is nil: %w", domain.ErrInvalidInput)
	}

	cmd, err := s.clipboardCommand()
	if err != nil {
		return err
	}
	cmd.Stdin = strings.NewReader(result.Snippet)
	return s.run(cmd)
}

// OpenDocument opens the file the result was ingested from.
// Documents ingested from a label rather than a file cannot be opened.
func (s *ResultActionService) OpenDocument(_ context.Context, result *domain.ScoredResult) error {
	if result == nil {
		return fmt.Errorf("result is nil: %w", domain.ErrInvalidInput)
	}

	entry, err := s.index.Get(result.DocumentID)
	if err != nil {
		return err
	}
	path, err := filepath.Abs(entry.SourceName)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", entry.SourceName, err)
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return fmt.Errorf("%q is not a file: %w", entry.SourceName, domain.ErrNotFound)
	}

	cmd, err := s.openCommand(path)
	if err != nil {
		return err
	}
	return s.start(cmd)
}

// clipboardCommand returns the OS-specific clipboard writer.
func (s *ResultActionService) clipboardCommand() (*exec.Cmd, error) {
	switch s.goos {
	case osDarwin:
		return exec.Command("pbcopy"), nil
	case osLinux:
		// Try xclip first, fall back to xsel
		if _, err := exec.LookPath("xclip"); err == nil {
			return exec.Command("xclip", "-selection", "clipboard"), nil
		}
		if _, err := exec.LookPath("xsel"); err == nil {
			return exec.Command("xsel", "--clipboard", "--input"), nil
		}
		return nil, fmt.Errorf("no clipboard utility found (install xclip or xsel)")
	case osWindows:
		return exec.Command("cmd", "/c", "clip"), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", s.goos)
	}
}

// openCommand returns the OS-specific command that opens path with its default handler.
func (s *ResultActionService) openCommand(path string) (*exec.Cmd, error) {
	switch s.goos {
	case osDarwin:
		return exec.Command("open", path), nil
	case osLinux:
		return exec.Command("xdg-open", path), nil
	case osWindows:
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", s.goos)
	}
}
