package services

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driving"
)

// Operating system identifiers.
const (
	osDarwin  = "darwin"
	osLinux   = "linux"
	osWindows = "windows"
)

// ErrNoClipboard indicates that no clipboard utility is installed.
var ErrNoClipboard = errors.New("no clipboard utility found (install xclip or xsel)")

// Ensure ActionService implements the interface.
var _ driving.ActionService = (*ActionService)(nil)

// ActionService runs OS helpers to copy and open conversations.
type ActionService struct {
	goos     string
	lookPath func(file string) (string, error)

	// run waits for the command; start does not.
	run   func(cmd *exec.Cmd) error
	start func(cmd *exec.Cmd) error
}

// NewActionService creates an action service for the current platform.
func NewActionService() *ActionService {
	return &ActionService{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		run:      (*exec.Cmd).Run,
		start:    (*exec.Cmd).Start,
	}
}

// CopyConversation copies the plain-text transcript to the clipboard.
func (s *ActionService) CopyConversation(ctx context.Context, conv *domain.Conversation) error {
	if conv == nil {
		return fmt.Errorf("copy conversation: %w", domain.ErrInvalidInput)
	}

	cmd, err := s.clipboardCommand(ctx)
	if err != nil {
		return err
	}
	cmd.Stdin = strings.NewReader(conv.PlainText())
	if err := s.run(cmd); err != nil {
		return fmt.Errorf("copy conversation: %w", err)
	}
	return nil
}

// OpenConversation opens the transcript file in the default application.
func (s *ActionService) OpenConversation(ctx context.Context, conv *domain.Conversation) error {
	if conv == nil || conv.Path == "" {
		return fmt.Errorf("open conversation: %w", domain.ErrInvalidInput)
	}
	return s.open(ctx, conv.Path)
}

// OpenURL opens url in the default browser.
func (s *ActionService) OpenURL(ctx context.Context, url string) error {
	if url == "" {
		return fmt.Errorf("open url: %w", domain.ErrInvalidInput)
	}
	return s.open(ctx, url)
}

// open starts the platform opener without waiting for it to exit.
func (s *ActionService) open(ctx context.Context, target string) error {
	var cmd *exec.Cmd

	switch s.goos {
	case osDarwin:
		cmd = exec.CommandContext(ctx, "open", target)
	case osLinux:
		cmd = exec.CommandContext(ctx, "xdg-open", target)
	case osWindows:
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", target)
	default:
		return fmt.Errorf("unsupported platform: %s", s.goos)
	}

	if err := s.start(cmd); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	return nil
}

// clipboardCommand picks the OS-specific clipboard writer.
func (s *ActionService) clipboardCommand(ctx context.Context) (*exec.Cmd, error) {
	switch s.goos {
	case osDarwin:
		return exec.CommandContext(ctx, "pbcopy"), nil
	case osLinux:
		// Try xclip first, fall back to xsel
		if _, err := s.lookPath("xclip"); err == nil {
			return exec.CommandContext(ctx, "xclip", "-selection", "clipboard"), nil
		}
		if _, err := s.lookPath("xsel"); err == nil {
			return exec.CommandContext(ctx, "xsel", "--clipboard", "--input"), nil
		}
		return nil, ErrNoClipboard
	case osWindows:
		return exec.CommandContext(ctx, "cmd", "/c", "clip"), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", s.goos)
	}
}
