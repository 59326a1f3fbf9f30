package download

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// MediaScanner tells the platform media index about a new file.
type MediaScanner interface {
	Scan(ctx context.Context, path string) error
}

// NopScanner does nothing.
type NopScanner struct{}

func (NopScanner) Scan(context.Context, string) error { return nil }

// CommandScanner runs an external indexer with the file path as the last
// argument, e.g. "termux-media-scan".
type CommandScanner struct {
	Command string
}

func (s CommandScanner) Scan(ctx context.Context, path string) error {
	fields := strings.Fields(s.Command)
	if len(fields) == 0 {
		return nil
	}
	args := append(fields[1:], path)
	out, err := exec.CommandContext(ctx, fields[0], args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("media scan %q: %w: %s", s.Command, err, strings.TrimSpace(string(out)))
	}
	return nil
}
