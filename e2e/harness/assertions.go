package harness

import (
	"os"
	"strings"
	"testing"
)

// Assertions provides E2E-specific assertions.
type Assertions struct {
	t *testing.T
}

// NewAssertions creates an assertions helper.
func NewAssertions(t *testing.T) *Assertions {
	return &Assertions{t: t}
}

// OutputContains asserts the output contains all given strings.
func (a *Assertions) OutputContains(output string, expected ...string) {
	a.t.Helper()
	for _, exp := range expected {
		if !strings.Contains(output, exp) {
			a.t.Errorf("expected output to contain %q, got:\n%s", exp, truncate(output, 500))
		}
	}
}

// OutputNotContains asserts the output does not contain any of the given strings.
func (a *Assertions) OutputNotContains(output string, unexpected ...string) {
	a.t.Helper()
	for _, unexp := range unexpected {
		if strings.Contains(output, unexp) {
			a.t.Errorf("expected output NOT to contain %q, got:\n%s", unexp, truncate(output, 500))
		}
	}
}

// HelpVisible asserts the help overlay is visible.
func (a *Assertions) HelpVisible(output string) {
	a.t.Helper()
	for _, ind := range []string{"Beauty Gallery Help", "Favorites"} {
		if !strings.Contains(output, ind) {
			a.t.Errorf("help overlay not visible, missing %q in output:\n%s", ind, truncate(output, 500))
			return
		}
	}
}

// HelpNotVisible asserts the help overlay is not visible.
func (a *Assertions) HelpNotVisible(output string) {
	a.t.Helper()
	if strings.Contains(output, "Beauty Gallery Help") {
		a.t.Errorf("help overlay should not be visible, but found 'Beauty Gallery Help' in output")
	}
}

// DirEntries asserts dir holds exactly n entries and returns their names.
func (a *Assertions) DirEntries(dir string, n int) []string {
	a.t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		a.t.Fatalf("failed to read %s: %v", dir, err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if len(names) != n {
		a.t.Errorf("expected %d entries in %s, got %v", n, dir, names)
	}
	return names
}

// NoDuplicatesInWindow asserts no image repeats within any run of size
// consecutive entries.
func (a *Assertions) NoDuplicatesInWindow(seq []string, size int) {
	a.t.Helper()
	for start := 0; start+size <= len(seq); start += size {
		seen := make(map[string]bool, size)
		for _, s := range seq[start : start+size] {
			if seen[s] {
				a.t.Errorf("image %q repeats within cycle starting at %d: %v", s, start, seq[start:start+size])
				return
			}
			seen[s] = true
		}
	}
}

// truncate truncates a string to maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "... (truncated)"
}
