// ABOUTME: Tests for the file input selector
// ABOUTME: Verifies parsing of the active input id
package input

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func TestFile_Current(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"1\n", 1},
		{"6", 6},
		{" 3 \nignored\n", 3},
	}

	for _, tt := range tests {
		got, err := NewFile(writeInput(t, tt.content)).Current(context.Background())
		if err != nil {
			t.Errorf("Current(%q) failed: %v", tt.content, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Current(%q): expected %d, got %d", tt.content, tt.want, got)
		}
	}
}

func TestFile_Invalid(t *testing.T) {
	for _, content := range []string{"", "klangbecken\n", "-1\n"} {
		_, err := NewFile(writeInput(t, content)).Current(context.Background())
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Current(%q): expected ErrInvalidInput, got %v", content, err)
		}
	}
}

func TestFile_Missing(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "missing")).Current(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}
