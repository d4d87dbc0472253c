package terminal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRegularFileIsNotInteractive(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "in"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsInteractive(f) {
		t.Error("IsInteractive(file) = true")
	}
	if IsInteractive(nil) {
		t.Error("IsInteractive(nil) = true")
	}
}
