package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteScript writes an executable shell script and returns its path.
func WriteScript(t testing.TB, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("write script %s: %v", name, err)
	}
	return path
}

// WriteStubTrainer writes a trainer stub that appends its arguments to
// args.log in its working directory and exits with exitCode.
func WriteStubTrainer(t testing.TB, dir string, exitCode int) string {
	t.Helper()
	body := fmt.Sprintf("echo \"$@\" >> args.log\necho \"training $*\"\nexit %d", exitCode)
	return WriteScript(t, dir, fmt.Sprintf("trainer-exit-%d.sh", exitCode), body)
}
