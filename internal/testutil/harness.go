package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteTree writes files into a fresh temporary directory and returns it.
// Names are slash separated relative paths; missing directories are created.
func WriteTree(t *testing.T, files map[string][]byte) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, content, 0o644))
	}
	return root
}

// Recover runs fn and returns the value it panicked with as an error, or nil
// when it returned normally.
func Recover(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("startup panicked | %v", r)
		}
	}()
	fn()
	return nil
}
