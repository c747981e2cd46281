package testutils

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/otiai10/copy"
	"github.com/stretchr/testify/require"
)

// CopyProject copies a project fixture into a fresh temporary directory and
// returns its path. src is relative to internal/document/testdata.
func CopyProject(t *testing.T, src string) string {
	t.Helper()

	dst := filepath.Join(t.TempDir(), filepath.Base(src))
	require.NoError(t, copy.Copy(filepath.Join(testDataPath(), src), dst))
	return dst
}

func testDataPath() string {
	_, b, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(b), "..", "document", "testdata")
}
