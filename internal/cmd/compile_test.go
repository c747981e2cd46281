//go:build !windows

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeTypst(t *testing.T, script string) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "typst")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return bin
}

func TestCompile(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "new")
	mustRun(t, dir, "write", "main.typ", "= Title")

	bin := fakeTypst(t, "cat")

	out := mustRun(t, dir, "compile", "--typst", bin, "--fallback-fonts=false", "-o", "-")
	assert.Equal(t, "= Title", out)

	mustRun(t, dir, "compile", "--typst", bin, "--fallback-fonts=false")
	assert.Equal(t, "= Title", readFile(t, dir, "main.pdf"))

	mustRun(t, dir, "compile", "--typst", bin, "-o", "build/out.pdf")
	assert.Contains(t, readFile(t, dir, "build", "out.pdf"), "IBM Plex Mono")
}

func TestCompileDiagnostics(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "new")

	bin := fakeTypst(t, `echo '<stdin>:1:2: error: expected expression' >&2; echo '<stdin>:2:1: warning: unused' >&2; exit 1`)

	r, err := run(t, dir, "", "compile", "--typst", bin, "--fallback-fonts=false")
	assert.EqualError(t, err, "compilation failed")
	assert.Contains(t, r.stderr, "expected expression (line 1, column 1)")
	assert.Contains(t, r.stderr, "unused (line 2, column 0)")
	assert.NoFileExists(t, filepath.Join(dir, "main.pdf"))
}

func TestCompileMissingMain(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "", "compile", "--typst", fakeTypst(t, "cat"))
	assert.Error(t, err)
}
