//go:build !windows

package compiler

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stateful/typstify/internal/document"
	"github.com/stateful/typstify/internal/filetree"
	"github.com/stateful/typstify/internal/testutils"
)

func fakeTypst(t *testing.T, script string) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "typst")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return bin
}

func TestExecCompiler(t *testing.T) {
	t.Run("Output", func(t *testing.T) {
		c := NewExecCompiler(t.TempDir(), WithBinary(fakeTypst(t, "cat")))
		out, err := c.Compile(context.Background(), "= Hello")
		require.NoError(t, err)
		assert.Equal(t, "= Hello", string(out))
	})

	t.Run("Prelude", func(t *testing.T) {
		c := NewExecCompiler(t.TempDir(), WithBinary(fakeTypst(t, "cat")), WithPrelude(FallbackFontPrelude))
		out, err := c.Compile(context.Background(), "= Hello")
		require.NoError(t, err)
		assert.Equal(t, FallbackFontPrelude+"= Hello", string(out))
	})

	t.Run("Diagnostics", func(t *testing.T) {
		bin := fakeTypst(t, `echo '<stdin>:5:3: error: unknown variable: x' >&2; exit 1`)
		c := NewExecCompiler(t.TempDir(), WithBinary(bin), WithPrelude(FallbackFontPrelude))

		_, err := c.Compile(context.Background(), "= Hello\n#x")
		var compErr *CompilationError
		require.ErrorAs(t, err, &compErr)
		require.Len(t, compErr.Diagnostics, 1)
		assert.Equal(t, 2, compErr.Diagnostics[0].LineStart)
		assert.Equal(t, 2, compErr.Diagnostics[0].ColumnStart)
		assert.Equal(t, "unknown variable: x", compErr.Diagnostics[0].Message)
	})

	t.Run("Failure", func(t *testing.T) {
		c := NewExecCompiler(t.TempDir(), WithBinary(fakeTypst(t, `echo 'boom' >&2; exit 2`)))
		_, err := c.Compile(context.Background(), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("Timeout", func(t *testing.T) {
		c := NewExecCompiler(t.TempDir(), WithBinary(fakeTypst(t, "exec sleep 10")), WithTimeout(50*time.Millisecond))
		_, err := c.Compile(context.Background(), "")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("MissingBinary", func(t *testing.T) {
		c := NewExecCompiler(t.TempDir(), WithBinary(filepath.Join(t.TempDir(), "missing")))
		_, err := c.Compile(context.Background(), "")
		require.Error(t, err)
	})
}

func TestExecCompilerTypst(t *testing.T) {
	bin, ok := testutils.HasTypst()
	if !ok {
		t.Skip("TYPSTIFY_TEST_TYPST not set")
	}

	c := NewExecCompiler(t.TempDir(), WithBinary(bin))

	out, err := c.Compile(context.Background(), "= Hello\n")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = c.Compile(context.Background(), "= Hello\n#unknown")
	var compErr *CompilationError
	require.ErrorAs(t, err, &compErr)
	assert.Equal(t, 2, compErr.Diagnostics[0].LineStart)
}

func TestMainSource(t *testing.T) {
	doc := document.NewWithText("= Title")
	text, err := MainSource(doc, document.DefaultMainName)
	require.NoError(t, err)
	assert.Equal(t, "= Title", text)

	_, err = MainSource(doc, "other.typ")
	assert.ErrorIs(t, err, filetree.ErrNotFound)

	require.NoError(t, doc.RootFolder().Insert("logo.png", filetree.NewFileNode(filetree.NewDataPayload([]byte{0x89}))))
	_, err = MainSource(doc, "logo.png")
	assert.ErrorIs(t, err, filetree.ErrEncoding)

	require.NoError(t, doc.RootFolder().Insert("chapters", filetree.NewFolderNode()))
	_, err = MainSource(doc, "chapters")
	assert.ErrorIs(t, err, filetree.ErrNotFound)
}
