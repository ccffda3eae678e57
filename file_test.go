package keyvalues_test

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/KimNorgaard/go-keyvalues"
	"github.com/KimNorgaard/go-keyvalues/ast"
	"github.com/KimNorgaard/go-keyvalues/errors"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.kv")
	content := []byte("\"root\"\n{\n\t\"key\"\t\t\"value\"\n}\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	tree, err := keyvalues.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "value", tree.FindPath("root", "key").ValueString())
	require.NoError(t, tree.Release())
	require.NoError(t, tree.Release())

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, content, onDisk, "parsing in place must not modify the file")
}

func TestLoadFileDetach(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.kv")
	require.NoError(t, os.WriteFile(path, []byte(`"a" { "b" "c" }`), 0o644))

	tree, err := keyvalues.LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, tree.Detach())
	require.Nil(t, tree.Buffer())
	require.Equal(t, "c", tree.FindPath("a", "b").ValueString())
	require.NoError(t, tree.Release())
}

func TestLoadFileEncodings(t *testing.T) {
	dir := t.TempDir()

	utf16 := filepath.Join(dir, "utf16.kv")
	// "k" "v" as UTF-16LE with a BOM.
	require.NoError(t, os.WriteFile(utf16, []byte{
		0xFF, 0xFE,
		'"', 0, 'k', 0, '"', 0, ' ', 0, '"', 0, 'v', 0, '"', 0,
	}, 0o644))
	tree, err := keyvalues.LoadFile(utf16)
	require.NoError(t, err)
	require.Equal(t, "v", tree.FindKey("k").ValueString())
	require.NoError(t, tree.Release())

	latin := filepath.Join(dir, "latin.kv")
	require.NoError(t, os.WriteFile(latin, []byte("\"k\" \"caf\xe9\""), 0o644))
	tree, err = keyvalues.LoadFile(latin, keyvalues.Encoding(charmap.Windows1252))
	require.NoError(t, err)
	require.Equal(t, "café", tree.FindKey("k").ValueString())
	require.NoError(t, tree.Release())
}

func TestLoadFileErrors(t *testing.T) {
	_, err := keyvalues.LoadFile(filepath.Join(t.TempDir(), "missing.kv"))
	require.Error(t, err)
	require.ErrorIs(t, err, errors.IOFailure)
	require.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.kv")
	require.NoError(t, os.WriteFile(path, []byte(`"a" {`), 0o644))
	_, err = keyvalues.LoadFile(path)
	var pe *errors.ParseError
	require.True(t, stderrors.As(err, &pe))
	require.Equal(t, errors.UnmatchedBrace, pe.Kind)

	tree, err := keyvalues.LoadFile(path, keyvalues.Lenient())
	require.NoError(t, err)
	require.True(t, tree.FindKey("a").IsBlock())
	require.NoError(t, tree.Release())
}

func TestSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.kv")

	tree := keyvalues.New()
	tree.Root.Append(ast.NewBlock("cfg", ast.NewLeaf("volume", "7")))
	require.NoError(t, keyvalues.SaveFile(path, tree))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "\"cfg\"\n{\n\t\"volume\"\t\t\"7\"\n}\n", string(data))

	loaded, err := keyvalues.LoadFile(path)
	require.NoError(t, err)
	defer loaded.Release()
	require.True(t, ast.Equal(tree.Root, loaded.Root))

	err = keyvalues.SaveFile(filepath.Join(t.TempDir(), "no", "such", "dir.kv"), tree)
	require.ErrorIs(t, err, errors.IOFailure)
}
