package keyvalues

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "update golden files")

func TestGolden(t *testing.T) {
	files, err := filepath.Glob("testdata/*.kv")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			src, err := os.ReadFile(file)
			require.NoError(t, err)

			var actual []byte
			tree, err := Parse(src)
			if err != nil {
				// For files that are expected to fail parsing,
				// the golden file will contain the error message.
				actual = []byte(err.Error())
			} else {
				actual, err = Marshal(tree)
				require.NoError(t, err)
				require.NoError(t, tree.Release())
			}

			goldenFile := strings.Replace(file, ".kv", ".golden", 1)
			if *update {
				err := os.WriteFile(goldenFile, actual, 0o644)
				require.NoError(t, err)
			}

			expected, err := os.ReadFile(goldenFile)
			require.NoError(t, err, "Golden file not found. Run with -update to create it.")

			require.Equal(t, string(expected), string(actual), "Output does not match golden file.")
		})
	}
}
