package keyvalues_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KimNorgaard/go-keyvalues"
	"github.com/KimNorgaard/go-keyvalues/ast"
)

func FuzzRoundTrip(f *testing.F) {
	// Seed the corpus with the golden inputs, valid and invalid.
	seedFiles, err := filepath.Glob("testdata/*.kv")
	if err != nil {
		f.Fatalf("failed to find seed files: %v", err)
	}
	for _, file := range seedFiles {
		data, err := os.ReadFile(file)
		if err != nil {
			f.Fatalf("failed to read seed file %s: %v", file, err)
		}
		f.Add(data)
	}

	f.Add([]byte(`"a" "b"`))
	f.Add([]byte(`"a" { }`))
	f.Add([]byte(`"a\"b" "c\\"`))
	f.Add([]byte("#c\n\"a\"{\"b\"\"c\"}"))
	f.Add([]byte(`"a`))
	f.Add([]byte(`}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		for _, lenient := range []bool{false, true} {
			var opts []keyvalues.Option
			if lenient {
				opts = append(opts, keyvalues.Lenient())
			}
			buf := append([]byte(nil), data...)
			first, err := keyvalues.Parse(buf, opts...)
			if err != nil {
				// Invalid input is expected; the fuzzer is after panics.
				continue
			}

			out, err := keyvalues.Marshal(first)
			require.NoError(t, err, "Marshal failed for a successfully parsed tree")

			second, err := keyvalues.Parse(out)
			require.NoError(t, err, "Parse failed on our own output:\n%s", out)

			// Nodes with neither value nor children are not written, so the
			// lenient comparison drops them first.
			if lenient {
				prune(first.Root)
			}
			require.True(t, ast.Equal(first.Root, second.Root), "tree changed across a round trip")
		}
	})
}

func prune(n *ast.Node) {
	_ = n.Walk(func(c *ast.Node, _ int) error {
		kept := c.Children[:0]
		for _, child := range c.Children {
			if child.IsBlock() || child.HasValue() {
				kept = append(kept, child)
			}
		}
		if c.Children != nil {
			c.Children = kept
		}
		return nil
	})
}
