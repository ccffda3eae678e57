package keyvalues_test

import (
	"bytes"
	stderrors "errors"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KimNorgaard/go-keyvalues"
	"github.com/KimNorgaard/go-keyvalues/ast"
	"github.com/KimNorgaard/go-keyvalues/errors"
)

type Window struct {
	Mode       string `kv:"mode"`
	Fullscreen bool   `kv:"fullscreen"`
}

type VideoConfig struct {
	Width   int      `kv:"width"`
	Height  int      `kv:"height"`
	Gamma   float64  `kv:"gamma"`
	Window  Window   `kv:"window"`
	Plugins []string `kv:"plugin,omitempty"`
	Comment string   `kv:"comment,omitempty"`
	Skip    string   `kv:"-"`
	Nothing *Window  `kv:"nothing"`
}

func TestMarshal(t *testing.T) {
	cfg := struct {
		Video VideoConfig `kv:"video"`
	}{
		Video: VideoConfig{
			Width:   1920,
			Height:  1080,
			Gamma:   2.2,
			Window:  Window{Mode: "borderless", Fullscreen: true},
			Plugins: []string{"a.dll", "b.dll"},
			Skip:    "never written",
		},
	}

	out, err := keyvalues.Marshal(cfg)
	require.NoError(t, err)
	expected := "\"video\"\n{\n" +
		"\t\"width\"\t\t\"1920\"\n" +
		"\t\"height\"\t\t\"1080\"\n" +
		"\t\"gamma\"\t\t\"2.2\"\n" +
		"\t\"window\"\n\t{\n" +
		"\t\t\"mode\"\t\t\"borderless\"\n" +
		"\t\t\"fullscreen\"\t\t\"1\"\n" +
		"\t}\n" +
		"\t\"plugin\"\t\t\"a.dll\"\n" +
		"\t\"plugin\"\t\t\"b.dll\"\n" +
		"}\n"
	require.Equal(t, expected, string(out))

	var back struct {
		Video VideoConfig `kv:"video"`
	}
	require.NoError(t, keyvalues.Unmarshal(out, &back))
	cfg.Video.Skip = ""
	require.Equal(t, cfg, back)
}

func TestMarshalMap(t *testing.T) {
	out, err := keyvalues.Marshal(map[string]any{
		"b": "2",
		"a": map[string]int{"y": 2, "x": 1},
		"c": nil,
	})
	require.NoError(t, err)
	require.Equal(t, "\"a\"\n{\n\t\"x\"\t\t\"1\"\n\t\"y\"\t\t\"2\"\n}\n\"b\"\t\t\"2\"\n", string(out))
}

func TestMarshalEscapes(t *testing.T) {
	in := map[string]string{`say "hi"`: `C:\dir\`}
	out, err := keyvalues.Marshal(in)
	require.NoError(t, err)
	require.Equal(t, "\"say \\\"hi\\\"\"\t\t\"C:\\dir\\\\\"\n", string(out))

	var back map[string]string
	require.NoError(t, keyvalues.Unmarshal(out, &back))
	require.Equal(t, in, back)
}

func TestMarshalEmptyBlocks(t *testing.T) {
	out, err := keyvalues.Marshal(struct {
		Empty struct{}
		Map   map[string]string
	}{})
	require.NoError(t, err)
	require.Equal(t, "\"Empty\"\n{\n}\n\"Map\"\n{\n}\n", string(out))
}

func TestMarshalNodes(t *testing.T) {
	out, err := keyvalues.Marshal(ast.NewBlock("a", ast.NewLeaf("b", "c")))
	require.NoError(t, err)
	require.Equal(t, "\"a\"\n{\n\t\"b\"\t\t\"c\"\n}\n", string(out))

	root := &ast.Node{}
	root.Append(ast.NewLeaf("k", "v"))
	out, err = keyvalues.Marshal(root)
	require.NoError(t, err)
	require.Equal(t, "\"k\"\t\t\"v\"\n", string(out))

	out, err = keyvalues.Marshal(nil)
	require.NoError(t, err)
	require.Empty(t, out)
}

type upper string

func (u upper) MarshalKeyValues() (*ast.Node, error) {
	if u == "" {
		return nil, stderrors.New("empty")
	}
	return ast.NewBlock("ignored", ast.NewLeaf("value", string(u))), nil
}

func TestMarshalCustom(t *testing.T) {
	out, err := keyvalues.Marshal(struct {
		Addr netip.Addr
		Cust upper
	}{
		Addr: netip.MustParseAddr("10.0.0.1"),
		Cust: "X",
	})
	require.NoError(t, err)
	require.Equal(t, "\"Addr\"\t\t\"10.0.0.1\"\n\"Cust\"\n{\n\t\"value\"\t\t\"X\"\n}\n", string(out))

	_, err = keyvalues.Marshal(struct{ Cust upper }{})
	var me *keyvalues.MarshalerError
	require.True(t, stderrors.As(err, &me))
}

func TestMarshalErrors(t *testing.T) {
	_, err := keyvalues.Marshal("not a document")
	require.Error(t, err)

	_, err = keyvalues.Marshal(struct{ C chan int }{C: make(chan int)})
	var ute *keyvalues.UnsupportedTypeError
	require.True(t, stderrors.As(err, &ute))

	_, err = keyvalues.Marshal(map[int]string{1: "a"})
	require.True(t, stderrors.As(err, &ute))

	_, err = keyvalues.Marshal(struct{}{}, keyvalues.Indent(-1))
	require.Error(t, err)

	type loop struct{ Self *loop }
	l := &loop{}
	l.Self = l
	_, err = keyvalues.Marshal(l)
	var uve *keyvalues.UnsupportedValueError
	require.True(t, stderrors.As(err, &uve))

	// A zero byte ends the input, so it cannot be written inside quotes
	// even behind a backslash.
	for _, text := range []string{"x\\\x00y", "nul\x00"} {
		_, err = keyvalues.Marshal(struct{ A string }{A: text})
		var ee *errors.EncodeError
		require.True(t, stderrors.As(err, &ee), "text %q", text)
	}
}

func TestEncoderIndent(t *testing.T) {
	var buf bytes.Buffer
	enc := keyvalues.NewEncoder(&buf, keyvalues.Indent(4))
	require.NoError(t, enc.Encode(map[string]map[string]string{"a": {"b": "c"}}))
	require.Equal(t, "\"a\"\n{\n    \"b\"\t\t\"c\"\n}\n", buf.String())
}
