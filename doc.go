/*
Package keyvalues reads and writes KeyValues documents: a small text format
of quoted keys, quoted values and brace-delimited blocks, with '#' line
comments.

	"video"
	{
		"width"		"1920"
		"height"	"1080"
		# a comment, ignored
		"window"
		{
			"mode"	"borderless"
		}
	}

Every entry is either a leaf, a key followed by a value, or a block, a key
followed by '{', any number of entries and '}'. Keys are unique only by
convention: lookups return the first match, but every entry is kept and
written back. Whitespace between tokens is insignificant, and a backslash
stops the following quote from closing a token; no other escapes exist.

The package offers two workflows.

1. Tree Access

Parse builds an ast.Node tree directly on top of the input buffer. The
parser does not copy: keys and values are slices of the buffer, and the
closing quote of each one is overwritten with a zero byte. The buffer must
therefore stay alive and unchanged while the tree is in use.

	buf, _ := os.ReadFile("video.kv")
	t, err := keyvalues.Parse(buf)
	if err != nil {
		// handle error
	}
	defer t.Release()

	mode := t.FindPath("video", "window", "mode")
	// mode.ValueString() == "borderless"

	err = keyvalues.Save(os.Stdout, t)

LoadFile maps the file into memory and returns a tree that owns the mapping;
Release frees the nodes first and the mapping after them. Tree.Detach copies
the strings out so the buffer can go.

2. Struct Decoding and Encoding

Unmarshal and Marshal convert between documents and Go values in the manner
of encoding/json, using `kv` struct tags:

	type Video struct {
		Width  int    `kv:"width"`
		Height int    `kv:"height"`
		Window struct {
			Mode string `kv:"mode"`
		} `kv:"window"`
	}

	var cfg struct {
		Video Video `kv:"video"`
	}
	err := keyvalues.Unmarshal(data, &cfg)

Parsing is strict by default: an unclosed block, a stray '}', a comment
without a trailing newline or a key without a value is an error reported as
an *errors.ParseError with its line and column. The Lenient option accepts
such input the way older writers produced it.
*/
package keyvalues
