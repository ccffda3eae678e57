package keyvalues_test

import (
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/require"

	"github.com/KimNorgaard/go-keyvalues"
)

const convertInput = `"Settings"
{
	"name"		"demo \"one\""
	"path"		"maps\de_dust"
	"video"
	{
		"mode"		"windowed"
		"vsync"		"on"
	}
	"empty"
	{
	}
}
"other"		"value"
`

func TestToYAML(t *testing.T) {
	tree, err := keyvalues.ParseString(convertInput)
	require.NoError(t, err)
	defer tree.Release()

	out, err := keyvalues.ToYAML(tree)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(out, &got))
	require.Equal(t, map[string]any{
		"Settings": map[string]any{
			"name": `demo "one"`,
			"path": `maps\de_dust`,
			"video": map[string]any{
				"mode":  "windowed",
				"vsync": "on",
			},
			"empty": map[string]any{},
		},
		"other": "value",
	}, got)

	var ordered yaml.MapSlice
	require.NoError(t, yaml.UnmarshalWithOptions(out, &ordered, yaml.UseOrderedMap()))
	require.Len(t, ordered, 2)
	require.Equal(t, "Settings", ordered[0].Key)
	require.Equal(t, "other", ordered[1].Key)
}

func TestToJSON(t *testing.T) {
	tree, err := keyvalues.ParseString(convertInput)
	require.NoError(t, err)
	defer tree.Release()

	out, err := keyvalues.ToJSON(tree)
	require.NoError(t, err)
	require.True(t, json.Valid(out), "invalid JSON: %s", out)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	settings, ok := got["Settings"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, `demo "one"`, settings["name"])
	require.Equal(t, `maps\de_dust`, settings["path"])
	require.Equal(t, map[string]any{"mode": "windowed", "vsync": "on"}, settings["video"])
	require.Equal(t, "value", got["other"])
}

func TestToJSONEmpty(t *testing.T) {
	tree, err := keyvalues.ParseString("")
	require.NoError(t, err)
	defer tree.Release()

	out, err := keyvalues.ToJSON(tree)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	require.Empty(t, got)
}
