package keyvalues

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/KimNorgaard/go-keyvalues/ast"
	"github.com/KimNorgaard/go-keyvalues/internal/lexer"
)

// ToYAML renders t as a YAML mapping. Blocks become nested mappings in
// document order, leaves become strings, and repeated keys are kept.
func ToYAML(t *Tree) ([]byte, error) {
	out, err := yaml.Marshal(toMapSlice(t.Root))
	if err != nil {
		return nil, fmt.Errorf("keyvalues: yaml: %w", err)
	}
	return out, nil
}

// ToJSON renders t as a JSON object in document order. Repeated keys are
// written as they appear, which JSON readers may resolve differently.
func ToJSON(t *Tree) ([]byte, error) {
	out, err := yaml.MarshalWithOptions(toMapSlice(t.Root), yaml.JSON())
	if err != nil {
		return nil, fmt.Errorf("keyvalues: json: %w", err)
	}
	return out, nil
}

func toMapSlice(n *ast.Node) yaml.MapSlice {
	ms := make(yaml.MapSlice, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Key == nil {
			continue
		}
		item := yaml.MapItem{Key: lexer.Unescape(c.Key)}
		switch {
		case c.IsBlock():
			item.Value = toMapSlice(c)
		case c.HasValue():
			item.Value = lexer.Unescape(c.Value)
		default:
			continue
		}
		ms = append(ms, item)
	}
	return ms
}
