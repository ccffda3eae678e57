package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KimNorgaard/go-keyvalues"
)

func newConvertCmd(a *app) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Export a KeyValues file as YAML or JSON",
		Long: `The convert command prints the document as a YAML or JSON mapping.
Blocks become nested mappings in file order and every value is a string.
Repeated keys are written as they appear.

Example:
  kvfmt convert gameinfo.txt
  kvfmt convert --to json gameinfo.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(cmd, args[0], to)
		},
	}
	cmd.Flags().StringVar(&to, "to", "yaml", "Output format: yaml or json")
	return cmd
}

func (a *app) runConvert(cmd *cobra.Command, path, to string) error {
	var conv func(*keyvalues.Tree) ([]byte, error)
	switch to {
	case "yaml", "yml":
		conv = keyvalues.ToYAML
	case "json":
		conv = keyvalues.ToJSON
	default:
		return fmt.Errorf("unknown output format %q, want yaml or json", to)
	}

	a.log.Debug("loading", "file", path)
	tree, err := keyvalues.LoadFile(path, a.opts...)
	if err != nil {
		return err
	}
	defer tree.Release()

	out, err := conv(tree)
	if err != nil {
		return err
	}
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
