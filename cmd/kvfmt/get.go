package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KimNorgaard/go-keyvalues"
	"github.com/KimNorgaard/go-keyvalues/internal/lexer"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <file> <path>",
		Short: "Print a value or a block",
		Long: `The get command looks up a slash-separated key path and prints the
value of a leaf, or the whole block in KeyValues form. Keys match
exactly; the first match at each level wins.

Example:
  kvfmt get gameinfo.txt GameInfo/game
  kvfmt get gameinfo.txt GameInfo/FileSystem`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGet(cmd, args[0], args[1])
		},
	}
}

func (a *app) runGet(cmd *cobra.Command, path, keyPath string) error {
	a.log.Debug("loading", "file", path)
	tree, err := keyvalues.LoadFile(path, a.opts...)
	if err != nil {
		return err
	}
	defer tree.Release()

	names := strings.Split(strings.Trim(keyPath, "/"), "/")
	n := tree.FindPath(names...)
	if n == nil {
		return fmt.Errorf("%s: key %q not found", path, keyPath)
	}

	out := cmd.OutOrStdout()
	if n.IsBlock() {
		return keyvalues.NewEncoder(out).Encode(n)
	}
	_, err = fmt.Fprintln(out, lexer.Unescape(n.Value))
	return err
}
