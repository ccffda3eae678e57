package main

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/KimNorgaard/go-keyvalues"
	"github.com/KimNorgaard/go-keyvalues/errors"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <files...>",
		Short: "Report syntax errors",
		Long: `The check command parses each file and prints one diagnostic per
broken file in the form file:line:column: message. It exits with a
non-zero status if any file fails.

Example:
  kvfmt check scripts/*.txt
  kvfmt check --lenient legacy.vdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, args)
		},
	}
}

func (a *app) runCheck(cmd *cobra.Command, paths []string) error {
	failed := 0
	for _, path := range paths {
		tree, err := keyvalues.LoadFile(path, a.opts...)
		if err != nil {
			failed++
			writeDiagnostic(cmd.OutOrStdout(), path, err)
			continue
		}
		_ = tree.Release()
		a.log.Debug("ok", "file", path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

func writeDiagnostic(w io.Writer, path string, err error) {
	loc := path
	msg := err.Error()
	var pe *errors.ParseError
	if stderrors.As(err, &pe) {
		loc = fmt.Sprintf("%s:%d:%d", path, pe.Line, pe.Column)
		msg = pe.Message
	}
	fmt.Fprintf(w, "%s: %s\n", color.New(color.Bold).Sprint(loc), color.RedString(msg))
}
