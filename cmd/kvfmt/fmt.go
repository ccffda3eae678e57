package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/KimNorgaard/go-keyvalues"
)

const stdinName = "<standard input>"

type fmtFlags struct {
	write bool
	diff  bool
	list  bool
}

func newFmtCmd(a *app) *cobra.Command {
	var f fmtFlags
	cmd := &cobra.Command{
		Use:   "fmt [files...]",
		Short: "Reformat KeyValues files",
		Long: `The fmt command parses each file and prints it in canonical layout:
tab indentation, braces on their own lines, and two tabs between a key
and its value. Comments are not kept. With no files it reads standard
input.

Example:
  kvfmt fmt gameinfo.txt
  kvfmt fmt -l scripts/*.txt
  kvfmt fmt -w settings.vdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFmt(cmd, args, f)
		},
	}
	cmd.Flags().BoolVarP(&f.write, "write", "w", false, "Write result to the source file instead of standard output")
	cmd.Flags().BoolVarP(&f.diff, "diff", "d", false, "Print a diff instead of the formatted output")
	cmd.Flags().BoolVarP(&f.list, "list", "l", false, "List files whose formatting differs")
	return cmd
}

func (a *app) runFmt(cmd *cobra.Command, args []string, f fmtFlags) error {
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		if f.write {
			return fmt.Errorf("cannot use -w with standard input")
		}
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		_, _, err = a.fmtSource(out, stdinName, src, f)
		return err
	}

	failed := 0
	for _, path := range args {
		if err := a.fmtFile(out, path, f); err != nil {
			a.log.Error("format failed", "file", path, "err", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be formatted", failed, len(args))
	}
	return nil
}

func (a *app) fmtFile(out io.Writer, path string, f fmtFlags) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	formatted, changed, err := a.fmtSource(out, path, src, f)
	if err != nil || !f.write || !changed {
		return err
	}
	a.log.Debug("rewriting", "file", path)
	return os.WriteFile(path, formatted, info.Mode().Perm())
}

// fmtSource formats src and reports it according to f. It returns the
// formatted text and whether it differs from src.
func (a *app) fmtSource(out io.Writer, name string, src []byte, f fmtFlags) ([]byte, bool, error) {
	formatted, err := a.format(src)
	if err != nil {
		return nil, false, err
	}
	changed := !bytes.Equal(src, formatted)
	a.log.Debug("formatted", "file", name, "changed", changed)

	if f.list && changed {
		fmt.Fprintln(out, name)
	}
	if f.diff && changed {
		writeDiff(out, name, string(src), string(formatted))
	}
	if !f.list && !f.diff && !f.write {
		_, err = out.Write(formatted)
	}
	return formatted, changed, err
}

// format parses a copy of src and writes it back in canonical layout.
func (a *app) format(src []byte) ([]byte, error) {
	tree, err := keyvalues.Load(bytes.NewReader(src), a.opts...)
	if err != nil {
		return nil, err
	}
	defer tree.Release()

	var buf bytes.Buffer
	if err := keyvalues.Save(&buf, tree); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeDiff prints a line diff of from and to, removed lines first.
func writeDiff(w io.Writer, name, from, to string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToRunes(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(a, b, false), lines)

	fmt.Fprintf(w, "--- %s\n+++ %s (formatted)\n", name, name)
	for _, d := range diffs {
		prefix, paint := " ", fmt.Sprint
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix, paint = "-", color.New(color.FgRed).Sprint
		case diffmatchpatch.DiffInsert:
			prefix, paint = "+", color.New(color.FgGreen).Sprint
		}
		for line := range strings.Lines(d.Text) {
			fmt.Fprintln(w, paint(prefix+strings.TrimSuffix(line, "\n")))
		}
	}
}
