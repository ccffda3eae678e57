package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/KimNorgaard/go-keyvalues"
	"github.com/KimNorgaard/go-keyvalues/internal/textenc"
)

// app holds the global flags and the state derived from them.
type app struct {
	lenient  bool
	encoding string
	verbose  bool
	noColor  bool

	log  *slog.Logger
	opts []keyvalues.Option
}

func newRootCmd() *cobra.Command {
	a := &app{log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	cmd := &cobra.Command{
		Use:   "kvfmt",
		Short: "Format, check and convert KeyValues files",
		Long: `kvfmt works with KeyValues text files: nested "key" "value" pairs
and "key" { ... } blocks. It can reformat files, report syntax errors,
print single values and export documents as YAML or JSON.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().BoolVar(&a.lenient, "lenient", false, "Accept unclosed blocks, dangling keys and stray braces")
	cmd.PersistentFlags().StringVar(&a.encoding, "encoding", "", "Input encoding, e.g. windows-1252 or utf-16le")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(
		newFmtCmd(a),
		newGetCmd(a),
		newConvertCmd(a),
		newCheckCmd(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	if a.noColor || !isTerminal(cmd.OutOrStdout()) {
		color.NoColor = true
	}

	a.opts = nil
	if a.lenient {
		a.opts = append(a.opts, keyvalues.Lenient())
	}
	enc, err := textenc.Lookup(a.encoding)
	if err != nil {
		return err
	}
	if enc != nil {
		a.opts = append(a.opts, keyvalues.Encoding(enc))
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
