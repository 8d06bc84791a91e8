package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/useManner/json-tool/i18n"
)

var version = "0.3.0"

// app carries the streams and ambient settings shared by every command.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	verbose bool
	lang    string
	outPath string

	log *slog.Logger
	tr  i18n.Translator
}

func main() {
	a := &app{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
	if err := a.root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, i18n.Describe(a.translator(), err))
		os.Exit(1)
	}
}

func (a *app) root() *cobra.Command {
	root := &cobra.Command{
		Use:   "jsontool",
		Short: "Detect, convert, generate and reshape structured data",
		Long: `jsontool reads JSON, JavaScript or Python object literals, YAML, XML,
CSV/TSV, URL query strings and Excel workbooks, detects the format
automatically, and writes JSON or another format back out.

It also generates sample data from JSON Schema or shorthand templates,
runs record transforms, and extracts values with JSONPath.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.setup()
			return nil
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")
	pf.StringVar(&a.lang, "lang", "", "message language: en or zh (default $JSONTOOL_LANG)")
	pf.StringVarP(&a.outPath, "out", "o", "", "write output to this file instead of stdout")

	root.AddCommand(
		a.detectCmd(),
		a.convertCmd(),
		a.validateCmd(),
		a.generateCmd(),
		a.transformCmd(),
		a.enhanceCmd(),
		a.queryCmd(),
		a.treeCmd(),
	)
	return root
}

// setup builds the logger and translator from flags and environment.
func (a *app) setup() {
	level := slog.LevelWarn
	if s := os.Getenv("JSONTOOL_LOG_LEVEL"); s != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err == nil {
			level = l
		}
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))
	a.tr = a.translator()
}

func (a *app) translator() i18n.Translator {
	lang := a.lang
	if lang == "" {
		lang = os.Getenv("JSONTOOL_LANG")
	}
	return i18n.New(lang)
}
