package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	jsontool "github.com/useManner/json-tool"
	"github.com/useManner/json-tool/detect"
	"github.com/useManner/json-tool/enhance"
	"github.com/useManner/json-tool/export"
	"github.com/useManner/json-tool/query"
	"github.com/useManner/json-tool/synth"
	"github.com/useManner/json-tool/transform"
)

// inputFlags are shared by commands that decode a document.
type inputFlags struct {
	from     string
	maxBytes int64
	maxDepth int
	strict   bool
	dump     bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.from, "from", "", "input format (json, js, py, yaml, xml, csv, query, xlsx); detected when empty")
	fl.Int64Var(&f.maxBytes, "max-bytes", 0, "reject inputs larger than this many bytes (0 = built-in cap of 10000)")
	fl.IntVar(&f.maxDepth, "max-depth", 0, "reject inputs nested deeper than this (0 = built-in cap of 10000)")
	fl.BoolVar(&f.strict, "strict-keys", false, "fail on duplicate object keys instead of keeping the last")
	fl.BoolVar(&f.dump, "debug-dump", false, "dump the decoded value to stderr")
}

func (a *app) detector(f *inputFlags) *detect.Detector {
	opts := []detect.Option{
		detect.WithLogger(a.log),
		detect.WithMaxBytes(f.maxBytes),
		detect.WithMaxDepth(f.maxDepth),
	}
	if f.strict {
		opts = append(opts, detect.WithDuplicatePolicy(jsontool.DuplicateError))
	}
	return detect.New(opts...)
}

// readInput returns the named file's content, or stdin when no file is given
// or the name is "-".
func (a *app) readInput(args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(a.in)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), "", nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("reading input: %w", err)
	}
	return string(b), args[0], nil
}

// load decodes the input, honouring --from and treating .xlsx files as Excel.
func (a *app) load(args []string, f *inputFlags) (detect.Result, error) {
	raw, name, err := a.readInput(args)
	if err != nil {
		return detect.Result{}, err
	}
	from := f.from
	if from == "" && strings.EqualFold(filepath.Ext(name), ".xlsx") {
		from = "xlsx"
	}
	d := a.detector(f)
	var res detect.Result
	if from != "" {
		format, ok := jsontool.ParseFormat(from)
		if !ok {
			return detect.Result{}, fmt.Errorf("unknown input format %q", from)
		}
		res, err = d.DecodeAs(raw, format)
	} else {
		res, err = d.Detect(raw)
	}
	if err != nil {
		return detect.Result{}, err
	}
	a.log.Debug("input decoded", "format", res.Format.String(), "bytes", len(raw))
	if f.dump {
		spew.Fdump(a.errOut, res.Value)
	}
	return res, nil
}

// write sends b to --out or stdout.
func (a *app) write(b []byte) error {
	if a.outPath != "" {
		if err := os.WriteFile(a.outPath, b, 0o644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return nil
	}
	_, err := a.out.Write(b)
	return err
}

func (a *app) writeJSON(v any, indent int) error {
	b, err := export.JSON(v, export.Options{Indent: indent})
	if err != nil {
		return err
	}
	return a.write(append(b, '\n'))
}

// decodeArg decodes an inline or file-based parameter document.
func (a *app) decodeArg(text, file string) (any, error) {
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		text = string(b)
	}
	res, err := detect.New(detect.WithLogger(a.log)).Detect(text)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

func (a *app) detectCmd() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "detect [file]",
		Short: "Detect the input format and print it as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.load(args, &in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.errOut, "format: %s\n", res.Format)
			return a.writeJSON(res.Value, 0)
		},
	}
	in.register(cmd)
	return cmd
}

func (a *app) convertCmd() *cobra.Command {
	var (
		in   inputFlags
		to   string
		name string
		opt  export.Options
	)
	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert the input to json, min, yaml, js, ts, csv or xlsx",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.load(args, &in)
			if err != nil {
				return err
			}
			var b []byte
			switch strings.ToLower(to) {
			case "json":
				b, err = export.JSON(res.Value, opt)
			case "min", "minified":
				b, err = export.MinifiedJSON(res.Value)
			case "yaml", "yml":
				b, err = export.YAML(res.Value)
			case "js":
				b, err = export.JS(res.Value, name)
			case "ts":
				b, err = export.TS(res.Value, name)
			case "csv":
				var buf bytes.Buffer
				err = export.CSV(&buf, res.Value)
				b = buf.Bytes()
			case "xlsx", "excel":
				var buf bytes.Buffer
				err = export.Excel(&buf, res.Value)
				b = buf.Bytes()
			default:
				return fmt.Errorf("unknown output format %q", to)
			}
			if err != nil {
				return err
			}
			if n := len(b); n > 0 && b[n-1] != '\n' && !strings.EqualFold(to, "xlsx") && !strings.EqualFold(to, "excel") {
				b = append(b, '\n')
			}
			return a.write(b)
		},
	}
	in.register(cmd)
	fl := cmd.Flags()
	fl.StringVarP(&to, "to", "t", "json", "output format")
	fl.StringVar(&name, "name", "data", "variable name for js and ts output")
	fl.IntVar(&opt.Indent, "indent", export.DefaultIndent, "indent width for json output")
	fl.BoolVar(&opt.SortKeys, "sort-keys", false, "sort object keys")
	fl.BoolVar(&opt.ASCII, "ascii", false, "escape non-ASCII characters")
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that the input is strict JSON and report duplicate keys",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _, err := a.readInput(args)
			if err != nil {
				return err
			}
			warn, err := export.Validate(raw)
			if err != nil {
				return err
			}
			for _, it := range warn {
				fmt.Fprintf(a.errOut, "warning: %s: %s\n", it.Path, a.tr.Message(it.Code, nil))
			}
			return a.write([]byte("valid\n"))
		},
	}
}

func (a *app) generateCmd() *cobra.Command {
	var (
		seed  uint64
		count int
	)
	cmd := &cobra.Command{
		Use:   "generate [schema-file]",
		Short: "Generate sample data from a JSON Schema or shorthand template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := a.readInput(args)
			if err != nil {
				return err
			}
			opts := []synth.Option{synth.WithLogger(a.log)}
			if cmd.Flags().Changed("seed") {
				opts = append(opts, synth.WithRand(rand.New(rand.NewPCG(seed, seed))))
			}
			e := synth.New(opts...)
			if count <= 1 {
				v, err := e.GenerateJSON(text)
				if err != nil {
					return err
				}
				return a.writeJSON(v, 0)
			}
			out := make([]any, 0, count)
			for i := 0; i < count; i++ {
				v, err := e.GenerateJSON(text)
				if err != nil {
					return err
				}
				out = append(out, v)
			}
			return a.writeJSON(out, 0)
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for reproducible output")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of values to generate")
	return cmd
}

func (a *app) transformCmd() *cobra.Command {
	var (
		in              inputFlags
		stepsFile, text string
	)
	cmd := &cobra.Command{
		Use:   "transform [file]",
		Short: "Run group, filter, sort, map, flatten and aggregate steps",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if stepsFile == "" && text == "" {
				return fmt.Errorf("one of --steps or --steps-json is required")
			}
			sv, err := a.decodeArg(text, stepsFile)
			if err != nil {
				return err
			}
			steps, err := transform.ParseSteps(sv)
			if err != nil {
				return err
			}
			if err := transform.Check(steps); err != nil {
				a.log.Warn("pipeline has unknown steps", "err", err)
			}
			res, err := a.load(args, &in)
			if err != nil {
				return err
			}
			return a.writeJSON(transform.New(steps, transform.WithLogger(a.log)).Run(res.Value), 0)
		},
	}
	in.register(cmd)
	cmd.Flags().StringVar(&stepsFile, "steps", "", "file holding the step list")
	cmd.Flags().StringVar(&text, "steps-json", "", "inline step list")
	return cmd
}

func (a *app) enhanceCmd() *cobra.Command {
	var (
		in             inputFlags
		specFile, text string
		seed           uint64
	)
	cmd := &cobra.Command{
		Use:   "enhance [file]",
		Short: "Set fields to literals (=value) or generated sample values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if specFile == "" && text == "" {
				return fmt.Errorf("one of --spec or --spec-json is required")
			}
			sv, err := a.decodeArg(text, specFile)
			if err != nil {
				return err
			}
			spec, err := enhance.ParseSpec(sv)
			if err != nil {
				return err
			}
			res, err := a.load(args, &in)
			if err != nil {
				return err
			}
			opts := []synth.Option{synth.WithLogger(a.log)}
			if cmd.Flags().Changed("seed") {
				opts = append(opts, synth.WithRand(rand.New(rand.NewPCG(seed, seed))))
			}
			return a.writeJSON(enhance.New(synth.New(opts...)).Enhance(res.Value, spec), 0)
		},
	}
	in.register(cmd)
	cmd.Flags().StringVar(&specFile, "spec", "", "file holding the field directives")
	cmd.Flags().StringVar(&text, "spec-json", "", "inline field directives")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for reproducible output")
	return cmd
}

func (a *app) queryCmd() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "query <jsonpath> [file]",
		Short: "Extract values with a JSONPath expression",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := query.Compile(args[0])
			if err != nil {
				return err
			}
			res, err := a.load(args[1:], &in)
			if err != nil {
				return err
			}
			return a.writeJSON(q.Extract(res.Value), 2)
		},
	}
	in.register(cmd)
	return cmd
}

func (a *app) treeCmd() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "Print the decoded input as an indented outline",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.load(args, &in)
			if err != nil {
				return err
			}
			return a.write([]byte(export.Tree(res.Value)))
		},
	}
	in.register(cmd)
	return cmd
}
