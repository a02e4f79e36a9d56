// Package cli implements the fnol command-line tool.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dgallion1/fnolgest/internal/claim"
	"github.com/dgallion1/fnolgest/internal/extract"
	"github.com/dgallion1/fnolgest/internal/parser"
	"github.com/dgallion1/fnolgest/internal/pipeline"
	"github.com/dgallion1/fnolgest/internal/report"
)

const version = "fnol v0.3.0"

type options struct {
	input       string
	output      string
	xlsx        string
	rulesFile   string
	pretty      bool
	validate    bool
	verbose     bool
	noPdftotext bool
	concurrency int
}

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "fnol --input <file|dir>",
		Short: "Extract FNOL fields and recommend routing",
		Long: `fnol reads First Notice of Loss documents, extracts the claim fields,
lists the mandatory fields that are missing and recommends a handling route.

A directory input processes every supported file directly inside it, in
name order. One document prints a single JSON object; several print a list.

Example:
  fnol --input claim.txt --pretty
  fnol --input ./inbox --output results.json --xlsx routing.xlsx`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "path to FNOL file or directory")
	f.StringVarP(&opts.output, "output", "o", "", "write JSON results to this path instead of stdout")
	f.BoolVar(&opts.pretty, "pretty", false, "pretty-print JSON")
	f.StringVar(&opts.xlsx, "xlsx", "", "also write a routing worksheet to this path")
	f.StringVar(&opts.rulesFile, "rules", os.Getenv("FNOL_RULES_FILE"), "field rule YAML replacing the built-in table")
	f.IntVar(&opts.concurrency, "concurrency", runtime.NumCPU(), "number of documents processed at once")
	f.BoolVar(&opts.validate, "validate", false, "check the JSON output against the result schema")
	f.BoolVar(&opts.noPdftotext, "no-pdftotext", false, "disable the pdftotext fallback for PDFs")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	_ = cmd.MarkFlagRequired("input")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	files, err := pipeline.GatherFiles(opts.input)
	if err != nil {
		if errors.Is(err, pipeline.ErrNotFound) {
			return fmt.Errorf("input path not found: %s", opts.input)
		}
		return err
	}
	log.Debug("gathered input", "path", opts.input, "files", len(files))

	var rules []extract.Rule
	if opts.rulesFile != "" {
		rules, err = extract.LoadRulesFile(opts.rulesFile)
		if err != nil {
			return err
		}
	}

	proc := pipeline.NewProcessor(extract.NewExtractor(rules), pipeline.Options{
		Parser: parser.Options{PDFFallbackPdftotext: !opts.noPdftotext},
	}, log)

	sources := make([]pipeline.Source, len(files))
	for i, path := range files {
		sources[i] = pipeline.FileSource(path)
	}
	outcomes := proc.ProcessBatch(cmd.Context(), sources, opts.concurrency)
	if err := pipeline.FirstError(outcomes); err != nil {
		return err
	}

	results := make([]claim.Result, len(outcomes))
	for i, o := range outcomes {
		results[i] = o.Result
		log.Info("routed", "file", o.Source, "route", o.Result.Route)
	}

	data, err := encode(results, opts.pretty)
	if err != nil {
		return err
	}
	if opts.validate {
		if err := claim.ValidateResultJSON(data); err != nil {
			return fmt.Errorf("output failed schema validation: %w", err)
		}
	}

	if opts.xlsx != "" {
		book, err := report.WriteXLSX(report.RowsFromResults(results))
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.xlsx, book, 0o644); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, data, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
	return write(cmd.OutOrStdout(), data)
}

// encode renders one result as a bare object and several as a list.
func encode(results []claim.Result, pretty bool) ([]byte, error) {
	var payload any = results
	if len(results) == 1 {
		payload = results[0]
	}

	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(payload, "", "  ")
	} else {
		data, err = json.Marshal(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("encode results: %w", err)
	}
	return append(data, '\n'), nil
}

func write(w io.Writer, data []byte) error {
	_, err := w.Write(data)
	return err
}
