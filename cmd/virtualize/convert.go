package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/cybergodev/virtualize"
	"github.com/cybergodev/virtualize/internal/config"
)

type convertOptions struct {
	selector string
	markdown bool
	format   string
	encoding string
}

func convertCmd(cfg *config.Config) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert [file...]",
		Short: "Convert HTML files to virtual node trees",
		Long: `Convert HTML to virtual node trees and print them.

With no file, or when file is -, markup is read from stdin. Several files
are converted concurrently and printed as one array, in argument order.

Examples:
  virtualize convert page.html
  virtualize convert --select 'ul.menu > li' page.html
  virtualize convert --markdown README.md --format yaml
  echo '<b>hi</b>' | virtualize convert`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch opts.format {
			case "json", "yaml":
			default:
				return fmt.Errorf("unknown format %q (want json or yaml)", opts.format)
			}

			p, err := virtualize.New(cfg.Processor(cfg.Logger()))
			if err != nil {
				return err
			}
			defer p.Close()

			if len(args) == 0 {
				args = []string{"-"}
			}
			out, err := runConvert(p, cmd.InOrStdin(), args, opts)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), out, opts.format)
		},
	}

	cmd.Flags().StringVar(&opts.selector, "select", "", "Convert only the elements matching this CSS selector")
	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "Treat input as Markdown")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "Output format (json, yaml)")
	cmd.Flags().StringVar(&opts.encoding, "encoding", "", "Source character encoding (detected when empty)")

	return cmd
}

// runConvert returns a single Result for one input and a []Result otherwise.
func runConvert(p *virtualize.Processor, stdin io.Reader, args []string, opts convertOptions) (any, error) {
	plain := opts.selector == "" && !opts.markdown && opts.encoding == ""
	if plain && len(args) > 1 && !slices.Contains(args, "-") {
		results, err := p.ConvertBatchFiles(args, virtualize.Hooks{})
		if err != nil {
			return nil, err
		}
		return results, nil
	}

	results := make([]virtualize.Result, 0, len(args))
	for _, arg := range args {
		data, err := readInput(stdin, arg)
		if err != nil {
			return nil, err
		}
		res, err := convertOne(p, data, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		results = append(results, res)
	}
	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

func convertOne(p *virtualize.Processor, data []byte, opts convertOptions) (virtualize.Result, error) {
	switch {
	case opts.markdown:
		return p.ConvertMarkdown(data, virtualize.Hooks{})
	case opts.selector != "":
		return p.SelectBytes(data, opts.encoding, opts.selector, virtualize.Hooks{})
	default:
		return p.ConvertBytes(data, opts.encoding, virtualize.Hooks{})
	}
}

func readInput(stdin io.Reader, arg string) ([]byte, error) {
	if arg == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", arg, err)
	}
	return data, nil
}

func writeOutput(w io.Writer, v any, format string) error {
	var (
		data []byte
		err  error
	)
	if format == "yaml" {
		data, err = yaml.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	_, err = w.Write(data)
	return err
}
