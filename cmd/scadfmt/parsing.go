package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scadfmt/internal/diagfmt"
	"scadfmt/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.scad|directory>",
	Short: "Parse OpenSCAD sources and print their syntax trees",
	Long:  `Parse builds the lossless syntax tree of a file, or of every *.scad file in a directory, and prints it`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	parseCmd.Flags().Bool("trivia", false, "include whitespace and comment nodes")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	withTrivia, err := cmd.Flags().GetBool("trivia")
	if err != nil {
		return fmt.Errorf("failed to get trivia flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	files, err := driver.CollectSourceFiles(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("failed to collect files: %w", err)
	}
	if len(files) == 0 {
		return driver.ErrNoFiles
	}

	prettyOpts := diagfmt.PrettyOpts{
		Color:   colorEnabled(cmd, os.Stderr),
		Context: 2,
	}
	out := cmd.OutOrStdout()
	jsonOutput := make(map[string]json.RawMessage, len(files))

	for idx, path := range files {
		result, err := driver.Parse(path, maxDiagnostics)
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		if result.Bag.Len() > 0 {
			result.Bag.Sort()
			diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, prettyOpts)
		}

		if format == "json" {
			var buf bytes.Buffer
			if err := diagfmt.FormatTreeJSON(&buf, result.Tree); err != nil {
				return err
			}
			jsonOutput[path] = json.RawMessage(buf.Bytes())
			continue
		}

		if len(files) > 1 && !quiet {
			if _, err := fmt.Fprintf(out, "== %s ==\n", path); err != nil {
				return err
			}
		}
		if err := diagfmt.FormatTreePretty(out, result.Tree, result.FileSet, withTrivia); err != nil {
			return err
		}
		if len(files) > 1 && !quiet && idx < len(files)-1 {
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
		}
	}

	if format != "json" {
		return nil
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if len(files) == 1 {
		return encoder.Encode(jsonOutput[files[0]])
	}
	return encoder.Encode(jsonOutput)
}
