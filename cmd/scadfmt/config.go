package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"scadfmt/internal/driver"
	"scadfmt/internal/style"
)

var configCmd = &cobra.Command{
	Use:   "config [flags] [path]",
	Short: "Show, validate or create style configuration",
	Long: `Config prints the style that applies to path (a file or directory, default "."):
the nearest ` + style.FileName + `, its matching overrides and --set values.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func init() {
	flags := configCmd.Flags()
	flags.Bool("defaults", false, "print the built-in defaults")
	flags.String("validate", "", "check a style file and exit")
	flags.Bool("init", false, "write "+style.FileName+" with every option into the directory")
	flags.Bool("list", false, "list the available options")
	flags.Bool("full", false, "print every option, not only the non-default ones")
	flags.StringArray("set", nil, "override a style option, name=value (repeatable)")
	flags.String("format", "toml", "output format (toml|json)")
}

func runConfig(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	flags := cmd.Flags()
	out := cmd.OutOrStdout()

	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	list, err := flags.GetBool("list")
	if err != nil {
		return err
	}
	if list {
		return listOptions(out)
	}

	validate, err := flags.GetString("validate")
	if err != nil {
		return err
	}
	if validate != "" {
		if _, err := style.LoadFile(validate); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: ok\n", validate)
		return nil
	}

	initFile, err := flags.GetBool("init")
	if err != nil {
		return err
	}
	if initFile {
		return initConfig(out, target)
	}

	format, err := flags.GetString("format")
	if err != nil {
		return err
	}
	full, err := flags.GetBool("full")
	if err != nil {
		return err
	}
	defaults, err := flags.GetBool("defaults")
	if err != nil {
		return err
	}
	if defaults {
		return writeConfig(out, style.Default(), format, true)
	}

	sets, err := flags.GetStringArray("set")
	if err != nil {
		return err
	}
	settings, err := parseSettings(sets)
	if err != nil {
		return err
	}

	lookup := target
	if info, statErr := os.Stat(target); statErr == nil && info.IsDir() {
		lookup = filepath.Join(target, "stdin"+driver.SourceExt)
	}
	resolver := &driver.StyleResolver{Settings: settings}
	cfg, err := resolver.Resolve(lookup)
	if err != nil {
		return err
	}
	if format == "toml" {
		pf, ok, err := style.Discover(lookup)
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintf(out, "# from %s\n", pf.Path)
		} else {
			fmt.Fprintln(out, "# no "+style.FileName+" found, built-in defaults")
		}
	}
	return writeConfig(out, cfg, format, full)
}

func writeConfig(out io.Writer, cfg style.Config, format string, full bool) error {
	switch format {
	case "toml":
		return style.Encode(out, cfg, full)
	case "json":
		var payload any = cfg
		if !full {
			payload = map[string]any(cfg.Diff())
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	default:
		return fmt.Errorf("config: unsupported format %q (expected toml|json)", format)
	}
}

func initConfig(out io.Writer, dir string) error {
	if info, err := os.Stat(dir); err != nil {
		return err
	} else if !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	target := filepath.Join(dir, style.FileName)
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("config: %s already exists", target)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := style.Save(target, style.Default()); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	fmt.Fprintf(out, "created %s\n", target)
	return nil
}

func listOptions(out io.Writer) error {
	for _, o := range style.Options() {
		kind := o.Type.String()
		switch o.Type {
		case style.TypeInt:
			kind = fmt.Sprintf("int %d..%d", o.Min, o.Max)
		case style.TypeEnum:
			kind = fmt.Sprintf("%v", o.Values)
		}
		if _, err := fmt.Fprintf(out, "%-32s %-22s default %-10v %s\n", o.Name, kind, o.Default, o.Doc); err != nil {
			return err
		}
	}
	return nil
}
