package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scadfmt/internal/lsp"
	"scadfmt/internal/style"
)

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the formatting language server over stdio",
	SilenceUsage: true,
	RunE:         runLSP,
}

func init() {
	lspCmd.Flags().StringArray("set", nil, "style option applied before client settings, name=value (repeatable)")
	lspCmd.Flags().Duration("debounce", 0, "delay before diagnostics are published (0=default)")
	lspCmd.Flags().Bool("no-discovery", false, "ignore "+style.FileName+" files next to documents")
}

func runLSP(cmd *cobra.Command, _ []string) error {
	sets, err := cmd.Flags().GetStringArray("set")
	if err != nil {
		return err
	}
	settings, err := parseSettings(sets)
	if err != nil {
		return err
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}
	noDiscovery, err := cmd.Flags().GetBool("no-discovery")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Debounce:       debounce,
		MaxDiagnostics: maxDiagnostics,
		Settings:       settings,
		NoDiscovery:    noDiscovery,
		Log:            os.Stderr,
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
