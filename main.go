package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dockhud/internal/app"
)

var version = "0.1.0"

var opts app.Options

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dockhud",
	Short: "Always-on-top overlay windows driven by global shortcuts",
	Long: `dockhud shows module overlays on top of every other window.

Overlays come from modules/<module>/overlays/*.yaml and from custom overlays
built in the control window. Global shortcuts toggle them:

  F9    show or hide every overlay
  F10   edit mode: drag to move, right-drag to resize, Delete to remove

Both chords can be changed in the config file.`,
	Version:      version,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(opts)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the overlays found under the modules directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := app.LoadConfig(opts)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
		listings, err := app.ListOverlays(cfg.ModulesDir)
		if err != nil {
			return err
		}
		return app.WriteListing(cmd.OutOrStdout(), listings)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/dockhud/config.json)")
	rootCmd.PersistentFlags().StringVar(&opts.ModulesDir, "modules", "", "modules directory (overrides the config)")
	rootCmd.Flags().BoolVar(&opts.Debug, "debug", false, "log at debug level")
	rootCmd.Flags().BoolVar(&opts.NoTray, "no-tray", false, "do not install the system tray icon")

	rootCmd.AddCommand(listCmd)
}
