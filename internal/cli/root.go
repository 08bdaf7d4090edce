// Package cli implements the todolists command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"todolists/internal/config"
	"todolists/internal/store"
	"todolists/internal/tasklist"
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	configPath string
}

// NewRootCmd builds the command tree. Running it without a subcommand
// starts the web server.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "todolists",
		Short: "Keep to-do lists in the browser or on the command line",
		Long: `todolists keeps any number of to-do lists. Each list holds tasks with a
title, description and deadline that can be edited, completed and deleted.

Lists are stored in the configured backend (sqlite3 by default) and are
shared between the web interface and the commands below.`,
		RunE:          func(cmd *cobra.Command, args []string) error { return runServe(cmd, opts) },
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default "+config.DefaultConfigPath()+")")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newListsCmd(opts))
	rootCmd.AddCommand(newNewListCmd(opts))
	rootCmd.AddCommand(newDeleteListCmd(opts))
	rootCmd.AddCommand(newTasksCmd(opts))
	rootCmd.AddCommand(newAddCmd(opts))
	rootCmd.AddCommand(newEditCmd(opts))
	rootCmd.AddCommand(newToggleCmd(opts))
	rootCmd.AddCommand(newRmCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))
	rootCmd.AddCommand(newVersionCmd(version))

	return rootCmd
}

// Execute runs the root command.
func Execute(version string) error {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// openRegistry loads the configuration, opens the backend and loads every
// stored list. The returned function closes the backend.
func openRegistry(cmd *cobra.Command, opts *rootOptions) (*tasklist.Registry, func(), error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}

	backend, err := cfg.OpenStore()
	if err != nil {
		return nil, nil, err
	}

	registry := tasklist.NewRegistry(backend)
	if err := registry.LoadExisting(cmd.Context()); err != nil {
		backend.Close()
		return nil, nil, err
	}

	return registry, closeQuietly(backend), nil
}

func closeQuietly(s store.Store) func() {
	return func() { _ = s.Close() }
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "todolists %s\n", version)
		},
	}
}
