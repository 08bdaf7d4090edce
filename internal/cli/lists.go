package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"todolists/internal/export"
)

func newListsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Show every list with its label and task count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, closeFn, err := openRegistry(cmd, opts)
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			lists := registry.Lists()
			if len(lists) == 0 {
				fmt.Fprintln(out, "No lists yet. Create one with 'todolists new-list'.")
				return nil
			}
			for _, s := range lists {
				fmt.Fprintf(out, "%s\t%s\t%d tasks\n", s.Key(), s.Label(), s.Count())
			}
			return nil
		},
	}
}

func newNewListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "new-list",
		Short: "Create an empty list and print its key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, closeFn, err := openRegistry(cmd, opts)
			if err != nil {
				return err
			}
			defer closeFn()

			s, err := registry.CreateList(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.Key())
			return nil
		},
	}
}

func newDeleteListCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-list KEY",
		Short: "Delete a list and all of its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, closeFn, err := openRegistry(cmd, opts)
			if err != nil {
				return err
			}
			defer closeFn()

			key := args[0]
			if _, err := registry.Get(key); err != nil {
				return err
			}

			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Are you sure you want to delete %s? [y/N] ", key)
				if !confirm(cmd) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if err := registry.DeleteList(cmd.Context(), key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", key)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// confirm reads one line of input and reports whether it was a yes.
func confirm(cmd *cobra.Command) bool {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export KEY",
		Short: "Write a list as json, csv, yaml or pdf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, closeFn, err := openRegistry(cmd, opts)
			if err != nil {
				return err
			}
			defer closeFn()

			s, err := registry.Get(args[0])
			if err != nil {
				return err
			}

			data, err := export.Render(s.Snapshot(), format)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format ("+strings.Join(export.Formats, ", ")+")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
