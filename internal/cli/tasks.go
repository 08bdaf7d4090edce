package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"todolists/internal/models"
	"todolists/internal/tasklist"
)

// parsePosition converts a 1-based position argument to a list index.
func parsePosition(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid task number %q: must be a positive integer", arg)
	}
	return n - 1, nil
}

// withList opens the registry, looks up the list named by key and runs fn.
func withList(cmd *cobra.Command, opts *rootOptions, key string, fn func(s *tasklist.Store) error) error {
	registry, closeFn, err := openRegistry(cmd, opts)
	if err != nil {
		return err
	}
	defer closeFn()

	s, err := registry.Get(key)
	if err != nil {
		return err
	}
	return fn(s)
}

func newTasksCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks KEY",
		Short: "Show the tasks of a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withList(cmd, opts, args[0], func(s *tasklist.Store) error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s)\n", s.Label(), s.Key())
				fmt.Fprintf(out, "Total Tasks: %d\n", s.Count())
				for i, task := range s.Tasks() {
					mark := " "
					if task.Completed {
						mark = "x"
					}
					fmt.Fprintf(out, "%d. [%s] %s\n", i+1, mark, task.Title)
					fmt.Fprintf(out, "   %s\n", task.Description)
					fmt.Fprintf(out, "   Deadline: %s\n", task.Deadline)
				}
				return nil
			})
		},
	}
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var f models.Fields

	cmd := &cobra.Command{
		Use:   "add KEY",
		Short: "Add a task to a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withList(cmd, opts, args[0], func(s *tasklist.Store) error {
				if err := s.Create(cmd.Context(), f); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added task %d to %s\n", s.Count(), s.Key())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&f.Title, "title", "t", "", "task title")
	cmd.Flags().StringVarP(&f.Description, "description", "d", "", "task description")
	cmd.Flags().StringVar(&f.Deadline, "deadline", "", "task deadline")
	return cmd
}

func newEditCmd(opts *rootOptions) *cobra.Command {
	var f models.Fields

	cmd := &cobra.Command{
		Use:   "edit KEY NUMBER",
		Short: "Change a task's fields",
		Long: `Change the title, description or deadline of a task. Fields without a
flag keep their current value. The edited task moves to the end of the list.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parsePosition(args[1])
			if err != nil {
				return err
			}

			return withList(cmd, opts, args[0], func(s *tasklist.Store) error {
				current, err := s.BeginEdit(index)
				if err != nil {
					return err
				}

				updated := current
				flags := cmd.Flags()
				if flags.Changed("title") {
					updated.Title = f.Title
				}
				if flags.Changed("description") {
					updated.Description = f.Description
				}
				if flags.Changed("deadline") {
					updated.Deadline = f.Deadline
				}

				if err := s.CommitEdit(cmd.Context(), updated); err != nil {
					_ = s.CancelEdit(cmd.Context())
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated task, now number %d\n", s.Count())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&f.Title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&f.Description, "description", "d", "", "new description")
	cmd.Flags().StringVar(&f.Deadline, "deadline", "", "new deadline")
	return cmd
}

func newToggleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle KEY NUMBER",
		Short: "Mark a task completed or open",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parsePosition(args[1])
			if err != nil {
				return err
			}

			return withList(cmd, opts, args[0], func(s *tasklist.Store) error {
				if err := s.ToggleComplete(cmd.Context(), index); err != nil {
					return err
				}
				state := "open"
				if s.Tasks()[index].Completed {
					state = "completed"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d is %s (%s)\n", index+1, state, s.Label())
				return nil
			})
		},
	}
}

func newRmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm KEY NUMBER",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parsePosition(args[1])
			if err != nil {
				return err
			}

			return withList(cmd, opts, args[0], func(s *tasklist.Store) error {
				if err := s.Delete(cmd.Context(), index); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d, %d left\n", index+1, s.Count())
				return nil
			})
		},
	}
}
