package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/metalagman/todo/internal/task"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var errInvalidID = errors.New("invalid task ID: please provide a number")

func taskCmds(c *cli) []*cobra.Command {
	return []*cobra.Command{
		taskAddCmd(c),
		taskListCmd(c),
		taskDoneCmd(c),
		taskDeleteCmd(c),
	}
}

func taskAddCmd(c *cli) *cobra.Command {
	var priority string
	var tags []string

	cmd := &cobra.Command{
		Use:     `add "description" [--priority high|medium|low] [--tags tag1,tag2]`,
		Short:   "Add a new task",
		Example: `  add "Buy milk" --priority high --tags shopping,food`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.TrimSpace(strings.Join(args, " "))
			if description == "" {
				return fmt.Errorf("task description cannot be empty")
			}
			p, err := c.cfg.Priority()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("priority") {
				if p, err = task.ParsePriorityFold(priority); err != nil {
					return fmt.Errorf("invalid priority %q: use high, medium, or low", priority)
				}
			}
			t := c.openStore().Add(description, p, normalizeTags(tags))
			log.Debug().Int("task_id", t.ID).Str("priority", string(t.Priority)).Msg("task added")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added task #%d: %s\n", t.ID, t.Description)
			return err
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "task priority: high, medium or low (default from config)")
	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "comma-separated tags")
	return cmd
}

func taskListCmd(c *cli) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list [--filter completed|pending]",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderTasks(cmd.OutOrStdout(), c.openStore().List(filter))
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "filter by status (completed|pending)")
	return cmd
}

func taskDoneCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Task #%d not found or already completed.", id)
			if c.openStore().MarkCompleted(id) {
				log.Debug().Int("task_id", id).Msg("task completed")
				msg = fmt.Sprintf("Task #%d marked as completed!", id)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
			return err
		},
	}
}

func taskDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Task #%d not found.", id)
			if c.openStore().Delete(id) {
				log.Debug().Int("task_id", id).Msg("task deleted")
				msg = fmt.Sprintf("Task #%d deleted!", id)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
			return err
		},
	}
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, errInvalidID
	}
	return id, nil
}

func normalizeTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
