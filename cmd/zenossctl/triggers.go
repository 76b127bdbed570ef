package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nerrad567/zenoss-client/pkg/zenoss"
)

func newTriggersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "triggers",
		Aliases: []string{"trigger"},
		Short:   "List and manage trigger rules",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List trigger rules",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := a.connect(cmd.Context())
				if err != nil {
					return err
				}
				triggers, err := c.GetTriggers(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(triggers))
				for _, tr := range triggers {
					rows = append(rows, []string{tr.Name, strconv.FormatBool(tr.Enabled), tr.UUID})
				}
				return a.printer().table(triggers, []string{"NAME", "ENABLED", "UUID"}, rows)
			},
		},
		&cobra.Command{
			Use:   "add <name>",
			Short: "Create a trigger rule",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.connect(cmd.Context())
				if err != nil {
					return err
				}
				res, err := c.AddTrigger(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				a.record(cmd.Context(), "trigger.add", zenoss.TriggersRouter, "addTrigger", args[0], nil)
				return a.printer().result(res, "trigger "+args[0]+" created")
			},
		},
		&cobra.Command{
			Use:   "remove <name>",
			Short: "Delete a trigger rule",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.connect(cmd.Context())
				if err != nil {
					return err
				}
				res, err := c.RemoveTrigger(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				a.record(cmd.Context(), "trigger.remove", zenoss.TriggersRouter, "removeTrigger", args[0], nil)
				return a.printer().result(res, "trigger "+args[0]+" removed")
			},
		},
	)
	return cmd
}

func newNotificationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notification", "notify"},
		Short:   "List and manage notifications",
	}

	var action string
	add := &cobra.Command{
		Use:   "add <id>",
		Short: "Create a notification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			res, err := c.AddNotification(cmd.Context(), args[0], action)
			if err != nil {
				return err
			}
			a.record(cmd.Context(), "notification.add", zenoss.TriggersRouter, "addNotification", args[0], map[string]any{"action": action})
			return a.printer().result(res, "notification "+args[0]+" created")
		},
	}
	add.Flags().StringVar(&action, "action", "email", "delivery action, e.g. email, page, command")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List notifications",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := a.connect(cmd.Context())
				if err != nil {
					return err
				}
				notifications, err := c.GetNotifications(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(notifications))
				for _, n := range notifications {
					rows = append(rows, []string{n.ID, n.Action, strconv.FormatBool(n.Enabled), n.UID})
				}
				return a.printer().table(notifications, []string{"ID", "ACTION", "ENABLED", "UID"}, rows)
			},
		},
		add,
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Delete a notification",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.connect(cmd.Context())
				if err != nil {
					return err
				}
				res, err := c.RemoveNotification(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				a.record(cmd.Context(), "notification.remove", zenoss.TriggersRouter, "removeNotification", args[0], nil)
				return a.printer().result(res, "notification "+args[0]+" removed")
			},
		},
	)
	return cmd
}
