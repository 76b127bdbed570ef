package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nerrad567/zenoss-client/pkg/zenoss"
)

func newOrganizersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "organizers",
		Aliases: []string{"org"},
		Short:   "List and manage locations and groups",
	}

	cmd.AddCommand(
		newOrganizerListCmd(a, "locations", "List location organizers", (*zenoss.Client).GetLocations),
		newOrganizerListCmd(a, "groups", "List group organizers", (*zenoss.Client).GetGroups),
		newOrganizerAddCmd(a, "add-location", "Create a location organizer", "location.add", (*zenoss.Client).AddLocation),
		newOrganizerAddCmd(a, "add-group", "Create a group organizer", "group.add", (*zenoss.Client).AddGroup),
		&cobra.Command{
			Use:   "delete <uid>",
			Short: "Delete an organizer",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.connect(cmd.Context())
				if err != nil {
					return err
				}
				res, err := c.DeleteOrganizer(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				a.record(cmd.Context(), "organizer.delete", zenoss.DeviceRouter, "deleteNode", args[0], nil)
				return a.printer().result(res, "organizer "+args[0]+" deleted")
			},
		},
	)
	return cmd
}

func newOrganizerListCmd(a *app, use, short string, list func(*zenoss.Client, context.Context) ([]zenoss.Organizer, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			organizers, err := list(c, cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(organizers))
			for _, o := range organizers {
				rows = append(rows, []string{o.Name, o.UID})
			}
			return a.printer().table(organizers, []string{"NAME", "UID"}, rows)
		},
	}
}

func newOrganizerAddCmd(a *app, use, short, action string, add func(*zenoss.Client, context.Context, string) (*zenoss.Result, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			res, err := add(c, cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.record(cmd.Context(), action, zenoss.DeviceRouter, "addNode", args[0], nil)
			return a.printer().result(res, action+" "+args[0]+": ok")
		},
	}
}
