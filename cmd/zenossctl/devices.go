package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nerrad567/zenoss-client/pkg/zenoss"
)

func newDevicesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "devices",
		Aliases: []string{"device", "dev"},
		Short:   "List and manage devices",
	}

	cmd.AddCommand(
		newDevicesListCmd(a),
		newDevicesShowCmd(a),
		newDevicesComponentsCmd(a),
		newDevicesAddCmd(a),
		newDeviceMutationCmd(a, "remove <name>", "Delete a device", "device.remove", "removeDevices",
			func(cmd *cobra.Command, c *zenoss.Client, args []string) (*zenoss.Result, map[string]any, error) {
				res, err := c.RemoveDevice(cmd.Context(), args[0])
				return res, nil, err
			}, 1),
		newDeviceMutationCmd(a, "detach <name> <organizer-uid>", "Remove a device from an organizer", "device.detach", "removeDevices",
			func(cmd *cobra.Command, c *zenoss.Client, args []string) (*zenoss.Result, map[string]any, error) {
				res, err := c.DetachDevice(cmd.Context(), args[0], args[1])
				return res, map[string]any{"organizer": args[1]}, err
			}, 2),
		newDeviceMutationCmd(a, "move <name> <target-uid>", "Move a device to another organizer", "device.move", "moveDevices",
			func(cmd *cobra.Command, c *zenoss.Client, args []string) (*zenoss.Result, map[string]any, error) {
				res, err := c.MoveDevice(cmd.Context(), args[0], args[1])
				return res, map[string]any{"target": args[1]}, err
			}, 2),
		newDevicesProdStateCmd(a),
		newDeviceMutationCmd(a, "maintenance <name>", "Put a device in maintenance", "device.maintenance", "setProductionState",
			func(cmd *cobra.Command, c *zenoss.Client, args []string) (*zenoss.Result, map[string]any, error) {
				res, err := c.SetMaintenance(cmd.Context(), args[0])
				return res, map[string]any{"prodState": zenoss.ProdStateMaintenance}, err
			}, 1),
		newDeviceMutationCmd(a, "production <name>", "Return a device to production", "device.production", "setProductionState",
			func(cmd *cobra.Command, c *zenoss.Client, args []string) (*zenoss.Result, map[string]any, error) {
				res, err := c.SetProduction(cmd.Context(), args[0])
				return res, map[string]any{"prodState": zenoss.ProdStateProduction}, err
			}, 1),
		newDeviceMutationCmd(a, "rename <name> <new-name>", "Rename a device", "device.rename", "renameDevice",
			func(cmd *cobra.Command, c *zenoss.Client, args []string) (*zenoss.Result, map[string]any, error) {
				res, err := c.RenameDevice(cmd.Context(), args[0], args[1])
				return res, map[string]any{"newId": args[1]}, err
			}, 2),
		newDevicesLockCmd(a),
	)
	return cmd
}

func newDevicesListCmd(a *app) *cobra.Command {
	var q zenoss.DeviceQuery

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List devices in a device class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			list, err := c.ListDevices(cmd.Context(), q)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(list.Devices))
			for _, d := range list.Devices {
				location := ""
				if d.Location != nil {
					location = d.Location.String()
				}
				rows = append(rows, []string{d.Name, d.IPAddress, strconv.Itoa(d.ProductionState), location, d.UID})
			}
			return a.printer().table(list, []string{"NAME", "IP", "PROD STATE", "LOCATION", "UID"}, rows)
		},
	}

	cmd.Flags().StringVar(&q.UID, "class", "", "device class uid (default "+zenoss.DefaultDeviceClass+")")
	cmd.Flags().IntVar(&q.Start, "start", 0, "first result offset")
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "page size (0 lists everything)")
	cmd.Flags().StringVar(&q.Sort, "sort", "", "sort field, e.g. name")
	cmd.Flags().StringVar(&q.Dir, "dir", "", "sort direction ASC or DESC")
	return cmd
}

func newDevicesShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show every field of a device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			device, err := c.FindDevice(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			info, err := c.GetDeviceInfo(cmd.Context(), device.UID)
			if err != nil {
				return err
			}
			return a.printer().json(info)
		},
	}
}

func newDevicesComponentsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "components <name>",
		Short: "List the components of a device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			device, err := c.FindDevice(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			components, err := c.GetComponents(cmd.Context(), *device)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(components))
			for _, comp := range components {
				rows = append(rows, []string{comp.Name, comp.MetaType, comp.Status.String(), strconv.FormatBool(comp.Monitor)})
			}
			return a.printer().table(components, []string{"NAME", "TYPE", "STATUS", "MONITORED"}, rows)
		},
	}
}

func newDevicesAddCmd(a *app) *cobra.Command {
	var deviceClass string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Queue a job that adds and models a device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			res, err := c.AddDevice(cmd.Context(), args[0], deviceClass)
			if err != nil {
				return err
			}
			a.record(cmd.Context(), "device.add", zenoss.DeviceRouter, "addDevice", args[0], map[string]any{"deviceClass": deviceClass})
			return a.printer().result(res, "device "+args[0]+" queued for modeling")
		},
	}

	cmd.Flags().StringVar(&deviceClass, "class", "/Server/Linux", "device class path")
	return cmd
}

func newDevicesProdStateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prodstate <name> <state>",
		Short: "Set a device's production state (e.g. 1000 production, 300 maintenance)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			res, err := c.SetProductionState(cmd.Context(), args[0], state)
			if err != nil {
				return err
			}
			a.record(cmd.Context(), "device.prodstate", zenoss.DeviceRouter, "setProductionState", args[0], map[string]any{"prodState": state})
			return a.printer().result(res, "device "+args[0]+" production state set to "+args[1])
		},
	}
}

func newDevicesLockCmd(a *app) *cobra.Command {
	var opts zenoss.LockOptions

	cmd := &cobra.Command{
		Use:   "lock <name>",
		Short: "Lock a device against updates and/or deletion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			res, err := c.LockDevice(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			a.record(cmd.Context(), "device.lock", zenoss.DeviceRouter, "lockDevices", args[0], map[string]any{
				"updates":   opts.Updates,
				"deletion":  opts.Deletion,
				"sendEvent": opts.SendEvent,
			})
			return a.printer().result(res, "device "+args[0]+" locked")
		},
	}

	cmd.Flags().BoolVar(&opts.Updates, "updates", false, "lock against updates")
	cmd.Flags().BoolVar(&opts.Deletion, "deletion", false, "lock against deletion")
	cmd.Flags().BoolVar(&opts.SendEvent, "send-event", false, "send an event when a locked action is blocked")
	return cmd
}

// deviceMutation runs one mutating call and returns audit details.
type deviceMutation func(cmd *cobra.Command, c *zenoss.Client, args []string) (*zenoss.Result, map[string]any, error)

// newDeviceMutationCmd builds a command whose first argument is the device
// name, audited as action against the device router method.
func newDeviceMutationCmd(a *app, use, short, action, method string, fn deviceMutation, nargs int) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			res, details, err := fn(cmd, c, args)
			if err != nil {
				return err
			}
			a.record(cmd.Context(), action, zenoss.DeviceRouter, method, args[0], details)
			return a.printer().result(res, action+" "+args[0]+": ok")
		},
	}
}
