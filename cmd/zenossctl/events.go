package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nerrad567/zenoss-client/pkg/zenoss"
)

func newEventsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"event", "ev"},
		Short:   "Query and manage events",
	}

	cmd.AddCommand(
		newEventsListCmd(a),
		newEventsShowCmd(a),
		newEventsCreateCmd(a),
	)
	for _, action := range []zenoss.EventAction{
		zenoss.EventActionAcknowledge,
		zenoss.EventActionUnacknowledge,
		zenoss.EventActionClose,
		zenoss.EventActionReopen,
	} {
		cmd.AddCommand(newEventStateCmd(a, action))
	}
	return cmd
}

func newEventsListCmd(a *app) *cobra.Command {
	var (
		q          zenoss.EventQuery
		severities []string
		states     []int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range severities {
				s, err := zenoss.ParseSeverity(name)
				if err != nil {
					return err
				}
				q.Severities = append(q.Severities, s)
			}
			for _, state := range states {
				q.States = append(q.States, zenoss.EventState(state))
			}

			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			list, err := c.GetEvents(cmd.Context(), q)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(list.Events))
			for _, ev := range list.Events {
				rows = append(rows, []string{
					ev.EvID,
					ev.Device.String(),
					string(zenoss.SeverityName(ev.Severity)),
					ev.EventState.String(),
					strconv.Itoa(ev.Count),
					ev.Summary,
				})
			}
			return a.printer().table(list, []string{"EVID", "DEVICE", "SEVERITY", "STATE", "COUNT", "SUMMARY"}, rows)
		},
	}

	cmd.Flags().StringVar(&q.Device, "device", "", "only events on this device")
	cmd.Flags().StringVar(&q.Component, "component", "", "only events on this component")
	cmd.Flags().StringVar(&q.EventClass, "class", "", "only events in this event class")
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "maximum events (default 100)")
	cmd.Flags().StringSliceVar(&severities, "severity", nil, "severities to include, e.g. Critical,Error")
	cmd.Flags().IntSliceVar(&states, "state", nil, "event states to include (0 new, 1 acknowledged, ...)")
	return cmd
}

func newEventsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <evid>",
		Short: "Show every field of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			detail, err := c.GetEventDetail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printer().json(detail)
		},
	}
}

func newEventsCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <device> <severity> <summary...>",
		Short: "Raise an event against a device",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			severity, err := zenoss.ParseSeverity(args[1])
			if err != nil {
				return err
			}
			summary := strings.Join(args[2:], " ")

			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			res, err := c.CreateEventOnDevice(cmd.Context(), args[0], severity, summary)
			if err != nil {
				return err
			}
			a.record(cmd.Context(), "event.create", zenoss.EventsRouter, "add_event", args[0], map[string]any{
				"severity": string(severity),
				"summary":  summary,
			})
			return a.printer().result(res, "event created on "+args[0])
		},
	}
}

func newEventStateCmd(a *app, action zenoss.EventAction) *cobra.Command {
	use := string(action)
	var aliases []string
	if action == zenoss.EventActionAcknowledge {
		aliases = []string{"ack"}
	}

	return &cobra.Command{
		Use:     use + " <evid>...",
		Aliases: aliases,
		Short:   "Apply " + use + " to events",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			for _, evid := range args {
				res, err := c.ChangeEventState(cmd.Context(), evid, action)
				if err != nil {
					return err
				}
				a.record(cmd.Context(), "event."+use, zenoss.EventsRouter, use, evid, nil)
				if err := a.printer().result(res, "event "+evid+": "+use); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
