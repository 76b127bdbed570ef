package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/nerrad567/zenoss-client/pkg/zenoss"
)

func newPropsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "props",
		Aliases: []string{"properties"},
		Short:   "Read and set configuration properties",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list <uid>",
			Short: "List the properties of an object",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.connect(cmd.Context())
				if err != nil {
					return err
				}
				props, err := c.GetZenProperties(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(props))
				for _, p := range props {
					rows = append(rows, []string{p.ID, p.Type, string(p.Value), p.Path})
				}
				return a.printer().table(props, []string{"ID", "TYPE", "VALUE", "PATH"}, rows)
			},
		},
		&cobra.Command{
			Use:   "set <uid> <name> <value>",
			Short: "Set a property; the value is parsed as JSON when possible",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				value := propertyValue(args[2])

				c, err := a.connect(cmd.Context())
				if err != nil {
					return err
				}
				res, err := c.SetZenProperty(cmd.Context(), args[0], args[1], value)
				if err != nil {
					return err
				}
				a.record(cmd.Context(), "property.set", zenoss.PropertiesRouter, "setZenProperty", args[0], map[string]any{
					"zProperty": args[1],
					"value":     value,
				})
				return a.printer().result(res, args[1]+" set on "+args[0])
			},
		},
	)
	return cmd
}

// propertyValue decodes s as a JSON literal such as 30, true or ["a"],
// falling back to the plain string.
func propertyValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

func newManufacturersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "manufacturers",
		Short: "List manufacturers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			manufacturers, err := c.GetManufacturers(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(manufacturers))
			for _, m := range manufacturers {
				rows = append(rows, []string{m.ID, m.Path})
			}
			return a.printer().table(manufacturers, []string{"ID", "PATH"}, rows)
		},
	}
}
