package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/zenoss-client/pkg/zenoss"
)

func newCallCmd(a *app) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "call <router> <method> [json-data...]",
		Short: "Invoke any router method and print the raw result",
		Long: `Invoke any router method and print the raw result.

Each json-data argument becomes one element of the request's data list.
Known routers: ` + fmt.Sprint(zenoss.Routers()) + `

Example:
  zenossctl call DeviceRouter getInfo '{"uid":"/zport/dmd/Devices/Server/Linux/devices/db01"}'`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := make([]any, 0, len(args)-2)
			for i, arg := range args[2:] {
				if !json.Valid([]byte(arg)) {
					return fmt.Errorf("%w: data argument %d is not valid JSON", zenoss.ErrValidation, i+1)
				}
				params = append(params, json.RawMessage(arg))
			}

			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			var raw json.RawMessage
			if at != "" {
				raw, err = c.InvokeAt(cmd.Context(), at, args[0], args[1], params...)
			} else {
				raw, err = c.Invoke(cmd.Context(), args[0], args[1], params...)
			}
			if err != nil {
				return err
			}
			return a.printer().json(raw)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "post to this path or URL instead of the router endpoint (object context calls)")
	return cmd
}
