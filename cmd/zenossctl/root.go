package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "zenossctl",
		Short:         "Manage a Zenoss server through its JSON router API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if a.output != outputTable && a.output != outputJSON {
				return fmt.Errorf("--output must be %s or %s", outputTable, outputJSON)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default $ZENOSS_CONFIG or "+defaultConfigPath+")")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", outputTable, "output format: table or json")

	root.AddCommand(
		newVersionCmd(),
		newDevicesCmd(a),
		newOrganizersCmd(a),
		newEventsCmd(a),
		newTriggersCmd(a),
		newNotificationsCmd(a),
		newPropsCmd(a),
		newManufacturersCmd(a),
		newCallCmd(a),
		newAuditCmd(a),
		newRelayCmd(a),
		newTokenCmd(a),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "zenossctl %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
