package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/zenoss-client/internal/audit"
)

func newAuditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the local audit trail of changes made with zenossctl",
	}

	var (
		filter audit.Filter
		since  time.Duration
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List audit entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := a.auditRepo(cmd.Context())
			if err != nil {
				return err
			}
			if repo == nil {
				return errors.New("audit trail disabled: set database.enabled in the config")
			}
			if since > 0 {
				filter.Since = time.Now().Add(-since)
			}

			result, err := repo.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(result.Entries))
			for _, e := range result.Entries {
				rows = append(rows, []string{
					e.CreatedAt.Local().Format(time.DateTime),
					e.Action,
					e.Target,
					e.Router + "." + e.Method,
					e.Username,
				})
			}
			if err := a.printer().table(result, []string{"TIME", "ACTION", "TARGET", "CALL", "USER"}, rows); err != nil {
				return err
			}
			if a.output != outputJSON && result.Total > result.Offset+len(result.Entries) {
				cmd.Printf("showing %d of %d (use --offset %d for more)\n",
					len(result.Entries), result.Total, result.Offset+len(result.Entries))
			}
			return nil
		},
	}
	list.Flags().StringVar(&filter.Action, "action", "", "only this action, e.g. device.remove")
	list.Flags().StringVar(&filter.Target, "target", "", "only this target, e.g. a device name or evid")
	list.Flags().DurationVar(&since, "since", 0, "only entries newer than this, e.g. 24h")
	list.Flags().IntVar(&filter.Limit, "limit", 50, "page size (max 200)")
	list.Flags().IntVar(&filter.Offset, "offset", 0, "entries to skip")

	cmd.AddCommand(list)
	return cmd
}
