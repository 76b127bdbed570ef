package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/zenoss-client/internal/auth"
)

func newTokenCmd(a *app) *cobra.Command {
	var (
		scope string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Mint a bearer token for the relay HTTP API",
		Long: `Mint a bearer token signed with relay.api.jwt_secret.

Scopes:
  read    audit history, version and the event stream
  stream  the event stream only

Example:
  curl -H "Authorization: Bearer $(zenossctl token ops)" http://relay:9105/api/v1/audit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			if ttl == 0 {
				ttl = time.Duration(a.cfg.Relay.API.TokenTTL) * time.Minute
			}

			token, err := auth.GenerateToken(args[0], auth.Scope(scope), a.cfg.Relay.API.JWTSecret, ttl)
			if err != nil {
				return fmt.Errorf("minting token: %w", err)
			}

			if a.output == outputJSON {
				return a.printer().json(map[string]any{
					"token":      token,
					"subject":    args[0],
					"scope":      scope,
					"expires_at": time.Now().Add(ttl).UTC().Format(time.RFC3339),
				})
			}
			_, err = fmt.Fprintln(a.stdout, token)
			return err
		},
	}

	cmd.Flags().StringVar(&scope, "scope", string(auth.ScopeRead), "token scope: read or stream")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default relay.api.token_ttl)")
	return cmd
}
