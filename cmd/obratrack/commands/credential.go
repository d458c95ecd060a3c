package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/obra-tracker/cmd/obratrack/internal/clierr"
	"github.com/nhle/obra-tracker/internal/credential"
)

func newCredentialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Manage bearer tokens for remote workbook sources",
		Long:  "Tokens are kept in the system keyring and referenced from config.yaml via sources.<name>.credential_key.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set KEY",
		Short: "Store a token read from stdin",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			token := strings.TrimSpace(line)
			if token == "" {
				if err != nil {
					return clierr.Wrap(clierr.CodeUsage, "reading token from stdin", err)
				}
				return clierr.Usagef("empty token")
			}
			if err := credential.Set(args[0], token); err != nil {
				return clierr.Wrap(clierr.CodeRuntime, "storing token", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete KEY",
		Short: "Remove a stored token",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := credential.Delete(args[0]); err != nil {
				return clierr.Wrap(clierr.CodeRuntime, "deleting token", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	})

	return cmd
}
