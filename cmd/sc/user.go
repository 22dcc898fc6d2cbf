package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zulandar/stagecraft/internal/store"
	"golang.org/x/term"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
	}

	cmd.AddCommand(newUserCreateCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var (
		configPath  string
		username    string
		displayName string
		role        string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Long:  "Creates a user with a role and a credential read from the terminal with echo disabled.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}

			credential, err := promptCredential(cmd)
			if err != nil {
				return err
			}

			user, err := store.CreateUser(gormDB, username, displayName, role, credential)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d, role %s)\n", user.Username, user.ID, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Stagecraft config file")
	cmd.Flags().StringVar(&username, "username", "", "unique username (required)")
	cmd.Flags().StringVar(&displayName, "name", "", "display name")
	cmd.Flags().StringVar(&role, "role", "", "role (e.g. Analyst, Architect, Manager, Admin)")
	cmd.MarkFlagRequired("username")
	return cmd
}

// promptCredential reads a secret without echo and returns its SHA-256 hex
// digest. The stored value is opaque to the rest of the system.
func promptCredential(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Credential: ")
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("read credential: %w", err)
	}
	sum := sha256.Sum256(secret)
	return hex.EncodeToString(sum[:]), nil
}
