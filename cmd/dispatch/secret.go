package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"dispatch-engine/internal/config"
	"dispatch-engine/internal/secrets"
)

func SecretCmd(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage the SMTP app password in the OS keychain",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set",
		Short: "Store the SMTP app password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Outreach.SMTPUser == "" {
				return fmt.Errorf("set outreach.smtp_user in the config first")
			}

			fmt.Printf("App password for %s: ", cfg.Outreach.SMTPUser)
			pw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			account := secrets.SMTPKeyringAccount(cfg)
			if err := secrets.SetSMTPPassword(account, strings.TrimSpace(string(pw))); err != nil {
				return err
			}
			fmt.Println("Password stored in keychain.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "del",
		Short: "Remove the stored SMTP app password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := secrets.DeleteSMTPPassword(secrets.SMTPKeyringAccount(cfg)); err != nil {
				return err
			}
			fmt.Println("Password removed from keychain.")
			return nil
		},
	})

	return cmd
}
