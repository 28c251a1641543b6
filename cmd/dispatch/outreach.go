package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dispatch-engine/internal/config"
	"dispatch-engine/internal/outreach"
	"dispatch-engine/internal/secrets"
	"dispatch-engine/internal/store"
)

func outreachFlags(cmd *cobra.Command, tmpl, city, service *string) {
	cmd.Flags().StringVar(tmpl, "template", "intro_english",
		"message template ("+strings.Join(outreach.TemplateNames(), ", ")+")")
	cmd.Flags().StringVar(city, "city", "", "city name for the message (required)")
	cmd.Flags().StringVar(service, "service", "", "service name for the message (required)")
	_ = cmd.MarkFlagRequired("city")
	_ = cmd.MarkFlagRequired("service")
}

func SendEmailCmd(db *store.DB, cfg config.Config) *cobra.Command {
	var tmpl, city, service string

	cmd := &cobra.Command{
		Use:   "send-email <lead-id>",
		Short: "Send an outreach email to a lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			leadID, err := parseID(args[0])
			if err != nil {
				return err
			}

			sender := outreach.NewSender(db, cfg, func() (string, error) {
				return secrets.GetSMTPPassword(secrets.SMTPKeyringAccount(cfg))
			})
			if err := sender.SendEmail(cmd.Context(), leadID, tmpl, city, service); err != nil {
				return err
			}
			fmt.Printf("Email sent to lead %d\n", leadID)
			return nil
		},
	}
	outreachFlags(cmd, &tmpl, &city, &service)
	return cmd
}

func PreviewChatCmd(db *store.DB, cfg config.Config) *cobra.Command {
	var tmpl, city, service string

	cmd := &cobra.Command{
		Use:   "preview-chat <lead-id>",
		Short: "Render a chat message for a lead to send manually",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			leadID, err := parseID(args[0])
			if err != nil {
				return err
			}

			sender := outreach.NewSender(db, cfg, nil)
			body, err := sender.PreviewChat(cmd.Context(), leadID, tmpl, city, service)
			if err != nil {
				return err
			}
			fmt.Println(strings.Repeat("=", 60))
			fmt.Println(body)
			fmt.Println(strings.Repeat("=", 60))
			fmt.Println("Copy the message above into your chat app; it is logged as pending.")
			return nil
		},
	}
	outreachFlags(cmd, &tmpl, &city, &service)
	return cmd
}

func CheckRepliesCmd(db *store.DB, cfg config.Config) *cobra.Command {
	var max int

	cmd := &cobra.Command{
		Use:   "check-replies",
		Short: "Scan the inbox for replies and mark those leads converted",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := secrets.GetSMTPPassword(secrets.SMTPKeyringAccount(cfg))
			if err != nil {
				return err
			}

			n, err := outreach.NewReplyChecker(db, cfg).Run(cmd.Context(), pw, max)
			if err != nil {
				return err
			}
			fmt.Printf("%d lead(s) replied and were marked converted\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&max, "max", 50, "maximum unseen messages to scan")
	return cmd
}
