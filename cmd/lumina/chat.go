package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/ukaji3/lumina-go/internal/webhook"
	"github.com/ukaji3/lumina-go/pkg/lumina"
	"github.com/ukaji3/lumina-go/pkg/lumina/render"
)

func newChatCmd() *cobra.Command {
	var (
		sessionID string
		withSheet bool
		dir       string
		style     string
		width     int
	)

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send one message to the assistant and print the normalized reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			client := webhook.New(cfg.Webhook.URL, cfg.GetWebhookTimeout(), logger)
			reply, err := client.Send(cmd.Context(), sessionID, strings.Join(args, " "))
			if err != nil {
				return err
			}

			svc := lumina.NewService(cfg.ServiceOptions(), logger)
			defer svc.Close()
			msg := svc.Normalize(reply)

			out, err := render.Terminal(msg.Content, style, width)
			if err != nil {
				return fmt.Errorf("rendering failed: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			fmt.Fprintf(cmd.ErrOrStderr(), "session: %s\n", sessionID)

			if !msg.HasData() {
				return nil
			}
			if !withSheet {
				fmt.Fprintf(cmd.ErrOrStderr(), "spreadsheet available: %s (use --sheet)\n", msg.Filename)
				return nil
			}
			path, err := writeSpreadsheet(cmd, svc, sessionID, "", dir, msg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "spreadsheet written: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session ID (default: new random ID)")
	cmd.Flags().BoolVar(&withSheet, "sheet", false, "Write the spreadsheet when the reply carries product data")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory for the spreadsheet")
	cmd.Flags().StringVar(&style, "style", "", "Terminal style (dark, light, notty; default: auto)")
	cmd.Flags().IntVar(&width, "width", render.DefaultWordWrap, "Terminal word wrap width")
	return cmd
}
