package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ukaji3/lumina-go/pkg/lumina"
	"github.com/ukaji3/lumina-go/pkg/lumina/models"
	"github.com/ukaji3/lumina-go/pkg/lumina/sheet"
	"go.uber.org/zap"
)

func newSheetCmd() *cobra.Command {
	var outputPath, dir string

	cmd := &cobra.Command{
		Use:   "sheet [reply.txt|-]",
		Short: "Build the spec sheet of a reply's product block",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			svc := lumina.NewService(cfg.ServiceOptions(), logger)
			defer svc.Close()

			msg := svc.Normalize(text)
			if !msg.HasData() {
				return errors.New("the reply carries no ((json: {...})) product block")
			}
			path, err := writeSpreadsheet(cmd, svc, "cli", outputPath, dir, msg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output .xlsx path (default: suggested filename)")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory for the suggested filename")
	return cmd
}

// writeSpreadsheet generates the spreadsheet of msg and saves it to
// outputPath, or to the suggested filename inside dir. On total failure the
// advisory message is shown, the raw error is logged and errAdvisoryShown is
// returned.
func writeSpreadsheet(cmd *cobra.Command, svc *lumina.Service, messageID, outputPath, dir string, msg models.NormalizedMessage) (string, error) {
	dl, err := svc.Download(cmd.Context(), messageID, msg)
	if err != nil {
		if errors.Is(err, sheet.ErrTotalFailure) {
			logger.Error("spreadsheet generation failed",
				zap.String("operation", "download"),
				zap.String("message_id", messageID),
				zap.Error(err))
			fmt.Fprintln(cmd.ErrOrStderr(), lumina.AdvisoryMessage)
			return "", errAdvisoryShown
		}
		return "", err
	}
	if dl.Fallback {
		logger.Warn("spec sheet unavailable, wrote the flat document instead",
			zap.String("filename", dl.Filename))
	}

	path := outputPath
	if path == "" {
		path = filepath.Join(dir, dl.Filename)
	}
	if err := os.WriteFile(path, dl.Bytes, 0644); err != nil {
		return "", fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return path, nil
}
