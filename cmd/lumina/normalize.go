package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukaji3/lumina-go/pkg/lumina"
	"github.com/ukaji3/lumina-go/pkg/lumina/output"
	"github.com/ukaji3/lumina-go/pkg/lumina/render"
)

func newNormalizeCmd() *cobra.Command {
	var (
		outputPath string
		format     string
		style      string
		width      int
	)

	cmd := &cobra.Command{
		Use:   "normalize [reply.txt|-]",
		Short: "Normalize one assistant reply",
		Long: `normalize strips the embedded product block from a reply, repairs its
portfolio image links and prints the result. Formats: json (message with
excelData), markdown, html, terminal, diff (rewrite against the input).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			svc := lumina.NewService(cfg.ServiceOptions(), logger)
			defer svc.Close()
			msg := svc.Normalize(text)

			var data []byte
			switch format {
			case "json":
				data, err = output.MessageToJSON(&msg, pretty)
			case "markdown":
				data = []byte(msg.Content)
			case "html":
				var html string
				html, err = render.NewHTMLRenderer().Render(msg.Content)
				data = []byte(html)
			case "terminal":
				var out string
				out, err = render.Terminal(msg.Content, style, width)
				data = []byte(out)
			case "diff":
				data = []byte(render.Unified(text, msg.Content))
			default:
				return fmt.Errorf("invalid format: %s (must be json, markdown, html, terminal or diff)", format)
			}
			if err != nil {
				return fmt.Errorf("rendering failed: %w", err)
			}
			return writeOutput(cmd, outputPath, data)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, markdown, html, terminal, diff")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVar(&style, "style", "", "Terminal style (dark, light, notty; default: auto)")
	cmd.Flags().IntVar(&width, "width", render.DefaultWordWrap, "Terminal word wrap width")
	return cmd
}
