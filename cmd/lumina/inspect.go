package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ukaji3/lumina-go/pkg/lumina/inspect"
	"github.com/ukaji3/lumina-go/pkg/lumina/models"
	"github.com/ukaji3/lumina-go/pkg/lumina/output"
)

func newInspectCmd() *cobra.Command {
	var outputPath, sheetsDir, printAreasDir string

	cmd := &cobra.Command{
		Use:   "inspect <input.xlsx>",
		Short: "Dump the cells, merges, pictures and print areas of a workbook as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]

			// Validate input file exists
			if _, err := os.Stat(inputPath); os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", inputPath)
			}

			wb, err := inspect.File(inputPath)
			if err != nil {
				return fmt.Errorf("inspection failed: %w", err)
			}

			jsonData, err := output.ToJSON(wb, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}

			if outputPath != "" || (sheetsDir == "" && printAreasDir == "") {
				if err := writeOutput(cmd, outputPath, jsonData); err != nil {
					return err
				}
			}

			// Write per-sheet files
			if sheetsDir != "" {
				if err := writeSheetFiles(wb, sheetsDir); err != nil {
					return fmt.Errorf("failed to write sheet files: %w", err)
				}
			}

			// Write per-print-area files
			if printAreasDir != "" {
				if err := writePrintAreaFiles(wb, printAreasDir); err != nil {
					return fmt.Errorf("failed to write print area files: %w", err)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVar(&sheetsDir, "sheets-dir", "", "Directory for per-sheet output files")
	cmd.Flags().StringVar(&printAreasDir, "print-areas-dir", "", "Directory for per-print-area output files")
	return cmd
}

func writeSheetFiles(wb *models.WorkbookData, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for sheetName, sheet := range wb.Sheets {
		jsonData, err := output.SheetToJSON(&sheet, pretty)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, sheetName+".json")
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}

	return nil
}

func writePrintAreaFiles(wb *models.WorkbookData, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for sheetName, sheet := range wb.Sheets {
		for i, area := range sheet.PrintAreas {
			view := inspect.PrintAreaView(wb.BookName, sheetName, sheet, area)
			jsonData, err := output.PrintAreaViewToJSON(&view, pretty)
			if err != nil {
				return err
			}

			filename := filepath.Join(dir, fmt.Sprintf("%s_area%d.json", sheetName, i+1))
			if err := os.WriteFile(filename, jsonData, 0644); err != nil {
				return err
			}
		}
	}

	return nil
}
