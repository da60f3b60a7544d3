package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"resume-builder/internal/export"
	"resume-builder/internal/markup"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render resume markup into a styled document",
	Long: `Repair a resume fragment, assemble it with a template and convert it.

Examples:
  resumectl export --input resume.html --format pdf --output resume.pdf
  cat resume.html | resumectl export --template modern --format docx --output -`,
	RunE: runExport,
}

var (
	exportInput    string
	exportOutput   string
	exportFormat   string
	exportTemplate string
	exportTitle    string
	exportTimeout  time.Duration
)

func init() {
	exportCmd.Flags().StringVarP(&exportInput, "input", "i", "-", "Resume markup file (- for stdin)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (- for stdout, default derived from title)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "html", "Output format: html, pdf or docx")
	exportCmd.Flags().StringVarP(&exportTemplate, "template", "t", export.DefaultTemplate, "Template id")
	exportCmd.Flags().StringVar(&exportTitle, "title", "Resume", "Document title")
	exportCmd.Flags().DurationVar(&exportTimeout, "timeout", export.DefaultTimeout, "DOCX conversion budget")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	raw, err := readInput(cmd, exportInput)
	if err != nil {
		return err
	}

	style := export.ResolveStyle(exportTemplate)
	document := export.Assemble(markup.Repair(string(raw)), style, exportTitle)

	out, err := export.NewConverter(exportTimeout).Convert(cmd.Context(), document, format, style, export.Options{Title: exportTitle})
	if err != nil {
		return err
	}

	dest := exportOutput
	if dest == "" {
		dest = out.Filename
	}
	if err := writeOutput(cmd, dest, out.Bytes); err != nil {
		return err
	}
	if dest != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes, %s)\n", filepath.Clean(dest), len(out.Bytes), style.ID)
	}
	return nil
}
