package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"resume-builder/internal/extract"
)

var textCmd = &cobra.Command{
	Use:   "text <file>",
	Short: "Extract plain text from a PDF, DOCX or HTML document",
	Args:  cobra.ExactArgs(1),
	RunE:  runText,
}

func init() {
	rootCmd.AddCommand(textCmd)
}

func runText(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	text, err := extract.Text(data, args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}
