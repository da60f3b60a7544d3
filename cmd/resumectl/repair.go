package main

import (
	"github.com/spf13/cobra"

	"resume-builder/internal/markup"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair resume markup and print the result",
	RunE:  runRepair,
}

var (
	repairInput  string
	repairOutput string
)

func init() {
	repairCmd.Flags().StringVarP(&repairInput, "input", "i", "-", "Markup file (- for stdin)")
	repairCmd.Flags().StringVarP(&repairOutput, "output", "o", "-", "Output file (- for stdout)")
	rootCmd.AddCommand(repairCmd)
}

func runRepair(cmd *cobra.Command, _ []string) error {
	raw, err := readInput(cmd, repairInput)
	if err != nil {
		return err
	}
	return writeOutput(cmd, repairOutput, []byte(markup.Repair(string(raw))+"\n"))
}
