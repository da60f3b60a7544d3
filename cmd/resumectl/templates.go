package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"resume-builder/internal/export"
)

var templatesCmd = &cobra.Command{
	Use:   "templates [id]",
	Short: "List templates, or print the stylesheet of one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 1 {
		if !export.IsKnownTemplate(args[0]) {
			return fmt.Errorf("unknown template %q", args[0])
		}
		_, err := fmt.Fprintln(out, export.ResolveStyle(args[0]).CSS)
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFONT\tACCENT")
	for _, id := range export.Templates() {
		style := export.ResolveStyle(id)
		fmt.Fprintf(tw, "%s\t%s\t#%s\n", style.ID, style.FontFamily, style.AccentColor)
	}
	return tw.Flush()
}
