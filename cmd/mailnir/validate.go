package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m-tem/mailnir/pkg/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every entry without sending anything",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tpl, sources, dir, err := loadInputs()
		if err != nil {
			return err
		}

		report, err := validate.ValidateAll(tpl, sources, dir)
		if err != nil {
			return err
		}
		printReport(report)
		if !report.IsValid() {
			return fmt.Errorf("%d of %d entries have issues", len(report.InvalidEntries()), report.EntryCount)
		}
		return nil
	},
}

func printReport(report *validate.Report) {
	for _, entry := range report.Entries {
		if entry.IsValid() {
			continue
		}
		fmt.Printf("entry %d:\n", entry.Index)
		for _, issue := range entry.Issues {
			fmt.Printf("  - %s\n", issue)
		}
	}
	fmt.Printf("%d entries, %d with issues\n", report.EntryCount, len(report.InvalidEntries()))
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
