package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m-tem/mailnir"
)

var (
	previewIndex int
	previewHTML  bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render one entry to stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tpl, sources, dir, err := loadInputs()
		if err != nil {
			return err
		}

		result, err := mailnir.Preview(tpl, sources, dir)
		if err != nil {
			return err
		}
		if previewIndex < 0 || previewIndex >= len(result.Instances) {
			return fmt.Errorf("entry index %d out of range (%d entries)", previewIndex, len(result.Instances))
		}

		entry := result.Report.Entries[previewIndex]
		if !entry.IsValid() {
			fmt.Printf("entry %d has issues:\n", entry.Index)
			for _, issue := range entry.Issues {
				fmt.Printf("  - %s\n", issue)
			}
		}

		email := result.Instances[previewIndex].Email
		if email == nil {
			return fmt.Errorf("entry %d did not render", previewIndex)
		}

		fmt.Printf("To: %s\n", email.To)
		if email.CC != "" {
			fmt.Printf("Cc: %s\n", email.CC)
		}
		if email.BCC != "" {
			fmt.Printf("Bcc: %s\n", email.BCC)
		}
		fmt.Printf("Subject: %s\n", email.Subject)
		for _, att := range email.Attachments {
			fmt.Printf("Attachment: %s\n", att)
		}
		fmt.Println()
		if previewHTML && email.HTMLBody != "" {
			fmt.Println(email.HTMLBody)
		} else {
			fmt.Println(email.TextBody)
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().IntVarP(&previewIndex, "index", "i", 0, "Entry index to preview")
	previewCmd.Flags().BoolVar(&previewHTML, "html", false, "Print the HTML body instead of text")
	rootCmd.AddCommand(previewCmd)
}
