package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/m-tem/mailnir"
	"github.com/m-tem/mailnir/pkg/sender"
	"github.com/m-tem/mailnir/pkg/sender/resend"
	"github.com/m-tem/mailnir/pkg/validate"
)

var (
	sendFrom        string
	sendFromName    string
	sendAPIKey      string
	sendConcurrency int
	sendForce       bool
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Validate, render, and deliver the whole batch",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if sendAPIKey == "" {
			sendAPIKey = os.Getenv("RESEND_API_KEY")
		}
		if sendAPIKey == "" {
			return fmt.Errorf("no API key: set --api-key or RESEND_API_KEY")
		}
		if sendFrom == "" {
			return fmt.Errorf("--from is required")
		}

		tpl, sources, dir, err := loadInputs()
		if err != nil {
			return err
		}
		log := newLogger()

		// Validation gate before anything leaves the machine.
		report, err := validate.ValidateAll(tpl, sources, dir)
		if err != nil {
			return err
		}
		if !report.IsValid() && !sendForce {
			printReport(report)
			return fmt.Errorf("validation failed; fix the issues or pass --force")
		}

		instances, err := mailnir.Run(tpl, sources, dir)
		if err != nil {
			return err
		}

		emails := make([]*sender.Email, len(instances))
		for i, inst := range instances {
			email, err := sender.Build(inst.Email)
			if err != nil {
				return fmt.Errorf("entry %d: %w", inst.Index, err)
			}
			emails[i] = email
		}

		provider := resend.New(resend.Config{
			APIKey:      sendAPIKey,
			SenderEmail: sendFrom,
			SenderName:  sendFromName,
		})
		sendReport := sender.SendAll(cmd.Context(), provider, emails, sendConcurrency, log)

		fmt.Printf("%d sent, %d failed\n", sendReport.Sent, sendReport.Failed)
		if sendReport.Failed > 0 {
			for _, r := range sendReport.Results {
				if r.Err != nil {
					fmt.Printf("entry %d: %v\n", r.Index, r.Err)
				}
			}
			return fmt.Errorf("delivery incomplete")
		}
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendFrom, "from", "", "Sender address")
	sendCmd.Flags().StringVar(&sendFromName, "from-name", "", "Sender display name")
	sendCmd.Flags().StringVar(&sendAPIKey, "api-key", "", "Resend API key (default $RESEND_API_KEY)")
	sendCmd.Flags().IntVar(&sendConcurrency, "concurrency", sender.DefaultConcurrency, "Parallel deliveries")
	sendCmd.Flags().BoolVar(&sendForce, "force", false, "Send even when validation reports issues")
	rootCmd.AddCommand(sendCmd)
}
