package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"invoiceflow-backend/documents/validators"
	ratecard_services "invoiceflow-backend/ratecards/services"
	"invoiceflow-backend/utils"

	"github.com/spf13/cobra"
)

var (
	vendorID      string
	projectID     string
	rateCardsPath string
	asOf          string
)

var validateTimesheetCmd = &cobra.Command{
	Use:   "validate-timesheet <file.xlsx>",
	Short: "Validate a timesheet spreadsheet",
	Long: `Run the timesheet checks on a spreadsheet and print the result as JSON.
With --vendor and --rate-cards the hours are priced against the rate cards in the TOML file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		clock, err := clockFor(asOf)
		if err != nil {
			return err
		}

		var checker validators.RateCrossChecker
		if rateCardsPath != "" {
			source, err := ratecard_services.LoadFileRateCardSource(rateCardsPath)
			if err != nil {
				return err
			}
			checker = ratecard_services.NewCrossChecker(source, clock)
		}

		opts := validators.TimesheetOptions{VendorID: vendorID, ProjectID: utils.OptionalString(projectID)}
		result := validators.NewTimesheetValidator(clock, checker).Validate(cmd.Context(), content, opts)
		return printResult(cmd.OutOrStdout(), result)
	},
}

var validateRateCardCmd = &cobra.Command{
	Use:   "validate-ratecard <file.xlsx>",
	Short: "Validate a rate card spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return printResult(cmd.OutOrStdout(), validators.NewRateCardValidator().Validate(content))
	},
}

func init() {
	validateTimesheetCmd.Flags().StringVar(&vendorID, "vendor", "", "vendor id used for the rate card cross-check")
	validateTimesheetCmd.Flags().StringVar(&projectID, "project", "", "project id used to pick a project rate card")
	validateTimesheetCmd.Flags().StringVar(&rateCardsPath, "rate-cards", "", "TOML file with rate cards")
	validateTimesheetCmd.Flags().StringVar(&asOf, "as-of", "", "evaluate as of this date (YYYY-MM-DD) instead of today")
}

func clockFor(date string) (utils.Clock, error) {
	if date == "" {
		return utils.SystemClock{}, nil
	}
	day, err := utils.ParseDateOnly(date)
	if err != nil {
		return nil, fmt.Errorf("invalid --as-of date %q: %w", date, err)
	}
	return utils.FixedClock{At: day.Time()}, nil
}

func printResult(w io.Writer, result *validators.ValidationResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if !result.IsValid {
		return errInvalidDocument
	}
	return nil
}
