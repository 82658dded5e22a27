package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/finance-tracker/ledger/internal/application/usecase/budget"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

const dateLayout = "2006-01-02"

func resyncCmd(d deps) *cobra.Command {
	var (
		userFlag     string
		categoryFlag string
		dateFlag     string
		retries      int
	)

	cmd := &cobra.Command{
		Use:   "resync",
		Short: "Recompute the spent amount of one budget",
		Long: `Recompute the budget covering a user, category and month from the expense ledger.
Omit --category to resync the budget of uncategorized expenses.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(userFlag)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}

			var categoryID *uuid.UUID
			if categoryFlag != "" {
				id, err := uuid.Parse(categoryFlag)
				if err != nil {
					return fmt.Errorf("invalid --category: %w", err)
				}
				categoryID = &id
			}

			date := time.Now().UTC()
			if dateFlag != "" {
				date, err = time.Parse(dateLayout, dateFlag)
				if err != nil {
					return fmt.Errorf("invalid --date, expected YYYY-MM-DD: %w", err)
				}
			}

			l, err := d.openLedger(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to open ledger: %w", err)
			}
			defer l.close()

			input := budget.ResyncBudgetInput{UserID: userID, CategoryID: categoryID, Date: date}

			var output *budget.ResyncBudgetOutput
			for attempt := 0; ; attempt++ {
				output, err = l.resync.Execute(cmd.Context(), input)
				if err == nil || !domainerror.IsRetryable(err) || attempt >= retries {
					break
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "budget changed concurrently, retrying (%d/%d)\n", attempt+1, retries)
			}
			if err != nil {
				return fmt.Errorf("resync failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if output.Budget == nil {
				fmt.Fprintf(out, "no active budget for %s in %s\n", bucketLabel(categoryID), date.Format("2006-01"))
				return nil
			}

			b := output.Budget
			fmt.Fprintf(out, "budget %s (%s, %04d-%02d): spent %s of %s (%s%%), version %d\n",
				b.ID, bucketLabel(b.CategoryID), b.Year, b.Month,
				b.SpentAmount.StringFixed(2), b.AmountLimit.StringFixed(2), b.UsagePercentage.StringFixed(2), b.Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "", "user ID (required)")
	cmd.Flags().StringVar(&categoryFlag, "category", "", "category ID, empty for uncategorized")
	cmd.Flags().StringVar(&dateFlag, "date", "", "any date in the budget month, YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&retries, "retries", 3, "retries on a concurrent budget update")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func bucketLabel(categoryID *uuid.UUID) string {
	if categoryID == nil {
		return "uncategorized"
	}
	return "category " + categoryID.String()
}
