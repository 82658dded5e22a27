package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/finance-tracker/ledger/internal/application/usecase/report"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

func reportCmd(d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print ledger reports",
	}

	cmd.AddCommand(trendsCmd(d))

	return cmd
}

func trendsCmd(d deps) *cobra.Command {
	var (
		userFlag    string
		granularity string
		from        string
		to          string
	)

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Print the expense trend analysis as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(userFlag)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}

			gran := entity.Granularity(strings.ToUpper(granularity))
			if !gran.IsValid() {
				return fmt.Errorf("invalid --granularity %q, expected monthly, quarterly or yearly", granularity)
			}

			startDate, err := time.Parse(dateLayout, from)
			if err != nil {
				return fmt.Errorf("invalid --from, expected YYYY-MM-DD: %w", err)
			}
			endDate, err := time.Parse(dateLayout, to)
			if err != nil {
				return fmt.Errorf("invalid --to, expected YYYY-MM-DD: %w", err)
			}

			l, err := d.openLedger(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to open ledger: %w", err)
			}
			defer l.close()

			output, err := l.trends.Execute(cmd.Context(), report.GetTrendAnalysisInput{
				UserID:      userID,
				Granularity: gran,
				StartDate:   startDate,
				EndDate:     endDate,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(output)
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "", "user ID (required)")
	cmd.Flags().StringVar(&granularity, "granularity", "monthly", "monthly, quarterly or yearly")
	cmd.Flags().StringVar(&from, "from", "", "start date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&to, "to", "", "end date, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
