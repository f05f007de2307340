package command

import (
	"fmt"
	"time"

	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// accrueFinesCmd raises the fine on every overdue loan to the daily rate
var accrueFinesCmd = &cobra.Command{
	Use:   "accrue-fines",
	Short: "Charge the daily fine on every overdue loan",
	Long: `accrue-fines sets each overdue loan's fine to overdue days × FINE_PER_DAY.
Fines are never lowered and a member's total never exceeds MAX_AMOUNT_DUE,
so running it more than once a day is harmless.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		asOf, _ := cmd.Flags().GetString("date")
		today := time.Now().In(e.cfg.Location())
		if asOf != "" {
			today, err = time.ParseInLocation("2006-01-02", asOf, e.cfg.Location())
			if err != nil {
				return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", asOf)
			}
		}

		loans := service.NewLoanService(repository.NewStore(e.db), service.LoanPolicy{
			LoanPeriodDays: e.cfg.LoanPeriodDays,
			FinePerDay:     e.cfg.FinePerDay,
			MaxAmountDue:   e.cfg.MaxAmountDue,
		})
		updated, err := loans.AccrueFines(cmd.Context(), today)
		if err != nil {
			return fmt.Errorf("accrue fines: %w", err)
		}

		if updated > 0 {
			e.invalidateDashboard(cmd.Context())
		}

		e.logger.Info("fines_accrued", "updated", updated, "date", today.Format("2006-01-02"))
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Updated fines on %d loan(s)\n", updated)
		return nil
	},
}

func init() {
	accrueFinesCmd.Flags().String("date", "", "Treat this day (YYYY-MM-DD) as today")
	rootCmd.AddCommand(accrueFinesCmd)
}
