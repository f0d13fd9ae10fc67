package main

import (
	"fmt"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/cli"
	"github.com/spf13/cobra"
)

var agingCmd = &cobra.Command{
	Use:   "aging",
	Short: "Receivables and payables by due window",
	RunE:  runAging,
}

func init() {
	rootCmd.AddCommand(agingCmd)
}

func runAging(cmd *cobra.Command, _ []string) error {
	eng, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer eng.Close()

	summary := eng.aging.SummarizeAging(cmd.Context(), eng.orgID)

	fmt.Println()
	fmt.Println(cli.RenderTitle("AGING"))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Window", "Invoices", "Expenses"},
		Rows: [][]string{
			{"Coming due (next 30d)", cli.FormatAmount(summary.InvoicesComingDue), cli.FormatAmount(summary.ExpensesComingDue)},
			{"Overdue 1-30d", cli.FormatAmount(summary.InvoicesOverdue1_30), cli.FormatAmount(summary.ExpensesOverdue1_30)},
			{"Overdue 31-60d", cli.FormatAmount(summary.InvoicesOverdue31_60), cli.FormatAmount(summary.ExpensesOverdue31_60)},
		},
	}))
	fmt.Println()

	return nil
}
