package main

import (
	"fmt"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/cli"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/service"
	"github.com/spf13/cobra"
)

var kpisCmd = &cobra.Command{
	Use:   "kpis",
	Short: "Dashboard KPIs",
	RunE:  runKPIs,
}

func init() {
	rootCmd.AddCommand(kpisCmd)
}

func runKPIs(cmd *cobra.Command, _ []string) error {
	eng, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer eng.Close()

	kpis := eng.kpis.GetKPIs(cmd.Context(), eng.orgID)

	runway := "unknown"
	if months := service.Runway(kpis.CashPosition, kpis.BurnRateLast3Months); months != nil {
		runway = months.StringFixed(1) + " months"
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("KPIs"))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Income this month", cli.FormatAmount(kpis.IncomeThisMonth)},
			{"Expenses this month", cli.FormatAmount(kpis.ExpensesThisMonth)},
			{"Net result this month", cli.FormatAmount(kpis.NetResultThisMonth)},
			{"Income previous month", cli.FormatAmount(kpis.IncomePrevMonth)},
			{"Expenses previous month", cli.FormatAmount(kpis.ExpensesPrevMonth)},
			{"Burn rate (3m avg)", cli.FormatAmount(kpis.BurnRateLast3Months)},
			{"Cash position", cli.FormatOptionalAmount(kpis.CashPosition)},
			{"Forecast in 30 days", cli.FormatOptionalAmount(kpis.ForecastNext30Days)},
			{"Runway", runway},
		},
	}))
	fmt.Println()

	return nil
}
