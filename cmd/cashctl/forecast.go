package main

import (
	"fmt"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/cli"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Daily projected cash table",
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().IntVarP(&flagDays, "days", "n", domain.DefaultForecastDays, "Forecast horizon in days")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, _ []string) error {
	eng, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer eng.Close()

	overview, err := eng.reports.Overview(cmd.Context(), eng.orgID, flagDays)
	if err != nil {
		return err
	}
	if len(overview.Forecast) == 0 {
		fmt.Println("\n  Empty horizon.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CASH FORECAST  Next %dd", flagDays)))
	fmt.Println()

	values := make([]decimal.Decimal, 0, len(overview.Forecast))
	rows := make([][]string, 0, len(overview.Forecast))
	for _, day := range overview.Forecast {
		values = append(values, day.ProjectedCash)
		rows = append(rows, []string{
			day.Date.Format(domain.DateLayout),
			cli.FormatDayOfWeek(day.Date),
			cli.FormatAmount(day.ProjectedCash),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Day", "Projected cash"},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Printf("  Trend        %s\n", cli.RenderSparkline(values))
	if overview.LowestPoint != nil {
		fmt.Printf("  Lowest       %s on %s\n", cli.FormatAmount(overview.LowestPoint.ProjectedCash), overview.LowestPoint.Date.Format(domain.DateLayout))
	}
	fmt.Printf("  First < 0    %s\n", cli.FormatDate(overview.FirstNegativeDate))
	fmt.Println()

	return nil
}
