package cli

import (
	"github.com/spf13/cobra"

	"priceview/internal/app"
)

var (
	showProduct string
	showRange   string
	showFormat  string
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print highest, lowest and current price for a selection",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ShowOptions{
			Product: showProduct,
			Range:   showRange,
			Format:  showFormat,
		}
		return getApp().Show(cmd.Context(), opts)
	},
}

func init() {
	showCmd.Flags().StringVar(&showProduct, "product", "", "Product to show (defaults to the first product)")
	showCmd.Flags().StringVar(&showRange, "range", "all-time", "Range: 1-month, 6-months or all-time")
	showCmd.Flags().StringVar(&showFormat, "format", app.FormatTable, "Output format: table, json or yaml")
}
