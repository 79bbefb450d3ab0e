package cli

import (
	"github.com/spf13/cobra"

	"priceview/internal/app"
)

var (
	exportProduct string
	exportRange   string
	exportPNGPath string
	exportCSVPath string
	exportWidth   int
	exportHeight  int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a selection as CSV and/or PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ExportOptions{
			Product: exportProduct,
			Range:   exportRange,
			PNGPath: exportPNGPath,
			CSVPath: exportCSVPath,
			Width:   exportWidth,
			Height:  exportHeight,
		}
		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportProduct, "product", "", "Product to export (defaults to the first product)")
	exportCmd.Flags().StringVar(&exportRange, "range", "all-time", "Range: 1-month, 6-months or all-time")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().IntVar(&exportWidth, "width", 0, "Chart width in pixels (defaults to config)")
	exportCmd.Flags().IntVar(&exportHeight, "height", 0, "Chart height in pixels (defaults to config)")
}
