package cli

import (
	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products with observation counts and date spans",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Products(cmd.Context())
	},
}
