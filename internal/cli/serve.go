package cli

import (
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive price dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := getApp()
		if servePort > 0 {
			a.Config.Server.Port = servePort
		}
		return a.Serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Override server.port")
}
