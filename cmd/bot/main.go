// Package main provides the Planet Ban bot entry point.
package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bot",
	Short: "Planet Ban Telegram bot",
	Long: `Telegram bot for the Planet Ban stores.

Commands answered in chat: /start, /help, /laporan and /hadir <passcode>.
Errors escaping a handler are reported to every id in DEVELOPERS.

Configuration comes from .env, the environment and an optional YAML file
named by BOT_SETTINGS.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, hadirCmd, reportCmd)
}
