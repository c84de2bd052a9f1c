package cmd

import (
	"fmt"
	"log"
	"os"

	"BassTab/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "basstab_server",
	Short: "BassTab serves sampled-bass track pairs with synced playback.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting BassTab server...")
		// server.Start now handles its own port and logging for startup.
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
