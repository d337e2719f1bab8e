package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	timeout   time.Duration
)

// rootCmd is the operator CLI for a dronevox server
var rootCmd = &cobra.Command{
	Use:   "dronectl",
	Short: "Issue spoken-style drone commands from the terminal",
	Long: `dronectl talks to a dronevox server.

Available subcommands:
  interpret - Show how a transcript is understood (offline)
  send      - Process a transcript on the server and dispatch it
  stream    - Send stdin lines over the voice websocket`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:8080", "dronevox server base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")

	rootCmd.AddCommand(interpretCmd, sendCmd, streamCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
