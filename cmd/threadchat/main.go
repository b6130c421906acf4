package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ThreadChat/internal/config"
)

var configPath string

// rootCmd starts an interactive chat session
var rootCmd = &cobra.Command{
	Use:   "threadchat",
	Short: "Terminal client for the thread-based chatbot service",
	Long: `ThreadChat sends your messages to the chatbot service and shows its replies.

The service keeps one conversation thread per user id; use ctrl+r in the
full-screen UI or /reset in line mode to start over.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runChat,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default ./threadchat.yaml or ~/.config/threadchat/threadchat.yaml)")
	flags.String("api-url", "", "Chat service base URL (default http://localhost:8080/api)")
	flags.Duration("timeout", 0, "HTTP request timeout, 0 for none")
	flags.StringP("user-id", "u", "", "User id sent with every message")
	flags.String("ui", config.UIAuto, "Front end (auto|tui|line)")
	flags.String("theme", "dark", "Markdown style for replies in the full-screen UI")
	flags.String("log-dir", "logs", "Directory for logs, traces and metrics")
	flags.Bool("debug", false, "Enable debug logging")
	flags.Bool("history", false, "Archive messages in SQLite")
	flags.String("history-db", "threadchat.db", "SQLite archive path")
	flags.Bool("telemetry", true, "Export traces and metrics to the log directory")

	resetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "Number of messages to show, 0 for all")

	rootCmd.AddCommand(sendCmd, resetCmd, healthCmd, historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
