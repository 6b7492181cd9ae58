// Command dayplan is a conversational daily-planning assistant: an
// interactive chat REPL plus one-shot subcommands for plans and status.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags)
var Version = "dev"

var (
	cfgFile     string
	modelFlag   string
	threadID    string
	metricsPort int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dayplan",
		Short: "AI-powered daily planning assistant",
		Long: `Dayplan is a conversational assistant that turns what you want to do
today into a structured, time-organized plan. Chat naturally; when you give
it concrete activities and times it creates, saves and tracks a daily plan.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runChat,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "dayplan.yaml", "config file")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "override the configured model")
	rootCmd.PersistentFlags().StringVar(&threadID, "thread", "", "conversation thread id (scopes memories)")
	rootCmd.PersistentFlags().IntVar(&metricsPort, "metrics-port", -1, "metrics/health server port (0 disables, -1 uses config)")

	rootCmd.AddCommand(
		newChatCmd(),
		newAskCmd(),
		newPlanCmd(),
		newStatusCmd(),
		newToolsCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("dayplan version %s\n", Version)
			},
		},
	)
	return rootCmd
}
