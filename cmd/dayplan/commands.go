package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aixgo-dev/dayplan/internal/plan"
)

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [message...]",
		Short: "Send a single message and print the response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			response := a.assistant.Chat(cmd.Context(), strings.Join(args, " "), nil, threadID)
			fmt.Println(response)
			return nil
		},
	}
}

func newPlanCmd() *cobra.Command {
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Work with saved daily plans",
	}

	planCmd.AddCommand(&cobra.Command{
		Use:   "create [goals...]",
		Short: "Create a daily plan from a goal description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			fmt.Println(a.assistant.CreatePlanFromText(cmd.Context(), strings.Join(args, " ")))
			return nil
		},
	})

	planCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved plans, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			summaries, err := a.plans.List()
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Println("No saved plans found.")
				return nil
			}
			for _, s := range summaries {
				fmt.Printf("📅 %s - %d tasks (Created: %s) - File: %s\n",
					s.Date, s.TaskCount, s.CreatedAt, s.Location)
			}
			return nil
		},
	})

	planCmd.AddCommand(&cobra.Command{
		Use:   "export [file]",
		Short: "Export a plan as a markdown checklist (latest when no file given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			var p *plan.Plan
			if len(args) == 1 {
				p, err = a.plans.Load(args[0])
			} else {
				p, _, err = a.plans.Latest()
			}
			if err != nil {
				return err
			}
			if p == nil {
				fmt.Println("No saved plans found.")
				return nil
			}
			fmt.Println(p.ExportMarkdown())
			return nil
		},
	})

	return planCmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show completion status of the latest plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			fmt.Println(a.assistant.PlanStatus())
			return nil
		},
	}
}

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools available to the assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			fmt.Println(a.assistant.ListAvailableTools())
			return nil
		},
	}
}
