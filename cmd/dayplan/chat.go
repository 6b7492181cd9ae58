package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aixgo-dev/dayplan/internal/observability"
	"github.com/aixgo-dev/dayplan/internal/orchestrator"
)

const timeoutResponse = "⏰ I'm taking longer than expected to respond. This might be due to a complex planning request. Please try simplifying your message or try again."

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive planning conversation",
		RunE:  runChat,
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	g, ctx := errgroup.WithContext(cmd.Context())

	var obs *observability.Server
	if a.cfg.Metrics.Enabled {
		observability.InitMetrics()
		checker := observability.NewChecker()
		checker.Register(&observability.Check{
			Name: "plan_store",
			Probe: func(context.Context) error {
				_, err := os.Stat(a.plans.Dir())
				return err
			},
		})
		obs = observability.NewServer(a.cfg.Metrics.Port, checker)
		g.Go(func() error {
			log.Printf("metrics server listening on :%d", a.cfg.Metrics.Port)
			if err := obs.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	repl(ctx, a)

	if obs != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			log.Printf("metrics server shutdown: %v", err)
		}
	}
	return g.Wait()
}

func repl(ctx context.Context, a *app) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println("🌟 Daily planning assistant ready. Type 'exit' to quit.")

	var history []orchestrator.HistoryEntry
	for {
		input, err := line.Prompt("You: ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println("\nGoodbye! 👋")
				return
			}
			log.Printf("prompt error: %v", err)
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Println("Goodbye! 👋")
			return
		}
		line.AppendHistory(input)

		response := askWithTimeout(ctx, a, input, history)
		fmt.Printf("Assistant: %s\n\n", response)

		history = append(history,
			orchestrator.HistoryEntry{Role: "user", Content: input},
			orchestrator.HistoryEntry{Role: "assistant", Content: response},
		)
	}
}

// askWithTimeout runs one turn on a worker goroutine and abandons the wait
// after the configured deadline. The turn itself is not cancelled: a tool
// call mid-flight still completes and may still write to storage, but a late
// result is dropped rather than shown after the timeout message.
func askWithTimeout(ctx context.Context, a *app, input string, history []orchestrator.HistoryEntry) string {
	result := make(chan string, 1)
	go func() {
		result <- a.assistant.Chat(ctx, input, history, threadID)
	}()

	select {
	case response := <-result:
		return response
	case <-time.After(a.cfg.ResponseTimeout.Std()):
		go func() {
			late := <-result
			log.Printf("dropping late response after timeout: %q", clip(late, 80))
		}()
		return timeoutResponse
	}
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
