package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// errEnoughEvents stops the stream once --count events were printed
var errEnoughEvents = errors.New("received requested events")

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup <listener>",
		Short: "Start broadcasting state updates to a listener session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Listener
			if err := client.Post(cmd.Context(), "/api/v1/listeners/"+pathEscape(args[0])+"/setup", nil, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newTeardownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teardown <listener>",
		Short: "Stop broadcasting to a listener session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/api/v1/listeners/"+pathEscape(args[0])); err != nil {
				return err
			}
			output(cmd).PrintMessage("Listener " + args[0] + " torn down")
			return nil
		},
	}
}

func newEventsCmd() *cobra.Command {
	var (
		jsonOutput bool
		count      int
		noSetup    bool
	)

	cmd := &cobra.Command{
		Use:   "events <listener>",
		Short: "Stream a listener session's events",
		Long: `Set up the listener session (unless --no-setup) and stream its SSE events.

Events:
  - connected: the stream is open
  - system_state_update: the current power level, about every 37ms

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listenerID := args[0]
			if !noSetup {
				if err := client.Post(cmd.Context(), "/api/v1/listeners/"+pathEscape(listenerID)+"/setup", nil, nil); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return streamEvents(ctx, cmd.OutOrStdout(), listenerID, jsonOutput, count)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Stop after this many state updates (0 streams forever)")
	cmd.Flags().BoolVar(&noSetup, "no-setup", false, "Attach to an existing session without setting it up")

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

func streamEvents(ctx context.Context, w io.Writer, listenerID string, jsonOutput bool, count int) error {
	url := client.BaseURL() + "/api/v1/listeners/" + pathEscape(listenerID) + "/events"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// No timeout for SSE
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if !jsonOutput {
		_, _ = fmt.Fprintf(w, "Connected to listener %s\n", listenerID)
	}

	updates := 0
	err = parseSSE(resp.Body, func(event, data string) error {
		printEvent(w, event, data, jsonOutput)
		if event != "connected" {
			updates++
		}
		if count > 0 && updates >= count {
			return errEnoughEvents
		}
		return nil
	})

	switch {
	case errors.Is(err, errEnoughEvents):
		return nil
	case err != nil && ctx.Err() == nil:
		return fmt.Errorf("stream error: %w", err)
	}

	if !jsonOutput {
		_, _ = fmt.Fprintln(w, "Disconnected")
	}
	return nil
}

// parseSSE calls fn for every complete event in r
func parseSSE(r io.Reader, fn func(event, data string) error) error {
	scanner := bufio.NewScanner(r)
	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			if currentEvent != "" {
				if err := fn(currentEvent, strings.Join(dataLines, "\n")); err != nil {
					return err
				}
			}
			currentEvent = ""
			dataLines = nil
		}
	}
	return scanner.Err()
}

func printEvent(w io.Writer, event, data string, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		jsonData, _ := json.Marshal(SSEEvent{Time: now, Event: event, Data: data})
		_, _ = fmt.Fprintln(w, string(jsonData))
		return
	}

	timestamp := now.Format("2006-01-02 15:04:05.000")
	displayData := strings.ReplaceAll(data, "\n", " ")
	if len(displayData) > 100 {
		displayData = displayData[:100] + "..."
	}
	_, _ = fmt.Fprintf(w, "[%s] %s: %s\n", timestamp, event, displayData)
}
