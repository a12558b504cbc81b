package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newTimerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Timer list commands",
	}

	cmd.AddCommand(newTimerPushCmd())
	cmd.AddCommand(newTimerListCmd())
	cmd.AddCommand(newTimerGetCmd())

	return cmd
}

func newTimerPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push <seconds>",
		Short: "Append a countdown timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := strconv.ParseUint(args[0], 10, 63)
			if err != nil {
				return fmt.Errorf("invalid seconds %q: must be a non-negative integer", args[0])
			}

			req := map[string]uint64{"seconds": seconds}
			var result Timer
			if err := client.Post(cmd.Context(), "/api/v1/timers", req, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newTimerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all timers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result TimerList
			if err := client.Get(cmd.Context(), "/api/v1/timers", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newTimerGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <index>",
		Short: "Show the timer at a 0-based index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil || index < 0 {
				return fmt.Errorf("invalid index %q: must be a non-negative integer", args[0])
			}

			var result Timer
			if err := client.Get(cmd.Context(), "/api/v1/timers/"+strconv.Itoa(index), &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func queryEscape(s string) string {
	return url.QueryEscape(s)
}

func pathEscape(s string) string {
	return url.PathEscape(s)
}
