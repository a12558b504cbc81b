package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

// errDegraded is returned after printing a degraded health report
var errDegraded = errors.New("server degraded: a worker has stopped")

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server and worker health",
		Long: `Report the server status, the poison policy, every background worker and the
active listener sessions. Exits non-zero when a worker has stopped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := fetchHealth(cmd.Context())
			if err != nil && !errors.Is(err, errDegraded) {
				return err
			}
			output(cmd).Print(result)
			return err
		},
	}
}

// fetchHealth reads the health report. A 503 still carries the report.
func fetchHealth(ctx context.Context) (HealthResult, error) {
	var result HealthResult
	err := client.Get(ctx, "/api/v1/health", &result)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusServiceUnavailable {
		if jsonErr := json.Unmarshal(apiErr.Body, &result); jsonErr != nil {
			return result, fmt.Errorf("failed to parse health report: %w", jsonErr)
		}
		return result, errDegraded
	}
	return result, err
}
