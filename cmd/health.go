package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/gateway"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the verifier is reachable and healthy",
	Long: `Query the verifier's health endpoint.

With --wait the check is repeated until the verifier reports healthy or the
wait time runs out, which is useful in container start scripts.`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)

	healthCmd.Flags().Duration("wait", 0, "Keep retrying for up to this long (e.g. 30s)")
	healthCmd.Flags().Duration("interval", time.Second, "Delay between retries when waiting")
}

func runHealth(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := loadConfig()
	wait := mustGetDuration(cmd, "wait")
	interval := mustGetDuration(cmd, "interval")
	if interval <= 0 {
		return fmt.Errorf("--interval must be positive, got %s", interval)
	}

	client, err := newGatewayClient(cfg)
	if err != nil {
		return err
	}

	health, err := waitHealthy(ctx, client, wait, interval)
	if health != nil {
		fmt.Printf("Verifier: %s\n", client.URL)
		fmt.Printf("Status:   %s\n", health.Status)
		if health.Database != "" {
			fmt.Printf("Database: %s\n", health.Database)
		}
		if health.Message != "" {
			fmt.Printf("Message:  %s\n", health.Message)
		}
	}
	if err != nil {
		return fmt.Errorf("verifier is not healthy: %w", err)
	}
	return nil
}

// healthChecker is the part of the verifier client used by waitHealthy.
type healthChecker interface {
	Health(ctx context.Context) (*gateway.Health, error)
}

// waitHealthy polls until the verifier is healthy. A zero wait means a single
// attempt. The last health payload is returned even on failure.
func waitHealthy(ctx context.Context, client healthChecker, wait, interval time.Duration) (*gateway.Health, error) {
	var last *gateway.Health
	check := func(ctx context.Context) error {
		health, err := client.Health(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}
		last = health
		if !health.Healthy() {
			return retry.RetryableError(fmt.Errorf("status %q", health.Status))
		}
		return nil
	}

	backoff := retry.WithMaxDuration(wait, retry.NewConstant(interval))
	if wait <= 0 {
		backoff = retry.WithMaxRetries(0, retry.NewConstant(interval))
	}
	if err := retry.Do(ctx, backoff, check); err != nil {
		return last, err
	}
	return last, nil
}
