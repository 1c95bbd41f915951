package cmd

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the dashboard overview",
	Long:  "Show the number of enrolled employees, today's verified check-ins and the most recent check-ins.",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := loadConfig()

	client, err := newGatewayClient(cfg)
	if err != nil {
		return err
	}

	overview, err := client.Overview(ctx)
	if err != nil {
		return fmt.Errorf("failed to load overview: %w", err)
	}

	fmt.Printf("Verifier:          %s\n", client.URL)
	fmt.Printf("Employees:         %s\n", humanize.Comma(int64(overview.TotalEmployees)))
	fmt.Printf("Check-ins today:   %s\n", humanize.Comma(int64(overview.TodayCheckIns)))

	if len(overview.Recent) == 0 {
		fmt.Println("\nNo check-ins yet")
		return nil
	}
	fmt.Println("\nRecent check-ins:")
	for _, a := range overview.Recent {
		fmt.Printf("  %-24s %-8s %s\n", a.UserName, a.Status, humanize.Time(a.CheckInTime))
	}
	return nil
}
