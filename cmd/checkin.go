package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/gateway"
	"github.com/kozaktomas/face-attendance/internal/roster"
	"github.com/kozaktomas/face-attendance/internal/workflow"
)

var checkinCmd = &cobra.Command{
	Use:   "checkin <employee>",
	Short: "Check an employee in with a selfie",
	Long: `Check an employee in. The employee is given by id or by name; a partial name
works as long as it matches a single employee (diacritics and case are ignored).

The selfie is taken from --photo when given, otherwise from the configured
camera. The verifier compares it with the enrolled reference photo.

Examples:
  face-attendance checkin 12 --photo selfie.jpg
  face-attendance checkin "budi"`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckin,
}

func init() {
	rootCmd.AddCommand(checkinCmd)

	checkinCmd.Flags().String("photo", "", "Selfie file (default: configured camera)")
}

func runCheckin(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := loadConfig()

	client, err := newGatewayClient(cfg)
	if err != nil {
		return err
	}

	employee, err := roster.Resolve(ctx, client, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Checking in %s (#%d)...\n", employee.Name, employee.ID)

	cam := camera.NewController(deviceFor(cfg, mustGetString(cmd, "photo")), camera.ConstraintsFromConfig(cfg.Camera))
	wf := workflow.NewCheckIn(client, cam, cfg.Messages, cfg.Workflow.CheckInRedirectDelay)

	result, err := runWorkflow(ctx, wf, workflow.Fields{
		workflow.FieldEmployeeID: strconv.FormatUint(uint64(employee.ID), 10),
	})
	if result != nil {
		printCheckInSummary(cfg, result)
	}
	switch {
	case workflow.IsKind(err, workflow.KindRejection):
		return errors.New("verification failed")
	case err != nil:
		return fmt.Errorf("check-in failed: %s", workflowMessage(err))
	}
	return nil
}

func printCheckInSummary(cfg *config.Config, result *gateway.VerificationResult) {
	summary := workflow.SummarizeCheckIn(result, cfg.Messages)

	fmt.Printf("\n%s\n", summary.Headline)
	if summary.Message != "" {
		fmt.Printf("  %s\n", summary.Message)
	}
	if summary.EmployeeName != "" {
		fmt.Printf("  Employee:   %s\n", summary.EmployeeName)
	}
	if summary.CheckInTime != "" {
		fmt.Printf("  Time:       %s\n", summary.CheckInTime)
	}
	fmt.Printf("  Similarity: %s\n", summary.Similarity)
	fmt.Printf("  Threshold:  %s\n", summary.Threshold)
}
