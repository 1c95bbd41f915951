package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/workflow"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll",
	Short: "Register an employee with a reference face photo",
	Long: `Register a new employee with the verifier.

The reference photo is taken from --photo when given, otherwise from the
configured camera. The photo is scaled to the capture size and sent as JPEG.

Examples:
  face-attendance enroll --name "Budi Santoso" --email budi@example.com --photo budi.jpg
  face-attendance enroll --name "Siti" --email siti@example.com --phone 0812345678`,
	Args: cobra.NoArgs,
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().String("name", "", "Full name of the employee")
	enrollCmd.Flags().String("email", "", "Email address of the employee")
	enrollCmd.Flags().String("phone", "", "Phone number (optional)")
	enrollCmd.Flags().String("photo", "", "Reference photo file (default: configured camera)")
}

func runEnroll(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := loadConfig()

	client, err := newGatewayClient(cfg)
	if err != nil {
		return err
	}

	cam := camera.NewController(deviceFor(cfg, mustGetString(cmd, "photo")), camera.ConstraintsFromConfig(cfg.Camera))
	wf := workflow.NewEnrollment(client, cam, cfg.Messages, cfg.Workflow.EnrollRedirectDelay)

	ack, err := runWorkflow(ctx, wf, workflow.Fields{
		workflow.FieldName:  mustGetString(cmd, "name"),
		workflow.FieldEmail: mustGetString(cmd, "email"),
		workflow.FieldPhone: mustGetString(cmd, "phone"),
	})
	if err != nil {
		return fmt.Errorf("enrollment failed: %s", workflowMessage(err))
	}

	fmt.Println(cfg.Messages.Text("enroll.succeeded"))
	if ack.Message != "" {
		fmt.Printf("  %s\n", ack.Message)
	}
	fmt.Printf("  ID:    %d\n", ack.Employee.ID)
	fmt.Printf("  Name:  %s\n", ack.Employee.Name)
	fmt.Printf("  Email: %s\n", ack.Employee.Email)
	if ack.Employee.Phone != "" {
		fmt.Printf("  Phone: %s\n", ack.Employee.Phone)
	}
	return nil
}
