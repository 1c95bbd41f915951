package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/gateway"
	"github.com/kozaktomas/face-attendance/internal/roster"
)

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "List enrolled employees",
	Args:  cobra.NoArgs,
	RunE:  runEmployees,
}

var employeesShowCmd = &cobra.Command{
	Use:   "show <employee>",
	Short: "Show one employee by id or name",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployeesShow,
}

func init() {
	rootCmd.AddCommand(employeesCmd)
	employeesCmd.AddCommand(employeesShowCmd)

	employeesCmd.Flags().String("search", "", "Only show employees whose name matches (diacritics and case are ignored)")
}

func runEmployees(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := loadConfig()

	client, err := newGatewayClient(cfg)
	if err != nil {
		return err
	}

	employees, err := client.ListEmployees(ctx)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}
	if search := mustGetString(cmd, "search"); search != "" {
		employees = roster.Filter(employees, search)
	}

	if len(employees) == 0 {
		fmt.Println("No employees found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tENROLLED")
	for _, e := range employees {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Email, e.Phone, humanize.Time(e.CreatedAt))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nTotal: %d employees\n", len(employees))
	return nil
}

func runEmployeesShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := loadConfig()

	client, err := newGatewayClient(cfg)
	if err != nil {
		return err
	}

	employee, err := findEmployee(ctx, client, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("ID:         %d\n", employee.ID)
	fmt.Printf("Name:       %s\n", employee.Name)
	fmt.Printf("Email:      %s\n", employee.Email)
	if employee.Phone != "" {
		fmt.Printf("Phone:      %s\n", employee.Phone)
	}
	fmt.Printf("Face image: %s\n", employee.FaceImagePath)
	fmt.Printf("Enrolled:   %s (%s)\n", cfg.Messages.FormatTime(employee.CreatedAt), humanize.Time(employee.CreatedAt))
	return nil
}

// findEmployee fetches a numeric id directly and resolves anything else
// against the employee list.
func findEmployee(ctx context.Context, client *gateway.Client, query string) (*gateway.Employee, error) {
	if id, err := strconv.ParseUint(query, 10, 64); err == nil {
		employee, err := client.GetEmployee(ctx, uint(id))
		if gateway.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: id %d", roster.ErrNotFound, id)
		}
		return employee, err
	}
	return roster.Resolve(ctx, client, query)
}
