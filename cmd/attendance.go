package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/gateway"
	"github.com/kozaktomas/face-attendance/internal/workflow"
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "List recent check-ins",
	Long: `List check-ins recorded by the verifier, newest first.

Examples:
  face-attendance attendance --limit 20
  face-attendance attendance --employee "budi"
  face-attendance attendance today 12`,
	Args: cobra.NoArgs,
	RunE: runAttendance,
}

var attendanceTodayCmd = &cobra.Command{
	Use:   "today <employee>",
	Short: "Show whether an employee has checked in today",
	Args:  cobra.ExactArgs(1),
	RunE:  runAttendanceToday,
}

func init() {
	rootCmd.AddCommand(attendanceCmd)
	attendanceCmd.AddCommand(attendanceTodayCmd)

	attendanceCmd.Flags().Int("limit", constants.DefaultAttendanceLimit, "Maximum number of check-ins to list")
	attendanceCmd.Flags().String("employee", "", "Only list check-ins of this employee (id or name)")
}

func runAttendance(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := loadConfig()

	limit := mustGetInt(cmd, "limit")
	if limit < 0 {
		return fmt.Errorf("--limit must not be negative, got %d", limit)
	}

	client, err := newGatewayClient(cfg)
	if err != nil {
		return err
	}

	filter := gateway.AttendanceFilter{Limit: limit}
	if query := mustGetString(cmd, "employee"); query != "" {
		employee, err := findEmployee(ctx, client, query)
		if err != nil {
			return err
		}
		filter.EmployeeID = strconv.FormatUint(uint64(employee.ID), 10)
	}

	attendances, err := client.ListAttendances(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list attendance: %w", err)
	}
	if len(attendances) == 0 {
		fmt.Println("No check-ins found")
		return nil
	}

	return printAttendances(cfg, attendances)
}

func printAttendances(cfg *config.Config, attendances []gateway.Attendance) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMPLOYEE\tTIME\tSIMILARITY\tSTATUS")
	var verified int
	for _, a := range attendances {
		if a.Succeeded() {
			verified++
		}
		fmt.Fprintf(w, "%d\t%s\t%s (%s)\t%s\t%s\n",
			a.ID, a.UserName, cfg.Messages.FormatTime(a.CheckInTime), humanize.Time(a.CheckInTime),
			workflow.FormatPercent(a.SimilarityScore), a.Status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nTotal: %d check-ins, %d verified\n", len(attendances), verified)
	return nil
}

func runAttendanceToday(cmd *cobra.Command, args []string) error {
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

	attendance, err := client.TodayAttendance(ctx, strconv.FormatUint(uint64(employee.ID), 10))
	if err != nil {
		return fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if attendance == nil {
		fmt.Printf("%s has not checked in today\n", employee.Name)
		return nil
	}

	fmt.Printf("%s checked in at %s (%s)\n", employee.Name,
		cfg.Messages.FormatTime(attendance.CheckInTime), humanize.Time(attendance.CheckInTime))
	fmt.Printf("  Similarity: %s\n", workflow.FormatPercent(attendance.SimilarityScore))
	fmt.Printf("  Status:     %s\n", attendance.Status)
	return nil
}
