package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/kiosk"
	"github.com/kozaktomas/face-attendance/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the kiosk web server",
	Long: `Start the attendance kiosk web server.
The kiosk shows a landing page with navigation to employee enrollment and
face check-in. Photos are taken with the camera configured by CAMERA_SOURCE
or CAMERA_COMMAND and sent to the verifier.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (default WEB_PORT or 8090)")
	serveCmd.Flags().String("host", "", "Host to bind to (default WEB_HOST or 0.0.0.0)")
}

func runServe(cmd *cobra.Command, args []string) error {
	configureLogging(slog.LevelInfo)
	cfg := loadConfig()

	if port := mustGetInt(cmd, "port"); port > 0 {
		cfg.Web.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Web.Host = host
	}

	client, err := newGatewayClient(cfg)
	if err != nil {
		return err
	}

	device := camera.DeviceFromConfig(cfg.Camera)
	switch {
	case cfg.Camera.Command != "":
		fmt.Printf("Camera: command %q\n", cfg.Camera.Command)
	case cfg.Camera.Source != "":
		fmt.Printf("Camera: still image %s\n", cfg.Camera.Source)
	default:
		fmt.Printf("Warning: no camera configured, enrollment and check-in will report the camera as unavailable\n")
	}

	nav := kiosk.NewNavigator(client, device, camera.ConstraintsFromConfig(cfg.Camera), cfg.Messages,
		kiosk.WithDelays(cfg.Workflow),
	)
	server := web.NewServer(cfg, nav, client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Verifier: %s\n", client.URL)
	fmt.Printf("Starting Face Attendance kiosk on http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
