package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/gateway"
)

var (
	captureDir string
	language   string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "face-attendance",
	Short: "Face recognition attendance kiosk",
	Long: `Face Attendance is the client side of a face recognition attendance system.
It enrolls employees with a reference photo, checks them in with a selfie and
serves the kiosk web UI. Face matching itself is done by the verifier service
configured with ATTENDANCE_API_URL.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&captureDir, "capture", "", "Directory to save API responses for testing")
	rootCmd.PersistentFlags().StringVar(&language, "lang", "", "Message language (id, en); overrides ATTENDANCE_LANG")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()

	configureLogging(slog.LevelWarn)
}

// configureLogging installs the default structured logger. --verbose always
// wins over the command's own level.
func configureLogging(level slog.Level) {
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig reads the environment and applies the persistent flags.
func loadConfig() *config.Config {
	cfg := config.Load()
	if language != "" {
		cfg.SetLanguage(language)
	}
	return cfg
}

// newGatewayClient creates the verifier client from the configuration.
func newGatewayClient(cfg *config.Config) (*gateway.Client, error) {
	client, err := gateway.New(cfg.Gateway.URL,
		gateway.WithToken(cfg.Gateway.Token),
		gateway.WithTimeout(cfg.Gateway.Timeout),
		gateway.WithCaptureDir(captureDir),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create verifier client: %w", err)
	}
	if captureDir != "" {
		fmt.Printf("Capturing API responses to: %s\n", captureDir)
	}
	return client, nil
}
