package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/gateway"
	"github.com/kozaktomas/face-attendance/internal/workflow"
)

var enrollBatchCmd = &cobra.Command{
	Use:   "enroll-batch <manifest.yaml>",
	Short: "Register many employees from a YAML manifest",
	Long: `Register employees listed in a YAML manifest. Photo paths are relative to
the manifest file.

Manifest format:
  employees:
    - name: Budi Santoso
      email: budi@example.com
      phone: "0812345678"
      photo: photos/budi.jpg

Every entry goes through the same validation as the enroll command. Entries
that fail are reported at the end and do not stop the batch.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrollBatch,
}

func init() {
	rootCmd.AddCommand(enrollBatchCmd)

	enrollBatchCmd.Flags().Int("concurrency", constants.DefaultBatchConcurrency, "Number of parallel enrollments")
	enrollBatchCmd.Flags().Bool("dry-run", false, "Validate the manifest without contacting the verifier")
}

// batchManifest is the enroll-batch input file.
type batchManifest struct {
	Employees []batchEntry `yaml:"employees"`
}

type batchEntry struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
	Photo string `yaml:"photo"`
}

// loadBatchManifest parses the manifest and resolves photo paths against its
// directory.
func loadBatchManifest(path string) (*batchManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest batchManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if len(manifest.Employees) == 0 {
		return nil, errors.New("manifest contains no employees")
	}

	dir := filepath.Dir(path)
	for i := range manifest.Employees {
		photo := manifest.Employees[i].Photo
		if photo != "" && !filepath.IsAbs(photo) {
			manifest.Employees[i].Photo = filepath.Join(dir, photo)
		}
	}
	return &manifest, nil
}

// batchFailure records one entry that could not be enrolled.
type batchFailure struct {
	Index int
	Name  string
	Err   error
}

func runEnrollBatch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	concurrency := max(mustGetInt(cmd, "concurrency"), 1)
	dryRun := mustGetBool(cmd, "dry-run")

	manifest, err := loadBatchManifest(args[0])
	if err != nil {
		return err
	}
	cfg := loadConfig()

	if dryRun {
		return printBatchDryRun(manifest)
	}

	client, err := newGatewayClient(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Enrolling %d employees (concurrency: %d)\n\n", len(manifest.Employees), concurrency)

	bar := progressbar.NewOptions(len(manifest.Employees),
		progressbar.OptionSetDescription("Enrolling"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("employees"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		enrolled []gateway.Employee
		failures []batchFailure
	)
	sem := make(chan struct{}, concurrency)

	for i, entry := range manifest.Employees {
		wg.Add(1)
		go func(i int, entry batchEntry) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			ack, err := enrollEntry(ctx, client, cfg, entry)

			mu.Lock()
			if err != nil {
				failures = append(failures, batchFailure{Index: i + 1, Name: entry.Name, Err: err})
			} else {
				enrolled = append(enrolled, ack.Employee)
			}
			mu.Unlock()
			bar.Add(1)
		}(i, entry)
	}
	wg.Wait()

	fmt.Printf("\n\nCompleted: %d enrolled, %d failed\n", len(enrolled), len(failures))
	for _, f := range failures {
		fmt.Printf("  #%d %s: %s\n", f.Index, f.Name, workflowMessage(f.Err))
	}
	if len(failures) > 0 {
		return fmt.Errorf("%d of %d enrollments failed", len(failures), len(manifest.Employees))
	}
	return nil
}

// enrollEntry runs the enrollment workflow for one manifest entry. A missing
// photo surfaces as the workflow's own device error.
func enrollEntry(ctx context.Context, client *gateway.Client, cfg *config.Config, entry batchEntry) (*gateway.EnrollmentAck, error) {
	cam := camera.NewController(&camera.FileDevice{Path: entry.Photo}, camera.ConstraintsFromConfig(cfg.Camera))
	wf := workflow.NewEnrollment(client, cam, cfg.Messages, cfg.Workflow.EnrollRedirectDelay)
	return runWorkflow(ctx, wf, workflow.Fields{
		workflow.FieldName:  entry.Name,
		workflow.FieldEmail: entry.Email,
		workflow.FieldPhone: entry.Phone,
	})
}

func printBatchDryRun(manifest *batchManifest) error {
	var invalid int
	for i, entry := range manifest.Employees {
		var problems []string
		if entry.Name == "" {
			problems = append(problems, "missing name")
		}
		if entry.Email == "" {
			problems = append(problems, "missing email")
		}
		if entry.Photo == "" {
			problems = append(problems, "missing photo")
		} else if _, err := os.Stat(entry.Photo); err != nil {
			problems = append(problems, "photo not readable")
		}

		if len(problems) > 0 {
			invalid++
			fmt.Printf("  #%d %s: %v\n", i+1, entry.Name, problems)
			continue
		}
		fmt.Printf("  #%d %s <%s> %s\n", i+1, entry.Name, entry.Email, entry.Photo)
	}

	fmt.Printf("\n[DRY RUN] %d entries, %d invalid\n", len(manifest.Employees), invalid)
	if invalid > 0 {
		return fmt.Errorf("%d invalid manifest entries", invalid)
	}
	return nil
}
