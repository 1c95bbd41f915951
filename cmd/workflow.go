package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/workflow"
)

// deviceFor returns a file device for an explicit photo, otherwise the
// configured camera.
func deviceFor(cfg *config.Config, photo string) camera.Device {
	if photo != "" {
		return &camera.FileDevice{Path: photo}
	}
	return camera.DeviceFromConfig(cfg.Camera)
}

// runWorkflow drives one screen visit without a UI: acquire the camera, fill
// the form, take the photo and submit. The camera is always released.
func runWorkflow[R any](ctx context.Context, wf *workflow.Controller[R], fields workflow.Fields) (result *R, err error) {
	defer func() {
		if closeErr := wf.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("releasing camera: %w", closeErr)
		}
	}()

	// A device error is kept by the workflow and reported by Submit after the
	// form fields, so validation messages come out in form order.
	startErr := wf.Start(ctx)
	if startErr != nil && !workflow.IsKind(startErr, workflow.KindDevice) {
		return nil, startErr
	}
	if err := wf.SetFields(fields); err != nil {
		return nil, err
	}
	if startErr == nil {
		if _, err := wf.Capture(ctx); err != nil {
			return nil, fmt.Errorf("capturing photo: %w", err)
		}
	}
	return wf.Submit(ctx)
}

// workflowMessage returns the localized text of a workflow error, or the
// plain error text for anything else.
func workflowMessage(err error) string {
	var wfErr *workflow.Error
	if errors.As(err, &wfErr) {
		return wfErr.Message
	}
	return err.Error()
}
