package camera

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os/exec"
	"strconv"
	"strings"
)

// CommandDevice captures frames by running an external program that writes a
// single image to stdout, e.g.
//
//	fswebcam -q -r {width}x{height} --no-banner -
//
// Placeholders {width}, {height} and {facing} are substituted from the
// constraints.
type CommandDevice struct {
	Command string
}

func (d *CommandDevice) Open(ctx context.Context, c Constraints) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	args := expandCommand(d.Command, c)
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: empty capture command", ErrDeviceUnavailable)
	}
	path, err := exec.LookPath(args[0])
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
		}
		return nil, classifyFileError(args[0], err)
	}
	return &commandStream{path: path, args: args[1:]}, nil
}

// expandCommand splits the command on whitespace and substitutes placeholders.
func expandCommand(command string, c Constraints) []string {
	r := strings.NewReplacer(
		"{width}", strconv.Itoa(c.Width),
		"{height}", strconv.Itoa(c.Height),
		"{facing}", c.FacingMode,
	)
	return strings.Fields(r.Replace(command))
}

type commandStream struct {
	path string
	args []string
}

func (s *commandStream) ReadFrame(ctx context.Context) (image.Image, error) {
	cmd := exec.CommandContext(ctx, s.path, s.args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(strings.ToLower(msg), "permission denied") {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, msg)
		}
		return nil, fmt.Errorf("capture command failed: %w: %s", err, msg)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decode capture output: %w", err)
	}
	return img, nil
}

func (s *commandStream) Close() error { return nil }
