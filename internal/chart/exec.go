package chart

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// execCommand allows mocking in tests.
var execCommand = exec.CommandContext

// ExecRenderer pipes the CSV into the external wcchart tool.
type ExecRenderer struct {
	Path   string
	Stdout io.Writer
	Stderr io.Writer
}

// Args builds the wcchart argument list. The title is passed as a single
// argument so no shell quoting is involved.
func Args(req Request) []string {
	return []string{
		"--type", string(req.Kind),
		"--title=" + req.Title,
		"--output", req.Output,
	}
}

func (r *ExecRenderer) Render(ctx context.Context, req Request) error {
	in, err := os.Open(req.Input)
	if err != nil {
		return fmt.Errorf("failed to open chart data: %w", err)
	}
	defer in.Close()

	cmd := execCommand(ctx, r.Path, Args(req)...)
	cmd.Stdin = in
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed for %s: %w", r.Path, req.Output, err)
	}
	return nil
}
