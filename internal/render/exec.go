package render

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/camarray/internal/rig"
)

// Exec adapts an external renderer command to a render.Func. The command is
// an argv whose elements may contain placeholders, expanded per frame:
//
//	{camera}            rig name
//	{output}            output file path
//	{format}            file extension (png, jpg, tif, exr)
//	{scale}             resolution scale
//	{px} {py} {pz}      camera position
//	{fx} {fy} {fz}      camera forward vector
//	{ux} {uy} {uz}      camera up vector
//	{hide}              "1" when the target should be hidden, else "0"
//
// The command must exit zero and leave a complete file at {output}. A
// missing binary is an environment failure; a non-zero exit is a per-frame
// failure.
type Exec struct {
	Command []string
	Log     *zap.Logger
}

// NewExec creates an exec adapter for the given argv.
func NewExec(command []string, log *zap.Logger) (*Exec, error) {
	if len(command) == 0 {
		return nil, errors.New("render: empty renderer command")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Exec{Command: command, Log: log}, nil
}

// Render runs the renderer command for one rig.
func (e *Exec) Render(ctx context.Context, r rig.Rig, outputPath string, opts Options) error {
	argv := e.expand(r, outputPath, opts)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: renderer command %q not found", ErrEnvironment, argv[0])
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	e.Log.Warn("renderer command failed",
		zap.String("camera", r.Name),
		zap.String("output", strings.TrimSpace(string(out))),
	)
	return fmt.Errorf("renderer exited with error: %w", err)
}

func (e *Exec) expand(r rig.Rig, outputPath string, opts Options) []string {
	hide := "0"
	if opts.HideTarget {
		hide = "1"
	}
	repl := strings.NewReplacer(
		"{camera}", r.Name,
		"{output}", outputPath,
		"{format}", opts.Format.Ext(),
		"{scale}", formatFloat(opts.ResolutionScale),
		"{px}", formatFloat(r.Pose.Position.X),
		"{py}", formatFloat(r.Pose.Position.Y),
		"{pz}", formatFloat(r.Pose.Position.Z),
		"{fx}", formatFloat(r.Pose.Forward.X),
		"{fy}", formatFloat(r.Pose.Forward.Y),
		"{fz}", formatFloat(r.Pose.Forward.Z),
		"{ux}", formatFloat(r.Pose.Up.X),
		"{uy}", formatFloat(r.Pose.Up.Y),
		"{uz}", formatFloat(r.Pose.Up.Z),
		"{hide}", hide,
	)
	argv := make([]string, len(e.Command))
	for i, arg := range e.Command {
		argv[i] = repl.Replace(arg)
	}
	return argv
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}
