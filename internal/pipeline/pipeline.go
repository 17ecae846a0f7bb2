// Package pipeline runs a generation step followed by the external
// transformation commands, in order, stopping at the first failure.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"

	"antmart/pkg/errors"
)

// Step is one unit of a pipeline run
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// StepResult records how a step went
type StepResult struct {
	Name     string
	Duration time.Duration
	Err      error
}

// FuncStep wraps an in-process function
func FuncStep(name string, fn func(ctx context.Context) error) Step {
	return Step{Name: name, Run: fn}
}

// CommandStep runs an external command. The command line is split with shell
// quoting rules but is not passed through a shell.
func CommandStep(command, workDir string, stdout, stderr io.Writer) (Step, error) {
	args, err := shellquote.Split(command)
	if err != nil {
		return Step{}, errors.Wrap(err, errors.ErrCodeConfigInvalid, fmt.Sprintf("cannot parse command %q", command))
	}
	if len(args) == 0 {
		return Step{}, errors.ConfigError("empty pipeline command", "pipeline")
	}

	return Step{
		Name: command,
		Run: func(ctx context.Context) error {
			cmd := exec.CommandContext(ctx, args[0], args[1:]...) // #nosec G204 - commands come from the operator's config
			cmd.Dir = workDir
			cmd.Stdout = stdout
			cmd.Stderr = stderr
			return cmd.Run()
		},
	}, nil
}

// CommandSteps builds one step per configured command
func CommandSteps(commands []string, workDir string, stdout, stderr io.Writer) ([]Step, error) {
	steps := make([]Step, 0, len(commands))
	for _, c := range commands {
		s, err := CommandStep(c, workDir, stdout, stderr)
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, nil
}

// Runner executes steps sequentially
type Runner struct {
	steps  []Step
	logger zerolog.Logger
}

// NewRunner creates a runner over steps
func NewRunner(logger zerolog.Logger, steps ...Step) *Runner {
	return &Runner{steps: steps, logger: logger}
}

// Add appends steps
func (r *Runner) Add(steps ...Step) {
	r.steps = append(r.steps, steps...)
}

// Run executes each step in order. The first failure stops the run and is
// returned; results cover every step attempted.
func (r *Runner) Run(ctx context.Context) ([]StepResult, error) {
	results := make([]StepResult, 0, len(r.steps))
	for i, s := range r.steps {
		start := time.Now()
		r.logger.Info().Int("step", i+1).Str("name", s.Name).Msg("step started")

		err := runStep(ctx, s)
		res := StepResult{Name: s.Name, Duration: time.Since(start), Err: err}
		results = append(results, res)

		if err != nil {
			r.logger.Error().Err(err).Int("step", i+1).Str("name", s.Name).Msg("step failed")
			if errors.GetErrorCode(err) != errors.ErrCodeInternal {
				return results, err
			}
			return results, errors.Wrap(err, errors.ErrCodeExternalStep, fmt.Sprintf("step %d (%s) failed", i+1, s.Name)).
				WithContext("step", s.Name)
		}
		r.logger.Info().Int("step", i+1).Str("name", s.Name).Dur("duration", res.Duration).Msg("step finished")
	}
	return results, nil
}

// runStep turns a panicking step into an error
func runStep(ctx context.Context, s Step) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeInternal, fmt.Sprintf("step %s panicked: %v", s.Name, r)).
				WithSeverity(errors.SeverityCritical).
				WithContext("step", s.Name)
		}
	}()
	return s.Run(ctx)
}
