package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"antmart/pkg/errors"
)

func TestRunnerStopsAtFirstFailure(t *testing.T) {
	var calls []string
	step := func(name string, err error) Step {
		return FuncStep(name, func(ctx context.Context) error {
			calls = append(calls, name)
			return err
		})
	}

	r := NewRunner(zerolog.Nop(), step("generate", nil), step("transform", fmt.Errorf("exit status 2")))
	r.Add(step("test", nil))

	results, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"generate", "transform"}, calls)
	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Equal(t, errors.ErrCodeExternalStep, errors.GetErrorCode(err))
	assert.Contains(t, err.Error(), "step 2 (transform) failed")
}

func TestRunnerKeepsApplicationErrors(t *testing.T) {
	appErr := errors.WriteFailure("/data/seeds/users.csv", fmt.Errorf("disk full"))
	r := NewRunner(zerolog.Nop(), FuncStep("generate", func(ctx context.Context) error { return appErr }))

	_, err := r.Run(context.Background())
	assert.Same(t, appErr, err)
}

func TestRunnerSuccess(t *testing.T) {
	r := NewRunner(zerolog.Nop(),
		FuncStep("a", func(ctx context.Context) error { return nil }),
		FuncStep("b", func(ctx context.Context) error { return nil }),
	)

	results, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestCommandStep(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}

	var stdout, stderr bytes.Buffer
	step, err := CommandStep(`echo "dbt seed" done`, t.TempDir(), &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, `echo "dbt seed" done`, step.Name)

	require.NoError(t, step.Run(context.Background()))
	assert.Equal(t, "dbt seed done\n", stdout.String())
}

func TestCommandStepFailure(t *testing.T) {
	step, err := CommandStep("definitely-not-a-real-binary-antmart --flag", t.TempDir(), nil, nil)
	require.NoError(t, err)

	r := NewRunner(zerolog.Nop(), step)
	_, err = r.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeExternalStep, errors.GetErrorCode(err))
}

func TestCommandStepsRejectBadInput(t *testing.T) {
	_, err := CommandSteps([]string{"dbt run", "   "}, ".", nil, nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetErrorCode(err))

	_, err = CommandSteps([]string{`dbt run --select "unterminated`}, ".", nil, nil)
	require.Error(t, err)
}

func TestRunnerRecoversPanickingStep(t *testing.T) {
	r := NewRunner(zerolog.Nop(), FuncStep("generate", func(ctx context.Context) error {
		panic("unknown destination")
	}))

	results, err := r.Run(context.Background())
	require.Error(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Err.Error(), "generate panicked: unknown destination")
	assert.True(t, errors.HasCode(err, errors.ErrCodeExternalStep))
}
