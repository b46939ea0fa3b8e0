package process_test

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/aretw0/acceptance/pkg/adapters/process"
	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/aretw0/acceptance/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Run(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("runner tests rely on a POSIX shell")
	}

	runner := process.NewRunner()
	ctx := context.Background()

	t.Run("Captures Output", func(t *testing.T) {
		result, err := runner.Run(ctx, "echo hello")
		require.NoError(t, err)
		assert.Equal(t, 0, result.ExitCode)
		assert.Equal(t, "hello\n", result.Output)
	})

	t.Run("Non-Zero Exit Is Error By Default", func(t *testing.T) {
		result, err := runner.Run(ctx, "exit 3")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrCommandFailed)
		assert.Equal(t, 3, result.ExitCode)
	})

	t.Run("Non-Zero Exit Without Checks", func(t *testing.T) {
		result, err := runner.Run(ctx, "exit 3", ports.WithCheckErrors(false))
		require.NoError(t, err)
		assert.Equal(t, 3, result.ExitCode)
	})

	t.Run("Per-Call Timeout Reports Not Ready", func(t *testing.T) {
		start := time.Now()
		result, err := runner.Run(ctx, "sleep 5", ports.WithTimeout(50*time.Millisecond), ports.WithCheckErrors(false))
		require.NoError(t, err)
		assert.Equal(t, -1, result.ExitCode)
		assert.Less(t, time.Since(start), 3*time.Second)
	})

	t.Run("Parent Cancellation Is An Error", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := runner.Run(cctx, "true", ports.WithCheckErrors(false))
		assert.Error(t, err)
	})

	t.Run("Passes Environment", func(t *testing.T) {
		r := process.NewRunner(process.WithEnv("ACCEPTANCE_MSG=SecretMessage"))
		result, err := r.Run(ctx, "echo $ACCEPTANCE_MSG")
		require.NoError(t, err)
		assert.Contains(t, result.Output, "SecretMessage")
	})

	t.Run("Prefix Receives Command As Last Argument", func(t *testing.T) {
		r := process.NewRunner(process.WithPrefix("sh", "-c"))
		result, err := r.Run(ctx, "echo via-prefix")
		require.NoError(t, err)
		assert.Equal(t, "via-prefix\n", result.Output)
	})
}

func TestRunner_Exec(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("runner tests rely on a POSIX shell")
	}

	runner := process.NewRunner()

	t.Run("Missing Binary Is An Error", func(t *testing.T) {
		_, err := runner.Exec(context.Background(), "definitely-not-a-real-binary-acceptance")
		assert.Error(t, err)
	})

	t.Run("Exit Code Is A Result", func(t *testing.T) {
		result, err := runner.Exec(context.Background(), "sh", "-c", "exit 1")
		require.NoError(t, err)
		assert.Equal(t, 1, result.ExitCode)
	})
}
