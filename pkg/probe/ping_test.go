package probe_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/aretw0/acceptance/pkg/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Exec(ctx context.Context, name string, args ...string) (domain.CommandResult, error) {
	called := m.Called(ctx, name, args)
	return called.Get(0).(domain.CommandResult), called.Error(1)
}

func TestPinger_IsReachable(t *testing.T) {
	ctx := context.Background()

	t.Run("Zero Exit Is Reachable", func(t *testing.T) {
		exec := new(MockExecutor)
		exec.On("Exec", mock.Anything, "ping", []string{"-c1", "-W1", "minion.tf.local"}).
			Return(domain.CommandResult{Output: "1 received"}, nil)

		up, err := probe.NewPinger(exec).IsReachable(ctx, "minion.tf.local")
		require.NoError(t, err)
		assert.True(t, up)
		exec.AssertExpectations(t)
	})

	t.Run("Non-Zero Exit Is Unreachable", func(t *testing.T) {
		exec := new(MockExecutor)
		exec.On("Exec", mock.Anything, "ping", mock.Anything).
			Return(domain.CommandResult{ExitCode: 1}, nil)

		up, err := probe.NewPinger(exec).IsReachable(ctx, "minion")
		require.NoError(t, err)
		assert.False(t, up)
	})

	t.Run("Options Shape The Invocation", func(t *testing.T) {
		exec := new(MockExecutor)
		exec.On("Exec", mock.Anything, "ping6", []string{"-c1", "-W3", "::1"}).
			Return(domain.CommandResult{}, nil)

		_, err := probe.NewPinger(exec, probe.WithBinary("ping6"), probe.WithReplyWait(3)).IsReachable(ctx, "::1")
		require.NoError(t, err)
		exec.AssertExpectations(t)
	})

	t.Run("Missing Binary Is A Probe Failure", func(t *testing.T) {
		exec := new(MockExecutor)
		exec.On("Exec", mock.Anything, "ping", mock.Anything).
			Return(domain.CommandResult{ExitCode: -1}, errors.New("executable file not found in $PATH"))

		_, err := probe.NewPinger(exec).IsReachable(ctx, "minion")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrProbeFailure)

		var probeErr *domain.ProbeError
		require.True(t, errors.As(err, &probeErr))
		assert.Equal(t, "minion", probeErr.Target)
	})

	t.Run("Cancelled Context Is Not A Probe Failure", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		exec := new(MockExecutor)
		exec.On("Exec", mock.Anything, "ping", mock.Anything).
			Return(domain.CommandResult{ExitCode: -1}, context.Canceled)

		_, err := probe.NewPinger(exec).IsReachable(cctx, "minion")
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, domain.ErrProbeFailure)
	})
}
