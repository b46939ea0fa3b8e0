package metrics_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/aretw0/acceptance/pkg/metrics"
	"github.com/aretw0/acceptance/pkg/poll"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserver_ObservePoll(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := metrics.NewObserver(reg)

	obs.ObservePoll("wait_for_shutdown", poll.ResultSucceeded, 3, 2*time.Second)
	obs.ObservePoll("wait_for_shutdown", poll.ResultTimeout, 10, time.Minute)

	expected := `
# HELP acceptance_poll_attempts_total Total number of poll attempts by operation
# TYPE acceptance_poll_attempts_total counter
acceptance_poll_attempts_total{operation="wait_for_shutdown"} 13
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "acceptance_poll_attempts_total"))
	assert.Equal(t, 2, testutil.CollectAndCount(reg, "acceptance_polls_total"))
}

func TestObserver_WiredIntoRepeat(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := metrics.NewObserver(reg)

	calls := 0
	_, err := poll.Repeat(context.Background(), domain.TimeoutPolicy{Timeout: time.Second}, func(ctx context.Context) (int, bool, error) {
		calls++
		return calls, calls == 2, nil
	}, poll.WithName("wait_for_restart_network"), poll.WithObserver(obs))
	require.NoError(t, err)

	collectors := obs.Collectors()
	require.Len(t, collectors, 3)
	polls := collectors[0].(*prometheus.CounterVec)
	assert.Equal(t, float64(1), testutil.ToFloat64(polls.WithLabelValues("wait_for_restart_network", poll.ResultSucceeded)))
}

func TestNewObserver_NilRegisterer(t *testing.T) {
	obs := metrics.NewObserver(nil)
	assert.NotPanics(t, func() {
		obs.ObservePoll("x", poll.ResultError, 1, time.Millisecond)
	})
}
