package acceptance_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/acceptance"
	"github.com/aretw0/acceptance/pkg/adapters/redis"
	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/aretw0/acceptance/pkg/ports"
	"github.com/aretw0/acceptance/pkg/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flappingProbe reports the host down after the first probe and up after the third.
type flappingProbe struct {
	mu      sync.Mutex
	targets []string
}

func (p *flappingProbe) IsReachable(ctx context.Context, host string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.targets = append(p.targets, host)
	n := len(p.targets)
	return n == 1 || n >= 3, nil
}

type recordingChannel struct {
	mu       sync.Mutex
	address  string
	commands []string
}

func (c *recordingChannel) Run(ctx context.Context, command string, opts ...ports.RunOption) (domain.CommandResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands = append(c.commands, command)
	return domain.CommandResult{}, nil
}

func TestHarness_Reboot(t *testing.T) {
	probe := &flappingProbe{}
	ch := &recordingChannel{}

	h, err := acceptance.New(
		acceptance.WithProbe(probe),
		acceptance.WithChannelFactory(func(address string) ports.CommandChannel {
			ch.address = address
			return ch
		}),
		acceptance.WithHosts(map[string]string{"sle_minion": "10.0.0.12"}),
		acceptance.WithProbeInterval(time.Millisecond),
		acceptance.WithRebootTimeout(time.Second),
	)
	require.NoError(t, err)

	state, err := h.Reboot(context.Background(), "sle_minion")
	require.NoError(t, err)
	assert.Equal(t, domain.HostCommandChannelReady, state)
	assert.Equal(t, "10.0.0.12", ch.address)
	assert.Equal(t, []string{"reboot", "ls"}, ch.commands)
	for _, target := range probe.targets {
		assert.Equal(t, "10.0.0.12", target)
	}

	families, err := h.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families, "lifecycle polls are observed")
}

func TestHarness_InvalidTimeout(t *testing.T) {
	_, err := acceptance.New(acceptance.WithRebootTimeout(0))
	assert.ErrorIs(t, err, domain.ErrInvalidPolicy)
}

func TestHarness_Vars(t *testing.T) {
	h, err := acceptance.New()
	require.NoError(t, err)

	ctx := scenario.WithScope(context.Background(), "features/a.feature")
	require.NoError(t, h.Vars().Set(ctx, "k", "v"))

	value, ok, err := h.Store().Get(ctx, "features/a.feature", "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)
	assert.NoError(t, h.Close())
}

func TestHarness_Handler(t *testing.T) {
	h, err := acceptance.New(acceptance.WithProbe(&flappingProbe{}))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/probe/server", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reachable":true`)
}

func TestNewFromFile(t *testing.T) {
	mr := miniredis.RunT(t)
	path := filepath.Join(t.TempDir(), "acceptance.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: error
reboot_timeout: 20m
hosts:
  server: 10.0.0.1
redis:
  addr: `+mr.Addr()+`
  prefix: "suite:"
`), 0o600))

	h, err := acceptance.NewFromFile(path)
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, 20*time.Minute, h.RebootTimeout())
	assert.Equal(t, domain.DefaultTimeout, h.DefaultTimeout())
	assert.Equal(t, "10.0.0.1", h.Resolve("server"))
	require.IsType(t, &redis.Store{}, h.Store())

	ctx := scenario.WithScope(context.Background(), "features/shared.feature")
	require.NoError(t, h.Vars().Set(ctx, "k", "v"))
	assert.True(t, mr.Exists("suite:features/shared.feature"))

	w := httptest.NewRecorder()
	h.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code, "readiness pings redis")
}

func TestNewFromFile_BadLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acceptance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: chatty\n"), 0o600))

	_, err := acceptance.NewFromFile(path)
	assert.ErrorContains(t, err, "unknown log level")
}
